package helpers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "booking-scraper/pkg/errors"
)

func TestFetch(t *testing.T) {
	// Create a test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body><p id=\"greeting\">Hello, World!</p></body></html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	doc, err := fetcher.Fetch(context.Background(), server.URL)
	assert.NoError(t, err)
	assert.Equal(t, "Hello, World!", doc.Find("#greeting").Text())
}

func TestFetchNonUTF8(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>Hello, World!</body></html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	doc, err := fetcher.Fetch(context.Background(), server.URL)
	assert.NoError(t, err)
	assert.Contains(t, doc.Find("body").Text(), "Hello, World!")
}

func TestFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(5 * time.Second)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFetch))
	assert.Contains(t, err.Error(), "unexpected status code 500")

	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	_, err = fetcher.Fetch(context.Background(), notFound.URL)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFetch))
}

func TestFetchConnectionFailure(t *testing.T) {
	fetcher := NewFetcher(1 * time.Second)
	_, err := fetcher.Fetch(context.Background(), "http://127.0.0.1:1")
	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFetch))
}
