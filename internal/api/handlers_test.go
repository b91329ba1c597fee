package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-scraper/internal/listing"
	apperrors "booking-scraper/pkg/errors"
)

// mockScrapeService returns a canned record or error
type mockScrapeService struct {
	record *listing.StoredRecord
	err    error
	gotURL string
}

func (m *mockScrapeService) Scrape(ctx context.Context, rawURL string) (*listing.StoredRecord, error) {
	m.gotURL = rawURL
	if m.err != nil {
		return nil, m.err
	}
	return m.record, nil
}

// mockStore serves canned rows for the read endpoints
type mockStore struct {
	ads     []listing.StoredRecord
	listErr error
}

func (m *mockStore) Upsert(ctx context.Context, rec listing.Record) (*listing.StoredRecord, error) {
	return nil, apperrors.NewStorage("upsert", "not implemented in mock", nil)
}

func (m *mockStore) ListRecent(ctx context.Context, limit int) ([]listing.StoredRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit > len(m.ads) {
		limit = len(m.ads)
	}
	return m.ads[:limit], nil
}

func (m *mockStore) GetByID(ctx context.Context, id int64) (*listing.StoredRecord, error) {
	for _, ad := range m.ads {
		if ad.ID == id {
			copied := ad
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFound("get", "ad not found")
}

func (m *mockStore) Close() {}

func sampleRecord(id int64) listing.StoredRecord {
	return listing.StoredRecord{
		ID: id,
		Record: listing.Record{
			URL:            "https://example.com/hotel/x",
			URLHash:        listing.Hash("https://example.com/hotel/x"),
			ImageURLs:      []string{"https://example.com/xdata/images/hotel/1.jpg"},
			Description:    "desc",
			MainFacilities: []string{"WiFi"},
			CalendarPrices: listing.PriceCalendar{"2024-03-01": 120},
			ScrapedAt:      time.Now().UTC(),
		},
	}
}

func doRequest(t *testing.T, h *Handler, method, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHandleScrape(t *testing.T) {
	record := sampleRecord(7)
	svc := &mockScrapeService{record: &record}
	h := NewHandler(svc, &mockStore{})

	rec, body := doRequest(t, h, http.MethodGet, "/scrape?url=https%3A%2F%2Fexample.com%2Fhotel%2Fx%3Fcheckin%3D2024-01-01")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "https://example.com/hotel/x?checkin=2024-01-01", svc.gotURL)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["id"])
	assert.Equal(t, record.URLHash, data["url_hash"])
}

func TestHandleScrapeMissingURL(t *testing.T) {
	h := NewHandler(&mockScrapeService{}, &mockStore{})

	rec, body := doRequest(t, h, http.MethodGet, "/scrape")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["detail"], "url query parameter is required")
}

func TestHandleScrapeFetchFailure(t *testing.T) {
	svc := &mockScrapeService{err: apperrors.NewFetch("fetch", "unexpected status code 503", nil)}
	h := NewHandler(svc, &mockStore{})

	rec, body := doRequest(t, h, http.MethodGet, "/scrape?url=https%3A%2F%2Fexample.com%2Fhotel%2Fx")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestHandleScrapeStorageFailure(t *testing.T) {
	svc := &mockScrapeService{err: apperrors.NewStorage("upsert", "empty response from store", nil)}
	h := NewHandler(svc, &mockStore{})

	rec, _ := doRequest(t, h, http.MethodGet, "/scrape?url=https%3A%2F%2Fexample.com%2Fhotel%2Fx")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	h := NewHandler(&mockScrapeService{}, &mockStore{})

	rec, body := doRequest(t, h, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	assert.NoError(t, err)
}

func TestHandleListAds(t *testing.T) {
	st := &mockStore{ads: []listing.StoredRecord{sampleRecord(1), sampleRecord(2), sampleRecord(3)}}
	h := NewHandler(&mockScrapeService{}, st)

	rec, body := doRequest(t, h, http.MethodGet, "/ads?limit=2")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["ads"], 2)

	// Default limit applies when the parameter is absent.
	rec, body = doRequest(t, h, http.MethodGet, "/ads")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), body["count"])
}

func TestHandleListAdsBadLimit(t *testing.T) {
	h := NewHandler(&mockScrapeService{}, &mockStore{})

	rec, _ := doRequest(t, h, http.MethodGet, "/ads?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, h, http.MethodGet, "/ads?limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetAd(t *testing.T) {
	st := &mockStore{ads: []listing.StoredRecord{sampleRecord(42)}}
	h := NewHandler(&mockScrapeService{}, st)

	rec, body := doRequest(t, h, http.MethodGet, "/ads/42")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(42), data["id"])
}

func TestHandleGetAdNotFound(t *testing.T) {
	h := NewHandler(&mockScrapeService{}, &mockStore{})

	rec, body := doRequest(t, h, http.MethodGet, "/ads/99")

	// Never a success envelope with null data.
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.NotContains(t, body, "data")
}

func TestHandleGetAdNonNumericID(t *testing.T) {
	h := NewHandler(&mockScrapeService{}, &mockStore{})

	req := httptest.NewRequest(http.MethodGet, "/ads/not-a-number", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := NewHandler(&mockScrapeService{}, &mockStore{})

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
