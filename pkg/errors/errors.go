package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeFetch represents failures reaching the listing page
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeBrowser represents headless-browser failures
	ErrorTypeBrowser ErrorType = "browser"
	// ErrorTypeStorage represents persistence failures
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeNotFound represents lookups for records that do not exist
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation represents invalid request parameters
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents a pipeline-specific error
type ScrapeError struct {
	Type    ErrorType
	Op      string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error type to the status code surfaced to API callers.
func (e *ScrapeError) HTTPStatus() int {
	switch e.Type {
	case ErrorTypeFetch:
		return http.StatusBadGateway
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, op, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Op:      op,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFetch creates a new fetch error
func NewFetch(op, message string, err error) *ScrapeError {
	return New(ErrorTypeFetch, op, message, err)
}

// NewBrowser creates a new browser error
func NewBrowser(op, message string, err error) *ScrapeError {
	return New(ErrorTypeBrowser, op, message, err)
}

// NewStorage creates a new storage error
func NewStorage(op, message string, err error) *ScrapeError {
	return New(ErrorTypeStorage, op, message, err)
}

// NewNotFound creates a new not-found error
func NewNotFound(op, message string) *ScrapeError {
	return New(ErrorTypeNotFound, op, message, nil)
}

// NewValidation creates a new validation error
func NewValidation(op, message string) *ScrapeError {
	return New(ErrorTypeValidation, op, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "config", message, err)
}

// IsType reports whether err is a ScrapeError of the given type.
func IsType(err error, errType ErrorType) bool {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se.Type == errType
	}
	return false
}

// StatusFor returns the HTTP status for err, defaulting to 500 for untyped errors.
func StatusFor(err error) int {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se.HTTPStatus()
	}
	return http.StatusInternalServerError
}
