package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"booking-scraper/internal/listing"
	"booking-scraper/logger"
	apperrors "booking-scraper/pkg/errors"
	"booking-scraper/services/store"
)

// defaultListLimit caps /ads responses when no limit is given.
const defaultListLimit = 10

// ScrapeService runs the scrape pipeline for one URL.
type ScrapeService interface {
	Scrape(ctx context.Context, rawURL string) (*listing.StoredRecord, error)
}

// Handler holds the request handlers for the scraper API.
type Handler struct {
	scraper ScrapeService
	store   store.Store
	log     *logger.Logger
}

// NewHandler creates a Handler with injected collaborators.
func NewHandler(scraper ScrapeService, st store.Store) *Handler {
	return &Handler{
		scraper: scraper,
		store:   st,
		log:     logger.ForAPI(),
	}
}

// Router builds the service's route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(h.loggingMiddleware)

	r.HandleFunc("/scrape", h.HandleScrape).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/ads", h.HandleListAds).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/ads/{id:[0-9]+}", h.HandleGetAd).Methods(http.MethodGet, http.MethodOptions)

	return r
}

// HandleScrape scrapes the listing at the given url and returns the stored
// row. Fetch failures map to 502, storage failures to 500.
func (h *Handler) HandleScrape(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, apperrors.NewValidation("scrape", "url query parameter is required"))
		return
	}

	stored, err := h.scraper.Scrape(r.Context(), rawURL)
	if err != nil {
		h.log.Error().Err(err).Str("url", rawURL).Msg("Scrape failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   stored,
	})
}

// HandleHealth reports liveness. It has no side effects and cannot fail.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleListAds returns the most recently scraped records, newest first.
func (h *Handler) HandleListAds(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, apperrors.NewValidation("list", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	ads, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Listing ads failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"count":  len(ads),
		"ads":    ads,
	})
}

// HandleGetAd returns one record by numeric id, 404 when absent.
func (h *Handler) HandleGetAd(w http.ResponseWriter, r *http.Request) {
	// The route pattern guarantees digits.
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	ad, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			h.log.Error().Err(err).Int64("id", id).Msg("Fetching ad failed")
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   ad,
	})
}
