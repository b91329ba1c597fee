package scraper

import (
	"context"
	"encoding/json"
	"time"

	"booking-scraper/helpers"
	"booking-scraper/internal/listing"
	"booking-scraper/logger"
	"booking-scraper/services/publisher"
	"booking-scraper/services/store"
)

// Service orchestrates one scrape: normalize, fetch, extract, assemble,
// persist, notify. All collaborators are injected at construction.
type Service struct {
	fetcher  *helpers.Fetcher
	calendar CalendarExtractor
	store    store.Store
	pub      publisher.Publisher
	log      *logger.Logger
}

// NewService creates a scrape service. pub may be nil when notifications are
// disabled.
func NewService(fetcher *helpers.Fetcher, calendar CalendarExtractor, st store.Store, pub publisher.Publisher) *Service {
	return &Service{
		fetcher:  fetcher,
		calendar: calendar,
		store:    st,
		pub:      pub,
		log:      logger.ForScraper(),
	}
}

// Scrape runs the full pipeline for one listing URL and returns the stored
// row. Fetch and storage failures are returned typed; calendar extraction is
// best-effort and never fails the scrape.
func (s *Service) Scrape(ctx context.Context, rawURL string) (*listing.StoredRecord, error) {
	canonical := listing.Canonicalize(rawURL)
	hash := listing.Hash(canonical)

	s.log.Info().Str("url", canonical).Str("url_hash", hash).Msg("Scrape started")

	doc, err := s.fetcher.Fetch(ctx, canonical)
	if err != nil {
		return nil, err
	}

	fields := ExtractStaticFields(doc, canonical)
	s.log.Info().
		Int("images", len(fields.ImageURLs)).
		Int("facilities", len(fields.MainFacilities)).
		Msg("Static fields extracted")

	cal := s.calendar.ExtractPrices(ctx, canonical)

	rec := listing.Record{
		URL:            canonical,
		URLHash:        hash,
		ImageURLs:      fields.ImageURLs,
		Description:    fields.Description,
		MainFacilities: fields.MainFacilities,
		CalendarPrices: cal.Prices,
		ScrapedAt:      time.Now().UTC(),
	}

	stored, err := s.store.Upsert(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.publish(stored)

	s.log.Info().
		Int64("id", stored.ID).
		Int("calendar_dates", len(stored.CalendarPrices)).
		Msg("Record saved")

	return stored, nil
}

// publish sends the stored record to the notification stream, if configured.
// Failures are logged and dropped.
func (s *Service) publish(stored *listing.StoredRecord) {
	if s.pub == nil {
		return
	}

	data, err := json.Marshal(stored)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to encode record for publishing")
		return
	}
	if err := s.pub.Publish(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to publish record")
	}
}
