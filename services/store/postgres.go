package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"booking-scraper/internal/listing"
	apperrors "booking-scraper/pkg/errors"
)

// PostgresStore implements Store on a pgx connection pool. Structured columns
// (image_urls, main_facilities, calendar_prices) are stored as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and verifies the connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, databaseURL)
	if err != nil {
		return nil, apperrors.NewStorage("connect", "failed to create postgres pool", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, apperrors.NewStorage("connect", "failed to connect postgres", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the booking_ads table when missing. url_hash carries
// the unique constraint the upsert conflicts on.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	schemaCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	sql := `
	CREATE TABLE IF NOT EXISTS booking_ads (
		id BIGSERIAL PRIMARY KEY,
		url TEXT NOT NULL,
		url_hash TEXT NOT NULL UNIQUE,
		image_urls JSONB NOT NULL DEFAULT '[]'::jsonb,
		description TEXT NOT NULL DEFAULT '',
		main_facilities JSONB NOT NULL DEFAULT '[]'::jsonb,
		calendar_prices JSONB NOT NULL DEFAULT '{}'::jsonb,
		scraped_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_booking_ads_scraped_at ON booking_ads(scraped_at DESC);
	`

	if _, err := s.pool.Exec(schemaCtx, sql); err != nil {
		return apperrors.NewStorage("schema", "failed to ensure schema", err)
	}
	return nil
}

const recordColumns = `id, url, url_hash, image_urls, description, main_facilities, calendar_prices, scraped_at`

// Upsert inserts the record or overwrites the existing row with the same
// url_hash. Duplicate-ignoring is deliberately not used: a re-scrape must
// replace the stored fields.
func (s *PostgresStore) Upsert(ctx context.Context, rec listing.Record) (*listing.StoredRecord, error) {
	images, err := json.Marshal(rec.ImageURLs)
	if err != nil {
		return nil, apperrors.NewStorage("upsert", "failed to encode image_urls", err)
	}
	facilities, err := json.Marshal(rec.MainFacilities)
	if err != nil {
		return nil, apperrors.NewStorage("upsert", "failed to encode main_facilities", err)
	}
	prices, err := json.Marshal(rec.CalendarPrices)
	if err != nil {
		return nil, apperrors.NewStorage("upsert", "failed to encode calendar_prices", err)
	}

	sql := fmt.Sprintf(`
	INSERT INTO booking_ads (url, url_hash, image_urls, description, main_facilities, calendar_prices, scraped_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (url_hash) DO UPDATE SET
		url = EXCLUDED.url,
		image_urls = EXCLUDED.image_urls,
		description = EXCLUDED.description,
		main_facilities = EXCLUDED.main_facilities,
		calendar_prices = EXCLUDED.calendar_prices,
		scraped_at = EXCLUDED.scraped_at
	RETURNING %s;`, recordColumns)

	row := s.pool.QueryRow(ctx, sql,
		rec.URL, rec.URLHash, images, rec.Description, facilities, prices, rec.ScrapedAt)

	stored, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStorage("upsert", "empty response from store", nil)
		}
		return nil, apperrors.NewStorage("upsert", "failed to upsert record", err)
	}
	return stored, nil
}

// ListRecent returns the most recently scraped records, newest first.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]listing.StoredRecord, error) {
	sql := fmt.Sprintf(`SELECT %s FROM booking_ads ORDER BY scraped_at DESC LIMIT $1;`, recordColumns)

	rows, err := s.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, apperrors.NewStorage("list", "failed to query records", err)
	}
	defer rows.Close()

	records := make([]listing.StoredRecord, 0, limit)
	for rows.Next() {
		stored, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.NewStorage("list", "failed to scan record", err)
		}
		records = append(records, *stored)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorage("list", "failed to read records", err)
	}
	return records, nil
}

// GetByID returns a single record by its row id.
func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*listing.StoredRecord, error) {
	sql := fmt.Sprintf(`SELECT %s FROM booking_ads WHERE id = $1;`, recordColumns)

	stored, err := scanRecord(s.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("get", fmt.Sprintf("ad %d not found", id))
		}
		return nil, apperrors.NewStorage("get", "failed to query record", err)
	}
	return stored, nil
}

// scanRecord decodes one row into a StoredRecord, unmarshalling the JSONB
// columns.
func scanRecord(row pgx.Row) (*listing.StoredRecord, error) {
	var (
		stored     listing.StoredRecord
		images     []byte
		facilities []byte
		prices     []byte
	)

	err := row.Scan(
		&stored.ID,
		&stored.URL,
		&stored.URLHash,
		&images,
		&stored.Description,
		&facilities,
		&prices,
		&stored.ScrapedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(images, &stored.ImageURLs); err != nil {
		return nil, fmt.Errorf("failed to decode image_urls: %w", err)
	}
	if err := json.Unmarshal(facilities, &stored.MainFacilities); err != nil {
		return nil, fmt.Errorf("failed to decode main_facilities: %w", err)
	}
	if err := json.Unmarshal(prices, &stored.CalendarPrices); err != nil {
		return nil, fmt.Errorf("failed to decode calendar_prices: %w", err)
	}

	return &stored, nil
}
