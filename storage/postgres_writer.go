package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"caregrid-listings/models"
	"caregrid-listings/utils"
)

var clinicColumns = []string{
	"id", "name", "category", "city", "address", "postcode", "phone", "website",
	"services", "rating", "reviews_count", "booking_link", "logo_url", "is_claimed",
	"description", "seo_title", "seo_description", "tags", "latitude", "longitude",
	"status", "notes",
}

// PostgresWriter persists the final listing set to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

var _ ListingSink = (*PostgresWriter)(nil)

// NewPostgresWriter opens a connection, waits for the server using retry,
// runs schema migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, retries int, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: retries, BaseDelay: time.Second, Logger: logger}
	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS clinics (
			id              UUID PRIMARY KEY,
			name            TEXT         NOT NULL DEFAULT '',
			category        VARCHAR(20)  NOT NULL DEFAULT 'Other',
			city            TEXT         NOT NULL DEFAULT '',
			address         TEXT         NOT NULL DEFAULT '',
			postcode        VARCHAR(16)  NOT NULL DEFAULT '',
			phone           TEXT         NOT NULL DEFAULT '',
			website         TEXT         NOT NULL DEFAULT '',
			services        TEXT[]       NOT NULL DEFAULT '{}',
			rating          NUMERIC(3,2) NOT NULL DEFAULT 0,
			reviews_count   INTEGER      NOT NULL DEFAULT 0,
			booking_link    TEXT         NOT NULL DEFAULT '',
			logo_url        TEXT         NOT NULL DEFAULT '',
			is_claimed      BOOLEAN      NOT NULL DEFAULT FALSE,
			description     TEXT         NOT NULL DEFAULT '',
			seo_title       TEXT         NOT NULL DEFAULT '',
			seo_description TEXT         NOT NULL DEFAULT '',
			tags            TEXT[]       NOT NULL DEFAULT '{}',
			latitude        DOUBLE PRECISION,
			longitude       DOUBLE PRECISION,
			status          VARCHAR(32)  NOT NULL,
			notes           JSONB        NOT NULL DEFAULT '[]',
			updated_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_clinics_status   ON clinics(status);
		CREATE INDEX IF NOT EXISTS idx_clinics_city     ON clinics(city);
		CREATE INDEX IF NOT EXISTS idx_clinics_category ON clinics(category);
	`)
	return err
}

// Save upserts all listings in batches keyed by listing ID.
func (pw *PostgresWriter) Save(ctx context.Context, listings []*models.Listing) error {
	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}

		query, args, err := buildUpsert(listings[i:end])
		if err != nil {
			return fmt.Errorf("postgres: build upsert: %w", err)
		}
		if _, err := pw.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: upsert batch at %d: %w", i, err)
		}
	}
	return nil
}

func buildUpsert(batch []*models.Listing) (string, []interface{}, error) {
	ins := sq.Insert("clinics").Columns(clinicColumns...).PlaceholderFormat(sq.Dollar)

	for _, l := range batch {
		notes, err := json.Marshal(l.Notes)
		if err != nil {
			return "", nil, fmt.Errorf("marshal notes for %s: %w", l.ID, err)
		}
		ins = ins.Values(
			l.ID, l.Name, l.Category, l.City, l.Address, l.Postcode, l.Phone, l.Website,
			pq.StringArray(l.Services), l.Rating, l.ReviewsCount, l.BookingLink, l.LogoURL, l.IsClaimed,
			l.Description, l.SEOTitle, l.SEODescription, pq.StringArray(l.Tags), l.Latitude, l.Longitude,
			string(l.Status), string(notes),
		)
	}

	return ins.Suffix(upsertSuffix()).ToSql()
}

func upsertSuffix() string {
	s := "ON CONFLICT (id) DO UPDATE SET "
	for i, c := range clinicColumns[1:] {
		if i > 0 {
			s += ", "
		}
		s += c + " = EXCLUDED." + c
	}
	return s + ", updated_at = NOW()"
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
