package repository

import (
	"context"
	"errors"

	"car-finder/internal/database"
	"car-finder/internal/domain/listing"
)

var ErrListingNotFound = errors.New("listing not found")

type ListingRepository interface {
	// Insert persists the listing unless a row with the same url (or vin)
	// already exists. Reports whether a new row was added. Repeated inserts
	// of the same record are a no-op, never an error and never an update.
	Insert(ctx context.Context, l listing.Listing) (bool, error)
	// GetAll returns every stored listing ordered by id ascending.
	GetAll(ctx context.Context) ([]listing.Listing, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type PostgresListingRepository struct {
	db database.DB
}

func NewPostgresListingRepository(db database.DB) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

// EnsureSchema creates the listings and feedback tables. Uniqueness on url is
// enforced here, in the storage layer, so concurrent writers cannot race a
// pre-check.
func (r *PostgresListingRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id          BIGSERIAL PRIMARY KEY,
			make        TEXT          NOT NULL,
			model       TEXT          NOT NULL,
			year        INT           NOT NULL,
			price       NUMERIC(12,2) NOT NULL,
			mileage     INT,
			vin         TEXT UNIQUE,
			location    TEXT,
			url         TEXT          NOT NULL UNIQUE,
			source_site TEXT          NOT NULL DEFAULT '',
			scraped_at  TIMESTAMPTZ   NOT NULL
		)
	`); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS feedback (
			id         BIGSERIAL   PRIMARY KEY,
			car_id     BIGINT      NOT NULL REFERENCES listings(id),
			preference TEXT        NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (r *PostgresListingRepository) Insert(ctx context.Context, l listing.Listing) (bool, error) {
	affected, err := r.db.Exec(ctx, `
		INSERT INTO listings (make, model, year, price, mileage, vin, location, url, source_site, scraped_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT DO NOTHING
	`, l.Make, l.Model, l.Year, l.Price, l.Mileage, l.VIN, l.Location, l.URL, l.SourceSite, l.ScrapedAt)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PostgresListingRepository) GetAll(ctx context.Context) ([]listing.Listing, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, make, model, year, price, mileage, vin, location, url, source_site, scraped_at
		FROM listings
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]listing.Listing, 0)
	for rows.Next() {
		var l listing.Listing
		if err := rows.Scan(&l.ID, &l.Make, &l.Model, &l.Year, &l.Price, &l.Mileage, &l.VIN, &l.Location, &l.URL, &l.SourceSite, &l.ScrapedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresListingRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM listings WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
