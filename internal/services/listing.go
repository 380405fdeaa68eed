package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lotview/lotview/internal/store"
	"github.com/lotview/lotview/pkg/models"
)

// ListingRepository provides access to the persisted vehicle listing set.
type ListingRepository interface {
	// Get returns a single listing by VIN. Lookup is case-insensitive.
	Get(ctx context.Context, vin string) (*models.Listing, error)

	// All returns the full listing snapshot, newest first, for the query
	// pipeline to filter, sort, and paginate in memory.
	All(ctx context.Context) ([]models.Listing, error)

	// Count returns the number of persisted listings.
	Count(ctx context.Context) (int, error)

	// Create inserts a new listing; ErrAlreadyExists if the VIN is taken.
	Create(ctx context.Context, listing *models.Listing) error

	// Update modifies an existing listing's mutable fields.
	Update(ctx context.Context, listing *models.Listing) error

	// Delete removes a listing by VIN.
	Delete(ctx context.Context, vin string) error
}

// Compile-time interface guard.
var _ ListingRepository = (*SQLiteListingRepository)(nil)

// SQLiteListingRepository implements ListingRepository using SQLite.
type SQLiteListingRepository struct {
	db *sql.DB
}

var listingMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create listings table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE listings (
					vin            TEXT PRIMARY KEY,
					make           TEXT NOT NULL,
					model          TEXT NOT NULL,
					year           INTEGER NOT NULL,
					price          TEXT NOT NULL,
					mileage        INTEGER NOT NULL,
					mileage_rating TEXT NOT NULL,
					title_status   TEXT NOT NULL,
					accident_count INTEGER NOT NULL DEFAULT 0,
					owner_count    INTEGER NOT NULL DEFAULT 1,
					city           TEXT NOT NULL,
					state          TEXT NOT NULL,
					distance_miles REAL NOT NULL DEFAULT 0,
					priority_score INTEGER NOT NULL,
					listed_at      DATETIME NOT NULL
				)
			`)
			return err
		},
	},
	{
		Version:     2,
		Description: "index listings by make and model",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX idx_listings_make_model ON listings (make, model)`)
			return err
		},
	},
}

// NewSQLiteListingRepository creates a ListingRepository and runs the
// listings migrations.
func NewSQLiteListingRepository(ctx context.Context, st *store.SQLiteStore) (*SQLiteListingRepository, error) {
	if err := st.Migrate(ctx, "listings", listingMigrations); err != nil {
		return nil, fmt.Errorf("listings migrations: %w", err)
	}
	return &SQLiteListingRepository{db: st.DB()}, nil
}

// listingColumns is the shared column list for listing queries.
const listingColumns = `vin, make, model, year, price, mileage, mileage_rating,
	title_status, accident_count, owner_count, city, state, distance_miles,
	priority_score, listed_at`

func (r *SQLiteListingRepository) Get(ctx context.Context, vin string) (*models.Listing, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE vin = ?`,
		normalizeVIN(vin))
	l, err := scanListing(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get listing %q: %w", vin, err)
	}
	return l, nil
}

func (r *SQLiteListingRepository) All(ctx context.Context) ([]models.Listing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings ORDER BY listed_at DESC, vin`)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan listing row: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

func (r *SQLiteListingRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

func (r *SQLiteListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	listing.VIN = normalizeVIN(listing.VIN)
	if listing.ListedAt.IsZero() {
		listing.ListedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO listings (`+listingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.VIN, listing.Make, listing.Model, listing.Year,
		listing.Price.String(), listing.Mileage, string(listing.MileageRating),
		string(listing.TitleStatus), listing.AccidentCount, listing.OwnerCount,
		listing.City, listing.State, listing.DistanceMiles,
		listing.PriorityScore, listing.ListedAt,
	)
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *SQLiteListingRepository) Update(ctx context.Context, listing *models.Listing) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE listings SET
			make = ?, model = ?, year = ?, price = ?, mileage = ?,
			mileage_rating = ?, title_status = ?, accident_count = ?,
			owner_count = ?, city = ?, state = ?, distance_miles = ?,
			priority_score = ?, listed_at = ?
		WHERE vin = ?`,
		listing.Make, listing.Model, listing.Year,
		listing.Price.String(), listing.Mileage, string(listing.MileageRating),
		string(listing.TitleStatus), listing.AccidentCount, listing.OwnerCount,
		listing.City, listing.State, listing.DistanceMiles,
		listing.PriorityScore, listing.ListedAt,
		normalizeVIN(listing.VIN),
	)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteListingRepository) Delete(ctx context.Context, vin string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM listings WHERE vin = ?`, normalizeVIN(vin))
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// normalizeVIN uppercases a VIN so lookups are case-insensitive and the
// stored identity is canonical.
func normalizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}

// scanListing reads one row via the given scan function ((*sql.Row).Scan or
// (*sql.Rows).Scan both fit).
func scanListing(scan func(dest ...any) error) (*models.Listing, error) {
	var l models.Listing
	var price, rating, title string
	err := scan(
		&l.VIN, &l.Make, &l.Model, &l.Year, &price, &l.Mileage, &rating,
		&title, &l.AccidentCount, &l.OwnerCount, &l.City, &l.State,
		&l.DistanceMiles, &l.PriorityScore, &l.ListedAt,
	)
	if err != nil {
		return nil, err
	}
	l.MileageRating = models.MileageRating(rating)
	l.TitleStatus = models.TitleStatus(title)
	l.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q for %s: %w", price, l.VIN, err)
	}
	return &l, nil
}
