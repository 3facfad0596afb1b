package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"fyyur/internal/database"
	"fyyur/internal/models"
)

type DB struct {
	Bun *bun.DB
}

type showCount struct {
	VenueID  int64 `bun:"venue_id"`
	Upcoming int   `bun:"upcoming"`
}

// ListVenues returns every venue ordered for the areas page.
func (d *DB) ListVenues(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		OrderExpr("v.state ASC, v.city ASC, v.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

// SearchVenues matches term anywhere in the name, ignoring Unicode case. An empty
// term matches every venue.
func (d *DB) SearchVenues(ctx context.Context, term string) ([]models.Venue, error) {
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		Column("id", "name").
		OrderExpr("v.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("search venues: %w", err)
	}
	return database.FilterByName(venues, term, func(x models.Venue) string { return x.Name }), nil
}

// UpcomingShowCounts counts shows starting after now, per venue. Venues
// without upcoming shows are absent from the map.
func (d *DB) UpcomingShowCounts(ctx context.Context, now time.Time) (map[int64]int, error) {
	var rows []showCount
	err := d.Bun.NewSelect().
		TableExpr("shows AS sh").
		ColumnExpr("sh.venue_id AS venue_id").
		ColumnExpr("COUNT(*) AS upcoming").
		Where("sh.start_time > ?", now.UTC()).
		GroupExpr("sh.venue_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("count upcoming shows: %w", err)
	}

	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.VenueID] = r.Upcoming
	}
	return counts, nil
}

func (d *DB) GetVenueByID(ctx context.Context, id int64) (*models.Venue, error) {
	var venue models.Venue
	err := d.Bun.NewSelect().
		Model(&venue).
		Where("v.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("get venue %d: %w", id, err)
	}
	return &venue, nil
}

// GetVenueShows returns the venue's shows with their artists, oldest first.
func (d *DB) GetVenueShows(ctx context.Context, venueID int64) ([]models.Show, error) {
	var shows []models.Show
	err := d.Bun.NewSelect().
		Model(&shows).
		Relation("Artist").
		Where("sh.venue_id = ?", venueID).
		OrderExpr("sh.start_time ASC, sh.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("get shows of venue %d: %w", venueID, err)
	}
	return shows, nil
}

func (d *DB) CreateVenue(ctx context.Context, venue *models.Venue) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return database.InsertVenue(ctx, tx, venue)
	})
}

// UpdateVenue overwrites every column of an existing venue.
func (d *DB) UpdateVenue(ctx context.Context, venue *models.Venue) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model(venue).WherePK().Exec(ctx)
		if err != nil {
			return fmt.Errorf("update venue %d: %w", venue.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("update venue %d: %w", venue.ID, sql.ErrNoRows)
		}
		return nil
	})
}

// DeleteVenue removes the venue's shows and then the venue in one
// transaction. It returns the deleted venue and the number of shows removed.
func (d *DB) DeleteVenue(ctx context.Context, id int64) (*models.Venue, int, error) {
	var venue models.Venue
	var removed int64

	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().Model(&venue).Where("v.id = ?", id).Limit(1).Scan(ctx)
		if err != nil {
			return fmt.Errorf("get venue %d: %w", id, err)
		}

		res, err := tx.NewDelete().Model((*models.Show)(nil)).Where("venue_id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete shows of venue %d: %w", id, err)
		}
		removed, _ = res.RowsAffected()

		if _, err := tx.NewDelete().Model((*models.Venue)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete venue %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &venue, int(removed), nil
}
