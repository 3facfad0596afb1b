package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"fyyur/internal/models"
)

var (
	ErrVenueNotFound  = errors.New("venue does not exist")
	ErrArtistNotFound = errors.New("artist does not exist")
)

type DB struct {
	Bun *bun.DB
}

// ListShows returns every show with its venue and artist, by start time.
func (d *DB) ListShows(ctx context.Context) ([]models.Show, error) {
	var shows []models.Show
	err := d.Bun.NewSelect().
		Model(&shows).
		Relation("Venue").
		Relation("Artist").
		OrderExpr("sh.start_time ASC, sh.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	return shows, nil
}

// VenueChoices lists venue ids and names for the show form.
func (d *DB) VenueChoices(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		Column("id", "name").
		OrderExpr("v.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list venue choices: %w", err)
	}
	return venues, nil
}

// ArtistChoices lists artist ids and names for the show form.
func (d *DB) ArtistChoices(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	err := d.Bun.NewSelect().
		Model(&artists).
		Column("id", "name").
		OrderExpr("a.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list artist choices: %w", err)
	}
	return artists, nil
}

// CreateShow inserts show after checking, in the same transaction, that
// the venue and artist it points at exist.
func (d *DB) CreateShow(ctx context.Context, show *models.Show) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ok, err := tx.NewSelect().Model((*models.Venue)(nil)).Where("v.id = ?", show.VenueID).Exists(ctx)
		if err != nil {
			return fmt.Errorf("check venue %d: %w", show.VenueID, err)
		}
		if !ok {
			return fmt.Errorf("venue %d: %w", show.VenueID, ErrVenueNotFound)
		}

		ok, err = tx.NewSelect().Model((*models.Artist)(nil)).Where("a.id = ?", show.ArtistID).Exists(ctx)
		if err != nil {
			return fmt.Errorf("check artist %d: %w", show.ArtistID, err)
		}
		if !ok {
			return fmt.Errorf("artist %d: %w", show.ArtistID, ErrArtistNotFound)
		}

		if _, err := tx.NewInsert().Model(show).Exec(ctx); err != nil {
			return fmt.Errorf("insert show: %w", err)
		}
		return nil
	})
}
