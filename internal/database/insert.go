package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"fyyur/internal/models"
)

// The seeking flags carry a DEFAULT TRUE column default, and bun leaves out
// (or writes DEFAULT for) any zero field that has one, so a false flag would
// come back true. Listing the columns and binding the flag keeps false.

func InsertVenue(ctx context.Context, db bun.IDB, v *models.Venue) error {
	_, err := db.NewInsert().
		Model(v).
		ExcludeColumn("id").
		Value("seeking_talent", "?", v.SeekingTalent).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert venue: %w", err)
	}
	return nil
}

func InsertArtist(ctx context.Context, db bun.IDB, a *models.Artist) error {
	_, err := db.NewInsert().
		Model(a).
		ExcludeColumn("id").
		Value("seeking_venue", "?", a.SeekingVenue).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert artist: %w", err)
	}
	return nil
}
