// Package dbtest opens an isolated in-memory SQLite store with the fyyur
// schema for tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/sqliteshim"

	"fyyur/internal/database"
	"fyyur/internal/models"
)

func New(t testing.TB) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	ctx := context.Background()
	db, err := database.NewSQLite(ctx, sqldb)
	if err != nil {
		t.Fatalf("Failed to configure sqlite: %v", err)
	}
	if err := database.CreateSchema(ctx, db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func InsertVenue(t testing.TB, db *bun.DB, name, city, state string) *models.Venue {
	t.Helper()
	v := &models.Venue{
		Name:          name,
		City:          city,
		State:         state,
		Address:       "1 Main St",
		Phone:         "555-0100",
		Genres:        []string{"Jazz"},
		SeekingTalent: true,
	}
	if err := database.InsertVenue(context.Background(), db, v); err != nil {
		t.Fatalf("Failed to insert venue: %v", err)
	}
	return v
}

func InsertArtist(t testing.TB, db *bun.DB, name string) *models.Artist {
	t.Helper()
	a := &models.Artist{
		Name:         name,
		City:         "San Francisco",
		State:        "CA",
		Phone:        "555-0199",
		Genres:       []string{"Rock n Roll"},
		ImageLink:    "https://img.example/" + name + ".png",
		SeekingVenue: true,
	}
	if err := database.InsertArtist(context.Background(), db, a); err != nil {
		t.Fatalf("Failed to insert artist: %v", err)
	}
	return a
}

func InsertShow(t testing.TB, db *bun.DB, venueID, artistID int64, start time.Time) *models.Show {
	t.Helper()
	s := &models.Show{VenueID: venueID, ArtistID: artistID, StartTime: start.UTC()}
	if _, err := db.NewInsert().Model(s).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to insert show: %v", err)
	}
	return s
}
