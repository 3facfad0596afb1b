package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyyur/internal/database/dbtest"
	"fyyur/internal/models"
	"fyyur/internal/shows/db"
)

func setupTestDB(t *testing.T) *db.DB {
	return &db.DB{Bun: dbtest.New(t)}
}

func TestCreateShow(t *testing.T) {
	showDB := setupTestDB(t)
	ctx := context.Background()
	venue := dbtest.InsertVenue(t, showDB.Bun, "Hop", "San Francisco", "CA")
	artist := dbtest.InsertArtist(t, showDB.Bun, "Band")
	start := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)

	show := &models.Show{VenueID: venue.ID, ArtistID: artist.ID, StartTime: start}
	require.NoError(t, showDB.CreateShow(ctx, show))
	assert.NotZero(t, show.ID)

	shows, err := showDB.ListShows(ctx)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.True(t, start.Equal(shows[0].StartTime))
	assert.Equal(t, "Hop", shows[0].Venue.Name)
	assert.Equal(t, "Band", shows[0].Artist.Name)
}

func TestCreateShowMissingReferences(t *testing.T) {
	showDB := setupTestDB(t)
	ctx := context.Background()
	venue := dbtest.InsertVenue(t, showDB.Bun, "Hop", "San Francisco", "CA")
	artist := dbtest.InsertArtist(t, showDB.Bun, "Band")

	err := showDB.CreateShow(ctx, &models.Show{VenueID: 999, ArtistID: artist.ID, StartTime: time.Now()})
	assert.ErrorIs(t, err, db.ErrVenueNotFound)

	err = showDB.CreateShow(ctx, &models.Show{VenueID: venue.ID, ArtistID: 999, StartTime: time.Now()})
	assert.ErrorIs(t, err, db.ErrArtistNotFound)

	count, err := showDB.Bun.NewSelect().Model((*models.Show)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestListShowsOrderedByStart(t *testing.T) {
	showDB := setupTestDB(t)
	venue := dbtest.InsertVenue(t, showDB.Bun, "Hop", "San Francisco", "CA")
	artist := dbtest.InsertArtist(t, showDB.Bun, "Band")
	now := time.Now()
	late := dbtest.InsertShow(t, showDB.Bun, venue.ID, artist.ID, now.Add(48*time.Hour))
	early := dbtest.InsertShow(t, showDB.Bun, venue.ID, artist.ID, now.Add(-48*time.Hour))

	shows, err := showDB.ListShows(context.Background())
	require.NoError(t, err)
	require.Len(t, shows, 2)
	assert.Equal(t, early.ID, shows[0].ID)
	assert.Equal(t, late.ID, shows[1].ID)
}

func TestChoices(t *testing.T) {
	showDB := setupTestDB(t)
	ctx := context.Background()
	dbtest.InsertVenue(t, showDB.Bun, "Zeta", "Austin", "TX")
	dbtest.InsertVenue(t, showDB.Bun, "Alpha", "Austin", "TX")
	dbtest.InsertArtist(t, showDB.Bun, "Matt Quevedo")

	venues, err := showDB.VenueChoices(ctx)
	require.NoError(t, err)
	require.Len(t, venues, 2)
	assert.Equal(t, "Alpha", venues[0].Name)

	artists, err := showDB.ArtistChoices(ctx)
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, "Matt Quevedo", artists[0].Name)
}
