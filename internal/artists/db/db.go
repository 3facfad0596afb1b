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
	ArtistID int64 `bun:"artist_id"`
	Upcoming int   `bun:"upcoming"`
}

func (d *DB) ListArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	err := d.Bun.NewSelect().
		Model(&artists).
		Column("id", "name").
		OrderExpr("a.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	return artists, nil
}

// SearchArtists matches term anywhere in the name, ignoring case.
func (d *DB) SearchArtists(ctx context.Context, term string) ([]models.Artist, error) {
	var artists []models.Artist
	err := d.Bun.NewSelect().
		Model(&artists).
		Column("id", "name").
		OrderExpr("a.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("search artists: %w", err)
	}
	return database.FilterByName(artists, term, func(x models.Artist) string { return x.Name }), nil
}

// UpcomingShowCounts counts shows starting after now, per artist.
func (d *DB) UpcomingShowCounts(ctx context.Context, now time.Time) (map[int64]int, error) {
	var rows []showCount
	err := d.Bun.NewSelect().
		TableExpr("shows AS sh").
		ColumnExpr("sh.artist_id AS artist_id").
		ColumnExpr("COUNT(*) AS upcoming").
		Where("sh.start_time > ?", now.UTC()).
		GroupExpr("sh.artist_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("count upcoming shows: %w", err)
	}

	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.ArtistID] = r.Upcoming
	}
	return counts, nil
}

func (d *DB) GetArtistByID(ctx context.Context, id int64) (*models.Artist, error) {
	var artist models.Artist
	err := d.Bun.NewSelect().
		Model(&artist).
		Where("a.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("get artist %d: %w", id, err)
	}
	return &artist, nil
}

// GetArtistShows returns the artist's shows with their venues, oldest first.
func (d *DB) GetArtistShows(ctx context.Context, artistID int64) ([]models.Show, error) {
	var shows []models.Show
	err := d.Bun.NewSelect().
		Model(&shows).
		Relation("Venue").
		Where("sh.artist_id = ?", artistID).
		OrderExpr("sh.start_time ASC, sh.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("get shows of artist %d: %w", artistID, err)
	}
	return shows, nil
}

func (d *DB) CreateArtist(ctx context.Context, artist *models.Artist) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return database.InsertArtist(ctx, tx, artist)
	})
}

// UpdateArtist overwrites every column of an existing artist.
func (d *DB) UpdateArtist(ctx context.Context, artist *models.Artist) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model(artist).WherePK().Exec(ctx)
		if err != nil {
			return fmt.Errorf("update artist %d: %w", artist.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("update artist %d: %w", artist.ID, sql.ErrNoRows)
		}
		return nil
	})
}
