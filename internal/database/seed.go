package database

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"fyyur/internal/models"
)

// Seed inserts the sample directory used for local development. It does
// nothing when venues already exist. Show times are relative to now so the
// sample always has both past and upcoming shows.
func Seed(ctx context.Context, db *bun.DB, now time.Time) (bool, error) {
	count, err := db.NewSelect().Model((*models.Venue)(nil)).Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count venues: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		venues := []*models.Venue{
			{
				Name:               "The Musical Hop",
				Genres:             []string{"Jazz", "Reggae", "Swing", "Classical", "Folk"},
				Address:            "1015 Folsom Street",
				City:               "San Francisco",
				State:              "CA",
				Phone:              "123-123-1234",
				Website:            "https://www.themusicalhop.com",
				FacebookLink:       "https://www.facebook.com/TheMusicalHop",
				SeekingTalent:      true,
				SeekingDescription: "We are on the lookout for a local artist to play every two weeks. Please call us.",
				ImageLink:          "https://images.unsplash.com/photo-1543900694-133f37abaaa5?w=400",
			},
			{
				Name:          "The Dueling Pianos Bar",
				Genres:        []string{"Classical", "R&B", "Hip-Hop"},
				Address:       "335 Delancey Street",
				City:          "New York",
				State:         "NY",
				Phone:         "914-003-1132",
				Website:       "https://www.theduelingpianos.com",
				FacebookLink:  "https://www.facebook.com/theduelingpianos",
				SeekingTalent: false,
				ImageLink:     "https://images.unsplash.com/photo-1497032205916-ac775f0649ae?w=400",
			},
			{
				Name:          "Park Square Live Music & Coffee",
				Genres:        []string{"Rock n Roll", "Jazz", "Classical", "Folk"},
				Address:       "34 Whiskey Moore Ave",
				City:          "San Francisco",
				State:         "CA",
				Phone:         "415-000-1234",
				Website:       "https://www.parksquarelivemusicandcoffee.com",
				FacebookLink:  "https://www.facebook.com/ParkSquareLiveMusicAndCoffee",
				SeekingTalent: false,
				ImageLink:     "https://images.unsplash.com/photo-1485686531765-ba63b07845a7?w=400",
			},
		}
		for _, v := range venues {
			if err := InsertVenue(ctx, tx, v); err != nil {
				return fmt.Errorf("seed %s: %w", v.Name, err)
			}
		}

		artists := []*models.Artist{
			{
				Name:               "Guns N Petals",
				Genres:             []string{"Rock n Roll"},
				City:               "San Francisco",
				State:              "CA",
				Phone:              "326-123-5000",
				Website:            "https://www.gunsnpetalsband.com",
				FacebookLink:       "https://www.facebook.com/GunsNPetals",
				SeekingVenue:       true,
				SeekingDescription: "Looking for shows to perform at in the San Francisco Bay Area!",
				ImageLink:          "https://images.unsplash.com/photo-1549213783-8284d0336c4f?w=300",
			},
			{
				Name:         "Matt Quevedo",
				Genres:       []string{"Jazz"},
				City:         "New York",
				State:        "NY",
				Phone:        "300-400-5000",
				FacebookLink: "https://www.facebook.com/mattquevedo923251523",
				SeekingVenue: false,
				ImageLink:    "https://images.unsplash.com/photo-1495223153807-b916f75de8c5?w=334",
			},
			{
				Name:         "The Wild Sax Band",
				Genres:       []string{"Jazz", "Classical"},
				City:         "San Francisco",
				State:        "CA",
				Phone:        "432-325-5432",
				SeekingVenue: false,
				ImageLink:    "https://images.unsplash.com/photo-1558369981-f9ca78462e61?w=794",
			},
		}
		for _, a := range artists {
			if err := InsertArtist(ctx, tx, a); err != nil {
				return fmt.Errorf("seed %s: %w", a.Name, err)
			}
		}

		at := func(days int, hour int) time.Time {
			d := now.UTC().AddDate(0, 0, days)
			return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
		}
		shows := []*models.Show{
			{VenueID: venues[0].ID, ArtistID: artists[0].ID, StartTime: at(-180, 21)},
			{VenueID: venues[2].ID, ArtistID: artists[1].ID, StartTime: at(-30, 23)},
			{VenueID: venues[2].ID, ArtistID: artists[2].ID, StartTime: at(30, 20)},
			{VenueID: venues[2].ID, ArtistID: artists[2].ID, StartTime: at(37, 20)},
			{VenueID: venues[2].ID, ArtistID: artists[2].ID, StartTime: at(44, 20)},
		}
		if _, err := tx.NewInsert().Model(&shows).Exec(ctx); err != nil {
			return fmt.Errorf("seed shows: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
