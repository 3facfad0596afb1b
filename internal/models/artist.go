package models

import (
	"github.com/uptrace/bun"
)

type Artist struct {
	bun.BaseModel `bun:"table:artists,alias:a"`

	ID                 int64    `bun:"id,pk,autoincrement" json:"id"`
	Name               string   `bun:"name,notnull" json:"name"`
	City               string   `bun:"city,notnull" json:"city"`
	State              string   `bun:"state,notnull" json:"state"`
	Phone              string   `bun:"phone,notnull" json:"phone"`
	Genres             []string `bun:"genres" json:"genres"`
	ImageLink          string   `bun:"image_link,nullzero" json:"image_link"`
	FacebookLink       string   `bun:"facebook_link,nullzero" json:"facebook_link"`
	Website            string   `bun:"website,nullzero" json:"website"`
	SeekingVenue       bool     `bun:"seeking_venue,notnull,default:true" json:"seeking_venue"`
	SeekingDescription string   `bun:"seeking_description,nullzero" json:"seeking_description"`

	Shows []*Show `bun:"rel:has-many,join:id=artist_id" json:"-"`
}

type ArtistSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows,omitempty"`
}

type ArtistDetail struct {
	Artist
	PastShows          []ShowEntry `json:"past_shows"`
	UpcomingShows      []ShowEntry `json:"upcoming_shows"`
	PastShowsCount     int         `json:"past_shows_count"`
	UpcomingShowsCount int         `json:"upcoming_shows_count"`
}
