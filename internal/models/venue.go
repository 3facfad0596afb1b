package models

import (
	"github.com/uptrace/bun"
)

type Venue struct {
	bun.BaseModel `bun:"table:venues,alias:v"`

	ID                 int64    `bun:"id,pk,autoincrement" json:"id"`
	Name               string   `bun:"name,notnull" json:"name"`
	Genres             []string `bun:"genres" json:"genres"`
	City               string   `bun:"city,notnull" json:"city"`
	State              string   `bun:"state,notnull" json:"state"`
	Address            string   `bun:"address,notnull" json:"address"`
	Phone              string   `bun:"phone,notnull" json:"phone"`
	ImageLink          string   `bun:"image_link,nullzero" json:"image_link"`
	FacebookLink       string   `bun:"facebook_link,nullzero" json:"facebook_link"`
	Website            string   `bun:"website,nullzero" json:"website"`
	SeekingTalent      bool     `bun:"seeking_talent,notnull,default:true" json:"seeking_talent"`
	SeekingDescription string   `bun:"seeking_description,nullzero" json:"seeking_description"`

	Shows []*Show `bun:"rel:has-many,join:id=venue_id" json:"-"`
}

// VenueSummary is a venue line in listings and search results.
type VenueSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// Area groups the venues sharing a (city, state) pair.
type Area struct {
	City   string         `json:"city"`
	State  string         `json:"state"`
	Venues []VenueSummary `json:"venues"`
}

type VenueDetail struct {
	Venue
	PastShows          []ShowEntry `json:"past_shows"`
	UpcomingShows      []ShowEntry `json:"upcoming_shows"`
	PastShowsCount     int         `json:"past_shows_count"`
	UpcomingShowsCount int         `json:"upcoming_shows_count"`
}
