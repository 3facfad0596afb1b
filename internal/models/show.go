package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Show struct {
	bun.BaseModel `bun:"table:shows,alias:sh"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	VenueID   int64     `bun:"venue_id,notnull" json:"venue_id"`
	ArtistID  int64     `bun:"artist_id,notnull" json:"artist_id"`
	StartTime time.Time `bun:"start_time,notnull" json:"start_time"`

	Venue  *Venue  `bun:"rel:belongs-to,join:venue_id=id" json:"venue,omitempty"`
	Artist *Artist `bun:"rel:belongs-to,join:artist_id=id" json:"artist,omitempty"`
}

// ShowEntry is one show as seen from a detail page: the counterpart of the
// page's entity (the artist on a venue page, the venue on an artist page).
type ShowEntry struct {
	ID        int64     `json:"id"`
	OtherID   int64     `json:"other_id"`
	OtherName string    `json:"other_name"`
	OtherLink string    `json:"other_image_link"`
	StartTime time.Time `json:"start_time"`
}

// ShowListing is a row of the /shows page.
type ShowListing struct {
	ID              int64     `json:"id"`
	VenueID         int64     `json:"venue_id"`
	VenueName       string    `json:"venue_name"`
	ArtistID        int64     `json:"artist_id"`
	ArtistName      string    `json:"artist_name"`
	ArtistImageLink string    `json:"artist_image_link"`
	StartTime       time.Time `json:"start_time"`
}

// SearchResult is what the venue and artist searches return.
type SearchResult struct {
	Count int                `json:"count"`
	Data  []SearchResultItem `json:"data"`
}

type SearchResultItem struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// IsUpcoming reports whether a show starting at start is still ahead of now.
// A show starting exactly now is past.
func IsUpcoming(start, now time.Time) bool {
	return start.After(now)
}

// Partition splits entries into past and upcoming relative to now, keeping
// their order. Every entry lands in exactly one of the two slices.
func Partition(entries []ShowEntry, now time.Time) (past, upcoming []ShowEntry) {
	past = []ShowEntry{}
	upcoming = []ShowEntry{}
	for _, e := range entries {
		if IsUpcoming(e.StartTime, now) {
			upcoming = append(upcoming, e)
		} else {
			past = append(past, e)
		}
	}
	return past, upcoming
}
