package forms

import (
	"net/url"
	"strconv"
	"time"

	"fyyur/internal/models"
)

// StartTimeLayouts are tried in order when parsing start_time. Layouts
// without a zone are read in the server's local time.
var StartTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

type ShowForm struct {
	ArtistID  int64     `form:"artist_id" validate:"required,gt=0"`
	VenueID   int64     `form:"venue_id" validate:"required,gt=0"`
	StartTime time.Time `form:"start_time" validate:"required"`

	// Raw input, echoed back when the form is re-rendered.
	RawArtistID  string `form:"-"`
	RawVenueID   string `form:"-"`
	RawStartTime string `form:"-"`

	parseErrs map[string]string
}

func (f *ShowForm) FromValues(values url.Values) {
	f.parseErrs = map[string]string{}
	f.RawArtistID = text(values, "artist_id")
	f.RawVenueID = text(values, "venue_id")
	f.RawStartTime = text(values, "start_time")

	f.ArtistID = f.parseID("artist_id", f.RawArtistID)
	f.VenueID = f.parseID("venue_id", f.RawVenueID)

	if f.RawStartTime != "" {
		start, ok := ParseStartTime(f.RawStartTime)
		if !ok {
			f.parseErrs["start_time"] = "Not a valid datetime value."
		}
		f.StartTime = start
	}
}

func (f *ShowForm) parseID(field, raw string) int64 {
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f.parseErrs[field] = "Not a valid integer value."
		return 0
	}
	return id
}

// ParseStartTime accepts any of StartTimeLayouts.
func ParseStartTime(raw string) (time.Time, bool) {
	for _, layout := range StartTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (f ShowForm) Validate() error {
	return check("validate show", f, f.parseErrs)
}

// Show maps the form onto a new show. Times are stored in UTC.
func (f ShowForm) Show() *models.Show {
	return &models.Show{
		ArtistID:  f.ArtistID,
		VenueID:   f.VenueID,
		StartTime: f.StartTime.UTC(),
	}
}
