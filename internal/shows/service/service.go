package shows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fyyur/internal/apperr"
	"fyyur/internal/forms"
	"fyyur/internal/kafka"
	"fyyur/internal/logger"
	"fyyur/internal/models"
	"fyyur/internal/shows/db"
)

type ShowDBLayer interface {
	ListShows(ctx context.Context) ([]models.Show, error)
	VenueChoices(ctx context.Context) ([]models.Venue, error)
	ArtistChoices(ctx context.Context) ([]models.Artist, error)
	CreateShow(ctx context.Context, show *models.Show) error
}

type ShowService struct {
	DB     ShowDBLayer
	Events kafka.Publisher
	Logger *logger.Logger
	Now    func() time.Time
}

func NewShowService(db ShowDBLayer, events kafka.Publisher, log *logger.Logger) *ShowService {
	return &ShowService{DB: db, Events: events, Logger: log, Now: time.Now}
}

// Choices is what the show form offers in its selects.
type Choices struct {
	Venues  []models.VenueSummary
	Artists []models.ArtistSummary
}

func (s *ShowService) List(ctx context.Context) ([]models.ShowListing, error) {
	shows, err := s.DB.ListShows(ctx)
	if err != nil {
		return nil, s.fail("list shows", err)
	}

	out := make([]models.ShowListing, 0, len(shows))
	for _, sh := range shows {
		listing := models.ShowListing{
			ID:        sh.ID,
			VenueID:   sh.VenueID,
			ArtistID:  sh.ArtistID,
			StartTime: sh.StartTime,
		}
		if sh.Venue != nil {
			listing.VenueName = sh.Venue.Name
		}
		if sh.Artist != nil {
			listing.ArtistName = sh.Artist.Name
			listing.ArtistImageLink = sh.Artist.ImageLink
		}
		out = append(out, listing)
	}
	return out, nil
}

func (s *ShowService) Choices(ctx context.Context) (*Choices, error) {
	venues, err := s.DB.VenueChoices(ctx)
	if err != nil {
		return nil, s.fail("list show choices", err)
	}
	artists, err := s.DB.ArtistChoices(ctx)
	if err != nil {
		return nil, s.fail("list show choices", err)
	}

	c := &Choices{
		Venues:  make([]models.VenueSummary, 0, len(venues)),
		Artists: make([]models.ArtistSummary, 0, len(artists)),
	}
	for _, v := range venues {
		c.Venues = append(c.Venues, models.VenueSummary{ID: v.ID, Name: v.Name})
	}
	for _, a := range artists {
		c.Artists = append(c.Artists, models.ArtistSummary{ID: a.ID, Name: a.Name})
	}
	return c, nil
}

// Create books a show. A missing venue or artist is a Constraint error and
// nothing is inserted.
func (s *ShowService) Create(ctx context.Context, form forms.ShowForm) (*models.Show, error) {
	if err := form.Validate(); err != nil {
		return nil, s.fail("create show", err)
	}

	show := form.Show()
	err := s.DB.CreateShow(ctx, show)
	switch {
	case errors.Is(err, db.ErrVenueNotFound):
		return nil, s.fail("create show", &apperr.Error{
			Kind:   apperr.Constraint,
			Op:     "create show",
			Fields: map[string]string{"venue_id": "Venue does not exist."},
			Err:    err,
		})
	case errors.Is(err, db.ErrArtistNotFound):
		return nil, s.fail("create show", &apperr.Error{
			Kind:   apperr.Constraint,
			Op:     "create show",
			Fields: map[string]string{"artist_id": "Artist does not exist."},
			Err:    err,
		})
	case err != nil:
		return nil, s.fail("create show", err)
	}

	s.Logger.LogEntity("SHOW", "CREATE", show.ID, fmt.Sprintf("venue=%d artist=%d at %s", show.VenueID, show.ArtistID, show.StartTime.Format(time.RFC3339)))
	if s.Events != nil {
		if err := s.Events.Publish(ctx, kafka.TopicShowCreated, show.ID, show); err != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish %s for show %d: %v", kafka.TopicShowCreated, show.ID, err))
		}
	}
	return show, nil
}

func (s *ShowService) fail(op string, err error) error {
	err = apperr.FromStore(op, err)
	kind := apperr.KindOf(err)
	if kind == apperr.Validation {
		s.Logger.Warn("SHOW", fmt.Sprintf("%s [%s]: %v", op, kind, apperr.FieldsOf(err)))
	} else {
		s.Logger.Error("SHOW", fmt.Sprintf("%s [%s]: %v", op, kind, err))
	}
	return err
}
