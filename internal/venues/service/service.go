package venues

import (
	"context"
	"fmt"
	"time"

	"fyyur/internal/apperr"
	"fyyur/internal/forms"
	"fyyur/internal/kafka"
	"fyyur/internal/logger"
	"fyyur/internal/models"
)

type VenueDBLayer interface {
	ListVenues(ctx context.Context) ([]models.Venue, error)
	SearchVenues(ctx context.Context, term string) ([]models.Venue, error)
	UpcomingShowCounts(ctx context.Context, now time.Time) (map[int64]int, error)
	GetVenueByID(ctx context.Context, id int64) (*models.Venue, error)
	GetVenueShows(ctx context.Context, venueID int64) ([]models.Show, error)
	CreateVenue(ctx context.Context, venue *models.Venue) error
	UpdateVenue(ctx context.Context, venue *models.Venue) error
	DeleteVenue(ctx context.Context, id int64) (*models.Venue, int, error)
}

type VenueService struct {
	DB     VenueDBLayer
	Events kafka.Publisher
	Logger *logger.Logger
	Now    func() time.Time
}

func NewVenueService(db VenueDBLayer, events kafka.Publisher, log *logger.Logger) *VenueService {
	return &VenueService{DB: db, Events: events, Logger: log, Now: time.Now}
}

// ListAreas groups venues by (city, state). Venues arrive ordered by state,
// city and name, so each area is a contiguous run.
func (s *VenueService) ListAreas(ctx context.Context) ([]models.Area, error) {
	venues, err := s.DB.ListVenues(ctx)
	if err != nil {
		return nil, s.fail("list venues", err)
	}
	counts, err := s.DB.UpcomingShowCounts(ctx, s.Now())
	if err != nil {
		return nil, s.fail("list venues", err)
	}

	areas := []models.Area{}
	for _, v := range venues {
		n := len(areas)
		if n == 0 || areas[n-1].City != v.City || areas[n-1].State != v.State {
			areas = append(areas, models.Area{City: v.City, State: v.State})
			n++
		}
		areas[n-1].Venues = append(areas[n-1].Venues, models.VenueSummary{
			ID:               v.ID,
			Name:             v.Name,
			NumUpcomingShows: counts[v.ID],
		})
	}
	return areas, nil
}

func (s *VenueService) Search(ctx context.Context, term string) (*models.SearchResult, error) {
	venues, err := s.DB.SearchVenues(ctx, term)
	if err != nil {
		return nil, s.fail("search venues", err)
	}
	counts, err := s.DB.UpcomingShowCounts(ctx, s.Now())
	if err != nil {
		return nil, s.fail("search venues", err)
	}

	result := &models.SearchResult{Count: len(venues), Data: make([]models.SearchResultItem, 0, len(venues))}
	for _, v := range venues {
		result.Data = append(result.Data, models.SearchResultItem{
			ID:               v.ID,
			Name:             v.Name,
			NumUpcomingShows: counts[v.ID],
		})
	}
	return result, nil
}

// Get returns the venue with its shows split into past and upcoming.
func (s *VenueService) Get(ctx context.Context, id int64) (*models.VenueDetail, error) {
	venue, err := s.DB.GetVenueByID(ctx, id)
	if err != nil {
		return nil, s.fail("get venue", err)
	}
	shows, err := s.DB.GetVenueShows(ctx, id)
	if err != nil {
		return nil, s.fail("get venue", err)
	}

	entries := make([]models.ShowEntry, 0, len(shows))
	for _, sh := range shows {
		entry := models.ShowEntry{ID: sh.ID, OtherID: sh.ArtistID, StartTime: sh.StartTime}
		if sh.Artist != nil {
			entry.OtherName = sh.Artist.Name
			entry.OtherLink = sh.Artist.ImageLink
		}
		entries = append(entries, entry)
	}
	past, upcoming := models.Partition(entries, s.Now())

	return &models.VenueDetail{
		Venue:              *venue,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

// GetVenue loads the bare venue, for the edit form and share codes.
func (s *VenueService) GetVenue(ctx context.Context, id int64) (*models.Venue, error) {
	venue, err := s.DB.GetVenueByID(ctx, id)
	if err != nil {
		return nil, s.fail("get venue", err)
	}
	return venue, nil
}

func (s *VenueService) Create(ctx context.Context, form forms.VenueForm) (*models.Venue, error) {
	if err := form.Validate(); err != nil {
		return nil, s.fail("create venue", err)
	}

	venue := &models.Venue{}
	form.Apply(venue)
	if err := s.DB.CreateVenue(ctx, venue); err != nil {
		return nil, s.fail("create venue", err)
	}

	s.Logger.LogEntity("VENUE", "CREATE", venue.ID, venue.Name)
	s.publish(ctx, kafka.TopicVenueCreated, venue.ID, venue)
	return venue, nil
}

// Update overwrites every field of venue id with the form.
func (s *VenueService) Update(ctx context.Context, id int64, form forms.VenueForm) (*models.Venue, error) {
	if err := form.Validate(); err != nil {
		return nil, s.fail("update venue", err)
	}

	venue, err := s.DB.GetVenueByID(ctx, id)
	if err != nil {
		return nil, s.fail("update venue", err)
	}
	form.Apply(venue)
	if err := s.DB.UpdateVenue(ctx, venue); err != nil {
		return nil, s.fail("update venue", err)
	}

	s.Logger.LogEntity("VENUE", "UPDATE", venue.ID, venue.Name)
	s.publish(ctx, kafka.TopicVenueUpdated, venue.ID, venue)
	return venue, nil
}

// Delete removes the venue and all of its shows. Nothing is removed when
// any step fails.
func (s *VenueService) Delete(ctx context.Context, id int64) (*models.Venue, error) {
	venue, removed, err := s.DB.DeleteVenue(ctx, id)
	if err != nil {
		return nil, s.fail("delete venue", err)
	}

	s.Logger.LogDatabase("DELETE", "shows", fmt.Sprintf("removed %d rows of venue %d", removed, venue.ID))
	s.Logger.LogEntity("VENUE", "DELETE", venue.ID, venue.Name)
	s.publish(ctx, kafka.TopicVenueDeleted, venue.ID, venue)
	return venue, nil
}

func (s *VenueService) fail(op string, err error) error {
	err = apperr.FromStore(op, err)
	kind := apperr.KindOf(err)
	if kind == apperr.Validation {
		s.Logger.Warn("VENUE", fmt.Sprintf("%s [%s]: %v", op, kind, apperr.FieldsOf(err)))
	} else {
		s.Logger.Error("VENUE", fmt.Sprintf("%s [%s]: %v", op, kind, err))
	}
	return err
}

func (s *VenueService) publish(ctx context.Context, topic string, id int64, payload interface{}) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, topic, id, payload); err != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish %s for venue %d: %v", topic, id, err))
	}
}
