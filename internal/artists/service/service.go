package artists

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

type ArtistDBLayer interface {
	ListArtists(ctx context.Context) ([]models.Artist, error)
	SearchArtists(ctx context.Context, term string) ([]models.Artist, error)
	UpcomingShowCounts(ctx context.Context, now time.Time) (map[int64]int, error)
	GetArtistByID(ctx context.Context, id int64) (*models.Artist, error)
	GetArtistShows(ctx context.Context, artistID int64) ([]models.Show, error)
	CreateArtist(ctx context.Context, artist *models.Artist) error
	UpdateArtist(ctx context.Context, artist *models.Artist) error
}

type ArtistService struct {
	DB     ArtistDBLayer
	Events kafka.Publisher
	Logger *logger.Logger
	Now    func() time.Time
}

func NewArtistService(db ArtistDBLayer, events kafka.Publisher, log *logger.Logger) *ArtistService {
	return &ArtistService{DB: db, Events: events, Logger: log, Now: time.Now}
}

// List returns every artist by name, without show counts.
func (s *ArtistService) List(ctx context.Context) ([]models.ArtistSummary, error) {
	artists, err := s.DB.ListArtists(ctx)
	if err != nil {
		return nil, s.fail("list artists", err)
	}

	out := make([]models.ArtistSummary, 0, len(artists))
	for _, a := range artists {
		out = append(out, models.ArtistSummary{ID: a.ID, Name: a.Name})
	}
	return out, nil
}

func (s *ArtistService) Search(ctx context.Context, term string) (*models.SearchResult, error) {
	artists, err := s.DB.SearchArtists(ctx, term)
	if err != nil {
		return nil, s.fail("search artists", err)
	}
	counts, err := s.DB.UpcomingShowCounts(ctx, s.Now())
	if err != nil {
		return nil, s.fail("search artists", err)
	}

	result := &models.SearchResult{Count: len(artists), Data: make([]models.SearchResultItem, 0, len(artists))}
	for _, a := range artists {
		result.Data = append(result.Data, models.SearchResultItem{
			ID:               a.ID,
			Name:             a.Name,
			NumUpcomingShows: counts[a.ID],
		})
	}
	return result, nil
}

// Get returns the artist with its shows split into past and upcoming.
func (s *ArtistService) Get(ctx context.Context, id int64) (*models.ArtistDetail, error) {
	artist, err := s.DB.GetArtistByID(ctx, id)
	if err != nil {
		return nil, s.fail("get artist", err)
	}
	shows, err := s.DB.GetArtistShows(ctx, id)
	if err != nil {
		return nil, s.fail("get artist", err)
	}

	entries := make([]models.ShowEntry, 0, len(shows))
	for _, sh := range shows {
		entry := models.ShowEntry{ID: sh.ID, OtherID: sh.VenueID, StartTime: sh.StartTime}
		if sh.Venue != nil {
			entry.OtherName = sh.Venue.Name
			entry.OtherLink = sh.Venue.ImageLink
		}
		entries = append(entries, entry)
	}
	past, upcoming := models.Partition(entries, s.Now())

	return &models.ArtistDetail{
		Artist:             *artist,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

func (s *ArtistService) GetArtist(ctx context.Context, id int64) (*models.Artist, error) {
	artist, err := s.DB.GetArtistByID(ctx, id)
	if err != nil {
		return nil, s.fail("get artist", err)
	}
	return artist, nil
}

func (s *ArtistService) Create(ctx context.Context, form forms.ArtistForm) (*models.Artist, error) {
	if err := form.Validate(); err != nil {
		return nil, s.fail("create artist", err)
	}

	artist := &models.Artist{}
	form.Apply(artist)
	if err := s.DB.CreateArtist(ctx, artist); err != nil {
		return nil, s.fail("create artist", err)
	}

	s.Logger.LogEntity("ARTIST", "CREATE", artist.ID, artist.Name)
	s.publish(ctx, kafka.TopicArtistCreated, artist.ID, artist)
	return artist, nil
}

// Update overwrites every field of artist id with the form.
func (s *ArtistService) Update(ctx context.Context, id int64, form forms.ArtistForm) (*models.Artist, error) {
	if err := form.Validate(); err != nil {
		return nil, s.fail("update artist", err)
	}

	artist, err := s.DB.GetArtistByID(ctx, id)
	if err != nil {
		return nil, s.fail("update artist", err)
	}
	form.Apply(artist)
	if err := s.DB.UpdateArtist(ctx, artist); err != nil {
		return nil, s.fail("update artist", err)
	}

	s.Logger.LogEntity("ARTIST", "UPDATE", artist.ID, artist.Name)
	s.publish(ctx, kafka.TopicArtistUpdated, artist.ID, artist)
	return artist, nil
}

func (s *ArtistService) fail(op string, err error) error {
	err = apperr.FromStore(op, err)
	kind := apperr.KindOf(err)
	if kind == apperr.Validation {
		s.Logger.Warn("ARTIST", fmt.Sprintf("%s [%s]: %v", op, kind, apperr.FieldsOf(err)))
	} else {
		s.Logger.Error("ARTIST", fmt.Sprintf("%s [%s]: %v", op, kind, err))
	}
	return err
}

func (s *ArtistService) publish(ctx context.Context, topic string, id int64, payload interface{}) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, topic, id, payload); err != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish %s for artist %d: %v", topic, id, err))
	}
}
