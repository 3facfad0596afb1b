package venues_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fyyur/internal/apperr"
	"fyyur/internal/forms"
	"fyyur/internal/logger"
	"fyyur/internal/models"
	venues "fyyur/internal/venues/service"
)

// MockVenueDBLayer is a mock implementation of the VenueDBLayer interface
type MockVenueDBLayer struct {
	mock.Mock
}

func (m *MockVenueDBLayer) ListVenues(ctx context.Context) ([]models.Venue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *MockVenueDBLayer) SearchVenues(ctx context.Context, term string) ([]models.Venue, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *MockVenueDBLayer) UpcomingShowCounts(ctx context.Context, now time.Time) (map[int64]int, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int), args.Error(1)
}

func (m *MockVenueDBLayer) GetVenueByID(ctx context.Context, id int64) (*models.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}

func (m *MockVenueDBLayer) GetVenueShows(ctx context.Context, venueID int64) ([]models.Show, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Show), args.Error(1)
}

func (m *MockVenueDBLayer) CreateVenue(ctx context.Context, venue *models.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}

func (m *MockVenueDBLayer) UpdateVenue(ctx context.Context, venue *models.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}

func (m *MockVenueDBLayer) DeleteVenue(ctx context.Context, id int64) (*models.Venue, int, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.Venue), args.Int(1), args.Error(2)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, id int64, payload interface{}) error {
	args := m.Called(ctx, topic, id, payload)
	return args.Error(0)
}

var now = time.Date(2026, 4, 1, 18, 0, 0, 0, time.UTC)

func newService(db *MockVenueDBLayer, events *MockPublisher) *venues.VenueService {
	svc := venues.NewVenueService(db, events, logger.NewDiscard())
	svc.Now = func() time.Time { return now }
	return svc
}

func validForm() forms.VenueForm {
	return forms.VenueForm{
		Name:    "The Blue Note",
		City:    "Nashville",
		State:   "TN",
		Address: "123 Main",
		Phone:   "555-0100",
	}
}

func TestListAreasGroupsByCityAndState(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	svc := newService(mockDB, new(MockPublisher))

	mockDB.On("ListVenues", mock.Anything).Return([]models.Venue{
		{ID: 1, Name: "The Musical Hop", City: "San Francisco", State: "CA"},
		{ID: 3, Name: "Park Square", City: "San Francisco", State: "CA"},
		{ID: 2, Name: "Dueling Pianos", City: "New York", State: "NY"},
	}, nil)
	mockDB.On("UpcomingShowCounts", mock.Anything, now).Return(map[int64]int{3: 2}, nil)

	areas, err := svc.ListAreas(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 2)

	assert.Equal(t, "San Francisco", areas[0].City)
	assert.Equal(t, []models.VenueSummary{
		{ID: 1, Name: "The Musical Hop", NumUpcomingShows: 0},
		{ID: 3, Name: "Park Square", NumUpcomingShows: 2},
	}, areas[0].Venues)
	assert.Equal(t, "NY", areas[1].State)
	assert.Len(t, areas[1].Venues, 1)
	mockDB.AssertExpectations(t)
}

func TestListAreasEmpty(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	svc := newService(mockDB, new(MockPublisher))

	mockDB.On("ListVenues", mock.Anything).Return([]models.Venue{}, nil)
	mockDB.On("UpcomingShowCounts", mock.Anything, now).Return(map[int64]int{}, nil)

	areas, err := svc.ListAreas(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, areas)
	assert.Empty(t, areas)
}

func TestListAreasStoreUnavailable(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	svc := newService(mockDB, new(MockPublisher))

	mockDB.On("ListVenues", mock.Anything).Return(nil, fmt.Errorf("list venues: %w", sql.ErrConnDone))

	_, err := svc.ListAreas(context.Background())
	assert.Equal(t, apperr.StoreUnavailable, apperr.KindOf(err))
}

func TestSearchCountsUpcomingShows(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	svc := newService(mockDB, new(MockPublisher))

	mockDB.On("SearchVenues", mock.Anything, "hop").Return([]models.Venue{{ID: 1, Name: "The Musical Hop"}}, nil)
	mockDB.On("UpcomingShowCounts", mock.Anything, now).Return(map[int64]int{1: 4}, nil)

	result, err := svc.Search(context.Background(), "hop")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []models.SearchResultItem{{ID: 1, Name: "The Musical Hop", NumUpcomingShows: 4}}, result.Data)
}

func TestSearchNoMatch(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	svc := newService(mockDB, new(MockPublisher))

	mockDB.On("SearchVenues", mock.Anything, "zzz").Return([]models.Venue{}, nil)
	mockDB.On("UpcomingShowCounts", mock.Anything, now).Return(map[int64]int{}, nil)

	result, err := svc.Search(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Data)
}

func TestGetPartitionsShows(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	svc := newService(mockDB, new(MockPublisher))

	artist := &models.Artist{ID: 9, Name: "Wild Sax Band", ImageLink: "https://img.example/sax.png"}
	mockDB.On("GetVenueByID", mock.Anything, int64(1)).Return(&models.Venue{ID: 1, Name: "Park Square"}, nil)
	mockDB.On("GetVenueShows", mock.Anything, int64(1)).Return([]models.Show{
		{ID: 1, ArtistID: 9, Artist: artist, StartTime: now.Add(-time.Hour)},
		{ID: 2, ArtistID: 9, Artist: artist, StartTime: now},
		{ID: 3, ArtistID: 9, Artist: artist, StartTime: now.Add(time.Hour)},
	}, nil)

	detail, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Park Square", detail.Name)
	assert.Equal(t, 2, detail.PastShowsCount)
	assert.Equal(t, 1, detail.UpcomingShowsCount)
	assert.Equal(t, int64(3), detail.UpcomingShows[0].ID)
	assert.Equal(t, "Wild Sax Band", detail.UpcomingShows[0].OtherName)
	assert.Equal(t, "https://img.example/sax.png", detail.UpcomingShows[0].OtherLink)
}

func TestGetNotFound(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	svc := newService(mockDB, new(MockPublisher))

	mockDB.On("GetVenueByID", mock.Anything, int64(404)).Return(nil, fmt.Errorf("get venue 404: %w", sql.ErrNoRows))

	_, err := svc.Get(context.Background(), 404)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	mockDB.AssertNotCalled(t, "GetVenueShows", mock.Anything, mock.Anything)
}

func TestCreateVenue(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	events := new(MockPublisher)
	svc := newService(mockDB, events)

	mockDB.On("CreateVenue", mock.Anything, mock.MatchedBy(func(v *models.Venue) bool {
		return v.Name == "The Blue Note" && v.City == "Nashville" && v.Address == "123 Main"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Venue).ID = 12
	}).Return(nil)
	events.On("Publish", mock.Anything, "venue.created", int64(12), mock.Anything).Return(nil)

	venue, err := svc.Create(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(12), venue.ID)
	mockDB.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestCreateVenueInvalidFormSkipsStore(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	svc := newService(mockDB, new(MockPublisher))

	form := validForm()
	form.Name = ""
	_, err := svc.Create(context.Background(), form)

	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Contains(t, apperr.FieldsOf(err), "name")
	mockDB.AssertNotCalled(t, "CreateVenue", mock.Anything, mock.Anything)
}

func TestCreateVenuePublishFailureIsIgnored(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	events := new(MockPublisher)
	svc := newService(mockDB, events)

	mockDB.On("CreateVenue", mock.Anything, mock.Anything).Return(nil)
	events.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, err := svc.Create(context.Background(), validForm())
	assert.NoError(t, err)
}

func TestCreateVenueConstraint(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	events := new(MockPublisher)
	svc := newService(mockDB, events)

	mockDB.On("CreateVenue", mock.Anything, mock.Anything).Return(errors.New("NOT NULL constraint failed: venues.name"))

	_, err := svc.Create(context.Background(), validForm())
	assert.Equal(t, apperr.Constraint, apperr.KindOf(err))
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateVenueOverwritesFields(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	events := new(MockPublisher)
	svc := newService(mockDB, events)

	existing := &models.Venue{ID: 5, Name: "Old", Genres: []string{"Pop"}, SeekingTalent: true, SeekingDescription: "call us"}
	mockDB.On("GetVenueByID", mock.Anything, int64(5)).Return(existing, nil)
	mockDB.On("UpdateVenue", mock.Anything, mock.MatchedBy(func(v *models.Venue) bool {
		return v.ID == 5 && v.Name == "The Blue Note" && len(v.Genres) == 0 && !v.SeekingTalent && v.SeekingDescription == ""
	})).Return(nil)
	events.On("Publish", mock.Anything, "venue.updated", int64(5), mock.Anything).Return(nil)

	venue, err := svc.Update(context.Background(), 5, validForm())
	require.NoError(t, err)
	assert.Equal(t, "The Blue Note", venue.Name)
	mockDB.AssertExpectations(t)
}

func TestUpdateMissingVenue(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	svc := newService(mockDB, new(MockPublisher))

	mockDB.On("GetVenueByID", mock.Anything, int64(8)).Return(nil, sql.ErrNoRows)

	_, err := svc.Update(context.Background(), 8, validForm())
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	mockDB.AssertNotCalled(t, "UpdateVenue", mock.Anything, mock.Anything)
}

func TestDeleteVenue(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	events := new(MockPublisher)
	svc := newService(mockDB, events)

	mockDB.On("DeleteVenue", mock.Anything, int64(2)).Return(&models.Venue{ID: 2, Name: "Dueling Pianos"}, 3, nil)
	events.On("Publish", mock.Anything, "venue.deleted", int64(2), mock.Anything).Return(nil)

	var logs bytes.Buffer
	svc.Logger = logger.NewWriter(&logs)

	venue, err := svc.Delete(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Dueling Pianos", venue.Name)
	assert.Contains(t, logs.String(), "removed 3 rows of venue 2")
	events.AssertExpectations(t)
}

func TestDeleteVenueFailure(t *testing.T) {
	mockDB := new(MockVenueDBLayer)
	events := new(MockPublisher)
	svc := newService(mockDB, events)

	mockDB.On("DeleteVenue", mock.Anything, int64(2)).Return(nil, 0, context.DeadlineExceeded)

	_, err := svc.Delete(context.Background(), 2)
	assert.Equal(t, apperr.StoreUnavailable, apperr.KindOf(err))
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
