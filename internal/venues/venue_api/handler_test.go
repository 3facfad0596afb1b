package venue_api_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"fyyur/internal/database/dbtest"
	"fyyur/internal/flash"
	"fyyur/internal/kafka"
	"fyyur/internal/logger"
	"fyyur/internal/models"
	"fyyur/internal/qr"
	"fyyur/internal/venues/db"
	venues "fyyur/internal/venues/service"
	"fyyur/internal/venues/venue_api"
	"fyyur/internal/web"
)

type testApp struct {
	router http.Handler
	db     *bun.DB
	cookie *http.Cookie
}

func setup(t *testing.T) *testApp {
	t.Helper()
	bunDB := dbtest.New(t)
	log := logger.NewDiscard()

	fm := flash.NewManager(flash.NewMemoryStore(time.Minute), "fyyur_session", time.Minute, log)
	rd, err := web.NewRenderer(fm, log)
	require.NoError(t, err)

	svc := venues.NewVenueService(&db.DB{Bun: bunDB}, kafka.NoopPublisher{}, log)
	h := venue_api.NewHandler(svc, rd, fm, qr.NewQRGenerator("http://localhost:5000"), log)

	r := chi.NewRouter()
	r.Use(fm.Middleware)
	r.Get("/", rd.Home)
	h.RegisterRoutes(r)
	r.NotFound(rd.NotFound)

	return &testApp{
		router: r,
		db:     bunDB,
		cookie: &http.Cookie{Name: "fyyur_session", Value: uuid.NewString()},
	}
}

func (a *testApp) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(a.cookie)

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func blueNoteForm() url.Values {
	return url.Values{
		"name":    {"The Blue Note"},
		"city":    {"Nashville"},
		"state":   {"TN"},
		"address": {"123 Main"},
		"phone":   {"555-0100"},
	}
}

func TestCreateVenueScenario(t *testing.T) {
	app := setup(t)

	rr := app.do(http.MethodPost, "/venues/create", blueNoteForm())
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	var venue models.Venue
	require.NoError(t, app.db.NewSelect().Model(&venue).Where("name = ?", "The Blue Note").Scan(context.Background()))
	assert.Equal(t, "Nashville", venue.City)
	assert.Equal(t, "TN", venue.State)
	assert.Equal(t, "123 Main", venue.Address)
	assert.Equal(t, "555-0100", venue.Phone)

	home := app.do(http.MethodGet, "/", nil)
	assert.Contains(t, home.Body.String(), "Venue The Blue Note was successfully listed!")

	again := app.do(http.MethodGet, "/", nil)
	assert.NotContains(t, again.Body.String(), "successfully listed")

	detail := app.do(http.MethodGet, fmt.Sprintf("/venues/%d", venue.ID), nil)
	require.Equal(t, http.StatusOK, detail.Code)
	body := detail.Body.String()
	assert.Contains(t, body, "The Blue Note")
	assert.Contains(t, body, "0 Upcoming Shows")
	assert.Contains(t, body, "0 Past Shows")
}

func TestCreateVenueValidationError(t *testing.T) {
	app := setup(t)
	form := blueNoteForm()
	form.Del("name")
	form.Set("state", "ZZ")

	rr := app.do(http.MethodPost, "/venues/create", form)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "This field is required.")
	assert.Contains(t, body, "Not a valid choice.")
	assert.Contains(t, body, "could not be listed")
	assert.Contains(t, body, `value="Nashville"`)

	count, err := app.db.NewSelect().Model((*models.Venue)(nil)).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestListVenuesGroupsAreas(t *testing.T) {
	app := setup(t)
	hop := dbtest.InsertVenue(t, app.db, "The Musical Hop", "San Francisco", "CA")
	dbtest.InsertVenue(t, app.db, "The Dueling Pianos Bar", "New York", "NY")
	artist := dbtest.InsertArtist(t, app.db, "Guns N Petals")
	dbtest.InsertShow(t, app.db, hop.ID, artist.ID, time.Now().Add(72*time.Hour))

	rr := app.do(http.MethodGet, "/venues", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "San Francisco, CA")
	assert.Contains(t, body, "New York, NY")
	assert.Contains(t, body, "1 upcoming")
	assert.Less(t, strings.Index(body, "San Francisco, CA"), strings.Index(body, "New York, NY"))
}

func TestSearchVenues(t *testing.T) {
	app := setup(t)
	dbtest.InsertVenue(t, app.db, "The Musical Hop", "San Francisco", "CA")
	dbtest.InsertVenue(t, app.db, "Park Square Live Music & Coffee", "San Francisco", "CA")

	rr := app.do(http.MethodPost, "/venues/search", url.Values{"search_term": {"music"}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `Number of search results for "music": 2`)

	rr = app.do(http.MethodPost, "/venues/search", url.Values{"search_term": {"nowhere"}})
	assert.Contains(t, rr.Body.String(), `Number of search results for "nowhere": 0`)
}

func TestShowVenueNotFound(t *testing.T) {
	app := setup(t)

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/venues/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/venues/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/venues/999/edit", nil).Code)
}

func TestShowVenueSplitsShows(t *testing.T) {
	app := setup(t)
	venue := dbtest.InsertVenue(t, app.db, "Park Square", "San Francisco", "CA")
	artist := dbtest.InsertArtist(t, app.db, "Wild Sax Band")
	dbtest.InsertShow(t, app.db, venue.ID, artist.ID, time.Now().Add(-48*time.Hour))
	dbtest.InsertShow(t, app.db, venue.ID, artist.ID, time.Now().Add(48*time.Hour))
	dbtest.InsertShow(t, app.db, venue.ID, artist.ID, time.Now().Add(96*time.Hour))

	rr := app.do(http.MethodGet, fmt.Sprintf("/venues/%d", venue.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "2 Upcoming Shows")
	assert.Contains(t, body, "1 Past Show")
	assert.Contains(t, body, fmt.Sprintf(`href="/artists/%d"`, artist.ID))
}

func TestEditVenue(t *testing.T) {
	app := setup(t)
	venue := dbtest.InsertVenue(t, app.db, "Old Name", "Austin", "TX")
	other := dbtest.InsertVenue(t, app.db, "Untouched", "Austin", "TX")

	form := app.do(http.MethodGet, fmt.Sprintf("/venues/%d/edit", venue.ID), nil)
	require.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), `value="Old Name"`)

	values := blueNoteForm()
	values["genres"] = []string{"Jazz", "Soul"}
	rr := app.do(http.MethodPost, fmt.Sprintf("/venues/%d/edit", venue.ID), values)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, fmt.Sprintf("/venues/%d", venue.ID), rr.Header().Get("Location"))

	var got models.Venue
	require.NoError(t, app.db.NewSelect().Model(&got).Where("id = ?", venue.ID).Scan(context.Background()))
	assert.Equal(t, "The Blue Note", got.Name)
	assert.Equal(t, []string{"Jazz", "Soul"}, got.Genres)
	assert.False(t, got.SeekingTalent)

	var untouched models.Venue
	require.NoError(t, app.db.NewSelect().Model(&untouched).Where("id = ?", other.ID).Scan(context.Background()))
	assert.Equal(t, "Untouched", untouched.Name)

	detail := app.do(http.MethodGet, fmt.Sprintf("/venues/%d", venue.ID), nil)
	assert.Contains(t, detail.Body.String(), "Venue The Blue Note was successfully edited!")
}

func TestEditMissingVenue(t *testing.T) {
	app := setup(t)

	rr := app.do(http.MethodPost, "/venues/42/edit", blueNoteForm())
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteVenueRemovesShows(t *testing.T) {
	app := setup(t)
	venue := dbtest.InsertVenue(t, app.db, "Doomed", "Austin", "TX")
	artist := dbtest.InsertArtist(t, app.db, "Band")
	dbtest.InsertShow(t, app.db, venue.ID, artist.ID, time.Now().Add(time.Hour))
	dbtest.InsertShow(t, app.db, venue.ID, artist.ID, time.Now().Add(-time.Hour))

	rr := app.do(http.MethodPost, fmt.Sprintf("/venues/%d/delete", venue.ID), url.Values{})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	ctx := context.Background()
	venueCount, err := app.db.NewSelect().Model((*models.Venue)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, venueCount)
	showCount, err := app.db.NewSelect().Model((*models.Show)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, showCount)

	home := app.do(http.MethodGet, "/", nil)
	assert.Contains(t, home.Body.String(), "Venue Doomed was successfully deleted!")
}

func TestDeleteMissingVenue(t *testing.T) {
	app := setup(t)

	rr := app.do(http.MethodPost, "/venues/77/delete", url.Values{})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestVenueQR(t *testing.T) {
	app := setup(t)
	venue := dbtest.InsertVenue(t, app.db, "Hop", "San Francisco", "CA")

	rr := app.do(http.MethodGet, fmt.Sprintf("/venues/%d/qr", venue.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "\x89PNG"))

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/venues/500/qr", nil).Code)
}

func TestStoreUnavailable(t *testing.T) {
	app := setup(t)
	require.NoError(t, app.db.Close())

	rr := app.do(http.MethodGet, "/venues", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
