package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyyur/internal/apperr"
	"fyyur/internal/flash"
	"fyyur/internal/logger"
	"fyyur/internal/models"
)

func newRenderer(t *testing.T) (*Renderer, *flash.Manager) {
	t.Helper()
	fm := flash.NewManager(flash.NewMemoryStore(time.Minute), "fyyur_session", time.Minute, logger.NewDiscard())
	rd, err := NewRenderer(fm, logger.NewDiscard())
	require.NoError(t, err)
	return rd, fm
}

func TestFormatDateTime(t *testing.T) {
	at := time.Date(2019, 5, 21, 21, 30, 0, 0, time.Local)
	assert.Equal(t, "Tuesday May, 21, 2019 at 9:30PM", FormatDateTime(at, "full"))
	assert.Equal(t, "Tue 05, 21, 2019 9:30PM", FormatDateTime(at, "medium"))
	assert.Equal(t, "2019-05-21", FormatDateTime(at, "2006-01-02"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(apperr.NotFound))
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperr.Validation))
	assert.Equal(t, http.StatusConflict, StatusFor(apperr.Constraint))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(apperr.StoreUnavailable))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(apperr.Unknown))
}

func TestAllPagesParse(t *testing.T) {
	rd, _ := newRenderer(t)
	for _, page := range []string{
		"home", "venues", "artists", "search", "show_venue", "show_artist",
		"shows", "venue_form", "artist_form", "show_form", "error",
	} {
		assert.Contains(t, rd.pages, page)
	}
}

func TestHTMLShowsFlashOnce(t *testing.T) {
	rd, fm := newRenderer(t)
	handler := fm.Middleware(http.HandlerFunc(rd.Home))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := first.Result().Cookies()[0]

	fm.Store.Push(context.Background(), cookie.Value, flash.Message{Category: flash.CategorySuccess, Text: "Venue The Blue Note was successfully listed!"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	assert.Contains(t, second.Body.String(), "Venue The Blue Note was successfully listed!")
	assert.Contains(t, second.Body.String(), "alert-success")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	third := httptest.NewRecorder()
	handler.ServeHTTP(third, req)
	assert.NotContains(t, third.Body.String(), "successfully listed")
}

func TestShowVenuePage(t *testing.T) {
	rd, _ := newRenderer(t)
	start := time.Date(2035, 4, 1, 20, 0, 0, 0, time.Local)
	detail := &models.VenueDetail{
		Venue: models.Venue{ID: 3, Name: "Park Square", City: "San Francisco", State: "CA", Genres: []string{"Jazz"}},
		UpcomingShows: []models.ShowEntry{
			{ID: 1, OtherID: 7, OtherName: "Wild Sax Band", StartTime: start},
		},
		PastShows:          []models.ShowEntry{},
		UpcomingShowsCount: 1,
	}

	rr := httptest.NewRecorder()
	rd.HTML(rr, httptest.NewRequest(http.MethodGet, "/venues/3", nil), http.StatusOK, "show_venue", detail.Name, detail)

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, body, "Park Square")
	assert.Contains(t, body, `href="/artists/7"`)
	assert.Contains(t, body, "1 Upcoming Show")
	assert.Contains(t, body, "0 Past Shows")
	assert.Contains(t, body, FormatDateTime(start, "full"))
	assert.Contains(t, body, `action="/venues/3/delete"`)
}

func TestSearchActionFollowsSection(t *testing.T) {
	assert.Equal(t, "/artists/search", searchAction("/artists/4"))
	assert.Equal(t, "/venues/search", searchAction("/venues"))
	assert.Equal(t, "/venues/search", searchAction("/"))
}

func TestErrorPages(t *testing.T) {
	rd, _ := newRenderer(t)

	rr := httptest.NewRecorder()
	rd.Error(rr, httptest.NewRequest(http.MethodGet, "/venues/9", nil), apperr.New(apperr.NotFound, "get venue", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "does not exist")

	rr = httptest.NewRecorder()
	rd.Error(rr, httptest.NewRequest(http.MethodGet, "/venues", nil), apperr.New(apperr.StoreUnavailable, "list venues", errors.New("refused")))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = httptest.NewRecorder()
	rd.Error(rr, httptest.NewRequest(http.MethodGet, "/venues", nil), errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "boom")
}

func TestRecovererRendersServerError(t *testing.T) {
	rd, _ := newRenderer(t)
	handler := rd.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Something went wrong")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogger(logger.NewWriter(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/venues/create", nil))
	assert.Contains(t, buf.String(), "POST /venues/create - 418")
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	Health(pinger{})(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `"success":true`))

	rr = httptest.NewRecorder()
	Health(pinger{err: errors.New("connection refused")})(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "connection refused")
}
