package artist_api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fyyur/internal/apperr"
	artists "fyyur/internal/artists/service"
	"fyyur/internal/flash"
	"fyyur/internal/forms"
	"fyyur/internal/logger"
	"fyyur/internal/qr"
	"fyyur/internal/web"
)

type Handler struct {
	ArtistService *artists.ArtistService
	Render        *web.Renderer
	Flash         *flash.Manager
	QRGenerator   *qr.QRGenerator
	Logger        *logger.Logger
}

func NewHandler(svc *artists.ArtistService, rd *web.Renderer, fm *flash.Manager, qrGen *qr.QRGenerator, log *logger.Logger) *Handler {
	return &Handler{ArtistService: svc, Render: rd, Flash: fm, QRGenerator: qrGen, Logger: log}
}

// RegisterRoutes mounts the artist pages under /artists. Artists have no
// delete route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/artists", func(r chi.Router) {
		r.Get("/", h.ListArtists)
		r.Post("/search", h.SearchArtists)
		r.Get("/create", h.CreateArtistForm)
		r.Post("/create", h.CreateArtist)
		r.Route("/{artistID}", func(r chi.Router) {
			r.Get("/", h.ShowArtist)
			r.Get("/edit", h.EditArtistForm)
			r.Post("/edit", h.EditArtist)
			r.Get("/qr", h.ArtistQR)
		})
	})
}

type formPage struct {
	Form   forms.ArtistForm
	Errors map[string]string
	Action string
	IsEdit bool
}

type searchPage struct {
	SearchTerm string
	Results    interface{}
	BasePath   string
}

func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	list, err := h.ArtistService.List(r.Context())
	if err != nil {
		h.Render.Error(w, r, err)
		return
	}
	h.Render.HTML(w, r, http.StatusOK, "artists", "Artists", list)
}

func (h *Handler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	term := r.PostFormValue("search_term")
	result, err := h.ArtistService.Search(r.Context(), term)
	if err != nil {
		h.Render.Error(w, r, err)
		return
	}
	h.Render.HTML(w, r, http.StatusOK, "search", "Artist search", searchPage{SearchTerm: term, Results: result, BasePath: "/artists"})
}

func (h *Handler) ShowArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := artistID(r)
	if !ok {
		h.Render.NotFound(w, r)
		return
	}
	detail, err := h.ArtistService.Get(r.Context(), id)
	if err != nil {
		h.Render.Error(w, r, err)
		return
	}
	h.Render.HTML(w, r, http.StatusOK, "show_artist", detail.Name, detail)
}

func (h *Handler) CreateArtistForm(w http.ResponseWriter, r *http.Request) {
	h.Render.HTML(w, r, http.StatusOK, "artist_form", "New artist", formPage{
		Form:   forms.ArtistForm{SeekingVenue: true},
		Action: "/artists/create",
	})
}

func (h *Handler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	var form forms.ArtistForm
	if err := r.ParseForm(); err != nil {
		h.Render.Error(w, r, apperr.New(apperr.Validation, "parse artist form", err))
		return
	}
	form.FromValues(r.PostForm)

	artist, err := h.ArtistService.Create(r.Context(), form)
	if err != nil {
		h.formError(w, r, err, formPage{Form: form, Action: "/artists/create"},
			fmt.Sprintf("An error occurred. Artist %s could not be listed.", form.Name))
		return
	}

	h.Flash.Success(r.Context(), fmt.Sprintf("Artist %s was successfully listed!", artist.Name))
	h.Render.Redirect(w, r, "/")
}

func (h *Handler) EditArtistForm(w http.ResponseWriter, r *http.Request) {
	id, ok := artistID(r)
	if !ok {
		h.Render.NotFound(w, r)
		return
	}
	artist, err := h.ArtistService.GetArtist(r.Context(), id)
	if err != nil {
		h.Render.Error(w, r, err)
		return
	}
	h.Render.HTML(w, r, http.StatusOK, "artist_form", "Edit artist", formPage{
		Form:   forms.ArtistFormFrom(artist),
		Action: fmt.Sprintf("/artists/%d/edit", id),
		IsEdit: true,
	})
}

func (h *Handler) EditArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := artistID(r)
	if !ok {
		h.Render.NotFound(w, r)
		return
	}
	var form forms.ArtistForm
	if err := r.ParseForm(); err != nil {
		h.Render.Error(w, r, apperr.New(apperr.Validation, "parse artist form", err))
		return
	}
	form.FromValues(r.PostForm)

	artist, err := h.ArtistService.Update(r.Context(), id, form)
	if err != nil {
		page := formPage{Form: form, Action: fmt.Sprintf("/artists/%d/edit", id), IsEdit: true}
		h.formError(w, r, err, page, fmt.Sprintf("An error occurred. Artist %s could not be updated.", form.Name))
		return
	}

	h.Flash.Success(r.Context(), fmt.Sprintf("Artist %s was successfully edited!", artist.Name))
	h.Render.Redirect(w, r, fmt.Sprintf("/artists/%d", artist.ID))
}

func (h *Handler) ArtistQR(w http.ResponseWriter, r *http.Request) {
	id, ok := artistID(r)
	if !ok {
		h.Render.NotFound(w, r)
		return
	}
	if _, err := h.ArtistService.GetArtist(r.Context(), id); err != nil {
		h.Render.Error(w, r, err)
		return
	}
	png, err := h.QRGenerator.ArtistPNG(id)
	if err != nil {
		h.Render.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) formError(w http.ResponseWriter, r *http.Request, err error, page formPage, msg string) {
	h.Flash.Error(r.Context(), msg)
	kind := apperr.KindOf(err)
	if kind != apperr.Validation && kind != apperr.Constraint {
		h.Render.Error(w, r, err)
		return
	}
	page.Errors = apperr.FieldsOf(err)
	if page.Errors == nil {
		page.Errors = map[string]string{}
	}
	h.Render.HTML(w, r, web.StatusFor(kind), "artist_form", "Artist form", page)
}

func artistID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "artistID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
