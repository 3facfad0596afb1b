package show_api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fyyur/internal/apperr"
	"fyyur/internal/flash"
	"fyyur/internal/forms"
	"fyyur/internal/logger"
	"fyyur/internal/models"
	shows "fyyur/internal/shows/service"
	"fyyur/internal/web"
)

type Handler struct {
	ShowService *shows.ShowService
	Render      *web.Renderer
	Flash       *flash.Manager
	Logger      *logger.Logger
}

func NewHandler(svc *shows.ShowService, rd *web.Renderer, fm *flash.Manager, log *logger.Logger) *Handler {
	return &Handler{ShowService: svc, Render: rd, Flash: fm, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/shows", func(r chi.Router) {
		r.Get("/", h.ListShows)
		r.Get("/create", h.CreateShowForm)
		r.Post("/create", h.CreateShow)
	})
}

type formPage struct {
	Form    forms.ShowForm
	Errors  map[string]string
	Venues  []models.VenueSummary
	Artists []models.ArtistSummary
}

func (h *Handler) ListShows(w http.ResponseWriter, r *http.Request) {
	list, err := h.ShowService.List(r.Context())
	if err != nil {
		h.Render.Error(w, r, err)
		return
	}
	h.Render.HTML(w, r, http.StatusOK, "shows", "Shows", list)
}

func (h *Handler) CreateShowForm(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r, forms.ShowForm{})
	if err != nil {
		h.Render.Error(w, r, err)
		return
	}
	h.Render.HTML(w, r, http.StatusOK, "show_form", "New show", page)
}

func (h *Handler) CreateShow(w http.ResponseWriter, r *http.Request) {
	var form forms.ShowForm
	if err := r.ParseForm(); err != nil {
		h.Render.Error(w, r, apperr.New(apperr.Validation, "parse show form", err))
		return
	}
	form.FromValues(r.PostForm)

	if _, err := h.ShowService.Create(r.Context(), form); err != nil {
		h.Flash.Error(r.Context(), "An error occurred. Show could not be listed.")
		kind := apperr.KindOf(err)
		if kind != apperr.Validation && kind != apperr.Constraint {
			h.Render.Error(w, r, err)
			return
		}
		page, perr := h.page(r, form)
		if perr != nil {
			h.Render.Error(w, r, perr)
			return
		}
		page.Errors = apperr.FieldsOf(err)
		if page.Errors == nil {
			page.Errors = map[string]string{}
		}
		h.Render.HTML(w, r, web.StatusFor(kind), "show_form", "New show", page)
		return
	}

	h.Flash.Success(r.Context(), "Show was successfully listed!")
	h.Render.Redirect(w, r, "/")
}

func (h *Handler) page(r *http.Request, form forms.ShowForm) (formPage, error) {
	choices, err := h.ShowService.Choices(r.Context())
	if err != nil {
		return formPage{}, err
	}
	return formPage{
		Form:    form,
		Errors:  map[string]string{},
		Venues:  choices.Venues,
		Artists: choices.Artists,
	}, nil
}
