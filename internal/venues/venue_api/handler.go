package venue_api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fyyur/internal/apperr"
	"fyyur/internal/flash"
	"fyyur/internal/forms"
	"fyyur/internal/logger"
	"fyyur/internal/qr"
	venues "fyyur/internal/venues/service"
	"fyyur/internal/web"
)

type Handler struct {
	VenueService *venues.VenueService
	Render       *web.Renderer
	Flash        *flash.Manager
	QRGenerator  *qr.QRGenerator
	Logger       *logger.Logger
}

func NewHandler(svc *venues.VenueService, rd *web.Renderer, fm *flash.Manager, qrGen *qr.QRGenerator, log *logger.Logger) *Handler {
	return &Handler{VenueService: svc, Render: rd, Flash: fm, QRGenerator: qrGen, Logger: log}
}

// RegisterRoutes mounts the venue pages under /venues.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/venues", func(r chi.Router) {
		r.Get("/", h.ListVenues)
		r.Post("/search", h.SearchVenues)
		r.Get("/create", h.CreateVenueForm)
		r.Post("/create", h.CreateVenue)
		r.Route("/{venueID}", func(r chi.Router) {
			r.Get("/", h.ShowVenue)
			r.Get("/edit", h.EditVenueForm)
			r.Post("/edit", h.EditVenue)
			r.Post("/delete", h.DeleteVenue)
			r.Get("/qr", h.VenueQR)
		})
	})
}

type formPage struct {
	Form   forms.VenueForm
	Errors map[string]string
	Action string
	IsEdit bool
}

type searchPage struct {
	SearchTerm string
	Results    interface{}
	BasePath   string
}

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	areas, err := h.VenueService.ListAreas(r.Context())
	if err != nil {
		h.Render.Error(w, r, err)
		return
	}
	h.Render.HTML(w, r, http.StatusOK, "venues", "Venues", areas)
}

func (h *Handler) SearchVenues(w http.ResponseWriter, r *http.Request) {
	term := r.PostFormValue("search_term")
	result, err := h.VenueService.Search(r.Context(), term)
	if err != nil {
		h.Render.Error(w, r, err)
		return
	}
	h.Render.HTML(w, r, http.StatusOK, "search", "Venue search", searchPage{SearchTerm: term, Results: result, BasePath: "/venues"})
}

func (h *Handler) ShowVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := venueID(r)
	if !ok {
		h.Render.NotFound(w, r)
		return
	}
	detail, err := h.VenueService.Get(r.Context(), id)
	if err != nil {
		h.Render.Error(w, r, err)
		return
	}
	h.Render.HTML(w, r, http.StatusOK, "show_venue", detail.Name, detail)
}

func (h *Handler) CreateVenueForm(w http.ResponseWriter, r *http.Request) {
	h.Render.HTML(w, r, http.StatusOK, "venue_form", "New venue", formPage{
		Form:   forms.VenueForm{SeekingTalent: true},
		Action: "/venues/create",
	})
}

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	var form forms.VenueForm
	if err := r.ParseForm(); err != nil {
		h.Render.Error(w, r, apperr.New(apperr.Validation, "parse venue form", err))
		return
	}
	form.FromValues(r.PostForm)

	venue, err := h.VenueService.Create(r.Context(), form)
	if err != nil {
		h.formError(w, r, err, formPage{Form: form, Action: "/venues/create"},
			fmt.Sprintf("An error occurred. Venue %s could not be listed.", form.Name))
		return
	}

	h.Flash.Success(r.Context(), fmt.Sprintf("Venue %s was successfully listed!", venue.Name))
	h.Render.Redirect(w, r, "/")
}

func (h *Handler) EditVenueForm(w http.ResponseWriter, r *http.Request) {
	id, ok := venueID(r)
	if !ok {
		h.Render.NotFound(w, r)
		return
	}
	venue, err := h.VenueService.GetVenue(r.Context(), id)
	if err != nil {
		h.Render.Error(w, r, err)
		return
	}
	h.Render.HTML(w, r, http.StatusOK, "venue_form", "Edit venue", formPage{
		Form:   forms.VenueFormFrom(venue),
		Action: fmt.Sprintf("/venues/%d/edit", id),
		IsEdit: true,
	})
}

func (h *Handler) EditVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := venueID(r)
	if !ok {
		h.Render.NotFound(w, r)
		return
	}
	var form forms.VenueForm
	if err := r.ParseForm(); err != nil {
		h.Render.Error(w, r, apperr.New(apperr.Validation, "parse venue form", err))
		return
	}
	form.FromValues(r.PostForm)

	venue, err := h.VenueService.Update(r.Context(), id, form)
	if err != nil {
		page := formPage{Form: form, Action: fmt.Sprintf("/venues/%d/edit", id), IsEdit: true}
		h.formError(w, r, err, page, fmt.Sprintf("An error occurred. Venue %s could not be updated.", form.Name))
		return
	}

	h.Flash.Success(r.Context(), fmt.Sprintf("Venue %s was successfully edited!", venue.Name))
	h.Render.Redirect(w, r, fmt.Sprintf("/venues/%d", venue.ID))
}

func (h *Handler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := venueID(r)
	if !ok {
		h.Render.NotFound(w, r)
		return
	}
	venue, err := h.VenueService.Delete(r.Context(), id)
	if err != nil {
		if apperr.KindOf(err) != apperr.NotFound {
			h.Flash.Error(r.Context(), "An error occurred. Venue could not be deleted.")
		}
		h.Render.Error(w, r, err)
		return
	}

	h.Flash.Success(r.Context(), fmt.Sprintf("Venue %s was successfully deleted!", venue.Name))
	h.Render.Redirect(w, r, "/")
}

// VenueQR serves a PNG pointing at the public venue page.
func (h *Handler) VenueQR(w http.ResponseWriter, r *http.Request) {
	id, ok := venueID(r)
	if !ok {
		h.Render.NotFound(w, r)
		return
	}
	if _, err := h.VenueService.GetVenue(r.Context(), id); err != nil {
		h.Render.Error(w, r, err)
		return
	}
	png, err := h.QRGenerator.VenuePNG(id)
	if err != nil {
		h.Render.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// formError re-renders the form for validation and constraint failures and
// falls back to the error page otherwise.
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
	h.Render.HTML(w, r, web.StatusFor(kind), "venue_form", "Venue form", page)
}

func venueID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
