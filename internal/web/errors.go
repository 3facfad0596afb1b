package web

import (
	"fmt"
	"net/http"

	"fyyur/internal/apperr"
)

type errorPage struct {
	Status  int
	Message string
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Constraint:
		return http.StatusConflict
	case apperr.StoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "The page you are looking for does not exist."
	case http.StatusBadRequest:
		return "The submitted data could not be processed."
	case http.StatusConflict:
		return "The change conflicts with existing records."
	case http.StatusServiceUnavailable:
		return "The database is unavailable right now. Please try again shortly."
	default:
		return "Something went wrong on our side."
	}
}

// Error renders the error page matching err's kind.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(apperr.KindOf(err))
	if status >= http.StatusInternalServerError {
		rd.Logger.Error("HTTP", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
	}
	rd.HTML(w, r, status, "error", http.StatusText(status), errorPage{Status: status, Message: messageFor(status)})
}

func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Error(w, r, apperr.New(apperr.NotFound, r.URL.Path, nil))
}
