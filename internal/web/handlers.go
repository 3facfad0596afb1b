package web

import (
	"context"
	"net/http"
	"time"

	"fyyur/internal/utils"
)

// Pinger is satisfied by *bun.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func (rd *Renderer) Home(w http.ResponseWriter, r *http.Request) {
	rd.HTML(w, r, http.StatusOK, "home", "", nil)
}

// Health reports whether the database answers a ping.
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, utils.ErrorResponse("database unreachable", err.Error()))
			return
		}
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", map[string]string{"database": "up"}))
	}
}
