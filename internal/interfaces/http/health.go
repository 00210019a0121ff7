package http

import (
	"context"
	"net/http"
	"time"
)

// Pinger is satisfied by *postgres.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HandleHealth reports liveness and database reachability. A nil pinger
// skips the database check.
func HandleHealth(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
			return
		}

		resp := HealthResponse{Status: "ok", Database: "skipped"}
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				resp.Status, resp.Database = "degraded", "unreachable"
				writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Data: resp, Error: "database_unavailable"})
				return
			}
			resp.Database = "ok"
		}
		respondData(w, resp, "")
	}
}
