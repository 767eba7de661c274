package httpapi

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter returns the base router with the shared middleware stack and
// the health check mounted. Features register their own routes on it.
func NewRouter(db *sql.DB) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	registerHealthcheck(r, db)
	return r
}
