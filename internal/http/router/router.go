// Package router assembles the route table and the middleware chain.
package router

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/wellbeing-api/internal/config"
	"github.com/aanand-mishra/wellbeing-api/internal/http/handlers/health"
	"github.com/aanand-mishra/wellbeing-api/internal/http/handlers/student"
	"github.com/aanand-mishra/wellbeing-api/internal/http/middleware"
	"github.com/aanand-mishra/wellbeing-api/internal/storage"
)

// New returns the application handler.
//
// Route table:
//
//	GET    /                 welcome message
//	GET    /health           liveness probe
//	GET    /students         list students (?skip=&limit=)
//	POST   /students         create a student
//	GET    /students/{id}    get one student
//	PUT    /students/{id}    update a student
//	DELETE /students/{id}    delete a student
func New(cfg *config.Config, store storage.Storage, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", health.Root())
	mux.HandleFunc("GET /health", health.Check())

	mux.HandleFunc("GET /students", student.GetList(store))
	mux.HandleFunc("POST /students", student.New(store))
	mux.HandleFunc("GET /students/{id}", student.GetByID(store))
	mux.HandleFunc("PUT /students/{id}", student.Update(store))
	mux.HandleFunc("DELETE /students/{id}", student.Delete(store))

	// Outermost first: every request gets an id before it is logged.
	return chain(mux,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recover(log),
		middleware.CORS(cfg.AllowedOrigins()),
	)
}

// chain wraps h so that mws[0] runs first.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
