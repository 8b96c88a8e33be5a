// Package router wires handlers, middleware and operational endpoints
// into one http.Handler.
//
// Route table:
//
//	POST   /api/students        → create a new student
//	GET    /api/students        → list all students
//	GET    /api/students/{id}   → get one student by ID
//	PUT    /api/students/{id}   → update a student
//	DELETE /api/students/{id}   → delete a student
//	GET    /health              → liveness plus record count
//	GET    /metrics             → Prometheus metrics
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aanand-mishra/student-records-api/internal/http/handlers/student"
	"github.com/aanand-mishra/student-records-api/internal/http/middleware"
	"github.com/aanand-mishra/student-records-api/internal/metrics"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
)

// Options configures New.
type Options struct {
	Logger             *slog.Logger
	Metrics            *metrics.Metrics
	MaxBodyBytes       int64
	CORSAllowedOrigins []string
}

// New builds the router for s.
func New(s storage.Storage, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if opts.MaxBodyBytes > 0 {
		r.Use(middleware.MaxBodyBytes(opts.MaxBodyBytes))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusNotFound, response.Fail("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusMethodNotAllowed, response.Fail("Method not allowed"))
	})

	r.Get("/health", health(s))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api/students", func(r chi.Router) {
		r.Post("/", student.New(s))
		r.Get("/", student.GetList(s))
		r.Get("/{id}", student.GetByID(s))
		r.Put("/{id}", student.Update(s))
		r.Delete("/{id}", student.Delete(s))
	})

	return r
}

func health(s storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := storage.Count(r.Context(), s)
		if err != nil {
			response.WriteError(w, r, err, "Storage unavailable")
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK("ok", map[string]any{
			"status":   "healthy",
			"students": n,
		}))
	}
}
