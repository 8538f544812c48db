package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/richinex/codechat/assistant"
	"github.com/richinex/codechat/projects"
)

// Assistant is the service the HTTP handlers call.
type Assistant interface {
	Chat(ctx context.Context, req assistant.ChatRequest) (assistant.Answer, error)
	GenerateOverview(ctx context.Context, req assistant.OverviewRequest) (assistant.Overview, error)
	ConfigStatus() assistant.ConfigStatus
	Providers() []string
}

// NewRouter creates the chi router. catalog may be nil, in which case
// GET /api/projects is not served.
func NewRouter(svc Assistant, catalog projects.Catalog, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	h := &handler{svc: svc, catalog: catalog, logger: logger}

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.chat)                                // POST /api/chat
		r.Post("/projects/{projectName}/overview", h.overview) // POST /api/projects/{projectName}/overview
		r.Get("/config/status", h.configStatus)                // GET /api/config/status
		r.Get("/providers", h.providers)                       // GET /api/providers
		if catalog != nil {
			r.Get("/projects", h.listProjects) // GET /api/projects
		}
	})

	return r
}

// requestID tags each request with a UUID, reusing an incoming X-Request-Id.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger logs one line per request with its status and duration.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
