// Package httpapi exposes budget sessions over HTTP.
package httpapi

import (
	"net/http"

	"budget-agent/internal/application/port/input"
	"budget-agent/internal/application/port/output"
	"budget-agent/internal/application/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

type handlers struct {
	sessions *service.SessionStore
	executor input.TaskExecutor
	logger   output.LoggerPort
}

type Options struct {
	// AccessLog enables JSON request logging to stdout.
	AccessLog   bool
	ServiceName string
}

func NewRouter(sessions *service.SessionStore, executor input.TaskExecutor, logger output.LoggerPort, opts Options) http.Handler {
	h := &handlers{sessions: sessions, executor: executor, logger: logger}

	r := chi.NewRouter()
	if opts.AccessLog {
		name := opts.ServiceName
		if name == "" {
			name = "budget-agent"
		}
		r.Use(httplog.RequestLogger(httplog.NewLogger(name, httplog.Options{JSON: true, Concise: true})))
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", h.handleSessionCreate)
		r.Get("/{session_id}", h.handleSessionQuery)
		r.Delete("/{session_id}", h.handleSessionDelete)
		r.Post("/{session_id}/messages", h.handleSessionMessage)
	})
	return r
}

func (h *handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
