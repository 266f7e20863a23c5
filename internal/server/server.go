package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dentalAssistant/internal/assistant"
	"dentalAssistant/internal/session"
)

// Options carries the listener settings for New.
type Options struct {
	Port         string
	WriteTimeout time.Duration
}

// NewRouter builds the routes and middleware without binding a listener.
func NewRouter(handler assistant.Handler, sessions session.Middleware, staticFS http.Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Route("/api/session", func(r chi.Router) {
		r.Use(sessions.Attach)
		r.Get("/", handler.GetSession)
		r.Delete("/", handler.Clear)
		r.Post("/image", handler.UploadImage)
		r.Get("/image", handler.GetImage)
		r.Post("/analyze", handler.Analyze)
		r.Get("/events", handler.StreamEvents)
	})

	if staticFS != nil {
		router.Handle("/*", staticFS)
	}

	return router
}

// New constructs the HTTP server with routes and middleware.
func New(opts Options, handler assistant.Handler, sessions session.Middleware, staticFS http.Handler) *http.Server {
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 180 * time.Second
	}

	// Long-lived event streams only end when their request context does, so
	// Shutdown cancels the base context instead of waiting them out.
	baseCtx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           NewRouter(handler, sessions, staticFS),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancel)

	log.Println("server ready on", srv.Addr)
	return srv
}
