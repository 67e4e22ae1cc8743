// Package web serves the liveness endpoint, independent of the message
// loop so it stays reachable while replies are in flight.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the minimal health surface.
type Server struct {
	hs *http.Server
}

// New builds the server for the given listen address.
func New(addr string) *Server {
	r := chi.NewMux()
	r.Use(middleware.Recoverer)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Bot is running!"))
	})
	return &Server{hs: &http.Server{Addr: addr, Handler: r}}
}

// Serve blocks until the listener fails or Stop is called.
func (s *Server) Serve() error {
	err := s.hs.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.hs.Shutdown(ctx)
}
