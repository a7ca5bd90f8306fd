// Package server provides the HTTP API for capturing and reading notes.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"mindlink/internal/config"
	"mindlink/internal/domain"
	"mindlink/internal/worker"
)

// NoteService is the slice of the note layer the API needs.
type NoteService interface {
	CreateTextNote(ctx context.Context, userID, content string, noteType domain.NoteType, tags []string) (*domain.Note, error)
	ListNotes(ctx context.Context, userID string) ([]*domain.Note, error)
	GetNote(ctx context.Context, id uuid.UUID) (*domain.Note, *domain.VideoNote, error)
}

// IngestQueue accepts video capture jobs and reports on them.
type IngestQueue interface {
	Enqueue(userID, rawURL string, tags []string) (uuid.UUID, error)
	Job(id uuid.UUID) (worker.Job, bool)
}

type Server struct {
	notes  NoteService
	queue  IngestQueue
	config config.ServerConfig
	logger *slog.Logger
	server *http.Server
}

func NewServer(notes NoteService, queue IngestQueue, cfg config.ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		notes:  notes,
		queue:  queue,
		config: cfg,
		logger: logger,
	}
}

func (s *Server) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/api/v1/notes", s.handleCreateNote)
	r.Post("/api/v1/notes/youtube", s.handleCaptureYoutube)
	r.Get("/api/v1/notes", s.handleListNotes)
	r.Get("/api/v1/notes/{id}", s.handleGetNote)
	r.Get("/api/v1/ingestions/{id}", s.handleGetIngestion)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}
	s.logger.Info("starting http server", "addr", addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
