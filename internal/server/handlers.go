package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mindlink/internal/domain"
)

type createNoteRequest struct {
	UserID   string   `json:"user_id"`
	Content  string   `json:"content"`
	NoteType string   `json:"note_type"`
	Tags     []string `json:"tags"`
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", domain.CodeValidation)
		return
	}
	if req.UserID == "" {
		s.respondError(w, http.StatusBadRequest, "user_id is required", domain.CodeValidation)
		return
	}
	noteType := domain.NoteType(req.NoteType)
	if req.NoteType == "" {
		noteType = domain.NoteTypeText
	}

	note, err := s.notes.CreateTextNote(r.Context(), req.UserID, req.Content, noteType, req.Tags)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, note)
}

type captureYoutubeRequest struct {
	UserID string   `json:"user_id"`
	URL    string   `json:"url"`
	Tags   []string `json:"tags"`
}

func (s *Server) handleCaptureYoutube(w http.ResponseWriter, r *http.Request) {
	var req captureYoutubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", domain.CodeValidation)
		return
	}
	if req.UserID == "" {
		s.respondError(w, http.StatusBadRequest, "user_id is required", domain.CodeValidation)
		return
	}
	if req.URL == "" {
		s.respondError(w, http.StatusBadRequest, "url is required", domain.CodeValidation)
		return
	}

	jobID, err := s.queue.Enqueue(req.UserID, req.URL, req.Tags)
	if err != nil {
		s.logger.Warn("enqueue rejected", "error", err)
		s.respondError(w, http.StatusServiceUnavailable, err.Error(), "")
		return
	}

	s.respondJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID.String(),
		"status": "queued",
	})
}

func (s *Server) handleGetIngestion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid job id", domain.CodeValidation)
		return
	}

	job, ok := s.queue.Job(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "job not found", "")
		return
	}
	s.respondJSON(w, http.StatusOK, job)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.respondError(w, http.StatusBadRequest, "user_id is required", domain.CodeValidation)
		return
	}

	notes, err := s.notes.ListNotes(r.Context(), userID)
	if err != nil {
		s.logger.Error("list notes failed", "user_id", userID, "error", err)
		s.respondError(w, http.StatusInternalServerError, "could not list notes", "")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

type noteResponse struct {
	Note  *domain.Note      `json:"note"`
	Video *domain.VideoNote `json:"video,omitempty"`
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid note id", domain.CodeValidation)
		return
	}

	note, videoNote, err := s.notes.GetNote(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		s.respondError(w, http.StatusNotFound, "note not found", "")
		return
	}
	if err != nil {
		s.logger.Error("get note failed", "note_id", id, "error", err)
		s.respondError(w, http.StatusInternalServerError, "could not load note", "")
		return
	}
	s.respondJSON(w, http.StatusOK, noteResponse{Note: note, Video: videoNote})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	code := domain.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case domain.CodeValidation:
		status = http.StatusBadRequest
	case domain.CodeMetadataFetch, domain.CodeTranscriptFetch:
		status = http.StatusBadGateway
	}
	s.respondError(w, status, err.Error(), code)
}

type errorResponse struct {
	Error string           `json:"error"`
	Code  domain.ErrorCode `json:"code,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string, code domain.ErrorCode) {
	s.respondJSON(w, status, errorResponse{Error: message, Code: code})
}
