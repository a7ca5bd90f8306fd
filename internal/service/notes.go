package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"mindlink/internal/domain"
)

// NoteService persists captured notes and announces them downstream.
type NoteService struct {
	ingester  Ingester
	notes     NoteStore
	videos    VideoNoteStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
}

func NewNoteService(
	ingester Ingester,
	notes NoteStore,
	videos VideoNoteStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
) *NoteService {
	return &NoteService{
		ingester:  ingester,
		notes:     notes,
		videos:    videos,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

// CaptureVideoNote ingests the video behind rawURL and stores the result as
// a youtube note plus its video record, in one transaction. The publish is
// best effort; a broker hiccup does not undo a stored note.
func (s *NoteService) CaptureVideoNote(ctx context.Context, userID, rawURL string, tags []string, onProgress domain.ProgressFunc) (*domain.Note, error) {
	result, err := s.ingester.Ingest(ctx, rawURL, onProgress)
	if err != nil {
		return nil, err
	}

	md := result.Metadata
	note := &domain.Note{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      &md.Title,
		Content:    result.Analysis.Summary,
		NoteType:   domain.NoteTypeYoutube,
		SourceURL:  ptr(result.VideoID.WatchURL()),
		Tags:       tags,
		AIAnalysis: result.Analysis,
		Metadata: map[string]any{
			"youtube_id":       string(result.VideoID),
			"duration_seconds": md.DurationSeconds,
			"thumbnail_url":    md.ThumbnailURL,
			"segment_count":    len(result.Transcript),
		},
	}

	videoNote := &domain.VideoNote{
		ID:        uuid.New(),
		NoteID:    note.ID,
		YoutubeID: result.VideoID,
		Title:     md.Title,
	}
	if md.Channel != "" {
		videoNote.ChannelName = &md.Channel
	}
	if md.ThumbnailURL != "" {
		videoNote.ThumbnailURL = &md.ThumbnailURL
	}
	if result.FullTranscript != "" {
		videoNote.Transcript = &result.FullTranscript
	}

	var stored *domain.Note
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		inserted, err := s.notes.Insert(txCtx, note)
		if err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
		stored = inserted
		if err := s.videos.Insert(txCtx, videoNote); err != nil {
			return fmt.Errorf("insert video note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, stored); err != nil {
			s.logger.Error("failed to publish note", "note_id", stored.ID, "error", err)
		}
	}

	s.logger.Info("captured video note",
		"note_id", stored.ID,
		"user_id", userID,
		"youtube_id", result.VideoID,
	)

	return stored, nil
}

// CreateTextNote stores a plain text or voice note. No pipeline involved.
func (s *NoteService) CreateTextNote(ctx context.Context, userID, content string, noteType domain.NoteType, tags []string) (*domain.Note, error) {
	switch noteType {
	case domain.NoteTypeText, domain.NoteTypeVoice, domain.NoteTypeSynthesis, domain.NoteTypeStrategy:
	default:
		return nil, domain.NewError(domain.CodeValidation, fmt.Sprintf("note type %q cannot be created directly", noteType), nil)
	}
	if content == "" {
		return nil, domain.NewError(domain.CodeValidation, "note content is empty", nil)
	}

	note := &domain.Note{
		ID:       uuid.New(),
		UserID:   userID,
		Content:  content,
		NoteType: noteType,
		Tags:     tags,
	}

	stored, err := s.notes.Insert(ctx, note)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, stored); err != nil {
			s.logger.Error("failed to publish note", "note_id", stored.ID, "error", err)
		}
	}

	return stored, nil
}

// ListNotes returns the user's notes, newest first.
func (s *NoteService) ListNotes(ctx context.Context, userID string) ([]*domain.Note, error) {
	return s.notes.ListByUser(ctx, userID)
}

// GetNote returns one note with its video record when it has one.
func (s *NoteService) GetNote(ctx context.Context, id uuid.UUID) (*domain.Note, *domain.VideoNote, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if note.NoteType != domain.NoteTypeYoutube {
		return note, nil, nil
	}
	videoNote, err := s.videos.GetByNoteID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return note, videoNote, nil
}

func ptr[T any](v T) *T {
	return &v
}
