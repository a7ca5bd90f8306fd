package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"

	"mindlink/internal/domain"
)

type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, id domain.VideoID) (domain.VideoMetadata, error)
}

type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, id domain.VideoID) (domain.Transcript, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, md domain.VideoMetadata, fullTranscript string, segments domain.Transcript) domain.Analysis
}

type Ingester interface {
	Ingest(ctx context.Context, rawURL string, onProgress domain.ProgressFunc) (*domain.IngestionResult, error)
}

type NoteStore interface {
	Insert(ctx context.Context, note *domain.Note) (*domain.Note, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Note, error)
}

type VideoNoteStore interface {
	Insert(ctx context.Context, videoNote *domain.VideoNote) error
	GetByNoteID(ctx context.Context, noteID uuid.UUID) (*domain.VideoNote, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, note *domain.Note) error
	Close() error
}
