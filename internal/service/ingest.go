package service

import (
	"context"
	"errors"
	"log/slog"

	"mindlink/internal/domain"
	"mindlink/internal/youtube"
)

// IngestService runs the video ingestion pipeline: identifier extraction,
// metadata fetch, transcript fetch, analysis. Stages are strictly
// sequential; there is no retry and no resume from a partial failure.
type IngestService struct {
	metadata    MetadataFetcher
	transcripts TranscriptFetcher
	analyzer    Analyzer
	logger      *slog.Logger
}

func NewIngestService(
	metadata MetadataFetcher,
	transcripts TranscriptFetcher,
	analyzer Analyzer,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		metadata:    metadata,
		transcripts: transcripts,
		analyzer:    analyzer,
		logger:      logger,
	}
}

// Ingest processes one video URL into a complete result. onProgress may be
// nil. The error, when non-nil, always carries a stable code via
// domain.CodeOf.
func (s *IngestService) Ingest(ctx context.Context, rawURL string, onProgress domain.ProgressFunc) (*domain.IngestionResult, error) {
	report := func(p domain.Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	id, ok := youtube.ExtractVideoID(rawURL)
	if !ok {
		return nil, domain.NewError(domain.CodeValidation, "not a recognized YouTube URL", nil)
	}

	logger := s.logger.With("video_id", id)
	logger.Info("starting ingestion", "url", rawURL)

	report(domain.Progress{Stage: domain.StageFetching, Percent: 10, Message: "Fetching video details"})

	md, err := s.metadata.FetchMetadata(ctx, id)
	if err != nil {
		// Fatal: without a title the downstream stages are pointless.
		return nil, domain.NewError(domain.CodeMetadataFetch, "could not fetch video details", err)
	}

	report(domain.Progress{Stage: domain.StageTranscribing, Percent: 30, Message: "Fetching transcript"})

	transcript, err := s.transcripts.FetchTranscript(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNoTranscript), errors.Is(err, domain.ErrVideoUnavailable):
		// Absorbed: ingestion continues on title and channel alone.
		logger.Info("no transcript, continuing", "reason", err)
		transcript = domain.Transcript{}
	case err != nil:
		return nil, domain.NewError(domain.CodeTranscriptFetch, "could not fetch transcript", err)
	}

	fullTranscript := transcript.Text()

	report(domain.Progress{Stage: domain.StageAnalyzing, Percent: 60, Message: "Analyzing content"})

	// The analyzer degrades internally instead of failing; from here the
	// ingestion always completes.
	analysis := s.analyzer.Analyze(ctx, md, fullTranscript, transcript)

	result := &domain.IngestionResult{
		VideoID:        id,
		Metadata:       md,
		Transcript:     transcript,
		FullTranscript: fullTranscript,
		Analysis:       analysis,
	}

	report(domain.Progress{Stage: domain.StageComplete, Percent: 100, Message: "Done"})

	logger.Info("ingestion complete",
		"title", md.Title,
		"segments", len(transcript),
		"confidence", analysis.ConfidenceScore,
	)

	return result, nil
}
