package worker

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"mindlink/internal/domain"
)

type capturerFunc func(ctx context.Context, userID, rawURL string, tags []string, onProgress domain.ProgressFunc) (*domain.Note, error)

func (f capturerFunc) CaptureVideoNote(ctx context.Context, userID, rawURL string, tags []string, onProgress domain.ProgressFunc) (*domain.Note, error) {
	return f(ctx, userID, rawURL, tags, onProgress)
}

type WorkerTestSuite struct {
	suite.Suite
	logger *slog.Logger
	cancel context.CancelFunc
}

func (s *WorkerTestSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.cancel = nil
}

func (s *WorkerTestSuite) TearDownTest() {
	if s.cancel != nil {
		s.cancel()
	}
}

func TestWorkerTestSuite(t *testing.T) {
	suite.Run(t, new(WorkerTestSuite))
}

func (s *WorkerTestSuite) start(w *Worker) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() { _ = w.Start(ctx) }()
}

func (s *WorkerTestSuite) TestProcessesJob() {
	noteID := uuid.New()
	capture := capturerFunc(func(_ context.Context, userID, rawURL string, tags []string, onProgress domain.ProgressFunc) (*domain.Note, error) {
		s.Equal("user-1", userID)
		s.Equal("https://www.youtube.com/watch?v=dQw4w9WgXcQ", rawURL)
		s.Equal([]string{"go"}, tags)
		onProgress(domain.Progress{Stage: domain.StageAnalyzing, Percent: 60, Message: "Analyzing content"})
		onProgress(domain.Progress{Stage: domain.StageComplete, Percent: 100, Message: "Done"})
		return &domain.Note{ID: noteID}, nil
	})

	w := New(capture, Config{QueueSize: 4, JobTimeout: time.Second}, s.logger)
	s.start(w)

	id, err := w.Enqueue("user-1", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", []string{"go"})
	s.Require().NoError(err)

	s.Require().Eventually(func() bool {
		job, ok := w.Job(id)
		return ok && job.Status == StatusComplete
	}, 2*time.Second, 10*time.Millisecond)

	job, ok := w.Job(id)
	s.True(ok)
	s.Equal(StatusComplete, job.Status)
	s.Require().NotNil(job.NoteID)
	s.Equal(noteID, *job.NoteID)
	s.Equal(domain.StageComplete, job.Progress.Stage)
	s.Equal(100, job.Progress.Percent)
}

func (s *WorkerTestSuite) TestJobFailure() {
	capture := capturerFunc(func(context.Context, string, string, []string, domain.ProgressFunc) (*domain.Note, error) {
		return nil, domain.NewError(domain.CodeValidation, "not a recognized YouTube URL", nil)
	})

	w := New(capture, Config{QueueSize: 4, JobTimeout: time.Second}, s.logger)
	s.start(w)

	id, err := w.Enqueue("user-1", "nonsense", nil)
	s.Require().NoError(err)

	s.Require().Eventually(func() bool {
		job, ok := w.Job(id)
		return ok && job.Status == StatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	job, _ := w.Job(id)
	s.Equal(domain.CodeValidation, job.ErrorCode)
	s.Contains(job.ErrorMessage, "not a recognized YouTube URL")
	s.Nil(job.NoteID)
}

func (s *WorkerTestSuite) TestEnqueue_QueueFull() {
	capture := capturerFunc(func(context.Context, string, string, []string, domain.ProgressFunc) (*domain.Note, error) {
		return &domain.Note{ID: uuid.New()}, nil
	})

	// Never started, so the first job stays queued.
	w := New(capture, Config{QueueSize: 1, JobTimeout: time.Second}, s.logger)

	_, err := w.Enqueue("user-1", "https://youtu.be/dQw4w9WgXcQ", nil)
	s.NoError(err)

	id, err := w.Enqueue("user-1", "https://youtu.be/dQw4w9WgXcQ", nil)
	s.Error(err)
	s.Equal(uuid.Nil, id)
}

func (s *WorkerTestSuite) TestJob_Unknown() {
	w := New(nil, Config{QueueSize: 1, JobTimeout: time.Second}, s.logger)

	_, ok := w.Job(uuid.New())
	s.False(ok)
}
