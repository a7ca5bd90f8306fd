package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mindlink/internal/domain"
)

// Capturer runs the full capture for one video URL.
type Capturer interface {
	CaptureVideoNote(ctx context.Context, userID, rawURL string, tags []string, onProgress domain.ProgressFunc) (*domain.Note, error)
}

type JobStatus string

const (
	StatusQueued   JobStatus = "queued"
	StatusRunning  JobStatus = "running"
	StatusComplete JobStatus = "complete"
	StatusFailed   JobStatus = "failed"
)

// Job is the tracked state of one enqueued ingestion. Callers always get a
// snapshot copy, never the live record.
type Job struct {
	ID           uuid.UUID        `json:"id"`
	UserID       string           `json:"user_id"`
	URL          string           `json:"url"`
	Tags         []string         `json:"tags,omitempty"`
	Status       JobStatus        `json:"status"`
	Progress     domain.Progress  `json:"progress"`
	NoteID       *uuid.UUID       `json:"note_id,omitempty"`
	ErrorCode    domain.ErrorCode `json:"error_code,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type Config struct {
	QueueSize  int
	JobTimeout time.Duration
}

// Worker drains ingestion jobs one at a time. A single goroutine keeps the
// scraping rate honest and the progress bookkeeping trivial.
type Worker struct {
	capturer Capturer
	queue    chan uuid.UUID
	timeout  time.Duration
	logger   *slog.Logger

	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
}

func New(capturer Capturer, cfg Config, logger *slog.Logger) *Worker {
	return &Worker{
		capturer: capturer,
		queue:    make(chan uuid.UUID, cfg.QueueSize),
		timeout:  cfg.JobTimeout,
		logger:   logger,
		jobs:     make(map[uuid.UUID]*Job),
	}
}

// Enqueue registers a job and queues it for processing. It fails fast when
// the queue is full instead of blocking the caller.
func (w *Worker) Enqueue(userID, rawURL string, tags []string) (uuid.UUID, error) {
	job := &Job{
		ID:        uuid.New(),
		UserID:    userID,
		URL:       rawURL,
		Tags:      tags,
		Status:    StatusQueued,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	w.mu.Lock()
	w.jobs[job.ID] = job
	w.mu.Unlock()

	select {
	case w.queue <- job.ID:
		return job.ID, nil
	default:
		w.mu.Lock()
		delete(w.jobs, job.ID)
		w.mu.Unlock()
		return uuid.Nil, fmt.Errorf("ingestion queue is full")
	}
}

// Job returns a snapshot of the job's current state.
func (w *Worker) Job(id uuid.UUID) (Job, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	job, ok := w.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker started", "queue_size", cap(w.queue), "job_timeout", w.timeout)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopped")
			return ctx.Err()
		case id := <-w.queue:
			w.runJob(ctx, id)
		}
	}
}

func (w *Worker) runJob(ctx context.Context, id uuid.UUID) {
	w.mu.RLock()
	job, ok := w.jobs[id]
	w.mu.RUnlock()
	if !ok {
		return
	}

	w.update(id, func(j *Job) {
		j.Status = StatusRunning
	})

	jobCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	note, err := w.capturer.CaptureVideoNote(jobCtx, job.UserID, job.URL, job.Tags, func(p domain.Progress) {
		w.update(id, func(j *Job) {
			j.Progress = p
		})
	})
	if err != nil {
		w.logger.Error("job failed", "job_id", id, "url", job.URL, "error", err)
		w.update(id, func(j *Job) {
			j.Status = StatusFailed
			j.ErrorCode = domain.CodeOf(err)
			j.ErrorMessage = err.Error()
		})
		return
	}

	w.update(id, func(j *Job) {
		j.Status = StatusComplete
		j.NoteID = &note.ID
	})

	w.logger.Info("job complete", "job_id", id, "note_id", note.ID)
}

func (w *Worker) update(id uuid.UUID, fn func(*Job)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if job, ok := w.jobs[id]; ok {
		fn(job)
		job.UpdatedAt = time.Now().UTC()
	}
}
