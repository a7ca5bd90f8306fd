package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mindlink/internal/domain"
)

type VideoNoteStore struct {
	db *sqlx.DB
}

func NewVideoNoteStore(db *sqlx.DB) *VideoNoteStore {
	return &VideoNoteStore{db: db}
}

type videoNoteRow struct {
	ID           uuid.UUID      `db:"id"`
	NoteID       uuid.UUID      `db:"note_id"`
	YoutubeID    string         `db:"youtube_id"`
	Title        string         `db:"title"`
	ChannelName  sql.NullString `db:"channel_name"`
	Transcript   sql.NullString `db:"transcript"`
	ThumbnailURL sql.NullString `db:"thumbnail_url"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r *videoNoteRow) toDomain() *domain.VideoNote {
	vn := &domain.VideoNote{
		ID:        r.ID,
		NoteID:    r.NoteID,
		YoutubeID: domain.VideoID(r.YoutubeID),
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
	}
	if r.ChannelName.Valid {
		vn.ChannelName = &r.ChannelName.String
	}
	if r.Transcript.Valid {
		vn.Transcript = &r.Transcript.String
	}
	if r.ThumbnailURL.Valid {
		vn.ThumbnailURL = &r.ThumbnailURL.String
	}
	return vn
}

func (s *VideoNoteStore) Insert(ctx context.Context, videoNote *domain.VideoNote) error {
	query := `
		INSERT INTO video_notes (
			id, note_id, youtube_id, title, channel_name, transcript, thumbnail_url
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		videoNote.ID,
		videoNote.NoteID,
		string(videoNote.YoutubeID),
		videoNote.Title,
		videoNote.ChannelName,
		videoNote.Transcript,
		videoNote.ThumbnailURL,
	)
	return err
}

func (s *VideoNoteStore) GetByNoteID(ctx context.Context, noteID uuid.UUID) (*domain.VideoNote, error) {
	query := `
		SELECT id, note_id, youtube_id, title, channel_name, transcript, thumbnail_url, created_at
		FROM video_notes
		WHERE note_id = $1`

	var row videoNoteRow
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, noteID); err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}
