package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"mindlink/internal/domain"
)

type NoteStore struct {
	db *sqlx.DB
}

func NewNoteStore(db *sqlx.DB) *NoteStore {
	return &NoteStore{db: db}
}

// noteRow is the scan target; jsonb columns land as raw bytes and are
// decoded on the way out.
type noteRow struct {
	ID         uuid.UUID      `db:"id"`
	UserID     string         `db:"user_id"`
	Title      sql.NullString `db:"title"`
	Content    string         `db:"content"`
	NoteType   string         `db:"note_type"`
	SourceURL  sql.NullString `db:"source_url"`
	Tags       pq.StringArray `db:"tags"`
	AIAnalysis []byte         `db:"ai_analysis"`
	Metadata   []byte         `db:"metadata"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r *noteRow) toDomain() (*domain.Note, error) {
	note := &domain.Note{
		ID:        r.ID,
		UserID:    r.UserID,
		Content:   r.Content,
		NoteType:  domain.NoteType(r.NoteType),
		Tags:      r.Tags,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Title.Valid {
		note.Title = &r.Title.String
	}
	if r.SourceURL.Valid {
		note.SourceURL = &r.SourceURL.String
	}
	if len(r.AIAnalysis) > 0 {
		if err := json.Unmarshal(r.AIAnalysis, &note.AIAnalysis); err != nil {
			return nil, fmt.Errorf("decode ai_analysis: %w", err)
		}
	}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &note.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return note, nil
}

func (s *NoteStore) Insert(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	analysisJSON, err := json.Marshal(note.AIAnalysis)
	if err != nil {
		return nil, fmt.Errorf("encode ai_analysis: %w", err)
	}
	metadataJSON := []byte("{}")
	if note.Metadata != nil {
		if metadataJSON, err = json.Marshal(note.Metadata); err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
	}
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO notes (
			id, user_id, title, content, note_type, source_url,
			tags, ai_analysis, metadata
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING created_at, updated_at`

	stored := *note
	err = GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		string(note.NoteType),
		note.SourceURL,
		pq.Array(tags),
		analysisJSON,
		metadataJSON,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

func (s *NoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	query := `
		SELECT id, user_id, title, content, note_type, source_url,
		       tags, ai_analysis, metadata, created_at, updated_at
		FROM notes
		WHERE id = $1`

	var row noteRow
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, id); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (s *NoteStore) ListByUser(ctx context.Context, userID string) ([]*domain.Note, error) {
	query := `
		SELECT id, user_id, title, content, note_type, source_url,
		       tags, ai_analysis, metadata, created_at, updated_at
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at DESC`

	var rows []noteRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, userID); err != nil {
		return nil, err
	}

	notes := make([]*domain.Note, 0, len(rows))
	for i := range rows {
		note, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}
