package domain

import (
	"time"

	"github.com/google/uuid"
)

type NoteType string

const (
	NoteTypeText      NoteType = "text"
	NoteTypeVoice     NoteType = "voice"
	NoteTypeYoutube   NoteType = "youtube"
	NoteTypeSynthesis NoteType = "synthesis"
	NoteTypeStrategy  NoteType = "strategy"
)

type Note struct {
	ID         uuid.UUID      `json:"id"`
	UserID     string         `json:"user_id"`
	Title      *string        `json:"title,omitempty"`
	Content    string         `json:"content"`
	NoteType   NoteType       `json:"note_type"`
	SourceURL  *string        `json:"source_url,omitempty"`
	Tags       []string       `json:"tags"`
	AIAnalysis Analysis       `json:"ai_analysis"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// VideoNote is the youtube-specific record attached to a note of type youtube.
type VideoNote struct {
	ID           uuid.UUID `json:"id"`
	NoteID       uuid.UUID `json:"note_id"`
	YoutubeID    VideoID   `json:"youtube_id"`
	Title        string    `json:"title"`
	ChannelName  *string   `json:"channel_name,omitempty"`
	Transcript   *string   `json:"transcript,omitempty"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
