package domain

import (
	"fmt"
	"strings"
	"time"
)

// VideoID is the 11-character token naming a YouTube video.
// It always matches [a-zA-Z0-9_-]{11}.
type VideoID string

func (id VideoID) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + string(id)
}

type VideoMetadata struct {
	Title           string
	Channel         string
	DurationSeconds int
	PublishedAt     time.Time
	ThumbnailURL    string
	Description     string
}

// TranscriptSegment is one timed caption unit.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

type Transcript []TranscriptSegment

// Text joins the segment texts with single spaces, in sequence order.
// Punctuation spacing is left exactly as the captions had it.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t))
	for _, seg := range t {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

// IngestionResult is the composite a single ingestion produces.
type IngestionResult struct {
	VideoID        VideoID
	Metadata       VideoMetadata
	Transcript     Transcript
	FullTranscript string
	Analysis       Analysis
}

// FormatTimestamp renders a second offset as m:ss, or h:mm:ss from one hour up.
func FormatTimestamp(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
