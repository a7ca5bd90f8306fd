package domain

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Confidence scores by provenance: AI-derived analyses report what the model
// claimed (0.8 when it claims nothing), heuristic fallbacks are fixed at 0.3.
const (
	ConfidenceAI        = 0.8
	ConfidenceHeuristic = 0.3
)

type KeyTimestamp struct {
	Time        float64 `json:"time"`
	Description string  `json:"description"`
	Importance  float64 `json:"importance"`
}

type Chapter struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Title   string  `json:"title"`
	Summary string  `json:"summary"`
}

type Analysis struct {
	Themes            []string       `json:"themes"`
	KeyConcepts       []string       `json:"key_concepts"`
	Summary           string         `json:"summary"`
	TranscriptSummary string         `json:"transcript_summary"`
	SuggestedActions  []string       `json:"suggested_actions"`
	KeyTimestamps     []KeyTimestamp `json:"key_timestamps"`
	Chapters          []Chapter      `json:"chapters"`
	ComplexityScore   float64        `json:"complexity_score"`
	ConfidenceScore   float64        `json:"confidence_score"`
	Sentiment         string         `json:"sentiment"`
}
