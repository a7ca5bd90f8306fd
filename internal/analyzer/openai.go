package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"mindlink/internal/domain"
)

const analysisPrompt = `You are an assistant that analyzes YouTube video content for a note-taking app.

Video title: %q
Channel: %q
Approximate length: %s

Transcript:
%s

Reply with a single JSON object and nothing else, using exactly these keys:
- "themes": 3-5 short theme strings
- "key_concepts": the most important concepts mentioned
- "summary": 2-3 sentence summary of the video
- "transcript_summary": one-paragraph summary of the transcript itself
- "suggested_actions": concrete follow-up actions for the note taker
- "key_timestamps": 3-5 objects {"time": seconds, "description": string, "importance": 0..1}
- "chapters": 2-4 non-overlapping objects {"start": seconds, "end": seconds, "title": string, "summary": string}, start < end, only if the video is long enough
- "complexity_score": 0..1
- "confidence_score": 0..1
- "sentiment": "positive", "negative" or "neutral"

If the transcript is empty, base the analysis on the title and channel alone.`

type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the completion endpoint, for proxies and tests.
	BaseURL string
}

// Analyzer sends transcript and metadata to the completion service and
// parses the structured result. It is the terminal error boundary of the
// pipeline: every failure degrades to HeuristicAnalysis, nothing raises.
type Analyzer struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Analyzer {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Analyzer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger.With("component", "analyzer"),
	}
}

func (a *Analyzer) Analyze(ctx context.Context, md domain.VideoMetadata, fullTranscript string, segments domain.Transcript) domain.Analysis {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(analysisPrompt, md.Title, md.Channel, approxLength(md, segments), fullTranscript),
			},
		},
	})
	if err != nil {
		a.logger.Warn("completion failed, falling back to heuristics", "error", err)
		return HeuristicAnalysis(md, fullTranscript)
	}
	if len(resp.Choices) == 0 {
		a.logger.Warn("empty completion, falling back to heuristics")
		return HeuristicAnalysis(md, fullTranscript)
	}

	content := resp.Choices[len(resp.Choices)-1].Message.Content
	analysis, err := ParseAnalysis(content)
	if err != nil {
		a.logger.Warn("unparseable completion, falling back to heuristics", "error", err)
		return HeuristicAnalysis(md, fullTranscript)
	}

	return analysis
}

// approxLength prefers the metadata duration, else the end of the last
// caption segment, else admits it does not know.
func approxLength(md domain.VideoMetadata, segments domain.Transcript) string {
	seconds := md.DurationSeconds
	if seconds == 0 && len(segments) > 0 {
		last := segments[len(segments)-1]
		seconds = int(last.Start + last.Duration)
	}
	if seconds == 0 {
		return "unknown"
	}
	return domain.FormatTimestamp(seconds)
}

// rawAnalysis keeps the sequence-typed fields raw so a malformed model
// response coerces to empty sequences instead of failing the whole parse.
type rawAnalysis struct {
	Themes            json.RawMessage `json:"themes"`
	KeyConcepts       json.RawMessage `json:"key_concepts"`
	Summary           string          `json:"summary"`
	TranscriptSummary string          `json:"transcript_summary"`
	SuggestedActions  json.RawMessage `json:"suggested_actions"`
	KeyTimestamps     json.RawMessage `json:"key_timestamps"`
	Chapters          json.RawMessage `json:"chapters"`
	ComplexityScore   *float64        `json:"complexity_score"`
	ConfidenceScore   *float64        `json:"confidence_score"`
	Sentiment         string          `json:"sentiment"`
}

// ParseAnalysis decodes a completion response body. Missing required fields
// are synthesized with defaults; only a body that is not a JSON object at
// all is an error (which callers turn into the heuristic fallback).
func ParseAnalysis(body string) (domain.Analysis, error) {
	var raw rawAnalysis
	if err := json.Unmarshal([]byte(stripFences(body)), &raw); err != nil {
		return domain.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}

	analysis := domain.Analysis{
		Themes:            coerceList[string](raw.Themes),
		KeyConcepts:       coerceList[string](raw.KeyConcepts),
		Summary:           raw.Summary,
		TranscriptSummary: raw.TranscriptSummary,
		SuggestedActions:  coerceList[string](raw.SuggestedActions),
		KeyTimestamps:     coerceList[domain.KeyTimestamp](raw.KeyTimestamps),
		Chapters:          coerceList[domain.Chapter](raw.Chapters),
		ComplexityScore:   clamp01(raw.ComplexityScore, 0.5),
		ConfidenceScore:   clamp01(raw.ConfidenceScore, domain.ConfidenceAI),
		Sentiment:         raw.Sentiment,
	}

	if analysis.Summary == "" {
		analysis.Summary = "Summary not available"
	}
	switch analysis.Sentiment {
	case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
	default:
		analysis.Sentiment = domain.SentimentNeutral
	}

	return analysis, nil
}

// coerceList returns an empty sequence when raw is absent or not
// array-shaped.
func coerceList[T any](raw json.RawMessage) []T {
	out := []T{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return []T{}
	}
	return out
}

func clamp01(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	switch {
	case *v < 0:
		return 0
	case *v > 1:
		return 1
	}
	return *v
}

// stripFences removes a markdown code fence the model sometimes wraps the
// JSON object in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
