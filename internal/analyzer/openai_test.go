package analyzer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindlink/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestParseAnalysis(t *testing.T) {
	t.Run("complete response", func(t *testing.T) {
		body := `{
			"themes": ["go", "testing"],
			"key_concepts": ["table tests"],
			"summary": "A video about testing in Go.",
			"transcript_summary": "Longer form summary.",
			"suggested_actions": ["write more tests"],
			"key_timestamps": [{"time": 42, "description": "intro ends", "importance": 0.9}],
			"chapters": [{"start": 0, "end": 120, "title": "Intro", "summary": "The intro."}],
			"complexity_score": 0.6,
			"confidence_score": 0.95,
			"sentiment": "positive"
		}`

		a, err := ParseAnalysis(body)
		require.NoError(t, err)

		assert.Equal(t, []string{"go", "testing"}, a.Themes)
		assert.Equal(t, "A video about testing in Go.", a.Summary)
		assert.Equal(t, 0.95, a.ConfidenceScore)
		assert.Equal(t, domain.SentimentPositive, a.Sentiment)
		require.Len(t, a.Chapters, 1)
		assert.Equal(t, "Intro", a.Chapters[0].Title)
		require.Len(t, a.KeyTimestamps, 1)
		assert.Equal(t, 0.9, a.KeyTimestamps[0].Importance)
	})

	t.Run("missing required fields get defaults", func(t *testing.T) {
		a, err := ParseAnalysis(`{}`)
		require.NoError(t, err)

		assert.Equal(t, []string{}, a.Themes)
		assert.Equal(t, []string{}, a.KeyConcepts)
		assert.Equal(t, "Summary not available", a.Summary)
		assert.Equal(t, domain.SentimentNeutral, a.Sentiment)
		assert.Equal(t, domain.ConfidenceAI, a.ConfidenceScore)
	})

	t.Run("non-array sequence fields coerce to empty", func(t *testing.T) {
		a, err := ParseAnalysis(`{
			"themes": "not an array",
			"key_concepts": 42,
			"suggested_actions": {"oops": true},
			"key_timestamps": "nope",
			"chapters": null,
			"summary": "ok",
			"sentiment": "negative"
		}`)
		require.NoError(t, err)

		assert.Empty(t, a.Themes)
		assert.Empty(t, a.KeyConcepts)
		assert.Empty(t, a.SuggestedActions)
		assert.Empty(t, a.KeyTimestamps)
		assert.Empty(t, a.Chapters)
		assert.Equal(t, domain.SentimentNegative, a.Sentiment)
	})

	t.Run("unknown sentiment becomes neutral", func(t *testing.T) {
		a, err := ParseAnalysis(`{"sentiment": "ecstatic"}`)
		require.NoError(t, err)
		assert.Equal(t, domain.SentimentNeutral, a.Sentiment)
	})

	t.Run("scores clamped to unit interval", func(t *testing.T) {
		a, err := ParseAnalysis(`{"confidence_score": 7, "complexity_score": -2}`)
		require.NoError(t, err)
		assert.Equal(t, 1.0, a.ConfidenceScore)
		assert.Equal(t, 0.0, a.ComplexityScore)
	})

	t.Run("fenced json", func(t *testing.T) {
		a, err := ParseAnalysis("```json\n{\"summary\": \"fenced\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "fenced", a.Summary)
	})

	t.Run("not json at all", func(t *testing.T) {
		_, err := ParseAnalysis("I'm sorry, I can't help with that.")
		assert.Error(t, err)
	})
}

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnalyze(t *testing.T) {
	md := domain.VideoMetadata{Title: "X", Channel: "Y"}
	transcript := "The talk opens with a long introduction about pipelines. " +
		"Pipelines move data between systems reliably. " +
		"Operating pipelines needs careful monitoring everywhere. " +
		"The talk closes with hard lessons about pipelines."

	t.Run("uses model response", func(t *testing.T) {
		srv := completionServer(t, `{"themes":["pipelines"],"summary":"About pipelines.","sentiment":"positive","confidence_score":0.9}`)
		defer srv.Close()

		a := New(Config{APIKey: "test", BaseURL: srv.URL + "/v1"}, testLogger())
		got := a.Analyze(context.Background(), md, transcript, nil)

		assert.Equal(t, []string{"pipelines"}, got.Themes)
		assert.Equal(t, 0.9, got.ConfidenceScore)
	})

	t.Run("non-json response degrades to heuristics", func(t *testing.T) {
		srv := completionServer(t, "Sorry, something went wrong on my end.")
		defer srv.Close()

		a := New(Config{APIKey: "test", BaseURL: srv.URL + "/v1"}, testLogger())
		got := a.Analyze(context.Background(), md, transcript, nil)

		assert.Equal(t, domain.ConfidenceHeuristic, got.ConfidenceScore)
		assert.Equal(t, domain.SentimentNeutral, got.Sentiment)
		assert.Contains(t, got.Themes, "pipelines")
	})

	t.Run("service failure degrades to heuristics", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		a := New(Config{APIKey: "test", BaseURL: srv.URL + "/v1"}, testLogger())
		got := a.Analyze(context.Background(), md, transcript, nil)

		assert.Equal(t, domain.ConfidenceHeuristic, got.ConfidenceScore)
	})
}

func TestApproxLength(t *testing.T) {
	assert.Equal(t, "unknown", approxLength(domain.VideoMetadata{}, nil))
	assert.Equal(t, "2:00", approxLength(domain.VideoMetadata{DurationSeconds: 120}, nil))
	assert.Equal(t, "0:04", approxLength(domain.VideoMetadata{}, domain.Transcript{
		{Text: "a", Start: 1, Duration: 2},
		{Text: "b", Start: 3, Duration: 1},
	}))
}
