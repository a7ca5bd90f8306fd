package analyzer

import (
	"strings"
	"unicode"

	"mindlink/internal/domain"
)

const (
	maxThemes      = 5
	maxConcepts    = 8
	minWordLen     = 4
	minSentenceLen = 21
	summaryPrefix  = 300
)

var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "will": {},
	"your": {}, "they": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"their": {}, "would": {}, "there": {}, "about": {}, "been": {}, "were": {},
	"them": {}, "then": {}, "than": {}, "because": {}, "could": {}, "should": {},
	"really": {}, "going": {}, "just": {}, "like": {}, "know": {}, "think": {},
	"very": {}, "also": {}, "into": {}, "over": {}, "more": {}, "some": {},
	"these": {}, "those": {}, "here": {}, "want": {}, "make": {}, "thing": {},
	"things": {}, "right": {}, "well": {}, "yeah": {}, "okay": {}, "gonna": {},
}

// HeuristicAnalysis is the local fallback when the completion service fails
// or returns something unparseable. It never fails; degraded quality is
// signaled only through the fixed 0.3 confidence score.
func HeuristicAnalysis(md domain.VideoMetadata, fullTranscript string) domain.Analysis {
	text := fullTranscript
	if strings.TrimSpace(text) == "" {
		// Captionless video: analyze what we have, title and channel.
		text = md.Title + " " + md.Channel
	}

	ranked := frequentWords(text, maxConcepts)
	themes := ranked
	if len(themes) > maxThemes {
		themes = themes[:maxThemes]
	}

	summary := basicSummary(text)

	return domain.Analysis{
		Themes:            themes,
		KeyConcepts:       ranked,
		Summary:           summary,
		TranscriptSummary: summary,
		SuggestedActions:  []string{},
		KeyTimestamps:     []domain.KeyTimestamp{},
		Chapters:          []domain.Chapter{},
		ComplexityScore:   0.5,
		ConfidenceScore:   domain.ConfidenceHeuristic,
		Sentiment:         domain.SentimentNeutral,
	}
}

// frequentWords ranks words by frequency descending, ties broken by first
// encounter order. Words are case-folded, stripped of punctuation, and must
// be longer than three characters and not stopwords.
func frequentWords(text string, limit int) []string {
	counts := make(map[string]int)
	var order []string

	for _, field := range strings.Fields(text) {
		word := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, field)

		if len(word) < minWordLen {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	// Insertion sort keeps the encounter order stable within equal counts.
	ranked := make([]string, 0, len(order))
	for _, w := range order {
		i := len(ranked)
		for i > 0 && counts[ranked[i-1]] < counts[w] {
			i--
		}
		ranked = append(ranked, "")
		copy(ranked[i+1:], ranked[i:])
		ranked[i] = w
	}

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// basicSummary takes the first and last qualifying sentence when more than
// three qualify, else a 300-character prefix with an ellipsis.
func basicSummary(text string) string {
	var sentences []string
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		s = strings.TrimSpace(s)
		if len(s) >= minSentenceLen {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) > 3 {
		return sentences[0] + ". " + sentences[len(sentences)-1] + "."
	}

	if len(text) > summaryPrefix {
		text = text[:summaryPrefix]
	}
	return text + "..."
}
