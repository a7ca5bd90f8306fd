package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"mindlink/internal/domain"
)

const (
	DefaultWatchBaseURL = "https://www.youtube.com"

	// Browser-like agent; the watch page serves a stripped-down document
	// without the caption manifest to unknown clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

type TranscriptConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Requests per second against the watch page and timed-text endpoints.
	RateLimit float64
}

// TranscriptClient retrieves timed caption segments by scraping the public
// watch page: locate the embedded caption-track manifest, pick a track,
// fetch and parse its timed-text document.
//
// Outcomes, as the orchestrator sees them: a (possibly empty) segment
// sequence, domain.ErrVideoUnavailable, or a generic fetch error. A video
// without captions is not an error, the empty transcript propagates.
type TranscriptClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

func NewTranscriptClient(cfg TranscriptConfig, logger *slog.Logger) *TranscriptClient {
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 2
	}
	return &TranscriptClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		logger:    logger.With("fetcher", "transcript"),
	}
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

func (c *TranscriptClient) FetchTranscript(ctx context.Context, id domain.VideoID) (domain.Transcript, error) {
	page, err := c.fetchWatchPage(ctx, id)
	if err != nil {
		return nil, err
	}

	tracks := extractCaptionTracks(page)
	if len(tracks) == 0 {
		// No manifest on the page means no captions exist. Soft fail,
		// analysis still proceeds on title and channel alone.
		c.logger.Debug("no caption tracks", "video_id", id)
		return domain.Transcript{}, nil
	}

	track := pickTrack(tracks)
	if track.BaseURL == "" {
		return domain.Transcript{}, nil
	}

	doc, err := c.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch timed text: %w", err)
	}

	segments, err := parseTimedText(doc)
	if err != nil {
		return nil, fmt.Errorf("parse timed text: %w", err)
	}

	c.logger.Debug("fetched transcript",
		"video_id", id,
		"language", track.LanguageCode,
		"segments", len(segments),
	)

	return segments, nil
}

func (c *TranscriptClient) fetchWatchPage(ctx context.Context, id domain.VideoID) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/watch?v="+string(id), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return "", domain.ErrVideoUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read watch page: %w", err)
	}

	page := string(body)
	if strings.Contains(page, `"playabilityStatus":{"status":"ERROR"`) ||
		strings.Contains(page, `"status":"LOGIN_REQUIRED"`) {
		return "", domain.ErrVideoUnavailable
	}

	return page, nil
}

// extractCaptionTracks locates the caption manifest embedded in the page's
// player response blob. The manifest lives inside a script, so this is a
// string scan, not DOM traversal.
func extractCaptionTracks(page string) []captionTrack {
	const marker = `"captionTracks":`
	start := strings.Index(page, marker)
	if start < 0 {
		return nil
	}
	rest := page[start+len(marker):]
	end := matchBracket(rest)
	if end < 0 {
		return nil
	}

	var tracks []captionTrack
	if err := json.Unmarshal([]byte(rest[:end]), &tracks); err != nil {
		return nil
	}
	return tracks
}

// matchBracket returns the index just past the ']' closing the JSON array
// that s must start with, accounting for nesting and quoted strings.
func matchBracket(s string) int {
	if len(s) == 0 || s[0] != '[' {
		return -1
	}
	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		switch {
		case inString:
			if s[i] == '\\' {
				i++
			} else if s[i] == '"' {
				inString = false
			}
		case s[i] == '"':
			inString = true
		case s[i] == '[':
			depth++
		case s[i] == ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// pickTrack prefers the English track, else takes the first one.
func pickTrack(tracks []captionTrack) captionTrack {
	for _, t := range tracks {
		if t.LanguageCode == "en" || strings.HasPrefix(t.LanguageCode, "en-") {
			return t
		}
	}
	return tracks[0]
}

func (c *TranscriptClient) fetchTimedText(ctx context.Context, trackURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timed text status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

type timedTextDoc struct {
	XMLName xml.Name        `xml:"transcript"`
	Texts   []timedTextElem `xml:"text"`
}

type timedTextElem struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",chardata"`
}

// parseTimedText converts a timed-text document into segments. A document
// with zero <text> elements yields an empty sequence, not an error.
func parseTimedText(doc []byte) (domain.Transcript, error) {
	var parsed timedTextDoc
	if err := xml.Unmarshal(doc, &parsed); err != nil {
		return nil, err
	}

	segments := make(domain.Transcript, 0, len(parsed.Texts))
	for _, t := range parsed.Texts {
		text := strings.TrimSpace(decodeEntities(t.Body))
		if text == "" {
			continue
		}
		start, _ := strconv.ParseFloat(t.Start, 64)
		dur, _ := strconv.ParseFloat(t.Dur, 64)
		segments = append(segments, domain.TranscriptSegment{
			Text:     text,
			Start:    start,
			Duration: dur,
		})
	}
	return segments, nil
}

// decodeEntities handles the entities YouTube leaves in caption text after
// the XML layer's own unescaping, plus literal newlines.
func decodeEntities(s string) string {
	for _, r := range [][2]string{
		{"&nbsp;", " "},
		{"&quot;", `"`},
		{"&#39;", "'"},
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&amp;", "&"},
		{"\n", " "},
	} {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return s
}
