package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"mindlink/internal/domain"
)

const DefaultOEmbedURL = "https://www.youtube.com/oembed"

// Defaults for fields the lookup service omitted. A partial response is
// filled in, only total request failure is fatal.
const (
	UnknownTitle   = "Unknown Title"
	UnknownChannel = "Unknown Channel"
)

type OEmbedConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// OEmbed resolves video metadata through the public oEmbed lookup endpoint.
// One round trip per video, no retry: without a title the rest of the
// ingestion is pointless, so the caller aborts on error.
type OEmbed struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

func NewOEmbed(cfg OEmbedConfig, logger *slog.Logger) *OEmbed {
	return &OEmbed{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		logger:    logger.With("fetcher", "oembed"),
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Description  string `json:"description"`
}

func (o *OEmbed) FetchMetadata(ctx context.Context, id domain.VideoID) (domain.VideoMetadata, error) {
	endpoint := fmt.Sprintf("%s?url=%s&format=json", o.baseURL, url.QueryEscape(id.WatchURL()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", o.userAgent)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.VideoMetadata{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var decoded oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("decode response: %w", err)
	}

	md := domain.VideoMetadata{
		Title:        decoded.Title,
		Channel:      decoded.AuthorName,
		ThumbnailURL: decoded.ThumbnailURL,
		Description:  decoded.Description,
		// oEmbed carries no duration; it stays 0 on this path. Known
		// data-completeness gap of the lookup service, the Data API
		// fetcher fills it when an API key is configured.
		DurationSeconds: 0,
	}
	if md.Title == "" {
		md.Title = UnknownTitle
	}
	if md.Channel == "" {
		md.Channel = UnknownChannel
	}

	o.logger.Debug("fetched metadata", "video_id", id, "title", md.Title)

	return md, nil
}
