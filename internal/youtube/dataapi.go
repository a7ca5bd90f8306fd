package youtube

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	yt "google.golang.org/api/youtube/v3"

	"mindlink/internal/domain"
)

// DataAPI resolves metadata through the YouTube Data API. Used instead of
// oEmbed when an API key is configured, because it also carries duration
// and publication date.
type DataAPI struct {
	client *yt.Service
}

func NewDataAPI(client *yt.Service) *DataAPI {
	return &DataAPI{client: client}
}

func (d *DataAPI) FetchMetadata(ctx context.Context, id domain.VideoID) (domain.VideoMetadata, error) {
	call := d.client.Videos.
		List([]string{"snippet", "contentDetails"}).
		Id(string(id)).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("videos.list: %w", err)
	}
	if len(response.Items) == 0 {
		return domain.VideoMetadata{}, fmt.Errorf("video %s not found", id)
	}

	item := response.Items[0]
	md := domain.VideoMetadata{
		Title:   item.Snippet.Title,
		Channel: item.Snippet.ChannelTitle,
	}
	if md.Title == "" {
		md.Title = UnknownTitle
	}
	if md.Channel == "" {
		md.Channel = UnknownChannel
	}
	if item.Snippet.Description != "" {
		md.Description = item.Snippet.Description
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
		md.ThumbnailURL = item.Snippet.Thumbnails.High.Url
	}
	if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		md.PublishedAt = t
	}
	if item.ContentDetails != nil {
		md.DurationSeconds = parseISODuration(item.ContentDetails.Duration)
	}

	return md, nil
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts the API's PT#H#M#S form to seconds.
// Unparseable input yields 0, same as a missing duration.
func parseISODuration(iso string) int {
	m := isoDurationRe.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	return h*3600 + min*60 + s
}
