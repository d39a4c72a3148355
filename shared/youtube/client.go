package youtube

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gradi-client/internal/models"
	"gradi-client/shared/config"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrVideoNotFound is returned when the Data API has no such video.
var ErrVideoNotFound = errors.New("video not found")

type Client struct {
	service *youtube.Service
}

// NewClient authenticates with the API key when one is set and falls back
// to the OAuth device flow. Device flow prompts are written to stdout.
func NewClient(ctx context.Context, cfg config.YouTubeConfig) (*Client, error) {
	if cfg.APIKey != "" {
		return newClient(ctx, option.WithAPIKey(cfg.APIKey))
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{youtube.YoutubeReadonlyScope},
		Endpoint:     google.Endpoint,
	}

	token, err := getToken(ctx, oauthConfig, cfg.TokenFile, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth token: %w", err)
	}

	tokenSource := &tokenSaver{
		config:    oauthConfig,
		token:     token,
		tokenFile: cfg.TokenFile,
	}
	return newClient(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
}

func newClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

// GetVideo fetches title, channel, duration and view count of a video.
func (c *Client) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	resp, err := c.service.Videos.
		List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
	}

	video := videoFromItem(resp.Items[0])
	log.WithField("video_id", videoID).Debugf("Fetched metadata for %q", video.Title)
	return video, nil
}

func videoFromItem(item *youtube.Video) *models.Video {
	video := &models.Video{
		ID:  item.Id,
		URL: WatchURL(item.Id),
	}

	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.ChannelTitle = item.Snippet.ChannelTitle
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			video.PublishedAt = publishedAt
		}
	}
	if item.ContentDetails != nil {
		video.DurationSeconds = parseDurationSeconds(item.ContentDetails.Duration)
		video.Duration = FormatClock(video.DurationSeconds)
	}
	if item.Statistics != nil {
		video.ViewCount = int64(item.Statistics.ViewCount)
	}
	return video
}
