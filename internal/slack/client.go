package slack

import (
	"context"
	"fmt"
	"time"

	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

type Client struct {
	api         *slack.Client
	rateLimiter *rate.Limiter
}

// Option tweaks the underlying slack-go client
type Option = slack.Option

// WithAPIURL points the client at a different Slack Web API base URL
func WithAPIURL(url string) Option {
	return slack.OptionAPIURL(url)
}

func NewClient(token string, requestsPerMinute int, opts ...Option) *Client {
	limit := rate.Inf
	burst := 1
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
		burst = requestsPerMinute
	}

	return &Client{
		api:         slack.New(token, opts...),
		rateLimiter: rate.NewLimiter(limit, burst),
	}
}

// ValidateAuth checks if the token is valid and returns basic auth info
func (c *Client) ValidateAuth(ctx context.Context) (*slack.AuthTestResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth validation failed: %w", err)
	}

	return resp, nil
}

// CountFiles probes files.list with a single-item page and returns the
// total number of files the token can see
func (c *Client) CountFiles(ctx context.Context) (int, error) {
	_, paging, err := c.getFiles(ctx, 1, 1)
	if err != nil {
		return 0, err
	}
	if paging == nil {
		return 0, fmt.Errorf("files.list response carried no paging information")
	}
	return paging.Total, nil
}

// ListFiles returns one 1-based page of files
func (c *Client) ListFiles(ctx context.Context, page, count int) ([]slack.File, error) {
	files, _, err := c.getFiles(ctx, page, count)
	return files, err
}

// DeleteFile removes a file from the workspace. An ok:false response
// surfaces as slack.SlackErrorResponse.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	if err := c.api.DeleteFileContext(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	return nil
}

func (c *Client) getFiles(ctx context.Context, page, count int) ([]slack.File, *slack.Paging, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter error: %w", err)
	}

	// NewGetFilesParameters sets the sentinel defaults slack-go expects for
	// the unused filters; a zero-value struct would send ts_to=0.
	params := slack.NewGetFilesParameters()
	params.Count = count
	params.Page = page

	files, paging, err := c.api.GetFilesContext(ctx, params)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list files (page %d): %w", page, err)
	}

	return files, paging, nil
}
