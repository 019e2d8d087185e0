// Package codechef adapts the community CodeChef API. One endpoint yields
// both the current rating and the solved-problem count.
package codechef

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"rating-tracker/internal/common/config"
	"rating-tracker/internal/common/errors"
	"rating-tracker/internal/common/httpclient"
	"rating-tracker/internal/common/logger"
	"rating-tracker/internal/provider"
)

const Name = "codechef"

type handleResponse struct {
	CurrentRating  *int `json:"currentRating"`
	ProblemsSolved *int `json:"problemsSolved"`
}

type Client struct {
	cfg    config.ProviderConfig
	http   *httpclient.Client
	logger logger.Logger
}

func New(cfg config.ProviderConfig, log logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   httpclient.New(Name, time.Duration(cfg.Timeout)*time.Millisecond, log),
		logger: log,
	}
}

func (c *Client) Name() string { return Name }

func (c *Client) Fetch(ctx context.Context, handle string) (provider.PartialRating, error) {
	endpoint := fmt.Sprintf("%s/handle/%s", c.cfg.BaseURL, url.PathEscape(handle))

	body, err := c.http.GetWithRetry(ctx, endpoint, c.cfg.MaxRetries, time.Duration(c.cfg.RetryDelay)*time.Millisecond)
	if err != nil {
		return provider.PartialRating{}, err
	}

	var parsed handleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return provider.PartialRating{}, errors.NewMalformedResponseError(Name, "currentRating", truncate(body))
	}

	partial := provider.PartialRating{Present: true}
	if parsed.CurrentRating != nil {
		partial.Rating = *parsed.CurrentRating
	} else {
		c.logger.Warn("CodeChef rating missing from response, keeping zero", map[string]interface{}{
			"handle": handle,
		})
	}
	if parsed.ProblemsSolved != nil {
		partial.ProblemsSolved = *parsed.ProblemsSolved
	}
	return partial, nil
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
