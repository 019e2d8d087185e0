// Package leetcode adapts the community LeetCode stats APIs. The primary
// path queries the contest-ranking and solved-count endpoints concurrently;
// whatever the primary path failed to produce is filled from a generic
// fallback endpoint. Fallback values never overwrite primary ones.
package leetcode

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sync"
	"time"

	"rating-tracker/internal/common/config"
	"rating-tracker/internal/common/errors"
	"rating-tracker/internal/common/httpclient"
	"rating-tracker/internal/common/logger"
	"rating-tracker/internal/provider"
)

const Name = "leetcode"

type contestRankingResponse struct {
	Data struct {
		UserContestRanking *struct {
			Rating float64 `json:"rating"`
		} `json:"userContestRanking"`
		UserContestRankingHistory []struct {
			Rating float64 `json:"rating"`
		} `json:"userContestRankingHistory"`
	} `json:"data"`
}

type solvedResponse struct {
	SolvedProblem *int `json:"solvedProblem"`
}

type fallbackResponse struct {
	Ranking     *int `json:"ranking"`
	TotalSolved *int `json:"totalSolved"`
}

type Client struct {
	cfg    config.LeetCodeConfig
	http   *httpclient.Client
	logger logger.Logger
}

func New(cfg config.LeetCodeConfig, log logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   httpclient.New(Name, time.Duration(cfg.Timeout)*time.Millisecond, log),
		logger: log,
	}
}

func (c *Client) Name() string { return Name }

// Fetch runs the primary rating and solved-count requests concurrently,
// then fills any field the primary path missed from the fallback endpoint.
func (c *Client) Fetch(ctx context.Context, handle string) (provider.PartialRating, error) {
	var (
		wg         sync.WaitGroup
		rating     int
		solved     int
		haveRating bool
		haveSolved bool
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		r, err := c.fetchContestRating(ctx, handle)
		if err != nil {
			c.logger.Warn("LeetCode contest rating unavailable", map[string]interface{}{
				"handle": handle,
				"error":  err.Error(),
			})
			return
		}
		rating, haveRating = r, true
	}()
	go func() {
		defer wg.Done()
		s, err := c.fetchSolvedCount(ctx, handle)
		if err != nil {
			c.logger.Warn("LeetCode solved count unavailable", map[string]interface{}{
				"handle": handle,
				"error":  err.Error(),
			})
			return
		}
		solved, haveSolved = s, true
	}()
	wg.Wait()

	if !haveRating || !haveSolved {
		fb, err := c.fetchFallback(ctx, handle)
		if err != nil {
			c.logger.Warn("LeetCode fallback unavailable", map[string]interface{}{
				"handle": handle,
				"error":  err.Error(),
			})
		} else {
			if !haveRating && fb.Ranking != nil {
				rating, haveRating = *fb.Ranking, true
			}
			if !haveSolved && fb.TotalSolved != nil {
				solved, haveSolved = *fb.TotalSolved, true
			}
		}
	}

	if !haveRating && !haveSolved {
		return provider.PartialRating{}, errors.NewProviderUnavailableError(Name, c.cfg.BaseURL, nil)
	}

	return provider.PartialRating{
		Rating:         rating,
		ProblemsSolved: solved,
		Present:        true,
	}, nil
}

// fetchContestRating reads the current contest rating; when the primary
// field is absent it probes the ranking history and takes the most recent
// entry before giving up.
func (c *Client) fetchContestRating(ctx context.Context, handle string) (int, error) {
	endpoint := fmt.Sprintf("%s/userContestRankingInfo/%s", c.cfg.BaseURL, url.PathEscape(handle))

	body, err := c.http.GetWithRetry(ctx, endpoint, c.cfg.MaxRetries, time.Duration(c.cfg.RetryDelay)*time.Millisecond)
	if err != nil {
		return 0, err
	}

	var parsed contestRankingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, errors.NewMalformedResponseError(Name, "data.userContestRanking", truncate(body))
	}

	if parsed.Data.UserContestRanking != nil {
		return int(math.Round(parsed.Data.UserContestRanking.Rating)), nil
	}
	if history := parsed.Data.UserContestRankingHistory; len(history) > 0 {
		return int(math.Round(history[len(history)-1].Rating)), nil
	}
	return 0, errors.NewMalformedResponseError(Name, "data.userContestRanking", truncate(body))
}

func (c *Client) fetchSolvedCount(ctx context.Context, handle string) (int, error) {
	endpoint := fmt.Sprintf("%s/%s/solved", c.cfg.BaseURL, url.PathEscape(handle))

	body, err := c.http.GetWithRetry(ctx, endpoint, c.cfg.MaxRetries, time.Duration(c.cfg.RetryDelay)*time.Millisecond)
	if err != nil {
		return 0, err
	}

	var parsed solvedResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.SolvedProblem == nil {
		return 0, errors.NewMalformedResponseError(Name, "solvedProblem", truncate(body))
	}
	return *parsed.SolvedProblem, nil
}

func (c *Client) fetchFallback(ctx context.Context, handle string) (*fallbackResponse, error) {
	endpoint := fmt.Sprintf("%s/%s", c.cfg.FallbackURL, url.PathEscape(handle))

	body, err := c.http.GetWithRetry(ctx, endpoint, c.cfg.MaxRetries, time.Duration(c.cfg.RetryDelay)*time.Millisecond)
	if err != nil {
		return nil, err
	}

	var parsed fallbackResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.NewMalformedResponseError(Name, "totalSolved", truncate(body))
	}
	return &parsed, nil
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
