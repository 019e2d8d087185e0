// Package codeforces adapts the Codeforces REST API. Two independent
// endpoints are queried concurrently: the submission history yields the
// distinct solved-problem count, the rating history yields the current
// rating. Either may fail without blocking the other.
package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"rating-tracker/internal/common/config"
	"rating-tracker/internal/common/errors"
	"rating-tracker/internal/common/httpclient"
	"rating-tracker/internal/common/logger"
	"rating-tracker/internal/provider"
)

const Name = "codeforces"

type statusResponse struct {
	Status string       `json:"status"`
	Result []submission `json:"result"`
}

type submission struct {
	Verdict string `json:"verdict"`
	Problem struct {
		ContestID int    `json:"contestId"`
		Index     string `json:"index"`
	} `json:"problem"`
}

type ratingResponse struct {
	Status string `json:"status"`
	Result []struct {
		NewRating int `json:"newRating"`
	} `json:"result"`
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

// Fetch queries user.status and user.rating concurrently and merges
// whatever succeeded. Present is true when at least one endpoint produced
// a result.
func (c *Client) Fetch(ctx context.Context, handle string) (provider.PartialRating, error) {
	var (
		wg        sync.WaitGroup
		solved    int
		rating    int
		solvedErr error
		ratingErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		solved, solvedErr = c.fetchSolvedCount(ctx, handle)
	}()
	go func() {
		defer wg.Done()
		rating, ratingErr = c.fetchRating(ctx, handle)
	}()
	wg.Wait()

	if solvedErr != nil && ratingErr != nil {
		return provider.PartialRating{}, solvedErr
	}

	partial := provider.PartialRating{Present: true}
	if solvedErr == nil {
		partial.ProblemsSolved = solved
	} else {
		c.logger.Warn("Codeforces solved count unavailable, keeping zero", map[string]interface{}{
			"handle": handle,
			"error":  solvedErr.Error(),
		})
	}
	if ratingErr == nil {
		partial.Rating = rating
	} else {
		c.logger.Warn("Codeforces rating unavailable, keeping zero", map[string]interface{}{
			"handle": handle,
			"error":  ratingErr.Error(),
		})
	}
	return partial, nil
}

// fetchSolvedCount counts distinct problems with verdict OK. A problem is
// identified by its (contestId, index) pair so duplicate accepted
// submissions count once.
func (c *Client) fetchSolvedCount(ctx context.Context, handle string) (int, error) {
	endpoint := fmt.Sprintf("%s/user.status?handle=%s", c.cfg.BaseURL, url.QueryEscape(handle))

	body, err := c.http.GetWithRetry(ctx, endpoint, c.cfg.MaxRetries, time.Duration(c.cfg.RetryDelay)*time.Millisecond)
	if err != nil {
		return 0, err
	}

	var parsed statusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, errors.NewMalformedResponseError(Name, "result", truncate(body))
	}

	seen := make(map[string]struct{})
	for _, sub := range parsed.Result {
		if sub.Verdict != "OK" {
			continue
		}
		key := fmt.Sprintf("%d-%s", sub.Problem.ContestID, sub.Problem.Index)
		seen[key] = struct{}{}
	}
	return len(seen), nil
}

// fetchRating returns newRating of the chronologically last rating-history
// entry, or zero for users who never competed.
func (c *Client) fetchRating(ctx context.Context, handle string) (int, error) {
	endpoint := fmt.Sprintf("%s/user.rating?handle=%s", c.cfg.BaseURL, url.QueryEscape(handle))

	body, err := c.http.GetWithRetry(ctx, endpoint, c.cfg.MaxRetries, time.Duration(c.cfg.RetryDelay)*time.Millisecond)
	if err != nil {
		return 0, err
	}

	var parsed ratingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, errors.NewMalformedResponseError(Name, "result", truncate(body))
	}

	if parsed.Status != "OK" || len(parsed.Result) == 0 {
		return 0, nil
	}
	return parsed.Result[len(parsed.Result)-1].NewRating, nil
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
