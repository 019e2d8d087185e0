// Package rating implements the refresh pipeline: fan out to the provider
// adapters for one user, aggregate the partials, persist the snapshot.
// Single-user and batch refresh share this one path so the two entry
// points can never compute different scores.
package rating

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rating-tracker/internal/common/logger"
	"rating-tracker/internal/common/metrics"
	"rating-tracker/internal/models"
	"rating-tracker/internal/provider"
	"rating-tracker/internal/repository"
)

// Invalidator signals downstream views (the leaderboard cache) that
// snapshots changed.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Refresher struct {
	repo        repository.UserRepository
	codeforces  provider.Provider
	leetcode    provider.Provider
	codechef    provider.Provider
	invalidator Invalidator
	logger      logger.Logger
	pacing      time.Duration
}

type Dependencies struct {
	Repo        repository.UserRepository
	Codeforces  provider.Provider
	LeetCode    provider.Provider
	CodeChef    provider.Provider
	Invalidator Invalidator
	Logger      logger.Logger
	// PacingDelay is the wait between users in a batch run.
	PacingDelay time.Duration
}

func NewRefresher(deps Dependencies) *Refresher {
	return &Refresher{
		repo:        deps.Repo,
		codeforces:  deps.Codeforces,
		leetcode:    deps.LeetCode,
		codechef:    deps.CodeChef,
		invalidator: deps.Invalidator,
		logger:      deps.Logger,
		pacing:      deps.PacingDelay,
	}
}

// RefreshUser refreshes one user on demand (e.g. right after creation) and
// invalidates the leaderboard view. Only a missing user aborts; provider
// failures degrade to zero contributions.
func (r *Refresher) RefreshUser(ctx context.Context, userID string) error {
	start := time.Now()

	user, err := r.repo.GetByID(ctx, userID)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("single", "failed").Inc()
		r.logger.Error("User lookup failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		return err
	}

	if err := r.refreshOne(ctx, user); err != nil {
		metrics.RefreshesTotal.WithLabelValues("single", "failed").Inc()
		return err
	}

	metrics.RefreshesTotal.WithLabelValues("single", "completed").Inc()
	metrics.RefreshDuration.WithLabelValues("single").Observe(time.Since(start).Seconds())
	r.invalidate(ctx)
	return nil
}

// RefreshAll refreshes the full user population strictly sequentially with
// the configured pacing delay between users. Per-user failures are logged
// and skipped; a nil return means the loop ran to completion, not that
// every user succeeded.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	start := time.Now()

	users, err := r.repo.List(ctx)
	if err != nil {
		metrics.BatchRunsTotal.WithLabelValues("failed").Inc()
		r.logger.Error("Failed to load users for batch refresh", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	r.logger.Info("Starting rating update", map[string]interface{}{
		"users": len(users),
	})

	for i := range users {
		user := users[i]
		if err := r.refreshOne(ctx, &user); err != nil {
			metrics.RefreshesTotal.WithLabelValues("batch", "failed").Inc()
			r.logger.Error("Failed to refresh user, continuing", map[string]interface{}{
				"userId": user.ID,
				"name":   user.Name,
				"error":  err.Error(),
			})
		} else {
			metrics.RefreshesTotal.WithLabelValues("batch", "completed").Inc()
		}

		if i < len(users)-1 {
			select {
			case <-time.After(r.pacing):
			case <-ctx.Done():
				metrics.BatchRunsTotal.WithLabelValues("failed").Inc()
				return ctx.Err()
			}
		}
	}

	r.logger.Info("Rating update completed for all users", map[string]interface{}{
		"users":    len(users),
		"duration": time.Since(start).String(),
	})
	metrics.BatchRunsTotal.WithLabelValues("completed").Inc()
	metrics.RefreshDuration.WithLabelValues("batch").Observe(time.Since(start).Seconds())
	r.invalidate(ctx)
	return nil
}

// refreshOne runs the shared pipeline for one user: concurrent provider
// fan-out, aggregation, one snapshot write. A panic anywhere in the
// pipeline becomes an error so a single user can never abort a batch.
func (r *Refresher) refreshOne(ctx context.Context, user *models.User) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("refresh panicked: %v", rec)
		}
	}()

	validity := HandleValidity{
		Codeforces: models.IsValidHandle(user.CodeforcesHandle),
		LeetCode:   models.IsValidHandle(user.LeetcodeHandle),
		CodeChef:   models.IsValidHandle(user.CodechefHandle),
	}

	cf, lc, cc := r.collect(ctx, user, validity)
	snap := Aggregate(cf, lc, cc, validity)

	if err := r.repo.UpdateSnapshot(ctx, user.ID, snap); err != nil {
		return err
	}

	r.logger.Info("Updated user ratings", map[string]interface{}{
		"userId":     user.ID,
		"name":       user.Name,
		"totalScore": snap.TotalScore,
	})
	return nil
}

// collect fans out to the providers whose handle is valid and waits for
// all of them. Each fetch fails independently; a failed provider leaves a
// zero partial and never cancels the others.
func (r *Refresher) collect(ctx context.Context, user *models.User, validity HandleValidity) (cf, lc, cc provider.PartialRating) {
	var wg sync.WaitGroup

	fetch := func(p provider.Provider, handle string, out *provider.PartialRating) {
		defer wg.Done()
		partial, err := p.Fetch(ctx, handle)
		if err != nil {
			r.logger.Warn("Provider fetch failed, contribution stays zero", map[string]interface{}{
				"provider": p.Name(),
				"userId":   user.ID,
				"handle":   handle,
				"error":    err.Error(),
			})
			return
		}
		*out = partial
	}

	if validity.Codeforces {
		wg.Add(1)
		go fetch(r.codeforces, user.CodeforcesHandle, &cf)
	}
	if validity.LeetCode {
		wg.Add(1)
		go fetch(r.leetcode, user.LeetcodeHandle, &lc)
	}
	if validity.CodeChef {
		wg.Add(1)
		go fetch(r.codechef, user.CodechefHandle, &cc)
	}
	wg.Wait()
	return cf, lc, cc
}

func (r *Refresher) invalidate(ctx context.Context) {
	if r.invalidator == nil {
		return
	}
	if err := r.invalidator.Invalidate(ctx); err != nil {
		r.logger.Warn("Leaderboard invalidation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
