package leaderboard

import (
	"context"

	"rating-tracker/internal/common/logger"
	"rating-tracker/internal/common/metrics"
	"rating-tracker/internal/models"
	"rating-tracker/internal/repository"
)

// Service is the read path for the ranked user view: cache first, then the
// user store, repopulating the cache on a miss.
type Service struct {
	repo   repository.UserRepository
	cache  *Cache
	logger logger.Logger
}

func NewService(repo repository.UserRepository, cache *Cache, log logger.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: log}
}

func (s *Service) Top(ctx context.Context) ([]models.User, error) {
	if s.cache != nil {
		users, err := s.cache.Get(ctx)
		if err == nil {
			metrics.LeaderboardCacheHits.WithLabelValues("hit").Inc()
			return users, nil
		}
		if err != ErrCacheMiss {
			s.logger.Warn("Leaderboard cache read failed, falling back to store", map[string]interface{}{
				"error": err.Error(),
			})
		}
		metrics.LeaderboardCacheHits.WithLabelValues("miss").Inc()
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, users); err != nil {
			s.logger.Warn("Leaderboard cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return users, nil
}
