package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rating-tracker/internal/common/config"
	"rating-tracker/internal/common/database"
	"rating-tracker/internal/common/logger"
	"rating-tracker/internal/leaderboard"
	"rating-tracker/internal/provider/codechef"
	"rating-tracker/internal/provider/codeforces"
	"rating-tracker/internal/provider/leetcode"
	"rating-tracker/internal/rating"
	"rating-tracker/internal/repository/postgres"
	"rating-tracker/internal/server"
	"rating-tracker/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewStructured("error", "json").Error("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("Starting rating-tracker", map[string]interface{}{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	})

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		log.Error("Failed to open postgres", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer pg.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := pg.Ping(pingCtx); err != nil {
		log.Warn("Postgres not reachable at startup", map[string]interface{}{"error": err.Error()})
	}
	cancelPing()

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		log.Error("Failed to open redis", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer rdb.Close()

	repo := postgres.NewUserRepository(pg)
	cache := leaderboard.NewCache(rdb, 10*time.Minute)

	refresher := rating.NewRefresher(rating.Dependencies{
		Repo:        repo,
		Codeforces:  codeforces.New(cfg.Providers.Codeforces, log),
		LeetCode:    leetcode.New(cfg.Providers.LeetCode, log),
		CodeChef:    codechef.New(cfg.Providers.CodeChef, log),
		Invalidator: cache,
		Logger:      log,
		PacingDelay: time.Duration(cfg.Refresh.PacingDelay) * time.Millisecond,
	})

	srv := server.New(server.Options{
		Port:        cfg.Server.Port,
		CronSecret:  cfg.Server.CronSecret,
		Logger:      log,
		Refresher:   refresher,
		Users:       users.NewService(repo, refresher, log),
		Leaderboard: leaderboard.NewService(repo, cache, log),
		Pingers: map[string]server.Pinger{
			"postgres": pg,
			"redis":    rdb,
		},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info("Shutting down", map[string]interface{}{"signal": sig.String()})
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
