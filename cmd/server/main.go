package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/snapguess/photoquiz/internal/config"
	"github.com/snapguess/photoquiz/internal/database"
	"github.com/snapguess/photoquiz/internal/migrations"
	"github.com/snapguess/photoquiz/internal/scoring"
	"github.com/snapguess/photoquiz/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	store := server.NewSQLiteStore(db)

	if err := server.SeedImages(ctx, logger, store, cfg.SeedFile); err != nil {
		return fmt.Errorf("seeding images: %w", err)
	}

	policy := scoring.Policy{
		MaxScore:          cfg.MaxScore,
		ScaleMeters:       cfg.ScoreScaleMeters,
		MaxDistanceMeters: cfg.ScoreMaxDistance,
		BonusPoints:       cfg.BonusPoints,
		BonusRadiusMeters: cfg.BonusRadiusMeters,
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, store, policy, server.Options{
		RoundLimit:       cfg.RoundLimit,
		LeaderboardLimit: cfg.LeaderboardLimit,
		PublicBaseURL:    cfg.PublicBaseURL,
		SPADir:           cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		return expireSessions(gctx, logger, store, cfg.SessionTTL)
	})

	return g.Wait()
}

// expireSessions periodically deletes sessions older than ttl. Finished
// scores already sit on the leaderboard, so expiry only reclaims storage.
func expireSessions(ctx context.Context, logger *slog.Logger, store server.Store, ttl time.Duration) error {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := store.DeleteExpiredSessions(ctx, ttl)
			if err != nil {
				logger.Error("expiring sessions failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("expired sessions", "count", n)
			}
		}
	}
}
