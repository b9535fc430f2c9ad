package server

import (
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/swaggest/swgui/v5emb"

	"github.com/snapguess/photoquiz/internal/scoring"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, policy scoring.Policy, opts Options) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("PhotoQuiz API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, store))
	r.Get("/ws/leaderboard", handleWSLeaderboard(logger, broker))

	r.Route("/api", func(r chi.Router) {
		// The SSE stream stays outside the timeout group; everything
		// else is bounded so a stuck store call surfaces as 503.
		r.Get("/leaderboard/events", handleLeaderboardEvents(broker))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(10 * time.Second))

			r.Get("/images", handleListImages(store, opts))
			r.Get("/images/{imageID}", handleGetImage(store, opts))
			r.Post("/guess", handlePracticeGuess(logger, store, policy))

			r.Post("/session", handleStartSession(store, opts))
			r.Post("/session/{sessionID}/guess", handleSubmitGuess(logger, store, policy, opts))
			r.Get("/session/{sessionID}/summary", handleSessionSummary(store))

			r.Get("/leaderboard", handleGetLeaderboard(store, opts))
			r.Post("/leaderboard", handleAddLeaderboardEntry(store, broker, opts))
			r.Get("/leaderboard/placement", handlePlacement(store))
		})
	})

	if opts.SPADir != "" {
		if info, err := os.Stat(opts.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", opts.SPADir)
			r.NotFound(handleSPA(opts.SPADir))
		}
	}
}
