package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr      string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath        string     `env:"DB_PATH" envDefault:"data/photoquiz.db"`
	LogLevel      slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir        string     `env:"SPA_DIR" envDefault:"../web/dist"`
	SeedFile      string     `env:"SEED_FILE" envDefault:"images.json"`
	PublicBaseURL string     `env:"PUBLIC_BASE_URL"`

	// Game tuning. The scoring curve is policy, not contract, so every
	// knob is exposed here.
	RoundLimit        int           `env:"ROUND_LIMIT" envDefault:"5"`
	MaxScore          int           `env:"SCORE_MAX" envDefault:"5000"`
	ScoreScaleMeters  float64       `env:"SCORE_SCALE_METERS" envDefault:"4000000"`
	ScoreMaxDistance  float64       `env:"SCORE_MAX_DISTANCE_METERS" envDefault:"20015000"`
	BonusPoints       int           `env:"BONUS_POINTS" envDefault:"500"`
	BonusRadiusMeters float64       `env:"BONUS_RADIUS_METERS" envDefault:"25000"`
	LeaderboardLimit  int           `env:"LEADERBOARD_LIMIT" envDefault:"25"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.RoundLimit < 1 {
		return nil, fmt.Errorf("ROUND_LIMIT must be positive, got %d", cfg.RoundLimit)
	}
	return &cfg, nil
}
