package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/snapguess/photoquiz/internal/game"
	"github.com/snapguess/photoquiz/internal/geo"
)

type seedImage struct {
	ID          string  `json:"id"`
	RelativeURL string  `json:"relative_url"`
	File        string  `json:"file"`
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	IGLink      string  `json:"igLink"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// SeedImages loads the catalog from a JSON file when the images table is
// empty. Idempotent: an already-populated catalog is left alone, and a
// missing seed file is not an error.
func SeedImages(ctx context.Context, logger *slog.Logger, store Store, seedFile string) error {
	count, err := store.CountImages(ctx)
	if err != nil {
		return fmt.Errorf("counting images: %w", err)
	}
	if count > 0 {
		return nil
	}

	data, err := os.ReadFile(seedFile)
	if os.IsNotExist(err) {
		logger.Warn("no image seed file; catalog is empty", "path", seedFile)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var seeds []seedImage
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parsing seed file: %w", err)
	}

	for _, s := range seeds {
		rel := s.RelativeURL
		if rel == "" && s.File != "" {
			rel = path.Join("images", s.File)
		}
		if rel == "" {
			return fmt.Errorf("image entry %q is missing a relative URL", s.ID)
		}

		err := store.InsertImage(ctx, game.Image{
			ID:          s.ID,
			RelativeURL: rel,
			Title:       s.Title,
			Subtitle:    s.Subtitle,
			IGLink:      s.IGLink,
			Location:    geo.Coordinate{Lat: s.Lat, Lng: s.Lng},
		})
		if err != nil {
			return fmt.Errorf("inserting image %q: %w", s.ID, err)
		}
	}

	logger.Info("seeded image catalog", "count", len(seeds))
	return nil
}
