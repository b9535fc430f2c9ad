package game_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/snapguess/photoquiz/internal/game"
)

func catalogIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("img-%02d", i)
	}
	return ids
}

func TestImageOrderNoRepeats(t *testing.T) {
	ids := catalogIDs(12)

	order, err := game.ImageOrder(ids, 5)
	if err != nil {
		t.Fatalf("ImageOrder: %v", err)
	}
	if len(order) != 5 {
		t.Fatalf("got %d ids, want 5", len(order))
	}

	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if seen[id] {
			t.Errorf("image %q served twice in one session", id)
		}
		seen[id] = true
	}
}

func TestImageOrderExhaustedCatalog(t *testing.T) {
	_, err := game.ImageOrder(catalogIDs(3), 5)
	if !errors.Is(err, game.ErrCatalogExhausted) {
		t.Fatalf("got %v, want ErrCatalogExhausted", err)
	}
}

func TestImageOrderExactCatalogSize(t *testing.T) {
	// A catalog of exactly roundLimit images works for back-to-back
	// sessions; each session gets all of them.
	ids := catalogIDs(5)

	for i := 0; i < 2; i++ {
		order, err := game.ImageOrder(ids, 5)
		if err != nil {
			t.Fatalf("session %d: %v", i, err)
		}
		if len(order) != 5 {
			t.Fatalf("session %d: got %d ids, want 5", i, len(order))
		}
	}
}

func TestImageOrderIndependentPerSession(t *testing.T) {
	// With 20 images taken 5 at a time there are billions of possible
	// orderings; 50 identical draws in a row means shared RNG state.
	ids := catalogIDs(20)

	first, err := game.ImageOrder(ids, 5)
	if err != nil {
		t.Fatalf("ImageOrder: %v", err)
	}

	for i := 0; i < 50; i++ {
		next, err := game.ImageOrder(ids, 5)
		if err != nil {
			t.Fatalf("ImageOrder: %v", err)
		}
		if !equalOrder(first, next) {
			return
		}
	}
	t.Error("50 sessions produced identical image orders")
}

func TestImageOrderDoesNotMutateCatalog(t *testing.T) {
	ids := catalogIDs(8)
	want := catalogIDs(8)

	if _, err := game.ImageOrder(ids, 5); err != nil {
		t.Fatalf("ImageOrder: %v", err)
	}
	if !equalOrder(ids, want) {
		t.Error("ImageOrder reordered the caller's slice")
	}
}

func TestCurrentImageID(t *testing.T) {
	s := game.Session{
		ImageOrder:   []string{"a", "b", "c"},
		RoundLimit:   3,
		RoundsPlayed: 1,
	}
	if got := s.CurrentImageID(); got != "b" {
		t.Errorf("CurrentImageID = %q, want %q", got, "b")
	}

	s.RoundsPlayed = 3
	s.Finished = true
	if got := s.CurrentImageID(); got != "" {
		t.Errorf("finished session CurrentImageID = %q, want empty", got)
	}
}

func equalOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
