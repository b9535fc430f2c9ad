package game

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand/v2"
)

// ImageOrder picks the photos for a new session: a uniform-random
// permutation of the catalog ids, truncated to roundLimit, so no image
// repeats within the session. Each call uses its own crypto-seeded
// generator; concurrent sessions never share shuffle state.
func ImageOrder(ids []string, roundLimit int) ([]string, error) {
	if len(ids) < roundLimit {
		return nil, fmt.Errorf("%w: %d images for %d rounds", ErrCatalogExhausted, len(ids), roundLimit)
	}

	order := make([]string, len(ids))
	copy(order, ids)

	rng := newSessionRand()
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order[:roundLimit], nil
}

func newSessionRand() *mathrand.Rand {
	var seed [16]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand never fails on supported platforms; if it somehow
		// does, the shuffle still only affects image ordering.
		panic(fmt.Sprintf("reading random seed: %v", err))
	}
	return mathrand.New(mathrand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	))
}
