// Package rng provides a seedable random source so dungeon loot rolls and
// platform generation are reproducible in tests.
package rng

import (
	"math/rand"
	"time"
)

// RNG wraps math/rand.Rand behind the few operations the game needs.
type RNG struct {
	seed int64
	src  *rand.Rand
}

// New creates a deterministic RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{seed: seed, src: rand.New(rand.NewSource(seed))}
}

// NewTimeSeeded creates an RNG seeded from the current time.
func NewTimeSeeded() *RNG {
	return New(time.Now().UnixNano())
}

// Seed returns the seed this RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// IntBetween returns a random integer in [min, max].
func (r *RNG) IntBetween(min, max int) int {
	return r.src.Intn(max-min+1) + min
}

// Chance returns true with probability p in [0, 1].
func (r *RNG) Chance(p float64) bool {
	return r.src.Float64() < p
}
