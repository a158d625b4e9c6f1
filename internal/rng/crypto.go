// Package rng provides the entropy source for deck shuffles.
package rng

import (
	"crypto/rand"
	"math"
	"math/big"
)

// Seed returns a positive, non-zero value suitable for seeding a shuffle
func Seed() int64 {
	b, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64-1))
	if err != nil {
		panic(err)
	}

	return b.Int64() + 1
}
