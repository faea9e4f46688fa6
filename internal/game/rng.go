package game

import (
	"hash/fnv"
	"math/rand"
)

// NewRNG returns the per-instance random stream. Seeding by instance id
// makes a restored snapshot plus the same command sequence replay to the
// same outcomes.
func NewRNG(instanceID string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(instanceID))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
