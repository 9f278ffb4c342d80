package engine

import (
	"math/rand"
	"time"
)

// Rand is the random source the engine draws spawns from.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a seeded source. A seed of 0 means seed from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// PickSpawn chooses a tile for one of the empty locations: the location
// uniformly, then 4 with probability fourProbability and 2 otherwise.
// It returns false when empty is empty.
func PickSpawn(empty []Location, rng Rand, fourProbability float64) (Spawn, bool) {
	if len(empty) == 0 {
		return Spawn{}, false
	}

	loc := empty[rng.Intn(len(empty))]
	value := 2
	if rng.Float64() < fourProbability {
		value = 4
	}
	return Spawn{Value: value, Location: loc}, true
}
