// Package roll provides the random draws used by story generation: uniform
// picks, weighted coin flips and inclusive integer ranges.
package roll

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// ErrEmptyPool is returned by Pick when there is nothing to choose from.
var ErrEmptyPool = errors.New("cannot pick from an empty pool")

// Roller is a pseudo-random source shared by one process. It is safe for
// concurrent use.
type Roller struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
}

// New creates a Roller. A zero seed uses the current time.
func New(seed int64) *Roller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Roller{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed the Roller was created with.
func (r *Roller) Seed() int64 {
	return r.seed
}

// Intn returns a value in [0, n). It panics if n <= 0, like math/rand.
func (r *Roller) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// Float64 returns a value in [0.0, 1.0).
func (r *Roller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Chance reports true with probability p.
func (r *Roller) Chance(p float64) bool {
	return r.Float64() < p
}

// Coin is Chance(0.5).
func (r *Roller) Coin() bool {
	return r.Chance(0.5)
}

// Between returns a value in [min, max], both ends inclusive.
func (r *Roller) Between(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + r.Intn(max-min+1)
}

// Sample returns k distinct indices from [0, n) in draw order. k is clamped
// to n.
func (r *Roller) Sample(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < k; i++ {
		j := i + r.rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

// Pick returns a uniformly chosen element of list.
func Pick[T any](r *Roller, list []T) (T, error) {
	var zero T
	if len(list) == 0 {
		return zero, ErrEmptyPool
	}
	return list[r.Intn(len(list))], nil
}
