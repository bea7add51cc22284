package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"
)

// SearchResult represents an exact search result.
type SearchResult struct {
	Offset   int
	Distance float64
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// UniformRange returns n random values in range [minVal, maxVal).
func (r *RNG) UniformRange(n int, minVal, maxVal float64) []float64 {
	dst := make([]float64, n)
	r.FillUniformRange(dst, minVal, maxVal)
	return dst
}

// Gaussian returns n values from a standard normal distribution.
func (r *RNG) Gaussian(n int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	dst := make([]float64, n)
	for i := range dst {
		dst[i] = r.rand.NormFloat64()
	}
	return dst
}

// Axis returns n sorted, strictly increasing values starting at start with
// random steps in [minStep, 2*minStep).
func (r *RNG) Axis(n int, start, minStep float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	dst := make([]float64, n)
	v := start
	for i := range dst {
		dst[i] = v
		v += minStep * (1 + r.rand.Float64())
	}
	return dst
}

// Arange returns [start, start+1, ..., start+n-1].
func Arange(n int, start float64) []float64 {
	dst := make([]float64, n)
	for i := range dst {
		dst[i] = start + float64(i)
	}
	return dst
}

// ExactKNN computes the k nearest of the points (lon[i], lat[i]) to (x, y)
// by sorting all distances. Ties are ordered by offset.
func ExactKNN(lon, lat []float64, x, y float64, k int) []SearchResult {
	res := make([]SearchResult, len(lon))
	for i := range lon {
		dx := lon[i] - x
		dy := lat[i] - y
		res[i] = SearchResult{Offset: i, Distance: math.Sqrt(dx*dx + dy*dy)}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Distance < res[j].Distance
	})
	if k < len(res) {
		res = res[:k]
	}
	return res
}

// ComputeRecall computes recall@k by comparing approximate offsets against ground truth.
func ComputeRecall(groundTruth []SearchResult, approximate []int) float64 {
	if len(groundTruth) == 0 || len(approximate) == 0 {
		if len(groundTruth) == 0 && len(approximate) == 0 {
			return 1.0
		}
		return 0.0
	}

	k := min(len(approximate), len(groundTruth))

	truthSet := make(map[int]struct{}, k)
	for i := range k {
		truthSet[groundTruth[i].Offset] = struct{}{}
	}

	hits := 0
	for _, off := range approximate[:k] {
		if _, ok := truthSet[off]; ok {
			hits++
		}
	}

	return float64(hits) / float64(k)
}
