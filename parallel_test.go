package nngrid

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelFor(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		workers  int
		minChunk int
	}{
		{"Serial", 100, 1, 1},
		{"SmallWork", 10, 8, 64},
		{"Parallel", 1000, 4, 10},
		{"MoreWorkersThanItems", 3, 16, 1},
		{"ZeroChunk", 50, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			parallelFor(tt.n, tt.workers, tt.minChunk, func(lo, hi int) {
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				assert.Equal(t, int32(1), h, "index %d", i)
			}
		})
	}

	t.Run("Empty", func(t *testing.T) {
		called := false
		parallelFor(0, 4, 1, func(lo, hi int) { called = true })
		assert.False(t, called)
	})
}
