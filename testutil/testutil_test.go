package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformRange(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UniformRange(64, -10, 10)

	assert.Len(t, v, 64)
	for _, x := range v {
		assert.GreaterOrEqual(t, x, -10.0)
		assert.Less(t, x, 10.0)
	}
}

func TestAxis(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.Axis(20, 5, 0.5)

	assert.Len(t, v, 20)
	assert.Equal(t, 5.0, v[0])
	for i := 1; i < len(v); i++ {
		assert.GreaterOrEqual(t, v[i]-v[i-1], 0.5)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.UniformRange(10, 0, 1)

	rng.Reset()
	v2 := rng.UniformRange(10, 0, 1)

	assert.Equal(t, v1, v2)
}

func TestArange(t *testing.T) {
	assert.Equal(t, []float64{2, 3, 4}, Arange(3, 2))
}

func TestExactKNN(t *testing.T) {
	lon := []float64{0, 1, 2, 3}
	lat := []float64{0, 0, 0, 0}

	res := ExactKNN(lon, lat, 1.4, 0, 2)

	assert.Len(t, res, 2)
	assert.Equal(t, 1, res[0].Offset)
	assert.Equal(t, 2, res[1].Offset)
	assert.InDelta(t, 0.4, res[0].Distance, 1e-12)
	assert.InDelta(t, 0.6, res[1].Distance, 1e-12)
}

func TestComputeRecall(t *testing.T) {
	truth := []SearchResult{{Offset: 1}, {Offset: 2}, {Offset: 3}}

	assert.Equal(t, 1.0, ComputeRecall(truth, []int{3, 2, 1}))
	assert.InDelta(t, 2.0/3.0, ComputeRecall(truth, []int{1, 2, 9}), 1e-12)
	assert.Equal(t, 1.0, ComputeRecall(nil, nil))
	assert.Equal(t, 0.0, ComputeRecall(truth, nil))
}
