package nngrid

import (
	"sync"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	lon, lat := regularAxes(t, 10, 15)

	t.Run("HitSharesNeighbourMap", func(t *testing.T) {
		c, err := NewCache(4)
		require.NoError(t, err)

		a, err := c.NearestNeighbour(lon, lat, Vector(4.4), Vector(7.6), WithNeighbours(4))
		require.NoError(t, err)
		b, err := c.NearestNeighbour(Vector(lon.Values()...), Vector(lat.Values()...), Vector(4.4), Vector(7.6),
			WithNeighbours(4), WithWorkers(3))
		require.NoError(t, err)

		assert.Same(t, a.NeighbourMap(), b.NeighbourMap())
		assert.Equal(t, a.ID(), b.ID())
		assert.Equal(t, 1, c.Len())
	})

	t.Run("HitUsesCallerRuntime", func(t *testing.T) {
		c, err := NewCache(4)
		require.NoError(t, err)

		first := &BasicMetricsCollector{}
		second := &BasicMetricsCollector{}

		a, err := c.NearestNeighbour(lon, lat, Vector(4.4), Vector(7.6), WithMetricsCollector(first))
		require.NoError(t, err)
		b, err := c.NearestNeighbour(lon, lat, Vector(4.4), Vector(7.6), WithMetricsCollector(second), WithWorkers(2))
		require.NoError(t, err)
		assert.Same(t, a.NeighbourMap(), b.NeighbourMap())
		assert.Equal(t, 2, b.workers)

		data, err := NewDense(make([]float64, 150), 10, 15)
		require.NoError(t, err)
		_, err = b.Apply(data)
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.GetStats().BuildCount)
		assert.Zero(t, first.GetStats().ApplyCount)
		assert.Zero(t, second.GetStats().BuildCount)
		assert.Equal(t, int64(1), second.GetStats().ApplyCount)
	})

	t.Run("ConfigurationIsPartOfKey", func(t *testing.T) {
		c, err := NewCache(8)
		require.NoError(t, err)

		base, err := c.NearestNeighbour(lon, lat, Vector(4.4), Vector(7.6))
		require.NoError(t, err)

		variants := [][]Option{
			{WithNeighbours(2)},
			{WithNeighbours(2), WithMethod(MethodInverseDistance)},
			{WithOutputTopology(TopologyRegular)},
			{WithMask(roaring.BitmapOf(68))},
		}
		for _, opts := range variants {
			f, err := c.NearestNeighbour(lon, lat, Vector(4.4), Vector(7.6), opts...)
			require.NoError(t, err)
			assert.NotSame(t, base.NeighbourMap(), f.NeighbourMap())
		}
		assert.Equal(t, 1+len(variants), c.Len())
	})

	t.Run("CoordinatesArePartOfKey", func(t *testing.T) {
		c, err := NewCache(4)
		require.NoError(t, err)

		a, err := c.NearestNeighbour(lon, lat, Vector(4.4), Vector(7.6))
		require.NoError(t, err)
		b, err := c.NearestNeighbour(lon, lat, Vector(4.4), Vector(7.5))
		require.NoError(t, err)
		assert.NotSame(t, a.NeighbourMap(), b.NeighbourMap())
	})

	t.Run("Eviction", func(t *testing.T) {
		c, err := NewCache(2, WithCacheLogger(nil))
		require.NoError(t, err)

		for _, x := range []float64{1, 2, 3} {
			_, err := c.NearestNeighbour(lon, lat, Vector(x), Vector(x))
			require.NoError(t, err)
		}
		assert.Equal(t, 2, c.Len())

		c.Purge()
		assert.Equal(t, 0, c.Len())
	})

	t.Run("ErrorsAreNotCached", func(t *testing.T) {
		c, err := NewCache(0)
		require.NoError(t, err)

		_, err = c.NearestNeighbour(lon, lat, Vector(1), Vector(1, 2))
		assert.ErrorIs(t, err, ErrShapeMismatch)
		_, err = c.NearestNeighbour(lon, lat, Vector(1), Vector(1), WithMethod(Method(5)))
		assert.ErrorIs(t, err, ErrUnsupportedMethod)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("Concurrent", func(t *testing.T) {
		c, err := NewCache(4)
		require.NoError(t, err)

		const n = 16
		got := make([]*Interpolator, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got[i], _ = c.NearestNeighbour(lon, lat, Vector(2.5), Vector(3.5), WithNeighbours(4))
			}()
		}
		wg.Wait()

		for i := range n {
			require.NotNil(t, got[i])
			assert.Same(t, got[0].NeighbourMap(), got[i].NeighbourMap())
		}
		assert.Equal(t, 1, c.Len())
	})
}
