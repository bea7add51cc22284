package nngrid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/nngrid/testutil"
)

func TestApplyRoundTrip(t *testing.T) {
	lon, lat := regularAxes(t, 10, 15)
	data := make([]float64, 150)
	data[4*15+8] = 3
	field, err := NewDense(data, 10, 15)
	require.NoError(t, err)

	f, err := NearestNeighbour(lon, lat, Scalar(4.4), Scalar(7.6))
	require.NoError(t, err)

	out, err := f.Apply(field)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, out.Shape())
	assert.Equal(t, []float64{3.0}, out.Values())
}

func TestApplySelection(t *testing.T) {
	rng := testutil.NewRNG(3)

	t.Run("Regular", func(t *testing.T) {
		lon := Vector(rng.Axis(12, 0, 1)...)
		lat := Vector(rng.Axis(9, 50, 1)...)
		field, err := NewDense(rng.Gaussian(12*9), 12, 9)
		require.NoError(t, err)

		plon, plat := rng.UniformRange(30, 0, 10), rng.UniformRange(30, 50, 58)
		f, err := NearestNeighbour(lon, lat, Vector(plon...), Vector(plat...))
		require.NoError(t, err)

		out, err := f.Apply(field)
		require.NoError(t, err)

		src := gridCoords(lon.Values(), lat.Values())
		for i := range plon {
			nn := testutil.ExactKNN(src[0], src[1], plon[i], plat[i], 1)
			assert.Equal(t, field.Values()[nn[0].Offset], out.Values()[i])
		}
	})

	t.Run("Unstructured", func(t *testing.T) {
		lon, lat := rng.UniformRange(200, -5, 5), rng.UniformRange(200, -5, 5)
		values := rng.Gaussian(200)

		plon, plat := rng.UniformRange(25, -5, 5), rng.UniformRange(25, -5, 5)
		f, err := NearestNeighbour(Vector(lon...), Vector(lat...), Vector(plon...), Vector(plat...),
			WithInputTopology(TopologyUnstructured))
		require.NoError(t, err)

		out, err := f.Apply(Vector(values...))
		require.NoError(t, err)
		for i := range plon {
			nn := testutil.ExactKNN(lon, lat, plon[i], plat[i], 1)
			assert.Equal(t, values[nn[0].Offset], out.Values()[i])
		}
	})
}

func gridCoords(lon, lat []float64) [2][]float64 {
	var c [2][]float64
	for _, x := range lon {
		for _, y := range lat {
			c[0] = append(c[0], x)
			c[1] = append(c[1], y)
		}
	}
	return c
}

func TestApplyBatchBroadcast(t *testing.T) {
	lon := Vector(0, 1, 2, 3, 4)
	lat := Vector(0, 0, 0, 0, 0)
	f, err := NearestNeighbour(lon, lat, Vector(0.2, 3.4), Vector(0, 0),
		WithInputTopology(TopologyUnstructured), WithNeighbours(2), WithMethod(MethodMean))
	require.NoError(t, err)

	field, err := NewDense([]float64{
		1, 2, 3, 4, 5,
		10, 20, 30, 40, 50,
		-1, -2, -3, -4, -5,
	}, 3, 5)
	require.NoError(t, err)

	out, err := f.Apply(field)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, out.Shape())
	assert.Equal(t, []string{"dim_0", "cell"}, out.Dims())

	// Target 0.2 -> points 0,1; target 3.4 -> points 3,4.
	want := []float64{1.5, 4.5, 15, 45, -1.5, -4.5}
	assert.InDeltaSlice(t, want, out.Values(), 1e-12)
}

func TestApplyShapeContract(t *testing.T) {
	lon, lat := regularAxes(t, 6, 4)
	f, err := NearestNeighbour(lon, lat, Vector(1, 2, 3), Vector(0.5, 1.5),
		WithOutputTopology(TopologyRegular), WithNeighbours(4), WithMethod(MethodInverseDistance))
	require.NoError(t, err)

	tests := []struct {
		name  string
		shape []int
		want  []int
	}{
		{"NoBatch", []int{6, 4}, []int{3, 2}},
		{"OneBatch", []int{5, 6, 4}, []int{5, 3, 2}},
		{"TwoBatch", []int{2, 3, 6, 4}, []int{2, 3, 3, 2}},
		{"EmptyBatch", []int{0, 6, 4}, []int{0, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := 1
			for _, d := range tt.shape {
				n *= d
			}
			field, err := NewDense(make([]float64, n), tt.shape...)
			require.NoError(t, err)

			out, err := f.Apply(field)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Shape())
		})
	}

	t.Run("Mismatch", func(t *testing.T) {
		for _, shape := range [][]int{{4, 6}, {6}, {6, 5}, {2, 6, 3}} {
			n := 1
			for _, d := range shape {
				n *= d
			}
			field, err := NewDense(make([]float64, n), shape...)
			require.NoError(t, err)

			_, err = f.Apply(field)
			require.ErrorIs(t, err, ErrShapeMismatch, "shape %v", shape)

			var sme *ShapeMismatchError
			require.ErrorAs(t, err, &sme)
			assert.Equal(t, []int{6, 4}, sme.Expected)
		}
	})

	t.Run("Nil", func(t *testing.T) {
		_, err := f.Apply(nil)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestApplyWeightedAverage(t *testing.T) {
	lon, lat := regularAxes(t, 5, 5)
	rng := testutil.NewRNG(11)
	field, err := NewDense(rng.Gaussian(25), 5, 5)
	require.NoError(t, err)

	f, err := NearestNeighbour(lon, lat, Vector(1.3, 3.7), Vector(2.2, 0.4),
		WithNeighbours(4), WithMethod(MethodInverseDistance))
	require.NoError(t, err)

	out, err := f.Apply(field)
	require.NoError(t, err)

	m := f.NeighbourMap()
	for i := range m.Len() {
		want := 0.0
		for j, o := range m.Offsets(i) {
			want += field.Values()[o] * m.Weights(i)[j]
		}
		assert.InDelta(t, want, out.Values()[i], 1e-12)
	}
}

func TestApplyLabels(t *testing.T) {
	lon, lat := regularAxes(t, 4, 3)

	t.Run("Unstructured", func(t *testing.T) {
		f, err := NearestNeighbour(lon, lat, Vector(0.1, 2.9), Vector(1.1, 0.2))
		require.NoError(t, err)

		out, err := f.Apply(mustDense(t, 4, 3))
		require.NoError(t, err)
		assert.Equal(t, []string{"cell"}, out.Dims())

		c, ok := out.Coord("lon")
		require.True(t, ok)
		assert.Equal(t, []string{"cell"}, c.Dims)
		assert.Equal(t, []float64{0.1, 2.9}, c.Values)

		c, ok = out.Coord("lat")
		require.True(t, ok)
		assert.Equal(t, []float64{1.1, 0.2}, c.Values)

		gt, _ := out.Attr(AttrGridType)
		assert.Equal(t, GridTypeUnstructured, gt)
		co, _ := out.Attr(AttrCoordinates)
		assert.Equal(t, "lon lat", co)
	})

	t.Run("Regular", func(t *testing.T) {
		f, err := NearestNeighbour(lon, lat, Vector(0.5, 1.5, 2.5), Vector(1),
			WithOutputTopology(TopologyRegular))
		require.NoError(t, err)

		out, err := f.Apply(mustDense(t, 2, 4, 3))
		require.NoError(t, err)
		assert.Equal(t, []string{"dim_0", "lon", "lat"}, out.Dims())
		assert.Equal(t, []int{2, 3, 1}, out.Shape())

		c, ok := out.Coord("lon")
		require.True(t, ok)
		assert.Equal(t, []string{"lon"}, c.Dims)
		assert.Equal(t, []float64{0.5, 1.5, 2.5}, c.Values)

		gt, _ := out.Attr(AttrGridType)
		assert.Equal(t, GridTypeRegular, gt)
		_, ok = out.Attr(AttrCoordinates)
		assert.False(t, ok)
	})

	t.Run("PropagatesBatchLabels", func(t *testing.T) {
		in, err := NewDataArray(make([]float64, 2*4*3), []int{2, 4, 3},
			[]string{"time", "x", "y"},
			map[string]Coord{
				"time": {Dims: []string{"time"}, Values: []float64{0, 6}},
				"x":    {Dims: []string{"x"}, Values: []float64{0, 1, 2, 3}},
			},
			map[string]string{"units": "K", AttrGridType: "curvilinear"},
		)
		require.NoError(t, err)

		f, err := NearestNeighbour(lon, lat, Vector(1), Vector(1))
		require.NoError(t, err)

		out, err := f.Apply(in)
		require.NoError(t, err)
		assert.Equal(t, []string{"time", "cell"}, out.Dims())
		assert.Equal(t, []string{"lat", "lon", "time"}, out.CoordNames())

		c, ok := out.Coord("time")
		require.True(t, ok)
		assert.Equal(t, []float64{0, 6}, c.Values)

		units, _ := out.Attr("units")
		assert.Equal(t, "K", units)
		gt, _ := out.Attr(AttrGridType)
		assert.Equal(t, GridTypeUnstructured, gt)
	})
}

func mustDense(t *testing.T, shape ...int) *Dense {
	t.Helper()
	n := 1
	for _, d := range shape {
		n *= d
	}
	d, err := NewDense(testutil.Arange(n, 0), shape...)
	require.NoError(t, err)
	return d
}

func TestApplyDeterministic(t *testing.T) {
	rng := testutil.NewRNG(5)
	lon, lat := rng.UniformRange(300, 0, 10), rng.UniformRange(300, 0, 10)
	plon, plat := rng.UniformRange(100, 0, 10), rng.UniformRange(100, 0, 10)
	field, err := NewDense(rng.Gaussian(4*300), 4, 300)
	require.NoError(t, err)

	run := func(workers int) []float64 {
		f, err := NearestNeighbour(Vector(lon...), Vector(lat...), Vector(plon...), Vector(plat...),
			WithInputTopology(TopologyUnstructured), WithNeighbours(6),
			WithMethod(MethodInverseDistance), WithWorkers(workers))
		require.NoError(t, err)
		out, err := f.Apply(field)
		require.NoError(t, err)
		return out.Values()
	}

	first := run(1)
	assert.Equal(t, first, run(1))
	assert.Equal(t, first, run(8))
}

func TestApplyConcurrent(t *testing.T) {
	lon, lat := regularAxes(t, 40, 30)
	rng := testutil.NewRNG(17)
	f, err := NearestNeighbour(lon, lat, Vector(rng.UniformRange(500, 0, 39)...), Vector(rng.UniformRange(500, 0, 29)...),
		WithNeighbours(4), WithMethod(MethodInverseDistance))
	require.NoError(t, err)

	fields := make([]*Dense, 8)
	want := make([][]float64, len(fields))
	for i := range fields {
		fields[i], err = NewDense(rng.Gaussian(40*30), 40, 30)
		require.NoError(t, err)
		out, err := f.Apply(fields[i])
		require.NoError(t, err)
		want[i] = out.Values()
	}

	var wg sync.WaitGroup
	got := make([][]float64, len(fields))
	errs := make([]error, len(fields))
	for i := range fields {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := f.Apply(fields[i])
			errs[i] = err
			if err == nil {
				got[i] = out.Values()
			}
		}()
	}
	wg.Wait()

	for i := range fields {
		require.NoError(t, errs[i])
		assert.Equal(t, want[i], got[i])
	}
}

func TestApplyMetrics(t *testing.T) {
	lon, lat := regularAxes(t, 4, 3)
	mc := &BasicMetricsCollector{}
	f, err := NearestNeighbour(lon, lat, Vector(1, 2), Vector(1, 2), WithMetricsCollector(mc))
	require.NoError(t, err)

	_, err = f.Apply(mustDense(t, 5, 4, 3))
	require.NoError(t, err)
	_, err = f.Apply(mustDense(t, 3, 4))
	require.Error(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.ApplyCount)
	assert.Equal(t, int64(1), stats.ApplyErrors)
	assert.Equal(t, int64(10), stats.ApplyValues)
}
