package nngrid

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"

	"github.com/hupe1980/nngrid/internal/grid"
	"github.com/hupe1980/nngrid/spatial"
)

// NearestNeighbour builds an Interpolator from source coordinates
// (srcLon, srcLat) to target coordinates (tgtLon, tgtLat).
//
// For a regular source the coordinates are either two 1-D axes, expanded to
// a lon×lat grid, or two 2-D arrays of identical shape. An unstructured
// source takes two 1-D arrays of equal length. Targets are 1-D; with
// TopologyRegular output they are expanded to a lon×lat grid, otherwise they
// are paired element-wise. Scalars are treated as length-1 axes.
//
// All validation happens here; the returned Interpolator is immutable and
// safe for concurrent use.
//
// Example:
//
//	f, err := nngrid.NearestNeighbour(lon, lat, plon, plat,
//	    nngrid.WithNeighbours(4),
//	    nngrid.WithMethod(nngrid.MethodInverseDistance),
//	)
//	out, err := f.Apply(field)
func NearestNeighbour(srcLon, srcLat, tgtLon, tgtLat Values, opts ...Option) (*Interpolator, error) {
	o := applyOptions(opts)
	return build(srcLon, srcLat, tgtLon, tgtLat, o)
}

func build(srcLon, srcLat, tgtLon, tgtLat Values, o options) (f *Interpolator, err error) {
	start := time.Now()
	id := uuid.NewString()
	logger := o.logger.WithID(id).WithK(o.k).WithMethod(o.method)

	var (
		sources, targets int
		spacing          float64
	)
	defer func() {
		o.metricsCollector.RecordBuild(targets, o.k, time.Since(start), err)
		logger.LogBuild(context.Background(), sources, targets, spacing, err)
	}()

	if err := validate(o); err != nil {
		return nil, err
	}

	src, err := newSourceGrid(srcLon, srcLat, o.input)
	if err != nil {
		return nil, err
	}

	tgt, err := newTargetPoints(tgtLon, tgtLat, o.output)
	if err != nil {
		return nil, err
	}
	targets = len(tgt.x)

	points, err := src.points(o.mask)
	if err != nil {
		return nil, err
	}
	sources = len(points)
	if sources == 0 {
		return nil, ErrEmptyGrid
	}
	if o.k > sources {
		return nil, fmt.Errorf("%w: %d neighbours requested, %d source points indexed", ErrInvalidK, o.k, sources)
	}

	idx, err := spatial.New(o.index, points)
	if err != nil {
		return nil, err
	}
	spacing = characteristicSpacing(idx, points)

	nm := newNeighbourMap(idx, tgt.x, tgt.y, src.layout, o.k, o.method, spacing, o.workers)

	return &Interpolator{
		id:               id,
		neighbours:       nm,
		sourceShape:      src.layout.dims(),
		targetShape:      tgt.shape,
		targetLon:        tgt.lon,
		targetLat:        tgt.lat,
		output:           o.output,
		workers:          o.workers,
		metricsCollector: o.metricsCollector,
		logger:           logger,
	}, nil
}

func validate(o options) error {
	if !o.input.valid() {
		return fmt.Errorf("%w: input %v", ErrUnsupportedTopology, o.input)
	}
	if !o.output.valid() {
		return fmt.Errorf("%w: output %v", ErrUnsupportedTopology, o.output)
	}
	if !o.method.valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedMethod, o.method)
	}
	if o.k < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidK, o.k)
	}
	return nil
}

// sourceGrid holds flattened source coordinates in row-major order.
type sourceGrid struct {
	lon, lat []float64
	layout   sourceLayout
}

func newSourceGrid(lonV, latV Values, topo Topology) (*sourceGrid, error) {
	if lonV == nil || latV == nil {
		return nil, fmt.Errorf("%w: source coordinates must not be nil", ErrEmptyGrid)
	}
	ls, as := promote(lonV.Shape()), promote(latV.Shape())
	if len(ls) > 2 {
		return nil, &DimensionalityError{What: "source lon", NDim: len(ls), MaxNDim: 2}
	}
	if len(as) > 2 {
		return nil, &DimensionalityError{What: "source lat", NDim: len(as), MaxNDim: 2}
	}

	switch topo {
	case TopologyRegular:
		switch {
		case len(ls) == 1 && len(as) == 1:
			lon, lat := grid.Product(lonV.Values(), latV.Values())
			return &sourceGrid{lon: lon, lat: lat, layout: regularLayout{nlon: ls[0], nlat: as[0]}}, nil
		case len(ls) == 2 && grid.Equal(ls, as):
			return &sourceGrid{
				lon:    slices.Clone(lonV.Values()),
				lat:    slices.Clone(latV.Values()),
				layout: regularLayout{nlon: ls[0], nlat: ls[1]},
			}, nil
		default:
			return nil, &ShapeMismatchError{What: "source lat", Expected: ls, Actual: as}
		}
	case TopologyUnstructured:
		if len(ls) != 1 {
			return nil, &DimensionalityError{What: "source lon", NDim: len(ls), MaxNDim: 1}
		}
		if len(as) != 1 {
			return nil, &DimensionalityError{What: "source lat", NDim: len(as), MaxNDim: 1}
		}
		if ls[0] != as[0] {
			return nil, &ShapeMismatchError{What: "source lat", Expected: ls, Actual: as}
		}
		return &sourceGrid{
			lon:    slices.Clone(lonV.Values()),
			lat:    slices.Clone(latV.Values()),
			layout: unstructuredLayout{n: ls[0]},
		}, nil
	default:
		return nil, fmt.Errorf("%w: input %v", ErrUnsupportedTopology, topo)
	}
}

// points returns the source points not excluded by mask.
func (g *sourceGrid) points(mask *roaring.Bitmap) ([]spatial.Point, error) {
	n := len(g.lon)
	excluded := 0
	if mask != nil && !mask.IsEmpty() {
		if last := int(mask.Maximum()); last >= n {
			return nil, &ShapeMismatchError{What: "mask", Expected: []int{n}, Actual: []int{last + 1}}
		}
		excluded = int(mask.GetCardinality())
	}

	pts := make([]spatial.Point, 0, n-excluded)
	for i := range n {
		if excluded > 0 && mask.Contains(uint32(i)) {
			continue
		}
		pts = append(pts, spatial.Point{X: g.lon[i], Y: g.lat[i], Offset: i})
	}
	return pts, nil
}

// targetPoints holds the target axes and the flattened query points.
type targetPoints struct {
	lon, lat []float64
	x, y     []float64
	shape    []int
}

func newTargetPoints(lonV, latV Values, topo Topology) (*targetPoints, error) {
	if lonV == nil || latV == nil {
		return nil, fmt.Errorf("%w: target coordinates must not be nil", ErrShapeMismatch)
	}
	ls, as := promote(lonV.Shape()), promote(latV.Shape())
	if len(ls) > 1 {
		return nil, &DimensionalityError{What: "target lon", NDim: len(ls), MaxNDim: 1}
	}
	if len(as) > 1 {
		return nil, &DimensionalityError{What: "target lat", NDim: len(as), MaxNDim: 1}
	}

	t := &targetPoints{
		lon: slices.Clone(lonV.Values()),
		lat: slices.Clone(latV.Values()),
	}
	switch topo {
	case TopologyRegular:
		t.x, t.y = grid.Product(t.lon, t.lat)
		t.shape = []int{len(t.lon), len(t.lat)}
	case TopologyUnstructured:
		if len(t.lon) != len(t.lat) {
			return nil, &ShapeMismatchError{What: "target lat", Expected: ls, Actual: as}
		}
		t.x, t.y = t.lon, t.lat
		t.shape = []int{len(t.lon)}
	default:
		return nil, fmt.Errorf("%w: output %v", ErrUnsupportedTopology, topo)
	}
	return t, nil
}

// promote treats a scalar as a length-1 axis.
func promote(shape []int) []int {
	if len(shape) == 0 {
		return []int{1}
	}
	return shape
}
