package nngrid

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/viterin/vek"

	"github.com/hupe1980/nngrid/internal/grid"
)

// applyChunkWork is the approximate number of gathered values per worker
// chunk in Apply.
const applyChunkWork = 1 << 14

// Output attributes.
const (
	AttrGridType    = "grid_type"
	AttrCoordinates = "coordinates"

	GridTypeRegular      = "regular_ll"
	GridTypeUnstructured = "unstructured_grid"

	DimLon  = "lon"
	DimLat  = "lat"
	DimCell = "cell"
)

// Interpolator applies a precomputed NeighbourMap to data fields defined on
// the source grid. It is immutable and safe for concurrent use.
type Interpolator struct {
	id               string
	neighbours       *NeighbourMap
	sourceShape      []int
	targetShape      []int
	targetLon        []float64
	targetLat        []float64
	output           Topology
	workers          int
	metricsCollector MetricsCollector
	logger           *Logger
}

// withRuntime returns a shallow copy that shares the NeighbourMap and
// coordinates but applies with the workers, logger and metrics of o.
func (f *Interpolator) withRuntime(o options) *Interpolator {
	g := *f
	g.workers = o.workers
	g.metricsCollector = o.metricsCollector
	g.logger = o.logger.WithID(f.id).WithK(f.neighbours.k).WithMethod(f.neighbours.method)
	return &g
}

// ID returns the unique identifier assigned at build time.
func (f *Interpolator) ID() string { return f.id }

// K returns the number of neighbours per target point.
func (f *Interpolator) K() int { return f.neighbours.k }

// Method returns the weighting method.
func (f *Interpolator) Method() Method { return f.neighbours.method }

// NeighbourMap returns the precomputed mapping.
func (f *Interpolator) NeighbourMap() *NeighbourMap { return f.neighbours }

// InputTopology returns the topology of the source grid.
func (f *Interpolator) InputTopology() Topology { return f.neighbours.layout.topology() }

// OutputTopology returns the topology of the targets.
func (f *Interpolator) OutputTopology() Topology { return f.output }

// SourceShape returns the shape the trailing dimensions of Apply input must have.
func (f *Interpolator) SourceShape() []int { return slices.Clone(f.sourceShape) }

// TargetShape returns the trailing output shape: (lon, lat) or (cell).
func (f *Interpolator) TargetShape() []int { return slices.Clone(f.targetShape) }

// TargetLon returns the target longitude axis.
func (f *Interpolator) TargetLon() []float64 { return slices.Clone(f.targetLon) }

// TargetLat returns the target latitude axis.
func (f *Interpolator) TargetLat() []float64 { return slices.Clone(f.targetLat) }

// Apply interpolates data onto the targets. The trailing dimensions of data
// must equal SourceShape; leading dimensions are batch dimensions and are
// carried through unchanged. If data implements Labeled, its batch dimension
// names, coordinates and attributes are propagated to the result.
func (f *Interpolator) Apply(data Values) (out *DataArray, err error) {
	start := time.Now()
	batch := 0
	defer func() {
		f.metricsCollector.RecordApply(batch, f.neighbours.targets, time.Since(start), err)
		f.logger.LogApply(context.Background(), batch, f.neighbours.targets, err)
	}()

	if data == nil {
		return nil, fmt.Errorf("%w: data must not be nil", ErrShapeMismatch)
	}
	shape := data.Shape()
	if !grid.HasSuffix(shape, f.sourceShape) {
		return nil, &ShapeMismatchError{What: "data", Expected: f.sourceShape, Actual: shape}
	}
	values := data.Values()
	if len(values) != grid.Size(shape) {
		return nil, &ShapeMismatchError{What: "data values", Expected: shape, Actual: []int{len(values)}}
	}

	lead := shape[:len(shape)-len(f.sourceShape)]
	batch = grid.Size(lead)

	result := make([]float64, batch*f.neighbours.targets)
	f.interpolate(values, result, batch)

	outShape := append(slices.Clone(lead), f.targetShape...)
	return f.label(data, result, len(lead), outShape)
}

func (f *Interpolator) interpolate(src, dst []float64, batch int) {
	m := f.neighbours
	k, nt := m.k, m.targets
	nsrc := grid.Size(f.sourceShape)
	minChunk := applyChunkWork / max(batch*k, 1)

	parallelFor(nt, f.workers, minChunk, func(lo, hi int) {
		if k == 1 {
			for b := range batch {
				in, out := src[b*nsrc:(b+1)*nsrc], dst[b*nt:(b+1)*nt]
				for t := lo; t < hi; t++ {
					out[t] = in[m.offsets[t]]
				}
			}
			return
		}

		gathered := make([]float64, k)
		for b := range batch {
			in, out := src[b*nsrc:(b+1)*nsrc], dst[b*nt:(b+1)*nt]
			for t := lo; t < hi; t++ {
				for j, o := range m.offsets[t*k : (t+1)*k] {
					gathered[j] = in[o]
				}
				out[t] = vek.Dot(gathered, m.weights[t*k:(t+1)*k])
			}
		}
	})
}

func (f *Interpolator) label(data Values, result []float64, nlead int, shape []int) (*DataArray, error) {
	dims := make([]string, 0, len(shape))
	coords := make(map[string]Coord)
	attrs := make(map[string]string)

	if l, ok := data.(Labeled); ok && len(l.Dims()) == nlead+len(f.sourceShape) {
		batchDims := l.Dims()[:nlead]
		dims = append(dims, batchDims...)
		for _, name := range batchDims {
			if c, ok := l.Coord(name); ok && onlyOn(c.Dims, batchDims) {
				coords[name] = c
			}
		}
		maps.Copy(attrs, l.Attrs())
	} else {
		for i := range nlead {
			dims = append(dims, fmt.Sprintf("dim_%d", i))
		}
	}

	switch f.output {
	case TopologyRegular:
		dims = append(dims, DimLon, DimLat)
		coords[DimLon] = Coord{Dims: []string{DimLon}, Values: f.targetLon}
		coords[DimLat] = Coord{Dims: []string{DimLat}, Values: f.targetLat}
		delete(attrs, AttrCoordinates)
		attrs[AttrGridType] = GridTypeRegular
	default:
		dims = append(dims, DimCell)
		coords[DimLon] = Coord{Dims: []string{DimCell}, Values: f.targetLon}
		coords[DimLat] = Coord{Dims: []string{DimCell}, Values: f.targetLat}
		attrs[AttrCoordinates] = DimLon + " " + DimLat
		attrs[AttrGridType] = GridTypeUnstructured
	}

	return NewDataArray(result, shape, dims, coords, attrs)
}

func onlyOn(dims, allowed []string) bool {
	for _, d := range dims {
		if !slices.Contains(allowed, d) {
			return false
		}
	}
	return true
}
