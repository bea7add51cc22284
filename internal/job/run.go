package job

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/nngrid"
	"github.com/hupe1980/nngrid/internal/resource"
	"github.com/hupe1980/nngrid/spatial"
)

// Result is the outcome of a run.
type Result struct {
	// ID is the ID of the Interpolator that produced Array.
	ID    string
	Array *nngrid.DataArray
}

// Runner runs jobs. It is safe for concurrent use.
type Runner struct {
	cache            *nngrid.Cache
	rc               *resource.Controller
	workers          int
	logger           *nngrid.Logger
	metricsCollector nngrid.MetricsCollector
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCache builds Interpolators through c so jobs sharing grids and
// configuration reuse one index.
func WithCache(c *nngrid.Cache) RunnerOption {
	return func(r *Runner) { r.cache = c }
}

// WithController bounds job concurrency and memory with rc.
func WithController(rc *resource.Controller) RunnerOption {
	return func(r *Runner) { r.rc = rc }
}

// WithWorkers sets the per-job worker count. 0 uses GOMAXPROCS.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) { r.workers = n }
}

// WithLogger sets the logger passed to builds.
func WithLogger(logger *nngrid.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// WithMetricsCollector sets the collector passed to builds.
func WithMetricsCollector(mc nngrid.MetricsCollector) RunnerOption {
	return func(r *Runner) { r.metricsCollector = mc }
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, fn := range opts {
		fn(r)
	}
	if r.logger == nil {
		r.logger = nngrid.NoopLogger()
	}
	return r
}

// Run builds an Interpolator for j and applies it to the job's data.
func (r *Runner) Run(ctx context.Context, j *Job) (*Result, error) {
	if err := r.rc.AcquireJob(ctx); err != nil {
		return nil, err
	}
	defer r.rc.ReleaseJob()

	opts, topo, err := r.options(j)
	if err != nil {
		return nil, err
	}

	footprint := j.footprint(topo)
	if err := r.rc.AcquireMemory(footprint); err != nil {
		return nil, fmt.Errorf("%s: %w", j.Name, err)
	}
	defer r.rc.ReleaseMemory(footprint)

	srcLon, srcLat, err := j.Source.arrays()
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	tgtLon, tgtLat, err := j.Target.arrays()
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	data, err := j.Data.array()
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var interp *nngrid.Interpolator
	if r.cache != nil {
		interp, err = r.cache.NearestNeighbour(srcLon, srcLat, tgtLon, tgtLat, opts...)
	} else {
		interp, err = nngrid.NearestNeighbour(srcLon, srcLat, tgtLon, tgtLat, opts...)
	}
	if err != nil {
		return nil, err
	}

	out, err := interp.Apply(data)
	if err != nil {
		return nil, err
	}
	return &Result{ID: interp.ID(), Array: out}, nil
}

// topologies holds the resolved input and output topologies of a job.
type topologies struct {
	input, output nngrid.Topology
}

func (r *Runner) options(j *Job) ([]nngrid.Option, topologies, error) {
	topo := topologies{input: nngrid.TopologyRegular, output: nngrid.TopologyUnstructured}
	opts := []nngrid.Option{
		nngrid.WithWorkers(r.workers),
		nngrid.WithLogger(r.logger),
	}
	if r.metricsCollector != nil {
		opts = append(opts, nngrid.WithMetricsCollector(r.metricsCollector))
	}
	if j.Source.Topology != "" {
		t, err := nngrid.ParseTopology(j.Source.Topology)
		if err != nil {
			return nil, topo, fmt.Errorf("source: %w", err)
		}
		topo.input = t
		opts = append(opts, nngrid.WithInputTopology(t))
	}
	if j.Target.Topology != "" {
		t, err := nngrid.ParseTopology(j.Target.Topology)
		if err != nil {
			return nil, topo, fmt.Errorf("target: %w", err)
		}
		topo.output = t
		opts = append(opts, nngrid.WithOutputTopology(t))
	}
	if j.Neighbours > 0 {
		opts = append(opts, nngrid.WithNeighbours(j.Neighbours))
	}
	if j.Method != "" {
		m, err := nngrid.ParseMethod(j.Method)
		if err != nil {
			return nil, topo, err
		}
		opts = append(opts, nngrid.WithMethod(m))
	}
	if j.Index != "" {
		kind, err := spatial.ParseKind(j.Index)
		if err != nil {
			return nil, topo, err
		}
		opts = append(opts, nngrid.WithIndex(kind))
	}
	if len(j.Mask) > 0 {
		opts = append(opts, nngrid.WithMask(roaring.BitmapOf(j.Mask...)))
	}
	return opts, topo, nil
}

// footprint estimates the bytes a run holds: coordinates, the neighbour map
// and the input and output fields.
func (j *Job) footprint(topo topologies) int64 {
	src := int64(len(j.Source.Lon))
	if len(j.Source.Shape) == 0 && topo.input == nngrid.TopologyRegular {
		src *= int64(len(j.Source.Lat))
	}
	tgt := int64(len(j.Target.Lon))
	if topo.output == nngrid.TopologyRegular {
		tgt *= int64(len(j.Target.Lat))
	}
	k := int64(max(j.Neighbours, 1))
	values := int64(len(j.Data.Values))
	batch := int64(1)
	if src > 0 {
		batch = max(values/src, 1)
	}
	return 8 * (4*src + 3*k*tgt + values + batch*tgt)
}

func (g Grid) arrays() (nngrid.Values, nngrid.Values, error) {
	if len(g.Shape) == 0 {
		return nngrid.Vector(g.Lon...), nngrid.Vector(g.Lat...), nil
	}
	lon, err := nngrid.NewDense(g.Lon, g.Shape...)
	if err != nil {
		return nil, nil, fmt.Errorf("lon: %w", err)
	}
	lat, err := nngrid.NewDense(g.Lat, g.Shape...)
	if err != nil {
		return nil, nil, fmt.Errorf("lat: %w", err)
	}
	return lon, lat, nil
}

func (f Field) array() (nngrid.Values, error) {
	shape := f.Shape
	if shape == nil {
		shape = []int{len(f.Values)}
	}
	if len(f.Dims) == 0 {
		return nngrid.NewDense(f.Values, shape...)
	}
	return nngrid.NewDataArray(f.Values, shape, f.Dims, nil, nil)
}
