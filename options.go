package nngrid

import (
	"log/slog"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/nngrid/spatial"
)

type options struct {
	input            Topology
	output           Topology
	k                int
	method           Method
	index            spatial.Kind
	mask             *roaring.Bitmap
	workers          int
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures NearestNeighbour.
type Option func(*options)

// WithInputTopology sets the topology of the source grid.
// Default: TopologyRegular.
func WithInputTopology(t Topology) Option {
	return func(o *options) {
		o.input = t
	}
}

// WithOutputTopology sets the topology of the target points. With
// TopologyRegular the target axes are expanded to a lon×lat grid.
// Default: TopologyUnstructured.
func WithOutputTopology(t Topology) Option {
	return func(o *options) {
		o.output = t
	}
}

// WithNeighbours sets the number of nearest source points combined per
// target point. Useful values are 4 or 12 on regular grids and 3 or 6 on
// triangular unstructured grids. Default: 1.
func WithNeighbours(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithMethod sets the weighting method used when k > 1.
// Default: MethodMean.
func WithMethod(m Method) Option {
	return func(o *options) {
		o.method = m
	}
}

// WithIndex selects the spatial index implementation.
// Default: spatial.KindKDTree.
func WithIndex(kind spatial.Kind) Option {
	return func(o *options) {
		o.index = kind
	}
}

// WithMask excludes source points from the index. Bits are flat offsets into
// the source grid (row-major over lon, lat for regular grids). The bitmap is
// cloned.
func WithMask(mask *roaring.Bitmap) Option {
	var m *roaring.Bitmap
	if mask != nil {
		m = mask.Clone()
	}
	return func(o *options) {
		o.mask = m
	}
}

// WithWorkers bounds the number of goroutines used for neighbour queries and
// interpolation. Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMetricsCollector configures a metrics collector for builds and applies.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &nngrid.BasicMetricsCollector{}
//	f, _ := nngrid.NearestNeighbour(lon, lat, plon, plat, nngrid.WithMetricsCollector(metrics))
//	// ... use f ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		input:            TopologyRegular,
		output:           TopologyUnstructured,
		k:                1,
		method:           MethodMean,
		index:            spatial.KindKDTree,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return o
}
