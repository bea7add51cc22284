package nngrid

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is the number of Interpolators kept by NewCache when no
// positive size is given.
const DefaultCacheSize = 16

// Cache memoises Interpolators keyed by a fingerprint of the coordinates and
// the build configuration. Concurrent requests for the same key share one
// build. Failed builds are not cached.
//
// Keys are 64-bit xxhash digests; distinct inputs that collide share an entry.
type Cache struct {
	lru    *lru.Cache[uint64, *Interpolator]
	group  singleflight.Group
	logger *Logger
}

type cacheOptions struct {
	logger *Logger
}

// CacheOption configures a Cache.
type CacheOption func(*cacheOptions)

// WithCacheLogger logs evictions at debug level.
func WithCacheLogger(logger *Logger) CacheOption {
	return func(o *cacheOptions) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// NewCache creates a Cache holding at most size Interpolators.
func NewCache(size int, opts ...CacheOption) (*Cache, error) {
	o := cacheOptions{logger: NoopLogger()}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if size <= 0 {
		size = DefaultCacheSize
	}

	c := &Cache{logger: o.logger}
	l, err := lru.NewWithEvict[uint64, *Interpolator](size, c.handleEviction)
	if err != nil {
		return nil, err
	}
	c.lru = l
	return c, nil
}

func (c *Cache) handleEviction(_ uint64, f *Interpolator) {
	c.logger.Debug("interpolator evicted", "id", f.ID())
}

// NearestNeighbour returns an Interpolator sharing the cached NeighbourMap for
// the inputs, building it with the package-level NearestNeighbour on a miss.
// The returned Interpolator uses this call's workers, logger and metrics
// collector.
func (c *Cache) NearestNeighbour(srcLon, srcLat, tgtLon, tgtLat Values, opts ...Option) (*Interpolator, error) {
	o := applyOptions(opts)
	if err := validate(o); err != nil {
		return nil, err
	}
	if srcLon == nil || srcLat == nil || tgtLon == nil || tgtLat == nil {
		return build(srcLon, srcLat, tgtLon, tgtLat, o)
	}

	key := fingerprint(o, srcLon, srcLat, tgtLon, tgtLat)
	if f, ok := c.lru.Get(key); ok {
		return f.withRuntime(o), nil
	}

	v, err, _ := c.group.Do(strconv.FormatUint(key, 16), func() (any, error) {
		if f, ok := c.lru.Get(key); ok {
			return f, nil
		}
		f, err := build(srcLon, srcLat, tgtLon, tgtLat, o)
		if err != nil {
			return nil, err
		}
		c.lru.Add(key, f)
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Interpolator).withRuntime(o), nil
}

// Len returns the number of cached Interpolators.
func (c *Cache) Len() int { return c.lru.Len() }

// Purge removes all cached Interpolators.
func (c *Cache) Purge() { c.lru.Purge() }

// fingerprint hashes everything that determines the NeighbourMap. Workers,
// logger and metrics do not affect the result and are excluded.
func fingerprint(o options, arrays ...Values) uint64 {
	d := xxhash.New()
	var buf [8]byte

	putInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = d.Write(buf[:])
	}

	putInt(int(o.input))
	putInt(int(o.output))
	putInt(o.k)
	putInt(int(o.method))
	putInt(int(o.index))

	if o.mask != nil && !o.mask.IsEmpty() {
		putInt(int(o.mask.GetCardinality()))
		it := o.mask.Iterator()
		for it.HasNext() {
			putInt(int(it.Next()))
		}
	} else {
		putInt(0)
	}

	for _, a := range arrays {
		shape := a.Shape()
		putInt(len(shape))
		for _, n := range shape {
			putInt(n)
		}
		values := a.Values()
		putInt(len(values))
		for _, v := range values {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = d.Write(buf[:])
		}
	}
	return d.Sum64()
}
