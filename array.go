package nngrid

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/nngrid/internal/grid"
)

// Values is the positional view of an n-dimensional array stored in
// row-major order. A zero-length shape describes a scalar.
type Values interface {
	Shape() []int
	Values() []float64
}

// Labeled is implemented by arrays that carry dimension names, coordinates
// and attributes. Interpolation propagates these when the input has them.
type Labeled interface {
	Dims() []string
	Coord(name string) (Coord, bool)
	Attrs() map[string]string
}

// Coord is a coordinate variable defined along one or more dimensions.
type Coord struct {
	Dims   []string
	Values []float64
}

func (c Coord) clone() Coord {
	return Coord{Dims: slices.Clone(c.Dims), Values: slices.Clone(c.Values)}
}

// Compile-time checks.
var (
	_ Values  = (*Dense)(nil)
	_ Values  = (*DataArray)(nil)
	_ Labeled = (*DataArray)(nil)
)

// Dense is a plain positional array.
type Dense struct {
	shape []int
	data  []float64
}

// NewDense wraps data (not copied) with the given shape.
func NewDense(data []float64, shape ...int) (*Dense, error) {
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("negative dimension in shape %v", shape)
		}
	}
	if grid.Size(shape) != len(data) {
		return nil, &ShapeMismatchError{What: "array data", Expected: shape, Actual: []int{len(data)}}
	}
	return &Dense{shape: slices.Clone(shape), data: data}, nil
}

// Scalar returns a zero-dimensional array holding v.
func Scalar(v float64) *Dense {
	return &Dense{shape: []int{}, data: []float64{v}}
}

// Vector returns a one-dimensional array holding v (not copied).
func Vector(v ...float64) *Dense {
	return &Dense{shape: []int{len(v)}, data: v}
}

// Matrix returns a rows×cols array over data.
func Matrix(rows, cols int, data []float64) (*Dense, error) {
	return NewDense(data, rows, cols)
}

func (d *Dense) Shape() []int      { return slices.Clone(d.shape) }
func (d *Dense) Values() []float64 { return d.data }

// DataArray is an array with named dimensions, coordinates and attributes.
type DataArray struct {
	shape  []int
	dims   []string
	data   []float64
	coords map[string]Coord
	attrs  map[string]string
}

// NewDataArray creates a labeled array. data is not copied; dims, coords and
// attrs are. Every coordinate must be defined on known dimensions and have a
// matching number of values.
func NewDataArray(data []float64, shape []int, dims []string, coords map[string]Coord, attrs map[string]string) (*DataArray, error) {
	if len(dims) != len(shape) {
		return nil, fmt.Errorf("%d dimension names for %d-dimensional array", len(dims), len(shape))
	}
	if grid.Size(shape) != len(data) {
		return nil, &ShapeMismatchError{What: "array data", Expected: shape, Actual: []int{len(data)}}
	}

	sizes := make(map[string]int, len(dims))
	for i, name := range dims {
		if prev, ok := sizes[name]; ok && prev != shape[i] {
			return nil, fmt.Errorf("dimension %q has conflicting sizes %d and %d", name, prev, shape[i])
		}
		sizes[name] = shape[i]
	}

	cs := make(map[string]Coord, len(coords))
	for name, c := range coords {
		want := make([]int, len(c.Dims))
		for i, d := range c.Dims {
			n, ok := sizes[d]
			if !ok {
				return nil, fmt.Errorf("coordinate %q uses unknown dimension %q", name, d)
			}
			want[i] = n
		}
		if grid.Size(want) != len(c.Values) {
			return nil, &ShapeMismatchError{What: "coordinate " + name, Expected: want, Actual: []int{len(c.Values)}}
		}
		cs[name] = c.clone()
	}

	return &DataArray{
		shape:  slices.Clone(shape),
		dims:   slices.Clone(dims),
		data:   data,
		coords: cs,
		attrs:  maps.Clone(attrs),
	}, nil
}

func (a *DataArray) Shape() []int      { return slices.Clone(a.shape) }
func (a *DataArray) Values() []float64 { return a.data }
func (a *DataArray) Dims() []string    { return slices.Clone(a.dims) }

// Coord returns a copy of the named coordinate.
func (a *DataArray) Coord(name string) (Coord, bool) {
	c, ok := a.coords[name]
	if !ok {
		return Coord{}, false
	}
	return c.clone(), true
}

// CoordNames returns the coordinate names in sorted order.
func (a *DataArray) CoordNames() []string {
	return slices.Sorted(maps.Keys(a.coords))
}

// Attrs returns a copy of the attributes.
func (a *DataArray) Attrs() map[string]string {
	out := maps.Clone(a.attrs)
	if out == nil {
		out = map[string]string{}
	}
	return out
}

// Attr returns a single attribute.
func (a *DataArray) Attr(key string) (string, bool) {
	v, ok := a.attrs[key]
	return v, ok
}

// At returns the element at the given per-axis index.
func (a *DataArray) At(idx ...int) (float64, error) {
	off := grid.Ravel(idx, a.shape)
	if off < 0 {
		return 0, fmt.Errorf("index %v out of range for shape %v", idx, a.shape)
	}
	return a.data[off], nil
}
