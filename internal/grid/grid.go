package grid

import "slices"

// Size returns the number of elements of an array with the given shape.
// A zero-length shape describes a scalar and has size 1.
func Size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Equal reports whether two shapes are identical.
func Equal(a, b []int) bool {
	return slices.Equal(a, b)
}

// HasSuffix reports whether shape ends with suffix.
func HasSuffix(shape, suffix []int) bool {
	if len(suffix) > len(shape) {
		return false
	}
	return slices.Equal(shape[len(shape)-len(suffix):], suffix)
}

// Unravel converts a flat row-major offset into per-axis indices for dims.
// It returns nil when offset is out of range.
func Unravel(offset int, dims []int) []int {
	if offset < 0 || offset >= Size(dims) {
		return nil
	}
	idx := make([]int, len(dims))
	for i := len(dims) - 1; i >= 0; i-- {
		idx[i] = offset % dims[i]
		offset /= dims[i]
	}
	return idx
}

// Ravel converts per-axis indices into a flat row-major offset for dims.
// It returns -1 when the indices do not address an element of dims.
func Ravel(idx, dims []int) int {
	if len(idx) != len(dims) {
		return -1
	}
	offset := 0
	for i, d := range dims {
		if idx[i] < 0 || idx[i] >= d {
			return -1
		}
		offset = offset*d + idx[i]
	}
	return offset
}

// Product expands two axes into flattened coordinate arrays of length
// len(a)*len(b) with "ij" indexing: element (i, j) sits at offset i*len(b)+j
// and holds (a[i], b[j]).
func Product(a, b []float64) (pa, pb []float64) {
	pa = make([]float64, 0, len(a)*len(b))
	pb = make([]float64, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			pa = append(pa, x)
			pb = append(pb, y)
		}
	}
	return pa, pb
}
