package nngrid

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedTopology is returned for a grid topology other than
	// regular or unstructured.
	ErrUnsupportedTopology = errors.New("unsupported topology")

	// ErrUnsupportedMethod is returned for an unknown weighting method.
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrInvalidK is returned when the neighbour count is not positive or
	// exceeds the number of indexed source points.
	ErrInvalidK = errors.New("invalid number of neighbours")

	// ErrEmptyGrid is returned when the source grid has no points to index.
	ErrEmptyGrid = errors.New("empty source grid")

	// ErrShapeMismatch is matched by every *ShapeMismatchError via errors.Is.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrDimensionality is matched by every *DimensionalityError via errors.Is.
	ErrDimensionality = errors.New("unsupported dimensionality")
)

// ShapeMismatchError indicates inconsistent coordinate shapes, or a data
// array whose trailing dimensions do not match the source grid.
type ShapeMismatchError struct {
	// What names the offending input, e.g. "source lat" or "data".
	What     string
	Expected []int
	Actual   []int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch for %s: expected %v, got %v", e.What, e.Expected, e.Actual)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// DimensionalityError indicates a coordinate array with more dimensions than
// its role allows.
type DimensionalityError struct {
	What    string
	NDim    int
	MaxNDim int
}

func (e *DimensionalityError) Error() string {
	return fmt.Sprintf("%s has %d dimensions, at most %d supported", e.What, e.NDim, e.MaxNDim)
}

// Is reports whether target is ErrDimensionality.
func (e *DimensionalityError) Is(target error) bool { return target == ErrDimensionality }
