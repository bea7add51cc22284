package nngrid

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	t.Run("ShapeMismatch", func(t *testing.T) {
		var err error = &ShapeMismatchError{What: "source lat", Expected: []int{10, 15}, Actual: []int{10, 14}}
		assert.EqualError(t, err, "shape mismatch for source lat: expected [10 15], got [10 14]")
		assert.ErrorIs(t, err, ErrShapeMismatch)
		assert.NotErrorIs(t, err, ErrDimensionality)

		wrapped := fmt.Errorf("build: %w", err)
		var sme *ShapeMismatchError
		assert.True(t, errors.As(wrapped, &sme))
		assert.Equal(t, []int{10, 14}, sme.Actual)
	})

	t.Run("Dimensionality", func(t *testing.T) {
		var err error = &DimensionalityError{What: "source lon", NDim: 3, MaxNDim: 2}
		assert.EqualError(t, err, "source lon has 3 dimensions, at most 2 supported")
		assert.ErrorIs(t, err, ErrDimensionality)
		assert.NotErrorIs(t, err, ErrShapeMismatch)
	})
}
