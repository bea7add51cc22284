package nngrid

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	lon, lat := regularAxes(t, 4, 3)
	f, err := NearestNeighbour(lon, lat, Vector(1, 2), Vector(1, 2),
		WithLogger(logger), WithNeighbours(2), WithMethod(MethodInverseDistance))
	require.NoError(t, err)

	_, err = f.Apply(mustDense(t, 3, 4, 3))
	require.NoError(t, err)
	_, err = f.Apply(mustDense(t, 2))
	require.Error(t, err)

	out := buf.String()
	require.Contains(t, out, "build completed")
	require.Contains(t, out, `"sources":12`)
	require.Contains(t, out, `"method":"inverse-distance"`)
	require.Contains(t, out, `"interpolator":"`+f.ID()+`"`)
	require.Contains(t, out, "apply completed")
	require.Contains(t, out, `"batch":3`)
	require.Contains(t, out, "apply failed")
}

func TestNoopLogger(t *testing.T) {
	logger := NoopLogger()
	require.False(t, logger.Enabled(t.Context(), slog.LevelError))
}
