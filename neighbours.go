package nngrid

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/nngrid/distance"
	"github.com/hupe1980/nngrid/spatial"
)

// minQueryChunk is the smallest number of targets handed to a query worker.
const minQueryChunk = 256

// NeighbourMap is the precomputed target-to-source mapping. For every target
// point it stores the flat offsets of its k nearest source points (nearest
// first), their distances and normalized weights. It is immutable.
type NeighbourMap struct {
	k         int
	targets   int
	offsets   []int     // targets*k
	distances []float64 // targets*k
	weights   []float64 // targets*k; nil when k == 1
	spacing   float64
	method    Method
	layout    sourceLayout
}

func newNeighbourMap(idx spatial.Index, x, y []float64, layout sourceLayout, k int, method Method, spacing float64, workers int) *NeighbourMap {
	n := len(x)
	m := &NeighbourMap{
		k:         k,
		targets:   n,
		offsets:   make([]int, n*k),
		distances: make([]float64, n*k),
		spacing:   spacing,
		method:    method,
		layout:    layout,
	}

	parallelFor(n, workers, minQueryChunk, func(lo, hi int) {
		for t := lo; t < hi; t++ {
			res := idx.Search(distance.Point{X: x[t], Y: y[t]}, k)
			for j, r := range res {
				m.offsets[t*k+j] = r.Offset
				m.distances[t*k+j] = r.Distance
			}
		}
	})

	if k > 1 {
		switch method {
		case MethodInverseDistance:
			m.weights = inverseDistanceWeights(m.distances, k, spacing)
		default:
			m.weights = meanWeights(n, k)
		}
	}
	return m
}

// K returns the number of neighbours per target point.
func (m *NeighbourMap) K() int { return m.k }

// Len returns the number of target points.
func (m *NeighbourMap) Len() int { return m.targets }

// Method returns the weighting method.
func (m *NeighbourMap) Method() Method { return m.method }

// Spacing returns the characteristic source spacing used as the distance
// floor for inverse-distance weights.
func (m *NeighbourMap) Spacing() float64 { return m.spacing }

// Offsets returns the flat source offsets of target t, nearest first.
func (m *NeighbourMap) Offsets(t int) []int {
	if t < 0 || t >= m.targets {
		return nil
	}
	return slices.Clone(m.offsets[t*m.k : (t+1)*m.k])
}

// Distances returns the Euclidean distances from target t to its neighbours.
func (m *NeighbourMap) Distances(t int) []float64 {
	if t < 0 || t >= m.targets {
		return nil
	}
	return slices.Clone(m.distances[t*m.k : (t+1)*m.k])
}

// Weights returns the normalized weights of target t. With k == 1 the single
// neighbour is selected with weight 1.
func (m *NeighbourMap) Weights(t int) []float64 {
	if t < 0 || t >= m.targets {
		return nil
	}
	if m.weights == nil {
		return []float64{1}
	}
	return slices.Clone(m.weights[t*m.k : (t+1)*m.k])
}

// SourceIndex returns the grid indices of the j-th neighbour of target t:
// (lon, lat) for a regular source, (cell) for an unstructured one.
func (m *NeighbourMap) SourceIndex(t, j int) []int {
	if t < 0 || t >= m.targets || j < 0 || j >= m.k {
		return nil
	}
	return m.layout.unravel(m.offsets[t*m.k+j])
}

func meanWeights(n, k int) []float64 {
	w := make([]float64, n*k)
	for i := range w {
		w[i] = 1 / float64(k)
	}
	return w
}

// inverseDistanceWeights computes 1/max(d, spacing/2)^2 per neighbour,
// normalized per target. When the floor is zero and a neighbour coincides
// with the target, the coincident neighbours share the weight.
func inverseDistanceWeights(dist []float64, k int, spacing float64) []float64 {
	floor := spacing / 2
	w := make([]float64, len(dist))
	for t := 0; t < len(dist)/k; t++ {
		row := w[t*k : (t+1)*k]
		drow := dist[t*k : (t+1)*k]

		coincident := false
		for j, d := range drow {
			d = math.Max(d, floor)
			if d == 0 {
				coincident = true
				break
			}
			row[j] = 1 / (d * d)
		}
		if coincident {
			for j, d := range drow {
				row[j] = 0
				if d == 0 {
					row[j] = 1
				}
			}
		}
		floats.Scale(1/floats.Sum(row), row)
	}
	return w
}

// characteristicSpacing averages the distance from the first, middle and last
// indexed point to its nearest other point. It is zero for fewer than two
// points.
func characteristicSpacing(idx spatial.Index, points []spatial.Point) float64 {
	if len(points) < 2 {
		return 0
	}
	samples := []int{0, len(points) / 2, len(points) - 1}
	d := make([]float64, len(samples))
	for i, s := range samples {
		res := idx.Search(distance.Point{X: points[s].X, Y: points[s].Y}, 2)
		d[i] = res[1].Distance
	}
	return stat.Mean(d, nil)
}
