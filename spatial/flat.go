package spatial

import (
	"slices"

	"github.com/hupe1980/nngrid/distance"
	"github.com/hupe1980/nngrid/internal/queue"
)

// Compile-time check to ensure Flat satisfies Index.
var _ Index = (*Flat)(nil)

// Flat is an exact index that scans every point per query.
type Flat struct {
	points []Point
}

// NewFlat builds a flat index over a copy of points.
func NewFlat(points []Point) (*Flat, error) {
	if len(points) == 0 {
		return nil, ErrEmptyIndex
	}
	return &Flat{points: slices.Clone(points)}, nil
}

func (*Flat) Kind() Kind { return KindFlat }

// Len returns the number of indexed points.
func (f *Flat) Len() int { return len(f.points) }

// Search returns the k nearest points to q.
func (f *Flat) Search(q distance.Point, k int) []Neighbour {
	if k <= 0 {
		return nil
	}
	k = min(k, len(f.points))

	pq := queue.NewMax(k)
	for _, p := range f.points {
		pq.PushItemBounded(queue.Item{
			Offset:   p.Offset,
			Distance: distance.SquaredL2(q, p.coord()),
		}, k)
	}

	items := pq.DrainAscending()
	res := make([]Neighbour, len(items))
	for i, it := range items {
		res[i] = Neighbour{Offset: it.Offset, Distance: it.Distance}
	}
	return finish(res)
}
