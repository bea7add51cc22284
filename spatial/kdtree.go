package spatial

import (
	"slices"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/hupe1980/nngrid/distance"
)

// Compile-time check to ensure KDTree satisfies Index.
var _ Index = (*KDTree)(nil)

// KDTree is a k-d tree over source points.
type KDTree struct {
	tree *kdtree.Tree
	n    int
}

// NewKDTree builds a k-d tree. points is copied before partitioning.
func NewKDTree(points []Point) (*KDTree, error) {
	if len(points) == 0 {
		return nil, ErrEmptyIndex
	}
	pts := make(kdPoints, len(points))
	for i, p := range points {
		pts[i] = kdPoint{Point: p.coord(), offset: p.Offset}
	}
	return &KDTree{
		tree: kdtree.New(pts, false),
		n:    len(pts),
	}, nil
}

func (*KDTree) Kind() Kind { return KindKDTree }

// Len returns the number of indexed points.
func (t *KDTree) Len() int { return t.n }

// Search returns the k nearest points to q.
func (t *KDTree) Search(q distance.Point, k int) []Neighbour {
	if k <= 0 {
		return nil
	}
	k = min(k, t.n)

	qp := kdPoint{Point: q, offset: -1}
	keep := kdtree.NewNKeeper(k)
	t.tree.NearestSet(keep, qp)
	res := collect(keep.Heap, k)

	// Points tied with the k-th distance may have been dropped in traversal
	// order. Collect everything within that radius so ties resolve by offset.
	if len(res) == k {
		within := kdtree.NewDistKeeper(res[k-1].Distance)
		t.tree.NearestSet(within, qp)
		if all := collect(within.Heap, len(within.Heap)); len(all) > k {
			res = all
		}
	}

	res = finish(res)
	return res[:min(k, len(res))]
}

// collect converts keeper entries to neighbours with squared distances.
// Keepers are seeded with a sentinel that carries no point.
func collect(h kdtree.Heap, capacity int) []Neighbour {
	res := make([]Neighbour, 0, capacity)
	for _, c := range h {
		p, ok := c.Comparable.(kdPoint)
		if !ok {
			continue
		}
		res = append(res, Neighbour{Offset: p.offset, Distance: c.Dist})
	}
	// Heap order is arbitrary; Search reads the k-th entry as a radius.
	slices.SortFunc(res, compareNeighbours)
	return res
}

// kdPoint adapts a source point to kdtree.Comparable.
// Distance is squared Euclidean, as the tree's pruning expects.
type kdPoint struct {
	distance.Point
	offset int
}

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	default:
		panic("spatial: illegal dimension")
	}
}

func (kdPoint) Dims() int { return 2 }

func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	return distance.SquaredL2(p.Point, c.(kdPoint).Point)
}

// kdPoints satisfies kdtree.Interface.
type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p kdPoints) Len() int                      { return len(p) }
func (p kdPoints) Pivot(d kdtree.Dim) int        { return kdPlane{Dim: d, kdPoints: p}.Pivot() }
func (p kdPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

// kdPlane sorts points along one dimension for median-of-medians pivoting.
// Ties are broken by offset so the tree shape depends only on the input.
type kdPlane struct {
	kdtree.Dim
	kdPoints
}

func (p kdPlane) Less(i, j int) bool {
	a, b := p.kdPoints[i], p.kdPoints[j]
	var da, db float64
	switch p.Dim {
	case 0:
		da, db = a.X, b.X
	case 1:
		da, db = a.Y, b.Y
	default:
		panic("spatial: illegal dimension")
	}
	if da != db {
		return da < db
	}
	return a.offset < b.offset
}

func (p kdPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.kdPoints = p.kdPoints[start:end]
	return p
}

func (p kdPlane) Swap(i, j int) {
	p.kdPoints[i], p.kdPoints[j] = p.kdPoints[j], p.kdPoints[i]
}
