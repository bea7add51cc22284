package spatial

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/hupe1980/nngrid/distance"
)

var (
	// ErrEmptyIndex is returned when an index is built from no points.
	ErrEmptyIndex = errors.New("spatial: no points to index")

	// ErrUnsupportedKind is returned for an unknown index kind.
	ErrUnsupportedKind = errors.New("spatial: unsupported index kind")
)

// Kind selects the index implementation.
type Kind int

const (
	KindKDTree Kind = iota
	KindFlat
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindKDTree:
		return "kdtree"
	case KindFlat:
		return "flat"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// ParseKind parses "kdtree" or "flat" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kdtree", "kd-tree", "":
		return KindKDTree, nil
	case "flat", "brute", "bruteforce":
		return KindFlat, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
}

// Point is an indexed source point.
type Point struct {
	X, Y   float64
	Offset int // flat offset of the point in the source grid
}

func (p Point) coord() distance.Point { return distance.Point{X: p.X, Y: p.Y} }

// Neighbour is a search result.
type Neighbour struct {
	// Offset is the flat source offset of the neighbour.
	Offset int

	// Distance is the Euclidean distance to the query point.
	Distance float64
}

// Index answers k-nearest-neighbour queries.
type Index interface {
	// Kind returns the implementation kind.
	Kind() Kind

	// Len returns the number of indexed points.
	Len() int

	// Search returns the k nearest points to q, nearest first.
	Search(q distance.Point, k int) []Neighbour
}

// New builds an index of the given kind. points is not retained.
func New(kind Kind, points []Point) (Index, error) {
	if len(points) == 0 {
		return nil, ErrEmptyIndex
	}
	switch kind {
	case KindKDTree:
		return NewKDTree(points)
	case KindFlat:
		return NewFlat(points)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKind, kind)
	}
}

// compareNeighbours orders by ascending distance, then offset.
func compareNeighbours(a, b Neighbour) int {
	if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
		return c
	}
	return cmp.Compare(a.Offset, b.Offset)
}

// finish sorts squared-distance results and converts them to Euclidean distances.
func finish(res []Neighbour) []Neighbour {
	slices.SortFunc(res, compareNeighbours)
	for i := range res {
		res[i].Distance = math.Sqrt(res[i].Distance)
	}
	return res
}
