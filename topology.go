package nngrid

import (
	"fmt"
	"strings"

	"github.com/hupe1980/nngrid/internal/grid"
)

// Topology describes how grid points are addressed.
type Topology int

const (
	// TopologyRegular addresses points by a (lon, lat) index pair.
	TopologyRegular Topology = iota
	// TopologyUnstructured addresses points by a single index.
	TopologyUnstructured
)

// String returns a string representation of the Topology.
func (t Topology) String() string {
	switch t {
	case TopologyRegular:
		return "regular"
	case TopologyUnstructured:
		return "unstructured"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

func (t Topology) valid() bool {
	return t == TopologyRegular || t == TopologyUnstructured
}

// ParseTopology parses "regular" or "unstructured" (case-insensitive).
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regular":
		return TopologyRegular, nil
	case "unstructured":
		return TopologyUnstructured, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedTopology, s)
	}
}

// Method selects how neighbour values are combined.
type Method int

const (
	// MethodMean gives every neighbour the weight 1/k.
	MethodMean Method = iota
	// MethodInverseDistance weights neighbours by 1/d², with d floored at
	// half the characteristic grid spacing, normalised to sum to one.
	MethodInverseDistance
)

// String returns a string representation of the Method.
func (m Method) String() string {
	switch m {
	case MethodMean:
		return "mean"
	case MethodInverseDistance:
		return "inverse-distance"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

func (m Method) valid() bool {
	return m == MethodMean || m == MethodInverseDistance
}

// ParseMethod parses "mean", "inverse-distance" or its alias "d-mean".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mean":
		return MethodMean, nil
	case "inverse-distance", "d-mean":
		return MethodInverseDistance, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
	}
}

// sourceLayout maps flat source offsets back to grid indices. It is chosen
// once at build time from the input topology.
type sourceLayout interface {
	topology() Topology
	dims() []int
	unravel(offset int) []int
}

type unstructuredLayout struct {
	n int
}

func (unstructuredLayout) topology() Topology { return TopologyUnstructured }
func (l unstructuredLayout) dims() []int      { return []int{l.n} }

func (l unstructuredLayout) unravel(offset int) []int {
	if offset < 0 || offset >= l.n {
		return nil
	}
	return []int{offset}
}

type regularLayout struct {
	nlon, nlat int
}

func (regularLayout) topology() Topology { return TopologyRegular }
func (l regularLayout) dims() []int      { return []int{l.nlon, l.nlat} }

func (l regularLayout) unravel(offset int) []int {
	return grid.Unravel(offset, l.dims())
}
