// Package spatial provides nearest-neighbour indexes over planar source points.
//
// Two index kinds are available:
//
//   - KindKDTree: a k-d tree (gonum spatial/kdtree) built with median-of-medians
//     pivoting; the default for interpolation.
//   - KindFlat: an exact linear scan with a bounded max-heap; useful for small
//     grids and as ground truth.
//
// # Index Interface
//
//	type Index interface {
//	    Kind() Kind
//	    Len() int
//	    Search(q distance.Point, k int) []Neighbour
//	}
//
// Search returns at most k neighbours ordered by ascending Euclidean distance,
// with equal distances ordered by source offset. Indexes are immutable after
// construction and safe for concurrent searches.
package spatial
