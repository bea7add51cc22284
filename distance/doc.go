// Package distance provides planar distance calculations between coordinate pairs.
//
// Coordinates are treated as points in the (lon, lat) plane and compared in
// coordinate units; no spherical geometry or projection is applied.
//
// # Supported Metrics
//
//   - MetricSquaredL2: squared Euclidean distance (index-internal ordering)
//   - MetricL2: Euclidean distance (reported neighbour distances)
//
// # Usage
//
//	d2 := distance.SquaredL2(distance.Point{X: 1, Y: 2}, distance.Point{X: 4, Y: 6}) // 25
//	d := distance.L2(a, b)                                                       // 5
package distance
