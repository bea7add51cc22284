// Package nngrid interpolates gridded and scattered fields by nearest
// neighbours.
//
// An Interpolator is built once from source and target coordinates. Building
// indexes the source points, finds the k nearest source points of every target
// point and precomputes their weights. The Interpolator can then be applied to
// any number of fields on the same source grid.
//
// # Quick Start
//
// Regular source grid to scattered points:
//
//	lon := nngrid.Vector(0, 1, 2, 3)        // source longitude axis
//	lat := nngrid.Vector(50, 51, 52)        // source latitude axis
//	f, _ := nngrid.NearestNeighbour(lon, lat, nngrid.Vector(1.2), nngrid.Vector(50.7))
//
//	field, _ := nngrid.Matrix(4, 3, values) // shape (lon, lat)
//	out, _ := f.Apply(field)                // shape (1), dim "cell"
//
// Unstructured source to a regular target grid, averaging 4 neighbours by
// inverse distance:
//
//	f, _ := nngrid.NearestNeighbour(lon, lat, plon, plat,
//	    nngrid.WithInputTopology(nngrid.TopologyUnstructured),
//	    nngrid.WithOutputTopology(nngrid.TopologyRegular),
//	    nngrid.WithNeighbours(4),
//	    nngrid.WithMethod(nngrid.MethodInverseDistance),
//	)
//
// # Batch Dimensions
//
// Apply accepts arrays whose trailing dimensions equal SourceShape. Leading
// dimensions such as time or level pass through unchanged:
//
//	// data shape (time, lon, lat) -> result shape (time, cell)
//	out, _ := f.Apply(data)
//
// If the input implements Labeled, its batch dimension names, coordinates and
// attributes carry over to the result.
//
// # Weighting
//
// MethodMean gives each of the k neighbours weight 1/k. MethodInverseDistance
// weights by 1/d², with d floored at half the characteristic spacing of the
// source grid, and normalizes the weights to sum to one.
//
// # Concurrency
//
// Interpolators are immutable. Apply may be called from any number of
// goroutines. Neighbour queries and Apply split targets across up to
// WithWorkers goroutines.
//
// # Caching
//
// Cache memoises Interpolators for repeated builds with identical inputs.
package nngrid
