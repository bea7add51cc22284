// Package testutil provides testing utilities for nngrid.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating seeded random coordinates and data
// fields and for computing exact nearest neighbours as ground truth.
//
// # Random Coordinates
//
//	rng := testutil.NewRNG(seed)
//	lon := rng.UniformRange(100, -10, 10)
//	lat := rng.UniformRange(100, 40, 60)
//
// # Exact Search (Ground Truth)
//
//	results := testutil.ExactKNN(lon, lat, 5.0, 50.0, k)
package testutil
