// Package grid provides shape arithmetic for row-major arrays.
//
// Source points are kept in a flat arena; a point on a two-dimensional grid is
// addressed by its flat offset and converted to a (row, col) pair with Unravel
// given the grid's dims. Product builds the "ij" Cartesian expansion of two
// coordinate axes, with the first axis varying slowest.
package grid
