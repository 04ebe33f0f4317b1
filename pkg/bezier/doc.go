// Package bezier implements degree-N triangular Bézier patches and
// Bézier curves in three dimensions.
//
// A degree-N patch stores T(N) = (N+1)(N+2)/2 control points for the
// barycentric multi-indices (i, j, k) with i+j+k = N. Points are stored
// row by row starting at the j = N corner: row r holds the points with
// j = N-r, and within a row k runs from 0 to r. [To1D] and [From1D]
// convert between the two addressing schemes.
//
// Evaluation uses De Casteljau subdivision: the patch is reduced to a
// degree-1 micro-triangle at the parameter, from which the position and
// the unit normal are taken. Patches and curves are values; every
// operation returns a new value and never mutates its receiver.
package bezier
