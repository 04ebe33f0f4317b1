package bezier

import "math"

// rowEpsilon is subtracted from the floating-point triangular-number
// inverse before truncation. Without it, offsets at the end of a row
// land exactly on the next integer and are assigned to the wrong row.
const rowEpsilon = 1e-6

// NumControlPoints returns T(n) = (n+1)(n+2)/2, the number of control
// points of a degree-n triangular patch.
func NumControlPoints(n int) int {
	return (n + 1) * (n + 2) / 2
}

// To1D returns the storage offset of the multi-index (n-j-k, j, k) in a
// degree-n patch.
func To1D(n, j, k int) int {
	checkIndex(n, j, k)
	r := n - j
	return r*(r+1)/2 + k
}

// From1D returns the multi-index (i, j, k) stored at offset o of a
// degree-n patch. It is the inverse of [To1D].
func From1D(n, o int) (i, j, k int) {
	checkOffset(n, o)
	r := rowOf(o)
	j = n - r
	k = o - r*(r+1)/2
	i = n - j - k
	return i, j, k
}

// rowOf returns the smallest r with r(r+1)/2 <= o < (r+1)(r+2)/2.
func rowOf(o int) int {
	x := (math.Sqrt(8*float64(o+1)+1) - 1) / 2
	return int(x - rowEpsilon)
}

// RowCount returns the number of rows needed to hold count control
// points, rounding up when count is not a triangular number.
func RowCount(count int) int {
	if count <= 0 {
		return 0
	}
	x := (math.Sqrt(8*float64(count)+1)-1)/2 - rowEpsilon
	return int(math.Ceil(x))
}

// DegreeForCount returns the degree of a patch with count control
// points. ok is false when count is not a triangular number.
func DegreeForCount(count int) (degree int, ok bool) {
	rows := RowCount(count)
	if rows == 0 {
		return 0, false
	}
	degree = rows - 1
	return degree, NumControlPoints(degree) == count
}
