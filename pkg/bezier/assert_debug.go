//go:build bezierdebug

package bezier

import "fmt"

func checkIndex(n, j, k int) {
	if n < 0 || j < 0 || k < 0 || j+k > n {
		panic(fmt.Sprintf("bezier: multi-index (j=%d, k=%d) out of range for degree %d", j, k, n))
	}
}

func checkOffset(n, o int) {
	if n < 0 || o < 0 || o >= NumControlPoints(n) {
		panic(fmt.Sprintf("bezier: offset %d out of range for degree %d", o, n))
	}
}

func checkTarget(degree, target int) {
	if target < 0 || target > degree {
		panic(fmt.Sprintf("bezier: subdivision target %d out of range for degree %d", target, degree))
	}
}
