package bezier

// Elevate returns the degree N+1 patch describing the same surface:
//
//	new[i,j,k] = (i*old[i-1,j,k] + j*old[i,j-1,k] + k*old[i,j,k-1]) / (N+1)
//
// Terms with a negative index component vanish.
func (p Patch) Elevate() Patch {
	n := p.degree
	out := ZeroPatch(n + 1)
	scale := 1 / float64(n+1)
	o := 0
	for r := 0; r <= n+1; r++ {
		j := n + 1 - r
		for k := 0; k <= r; k++ {
			i := n + 1 - j - k
			var acc Point
			if i > 0 {
				acc = acc.Add(p.At(j, k).MulScalar(float64(i)))
			}
			if j > 0 {
				acc = acc.Add(p.At(j-1, k).MulScalar(float64(j)))
			}
			if k > 0 {
				acc = acc.Add(p.At(j, k-1).MulScalar(float64(k)))
			}
			out.ControlPoints[o] = acc.MulScalar(scale)
			o++
		}
	}
	return out
}

// ElevateTo elevates p repeatedly until it has the given degree. A
// degree at or below the current one returns a copy of p.
func (p Patch) ElevateTo(degree int) Patch {
	out := p.Clone()
	for out.degree < degree {
		out = out.Elevate()
	}
	return out
}
