package mnet

// The joint distribution puts probability proportional to
// exp(-E(y)) on an assemblage y, with
//
//	E(y) = -sum_i alpha_i y_i - sum_{i<j} beta_ij y_i y_j
//
// Counting every pair once here makes the Gibbs full conditionals
// come out as alpha_j + (beta y)_j with the symmetric matrix, which
// is exactly the predictor the simulator uses. The partition function
// is never needed for simulation: the full conditionals are
// closed-form.

// Energy returns the energy of one assemblage vector. Lower energy
// means higher probability.
func Energy(p *Params, y []float64) float64 {
	n := len(p.Alpha)
	var e float64
	for i := 0; i < n; i++ {
		if y[i] == 0 {
			continue
		}
		e -= p.Alpha[i] * y[i]
		for j := i + 1; j < n; j++ {
			if y[j] != 0 {
				e -= p.Pairs[PairIndex(i, j, n)] * y[i] * y[j]
			}
		}
	}
	return e
}

// Conditional returns the full-conditional linear predictor of
// species j given the current values of all other species:
// alpha_j + sum_k beta_jk y_k. The value of y[j] itself does not
// contribute (zero diagonal).
func Conditional(p *Params, y []float64, j int) float64 {
	n := len(p.Alpha)
	lp := p.Alpha[j]
	for k := 0; k < n; k++ {
		if k == j || y[k] == 0 {
			continue
		}
		lp += p.Pairs[PairIndex(j, k, n)] * y[k]
	}
	return lp
}
