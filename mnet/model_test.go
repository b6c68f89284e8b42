package mnet

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestEnergy(tst *testing.T) {
	p, err := NewParams(3)
	if err != nil {
		tst.Error("Error: ", err)
	}
	p.Alpha = []float64{0.5, -1, 2}
	p.Pairs[PairIndex(0, 1, 3)] = 1.5
	p.Pairs[PairIndex(0, 2, 3)] = -0.25
	p.Pairs[PairIndex(1, 2, 3)] = 3

	// species 1 and 2 present
	e := Energy(p, []float64{1, 1, 0})
	want := -(0.5 - 1 + 1.5)
	if math.Abs(e-want) > 1e-12 {
		tst.Errorf("Energy=%v, expected %v", e, want)
	}

	// all present, every pair counted once
	e = Energy(p, []float64{1, 1, 1})
	want = -(0.5 - 1 + 2 + 1.5 - 0.25 + 3)
	if math.Abs(e-want) > 1e-12 {
		tst.Errorf("Energy=%v, expected %v", e, want)
	}

	if e := Energy(p, []float64{0, 0, 0}); e != 0 {
		tst.Errorf("empty assemblage energy=%v, expected 0", e)
	}
}

func TestConditional(tst *testing.T) {
	p, err := NewParams(3)
	if err != nil {
		tst.Error("Error: ", err)
	}
	p.Alpha = []float64{0.5, -1, 2}
	p.Pairs[PairIndex(0, 1, 3)] = 1.5
	p.Pairs[PairIndex(0, 2, 3)] = -0.25
	p.Pairs[PairIndex(1, 2, 3)] = 3

	lp := Conditional(p, []float64{0, 1, 1}, 0)
	want := 0.5 + 1.5 - 0.25
	if math.Abs(lp-want) > 1e-12 {
		tst.Errorf("Conditional=%v, expected %v", lp, want)
	}

	// y[j] itself must not contribute
	if a, b := Conditional(p, []float64{0, 1, 1}, 0), Conditional(p, []float64{1, 1, 1}, 0); a != b {
		tst.Errorf("conditional depends on the species' own value: %v != %v", a, b)
	}
}

// TestConditionalConsistency checks that the full conditional and the
// energy agree: P(y_j=1|rest) from the energy difference must equal
// the logistic of the linear predictor.
func TestConditionalConsistency(tst *testing.T) {
	p, err := NewParams(4)
	if err != nil {
		tst.Error("Error: ", err)
	}
	p.Alpha = []float64{0.3, -0.7, 1.2, 0.1}
	for k := range p.Pairs {
		p.Pairs[k] = 0.1 * float64(k-2)
	}
	y := []float64{1, 0, 1, 1}
	for j := range y {
		on := append([]float64(nil), y...)
		off := append([]float64(nil), y...)
		on[j], off[j] = 1, 0
		// exp(-E_on) / (exp(-E_on)+exp(-E_off))
		pEnergy := 1 / (1 + math.Exp(Energy(p, on)-Energy(p, off)))
		pLink := Logistic(Conditional(p, y, j))
		if math.Abs(pEnergy-pLink) > 1e-12 {
			tst.Errorf("species %d: energy gives %v, link gives %v", j, pEnergy, pLink)
		}
	}
}

func TestLikelihoodTwoSpecies(tst *testing.T) {
	obs := mat.NewDense(3, 2, []float64{
		1, 1,
		1, 0,
		0, 0,
	})
	m, err := NewModel(obs)
	if err != nil {
		tst.Error("Error: ", err)
	}
	a1, a2, b := 0.4, -0.3, 0.8
	err = m.GetFloatParameters().SetValues([]float64{a1, a2, b})
	if err != nil {
		tst.Error("Error: ", err)
	}

	logZ := math.Log(1 + math.Exp(a1) + math.Exp(a2) + math.Exp(a1+a2+b))
	want := (a1 + a2 + b) + a1 - 3*logZ
	if got := m.Likelihood(); math.Abs(got-want) > 1e-10 {
		tst.Errorf("lnL=%v, expected %v", got, want)
	}
	if got := m.LogZ(); math.Abs(got-logZ) > 1e-10 {
		tst.Errorf("logZ=%v, expected %v", got, logZ)
	}
}

func TestLikelihoodZeroParams(tst *testing.T) {
	// with all parameters zero every state has weight 1, so
	// lnL = -nSites * n * ln 2
	obs := mat.NewDense(4, 3, []float64{
		1, 0, 1,
		0, 0, 0,
		1, 1, 1,
		0, 1, 0,
	})
	m, err := NewModel(obs)
	if err != nil {
		tst.Error("Error: ", err)
	}
	want := -4 * 3 * math.Ln2
	if got := m.Likelihood(); math.Abs(got-want) > 1e-10 {
		tst.Errorf("lnL=%v, expected %v", got, want)
	}
}

func TestGradient(tst *testing.T) {
	obs := mat.NewDense(6, 3, []float64{
		1, 0, 1,
		0, 1, 0,
		1, 1, 1,
		0, 0, 0,
		1, 1, 0,
		0, 1, 1,
	})
	m, err := NewModel(obs)
	if err != nil {
		tst.Error("Error: ", err)
	}
	start := []float64{0.2, -0.5, 0.1, 0.3, -0.2, 0.7}
	if err := m.GetFloatParameters().SetValues(start); err != nil {
		tst.Error("Error: ", err)
	}

	grad := m.Gradient(nil)
	if len(grad) != len(start) {
		tst.Errorf("gradient has %d entries, expected %d", len(grad), len(start))
	}

	// central finite differences
	const h = 1e-6
	par := m.GetFloatParameters()
	for i := range start {
		x := append([]float64(nil), start...)
		x[i] = start[i] + h
		par.SetValues(x)
		lp := m.Likelihood()
		x[i] = start[i] - h
		par.SetValues(x)
		lm := m.Likelihood()
		num := (lp - lm) / (2 * h)
		if math.Abs(grad[i]-num) > 1e-4 {
			tst.Errorf("gradient[%d]=%v, finite differences give %v", i, grad[i], num)
		}
		par.SetValues(start)
	}
}

func TestModelValidation(tst *testing.T) {
	if _, err := NewModel(mat.NewDense(2, 1, []float64{1, 0})); err == nil {
		tst.Error("expected error for a single species")
	}
	if _, err := NewModel(mat.NewDense(2, 2, []float64{1, 0, 0, 2})); err == nil {
		tst.Error("expected error for a non-binary cell")
	}
	big := mat.NewDense(1, MaxExactSpecies+1, nil)
	if _, err := NewModel(big); err == nil {
		tst.Error("expected error above the species limit")
	}
}

func TestConstantSpecies(tst *testing.T) {
	obs := mat.NewDense(3, 3, []float64{
		1, 0, 1,
		1, 0, 0,
		1, 0, 1,
	})
	m, err := NewModel(obs)
	if err != nil {
		tst.Error("Error: ", err)
	}
	if c := m.ConstantSpecies(); c != 2 {
		tst.Errorf("ConstantSpecies=%d, expected 2", c)
	}
}

func TestModelCopy(tst *testing.T) {
	obs := mat.NewDense(3, 2, []float64{1, 1, 1, 0, 0, 0})
	m, err := NewModel(obs)
	if err != nil {
		tst.Error("Error: ", err)
	}
	m.GetFloatParameters().SetValues([]float64{0.4, -0.3, 0.8})
	c := m.Copy()
	if l1, l2 := m.Likelihood(), c.Likelihood(); l1 != l2 {
		tst.Errorf("copy likelihood %v != %v", l2, l1)
	}
	// changing the copy must not touch the original
	c.GetFloatParameters().SetValues([]float64{1, 1, 1})
	if l1, l2 := m.Likelihood(), c.Likelihood(); l1 == l2 {
		tst.Error("copy shares parameters with the original")
	}
}
