package optimize

import (
	"math"
	"math/rand/v2"
	"testing"
)

// peakModel has a single likelihood maximum at a known point; enough
// to exercise the samplers end to end.
type peakModel struct {
	x      []float64
	target []float64
	pars   FloatParameters
}

func newPeakModel(target []float64) *peakModel {
	m := &peakModel{
		x:      make([]float64, len(target)),
		target: target,
	}
	for i := range m.x {
		par := NewBasicFloatParameter(&m.x[i], "x"+string(rune('a'+i)))
		par.SetMin(-10)
		par.SetMax(10)
		par.SetPriorFunc(UniformPrior(-10, 10, true, true))
		par.SetProposalFunc(NormalProposal(0.1))
		m.pars.Append(par)
	}
	return m
}

func (m *peakModel) GetFloatParameters() FloatParameters { return m.pars }

func (m *peakModel) Likelihood() float64 {
	var s float64
	for i, v := range m.x {
		d := v - m.target[i]
		s += d * d
	}
	return -s
}

func (m *peakModel) Gradient(dst []float64) []float64 {
	if len(dst) < len(m.x) {
		dst = make([]float64, len(m.x))
	}
	dst = dst[:len(m.x)]
	for i, v := range m.x {
		dst[i] = -2 * (v - m.target[i])
	}
	return dst
}

func (m *peakModel) Copy() Optimizable {
	return newPeakModel(m.target)
}

func TestMH(tst *testing.T) {
	m := newPeakModel([]float64{1, -2})
	rng := rand.New(rand.NewPCG(3, 4))

	chain := NewMH(rng, false, 0)
	chain.Quiet = true
	chain.SetOptimizable(m)
	chain.Run(5000)

	sum := chain.Summary()
	if sum.MaxLnL <= sum.StartLnL {
		tst.Errorf("maximum %v did not improve on the start %v", sum.MaxLnL, sum.StartLnL)
	}
	best := chain.GetMaxLParameters()
	if math.Abs(best[0]-1) > 0.5 || math.Abs(best[1]+2) > 0.5 {
		tst.Errorf("best point %v, expected near [1 -2]", best)
	}
	if sum.Iterations != 5000 {
		tst.Errorf("%d iterations, expected 5000", sum.Iterations)
	}
	if sum.Calls < 5000 {
		tst.Errorf("%d likelihood calls, expected at least 5000", sum.Calls)
	}
}

func TestAnnealing(tst *testing.T) {
	m := newPeakModel([]float64{0.5})
	rng := rand.New(rand.NewPCG(5, 6))

	chain := NewMH(rng, true, 1000)
	chain.Quiet = true
	chain.SetOptimizable(m)
	chain.Run(5000)

	best := chain.GetMaxLParameters()
	if math.Abs(best[0]-0.5) > 0.5 {
		tst.Errorf("best point %v, expected near 0.5", best)
	}
}

func TestMHCheckpoint(tst *testing.T) {
	m := newPeakModel([]float64{1})
	rng := rand.New(rand.NewPCG(7, 8))

	chain := NewMH(rng, false, 0)
	chain.Quiet = true
	chain.SetOptimizable(m)
	gotFinal := false
	calls := 0
	chain.SetCheckpoint(func(iter int, lnL float64, par map[string]float64, final bool) {
		calls++
		if final {
			gotFinal = true
			if _, ok := par["xa"]; !ok {
				tst.Error("checkpoint map is missing a parameter")
			}
		}
	})
	chain.Run(100)
	if !gotFinal {
		tst.Error("no final checkpoint")
	}
	if calls < 100 {
		tst.Errorf("%d checkpoint calls, expected at least 100", calls)
	}
}

func TestLoadParameters(tst *testing.T) {
	m := newPeakModel([]float64{0, 0})
	chain := NewMH(rand.New(rand.NewPCG(9, 10)), false, 0)
	chain.Quiet = true
	chain.SetOptimizable(m)

	if err := chain.LoadParameters([]float64{1, 2}); err != nil {
		tst.Error("Error: ", err)
	}
	if m.x[0] != 1 || m.x[1] != 2 {
		tst.Errorf("loaded point %v, expected [1 2]", m.x)
	}
	if err := chain.LoadParameters([]float64{1}); err == nil {
		tst.Error("expected error for a wrong-sized starting point")
	}
	if err := chain.LoadParameters([]float64{100, 0}); err == nil {
		tst.Error("expected error for an out-of-range starting point")
	}
}
