package optimize

import (
	"math"
	"math/rand/v2"
)

// MH is a Metropolis-Hastings sampler. With annealing enabled it
// turns into a simulated annealing optimizer with an exponential
// cooling schedule.
type MH struct {
	BaseOptimizer
	// AccPeriod is how often the acceptance rate is reported.
	AccPeriod int
	// SD is the default proposal standard deviation.
	SD            float64
	annealing     bool
	annealingSkip int
	rng           *rand.Rand
}

// NewMH creates a new Metropolis-Hastings sampler. annealingSkip is
// the number of iterations before the temperature starts to drop.
func NewMH(rng *rand.Rand, annealing bool, annealingSkip int) (mcmc *MH) {
	mcmc = &MH{
		BaseOptimizer: BaseOptimizer{
			repPeriod: 10,
		},
		AccPeriod:     200,
		SD:            1e-2,
		annealing:     annealing,
		annealingSkip: annealingSkip,
		rng:           rng,
	}
	return
}

// Run starts sampling.
func (m *MH) Run(iterations int) {
	m.saveStart()
	m.PrintHeader()
	accepted := 0
	lastReported := -1
	l := m.startL
Iter:
	for m.i = 0; m.i < iterations; m.i++ {
		var T float64
		if m.annealing && m.i >= m.annealingSkip {
			T = math.Pow(0.9, float64(m.i-m.annealingSkip)/float64(iterations-m.annealingSkip)*100)
		} else {
			T = 1
		}
		if m.i > 0 && m.i%m.AccPeriod == 0 {
			log.Infof("Acceptance rate %.2f%%", 100*float64(accepted)/float64(m.AccPeriod))
			accepted = 0
		}

		if m.i%m.repPeriod == 0 {
			if m.annealing {
				log.Debugf("%d: L=%f, T=%f", m.i, l, T)
			} else {
				log.Debugf("%d: L=%f", m.i, l)
			}
			m.PrintLine(l, m.repPeriod)
			lastReported = m.i
		}

		p := m.rng.IntN(len(m.parameters))
		par := m.parameters[p]
		par.Propose(m.rng)
		newL := m.Likelihood()
		m.calls++

		var a float64
		if m.annealing {
			a = math.Exp((newL - l) / T)
		} else {
			a = math.Exp(par.Prior() - par.OldPrior() + newL - l)
		}

		if a > 1 || m.rng.Float64() < a {
			l = newL
			par.Accept(m.i)
			accepted++
			m.record(l)
		} else {
			par.Reject()
		}

		m.saveCheckpoint(l, false)

		if m.stopRequested() {
			break Iter
		}
	}

	if m.i != lastReported {
		m.PrintLine(l, 1)
	}
	log.Info("Finished sampling")

	m.saveCheckpoint(l, true)
}
