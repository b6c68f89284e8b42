// Adaptive proposals follow the Robbins-Monro batch scheme: the
// proposal variance of every parameter is learned from the accepted
// values during a burn-in window and frozen afterwards.

package optimize

import (
	"math"
	"math/rand/v2"
)

// AdaptiveSettings are settings for the adaptive MCMC proposals.
type AdaptiveSettings struct {
	// K is the batch size for mean and variance updates.
	K int
	// Skip is the number of iterations before adaptation starts.
	Skip int
	// MaxAdapt is the iteration after which no adaptation happens.
	MaxAdapt int
	// MaxUpdate is the maximum number of updates per parameter.
	MaxUpdate int
	// C and Nu are Robbins-Monro step-size parameters.
	C  float64
	Nu float64
	// Lambda is the proposal multiplier.
	Lambda float64
	// SD is the initial proposal standard deviation.
	SD float64
}

// NewAdaptiveSettings creates settings with the default values.
func NewAdaptiveSettings() *AdaptiveSettings {
	return &AdaptiveSettings{
		K:         20,
		Skip:      500,
		MaxAdapt:  2000,
		MaxUpdate: 200,
		C:         1,
		Nu:        3,
		Lambda:    2.4,
		SD:        1e-2,
	}
}

// ParameterGenerator generates an adaptive parameter.
func (as *AdaptiveSettings) ParameterGenerator(par *float64, name string) FloatParameter {
	return NewAdaptiveParameter(par, name, as)
}

// AdaptiveParameter is a parameter with an adaptive normal proposal.
type AdaptiveParameter struct {
	*BasicFloatParameter

	t       int
	loct    int
	updates int
	stopped bool

	mean     float64
	variance float64
	delta    bool

	bmean float64
	bm2   float64

	*AdaptiveSettings
}

// NewAdaptiveParameter creates a new adaptive parameter.
func NewAdaptiveParameter(par *float64, name string, as *AdaptiveSettings) (a *AdaptiveParameter) {
	if as.SD <= 0 {
		panic("SD should be > 0")
	}
	if as.K < 2 {
		panic("K should be >= 2")
	}
	a = &AdaptiveParameter{
		BasicFloatParameter: NewBasicFloatParameter(par, name),
		AdaptiveSettings:    as,
	}
	a.mean = math.NaN()
	a.variance = as.SD * as.SD
	a.proposalFunc = a.adaptiveProposal()
	return
}

// Accept updates the learned proposal moments while adaptation is
// active.
func (a *AdaptiveParameter) Accept(iter int) {
	if iter >= a.Skip && iter < a.MaxAdapt {
		a.updateMoments()
	}
}

// robbinsMonro returns the current step size.
func (a *AdaptiveParameter) robbinsMonro() (gamma float64) {
	delta := a.bmean - a.mean
	if (delta > 0 && !a.delta) || (delta < 0 && a.delta) {
		a.loct++
	}
	a.delta = delta > 0
	beta := 1 / math.Max(1, 1+a.Nu)
	gamma = a.C / math.Pow(float64(a.loct+1), beta)
	return
}

func (a *AdaptiveParameter) updateMoments() {
	if a.stopped {
		return
	}
	if math.IsNaN(a.mean) {
		a.mean = *a.float64
	}

	// index in the current batch
	bi := a.t % a.K

	if a.t > 0 && bi == 0 {
		gamma := a.robbinsMonro()
		bvariance := a.bm2 / float64(a.K-1)

		a.mean += gamma * (a.bmean - a.mean)
		a.variance += gamma * (bvariance - a.variance)

		a.updates++
		if a.updates >= a.MaxUpdate {
			a.stopped = true
			log.Infof("%s: stopping adaptation, max updates reached", a.Name())
		}

		a.bmean = 0
		a.bm2 = 0
	}

	delta := *a.float64 - a.bmean
	a.bmean += delta / float64(bi+1)
	a.bm2 += delta * (*a.float64 - a.bmean)

	a.t++
}

// adaptiveProposal proposes a new point using the learned variance.
func (a *AdaptiveParameter) adaptiveProposal() ProposalFunc {
	return func(rng *rand.Rand, x float64) float64 {
		return x + rng.NormFloat64()*math.Sqrt(a.variance)*a.Lambda
	}
}
