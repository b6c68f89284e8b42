package sim

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mnetlab/coocnet/mnet"
)

// DrawCoefficients draws a ground-truth parameter set: intercepts
// from Normal(MeanAlpha, 1) and pairwise coefficients with
// Exponential(1) magnitude and sign negative with probability PNeg.
func DrawCoefficients(c *Config, rng *rand.Rand) (*mnet.Params, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p, err := mnet.NewParams(c.NSpecies)
	if err != nil {
		return nil, err
	}

	norm := distuv.Normal{Mu: c.MeanAlpha, Sigma: 1, Src: rng}
	expo := distuv.Exponential{Rate: 1, Src: rng}

	for i := range p.Alpha {
		p.Alpha[i] = norm.Rand()
	}
	for k := range p.Pairs {
		v := expo.Rand()
		if rng.Float64() < c.PNeg {
			v = -v
		}
		p.Pairs[k] = v
	}
	return p, nil
}
