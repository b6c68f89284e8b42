package optimize

import (
	"math/rand/v2"
)

// ProposalFunc draws a new value given the current one.
type ProposalFunc func(rng *rand.Rand, x float64) float64

// UniformProposal returns a uniform window proposal.
func UniformProposal(width float64) ProposalFunc {
	if width <= 0 {
		panic("width should be positive")
	}
	return func(rng *rand.Rand, x float64) float64 {
		return x + rng.Float64()*width - width/2
	}
}

// NormalProposal returns a normal random-walk proposal.
func NormalProposal(sd float64) ProposalFunc {
	if sd <= 0 {
		panic("sd should be positive")
	}
	return func(rng *rand.Rand, x float64) float64 {
		return x + rng.NormFloat64()*sd
	}
}
