package mnet

import "math"

// LinkMax bounds the conditional linear predictor before
// exponentiation. Saturation is explicit: exp of the clamped value
// can never overflow, so the links never return NaN or Inf for any
// finite or infinite argument.
const LinkMax = 30

func clamp(x float64) float64 {
	if x > LinkMax {
		return LinkMax
	}
	if x < -LinkMax {
		return -LinkMax
	}
	return x
}

// Logistic converts a conditional log-odds into a Bernoulli
// probability.
func Logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-clamp(x)))
}

// Softplus converts a conditional linear predictor into a Poisson
// rate, log(1+exp(x)). The exponential link produced runaway counts
// and poor mixing during sampling; softplus grows linearly for large
// arguments.
func Softplus(x float64) float64 {
	x = clamp(x)
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}
