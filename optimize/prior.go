package optimize

import (
	"math"
)

// UniformPrior returns a flat log-prior on [min, max]. incmin and
// incmax control whether the bounds themselves are allowed.
func UniformPrior(min, max float64, incmin, incmax bool) func(float64) float64 {
	if max <= min {
		panic("max <= min")
	}
	return func(x float64) float64 {
		if (incmin && x < min) ||
			(!incmin && x <= min) ||
			(incmax && x > max) ||
			(!incmax && x >= max) {
			return math.Inf(-1)
		}
		return -math.Log(max - min)
	}
}

// ExponentialPrior returns an exponential log-prior with the given
// rate.
func ExponentialPrior(rate float64, inczero bool) func(float64) float64 {
	if rate <= 0 {
		panic("exponential rate should be > 0")
	}
	return func(x float64) float64 {
		if x < 0 || (x == 0 && !inczero) {
			return math.Inf(-1)
		}
		return math.Log(rate) - rate*x
	}
}

// NormalPrior returns a normal log-prior.
func NormalPrior(mean, sd float64) func(float64) float64 {
	if sd <= 0 {
		panic("sd should be > 0")
	}
	c := -math.Log(sd * math.Sqrt(2*math.Pi))
	return func(x float64) float64 {
		d := (x - mean) / sd
		return c - d*d/2
	}
}
