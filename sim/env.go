package sim

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/mnetlab/coocnet/mnet"
)

// Environment is the optional environmental component of a run: a
// site-by-covariate value matrix and a covariate-by-species weight
// matrix. Together they shift each species' effective intercept per
// site.
type Environment struct {
	// Values is the n_sites by n_env covariate matrix, entries
	// drawn from Normal(0, EnvSD^2).
	Values *mat.Dense
	// Weights is the n_env by n_species weight matrix, entries
	// drawn from Normal(0, 1).
	Weights *mat.Dense
}

// drawEnvironment draws the covariates and weights. Returns nil for
// a homogeneous environment (no covariates).
func drawEnvironment(c *Config, rng *rand.Rand) *Environment {
	if c.NEnv == 0 {
		return nil
	}
	values := mat.NewDense(c.NSites, c.NEnv, nil)
	for s := 0; s < c.NSites; s++ {
		for e := 0; e < c.NEnv; e++ {
			values.Set(s, e, rng.NormFloat64()*c.EnvSD)
		}
	}
	weights := mat.NewDense(c.NEnv, c.NSpecies, nil)
	for e := 0; e < c.NEnv; e++ {
		for j := 0; j < c.NSpecies; j++ {
			weights.Set(e, j, rng.NormFloat64())
		}
	}
	return &Environment{Values: values, Weights: weights}
}

// effectiveIntercepts returns the per-site intercept matrix
// alpha_j + env(site) * weights[:, j].
func effectiveIntercepts(c *Config, p *mnet.Params, env *Environment) *mat.Dense {
	eff := mat.NewDense(c.NSites, c.NSpecies, nil)
	if env != nil {
		eff.Mul(env.Values, env.Weights)
	}
	for s := 0; s < c.NSites; s++ {
		row := eff.RawRowView(s)
		for j := range row {
			row[j] += p.Alpha[j]
		}
	}
	return eff
}
