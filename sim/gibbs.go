package sim

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mnetlab/coocnet/landscape"
	"github.com/mnetlab/coocnet/mnet"
)

// Result is one simulated landscape and its ground truth.
type Result struct {
	Config    Config
	Landscape *landscape.Landscape
	// Truth is the drawn parameter set; immutable once the
	// simulation has started.
	Truth *mnet.Params
	// Env is nil for a homogeneous environment.
	Env *Environment
}

// Run draws a ground-truth parameter set and simulates one landscape
// from it. The run owns a private random source seeded from the
// configuration, so concurrent runs share no state.
func Run(c Config) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rng := newRNG(c.Seed)

	truth, err := DrawCoefficients(&c, rng)
	if err != nil {
		return nil, err
	}
	return simulate(c, truth, rng)
}

// Simulate runs the Gibbs chain for a fixed, known parameter set.
// Property tests and power analyses use it to pin the truth while
// keeping the rest of the run identical to Run.
func Simulate(c Config, truth *mnet.Params, rng *rand.Rand) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if truth.NSpecies() != c.NSpecies {
		return nil, fmt.Errorf("sim: truth has %d species, configuration %d", truth.NSpecies(), c.NSpecies)
	}
	if rng == nil {
		rng = newRNG(c.Seed)
	}
	return simulate(c, truth, rng)
}

func simulate(c Config, truth *mnet.Params, rng *rand.Rand) (*Result, error) {
	env := drawEnvironment(&c, rng)
	eff := effectiveIntercepts(&c, truth, env)
	x := gibbs(&c, truth.Beta(), eff, rng)

	ls, err := landscape.FromDense(x, nil)
	if err != nil {
		return nil, err
	}
	log.Debugf("simulated %d sites x %d species, %d sweeps, mode %v",
		c.NSites, c.NSpecies, c.NSweeps, c.Mode)
	return &Result{
		Config:    c,
		Landscape: ls,
		Truth:     truth,
		Env:       env,
	}, nil
}

// newRNG creates the run's private random source.
func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// gibbs runs the systematic-scan Gibbs sampler. Within one sweep the
// species are updated in a fixed order; updates of earlier species
// are visible to later ones. All sites of one species are
// conditionally independent given the rest of the matrix, so each
// column update is a single pass over the sites.
func gibbs(c *Config, beta *mat.SymDense, eff *mat.Dense, rng *rand.Rand) *mat.Dense {
	n := c.NSpecies
	x := mat.NewDense(c.NSites, n, nil)

	// Starting state: each cell drawn from the conditional with
	// all interaction terms zeroed, i.e. from the intercept alone.
	for s := 0; s < c.NSites; s++ {
		for j := 0; j < n; j++ {
			x.Set(s, j, drawCell(c.Mode, eff.At(s, j), rng))
		}
	}

	cols := make([][]float64, n)
	for j := range cols {
		cols[j] = make([]float64, n)
		mat.Col(cols[j], j, beta)
	}

	for sweep := 0; sweep < c.NSweeps; sweep++ {
		for j := 0; j < n; j++ {
			col := cols[j]
			for s := 0; s < c.NSites; s++ {
				// beta has a zero diagonal, so the dot
				// product drops the species' own value.
				lp := eff.At(s, j) + floats.Dot(x.RawRowView(s), col)
				x.Set(s, j, drawCell(c.Mode, lp, rng))
			}
		}
	}
	return x
}

// drawCell samples one cell from the mode's conditional
// distribution. The link saturates extreme predictors, so the draw
// is always finite.
func drawCell(mode mnet.Mode, lp float64, rng *rand.Rand) float64 {
	if mode == mnet.Abundance {
		pois := distuv.Poisson{Lambda: mnet.Softplus(lp), Src: rng}
		return pois.Rand()
	}
	if rng.Float64() < mnet.Logistic(lp) {
		return 1
	}
	return 0
}
