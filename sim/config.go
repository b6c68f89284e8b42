// Package sim draws ground-truth Markov network parameters and
// simulates co-occurrence landscapes from them by Gibbs sampling.
package sim

import (
	"fmt"

	"github.com/op/go-logging"

	"github.com/mnetlab/coocnet/mnet"
)

// log is the global logging variable.
var log = logging.MustGetLogger("sim")

// Config describes one simulation run. A run is a pure function of
// its configuration: identical configurations (including the seed)
// produce bit-identical landscapes.
type Config struct {
	// NSpecies is the number of species (at least 2).
	NSpecies int
	// NSites is the number of sites.
	NSites int
	// NSweeps is the number of full Gibbs sweeps. The sweep count
	// is a convergence assumption chosen by the caller, not a
	// diagnosed guarantee.
	NSweeps int
	// NEnv is the number of environmental covariates (0 for a
	// homogeneous environment).
	NEnv int
	// EnvSD is the standard deviation of the covariate values.
	EnvSD float64
	// Mode selects the link and the sampling distribution.
	Mode mnet.Mode
	// PNeg is the probability that a pairwise coefficient is
	// negative.
	PNeg float64
	// MeanAlpha is the mean of the intercept distribution.
	MeanAlpha float64
	// Seed seeds the run's private random source.
	Seed uint64
}

// Default returns the default configuration for a mode.
func Default(mode mnet.Mode) Config {
	return Config{
		NSpecies:  20,
		NSites:    200,
		NSweeps:   1000,
		Mode:      mode,
		PNeg:      0.75,
		MeanAlpha: 0,
		EnvSD:     1,
	}
}

// Validate rejects an invalid configuration before any sampling
// happens.
func (c *Config) Validate() error {
	switch {
	case c.NSpecies < 2:
		return fmt.Errorf("sim: need at least 2 species, got %d", c.NSpecies)
	case c.NSites < 1:
		return fmt.Errorf("sim: need at least 1 site, got %d", c.NSites)
	case c.NSweeps < 1:
		return fmt.Errorf("sim: need at least 1 sweep, got %d", c.NSweeps)
	case c.NEnv < 0:
		return fmt.Errorf("sim: negative number of covariates: %d", c.NEnv)
	case c.EnvSD < 0:
		return fmt.Errorf("sim: negative covariate standard deviation: %v", c.EnvSD)
	case c.PNeg < 0 || c.PNeg > 1:
		return fmt.Errorf("sim: negative-sign probability %v outside [0, 1]", c.PNeg)
	case c.Mode != mnet.PresenceAbsence && c.Mode != mnet.Abundance:
		return fmt.Errorf("sim: unknown mode %v", c.Mode)
	}
	return nil
}
