package mnet

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Params is one parameter set of the pairwise Markov network: an
// intercept per species and an interaction strength per unordered
// species pair, in canonical pair order. A drawn truth is never
// mutated after simulation starts.
type Params struct {
	// Alpha is the per-species intercepts.
	Alpha []float64
	// Pairs is the pairwise interaction strengths.
	Pairs []float64
}

// NewParams creates a zero parameter set for nSpecies species.
func NewParams(nSpecies int) (*Params, error) {
	if nSpecies < 2 {
		return nil, fmt.Errorf("mnet: need at least 2 species, got %d", nSpecies)
	}
	return &Params{
		Alpha: make([]float64, nSpecies),
		Pairs: make([]float64, NPairs(nSpecies)),
	}, nil
}

// NSpecies returns the number of species.
func (p *Params) NSpecies() int {
	return len(p.Alpha)
}

// Get returns the interaction strength of pair (i, j).
func (p *Params) Get(i, j int) float64 {
	return p.Pairs[PairIndex(i, j, len(p.Alpha))]
}

// Set sets the interaction strength of pair (i, j).
func (p *Params) Set(i, j int, v float64) {
	p.Pairs[PairIndex(i, j, len(p.Alpha))] = v
}

// Beta expands the pair vector into the symmetric interaction matrix
// with a zero diagonal.
func (p *Params) Beta() *mat.SymDense {
	n := len(p.Alpha)
	b := mat.NewSymDense(n, nil)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			b.SetSym(i, j, p.Pairs[PairIndex(i, j, n)])
		}
	}
	return b
}

// Copy returns a deep copy.
func (p *Params) Copy() *Params {
	c := &Params{
		Alpha: make([]float64, len(p.Alpha)),
		Pairs: make([]float64, len(p.Pairs)),
	}
	copy(c.Alpha, p.Alpha)
	copy(c.Pairs, p.Pairs)
	return c
}
