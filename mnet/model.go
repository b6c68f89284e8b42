package mnet

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/mnetlab/coocnet/optimize"
)

// MaxExactSpecies bounds the assemblage-state enumeration used for
// the exact likelihood (2^n states).
const MaxExactSpecies = 20

// Model fits a pairwise Markov network to an observed
// presence/absence landscape by exact maximum likelihood. The
// partition function is computed by enumerating all 2^n assemblage
// states, which is tractable in the small-species-count regime the
// study operates in. The likelihood depends on the observations only
// through the per-species presence counts and the per-pair
// co-occurrence counts, so those are precomputed once.
type Model struct {
	params *Params
	n      int
	nSites int

	speciesCount []float64
	pairCount    []float64

	parameters optimize.FloatParameters
	adaptive   *optimize.AdaptiveSettings
}

// NewModel creates a model for a binary observation matrix
// (sites by species).
func NewModel(obs *mat.Dense) (*Model, error) {
	nSites, n := obs.Dims()
	if n < 2 {
		return nil, fmt.Errorf("mnet: need at least 2 species, got %d", n)
	}
	if n > MaxExactSpecies {
		return nil, fmt.Errorf("mnet: %d species exceed the exact-likelihood limit of %d", n, MaxExactSpecies)
	}
	if nSites < 1 {
		return nil, fmt.Errorf("mnet: empty landscape")
	}

	m := &Model{
		n:            n,
		nSites:       nSites,
		speciesCount: make([]float64, n),
		pairCount:    make([]float64, NPairs(n)),
	}

	for s := 0; s < nSites; s++ {
		row := obs.RawRowView(s)
		for i, v := range row {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("mnet: non-binary cell %v at site %d, species %d; binarize abundance data first", v, s, i)
			}
		}
		for i := 0; i < n; i++ {
			if row[i] == 0 {
				continue
			}
			m.speciesCount[i]++
			for j := i + 1; j < n; j++ {
				if row[j] != 0 {
					m.pairCount[PairIndex(i, j, n)]++
				}
			}
		}
	}

	var err error
	m.params, err = NewParams(n)
	if err != nil {
		return nil, err
	}
	m.setupParameters(optimize.BasicFloatParameterGenerator)
	return m, nil
}

func (m *Model) setupParameters(gen optimize.FloatParameterGenerator) {
	m.parameters = nil
	add := func(v *float64, name string) {
		par := gen(v, name)
		par.SetMin(-LinkMax)
		par.SetMax(LinkMax)
		par.SetPriorFunc(optimize.UniformPrior(-LinkMax, LinkMax, true, true))
		m.parameters.Append(par)
	}
	for i := range m.params.Alpha {
		add(&m.params.Alpha[i], "alpha"+strconv.Itoa(i+1))
	}
	for k := range m.params.Pairs {
		i, j := PairSpecies(k, m.n)
		add(&m.params.Pairs[k], PairLabel(i, j))
	}
}

// SetAdaptive regenerates the parameters with adaptive MCMC
// proposals.
func (m *Model) SetAdaptive(as *optimize.AdaptiveSettings) {
	m.adaptive = as
	vals := m.parameters.Values(nil)
	m.setupParameters(as.ParameterGenerator)
	m.parameters.SetValues(vals)
}

// GetFloatParameters returns the model parameters (intercepts first,
// then pairs in canonical order).
func (m *Model) GetFloatParameters() optimize.FloatParameters {
	return m.parameters
}

// Params returns the current parameter values.
func (m *Model) Params() *Params {
	return m.params
}

// NSpecies returns the number of species.
func (m *Model) NSpecies() int { return m.n }

// NSites returns the number of sites.
func (m *Model) NSites() int { return m.nSites }

// ConstantSpecies returns the number of species which are present
// everywhere or nowhere. Such degenerate columns are expected in
// simulated replicates; their intercept estimates run into the
// bounds.
func (m *Model) ConstantSpecies() int {
	c := 0
	for _, v := range m.speciesCount {
		if v == 0 || v == float64(m.nSites) {
			c++
		}
	}
	return c
}

// logWeight returns the unnormalized log-probability of an
// assemblage state; bit i of s set means species i present.
func (m *Model) logWeight(s uint) float64 {
	var lw float64
	for i := 0; i < m.n; i++ {
		if s&(1<<uint(i)) == 0 {
			continue
		}
		lw += m.params.Alpha[i]
		for j := i + 1; j < m.n; j++ {
			if s&(1<<uint(j)) != 0 {
				lw += m.params.Pairs[PairIndex(i, j, m.n)]
			}
		}
	}
	return lw
}

// logWeights fills the per-state log-weight table.
func (m *Model) logWeights() []float64 {
	lw := make([]float64, 1<<uint(m.n))
	for s := range lw {
		lw[s] = m.logWeight(uint(s))
	}
	return lw
}

// LogZ returns the log partition function.
func (m *Model) LogZ() float64 {
	return floats.LogSumExp(m.logWeights())
}

// Likelihood returns the exact log-likelihood of the landscape.
func (m *Model) Likelihood() float64 {
	ll := -float64(m.nSites) * m.LogZ()
	for i, c := range m.speciesCount {
		ll += m.params.Alpha[i] * c
	}
	for k, c := range m.pairCount {
		ll += m.params.Pairs[k] * c
	}
	if math.IsNaN(ll) {
		return math.Inf(-1)
	}
	return ll
}

// Gradient computes the analytic log-likelihood gradient in
// parameter order: observed minus expected sufficient statistics.
func (m *Model) Gradient(dst []float64) []float64 {
	np := m.n + len(m.pairCount)
	if len(dst) < np {
		dst = make([]float64, np)
	}
	dst = dst[:np]

	lw := m.logWeights()
	logZ := floats.LogSumExp(lw)

	pSpecies := make([]float64, m.n)
	pPair := make([]float64, len(m.pairCount))
	for s, w := range lw {
		p := math.Exp(w - logZ)
		if p == 0 {
			continue
		}
		for i := 0; i < m.n; i++ {
			if uint(s)&(1<<uint(i)) == 0 {
				continue
			}
			pSpecies[i] += p
			for j := i + 1; j < m.n; j++ {
				if uint(s)&(1<<uint(j)) != 0 {
					pPair[PairIndex(i, j, m.n)] += p
				}
			}
		}
	}

	ns := float64(m.nSites)
	for i := 0; i < m.n; i++ {
		dst[i] = m.speciesCount[i] - ns*pSpecies[i]
	}
	for k := range m.pairCount {
		dst[m.n+k] = m.pairCount[k] - ns*pPair[k]
	}
	return dst
}

// Copy returns a copy of the model sharing the observed counts.
func (m *Model) Copy() optimize.Optimizable {
	c := &Model{
		params:       m.params.Copy(),
		n:            m.n,
		nSites:       m.nSites,
		speciesCount: m.speciesCount,
		pairCount:    m.pairCount,
		adaptive:     m.adaptive,
	}
	if m.adaptive != nil {
		c.setupParameters(m.adaptive.ParameterGenerator)
	} else {
		c.setupParameters(optimize.BasicFloatParameterGenerator)
	}
	return c
}
