package optimize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
)

// Default range for parameter randomization.
const (
	// MIN is the default lower bound.
	MIN = -10
	// MAX is the default upper bound.
	MAX = +10
)

// FloatParameter is a model parameter and its sampling behavior.
type FloatParameter interface {
	Name() string
	Get() float64
	Set(float64)
	SetMin(float64)
	SetMax(float64)
	GetMin() float64
	GetMax() float64
	Prior() float64
	OldPrior() float64
	Propose(*rand.Rand)
	Accept(iter int)
	Reject()
	SetPriorFunc(func(float64) float64)
	SetProposalFunc(ProposalFunc)
	SetOnChange(func())
	InRange() bool
	ValueInRange(float64) bool
	String() string
}

// FloatParameterGenerator creates a parameter bound to a float64.
type FloatParameterGenerator func(*float64, string) FloatParameter

// FloatParameters is a slice of parameters.
type FloatParameters []FloatParameter

// Append adds a parameter.
func (p *FloatParameters) Append(par FloatParameter) {
	*p = append(*p, par)
}

// Names returns the parameter names, reusing is if possible.
func (p *FloatParameters) Names(is []string) (s []string) {
	if is == nil {
		s = make([]string, len(*p))
	} else {
		s = is
	}
	for i, par := range *p {
		s[i] = par.Name()
	}
	return
}

// Values returns the parameter values, reusing iv if possible.
func (p *FloatParameters) Values(iv []float64) (v []float64) {
	if iv == nil {
		v = make([]float64, len(*p))
	} else {
		v = iv
	}
	for i, par := range *p {
		v[i] = par.Get()
	}
	return
}

// ValueMap returns a name to value map.
func (p *FloatParameters) ValueMap() map[string]float64 {
	m := make(map[string]float64, len(*p))
	for _, par := range *p {
		m[par.Name()] = par.Get()
	}
	return m
}

// SetValues sets all parameter values.
func (p *FloatParameters) SetValues(v []float64) error {
	if len(v) != len(*p) {
		return fmt.Errorf("optimize: expected %d parameter values, got %d", len(*p), len(v))
	}
	for i, par := range *p {
		par.Set(v[i])
	}
	return nil
}

// SetFromMap sets values of parameters present in the map.
func (p *FloatParameters) SetFromMap(m map[string]float64) {
	for _, par := range *p {
		if v, ok := m[par.Name()]; ok {
			par.Set(v)
		}
	}
}

// ValuesInRange returns true if all values are in the parameter
// range.
func (p *FloatParameters) ValuesInRange(vals []float64) bool {
	if len(vals) != len(*p) {
		return false
	}
	for i, par := range *p {
		if !par.ValueInRange(vals[i]) {
			return false
		}
	}
	return true
}

// InRange returns true if all current values are in range.
func (p *FloatParameters) InRange() bool {
	for _, par := range *p {
		if !par.InRange() {
			return false
		}
	}
	return true
}

// Randomize sets all parameters to uniform random values in the
// intersection of their range and [MIN, MAX].
func (p *FloatParameters) Randomize(rng *rand.Rand) {
	for _, par := range *p {
		min := math.Max(MIN, par.GetMin())
		max := math.Min(MAX, par.GetMax())
		par.Set(min + rng.Float64()*(max-min))
	}
}

// ReadLine sets parameter values from a trajectory line (iteration,
// likelihood, values).
func (p *FloatParameters) ReadLine(l string) error {
	v, err := ReadFloats(l)
	if err != nil {
		return err
	}
	if len(v) < 2 {
		return fmt.Errorf("optimize: trajectory line too short")
	}
	return p.SetValues(v[2:])
}

// NamesString returns tab-separated parameter names.
func (p *FloatParameters) NamesString() (s string) {
	for i, par := range *p {
		if i != 0 {
			s += "\t"
		}
		s += par.Name()
	}
	return
}

// ValuesString returns tab-separated parameter values.
func (p *FloatParameters) ValuesString() (s string) {
	for i, par := range *p {
		if i != 0 {
			s += "\t"
		}
		s += par.String()
	}
	return
}

// MarshalJSON encodes parameters as a name to value object, keeping
// the parameter order.
func (p FloatParameters) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, par := range p {
		if i != 0 {
			b.WriteByte(',')
		}
		name, err := json.Marshal(par.Name())
		if err != nil {
			return nil, err
		}
		b.Write(name)
		b.WriteByte(':')
		val, err := json.Marshal(par.Get())
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON sets values of parameters found in a name to value
// object.
func (p *FloatParameters) UnmarshalJSON(data []byte) error {
	m := make(map[string]float64)
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	p.SetFromMap(m)
	return nil
}

// ReadFromJSON reads a starting point from a JSON file.
func (p *FloatParameters) ReadFromJSON(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, p)
}

// BasicFloatParameter is a float parameter with a prior and a
// proposal.
type BasicFloatParameter struct {
	*float64
	old          float64
	name         string
	priorFunc    func(float64) float64
	proposalFunc ProposalFunc
	min          float64
	max          float64
	onChange     func()
}

// NewBasicFloatParameter creates a parameter bound to par.
func NewBasicFloatParameter(par *float64, name string) *BasicFloatParameter {
	return &BasicFloatParameter{
		float64:      par,
		name:         name,
		priorFunc:    UniformPrior(MIN, MAX, true, true),
		proposalFunc: NormalProposal(1),
		min:          math.Inf(-1),
		max:          math.Inf(+1),
	}
}

// BasicFloatParameterGenerator is the FloatParameterGenerator for
// BasicFloatParameter.
func BasicFloatParameterGenerator(par *float64, name string) FloatParameter {
	return NewBasicFloatParameter(par, name)
}

// Name returns the parameter name.
func (p *BasicFloatParameter) Name() string { return p.name }

// Get returns the current value.
func (p *BasicFloatParameter) Get() float64 { return *p.float64 }

// Set sets a value.
func (p *BasicFloatParameter) Set(v float64) {
	if *p.float64 == v {
		return
	}
	*p.float64 = v
	if p.onChange != nil {
		p.onChange()
	}
}

// SetMin sets the lower bound.
func (p *BasicFloatParameter) SetMin(min float64) { p.min = min }

// SetMax sets the upper bound.
func (p *BasicFloatParameter) SetMax(max float64) { p.max = max }

// GetMin returns the lower bound.
func (p *BasicFloatParameter) GetMin() float64 { return p.min }

// GetMax returns the upper bound.
func (p *BasicFloatParameter) GetMax() float64 { return p.max }

// SetPriorFunc sets the log-prior function.
func (p *BasicFloatParameter) SetPriorFunc(f func(float64) float64) { p.priorFunc = f }

// SetProposalFunc sets the proposal function.
func (p *BasicFloatParameter) SetProposalFunc(f ProposalFunc) { p.proposalFunc = f }

// SetOnChange sets a callback called on every value change.
func (p *BasicFloatParameter) SetOnChange(f func()) { p.onChange = f }

// Prior returns the log-prior of the current value.
func (p *BasicFloatParameter) Prior() float64 { return p.priorFunc(*p.float64) }

// OldPrior returns the log-prior of the value before the last
// proposal.
func (p *BasicFloatParameter) OldPrior() float64 { return p.priorFunc(p.old) }

// ValueInRange returns true if v is in the parameter range.
func (p *BasicFloatParameter) ValueInRange(v float64) bool {
	return v >= p.min && v <= p.max
}

// InRange returns true if the current value is in range.
func (p *BasicFloatParameter) InRange() bool { return p.ValueInRange(*p.float64) }

// reflect folds an out-of-range value back into the range.
func (p *BasicFloatParameter) reflect() {
	for *p.float64 < p.min || *p.float64 > p.max {
		if *p.float64 < p.min {
			*p.float64 = p.min + (p.min - *p.float64)
		}
		if *p.float64 > p.max {
			*p.float64 = p.max - (*p.float64 - p.max)
		}
	}
}

// Propose draws a new value from the proposal, reflecting at the
// bounds.
func (p *BasicFloatParameter) Propose(rng *rand.Rand) {
	p.old, *p.float64 = *p.float64, p.proposalFunc(rng, *p.float64)
	p.reflect()
	if p.onChange != nil {
		p.onChange()
	}
}

// Reject restores the value before the last proposal.
func (p *BasicFloatParameter) Reject() {
	*p.float64, p.old = p.old, *p.float64
	if p.onChange != nil {
		p.onChange()
	}
}

// Accept is called when a proposed value is accepted.
func (p *BasicFloatParameter) Accept(iter int) {}

// String returns the value formatted for the trajectory output.
func (p *BasicFloatParameter) String() string {
	return strconv.FormatFloat(*p.float64, 'f', 6, 64)
}
