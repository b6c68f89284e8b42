// Package optimize provides likelihood optimizers and samplers for
// models exposing a flat list of float parameters.
package optimize

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("optimize")

// Optimizable is a model which can be optimized or sampled from.
type Optimizable interface {
	// GetFloatParameters returns the model parameters.
	GetFloatParameters() FloatParameters
	// Likelihood returns the log-likelihood for the current
	// parameter values.
	Likelihood() float64
	// Copy returns a deep copy of the model. Observed data may be
	// shared between copies.
	Copy() Optimizable
}

// Gradienter is an Optimizable providing an analytic log-likelihood
// gradient in parameter order.
type Gradienter interface {
	Optimizable
	// Gradient computes the gradient, reusing dst if it is large
	// enough.
	Gradient(dst []float64) []float64
}

// CheckpointFunc receives optimization progress. The callback decides
// itself whether the state is worth persisting.
type CheckpointFunc func(iter int, lnL float64, par map[string]float64, final bool)

// Optimizer is something which can optimize or sample parameters of
// an Optimizable.
type Optimizer interface {
	SetOptimizable(Optimizable)
	SetOutput(io.Writer)
	SetReportPeriod(period int)
	SetCheckpoint(CheckpointFunc)
	WatchSignals(...os.Signal)
	Run(iterations int)
	GetMaxL() float64
	GetMaxLParameters() []float64
	LoadParameters([]float64) error
	PrintResults()
	Summary() Summary
}

// Summary stores summary information of a single optimizer run.
type Summary struct {
	// StartLnL is the log-likelihood of the starting point.
	StartLnL float64 `json:"startLnL"`
	// MaxLnL is the maximum log-likelihood found.
	MaxLnL float64 `json:"maxLnL"`
	// MaxLParameters is the parameter values at the maximum.
	MaxLParameters map[string]float64 `json:"maxLParameters"`
	// Iterations is the number of iterations performed.
	Iterations int `json:"iterations"`
	// Calls is the number of likelihood function calls.
	Calls int `json:"likelihoodCalls"`
	// Status is an optimizer-specific exit status.
	Status string `json:"status,omitempty"`
}

// BaseOptimizer contains basic data for an optimizer.
type BaseOptimizer struct {
	Optimizable
	parameters FloatParameters

	i       int
	calls   int
	startL  float64
	maxL    float64
	maxLPar []float64

	repPeriod  int
	output     io.Writer
	sig        chan os.Signal
	checkpoint CheckpointFunc
	status     string

	// Quiet suppresses trajectory output.
	Quiet bool
}

// SetOptimizable sets a model to optimize.
func (o *BaseOptimizer) SetOptimizable(opt Optimizable) {
	o.Optimizable = opt
	o.parameters = opt.GetFloatParameters()
}

// SetOutput sets the writer receiving the trajectory. Default is
// standard output.
func (o *BaseOptimizer) SetOutput(w io.Writer) {
	o.output = w
}

// SetReportPeriod sets how often the trajectory is written.
func (o *BaseOptimizer) SetReportPeriod(period int) {
	o.repPeriod = period
}

// SetCheckpoint sets a checkpoint callback.
func (o *BaseOptimizer) SetCheckpoint(f CheckpointFunc) {
	o.checkpoint = f
}

// WatchSignals installs a handler so a long run can be interrupted
// while keeping the best point found so far.
func (o *BaseOptimizer) WatchSignals(sigs ...os.Signal) {
	o.sig = make(chan os.Signal, 1)
	signal.Notify(o.sig, sigs...)
}

// stopRequested reports whether a watched signal arrived.
func (o *BaseOptimizer) stopRequested() bool {
	select {
	case s := <-o.sig:
		log.Warningf("Received signal %v, exiting.", s)
		return true
	default:
	}
	return false
}

// LoadParameters sets a starting point. The values must be in the
// parameter order of the model.
func (o *BaseOptimizer) LoadParameters(v []float64) error {
	if len(v) != len(o.parameters) {
		return fmt.Errorf("optimize: expected %d parameter values, got %d", len(o.parameters), len(v))
	}
	if !o.parameters.ValuesInRange(v) {
		return fmt.Errorf("optimize: starting point is out of the parameter range")
	}
	return o.parameters.SetValues(v)
}

// saveStart computes the starting likelihood and initializes the
// maximum-likelihood record.
func (o *BaseOptimizer) saveStart() {
	o.startL = o.Likelihood()
	o.calls++
	o.maxL = o.startL
	o.maxLPar = o.parameters.Values(nil)
}

// record keeps track of the best point found.
func (o *BaseOptimizer) record(l float64) {
	if l > o.maxL {
		o.maxL = l
		o.maxLPar = o.parameters.Values(o.maxLPar)
	}
}

func (o *BaseOptimizer) out() io.Writer {
	if o.output == nil {
		return os.Stdout
	}
	return o.output
}

// PrintHeader writes the trajectory header.
func (o *BaseOptimizer) PrintHeader() {
	if o.Quiet {
		return
	}
	fmt.Fprintf(o.out(), "iteration\tlikelihood\t%s\n", o.parameters.NamesString())
}

// PrintLine writes one trajectory line if the report period allows.
func (o *BaseOptimizer) PrintLine(l float64, period int) {
	if o.Quiet || (period > 0 && o.i%period != 0) {
		return
	}
	fmt.Fprintf(o.out(), "%d\t%f\t%s\n", o.i, l, o.parameters.ValuesString())
}

// PrintResults logs the best point found.
func (o *BaseOptimizer) PrintResults() {
	log.Noticef("Maximum likelihood: %v", o.maxL)
	log.Infof("Likelihood function calls: %v", o.calls)
	for i, par := range o.parameters {
		log.Infof("%s=%f", par.Name(), o.maxLPar[i])
	}
}

// GetMaxL returns the maximum log-likelihood found.
func (o *BaseOptimizer) GetMaxL() float64 {
	return o.maxL
}

// GetMaxLParameters returns the parameter values at the maximum.
func (o *BaseOptimizer) GetMaxLParameters() []float64 {
	return o.maxLPar
}

// saveCheckpoint calls the checkpoint callback if one is installed.
func (o *BaseOptimizer) saveCheckpoint(l float64, final bool) {
	if o.checkpoint == nil {
		return
	}
	o.checkpoint(o.i, l, o.parameters.ValueMap(), final)
}

// Summary returns optimization summary.
func (o *BaseOptimizer) Summary() Summary {
	par := make(map[string]float64, len(o.parameters))
	if o.maxLPar != nil {
		for i, p := range o.parameters {
			par[p.Name()] = o.maxLPar[i]
		}
	}
	return Summary{
		StartLnL:       o.startL,
		MaxLnL:         o.maxL,
		MaxLParameters: par,
		Iterations:     o.i,
		Calls:          o.calls,
		Status:         o.status,
	}
}
