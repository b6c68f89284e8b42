package optimize

import (
	"fmt"
	"math"

	lbfgsb "github.com/idavydov/go-lbfgsb"
)

// LBFGSB is a limited-memory BFGS optimizer with bound constraints.
// It uses the analytic gradient when the model provides one and
// central finite differences otherwise.
type LBFGSB struct {
	BaseOptimizer
	dH   float64
	grad []float64
}

// NewLBFGSB creates a new LBFGSB optimizer.
func NewLBFGSB() (l *LBFGSB) {
	l = &LBFGSB{
		BaseOptimizer: BaseOptimizer{
			repPeriod: 10,
		},
		dH: 1e-6,
	}
	return
}

// Logger is called by the lbfgsb library on every iteration.
func (l *LBFGSB) Logger(info *lbfgsb.OptimizationIterationInformation) {
	l.i = info.Iteration
	l.parameters.SetValues(info.X)
	l.PrintLine(-info.F, l.repPeriod)
	l.saveCheckpoint(-info.F, false)
	if l.stopRequested() {
		log.Fatal("Exiting during optimization")
	}
}

// EvaluateFunction returns the negative log-likelihood at x.
func (l *LBFGSB) EvaluateFunction(x []float64) float64 {
	if !l.parameters.ValuesInRange(x) {
		return math.Inf(+1)
	}

	l.parameters.SetValues(x)
	L := l.Likelihood()
	l.calls++
	l.record(L)
	return -L
}

// EvaluateGradient returns the gradient of the negative
// log-likelihood at x.
func (l *LBFGSB) EvaluateGradient(x []float64) (grad []float64) {
	if l.grad == nil {
		l.grad = make([]float64, len(x))
	}
	grad = l.grad

	if g, ok := l.Optimizable.(Gradienter); ok {
		l.parameters.SetValues(x)
		g.Gradient(grad)
		for i := range grad {
			grad[i] = -grad[i]
		}
		l.calls++
		return grad
	}

	for i := range x {
		no := l.Optimizable.Copy()
		par := no.GetFloatParameters()
		par.SetValues(x)

		par[i].Set(x[i] - l.dH)
		l1 := -no.Likelihood()

		par[i].Set(x[i] + l.dH)
		l2 := -no.Likelihood()
		l.calls += 2

		grad[i] = (l2 - l1) / (2 * l.dH)
	}
	return grad
}

// Run starts the optimization.
func (l *LBFGSB) Run(iterations int) {
	l.saveStart()
	l.PrintHeader()

	bounds := make([][2]float64, len(l.parameters))
	for i, par := range l.parameters {
		bounds[i][0] = par.GetMin() + 1e-5
		bounds[i][1] = par.GetMax() - 1e-5
	}

	opt := new(lbfgsb.Lbfgsb)
	opt.SetApproximationSize(10)
	opt.SetFTolerance(1e-9)
	opt.SetGTolerance(1e-9)

	opt.SetBounds(bounds)
	opt.SetLogger(l.Logger)

	_, exitStatus := opt.Minimize(l, l.parameters.Values(nil))
	l.status = fmt.Sprint(exitStatus)
	log.Info("Exit status: ", exitStatus)

	// leave the model at the best point found
	l.parameters.SetValues(l.maxLPar)
	l.saveCheckpoint(l.maxL, true)
}
