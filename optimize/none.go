package optimize

// None is an optimizer which computes the starting likelihood and
// exits.
type None struct {
	BaseOptimizer
}

// NewNone creates an optimizer which computes the initial likelihood
// only.
func NewNone() *None {
	return &None{}
}

// Run computes the likelihood of the starting point.
func (n *None) Run(iterations int) {
	n.saveStart()
	n.PrintHeader()
	n.PrintLine(n.startL, 0)
	n.saveCheckpoint(n.startL, true)
}
