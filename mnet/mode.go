package mnet

import "fmt"

// Mode selects the link function and the conditional sampling
// distribution of a simulation. The set is closed: every mode pairs
// one link with one distribution.
type Mode int

const (
	// PresenceAbsence uses the logistic link and Bernoulli
	// sampling; cells are 0/1 indicators.
	PresenceAbsence Mode = iota
	// Abundance uses the softplus link and Poisson sampling;
	// cells are non-negative counts.
	Abundance
)

// ParseMode returns a mode from its string representation.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "presence-absence", "pa":
		return PresenceAbsence, nil
	case "abundance", "abund":
		return Abundance, nil
	}
	return PresenceAbsence, fmt.Errorf("mnet: unknown mode %q", s)
}

func (m Mode) String() string {
	switch m {
	case PresenceAbsence:
		return "presence-absence"
	case Abundance:
		return "abundance"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Link applies the mode's link function: Bernoulli probability for
// presence-absence, Poisson rate for abundance.
func (m Mode) Link(x float64) float64 {
	if m == Abundance {
		return Softplus(x)
	}
	return Logistic(x)
}
