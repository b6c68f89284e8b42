package mnet

import (
	"math"
	"testing"
)

func TestLogisticSaturation(tst *testing.T) {
	for _, x := range []float64{1000, 1e300, math.Inf(1)} {
		p := Logistic(x)
		if math.IsNaN(p) || math.IsInf(p, 0) {
			tst.Errorf("Logistic(%v) is not finite: %v", x, p)
		}
		if p != Logistic(LinkMax) {
			tst.Errorf("Logistic(%v)=%v, expected saturation at %v", x, p, Logistic(LinkMax))
		}
		if p < 0.999 || p > 1 {
			tst.Errorf("Logistic(%v)=%v, expected ~1", x, p)
		}
	}
	for _, x := range []float64{-1000, -1e300, math.Inf(-1)} {
		p := Logistic(x)
		if math.IsNaN(p) || p < 0 || p > 1e-10 {
			tst.Errorf("Logistic(%v)=%v, expected ~0", x, p)
		}
	}
	if p := Logistic(0); p != 0.5 {
		tst.Errorf("Logistic(0)=%v, expected 0.5", p)
	}
}

func TestSoftplusSaturation(tst *testing.T) {
	for _, x := range []float64{1000, 1e300, math.Inf(1)} {
		r := Softplus(x)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			tst.Errorf("Softplus(%v) is not finite: %v", x, r)
		}
		if r != Softplus(LinkMax) {
			tst.Errorf("Softplus(%v)=%v, expected saturation at %v", x, r, Softplus(LinkMax))
		}
	}
	r := Softplus(-1000)
	if math.IsNaN(r) || r < 0 {
		tst.Errorf("Softplus(-1000)=%v, expected a small positive rate", r)
	}
	// softplus(0) = ln 2
	if d := math.Abs(Softplus(0) - math.Ln2); d > 1e-12 {
		tst.Errorf("Softplus(0) off by %v", d)
	}
	// close to identity for large arguments inside the clamp
	if d := math.Abs(Softplus(20) - 20); d > 1e-8 {
		tst.Errorf("Softplus(20)=%v, expected ~20", Softplus(20))
	}
}

func TestModeLink(tst *testing.T) {
	if Logistic(1.3) != PresenceAbsence.Link(1.3) {
		tst.Error("presence-absence link is not logistic")
	}
	if Softplus(1.3) != Abundance.Link(1.3) {
		tst.Error("abundance link is not softplus")
	}
}

func TestParseMode(tst *testing.T) {
	for s, want := range map[string]Mode{
		"presence-absence": PresenceAbsence,
		"pa":               PresenceAbsence,
		"abundance":        Abundance,
		"abund":            Abundance,
	} {
		m, err := ParseMode(s)
		if err != nil {
			tst.Error("Error: ", err)
		}
		if m != want {
			tst.Errorf("ParseMode(%q)=%v, expected %v", s, m, want)
		}
	}
	if _, err := ParseMode("counts"); err == nil {
		tst.Error("expected error for unknown mode")
	}
}
