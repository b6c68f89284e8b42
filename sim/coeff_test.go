package sim

import (
	"testing"

	"github.com/mnetlab/coocnet/mnet"
)

func TestDrawCoefficients(tst *testing.T) {
	c := Default(mnet.PresenceAbsence)
	c.NSpecies = 6
	c.Seed = 7

	p, err := DrawCoefficients(&c, newRNG(c.Seed))
	if err != nil {
		tst.Error("Error: ", err)
	}
	if len(p.Alpha) != 6 {
		tst.Errorf("%d intercepts, expected 6", len(p.Alpha))
	}
	if len(p.Pairs) != mnet.NPairs(6) {
		tst.Errorf("%d pairs, expected %d", len(p.Pairs), mnet.NPairs(6))
	}

	// identical seeds give identical draws
	q, err := DrawCoefficients(&c, newRNG(c.Seed))
	if err != nil {
		tst.Error("Error: ", err)
	}
	for k := range p.Pairs {
		if p.Pairs[k] != q.Pairs[k] {
			tst.Error("coefficient draw is not deterministic")
			break
		}
	}
}

func TestCoefficientSigns(tst *testing.T) {
	c := Default(mnet.PresenceAbsence)
	c.NSpecies = 10
	c.Seed = 1

	c.PNeg = 1
	p, err := DrawCoefficients(&c, newRNG(c.Seed))
	if err != nil {
		tst.Error("Error: ", err)
	}
	for k, v := range p.Pairs {
		if v >= 0 {
			tst.Errorf("pair %d is %v, expected negative with pneg=1", k, v)
		}
	}

	c.PNeg = 0
	p, err = DrawCoefficients(&c, newRNG(c.Seed))
	if err != nil {
		tst.Error("Error: ", err)
	}
	for k, v := range p.Pairs {
		if v <= 0 {
			tst.Errorf("pair %d is %v, expected positive with pneg=0", k, v)
		}
	}
}
