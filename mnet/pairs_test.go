package mnet

import "testing"

func TestPairOrder(tst *testing.T) {
	// canonical order for 4 species
	want := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	if NPairs(4) != len(want) {
		tst.Errorf("NPairs(4)=%d, expected %d", NPairs(4), len(want))
	}
	for k, pair := range want {
		if idx := PairIndex(pair[0], pair[1], 4); idx != k {
			tst.Errorf("PairIndex(%d,%d)=%d, expected %d", pair[0], pair[1], idx, k)
		}
		// symmetric lookup
		if idx := PairIndex(pair[1], pair[0], 4); idx != k {
			tst.Errorf("PairIndex(%d,%d)=%d, expected %d", pair[1], pair[0], idx, k)
		}
		i, j := PairSpecies(k, 4)
		if i != pair[0] || j != pair[1] {
			tst.Errorf("PairSpecies(%d)=(%d,%d), expected (%d,%d)", k, i, j, pair[0], pair[1])
		}
	}
}

func TestPairRoundTrip(tst *testing.T) {
	for _, n := range []int{2, 3, 5, 20} {
		for k := 0; k < NPairs(n); k++ {
			i, j := PairSpecies(k, n)
			if PairIndex(i, j, n) != k {
				tst.Errorf("n=%d: pair %d does not round trip", n, k)
			}
		}
	}
}

func TestPairLabel(tst *testing.T) {
	if l := PairLabel(0, 2); l != "sp1-sp3" {
		tst.Errorf("PairLabel(0,2)=%q", l)
	}
	if l := PairLabel(2, 0); l != "sp1-sp3" {
		tst.Errorf("PairLabel(2,0)=%q", l)
	}
}

func TestBetaSymmetry(tst *testing.T) {
	p, err := NewParams(5)
	if err != nil {
		tst.Error("Error: ", err)
	}
	for k := range p.Pairs {
		p.Pairs[k] = float64(k + 1)
	}
	b := p.Beta()
	for i := 0; i < 5; i++ {
		if b.At(i, i) != 0 {
			tst.Errorf("beta[%d][%d]=%v, expected zero diagonal", i, i, b.At(i, i))
		}
		for j := 0; j < 5; j++ {
			if b.At(i, j) != b.At(j, i) {
				tst.Errorf("beta[%d][%d] != beta[%d][%d]", i, j, j, i)
			}
			if i != j && b.At(i, j) != p.Pairs[PairIndex(i, j, 5)] {
				tst.Errorf("beta[%d][%d] does not match the pair vector", i, j)
			}
		}
	}
}

func TestNewParamsInvalid(tst *testing.T) {
	if _, err := NewParams(1); err == nil {
		tst.Error("expected error for a single species")
	}
}
