package landscape

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/mnetlab/coocnet/mnet"
)

// PairRecord is one row of a truth or estimate table. Rows are
// always written in canonical pair order, so two tables for the same
// species set can be compared index for index.
type PairRecord struct {
	Pair     string  `csv:"pair"`
	SpeciesA string  `csv:"sp_a"`
	SpeciesB string  `csv:"sp_b"`
	Value    float64 `csv:"value"`
}

// SpeciesRecord is one row of an intercept table.
type SpeciesRecord struct {
	Species string  `csv:"species"`
	Value   float64 `csv:"value"`
}

// PairTable builds the pair table of a coefficient vector in
// canonical pair order.
func PairTable(species []string, values []float64) ([]PairRecord, error) {
	n := len(species)
	if len(values) != mnet.NPairs(n) {
		return nil, fmt.Errorf("landscape: %d pair values for %d species", len(values), n)
	}
	recs := make([]PairRecord, len(values))
	for k, v := range values {
		i, j := mnet.PairSpecies(k, n)
		recs[k] = PairRecord{
			Pair:     mnet.PairLabel(i, j),
			SpeciesA: species[i],
			SpeciesB: species[j],
			Value:    v,
		}
	}
	return recs, nil
}

// SpeciesTable builds the intercept table.
func SpeciesTable(species []string, values []float64) ([]SpeciesRecord, error) {
	if len(values) != len(species) {
		return nil, fmt.Errorf("landscape: %d intercepts for %d species", len(values), len(species))
	}
	recs := make([]SpeciesRecord, len(values))
	for i, v := range values {
		recs[i] = SpeciesRecord{Species: species[i], Value: v}
	}
	return recs, nil
}

// WritePairs writes a pair table as CSV.
func WritePairs(w io.Writer, recs []PairRecord) error {
	return gocsv.Marshal(&recs, w)
}

// ReadPairs reads a pair table.
func ReadPairs(r io.Reader) ([]PairRecord, error) {
	var recs []PairRecord
	if err := gocsv.Unmarshal(r, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// WriteSpecies writes an intercept table as CSV.
func WriteSpecies(w io.Writer, recs []SpeciesRecord) error {
	return gocsv.Marshal(&recs, w)
}

// ReadSpecies reads an intercept table.
func ReadSpecies(r io.Reader) ([]SpeciesRecord, error) {
	var recs []SpeciesRecord
	if err := gocsv.Unmarshal(r, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Values extracts the value column of a pair table.
func Values(recs []PairRecord) []float64 {
	v := make([]float64, len(recs))
	for i, r := range recs {
		v[i] = r.Value
	}
	return v
}
