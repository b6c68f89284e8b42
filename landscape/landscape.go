// Package landscape holds simulated site-by-species matrices and
// their delimited-text representation.
package landscape

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Landscape is a site-by-species matrix. Cells are 0/1 indicators in
// presence-absence mode and non-negative counts in abundance mode;
// values are stored as float64 but are always integral.
type Landscape struct {
	species []string
	x       *mat.Dense
}

// SpeciesNames returns the stable column names sp1..spN.
func SpeciesNames(n int) []string {
	s := make([]string, n)
	for i := range s {
		s[i] = "sp" + strconv.Itoa(i+1)
	}
	return s
}

// New creates an empty landscape.
func New(nSites int, species []string) (*Landscape, error) {
	if nSites < 1 {
		return nil, fmt.Errorf("landscape: need at least one site, got %d", nSites)
	}
	if len(species) < 2 {
		return nil, fmt.Errorf("landscape: need at least 2 species, got %d", len(species))
	}
	return &Landscape{
		species: species,
		x:       mat.NewDense(nSites, len(species), nil),
	}, nil
}

// FromDense wraps a matrix into a landscape. A nil species slice
// gets the default names.
func FromDense(x *mat.Dense, species []string) (*Landscape, error) {
	_, n := x.Dims()
	if species == nil {
		species = SpeciesNames(n)
	}
	if len(species) != n {
		return nil, fmt.Errorf("landscape: %d species names for %d columns", len(species), n)
	}
	return &Landscape{species: species, x: x}, nil
}

// Sites returns the number of sites.
func (l *Landscape) Sites() int {
	r, _ := l.x.Dims()
	return r
}

// NSpecies returns the number of species.
func (l *Landscape) NSpecies() int {
	return len(l.species)
}

// Species returns the species column names.
func (l *Landscape) Species() []string {
	return l.species
}

// At returns the cell value at a site and species.
func (l *Landscape) At(site, sp int) float64 {
	return l.x.At(site, sp)
}

// Set sets a cell value.
func (l *Landscape) Set(site, sp int, v float64) {
	l.x.Set(site, sp, v)
}

// Matrix returns the underlying matrix.
func (l *Landscape) Matrix() *mat.Dense {
	return l.x
}

// IsBinary reports whether every cell is 0 or 1.
func (l *Landscape) IsBinary() bool {
	r, c := l.x.Dims()
	for s := 0; s < r; s++ {
		for j := 0; j < c; j++ {
			if v := l.x.At(s, j); v != 0 && v != 1 {
				return false
			}
		}
	}
	return true
}

// Binarize returns a presence-absence view (cell > 0) for
// downstream methods which require binary data.
func (l *Landscape) Binarize() *Landscape {
	r, c := l.x.Dims()
	b := mat.NewDense(r, c, nil)
	for s := 0; s < r; s++ {
		for j := 0; j < c; j++ {
			if l.x.At(s, j) > 0 {
				b.Set(s, j, 1)
			}
		}
	}
	return &Landscape{species: l.species, x: b}
}

// ColumnMeans returns the per-species mean cell value.
func (l *Landscape) ColumnMeans() []float64 {
	r, c := l.x.Dims()
	means := make([]float64, c)
	for j := 0; j < c; j++ {
		var sum float64
		for s := 0; s < r; s++ {
			sum += l.x.At(s, j)
		}
		means[j] = sum / float64(r)
	}
	return means
}

// Occupancy returns the number of sites where each species is
// present.
func (l *Landscape) Occupancy() []int {
	r, c := l.x.Dims()
	occ := make([]int, c)
	for j := 0; j < c; j++ {
		for s := 0; s < r; s++ {
			if l.x.At(s, j) > 0 {
				occ[j]++
			}
		}
	}
	return occ
}

// WriteCSV writes the landscape as comma-delimited text with a
// species-name header.
func (l *Landscape) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(l.species); err != nil {
		return err
	}
	r, c := l.x.Dims()
	rec := make([]string, c)
	for s := 0; s < r; s++ {
		for j := 0; j < c; j++ {
			rec[j] = strconv.FormatInt(int64(l.x.At(s, j)), 10)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a landscape written by WriteCSV.
func ReadCSV(r io.Reader) (*Landscape, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("landscape: reading header: %v", err)
	}
	var cells []float64
	nSites := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("landscape: site %d: %v", nSites+1, err)
		}
		for j, f := range rec {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("landscape: site %d, column %d: %v", nSites+1, j+1, err)
			}
			if v < 0 || v != float64(int64(v)) {
				return nil, fmt.Errorf("landscape: site %d, column %d: invalid cell value %v", nSites+1, j+1, v)
			}
			cells = append(cells, v)
		}
		nSites++
	}
	if nSites == 0 {
		return nil, fmt.Errorf("landscape: no sites")
	}
	return FromDense(mat.NewDense(nSites, len(header), cells), header)
}
