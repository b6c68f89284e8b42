package landscape

import (
	"encoding/csv"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Stripped is the transposed landscape with empty sites and
// never-observed species removed, the input convention of the
// external permutation-test program.
type Stripped struct {
	// Species is the surviving species names, in row order.
	Species []string
	// Sites is the original indices of the surviving sites, in
	// column order.
	Sites []int
	// X is the species-by-site matrix.
	X *mat.Dense
}

// Stripped builds the stripped, transposed view of the landscape.
func (l *Landscape) Stripped() *Stripped {
	r, c := l.x.Dims()

	var sites []int
	for s := 0; s < r; s++ {
		for j := 0; j < c; j++ {
			if l.x.At(s, j) > 0 {
				sites = append(sites, s)
				break
			}
		}
	}
	var species []int
	for j := 0; j < c; j++ {
		for s := 0; s < r; s++ {
			if l.x.At(s, j) > 0 {
				species = append(species, j)
				break
			}
		}
	}

	st := &Stripped{
		Sites:   sites,
		Species: make([]string, len(species)),
	}
	if len(sites) == 0 || len(species) == 0 {
		return st
	}
	st.X = mat.NewDense(len(species), len(sites), nil)
	for a, j := range species {
		st.Species[a] = l.species[j]
		for b, s := range sites {
			st.X.Set(a, b, l.x.At(s, j))
		}
	}
	return st
}

// WriteCSV writes the stripped matrix with species names in the
// first column and site columns named by original site number.
func (s *Stripped) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(s.Sites)+1)
	header[0] = "species"
	for b, site := range s.Sites {
		header[b+1] = "site" + strconv.Itoa(site+1)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(s.Sites)+1)
	for a, name := range s.Species {
		rec[0] = name
		for b := range s.Sites {
			rec[b+1] = strconv.FormatInt(int64(s.X.At(a, b)), 10)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
