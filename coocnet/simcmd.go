package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/mnetlab/coocnet/landscape"
	"github.com/mnetlab/coocnet/mnet"
	"github.com/mnetlab/coocnet/scenario"
	"github.com/mnetlab/coocnet/sim"
)

// runSim simulates all requested landscapes, one worker per thread.
// Every run has a private random source, so workers share nothing
// mutable.
func runSim(summary *CallSummary) error {
	runs, outDir, err := simRuns()
	if err != nil {
		return err
	}
	log.Noticef("Simulating %d landscapes into %s", len(runs), outDir)

	jobs := make(chan scenario.Run, len(runs))
	for _, r := range runs {
		jobs <- r
	}
	close(jobs)

	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	for w := 0; w < *nThreads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for run := range jobs {
				rs, err := simulateRun(outDir, run)
				mu.Lock()
				if err != nil {
					log.Errorf("Run %s: %v", run.Label, err)
					if firstErr == nil {
						firstErr = err
					}
				} else {
					summary.Sim = append(summary.Sim, *rs)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return firstErr
}

// simRuns builds the run list from a scenario file or from the
// single-run flags.
func simRuns() ([]scenario.Run, string, error) {
	if *simScenario != "" {
		f, err := scenario.Load(*simScenario)
		if err != nil {
			return nil, "", err
		}
		if f.Seed == 0 {
			f.Seed = uint64(*seed)
		}
		runs, err := f.Runs()
		if err != nil {
			return nil, "", err
		}
		out := f.Output
		if *simOut != "runs" {
			out = *simOut
		}
		return runs, out, nil
	}

	mode, err := mnet.ParseMode(*simModeF)
	if err != nil {
		return nil, "", err
	}
	cfg := sim.Default(mode)
	cfg.NSpecies = *simSpecies
	cfg.NSites = *simSites
	cfg.NSweeps = *simSweeps
	cfg.NEnv = *simEnv
	cfg.EnvSD = *simEnvSD
	cfg.PNeg = *simPNeg
	cfg.MeanAlpha = *simMeanAlpha
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	runs := make([]scenario.Run, *simReps)
	for r := range runs {
		c := cfg
		if *simReps == 1 {
			c.Seed = uint64(*seed)
		} else {
			c.Seed = scenario.DeriveSeed(uint64(*seed), r)
		}
		runs[r] = scenario.Run{
			Scenario:  "run",
			Label:     fmt.Sprintf("run-r%02d", r),
			Replicate: r,
			Config:    c,
		}
	}
	return runs, *simOut, nil
}

// simulateRun simulates one landscape and writes all its files.
func simulateRun(outDir string, run scenario.Run) (*RunSummary, error) {
	start := time.Now()
	res, err := sim.Run(run.Config)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(outDir, run.Label)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	if err := writeRun(dir, res); err != nil {
		return nil, err
	}

	occ := res.Landscape.Occupancy()
	constant := 0
	present := 0
	for _, o := range occ {
		present += o
		if o == 0 || o == res.Landscape.Sites() {
			constant++
		}
	}
	cells := res.Landscape.Sites() * res.Landscape.NSpecies()

	return &RunSummary{
		Label:           run.Label,
		Seed:            run.Config.Seed,
		Sites:           run.Config.NSites,
		Species:         run.Config.NSpecies,
		Sweeps:          run.Config.NSweeps,
		Mode:            run.Config.Mode.String(),
		MeanOccupancy:   float64(present) / float64(cells),
		ConstantSpecies: constant,
		Time:            time.Since(start).Seconds(),
	}, nil
}

// writeRun writes the landscape, the ground truth and the optional
// derived views of one run.
func writeRun(dir string, res *sim.Result) error {
	if err := writeFile(dir, "landscape.csv", res.Landscape.WriteCSV); err != nil {
		return err
	}

	species := res.Landscape.Species()
	pairs, err := landscape.PairTable(species, res.Truth.Pairs)
	if err != nil {
		return err
	}
	err = writeFile(dir, "truth.csv", func(w io.Writer) error {
		return landscape.WritePairs(w, pairs)
	})
	if err != nil {
		return err
	}

	alphas, err := landscape.SpeciesTable(species, res.Truth.Alpha)
	if err != nil {
		return err
	}
	err = writeFile(dir, "alpha.csv", func(w io.Writer) error {
		return landscape.WriteSpecies(w, alphas)
	})
	if err != nil {
		return err
	}

	if res.Env != nil {
		err = writeFile(dir, "env.csv", func(w io.Writer) error {
			return writeMatrixCSV(w, "env", res.Env.Values)
		})
		if err != nil {
			return err
		}
		err = writeFile(dir, "envweights.csv", func(w io.Writer) error {
			return writeMatrixCSV(w, "sp", res.Env.Weights)
		})
		if err != nil {
			return err
		}
	}

	if *simStripped {
		st := res.Landscape.Binarize().Stripped()
		if err := writeFile(dir, "stripped.csv", st.WriteCSV); err != nil {
			return err
		}
	}

	if *simBinary && res.Config.Mode == mnet.Abundance {
		bin := res.Landscape.Binarize()
		if err := writeFile(dir, "binary.csv", bin.WriteCSV); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(dir, name string, write func(io.Writer) error) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %v", name, err)
	}
	return nil
}

// writeMatrixCSV writes a float matrix with numbered columns.
func writeMatrixCSV(w io.Writer, prefix string, m *mat.Dense) error {
	cw := csv.NewWriter(w)
	r, c := m.Dims()
	header := make([]string, c)
	for j := range header {
		header[j] = prefix + strconv.Itoa(j+1)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	rec := make([]string, c)
	for s := 0; s < r; s++ {
		for j := 0; j < c; j++ {
			rec[j] = strconv.FormatFloat(m.At(s, j), 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
