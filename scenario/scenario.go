// Package scenario loads experiment descriptions: grids of
// simulation runs over landscape sizes and replicates.
package scenario

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/op/go-logging"
	"gopkg.in/yaml.v3"

	"github.com/mnetlab/coocnet/mnet"
	"github.com/mnetlab/coocnet/sim"
)

// log is the global logging variable.
var log = logging.MustGetLogger("scenario")

//go:embed defaults.yaml
var defaultsYAML []byte

// File is one scenario file.
type File struct {
	// Seed is the base seed; every run derives its own
	// independent seed from it.
	Seed uint64 `yaml:"seed"`
	// Output is the output directory.
	Output string `yaml:"output"`
	// Scenarios is the experiment grid.
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario describes one cell family of the experiment grid.
type Scenario struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"`
	Species int    `yaml:"species"`
	// Sites lists the landscape sizes to simulate.
	Sites  []int `yaml:"sites"`
	Sweeps int   `yaml:"sweeps"`
	// PNeg and MeanAlpha override the mode defaults when set.
	PNeg        *float64    `yaml:"p_neg"`
	MeanAlpha   *float64    `yaml:"mean_alpha"`
	Environment EnvSettings `yaml:"environment"`
	Replicates  int         `yaml:"replicates"`
}

// EnvSettings describes the environmental covariates of a scenario.
type EnvSettings struct {
	Covariates int     `yaml:"covariates"`
	SD         float64 `yaml:"sd"`
}

// Run is one fully expanded simulation run.
type Run struct {
	// Scenario is the name of the owning scenario.
	Scenario string
	// Label identifies the run, e.g. "pa-s0200-r03".
	Label string
	// Replicate is the replicate number within the grid cell.
	Replicate int
	Config    sim.Config
}

// Default returns the embedded default experiment.
func Default() (*File, error) {
	return parse(defaultsYAML)
}

// Load reads a scenario file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario: %s: %v", path, err)
	}
	return f, nil
}

func parse(data []byte) (*File, error) {
	f := new(File)
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, err
	}
	if len(f.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios defined")
	}
	if f.Output == "" {
		f.Output = "runs"
	}
	return f, nil
}

// Runs expands the experiment grid into individual runs, each with
// its own derived seed. Every configuration is validated, so a bad
// scenario is rejected before anything is simulated.
func (f *File) Runs() ([]Run, error) {
	var runs []Run
	idx := 0
	for _, sc := range f.Scenarios {
		mode, err := mnet.ParseMode(sc.Mode)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %v", sc.Name, err)
		}
		reps := sc.Replicates
		if reps == 0 {
			reps = 1
		}
		sites := sc.Sites
		if len(sites) == 0 {
			sites = []int{sim.Default(mode).NSites}
		}
		for _, nSites := range sites {
			for r := 0; r < reps; r++ {
				cfg := sim.Default(mode)
				cfg.NSpecies = sc.Species
				cfg.NSites = nSites
				if sc.Sweeps > 0 {
					cfg.NSweeps = sc.Sweeps
				}
				if sc.PNeg != nil {
					cfg.PNeg = *sc.PNeg
				}
				if sc.MeanAlpha != nil {
					cfg.MeanAlpha = *sc.MeanAlpha
				}
				cfg.NEnv = sc.Environment.Covariates
				if sc.Environment.SD > 0 {
					cfg.EnvSD = sc.Environment.SD
				}
				cfg.Seed = DeriveSeed(f.Seed, idx)
				idx++

				if err := cfg.Validate(); err != nil {
					return nil, fmt.Errorf("scenario %q: %v", sc.Name, err)
				}
				runs = append(runs, Run{
					Scenario:  sc.Name,
					Label:     fmt.Sprintf("%s-s%04d-r%02d", sc.Name, nSites, r),
					Replicate: r,
					Config:    cfg,
				})
			}
		}
	}
	log.Infof("Expanded %d scenarios into %d runs", len(f.Scenarios), len(runs))
	return runs, nil
}

// DeriveSeed derives the i-th run seed from the base seed
// (splitmix64 step), so runs are independently seeded and
// reproducible in any execution order.
func DeriveSeed(base uint64, i int) uint64 {
	z := base + uint64(i+1)*0x9e3779b97f4a7c15
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}
