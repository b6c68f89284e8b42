package main

import (
	"encoding/json"
	"os"

	"github.com/mnetlab/coocnet/optimize"
)

// CallSummary stores summary information of one coocnet invocation.
type CallSummary struct {
	// Version stores the coocnet version.
	Version string `json:"version"`
	// CommandLine is the binary name and all command-line
	// parameters.
	CommandLine []string `json:"commandLine"`
	// Seed is the random number generator seed.
	Seed int64 `json:"seed"`
	// NThreads is the number of threads used.
	NThreads int `json:"nThreads"`
	// TotalTime is the running time in seconds.
	TotalTime float64 `json:"time"`
	// Sim stores per-landscape simulation summaries.
	Sim []RunSummary `json:"sim,omitempty"`
	// Fit stores the fit summary.
	Fit *FitSummary `json:"fit,omitempty"`
}

// RunSummary stores summary information of one simulated landscape.
type RunSummary struct {
	// Label identifies the run.
	Label string `json:"label"`
	// Seed is the run's derived seed.
	Seed uint64 `json:"seed"`
	// Sites, Species and Sweeps echo the run configuration.
	Sites   int `json:"sites"`
	Species int `json:"species"`
	Sweeps  int `json:"sweeps"`
	// Mode is the simulation mode.
	Mode string `json:"mode"`
	// MeanOccupancy is the mean fraction of occupied cells.
	MeanOccupancy float64 `json:"meanOccupancy"`
	// ConstantSpecies is the number of species which ended up
	// present everywhere or nowhere.
	ConstantSpecies int `json:"constantSpecies"`
	// Time is the simulation time in seconds.
	Time float64 `json:"simulationTime"`
}

// FitSummary stores summary information of one fit.
type FitSummary struct {
	// Landscape is the fitted landscape file.
	Landscape string `json:"landscape"`
	// Method is the fitting method.
	Method string `json:"method"`
	// Sites and Species echo the landscape dimensions.
	Sites   int `json:"sites"`
	Species int `json:"species"`
	// ConstantSpecies is the number of degenerate species columns.
	ConstantSpecies int `json:"constantSpecies"`
	// TruthCorrelation is the correlation between estimated and
	// true pairwise coefficients, if a truth file was given.
	TruthCorrelation *float64 `json:"truthCorrelation,omitempty"`
	// SignAgreement is the fraction of pairs whose estimated sign
	// matches the truth, if a truth file was given.
	SignAgreement *float64 `json:"signAgreement,omitempty"`
	// Optimizer is the optimizer summary.
	Optimizer optimize.Summary `json:"optimizer"`
}

// writeJSON writes a summary to a JSON file.
func writeJSON(filename string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(filename, data, 0666)
}
