/*

Coocnet simulates species co-occurrence landscapes from pairwise
Markov networks and fits the same networks back to observed
landscapes by exact maximum likelihood.

Simulate one presence-absence landscape:

	coocnet sim --species 20 --sites 200 --sweeps 1000 --out run1

Run a whole scenario file, one landscape per worker:

	coocnet sim --scenario experiment.yaml

Fit a Markov network to a landscape and compare against the truth:

	coocnet fit --truth run1/run-r00/truth.csv run1/run-r00/landscape.csv

To see all the options run:

	coocnet -h

*/
package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/op/go-logging"
	"gopkg.in/alecthomas/kingpin.v2"
)

// These variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("coocnet")
var formatter = logging.MustStringFormatter(`%{message}`)

// loggers of all the packages of the module.
var loggers = []string{"coocnet", "sim", "scenario", "optimize", "checkpoint"}

// command-line options
var (
	app = kingpin.New("coocnet", "markov network co-occurrence simulator and fitter").Version(version)

	// technical
	nThreads   = app.Flag("nt", "number of threads to use").Int()
	seed       = app.Flag("seed", "random generator seed, default time based").Default("-1").Int64()
	cpuProfile = app.Flag("cpuprofile", "write cpu profile to file").String()

	// input/output
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json run summary to a file").String()

	// simulation
	simCmd      = app.Command("sim", "simulate landscapes")
	simScenario = simCmd.Flag("scenario", "scenario file; overrides the single-run flags").String()
	simOut      = simCmd.Flag("out", "output directory").Default("runs").String()
	simSpecies  = simCmd.Flag("species", "number of species").Default("20").Int()
	simSites    = simCmd.Flag("sites", "number of sites").Default("200").Int()
	simSweeps   = simCmd.Flag("sweeps", "number of gibbs sweeps").Default("1000").Int()
	simModeF    = simCmd.Flag("mode", "simulation mode (presence-absence or abundance)").
			Default("presence-absence").
			Enum("presence-absence", "pa", "abundance", "abund")
	simPNeg = simCmd.Flag("pneg", "probability that a pairwise coefficient is negative").
		Default("0.75").Float64()
	simMeanAlpha = simCmd.Flag("meanalpha", "mean of the intercept distribution").
			Default("0").Float64()
	simEnv = simCmd.Flag("env", "number of environmental covariates").
		Default("0").Int()
	simEnvSD = simCmd.Flag("envsd", "environmental covariate standard deviation").
			Default("1").Float64()
	simReps     = simCmd.Flag("reps", "number of replicate landscapes").Default("1").Int()
	simStripped = simCmd.Flag("stripped", "also write the transposed stripped matrix "+
		"for the permutation-test program").Bool()
	simBinary = simCmd.Flag("binarize", "also write a presence-absence view "+
		"of an abundance landscape").Bool()

	// fitting
	fitCmd       = app.Command("fit", "fit a markov network to a landscape")
	fitLandscape = fitCmd.Arg("landscape", "landscape csv file").Required().ExistingFile()
	fitMethod    = fitCmd.Flag("method", "fitting method to use "+
		"(lbfgsb: limited-memory Broyden-Fletcher-Goldfarb-Shanno with bounds, "+
		"mh: Metropolis-Hastings, "+
		"anneal: simulated annealing, "+
		"none: just compute the likelihood"+
		")").Default("lbfgsb").Enum("lbfgsb", "mh", "anneal", "none")
	fitIter       = fitCmd.Flag("iter", "number of iterations").Default("10000").Int()
	fitReport     = fitCmd.Flag("report", "report every N iterations").Default("10").Int()
	fitAccept     = fitCmd.Flag("accept", "report acceptance rate every N iterations").Default("200").Int()
	fitAdaptive   = fitCmd.Flag("adaptive", "use adaptive MCMC proposals").Bool()
	fitRandomize  = fitCmd.Flag("randomize", "use a uniformly distributed random starting point").Bool()
	fitStart      = fitCmd.Flag("start", "read start position from a trajectory or JSON file").String()
	fitOut        = fitCmd.Flag("out", "write the trajectory to a file").String()
	fitEstimates  = fitCmd.Flag("estimates", "estimates output file").Default("estimates.csv").String()
	fitIntercepts = fitCmd.Flag("intercepts", "intercept estimates output file").Default("intercepts.csv").String()
	fitTruth      = fitCmd.Flag("truth", "truth csv to compare the estimates against").String()
	fitCheckpt    = fitCmd.Flag("checkpoint", "checkpoint database file").String()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	for _, l := range loggers {
		logging.SetLevel(level, l)
	}

	log.Info(version)
	log.Info("Command line:", os.Args)

	if *seed == -1 {
		*seed = time.Now().UnixNano()
		log.Debug("Random seed from time")
	}
	log.Infof("Random seed=%v", *seed)

	if *nThreads < 1 {
		*nThreads = runtime.GOMAXPROCS(0)
	}
	log.Infof("Using up to %d threads", *nThreads)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	startTime := time.Now()
	summary := &CallSummary{
		Version:     version,
		CommandLine: os.Args,
		Seed:        *seed,
		NThreads:    *nThreads,
	}

	switch cmd {
	case simCmd.FullCommand():
		err = runSim(summary)
	case fitCmd.FullCommand():
		err = runFit(summary)
	}
	if err != nil {
		log.Fatal(err)
	}

	summary.TotalTime = time.Since(startTime).Seconds()
	log.Noticef("Running time: %v", time.Since(startTime))

	if *jsonF != "" {
		if err := writeJSON(*jsonF, summary); err != nil {
			log.Error("Error writing json summary:", err)
		}
	}
}
