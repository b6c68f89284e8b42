package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"syscall"
	"time"

	bolt "go.etcd.io/bbolt"
	"gonum.org/v1/gonum/stat"

	"github.com/mnetlab/coocnet/checkpoint"
	"github.com/mnetlab/coocnet/landscape"
	"github.com/mnetlab/coocnet/mnet"
	"github.com/mnetlab/coocnet/optimize"
)

// runFit fits a Markov network to an observed landscape by exact
// maximum likelihood.
func runFit(summary *CallSummary) error {
	f, err := os.Open(*fitLandscape)
	if err != nil {
		return err
	}
	ls, err := landscape.ReadCSV(f)
	f.Close()
	if err != nil {
		return err
	}
	log.Infof("Read landscape of %d sites x %d species", ls.Sites(), ls.NSpecies())

	if !ls.IsBinary() {
		log.Notice("Abundance landscape, fitting the presence-absence view")
		ls = ls.Binarize()
	}

	m, err := mnet.NewModel(ls.Matrix())
	if err != nil {
		return err
	}
	if c := m.ConstantSpecies(); c > 0 {
		log.Warningf("%d species are present everywhere or nowhere; "+
			"their intercept estimates will run into the bounds", c)
	}
	log.Infof("Model has %d parameters", len(m.GetFloatParameters()))

	rng := rand.New(rand.NewPCG(uint64(*seed), uint64(*seed)>>1))

	if *fitAdaptive {
		log.Info("Using adaptive MCMC proposals")
		m.SetAdaptive(optimize.NewAdaptiveSettings())
	}

	if *fitStart != "" {
		if err := readStart(m.GetFloatParameters(), *fitStart); err != nil {
			return err
		}
	} else if *fitRandomize {
		log.Info("Using uniform (in the boundaries) random starting point")
		m.GetFloatParameters().Randomize(rng)
	}

	opt, err := newOptimizer(rng)
	if err != nil {
		return err
	}
	log.Infof("Using %s fitting", *fitMethod)

	opt.SetOptimizable(m)
	opt.SetReportPeriod(*fitReport)
	opt.WatchSignals(os.Interrupt, syscall.SIGUSR2)

	out := io.Writer(os.Stdout)
	if *fitOut != "" {
		tf, err := os.Create(*fitOut)
		if err != nil {
			return fmt.Errorf("creating trajectory file: %v", err)
		}
		defer tf.Close()
		out = tf
	}
	opt.SetOutput(out)

	if *fitCheckpt != "" {
		db, err := bolt.Open(*fitCheckpt, 0666, nil)
		if err != nil {
			return fmt.Errorf("opening checkpoint database: %v", err)
		}
		defer db.Close()

		key := []byte(*fitLandscape + ":" + *fitMethod)
		store := checkpoint.NewStore(db, key, 30*time.Second)
		if rec, err := store.Load(); err != nil {
			return err
		} else if rec != nil && !rec.Final {
			log.Notice("Resuming from checkpoint")
			m.GetFloatParameters().SetFromMap(rec.Parameters)
		}
		opt.SetCheckpoint(func(iter int, lnL float64, par map[string]float64, final bool) {
			store.Save(&checkpoint.Record{
				Parameters: par,
				LnL:        lnL,
				Iter:       iter,
				Final:      final,
			})
		})
	}

	opt.Run(*fitIter)
	opt.PrintResults()

	// leave the model at the best point before writing estimates
	if err := m.GetFloatParameters().SetValues(opt.GetMaxLParameters()); err != nil {
		return err
	}

	if err := writeEstimates(ls.Species(), m.Params()); err != nil {
		return err
	}

	fitSum := &FitSummary{
		Landscape:       *fitLandscape,
		Method:          *fitMethod,
		Sites:           ls.Sites(),
		Species:         ls.NSpecies(),
		ConstantSpecies: m.ConstantSpecies(),
		Optimizer:       opt.Summary(),
	}
	if *fitTruth != "" {
		if err := compareTruth(m.Params(), fitSum); err != nil {
			return err
		}
	}
	summary.Fit = fitSum
	return nil
}

// newOptimizer returns the optimizer for the method flag.
func newOptimizer(rng *rand.Rand) (optimize.Optimizer, error) {
	switch *fitMethod {
	case "lbfgsb":
		return optimize.NewLBFGSB(), nil
	case "mh":
		chain := optimize.NewMH(rng, false, 0)
		chain.AccPeriod = *fitAccept
		return chain, nil
	case "anneal":
		chain := optimize.NewMH(rng, true, *fitIter/5)
		chain.AccPeriod = *fitAccept
		return chain, nil
	case "none":
		return optimize.NewNone(), nil
	}
	return nil, fmt.Errorf("unknown fitting method: %s", *fitMethod)
}

// readStart reads a starting point from a trajectory or JSON file.
func readStart(par optimize.FloatParameters, filename string) error {
	l, err := lastLine(filename)
	if err == nil {
		err = par.ReadLine(l)
	}
	if err != nil {
		log.Debug("Reading start file as JSON")
		err2 := par.ReadFromJSON(filename)
		if err2 != nil {
			log.Error("Error reading start position from JSON:", err2)
			return fmt.Errorf("reading start position from trajectory file: %v", err)
		}
	}
	if !par.InRange() {
		return fmt.Errorf("initial parameters are not in the range")
	}
	return nil
}

// lastLine returns the last line of a file.
func lastLine(fn string) (line string, err error) {
	f, err := os.Open(fn)
	if err != nil {
		return line, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line = scanner.Text()
	}
	return line, scanner.Err()
}

// writeEstimates writes the pairwise and intercept estimates.
func writeEstimates(species []string, p *mnet.Params) error {
	pairs, err := landscape.PairTable(species, p.Pairs)
	if err != nil {
		return err
	}
	f, err := os.Create(*fitEstimates)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := landscape.WritePairs(f, pairs); err != nil {
		return err
	}
	log.Noticef("Wrote pairwise estimates to %s", *fitEstimates)

	if *fitIntercepts == "" {
		return nil
	}
	alphas, err := landscape.SpeciesTable(species, p.Alpha)
	if err != nil {
		return err
	}
	af, err := os.Create(*fitIntercepts)
	if err != nil {
		return err
	}
	defer af.Close()
	if err := landscape.WriteSpecies(af, alphas); err != nil {
		return err
	}
	log.Noticef("Wrote intercept estimates to %s", *fitIntercepts)
	return nil
}

// compareTruth reports how well the estimates recover the true
// pairwise coefficients.
func compareTruth(p *mnet.Params, sum *FitSummary) error {
	f, err := os.Open(*fitTruth)
	if err != nil {
		return err
	}
	defer f.Close()
	recs, err := landscape.ReadPairs(f)
	if err != nil {
		return err
	}
	truth := landscape.Values(recs)
	if len(truth) != len(p.Pairs) {
		return fmt.Errorf("truth has %d pairs, model %d", len(truth), len(p.Pairs))
	}

	r := stat.Correlation(truth, p.Pairs, nil)
	agree := 0
	for k, t := range truth {
		if (t > 0) == (p.Pairs[k] > 0) {
			agree++
		}
	}
	sign := float64(agree) / float64(len(truth))

	log.Noticef("Truth correlation: %.4f", r)
	log.Noticef("Sign agreement: %.4f", sign)
	sum.TruthCorrelation = &r
	sum.SignAgreement = &sign
	return nil
}
