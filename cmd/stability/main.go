// Package main searches for the largest stable time step of the solver with
// CMA-ES, running short headless simulations for each candidate.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/convect/config"
)

// EvalRecord is one row of stability_log.csv.
type EvalRecord struct {
	Eval            int     `csv:"eval"`
	Fitness         float64 `csv:"fitness"`
	Stable          bool    `csv:"stable"`
	PeakCFL         float64 `csv:"peak_cfl"`
	DT              float64 `csv:"dt"`
	Viscosity       float64 `csv:"viscosity"`
	HeatDiffusivity float64 `csv:"heat_diffusivity"`
}

// searchLog records every evaluation and remembers the best one.
type searchLog struct {
	file          *os.File
	headerWritten bool

	evals     int
	maxEvals  int
	start     time.Time
	best      float64
	bestRaw   []float64
	evaluator *FitnessEvaluator
	params    *ParamVector
}

func newSearchLog(path string, maxEvals int, fe *FitnessEvaluator, pv *ParamVector) (*searchLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating search log: %w", err)
	}
	return &searchLog{
		file:      f,
		maxEvals:  maxEvals,
		start:     time.Now(),
		best:      1e9,
		evaluator: fe,
		params:    pv,
	}, nil
}

// objective wraps the evaluator for optimize.Problem, logging as it goes.
func (sl *searchLog) objective(x []float64) float64 {
	raw := sl.params.Clamp(sl.params.Denormalize(x))
	fitness := sl.evaluator.Evaluate(raw)
	sl.evals++

	if fitness < sl.best {
		sl.best = fitness
		sl.bestRaw = raw
	}

	rec := EvalRecord{
		Eval:            sl.evals,
		Fitness:         fitness,
		Stable:          fitness < 0,
		PeakCFL:         sl.evaluator.LastPeakCFL(),
		DT:              raw[0],
		Viscosity:       raw[1],
		HeatDiffusivity: raw[2],
	}
	if err := sl.write(rec); err != nil {
		log.Printf("failed to write search log: %v", err)
	}

	elapsed := time.Since(sl.start)
	eta := time.Duration(sl.maxEvals-sl.evals) * (elapsed / time.Duration(sl.evals))
	status := "unstable"
	if rec.Stable {
		status = "stable"
	}
	fmt.Printf("Eval %d/%d: dt=%.4f visc=%.4f %s peak_cfl=%.3f (best=%.4f) | elapsed: %s, ETA: %s\n",
		sl.evals, sl.maxEvals, rec.DT, rec.Viscosity, status, rec.PeakCFL, sl.best,
		formatDuration(elapsed), formatDuration(eta))

	return fitness
}

func (sl *searchLog) write(rec EvalRecord) error {
	rows := []EvalRecord{rec}
	if !sl.headerWritten {
		sl.headerWritten = true
		return gocsv.Marshal(rows, sl.file)
	}
	return gocsv.MarshalWithoutHeaders(rows, sl.file)
}

func (sl *searchLog) Close() error {
	return sl.file.Close()
}

// formatDuration formats a duration as 1h02m03s, or 2m03s when under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := d/time.Hour, (d%time.Hour)/time.Minute, (d%time.Minute)/time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	steps := flag.Int("steps", 300, "Solver steps per run")
	seeds := flag.Int("seeds", 3, "Noise seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	gridSize := flag.Int("grid", 64, "Grid width and height for search runs (0 = keep config)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	searchCfg := *config.Cfg()
	if *gridSize > 0 {
		searchCfg.Grid.Width = *gridSize
		searchCfg.Grid.Height = *gridSize
	}

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = searchCfg.Seed.NoiseSeed + int64(i)*1000
	}
	evaluator := NewFitnessEvaluator(params, *steps, evalSeeds, &searchCfg)

	sl, err := newSearchLog(filepath.Join(*outputDir, "stability_log.csv"), *maxEvals, evaluator, params)
	if err != nil {
		log.Fatal(err)
	}
	defer sl.Close()

	popSize := *population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}

	fmt.Printf("Starting CMA-ES search over %d parameters, population=%d, max_evals=%d\n",
		params.Dim(), popSize, *maxEvals)
	fmt.Printf("Grid %dx%d, %d seeds x %d steps per evaluation\n",
		searchCfg.Grid.Width, searchCfg.Grid.Height, *seeds, *steps)

	result, err := optimize.Minimize(
		optimize.Problem{Func: sl.objective},
		params.Normalize(params.ExtractFromConfig(&searchCfg)),
		&optimize.Settings{FuncEvaluations: *maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		log.Printf("search ended: %v", err)
	}

	best := sl.bestRaw
	if best == nil {
		best = params.Clamp(params.Denormalize(result.X))
	}

	fmt.Printf("\nSearch complete after %d evaluations in %s\n", sl.evals, formatDuration(time.Since(sl.start)))
	if sl.best >= 0 {
		fmt.Println("No candidate stayed stable; reporting the longest-lived one")
	}
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, best[i])
	}

	// The saved config keeps the grid from the base file.
	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, best)

	outPath := filepath.Join(*outputDir, "stable_config.yaml")
	if err := bestCfg.WriteYAML(outPath); err != nil {
		log.Printf("failed to write best config: %v", err)
		return
	}
	fmt.Printf("\nBest config saved to: %s\n", outPath)
}
