// Package experiment wires a config into a runnable evolution: device,
// operator table, basis frame, engine, stepper, and diagnostics.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/qpulse/internal/analysis"
	"github.com/san-kum/qpulse/internal/basis"
	"github.com/san-kum/qpulse/internal/config"
	"github.com/san-kum/qpulse/internal/device"
	"github.com/san-kum/qpulse/internal/evolve"
	"github.com/san-kum/qpulse/internal/metrics"
	"github.com/san-kum/qpulse/internal/operator"
	"github.com/san-kum/qpulse/internal/propagate"
	"github.com/san-kum/qpulse/internal/quantum"
)

type Experiment struct {
	cfg     *config.Config
	dev     *device.Transmon
	basis   basis.Basis
	trotter *evolve.Trotter
	metrics []metrics.Metric
	onStep  quantum.Observer
}

// Result is one completed evolution: per-step populations alongside the
// final state and the metric values accumulated on the way.
type Result struct {
	Times       []float64
	Populations [][]float64
	Final       quantum.State
	Metrics     map[string]float64
}

func New(cfg *config.Config) (*Experiment, error) {
	dev, err := cfg.BuildDevice()
	if err != nil {
		return nil, err
	}
	b, err := cfg.ParseBasis()
	if err != nil {
		return nil, err
	}
	engine := propagate.NewEngine(basis.NewFrame(operator.NewTable(dev)))
	e := &Experiment{
		cfg:     cfg,
		dev:     dev,
		basis:   b,
		trotter: evolve.NewTrotter(engine),
	}
	// One permanent observer slot; Run swaps the recording target so
	// repeated runs do not stack recorders.
	e.trotter.AddObserver(func(step int, t float64, psi quantum.State) {
		if e.onStep != nil {
			e.onStep(step, t, psi)
		}
	})
	return e, nil
}

func (e *Experiment) Device() *device.Transmon { return e.dev }
func (e *Experiment) Trotter() *evolve.Trotter { return e.trotter }
func (e *Experiment) Basis() basis.Basis       { return e.basis }
func (e *Experiment) AddMetric(m metrics.Metric) {
	e.metrics = append(e.metrics, m)
	e.trotter.AddObserver(metrics.AsObserver(m))
}

// DefaultMetrics attaches the standard diagnostic set: average static
// energy, worst norm drift, and peak leakage.
func (e *Experiment) DefaultMetrics() error {
	table := e.trotter.Engine().Frame().Table()
	static, err := table.Operator(operator.StaticTerm())
	if err != nil {
		return err
	}
	e.AddMetric(metrics.NewEnergy(static))
	e.AddMetric(metrics.NewNormDrift())
	e.AddMetric(metrics.NewLeakage(e.dev.LevelCounts()))
	return nil
}

// Run evolves the ground state across the configured grid and gathers
// populations, final state, and metric values.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, m := range e.metrics {
		m.Reset()
	}

	steps := e.cfg.Evolution.Steps
	result := &Result{
		Times:       make([]float64, 0, steps),
		Populations: make([][]float64, 0, steps),
		Metrics:     make(map[string]float64),
	}
	e.onStep = func(step int, t float64, psi quantum.State) {
		pops := make([]float64, len(psi))
		for i, v := range psi {
			pops[i] = real(v)*real(v) + imag(v)*imag(v)
		}
		result.Times = append(result.Times, t)
		result.Populations = append(result.Populations, pops)
	}
	defer func() { e.onStep = nil }()

	psi0 := quantum.Ground(e.dev.NStates())
	final, err := e.trotter.Evolve(e.basis, e.cfg.Evolution.Duration, steps, psi0)
	if err != nil {
		return nil, fmt.Errorf("experiment: %w", err)
	}
	result.Final = final

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// RunSpectrum evolves and returns the power spectrum of one
// product-state population together with the run result.
func (e *Experiment) RunSpectrum(ctx context.Context, index int) (*Result, analysis.Spectrum, error) {
	result, err := e.Run(ctx)
	if err != nil {
		return nil, analysis.Spectrum{}, err
	}
	if index < 0 || index >= e.dev.NStates() || len(result.Times) < 2 {
		return nil, analysis.Spectrum{}, fmt.Errorf("experiment: no series for state %d", index)
	}
	series := make([]float64, len(result.Populations))
	for i, pops := range result.Populations {
		series[i] = pops[index]
	}
	dt := result.Times[1] - result.Times[0]
	return result, analysis.PowerSpectrum(series, dt), nil
}
