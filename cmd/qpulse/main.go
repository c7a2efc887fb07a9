package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/qpulse/internal/algebra"
	"github.com/san-kum/qpulse/internal/analysis"
	"github.com/san-kum/qpulse/internal/config"
	"github.com/san-kum/qpulse/internal/experiment"
	"github.com/san-kum/qpulse/internal/linalg"
	"github.com/san-kum/qpulse/internal/optim"
	"github.com/san-kum/qpulse/internal/quantum"
	"github.com/san-kum/qpulse/internal/storage"
	"github.com/san-kum/qpulse/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	runName    string
	qubit      int
	stateIndex int
	maximize   bool
	iterations int
	rate       float64
	noSave     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "qpulse",
		Short: "control-pulse simulation for transmon networks",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".qpulse", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "preset as family/name")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "evolve the ground state and record populations",
		RunE:  runEvolution,
	}
	runCmd.Flags().StringVar(&runName, "name", "run", "run name")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip persisting the run")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "list the device's bound control parameters",
		RunE:  listParams,
	}

	gradCmd := &cobra.Command{
		Use:   "grad",
		Short: "adjoint gradient of a qubit occupation",
		RunE:  runGradient,
	}
	gradCmd.Flags().IntVar(&qubit, "qubit", 0, "qubit whose occupation is differentiated")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "tune controls against a qubit occupation",
		RunE:  runOptimize,
	}
	optimizeCmd.Flags().IntVar(&qubit, "qubit", 0, "target qubit")
	optimizeCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")
	optimizeCmd.Flags().IntVar(&iterations, "iterations", 50, "descent iterations")
	optimizeCmd.Flags().Float64Var(&rate, "rate", 0.1, "initial step size")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum",
		Short: "power spectrum of one product-state population",
		RunE:  runSpectrum,
	}
	spectrumCmd.Flags().IntVar(&stateIndex, "state", 1, "product state index")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "replay an evolution in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&stateIndex, "state", 1, "highlighted product state")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run's populations",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "emit a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time evolutions at increasing resolution",
		RunE:  runBench,
	}

	rootCmd.AddCommand(runCmd, paramsCmd, gradCmd, optimizeCmd, spectrumCmd,
		liveCmd, plotCmd, listCmd, exportCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if preset != "" {
		family, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be family/name, got %q", preset)
		}
		cfg := config.GetPreset(family, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

func buildExperiment() (*config.Config, *experiment.Experiment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	e, err := experiment.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := e.DefaultMetrics(); err != nil {
		return nil, nil, err
	}
	return cfg, e, nil
}

func occupation(e *experiment.Experiment, q int) (linalg.Matrix, error) {
	dev := e.Device()
	if q < 0 || q >= dev.NQubits() {
		return linalg.Matrix{}, fmt.Errorf("qubit %d out of range", q)
	}
	return algebra.Globalize(algebra.Number(dev.Levels()), q, dev.LevelCounts()), nil
}

func runEvolution(cmd *cobra.Command, args []string) error {
	cfg, e, err := buildExperiment()
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := e.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", len(result.Times))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(runName, cfg.Evolution.Basis, cfg.Evolution.Duration, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func listParams(cmd *cobra.Command, args []string) error {
	_, e, err := buildExperiment()
	if err != nil {
		return err
	}
	dev := e.Device()
	names := dev.Names()
	values := dev.Values()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAME\tVALUE")
	for i, name := range names {
		fmt.Fprintf(w, "%d\t%s\t%.6g\n", i, name, values[i])
	}
	return w.Flush()
}

func runGradient(cmd *cobra.Command, args []string) error {
	cfg, e, err := buildExperiment()
	if err != nil {
		return err
	}
	obs, err := occupation(e, qubit)
	if err != nil {
		return err
	}

	psi0 := quantum.Ground(e.Device().NStates())
	grad, err := e.Trotter().Gradient(e.Basis(), cfg.Evolution.Duration,
		cfg.Evolution.Steps, psi0, obs)
	if err != nil {
		return err
	}

	names := e.Device().Names()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tGRADIENT")
	for i, g := range grad {
		fmt.Fprintf(w, "%s\t%+.6e\n", names[i], g)
	}
	return w.Flush()
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, e, err := buildExperiment()
	if err != nil {
		return err
	}
	obs, err := occupation(e, qubit)
	if err != nil {
		return err
	}
	if maximize {
		obs = obs.Scale(-1)
	}

	d := optim.NewDescent()
	d.Iterations = iterations
	d.Rate = rate

	psi0 := quantum.Ground(e.Device().NStates())
	traces, err := d.Run(context.Background(), e.Device(), e.Trotter(), e.Basis(),
		cfg.Evolution.Duration, cfg.Evolution.Steps, psi0, obs)
	if err != nil {
		return err
	}

	for _, trace := range traces {
		val := trace.Value
		if maximize {
			val = -val
		}
		fmt.Printf("iter %3d  value %.6f  |grad| %.3e\n", trace.Iteration, val, trace.GradNorm)
	}

	fmt.Println("\ntuned parameters:")
	names := e.Device().Names()
	values := e.Device().Values()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, name := range names {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, values[i])
	}
	return w.Flush()
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	cfg, e, err := buildExperiment()
	if err != nil {
		return err
	}
	_, spec, err := e.RunSpectrum(context.Background(), stateIndex)
	if err != nil {
		return err
	}

	graph := asciigraph.Plot(spec.Power,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum of |%d⟩ population", stateIndex)),
	)
	fmt.Println(graph)
	fmt.Printf("\ndominant frequency: %.6g cycles/unit time\n", spec.Dominant())

	for i, ch := range e.Device().Channels() {
		env := analysis.SignalSpectrum(ch.Signal, cfg.Evolution.Duration, cfg.Evolution.Steps)
		fmt.Printf("channel %d envelope dominant: %.6g cycles/unit time\n", i, env.Dominant())
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	_, e, err := buildExperiment()
	if err != nil {
		return err
	}
	result, err := e.Run(context.Background())
	if err != nil {
		return err
	}
	if stateIndex < 0 || stateIndex >= e.Device().NStates() {
		stateIndex = 0
	}
	return tui.Run(runName, result, stateIndex)
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	pops, _, err := st.LoadPopulations(args[0])
	if err != nil {
		return err
	}
	if len(pops) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("basis: %s\n", meta.Basis)
	fmt.Printf("samples: %d\n\n", len(pops))

	numStates := len(pops[0])
	if numStates > 6 {
		numStates = 6
	}
	for idx := 0; idx < numStates; idx++ {
		data := make([]float64, len(pops))
		for i := range pops {
			data[i] = pops[i][idx]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("population of |%d⟩", idx)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tBASIS\tDURATION\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Basis,
			run.Duration,
			run.Steps,
		)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	pops, times, err := st.LoadPopulations(args[0])
	if err != nil {
		return err
	}
	result := &experiment.Result{
		Times:       times,
		Populations: pops,
		Metrics:     meta.Metrics,
	}
	return storage.ExportJSON(os.Stdout, meta.Name, meta.Basis, meta.Duration, result)
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPS\tELAPSED\tSTEPS/SEC")
	for _, steps := range []int{100, 400, 1600} {
		cfg.Evolution.Steps = steps
		e, err := experiment.New(cfg)
		if err != nil {
			return err
		}
		start := time.Now()
		if _, err := e.Run(context.Background()); err != nil {
			return err
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%d\t%v\t%.0f\n", steps, elapsed.Round(time.Millisecond),
			float64(steps)/elapsed.Seconds())
	}
	return w.Flush()
}
