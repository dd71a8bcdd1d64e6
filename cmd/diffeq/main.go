package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/diffeq/internal/analysis"
	"github.com/san-kum/diffeq/internal/config"
	"github.com/san-kum/diffeq/internal/diffeq"
	"github.com/san-kum/diffeq/internal/models"
	"github.com/san-kum/diffeq/internal/registry"
	"github.com/san-kum/diffeq/internal/solve"
	"github.com/san-kum/diffeq/internal/solver"
	"github.com/san-kum/diffeq/internal/stepsize"
	"github.com/san-kum/diffeq/internal/store"
	"github.com/san-kum/diffeq/internal/storage"
	"github.com/san-kum/diffeq/internal/viz"
)

var (
	dataDir  string
	scheme   string
	adjName  string
	t0       float64
	t1       float64
	dt0      float64
	adaptive bool
	atol     float64
	rtol     float64
	maxSteps int
	seed     int64
	y0       []float64
	argsVals []float64
	saveN    int
	// Event detection: stop when this state component crosses zero.
	eventComponent int
	// Config file and preset name
	configFile string
	preset     string
	// Output switches
	asJSON bool
	frames int
	// Batch fan-out
	replicas int
	spread   float64
	// Lyapunov estimation
	lyapWindow  float64
	lyapWindows int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "diffeq",
		Short: "differential equation solving lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".diffeq", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "solve a model over a time span",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	addSolveFlags(runCmd)
	runCmd.Flags().IntVar(&saveN, "save", 0, "number of uniform save points (0 = step endpoints)")
	runCmd.Flags().IntVar(&eventComponent, "event-component", -1, "stop when this state component crosses zero")
	runCmd.Flags().BoolVar(&asJSON, "json", false, "print the full solution as JSON")

	gradCmd := &cobra.Command{
		Use:   "gradient [model]",
		Short: "compute sensitivities of the final state",
		Args:  cobra.ExactArgs(1),
		RunE:  runGradient,
	}
	addSolveFlags(gradCmd)
	gradCmd.Flags().StringVar(&adjName, "adjoint", "direct", "adjoint strategy (direct, checkpoint, backsolve)")

	batchCmd := &cobra.Command{
		Use:   "batch [model]",
		Short: "solve many perturbed initial conditions in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	addSolveFlags(batchCmd)
	batchCmd.Flags().IntVar(&replicas, "replicas", 8, "number of initial conditions")
	batchCmd.Flags().Float64Var(&spread, "spread", 0.1, "perturbation applied to the first component")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "solve and replay the trajectory in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addSolveFlags(liveCmd)
	liveCmd.Flags().IntVar(&frames, "frames", 300, "replay frames")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [model]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.ExactArgs(1),
		RunE:  runLyapunov,
	}
	addSolveFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&lyapWindow, "window", 1.0, "renormalization window")
	lyapunovCmd.Flags().IntVar(&lyapWindows, "windows", 20, "number of windows")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [scheme1] [scheme2] ...",
		Short: "compare schemes on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSchemes,
	}
	addSolveFlags(compareCmd)

	schemesCmd := &cobra.Command{
		Use:   "schemes",
		Short: "list solvers, models, and adjoint strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New()
			fmt.Println("schemes:")
			for _, s := range reg.ListSchemes() {
				fmt.Printf("  %s\n", s)
			}
			fmt.Println("models:")
			for _, m := range reg.ListModels() {
				fmt.Printf("  %s\n", m)
			}
			fmt.Println("adjoints:")
			for _, a := range reg.ListAdjoints() {
				fmt.Printf("  %s\n", a)
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	rootCmd.AddCommand(runCmd, gradCmd, batchCmd, listCmd, plotCmd, liveCmd,
		exportCmd, exportCSVCmd, analyzeCmd, lyapunovCmd, compareCmd,
		schemesCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSolveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scheme, "scheme", "dopri5", "solver scheme")
	cmd.Flags().Float64Var(&t0, "t0", 0.0, "start time")
	cmd.Flags().Float64Var(&t1, "time", config.DefaultT1, "end time")
	cmd.Flags().Float64Var(&dt0, "dt0", config.DefaultDt0, "initial step size")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive step control")
	cmd.Flags().Float64Var(&atol, "atol", config.DefaultAtol, "absolute tolerance")
	cmd.Flags().Float64Var(&rtol, "rtol", config.DefaultRtol, "relative tolerance")
	cmd.Flags().IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "step attempt budget")
	cmd.Flags().Int64Var(&seed, "seed", 1, "noise seed (stochastic models)")
	cmd.Flags().Float64SliceVar(&y0, "y0", nil, "initial state (overrides the model default)")
	cmd.Flags().Float64SliceVar(&argsVals, "args", nil, "model parameters (overrides the model default)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// applyConfig folds preset and config-file values into the flag variables.
// CLI flags the user set explicitly win over the file, and the file wins
// over the preset.
func applyConfig(cmd *cobra.Command, model string) error {
	if preset != "" {
		cfg := config.GetPreset(model, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		applyConfigValues(cmd, cfg)
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyConfigValues(cmd, cfg)
	}

	return nil
}

func applyConfigValues(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("scheme") && cfg.Scheme != "" {
		scheme = cfg.Scheme
	}
	if !cmd.Flags().Changed("t0") {
		t0 = cfg.T0
	}
	if !cmd.Flags().Changed("time") && cfg.T1 != 0 {
		t1 = cfg.T1
	}
	if !cmd.Flags().Changed("dt0") && cfg.Dt0 != 0 {
		dt0 = cfg.Dt0
	}
	if !cmd.Flags().Changed("adaptive") {
		adaptive = cfg.Adaptive
	}
	if !cmd.Flags().Changed("atol") && cfg.Atol != 0 {
		atol = cfg.Atol
	}
	if !cmd.Flags().Changed("rtol") && cfg.Rtol != 0 {
		rtol = cfg.Rtol
	}
	if !cmd.Flags().Changed("max-steps") && cfg.MaxSteps != 0 {
		maxSteps = cfg.MaxSteps
	}
	if !cmd.Flags().Changed("seed") && cfg.Seed != 0 {
		seed = cfg.Seed
	}
	if !cmd.Flags().Changed("y0") && len(cfg.InitState) > 0 {
		y0 = cfg.InitState
	}
	if !cmd.Flags().Changed("args") && len(cfg.Args) > 0 {
		argsVals = cfg.Args
	}
	controllerCfg = cfg.Controller
	saveAt = cfg.SaveAt
}

var (
	controllerCfg config.ControllerConfig
	saveAt        []float64
)

// buildProblem resolves the model, applying flag overrides for initial
// state, parameters, and seed.
func buildProblem(reg *registry.Registry, model string) (solve.Problem, error) {
	m, err := reg.GetModel(model)
	if err != nil {
		return solve.Problem{}, err
	}

	if g, ok := m.(*models.GBM); ok {
		g.Seed = seed
	}

	init := m.InitState()
	if len(y0) > 0 {
		init = diffeq.State(y0)
	}
	margs := m.Args()
	if len(argsVals) > 0 {
		margs = diffeq.Args(argsVals)
	}

	return solve.Problem{
		Terms: m.Terms(),
		T0:    t0,
		T1:    t1,
		Dt0:   dt0,
		Y0:    init,
		Args:  margs,
	}, nil
}

// buildController assembles the step controller from flags plus any
// controller tuning loaded from a config file.
func buildController(reg *registry.Registry) stepsize.Controller {
	ctrl := reg.GetController(adaptive, atol, rtol)
	pid, ok := ctrl.(*stepsize.PID)
	if !ok {
		return ctrl
	}
	if controllerCfg.Safety != 0 {
		pid.Safety = controllerCfg.Safety
	}
	if controllerCfg.MinFactor != 0 {
		pid.MinFactor = controllerCfg.MinFactor
	}
	if controllerCfg.MaxFactor != 0 {
		pid.MaxFactor = controllerCfg.MaxFactor
	}
	if controllerCfg.KP != 0 {
		pid.KP = controllerCfg.KP
	}
	if controllerCfg.KI != 0 {
		pid.KI = controllerCfg.KI
	}
	if controllerCfg.MinDt != 0 {
		pid.MinDt = controllerCfg.MinDt
	}
	return pid
}

func buildOptions(reg *registry.Registry) solve.Options {
	opts := solve.Options{
		Controller: buildController(reg),
		MaxSteps:   maxSteps,
		SaveAt:     saveAt,
	}

	if saveN > 1 && opts.SaveAt == nil {
		pts := make([]float64, saveN)
		for i := range pts {
			pts[i] = t0 + (t1-t0)*float64(i)/float64(saveN-1)
		}
		opts.SaveAt = pts
	}

	if eventComponent >= 0 {
		idx := eventComponent
		opts.Event = func(t float64, y diffeq.State, args diffeq.Args) float64 {
			return y[idx]
		}
	}

	return opts
}

func controllerName() string {
	if adaptive {
		return "pid"
	}
	return "constant"
}

func runSolve(cmd *cobra.Command, args []string) error {
	model := args[0]
	if err := applyConfig(cmd, model); err != nil {
		return err
	}

	reg := registry.New()
	sc, err := reg.GetScheme(scheme)
	if err != nil {
		return err
	}
	p, err := buildProblem(reg, model)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("solving %s with %s...\n", model, scheme)
	start := time.Now()

	sol, err := solve.Solve(context.Background(), sc, p, buildOptions(reg))
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(model, p.T0, p.T1, p.Dt0, seed, scheme, controllerName(), sol)
	if err != nil {
		return err
	}

	if asJSON {
		return store.ExportJSONStdout(model, scheme, controllerName(), p.T0, p.T1, p.Dt0, sol)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)
	fmt.Print(viz.Summary(sol))
	return nil
}

func runGradient(cmd *cobra.Command, args []string) error {
	model := args[0]
	if err := applyConfig(cmd, model); err != nil {
		return err
	}

	reg := registry.New()
	sc, err := reg.GetScheme(scheme)
	if err != nil {
		return err
	}
	strategy, err := reg.GetAdjoint(adjName)
	if err != nil {
		return err
	}
	p, err := buildProblem(reg, model)
	if err != nil {
		return err
	}

	// Seed the adjoint with d(sum of final components)/dy1 = 1...1.
	gseed := make(diffeq.State, len(p.Y0))
	for i := range gseed {
		gseed[i] = 1
	}

	fmt.Printf("differentiating %s through %s (%s adjoint)...\n", model, scheme, adjName)
	start := time.Now()

	sol, grads, err := strategy.Gradient(context.Background(), sc, p, buildOptions(reg), gseed)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n\n", elapsed)
	fmt.Print(viz.Summary(sol))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nINPUT\tGRADIENT")
	for i, g := range grads.Y0 {
		fmt.Fprintf(w, "y0[%d]\t%.8g\n", i, g)
	}
	for i, g := range grads.Args {
		fmt.Fprintf(w, "args[%d]\t%.8g\n", i, g)
	}
	fmt.Fprintf(w, "t0\t%.8g\n", grads.T0)
	fmt.Fprintf(w, "t1\t%.8g\n", grads.T1)
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	model := args[0]
	if err := applyConfig(cmd, model); err != nil {
		return err
	}

	reg := registry.New()
	if _, err := reg.GetScheme(scheme); err != nil {
		return err
	}
	p, err := buildProblem(reg, model)
	if err != nil {
		return err
	}

	y0s := make([]diffeq.State, replicas)
	for i := range y0s {
		y := p.Y0.Clone()
		if replicas > 1 {
			y[0] += spread * (2*float64(i)/float64(replicas-1) - 1)
		}
		y0s[i] = y
	}

	b := &solve.Batch{
		NewSolver: func() solver.Solver {
			s, _ := reg.GetScheme(scheme)
			return s
		},
		NewController: func() stepsize.Controller {
			return buildController(reg)
		},
		MaxSteps: maxSteps,
	}

	fmt.Printf("solving %d replicas of %s with %s...\n\n", replicas, model, scheme)
	start := time.Now()

	sols, err := b.Run(context.Background(), p, y0s)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REPLICA\tY0[0]\tSTATUS\tSTEPS\tFINAL")
	for i, sol := range sols {
		_, yf := sol.Final()
		final := "-"
		if yf != nil {
			final = fmt.Sprintf("%.6g", yf[0])
		}
		fmt.Fprintf(w, "%d\t%.4g\t%s\t%d\t%s\n", i, y0s[i][0], sol.Status, sol.Stats.Steps, final)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v\n", elapsed)
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSPAN\tSCHEME\tCTRL\tSTATUS\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t[%.2g,%.2g]\t%s\t%s\t%s\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.T0, run.T1,
			run.Scheme,
			run.Controller,
			run.Status,
			run.Steps,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s (%s, %s)\n", meta.Model, meta.Scheme, meta.Controller)
	fmt.Printf("samples: %d\n\n", len(states))

	numVars := len(states[0])
	maxPlots := 6
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("y%d over [%g, %g]", varIdx, times[0], times[len(times)-1])),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	model := args[0]
	if err := applyConfig(cmd, model); err != nil {
		return err
	}

	reg := registry.New()
	sc, err := reg.GetScheme(scheme)
	if err != nil {
		return err
	}
	p, err := buildProblem(reg, model)
	if err != nil {
		return err
	}

	sol, err := solve.Solve(context.Background(), sc, p, buildOptions(reg))
	if err != nil {
		return err
	}

	return viz.Run(model, sol, frames)
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := range states[0] {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'g', -1, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) < 2 || len(states[0]) == 0 {
		return fmt.Errorf("not enough data to analyze")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	data := make([]float64, len(states))
	for i := range states {
		data[i] = states[i][0]
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/2+1]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (y0)"),
	)
	fmt.Println(graph)
	fmt.Println()

	dt := (times[len(times)-1] - times[0]) / float64(len(times)-1)
	freq := analysis.DominantFrequency(data, dt)
	fmt.Printf("dominant frequency: %.4g\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.4g\n", 1.0/freq)
	}

	return nil
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	model := args[0]
	if err := applyConfig(cmd, model); err != nil {
		return err
	}

	reg := registry.New()
	if _, err := reg.GetScheme(scheme); err != nil {
		return err
	}
	p, err := buildProblem(reg, model)
	if err != nil {
		return err
	}

	fmt.Printf("estimating largest Lyapunov exponent for %s (%d windows of %g)...\n",
		model, lyapWindows, lyapWindow)

	lambda, err := analysis.MaxLyapunov(context.Background(),
		func() solver.Solver {
			s, _ := reg.GetScheme(scheme)
			return s
		},
		p.Terms, p.Y0, p.Args, dt0, lyapWindow, lyapWindows)
	if err != nil {
		return err
	}

	fmt.Printf("lambda = %.6g\n", lambda)
	if lambda > 0.01 {
		fmt.Println("positive exponent: trajectories diverge (chaotic)")
	} else if lambda < -0.01 {
		fmt.Println("negative exponent: trajectories contract")
	} else {
		fmt.Println("near-zero exponent: neutral separation")
	}

	return nil
}

func compareSchemes(cmd *cobra.Command, args []string) error {
	model := args[0]
	schemes := args[1:]
	if err := applyConfig(cmd, model); err != nil {
		return err
	}

	reg := registry.New()
	p, err := buildProblem(reg, model)
	if err != nil {
		return err
	}

	// Reference trajectory at tight tolerance.
	ref, err := reg.GetScheme("dopri5")
	if err != nil {
		return err
	}
	refSol, err := solve.Solve(context.Background(), ref, p, solve.Options{
		Controller: stepsize.NewPID(1e-12, 1e-12),
		MaxSteps:   10 * config.DefaultMaxSteps,
	})
	if err != nil {
		return err
	}
	if refSol.Status != solve.StatusCompleted {
		return fmt.Errorf("reference solve failed: %s", refSol.Status)
	}
	_, refFinal := refSol.Final()

	fmt.Printf("comparing schemes for %s (dt0=%.4g, span=[%g, %g])\n\n", model, dt0, t0, t1)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tFINAL_Y0\tERROR\tSTEPS\tEVALS\tTIME")

	for _, name := range schemes {
		sc, err := reg.GetScheme(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		start := time.Now()
		sol, err := solve.Solve(context.Background(), sc, p, buildOptions(reg))
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		if sol.Status != solve.StatusCompleted {
			fmt.Fprintf(w, "%s\t%s\n", name, sol.Status)
			continue
		}

		_, final := sol.Final()
		errNorm := 0.0
		for i := range final {
			errNorm += (final[i] - refFinal[i]) * (final[i] - refFinal[i])
		}
		fmt.Fprintf(w, "%s\t%.6g\t%.2e\t%d\t%d\t%v\n",
			name, final[0], math.Sqrt(errNorm), sol.Stats.Steps, sol.Stats.Evaluations, elapsed)
	}

	return w.Flush()
}

