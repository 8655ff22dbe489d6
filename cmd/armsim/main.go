package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/armsim/internal/analysis"
	"github.com/san-kum/armsim/internal/automation"
	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/continuous"
	"github.com/san-kum/armsim/internal/dynamo"
	"github.com/san-kum/armsim/internal/export"
	"github.com/san-kum/armsim/internal/integrators"
	"github.com/san-kum/armsim/internal/metrics"
	"github.com/san-kum/armsim/internal/physics"
	"github.com/san-kum/armsim/internal/scene"
	"github.com/san-kum/armsim/internal/storage"
	"github.com/san-kum/armsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string

	// validator overrides
	theta    float64
	omega    float64
	duration float64
	samples  int
	atol     float64
	rtol     float64
	friction float64
	noSave   bool

	// compare
	rk4Dt float64

	// sweep
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	sweepWorkers int

	// scene
	ticks        int
	scenarioFile string
	svgFile      string

	// plot / analyze
	column string
	phase  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "armsim",
		Short:         "two-segment arm: rigid-body scene and continuous validator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".armsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug|info|warn|error")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "integrate the reduced arm and plot theta",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	addValidatorFlags(validateCmd)
	validateCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare the adaptive solution against fixed-step rk4",
		Args:  cobra.NoArgs,
		RunE:  runCompare,
	}
	addValidatorFlags(compareCmd)
	compareCmd.Flags().Float64Var(&rk4Dt, "dt", 1e-4, "rk4 timestep")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the validator across a torque parameter range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addValidatorFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "friction", "mass|inertia|radius|friction")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2e-3, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", runtime.NumCPU(), "parallel solves")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the rigid-body scene headless",
		Args:  cobra.NoArgs,
		RunE:  runScene,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 600, "ticks to run without a scenario")
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the final frame as svg")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive scene in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&phase, "phase", false, "phase portrait of the first two columns")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the plot as svg")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "", "column to analyse (default first)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.Presets[name].Description)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}

	rootCmd.AddCommand(validateCmd, compareCmd, sweepCmd, runCmd, liveCmd, listCmd, plotCmd,
		analyzeCmd, exportCSVCmd, exportJSONCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func addValidatorFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "initial angle (degrees)")
	cmd.Flags().Float64Var(&omega, "omega", config.DefaultOmega, "initial angular velocity (degrees/s)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "output samples")
	cmd.Flags().Float64Var(&atol, "atol", config.DefaultAtol, "absolute tolerance")
	cmd.Flags().Float64Var(&rtol, "rtol", config.DefaultRtol, "relative tolerance")
	cmd.Flags().Float64Var(&friction, "friction", physics.DefaultArmParams().Friction, "friction torque scale")
}

// loadConfig builds the preset (or defaults) and overlays the config file.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		var err error
		if cfg, err = config.Overlay(configFile, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// validatorConfig applies only the flags the user actually set.
func validatorConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	v := &cfg.Validator
	flags := cmd.Flags()
	if flags.Changed("theta") {
		v.InitState.Theta = theta
	}
	if flags.Changed("omega") {
		v.InitState.Omega = omega
	}
	if flags.Changed("time") {
		v.Duration = duration
	}
	if flags.Changed("samples") {
		v.Samples = samples
	}
	if flags.Changed("atol") {
		v.Solver.Atol = atol
	}
	if flags.Changed("rtol") {
		v.Solver.Rtol = rtol
	}
	if flags.Changed("friction") {
		v.Params.Friction = friction
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := validatorConfig(cmd)
	if err != nil {
		return err
	}
	v := cfg.Validator

	tr, err := v.Trajectory()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	res, err := continuous.Solve(ctx, tr)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if !res.Success {
		slog.Warn("solver failed", "message", res.Message, "samples", len(res.Samples))
	}
	slog.Debug("solve finished",
		"accepted", res.Stats.Accepted,
		"rejected", res.Stats.Rejected,
		"evaluations", res.Stats.Evaluations,
		"elapsed", elapsed)

	a, _ := physics.NewArm(v.Params)
	drift := metrics.NewEnergyDrift(a)
	energy := metrics.NewEnergy(a)
	for _, x := range res.States() {
		drift.Observe(x, 0)
		energy.Observe(x, 0)
	}

	fmt.Printf("%s\n", res.Message)
	fmt.Printf("samples: %d of %d\n", len(res.Samples), v.Samples)
	fmt.Printf("steps: %d accepted, %d rejected\n\n", res.Stats.Accepted, res.Stats.Rejected)

	if len(res.Samples) > 1 {
		graph := asciigraph.Plot(res.Thetas(),
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("theta (degrees) vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	m := map[string]float64{
		drift.Name():  drift.Value(),
		energy.Name(): energy.Value(),
	}
	if res.Success && v.Samples > 1 {
		if period, err := analysis.DominantPeriod(res.Thetas(), v.Duration/float64(v.Samples-1)); err == nil {
			m["period"] = period
			fmt.Printf("dominant period: %.4f s (small-angle %.4f s)\n", period, a.SmallAnglePeriod())
		}
	}
	fmt.Printf("energy drift: %.3e\n", drift.Value())

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	runID, err := st.Save(storage.RunMetadata{
		Kind:     storage.KindValidate,
		Preset:   preset,
		Duration: v.Duration,
		Success:  res.Success,
		Message:  res.Message,
		Metrics:  m,
		Params:   a.GetParams(),
	}, storage.FromResult(res))
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := validatorConfig(cmd)
	if err != nil {
		return err
	}
	if rk4Dt <= 0 {
		return fmt.Errorf("rk4 timestep must be positive, got %g", rk4Dt)
	}
	v := cfg.Validator

	tr, err := v.Trajectory()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	res, err := continuous.Solve(ctx, tr)
	if err != nil {
		return err
	}
	adaptiveTime := time.Since(start)
	if !res.Success {
		slog.Warn("adaptive solver failed", "message", res.Message)
	}

	a, _ := physics.NewArm(v.Params)
	rk4 := integrators.NewRK4()
	x := dynamo.State{v.InitState.Theta, v.InitState.Omega}
	t := 0.0
	maxTheta, maxOmega := 0.0, 0.0
	steps := 0

	start = time.Now()
	for _, smp := range res.Samples {
		for t < smp.T {
			h := math.Min(rk4Dt, smp.T-t)
			x = rk4.Step(a, x, t, h)
			t += h
			steps++
		}
		maxTheta = math.Max(maxTheta, math.Abs(x[0]-smp.Theta))
		maxOmega = math.Max(maxOmega, math.Abs(x[1]-smp.Omega))
	}
	rk4Time := time.Since(start)

	fmt.Printf("comparing solvers (rk4 dt=%g, duration=%.1fs, %d samples)\n\n", rk4Dt, v.Duration, len(res.Samples))
	fmt.Printf("%-12s  %-12s  %-12s\n", "solver", "steps", "time_ms")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("%-12s  %12d  %12.2f\n", "rk45", res.Stats.Accepted+res.Stats.Rejected, float64(adaptiveTime.Microseconds())/1000)
	fmt.Printf("%-12s  %12d  %12.2f\n\n", "rk4", steps, float64(rk4Time.Microseconds())/1000)
	fmt.Printf("max |theta diff|: %.3e deg\n", maxTheta)
	fmt.Printf("max |omega diff|: %.3e deg/s\n", maxOmega)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := validatorConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	sw := automation.Sweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps, Workers: sweepWorkers}
	results, err := automation.RunSweep(ctx, cfg.Validator, sw)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tOK\tFINAL THETA\tPERIOD\tENERGY DRIFT\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		if !r.Success {
			slog.Warn("solver failed", sweepParam, r.Value, "message", r.Message)
		}
		fmt.Fprintf(w, "%g\t%t\t%.3f\t%.4f\t%.3e\n", r.Value, r.Success, r.FinalTheta, r.Period, r.EnergyDrift)
	}
	return w.Flush()
}

func newScene() (*scene.Scene, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return scene.New(cfg, slog.Default())
}

func runScene(cmd *cobra.Command, args []string) error {
	s, err := newScene()
	if err != nil {
		return err
	}

	sc := &automation.Scenario{Name: "idle", Ticks: ticks}
	if scenarioFile != "" {
		if sc, err = automation.LoadScenario(scenarioFile); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	rep, err := automation.Run(ctx, s, sc)
	if err != nil && rep == nil {
		return err
	}
	if err != nil {
		slog.Warn("scenario stopped early", "error", err, "ticks", rep.Ticks)
	}

	fmt.Printf("scenario: %s (%d ticks, %.2fs)\n", sc.Name, rep.Ticks, s.World().Time())
	fmt.Printf("aft angle:  [%.4f, %.4f] rad, %.1f%% within limit\n", rep.Aft.Min(), rep.Aft.Max(), 100*rep.Aft.Value())
	fmt.Printf("fore angle: [%.4f, %.4f] rad, %.1f%% within limit\n", rep.Fore.Min(), rep.Fore.Max(), 100*rep.Fore.Value())
	fmt.Printf("projectiles: %d launched, %d culled, peak %d bodies\n", rep.Launched, rep.Culled, rep.PeakLive)

	if svgFile != "" {
		w, h := s.Bounds()
		if err := os.WriteFile(svgFile, []byte(export.FrameSVG(s.Frame(), w, h)), 0644); err != nil {
			return err
		}
		slog.Info("wrote frame", "path", svgFile, "tick", s.Frame().Tick)
	}

	if noSave || rep.Ticks == 0 {
		return nil
	}
	st := storage.New(dataDir)
	runID, err := st.Save(storage.RunMetadata{
		Kind:     storage.KindScene,
		Preset:   preset,
		Dt:       s.World().Dt(),
		Duration: s.World().Time(),
		Success:  rep.WithinLimits(0.1),
		Message:  sc.Name,
		Metrics:  rep.Metrics(),
	}, rep.Series)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := newScene()
	if err != nil {
		return err
	}
	return viz.Run(s)
}
