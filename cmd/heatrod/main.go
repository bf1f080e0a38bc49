package main

import (
	"context"
	"fmt"
	"iter"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/heatrod/internal/config"
	"github.com/san-kum/heatrod/internal/export"
	"github.com/san-kum/heatrod/internal/heat"
	"github.com/san-kum/heatrod/internal/metrics"
	"github.com/san-kum/heatrod/internal/server"
	"github.com/san-kum/heatrod/internal/sim"
	"github.com/san-kum/heatrod/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	log = logrus.New()

	logLevel   string
	configFile string
	preset     string
	boundary   string
	nodes      int
	length     float64
	k          float64
	timestep   float64
	minSteps   int
	maxSteps   int
	tInit      float64

	// plot
	outFile string
	every   int
	// live and serve
	frameRate int
	theme     string
	addr      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "heatrod",
		Short: "explicit finite-difference heat conduction in a rod",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or ini)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&boundary, "boundary", config.BoundaryDirichlet, "boundary condition (dirichlet, neumann)")
	rootCmd.PersistentFlags().IntVar(&nodes, "nodes", config.DefaultNodes, "number of nodes")
	rootCmd.PersistentFlags().Float64Var(&length, "length", config.DefaultLength, "rod length")
	rootCmd.PersistentFlags().Float64Var(&k, "k", config.DefaultK, "thermal conductivity")
	rootCmd.PersistentFlags().Float64Var(&timestep, "timestep", config.DefaultTimestep, "time step (s)")
	rootCmd.PersistentFlags().IntVar(&minSteps, "min-steps", config.DefaultMinStep, "minimum iterations")
	rootCmd.PersistentFlags().IntVar(&maxSteps, "max-steps", config.DefaultMaxStep, "maximum iterations")
	rootCmd.PersistentFlags().Float64Var(&tInit, "t-init", config.DefaultTInit, "initial temperature")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and print every iteration",
		RunE:  runSimulation,
	}

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "run simulation and plot the final profile",
		RunE:  plotSimulation,
	}
	plotCmd.Flags().StringVar(&outFile, "out", "", "also write a chart (png, svg, pdf)")
	plotCmd.Flags().IntVar(&every, "every", 20, "chart one snapshot out of every N")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the temperature profile",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 24, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "ember", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream snapshots over websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			interval := time.Duration(0)
			if frameRate > 0 {
				interval = time.Second / time.Duration(frameRate)
			}
			return server.NewServer(addr, interval, log).Serve()
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":9000", "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", 24, "frames per second, 0 for unthrottled")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv",
		Short: "stream snapshots to stdout as CSV",
		RunE:  exportCSV,
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare dirichlet and neumann runs of the same configuration",
		RunE:  compareBoundaries,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [boundary]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []string{config.BoundaryDirichlet, config.BoundaryNeumann}
			if len(args) > 0 {
				kinds = args
			}
			for _, kind := range kinds {
				presets := config.ListPresets(kind)
				if len(presets) == 0 {
					fmt.Printf("no presets for boundary: %s\n", kind)
					continue
				}
				fmt.Printf("presets for %s:\n", kind)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "print the effective configuration, or save it as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				return config.Save(args[0], cfg)
			}
			return config.Encode(os.Stdout, cfg)
		},
	}

	rootCmd.AddCommand(runCmd, plotCmd, liveCmd, serveCmd, exportCSVCmd, compareCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers preset, then config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(boundary, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(boundary))
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("boundary") {
		cfg.Boundary.Kind = boundary
	}
	if flags.Changed("nodes") {
		cfg.Mesh.Nodes = nodes
	}
	if flags.Changed("length") {
		cfg.Material.Length = length
	}
	if flags.Changed("k") {
		cfg.Material.K = k
	}
	if flags.Changed("timestep") {
		cfg.Simulation.Timestep = timestep
	}
	if flags.Changed("min-steps") {
		cfg.Simulation.MinimumStep = minSteps
	}
	if flags.Changed("max-steps") {
		cfg.Simulation.MaximumStep = maxSteps
	}
	if flags.Changed("t-init") {
		cfg.Mesh.TInit = tInit
	}
	return cfg, nil
}

func buildRun(cmd *cobra.Command) (*config.Run, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	run, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	entry := log.WithFields(logrus.Fields{
		"boundary": run.Kind,
		"nodes":    run.Mesh.Nodes,
		"dx":       run.Mesh.Dx,
		"F0":       run.Mesh.F0,
		"steps":    run.Parameter.Steps(),
	})
	if !heat.Stable(run.Parameter, run.Material, run.Mesh) {
		entry.Warnf("coefficient exceeds %.1f, the explicit scheme may diverge", heat.StabilityLimit)
	}
	entry.Debug("run configured")
	return run, nil
}

type iterationLogger struct{}

func (iterationLogger) OnStep(step int, t heat.Field) {
	log.Debugf("iteration: %d %v", step, []float64(t))
}

func newSimulator(run *config.Run) *sim.Simulator {
	s := sim.New(run.Sequence())
	for _, m := range metrics.Default(run.Mesh) {
		s.AddMetric(m)
	}
	if run.Kind == config.BoundaryDirichlet {
		lo, hi := run.Bounds()
		s.AddMetric(metrics.NewStability(lo, hi))
	}
	s.AddObserver(iterationLogger{})
	return s
}

func printMetrics(result *sim.Result) {
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	run, err := buildRun(cmd)
	if err != nil {
		return err
	}

	fmt.Println(run.Material)
	start := time.Now()

	s := newSimulator(run)
	s.AddObserver(iterationPrinter{mesh: run.Mesh})
	cfg := sim.DefaultConfig()
	cfg.KeepHistory = false
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		log.WithError(e).Error("simulation stopped")
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printMetrics(result)
	return nil
}

type iterationPrinter struct {
	mesh *heat.Mesh
}

func (p iterationPrinter) OnStep(step int, _ heat.Field) {
	fmt.Printf("iteration: %d %s", step, p.mesh)
}

func plotSimulation(cmd *cobra.Command, args []string) error {
	run, err := buildRun(cmd)
	if err != nil {
		return err
	}

	cfg := sim.DefaultConfig()
	cfg.KeepHistory = outFile != ""
	result, err := newSimulator(run).Run(context.Background(), cfg)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		log.WithError(e).Error("simulation stopped")
	}
	if result.StepsTaken == 0 {
		return fmt.Errorf("no iterations to plot")
	}

	fmt.Printf("%s, %s boundary, %d iterations\n\n", run.Material.Name, run.Kind, result.StepsTaken)
	fmt.Println(viz.RenderProfile(result.Final, viz.ProfileOptions{
		Caption: fmt.Sprintf("temperature after %d iterations", result.StepsTaken),
		Width:   80,
	}))
	printMetrics(result)

	if outFile == "" {
		return nil
	}
	opts := export.DefaultChartOptions()
	opts.Every = every
	p, err := export.ProfileChart(run.Mesh.Index, result.Snapshots, opts)
	if err != nil {
		return err
	}
	if err := export.SaveChart(p, outFile); err != nil {
		return err
	}
	log.WithField("path", outFile).Info("chart written")
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	run, err := buildRun(cmd)
	if err != nil {
		return err
	}

	interval := time.Second / 24
	if frameRate > 0 {
		interval = time.Second / time.Duration(frameRate)
	}
	m := viz.NewLiveModel(run.Sequence(), viz.LiveOptions{
		Title:    fmt.Sprintf("%s (%s)", run.Material.Name, run.Kind),
		Interval: interval,
		Theme:    theme,
		Lower:    900,
		Upper:    1300,
		Total:    run.Parameter.Steps(),
	})
	return viz.RunLive(m)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	run, err := buildRun(cmd)
	if err != nil {
		return err
	}
	steps, err := export.WriteCSV(os.Stdout, run.Mesh.Nodes, run.Sequence())
	if err != nil {
		return err
	}
	log.WithField("steps", steps).Debug("csv written")
	return nil
}

func compareBoundaries(cmd *cobra.Command, args []string) error {
	kinds := []string{config.BoundaryDirichlet, config.BoundaryNeumann}
	runs := make([]*config.Run, len(kinds))
	seqs := make([]iter.Seq[heat.Field], len(kinds))
	for i, kind := range kinds {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.Boundary.Kind = kind
		run, err := cfg.Build()
		if err != nil {
			return err
		}
		runs[i] = run
		seqs[i] = run.Sequence()
	}

	cfg := sim.DefaultConfig()
	cfg.KeepHistory = false
	results, err := sim.NewEnsemble(seqs, func() []sim.Metric {
		return []sim.Metric{metrics.NewPeakTemperature(), metrics.NewMaxIncrement()}
	}).Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BOUNDARY\tSTEPS\tT[0]\tT[last]\tPEAK\tMAX_INCREMENT")
	for i, result := range results {
		first, last := 0.0, 0.0
		if result.Final != nil {
			first, last = result.Final[0], result.Final[len(result.Final)-1]
		}
		fmt.Fprintf(w, "%s\t%d\t%.3f\t%.3f\t%.3f\t%.6f\n",
			runs[i].Kind,
			result.StepsTaken,
			first,
			last,
			result.Metrics["peak_temperature"],
			result.Metrics["max_increment"],
		)
	}
	return w.Flush()
}
