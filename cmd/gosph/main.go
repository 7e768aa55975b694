package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gosph/internal/config"
	"github.com/san-kum/gosph/internal/diagnostics"
	"github.com/san-kum/gosph/internal/engine"
	"github.com/san-kum/gosph/internal/output"
	"github.com/san-kum/gosph/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	sqliteDSN  string
)

// main is the entry point for the gosph CLI; it registers the
// run/watch/live/plot/presets command tree and executes the root
// command, mirroring the teacher's cmd/dynsim cobra wiring (a
// persistent --data flag, one subcommand per verb) scoped to the SPH
// engine's actual inputs and outputs (spec.md §6) instead of the
// teacher's dynamics-model/controller/integrator flag surface.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gosph",
		Short: "smoothed particle hydrodynamics engine",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gosph", "run output directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a configured scenario to completion, writing snapshots",
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "YAML run configuration path")
	runCmd.Flags().StringVar(&preset, "preset", "sod_ssph", "named preset (see `gosph presets`)")
	runCmd.Flags().StringVar(&sqliteDSN, "sqlite", "", "also archive snapshots to this sqlite database")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "re-run the configured scenario whenever its config file changes",
		RunE:  watchScenario,
	}
	watchCmd.Flags().StringVar(&configFile, "config", "", "YAML run configuration path (required)")
	watchCmd.Flags().StringVar(&preset, "preset", "sod_ssph", "name shown in run output; watch always loads --config")
	watchCmd.Flags().StringVar(&sqliteDSN, "sqlite", "", "also archive snapshots to this sqlite database")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run interactively with a live bubbletea dashboard",
		RunE:  liveScenario,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "YAML run configuration path")
	liveCmd.Flags().StringVar(&preset, "preset", "sod_ssph", "named preset (see `gosph presets`)")

	plotCmd := &cobra.Command{
		Use:   "plot [run-dir]",
		Short: "ascii-plot a completed run's energy history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range config.ListPresets() {
				fmt.Println(n)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, watchCmd, liveCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config if given, else the named preset, the same
// "config file overrides preset" precedence the teacher's
// runSimulation used between its --config and --preset flags.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q (see `gosph presets`)", preset)
	}
	return cfg, nil
}

// buildEngine loads cfg, builds the initial-condition particle array,
// and constructs a ready-to-Step engine.Engine.
func buildEngine() (*engine.Engine, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	reals, err := config.BuildInitialCondition(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("building initial condition: %w", err)
	}
	engCfg, err := cfg.ToEngineConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("converting configuration: %w", err)
	}
	eng, err := engine.New(engCfg, reals)
	if err != nil {
		return nil, nil, fmt.Errorf("constructing engine: %w", err)
	}
	return eng, cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	eng, cfg, err := buildEngine()
	if err != nil {
		return err
	}

	runID := fmt.Sprintf("run-%d", time.Now().UnixNano())
	runDir := filepath.Join(dataDir, runID)

	writer, err := output.NewWriter(runDir)
	if err != nil {
		return err
	}
	defer writer.Close()

	meta := output.RunMetadata{
		ID:             runID,
		Timestamp:      time.Now(),
		Dim:            cfg.Dim,
		SPHType:        cfg.SPHType,
		KernelKind:     cfg.Kernel,
		ParticleCount:  len(eng.Reals()),
		TimeStart:      cfg.Time.Start,
		TimeEnd:        cfg.Time.End,
		NeighborNumber: cfg.NeighborNumber,
	}
	if err := writer.WriteMetadata(meta); err != nil {
		return err
	}

	var sink engine.OutputSink = writer
	if sqliteDSN != "" {
		archive, err := output.OpenArchive(sqliteDSN)
		if err != nil {
			return err
		}
		defer archive.Close()
		if err := archive.InsertRun(meta); err != nil {
			return err
		}
		sink = output.MultiSink{Sinks: []output.Sink{writer, output.ArchiveSink{Archive: archive, RunID: runID}}}
	}

	fmt.Printf("running %s (%s, dim=%d, %d particles)...\n", preset, cfg.SPHType, cfg.Dim, len(eng.Reals()))
	start := time.Now()

	if err := eng.Run(context.Background(), sink); err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run: %s\n", runDir)
	fmt.Printf("steps: %d\n", eng.StepCount())
	fmt.Printf("max momentum drift: %.3e\n", eng.MomentumDriftMax())

	reportDiagnostics(eng.Diagnostics())
	return nil
}

func reportDiagnostics(log *diagnostics.Log) {
	warn := log.Count(diagnostics.Warn)
	errs := log.Count(diagnostics.Error)
	fatal := log.Count(diagnostics.Fatal)
	if warn == 0 && errs == 0 && fatal == 0 {
		return
	}
	fmt.Printf("diagnostics: %d warnings, %d errors, %d fatal\n", warn, errs, fatal)
}

// watchScenario re-runs runScenario every time the watched config file
// changes, the live-reload instinct the teacher's internal/tui
// interactive mode had for parameter tweaking, grounded here on
// fsnotify instead of a polling loop.
func watchScenario(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return fmt.Errorf("watch requires --config")
	}

	run := func() {
		if err := runScenario(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		}
	}
	run()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(configFile); err != nil {
		return fmt.Errorf("watch: watching %s: %w", configFile, err)
	}

	fmt.Printf("watching %s for changes (ctrl-c to stop)...\n", configFile)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fmt.Printf("\n%s changed, re-running...\n", configFile)
				run()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func liveScenario(cmd *cobra.Command, args []string) error {
	eng, _, err := buildEngine()
	if err != nil {
		return err
	}
	m := tui.NewModel(eng)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

// plotRun ascii-plots the total-energy column of a completed run's
// energy.csv, the way the teacher's plotRun walked a stored
// trajectory's state columns with asciigraph.
func plotRun(cmd *cobra.Command, args []string) error {
	runDir := args[0]
	energyPath := filepath.Join(runDir, "energy.csv")
	f, err := os.Open(energyPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", energyPath, err)
	}
	defer f.Close()

	totals, err := readCSVColumn(f, "total")
	if err != nil {
		return err
	}
	if len(totals) < 2 {
		return fmt.Errorf("not enough energy samples to plot")
	}

	graph := asciigraph.Plot(totals, asciigraph.Height(12), asciigraph.Width(80), asciigraph.Caption("total energy"))
	fmt.Println(graph)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", len(totals))
	fmt.Fprintf(w, "initial\t%.6g\n", totals[0])
	fmt.Fprintf(w, "final\t%.6g\n", totals[len(totals)-1])
	return w.Flush()
}

// readCSVColumn reads every row of a gocsv-written CSV and returns the
// named column as a float64 slice.
func readCSVColumn(f *os.File, column string) ([]float64, error) {
	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := -1
	for i, h := range header {
		if strings.EqualFold(h, column) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("column %q not found in header %v", column, header)
	}

	var out []float64
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if col >= len(row) {
			continue
		}
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
