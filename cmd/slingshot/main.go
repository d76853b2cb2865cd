package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/slingshot/internal/audio"
	"github.com/san-kum/slingshot/internal/config"
	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/experiment"
	"github.com/san-kum/slingshot/internal/viz"
	"github.com/san-kum/slingshot/internal/world"
)

var (
	dataDir string
	debug   bool
	logFile *os.File

	// simulation setup, shared by play and the headless commands
	configFile string
	preset     string
	integrator string
	ticks      int
	seed       int64

	// play
	theme string
	sound bool

	// run
	runName string
	stride  int

	// plot, analyze
	bodyID   uint64
	centerID uint64

	// export-svg
	svgOut  string
	svgSize int
	braille bool

	// sweep, montecarlo
	launchX, launchY   float64
	launchVX, launchVY float64
	dirX, dirY         float64
	speedMin, speedMax float64
	numSteps           int
	posJitter          float64
	velJitter          float64
	numTrials          int
)

// main registers the commands and flags and runs the interactive shell when
// no subcommand is given. An escaped anchor ends the session normally.
func main() {
	rootCmd := &cobra.Command{
		Use:               "slingshot",
		Short:             "2-D gravity sandbox: sling bodies into orbit",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
		RunE: play,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".slingshot", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write diagnostics to debug.log")
	simFlags(rootCmd)
	rootCmd.Flags().StringVar(&theme, "theme", viz.ThemeDeepSpace.Name, "color theme")
	rootCmd.Flags().BoolVar(&sound, "sound", false, "play event cues")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "interactive session (default)",
		Args:  cobra.NoArgs,
		RunE:  play,
	}
	simFlags(playCmd)
	playCmd.Flags().StringVar(&theme, "theme", viz.ThemeDeepSpace.Name, "color theme")
	playCmd.Flags().BoolVar(&sound, "sound", false, "play event cues")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name")
	runCmd.Flags().IntVar(&stride, "stride", 1, "record every n-th tick")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot distances from the central body",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Uint64Var(&centerID, "center", 1, "central body id")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectory to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the trajectories as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 600, "image size")
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "render as terminal dots")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbit analysis of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Uint64Var(&bodyID, "body", 2, "orbiting body id")
	analyzeCmd.Flags().Uint64Var(&centerID, "center", 1, "central body id")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark the integrators on a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  benchPreset,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same preset",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().IntVar(&ticks, "ticks", 0, "ticks to run (default from preset)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the launch speed of one body",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	simFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&launchX, "x", 0, "launch x")
	sweepCmd.Flags().Float64Var(&launchY, "y", 4.2e7, "launch y")
	sweepCmd.Flags().Float64Var(&dirX, "dir-x", 1, "launch direction x")
	sweepCmd.Flags().Float64Var(&dirY, "dir-y", 0, "launch direction y")
	sweepCmd.Flags().Float64Var(&speedMin, "min", 0, "lowest speed")
	sweepCmd.Flags().Float64Var(&speedMax, "max", 8000, "highest speed")
	sweepCmd.Flags().IntVar(&numSteps, "steps", 9, "number of speeds")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "launch many perturbed copies of one body",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	simFlags(monteCarloCmd)
	monteCarloCmd.Flags().Float64Var(&launchX, "x", 0, "launch x")
	monteCarloCmd.Flags().Float64Var(&launchY, "y", 4.2e7, "launch y")
	monteCarloCmd.Flags().Float64Var(&launchVX, "vx", 3080, "launch velocity x")
	monteCarloCmd.Flags().Float64Var(&launchVY, "vy", 0, "launch velocity y")
	monteCarloCmd.Flags().Float64Var(&posJitter, "pos-jitter", 1e6, "position jitter")
	monteCarloCmd.Flags().Float64Var(&velJitter, "vel-jitter", 200, "velocity jitter")
	monteCarloCmd.Flags().IntVar(&numTrials, "trials", 32, "number of trials")

	rootCmd.AddCommand(playCmd, runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		analyzeCmd, benchCmd, compareCmd, presetsCmd, scenarioCmd, sweepCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, dynamo.ErrSessionTerminated) {
			fmt.Println("the anchor escaped; session over")
			return
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func simFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run headless")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
}

// setupLogging keeps diagnostics off the terminal unless --debug is set.
func setupLogging(cmd *cobra.Command, args []string) error {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := tea.LogToFile("debug.log", "slingshot")
	if err != nil {
		return err
	}
	logFile = f
	return nil
}

// loadConfig builds the simulation config: preset, then config file, then
// any flag given explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := experiment.NewRegistry().GetPreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
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
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func play(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []viz.Option{viz.WithTheme(theme)}
	if sound {
		player := audio.NewPlayer()
		if err := player.Start(); err != nil {
			return fmt.Errorf("audio: %w", err)
		}
		defer player.Stop()
		opts = append(opts,
			viz.WithWorldOptions(world.WithObservers(player)),
			viz.WithLaunchHook(player.Launch),
		)
	}

	m, err := viz.NewModel(cfg, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok {
		return fm.Err()
	}
	return nil
}
