package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/slingshot/internal/analysis"
	"github.com/san-kum/slingshot/internal/automation"
	"github.com/san-kum/slingshot/internal/config"
	"github.com/san-kum/slingshot/internal/dynamo"
	"github.com/san-kum/slingshot/internal/experiment"
	"github.com/san-kum/slingshot/internal/export"
	"github.com/san-kum/slingshot/internal/storage"
	"github.com/san-kum/slingshot/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	exp := experiment.New(experiment.Config{Name: runName, Sim: cfg, Stride: stride})

	fmt.Printf("running %d bodies for %d ticks (%s)...\n", len(cfg.Bodies), cfg.Ticks, cfg.Integrator)
	result, err := exp.Run(ctx)
	if result == nil {
		return err
	}

	runID, saveErr := st.Save(result.Metadata(cfg), result.Samples)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	printResult(result)
	return err
}

func printResult(r *experiment.Result) {
	fmt.Printf("ticks: %d\n", r.Ticks)
	fmt.Printf("outcome: %s\n", r.Outcome)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(r.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, r.Metrics[name])
	}
	if len(r.Diagnostics) > 0 {
		fmt.Printf("\n%d invalid states detected\n", len(r.Diagnostics))
	}
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tTICKS\tINTEG\tBODIES\tOUTCOME")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Integrator,
			len(run.Bodies),
			run.Outcome,
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

	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("ticks: %d (%s)\n", meta.Ticks, meta.Outcome)
	fmt.Printf("samples: %d\n\n", len(samples))

	center := dynamo.BodyID(centerID)
	maxPlots := 6
	plotted := 0
	for _, id := range storage.IDs(samples) {
		if id == center || plotted == maxPlots {
			continue
		}
		r, err := analysis.RadialDistance(samples, id, center)
		if err != nil {
			return err
		}
		if len(r) < 2 {
			continue
		}

		graph := asciigraph.Plot(r,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %s distance from %s", id, center)),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}

	if plotted == 0 {
		fmt.Println("nothing orbits the central body")
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, samples)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	var svg string
	if braille {
		// one canvas dot per four pixels
		dots := svgSize / 4
		view := viz.Viewport{Width: dots, Height: dots, Boundary: meta.SpaceBoundary}
		svg = export.CanvasToSVG(export.RenderCanvas(samples, meta.Bodies, view), 4)
	} else {
		svg = export.TrajectoriesToSVG(samples, meta.Bodies, meta.SpaceBoundary, svgSize)
	}

	if svgOut == "" {
		_, err := fmt.Print(svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	body, center := dynamo.BodyID(bodyID), dynamo.BodyID(centerID)
	r, err := analysis.RadialDistance(samples, body, center)
	if err != nil {
		return err
	}

	fmt.Printf("orbit analysis: %s\n", meta.ID)
	fmt.Printf("body %s around %s, %d samples\n\n", body, center, len(r))

	peri, apo := analysis.Apsides(r)
	fmt.Printf("periapsis: %.4g m\n", peri)
	fmt.Printf("apoapsis: %.4g m\n", apo)
	fmt.Printf("eccentricity: %.4f\n", analysis.Eccentricity(peri, apo))

	period, err := analysis.DominantPeriod(r)
	if err != nil {
		fmt.Printf("period: %v\n", err)
		return nil
	}

	ps := analysis.PowerSpectrum(r)
	graph := asciigraph.Plot(ps[:max(len(ps)/4, 1)],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (radial distance)"),
	)
	fmt.Println()
	fmt.Println(graph)
	fmt.Println()

	track, _ := storage.Track(samples, body)
	spacing := 1
	if len(track) > 1 {
		spacing = track[1].Tick - track[0].Tick
	}
	fmt.Printf("period: %.1f ticks\n", period*float64(spacing))
	return nil
}

func benchPreset(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	base, err := registry.GetPreset(args[0])
	if err != nil {
		return err
	}

	tickCounts := []int{100, 500, 1000}

	fmt.Printf("benchmarking %s (%d bodies)\n\n", args[0], len(base.Bodies))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tTICKS\tTIME\tTICKS/SEC\tMIN STEP")

	for _, name := range registry.ListIntegrators() {
		for _, n := range tickCounts {
			sim := *base
			sim.Integrator = name
			sim.Ticks = n

			exp := experiment.New(experiment.Config{Sim: &sim, Stride: n})
			start := time.Now()
			result, err := exp.Run(cmd.Context())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\t%.4g\n",
				name, result.Ticks, elapsed, float64(result.Ticks)/elapsed.Seconds(), result.Metrics["min_step"])
		}
	}

	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	base, err := registry.GetPreset(args[0])
	if err != nil {
		return err
	}
	names := args[1:]

	configs := make([]experiment.Config, len(names))
	for i, name := range names {
		if _, err := registry.GetIntegrator(name, base.Policy()); err != nil {
			return err
		}
		sim := *base
		sim.Integrator = name
		if cmd.Flags().Changed("ticks") {
			sim.Ticks = ticks
		}
		configs[i] = experiment.Config{Name: name, Sim: &sim}
	}

	ctx, cancel := interruptible()
	defer cancel()

	results, err := experiment.NewEnsemble(configs...).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators on %s\n\n", args[0])
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tTICKS\tOUTCOME\tENERGY DRIFT\tMIN STEP\tCOLLISIONS\tESCAPES\tTIME")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%s\t%.3e\t%.4g\t%.0f\t%.0f\t%v\n",
			r.Name, r.Ticks, r.Outcome,
			r.Metrics["energy_drift"], r.Metrics["min_step"],
			r.Metrics["collisions"], r.Metrics["escapes"], r.Elapsed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) < 2 {
		return nil
	}

	ref := results[0]
	fmt.Printf("\ndivergence from %s:\n", ref.Name)
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tBODY\tMAX SEPARATION\tGROWTH/TICK")
	for _, r := range results[1:] {
		for _, id := range storage.IDs(ref.Samples) {
			a, err := storage.Track(ref.Samples, id)
			if err != nil {
				continue
			}
			b, err := storage.Track(r.Samples, id)
			if err != nil {
				continue
			}
			sep := analysis.Divergence(a, b)
			worst := 0.0
			for _, d := range sep {
				worst = math.Max(worst, d)
			}
			fmt.Fprintf(w, "%s\t%s\t%.4g\t%.4g\n", r.Name, id, worst, analysis.GrowthRate(sep))
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBODIES\tINTEG\tTICKS\tBOUNDARY")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%.3g\n", name, len(p.Bodies), p.Integrator, p.Ticks, p.SpaceBoundary)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	registry := experiment.NewRegistry()
	result, err := automation.RunScenario(ctx, scenario, registry)
	if result == nil {
		return err
	}
	printResult(result)

	if scenario.SaveAs != "" {
		built, buildErr := scenario.Build(registry)
		if buildErr != nil {
			return buildErr
		}
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta := result.Metadata(built.Sim)
		meta.Name = scenario.SaveAs
		runID, saveErr := st.Save(meta, result.Samples)
		if saveErr != nil {
			return saveErr
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.LaunchSweep{
		Base:      cfg,
		Position:  dynamo.Vector{X: launchX, Y: launchY},
		Direction: dynamo.Vector{X: dirX, Y: dirY},
		SpeedMin:  speedMin,
		SpeedMax:  speedMax,
		NumSteps:  numSteps,
		Progress:  os.Stderr,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPEED\tFATE\tLAST TICK\tPERIAPSIS\tAPOAPSIS")
	for _, r := range results {
		fmt.Fprintf(w, "%.1f\t%s\t%d\t%.4g\t%.4g\n", r.Speed, r.Fate, r.LastTick, r.Periapsis, r.Apoapsis)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:           cfg,
		Position:       dynamo.Vector{X: launchX, Y: launchY},
		Velocity:       dynamo.Vector{X: launchVX, Y: launchVY},
		PositionJitter: posJitter,
		VelocityJitter: velJitter,
		NumTrials:      numTrials,
		Seed:           cfg.Seed,
		Progress:       os.Stderr,
	})
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("stable: %d (%.1f%%)\n", stable, 100*float64(stable)/float64(len(results)))
	fmt.Printf("unstable: %d\n\n", unstable)

	counts := automation.FateCounts(results)
	for _, fate := range sortedKeys(counts) {
		fmt.Printf("  %s: %d\n", fate, counts[fate])
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
