package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/afgany/rocket-clusters-dynamics/internal/analysis"
	"github.com/afgany/rocket-clusters-dynamics/internal/api"
	"github.com/afgany/rocket-clusters-dynamics/internal/automation"
	"github.com/afgany/rocket-clusters-dynamics/internal/cluster"
	"github.com/afgany/rocket-clusters-dynamics/internal/config"
	"github.com/afgany/rocket-clusters-dynamics/internal/export"
	"github.com/afgany/rocket-clusters-dynamics/internal/physics"
	"github.com/afgany/rocket-clusters-dynamics/internal/storage"
	"github.com/afgany/rocket-clusters-dynamics/internal/tui"
	"github.com/afgany/rocket-clusters-dynamics/internal/viz"
	"github.com/guptarohit/asciigraph"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	// Damping spectrum
	dampCluster string
	dampRing    int
	zetaCrit    float64
	dampOut     string
	// Stability boundary map
	tauMin  float64
	tauMax  float64
	freqCSV string
	alphaE  float64
	alphaV  float64
	nTau    int
	gain    float64
	mapOut  string
	// Parameter sweep
	sweepCluster string
	sweepRing    int
	parameter    string
	sweepFrom    float64
	sweepTo      float64
	samples      int
	// Amplification range
	nMin      int
	nMax      int
	amplitude float64
	ampOut    string
	// Monte Carlo dispersion
	trials int
	seed   int64
	// Shared analysis inputs
	envName  string
	freqHz   float64
	engIndex float64
	lagMs    float64
	// Output targets
	csvPath string
	saveRun bool
	jsonOut bool
	// Config file
	configFile string
	// Live view
	liveSamples int
	frameRate   int
	// API server address
	host string
	port int
)

// main is the entry point for the rcdyn CLI; it registers commands and
// flags, launches the interactive TUI when no subcommand is given, and
// executes the root command. It exits with status 1 on error.
func main() {
	// Quiet by default; serve raises the level for request logging.
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelWarn,
		TimeFormat: "15:04:05",
	})))

	rootCmd := &cobra.Command{
		Use:   "rcdyn",
		Short: "engine cluster resonance analysis",
		Long:  "rcdyn analyzes acoustic coupling and combustion stability in multi-engine rocket clusters.\n\n" + analysis.Disclaimer,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to interactive mode when no command given
			return tui.Run()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "run data directory")

	infoCmd := &cobra.Command{
		Use:   "info [name]",
		Short: "print engine, cluster, or environment specifications",
		Args:  cobra.ExactArgs(1),
		RunE:  showInfo,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("engines:")
			for _, n := range config.ListEngines() {
				fmt.Printf("  %s\n", n)
			}
			fmt.Println("clusters:")
			for _, n := range config.ListClusters() {
				fmt.Printf("  %s\n", n)
			}
			fmt.Println("environments:")
			for _, n := range config.ListEnvironments() {
				fmt.Printf("  %s\n", n)
			}
			return nil
		},
	}

	dampingCmd := &cobra.Command{
		Use:   "damping",
		Short: "per-mode damping spectrum across environments",
		RunE:  runDamping,
	}
	dampingCmd.Flags().StringVar(&dampCluster, "cluster", "super_heavy", "cluster preset")
	dampingCmd.Flags().IntVar(&dampRing, "ring", 2, "ring index (0-based)")
	dampingCmd.Flags().Float64Var(&freqHz, "freq", 0, "forcing frequency [hz], 0 = engine first tangential")
	dampingCmd.Flags().Float64Var(&zetaCrit, "zeta-crit", 0.035, "critical damping reference line")
	dampingCmd.Flags().StringVar(&dampOut, "output", "damping.svg", "output svg path")
	dampingCmd.Flags().StringVar(&csvPath, "csv", "", "also write the spectrum table to this csv path")
	dampingCmd.Flags().BoolVar(&saveRun, "save", false, "save the run to the data directory")

	stabilityCmd := &cobra.Command{
		Use:   "stability",
		Short: "critical interaction index map over time lag",
		RunE:  runStability,
	}
	stabilityCmd.Flags().Float64Var(&tauMin, "tau-min", 0.1e-3, "min time lag [s]")
	stabilityCmd.Flags().Float64Var(&tauMax, "tau-max", 5.0e-3, "max time lag [s]")
	stabilityCmd.Flags().StringVar(&freqCSV, "freq", "50,135,56", "comma-separated frequencies [hz]")
	stabilityCmd.Flags().Float64Var(&alphaE, "alpha-earth", physics.AlphaEarth, "sea-level absorption coefficient")
	stabilityCmd.Flags().Float64Var(&alphaV, "alpha-vacuum", physics.AlphaVacuum, "vacuum absorption coefficient")
	stabilityCmd.Flags().IntVar(&nTau, "samples", 500, "time lag samples")
	stabilityCmd.Flags().Float64Var(&gain, "gain", 1.0, "coupling gain")
	stabilityCmd.Flags().StringVar(&mapOut, "output", "stability.svg", "output svg path")
	stabilityCmd.Flags().StringVar(&csvPath, "csv", "", "also write the boundary table to this csv path")
	stabilityCmd.Flags().BoolVar(&saveRun, "save", false, "save the run to the data directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one engine parameter and locate the stability boundary",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepCluster, "cluster", config.DefaultCluster, "cluster preset")
	sweepCmd.Flags().IntVar(&sweepRing, "ring", 1, "ring index (0-based)")
	sweepCmd.Flags().StringVar(&envName, "env", config.DefaultEnvironment, "environment preset")
	sweepCmd.Flags().StringVar(&parameter, "parameter", "time_lag", "swept parameter (interaction_index, time_lag, chamber_pressure)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "range start, both zero sweeps the published range")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0, "range end")
	sweepCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "sweep samples")
	sweepCmd.Flags().Float64Var(&freqHz, "freq", 0, "forcing frequency [hz], 0 = engine first tangential")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&csvPath, "csv", "", "also write the sweep table to this csv path")
	sweepCmd.Flags().BoolVar(&saveRun, "save", false, "save the run to the data directory")

	amplifyCmd := &cobra.Command{
		Use:   "amplify",
		Short: "acoustic amplification versus engine count",
		RunE:  runAmplify,
	}
	amplifyCmd.Flags().IntVar(&nMin, "n-min", 1, "min engine count")
	amplifyCmd.Flags().IntVar(&nMax, "n-max", 40, "max engine count")
	amplifyCmd.Flags().Float64Var(&amplitude, "amplitude", config.DefaultAmplitude, "per-engine oscillation amplitude")
	amplifyCmd.Flags().StringVar(&ampOut, "output", "amplification.svg", "output svg path")
	amplifyCmd.Flags().StringVar(&csvPath, "csv", "", "also write the amplification table to this csv path")
	amplifyCmd.Flags().BoolVar(&saveRun, "save", false, "save the run to the data directory")

	clusterCmd := &cobra.Command{
		Use:   "cluster [name]",
		Short: "analyze every ring of a cluster",
		Args:  cobra.ExactArgs(1),
		RunE:  runCluster,
	}
	clusterCmd.Flags().StringVar(&envName, "env", config.DefaultEnvironment, "environment preset")
	clusterCmd.Flags().Float64Var(&freqHz, "freq", 0, "forcing frequency [hz], 0 = engine first tangential")
	clusterCmd.Flags().Float64Var(&engIndex, "index", 0, "override interaction index, 0 keeps the preset")
	clusterCmd.Flags().Float64Var(&lagMs, "lag-ms", 0, "override time lag [ms], 0 keeps the preset")
	clusterCmd.Flags().BoolVar(&jsonOut, "json", false, "emit the full report as json")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted analysis scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	dispersionCmd := &cobra.Command{
		Use:   "dispersion",
		Short: "monte carlo scatter over the published operating ranges",
		RunE:  runDispersion,
	}
	dispersionCmd.Flags().StringVar(&sweepCluster, "cluster", config.DefaultCluster, "cluster preset")
	dispersionCmd.Flags().IntVar(&sweepRing, "ring", 1, "ring index (0-based)")
	dispersionCmd.Flags().StringVar(&envName, "env", config.DefaultEnvironment, "environment preset")
	dispersionCmd.Flags().IntVar(&trials, "trials", 2000, "random operating points to classify")
	dispersionCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 seeds from the clock")
	dispersionCmd.Flags().Float64Var(&freqHz, "freq", 0, "forcing frequency [hz], 0 = engine first tangential")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSVRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate a parameter sweep in the terminal",
		RunE:  runLiveSweep,
	}
	liveCmd.Flags().StringVar(&sweepCluster, "cluster", config.DefaultCluster, "cluster preset")
	liveCmd.Flags().IntVar(&sweepRing, "ring", 1, "ring index (0-based)")
	liveCmd.Flags().StringVar(&envName, "env", config.DefaultEnvironment, "environment preset")
	liveCmd.Flags().StringVar(&parameter, "parameter", "time_lag", "swept parameter")
	liveCmd.Flags().Float64Var(&sweepFrom, "from", 0, "range start, both zero sweeps the published range")
	liveCmd.Flags().Float64Var(&sweepTo, "to", 0, "range end")
	liveCmd.Flags().IntVar(&liveSamples, "samples", 120, "operating points to render")
	liveCmd.Flags().Float64Var(&freqHz, "freq", 0, "forcing frequency [hz], 0 = engine first tangential")
	liveCmd.Flags().IntVar(&frameRate, "fps", 12, "frame rate")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run()
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the http api server",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&host, "host", "127.0.0.1", "host address")
	serveCmd.Flags().IntVar(&port, "port", 8000, "port")

	rootCmd.AddCommand(infoCmd, presetsCmd, dampingCmd, stabilityCmd, sweepCmd, amplifyCmd, clusterCmd, batchCmd, dispersionCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, liveCmd, tuiCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func showInfo(cmd *cobra.Command, args []string) error {
	name := args[0]

	if e, err := config.EngineByName(name); err == nil {
		modes := physics.ChamberModes(e)
		fmt.Printf("engine: %s\n", e.Name)
		fmt.Printf("  thrust sl: %s\n", thrustString(e.ThrustSL))
		fmt.Printf("  thrust vac: %s\n", thrustString(e.ThrustVac))
		fmt.Printf("  chamber pressure: %.0f bar\n", e.ChamberPressure/1e5)
		fmt.Printf("  chamber diameter: %.2f m\n", e.ChamberDiameter)
		fmt.Printf("  expansion ratio: %.0f\n", e.ExpansionRatio)
		fmt.Printf("  dry mass: %.0f kg\n", e.Mass)
		fmt.Printf("  sound speed: %.0f m/s\n", e.SoundSpeed)
		fmt.Printf("  cycle: %s\n", e.Cycle)
		fmt.Printf("  injector: %s\n", e.InjectorType)
		fmt.Printf("  interaction index: %.2f in [%.2f, %.2f]\n", e.Index, e.IndexRng[0], e.IndexRng[1])
		fmt.Printf("  time lag: %.2f ms in [%.2f, %.2f] ms\n", e.Lag*1e3, e.LagRng[0]*1e3, e.LagRng[1]*1e3)
		fmt.Printf("  first tangential: %.0f hz\n", modes.FirstTangential)
		fmt.Printf("\n%s\n", analysis.Disclaimer)
		return nil
	}

	if cl, err := config.ClusterByName(name); err == nil {
		fmt.Printf("cluster: %s\n", cl.Name)
		fmt.Printf("  engine: %s\n", cl.EngineName)
		fmt.Printf("  total engines: %d\n", cl.TotalEngines)
		fmt.Printf("  base diameter: %.1f m\n", cl.BaseDiameter)
		fmt.Println("  rings:")
		for i, r := range cl.Rings {
			fmt.Printf("    [%d] n=%d r=%.2fm %s gimbal=%t\n", i, r.Engines, r.Radius, r.SymmetryGroup, r.Gimbaled)
		}
		fmt.Printf("\n%s\n", analysis.Disclaimer)
		return nil
	}

	if env, err := config.EnvironmentByName(name); err == nil {
		fmt.Printf("environment: %s\n", env.Name)
		fmt.Printf("  ambient pressure: %.0f pa\n", env.AmbientPressure)
		fmt.Printf("  temperature: %.0f k\n", env.Temperature)
		fmt.Printf("  acoustic impedance: %.0f rayl\n", env.AcousticImpedance)
		fmt.Printf("  atmospheric zeta: %.3f\n", env.AtmosphericZeta)
		fmt.Printf("  vacuum: %t\n", env.Vacuum)
		return nil
	}

	return fmt.Errorf("unknown name %q (engines: %s; clusters: %s)",
		name, strings.Join(config.ListEngines(), ", "), strings.Join(config.ListClusters(), ", "))
}

func thrustString(v float64) string {
	if v <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f N", v)
}

func runDamping(cmd *cobra.Command, args []string) error {
	cl, err := config.ClusterByName(dampCluster)
	if err != nil {
		return err
	}
	if dampRing < 0 || dampRing >= len(cl.Rings) {
		return fmt.Errorf("%w: ring index %d out of range, cluster %q has %d rings",
			cluster.ErrInvalidConfig, dampRing, cl.Name, len(cl.Rings))
	}
	ring := cl.Rings[dampRing]

	e, err := config.EngineByName(cl.EngineName)
	if err != nil {
		return err
	}
	envs, err := bothEnvironments()
	if err != nil {
		return err
	}

	omega := analysis.ForcingFrequency(e, freqHz)
	cmp, err := analysis.CompareEnvironments(context.Background(), e, ring, envs, cluster.DefaultDamping(), omega)
	if err != nil {
		return err
	}

	fmt.Printf("damping spectrum: %s ring %d (%d engines), forcing %.1f hz\n\n",
		cl.Name, dampRing, ring.Engines, omega/(2*math.Pi))

	for i, env := range cmp.Environments {
		graph := asciigraph.Plot(cmp.Zeta[i],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("zeta by mode (%s)", env)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENVIRONMENT\tMIN ZETA\tBREATHING ZETA\tSTABLE")
	for i, env := range cmp.Environments {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%t\n", env, cmp.MinZeta[i], cmp.Zeta[i][0], cmp.Reports[i].Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	svg := export.DampingSpectrumSVG(cmp.Zeta, cmp.Environments, zetaCrit, export.DefaultStyle())
	if err := os.WriteFile(dampOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("\ndamping spectrum saved to %s\n", dampOut)

	header, rows := export.SpectrumTable(cmp)
	if csvPath != "" {
		if err := export.WriteCSV(csvPath, header, rows); err != nil {
			return err
		}
		fmt.Printf("csv saved to %s\n", csvPath)
	}
	if saveRun {
		summary := make(map[string]float64, len(cmp.Environments))
		for i, env := range cmp.Environments {
			summary["min_zeta_"+env] = cmp.MinZeta[i]
		}
		meta := storage.RunMetadata{
			Kind:         "damping",
			Engine:       cl.EngineName,
			Cluster:      dampCluster,
			Environments: cmp.Environments,
			FrequencyHz:  omega / (2 * math.Pi),
			Summary:      summary,
		}
		if err := saveTable(meta, header, rows); err != nil {
			return err
		}
	}

	fmt.Printf("\n%s\n", analysis.Disclaimer)
	return nil
}

func runStability(cmd *cobra.Command, args []string) error {
	freqs, err := parseFrequencies(freqCSV)
	if err != nil {
		return err
	}

	bm, err := physics.SweepBoundaryMap(tauMin, tauMax, freqs, alphaE, alphaV, nTau, gain)
	if err != nil {
		return err
	}

	fmt.Printf("stability boundary map: tau %.2f-%.2f ms, %d samples\n\n", tauMin*1e3, tauMax*1e3, nTau)

	for f, freq := range bm.Frequencies {
		graph := asciigraph.Plot(bm.NCrit[0][f],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("n_crit vs tau (%s, %g hz)", bm.Environments[0], freq)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	// The most easily destabilized point per environment.
	for e, env := range bm.Environments {
		minN := math.Inf(1)
		minTau, minFreq := 0.0, 0.0
		for f := range bm.Frequencies {
			for i, n := range bm.NCrit[e][f] {
				if n < minN {
					minN = n
					minTau = bm.Tau[i]
					minFreq = bm.Frequencies[f]
				}
			}
		}
		fmt.Printf("%s: min n_crit %.3f at tau %.2f ms, %g hz\n", env, minN, minTau*1e3, minFreq)
	}

	svg := export.BoundaryMapSVG(bm, export.DefaultStyle())
	if err := os.WriteFile(mapOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("\nstability map saved to %s\n", mapOut)

	header, rows := export.BoundaryTable(bm)
	if csvPath != "" {
		if err := export.WriteCSV(csvPath, header, rows); err != nil {
			return err
		}
		fmt.Printf("csv saved to %s\n", csvPath)
	}
	if saveRun {
		meta := storage.RunMetadata{
			Kind:         "stability",
			Environments: bm.Environments,
			Parameter:    string(physics.ParamLag),
		}
		if err := saveTable(meta, header, rows); err != nil {
			return err
		}
	}

	fmt.Printf("\n%s\n", analysis.Disclaimer)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	d := cluster.DefaultDamping()

	// Load config file if specified (CLI flags override config)
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("cluster") {
			sweepCluster = cfg.Cluster
		}
		if !cmd.Flags().Changed("env") {
			envName = cfg.Environment
		}
		if !cmd.Flags().Changed("parameter") {
			parameter = cfg.Sweep.Parameter
		}
		if !cmd.Flags().Changed("from") {
			sweepFrom = cfg.Sweep.From
		}
		if !cmd.Flags().Changed("to") {
			sweepTo = cfg.Sweep.To
		}
		if !cmd.Flags().Changed("samples") {
			samples = cfg.Sweep.Samples
		}
		if !cmd.Flags().Changed("freq") {
			freqHz = cfg.Frequency
		}
		if !cmd.Root().PersistentFlags().Changed("data") {
			dataDir = cfg.DataDir
		}
		d = cfg.GetDamping()
	}

	cl, err := config.ClusterByName(sweepCluster)
	if err != nil {
		return err
	}
	if sweepRing < 0 || sweepRing >= len(cl.Rings) {
		return fmt.Errorf("%w: ring index %d out of range, cluster %q has %d rings",
			cluster.ErrInvalidConfig, sweepRing, cl.Name, len(cl.Rings))
	}
	e, err := config.EngineByName(cl.EngineName)
	if err != nil {
		return err
	}
	env, err := config.EnvironmentByName(envName)
	if err != nil {
		return err
	}

	rc := config.Config{Sweep: config.SweepConfig{Parameter: parameter, From: sweepFrom, To: sweepTo}}
	from, to := rc.SweepRange(e)

	spec := physics.SweepSpec{
		Parameter: physics.Parameter(parameter),
		From:      from,
		To:        to,
		Samples:   samples,
		Omega:     analysis.ForcingFrequency(e, freqHz),
	}
	res, err := physics.SweepParameter(e, cl.Rings[sweepRing], env, d, spec)
	if err != nil {
		return err
	}

	fmt.Printf("sweep: %s from %.4g to %.4g (%d samples), %s ring %d, %s\n\n",
		parameter, from, to, samples, cl.Name, sweepRing, env.Name)

	margins := make([]float64, len(res.Points))
	for i, p := range res.Points {
		margins[i] = p.Margin
	}
	graph := asciigraph.Plot(margins,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("stability margin vs %s", parameter)),
	)
	fmt.Println(graph)
	fmt.Println()

	if res.NarrowedLow > 0 || res.NarrowedHigh > 0 {
		fmt.Printf("note: %d low / %d high edge samples dropped (invalid configuration)\n",
			res.NarrowedLow, res.NarrowedHigh)
	}
	if !res.BoundaryFound {
		label := "unstable"
		if len(res.Points) > 0 && res.Points[0].Stable {
			label = "stable"
		}
		fmt.Printf("no stability boundary in range, all sampled points %s\n", label)
	}
	for _, c := range res.Crossings {
		direction := "unstable to stable"
		if c.FromStable {
			direction = "stable to unstable"
		}
		fmt.Printf("boundary at %s = %.6g (%s)\n", parameter, c.Value, direction)
	}

	header, rows := export.SweepTable(res)
	if csvPath != "" {
		if err := export.WriteCSV(csvPath, header, rows); err != nil {
			return err
		}
		fmt.Printf("csv saved to %s\n", csvPath)
	}
	if saveRun {
		found := 0.0
		if res.BoundaryFound {
			found = 1
		}
		meta := storage.RunMetadata{
			Kind:         "sweep",
			Engine:       cl.EngineName,
			Cluster:      sweepCluster,
			Environments: []string{env.Name},
			FrequencyHz:  spec.Omega / (2 * math.Pi),
			Parameter:    parameter,
			Summary: map[string]float64{
				"crossings":      float64(len(res.Crossings)),
				"boundary_found": found,
			},
		}
		if err := saveTable(meta, header, rows); err != nil {
			return err
		}
	}

	fmt.Printf("\n%s\n", analysis.Disclaimer)
	return nil
}

func runAmplify(cmd *cobra.Command, args []string) error {
	earth, err := config.EnvironmentByName("earth_sl")
	if err != nil {
		return err
	}
	res, err := physics.AmplificationSweep(nMin, nMax, amplitude, cluster.DefaultDamping(), earth.AtmosphericZeta)
	if err != nil {
		return err
	}

	fmt.Printf("amplification sweep: n %d-%d, amplitude %.1f\n\n", nMin, nMax, amplitude)

	graph := asciigraph.Plot(res.Ratio,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("coherent/incoherent ratio vs engine count"),
	)
	fmt.Println(graph)
	fmt.Println()

	last := len(res.Counts) - 1
	fmt.Printf("at n=%d: coherent %.1f, incoherent %.2f, ratio %.2f, vacuum margin %.1f%%\n",
		res.Counts[last], res.Coherent[last], res.Incoherent[last], res.Ratio[last], res.MarginPercent[last])

	svg := export.AmplificationSVG(res, export.DefaultStyle())
	if err := os.WriteFile(ampOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("\namplification plot saved to %s\n", ampOut)

	header, rows := export.AmplificationTable(res)
	if csvPath != "" {
		if err := export.WriteCSV(csvPath, header, rows); err != nil {
			return err
		}
		fmt.Printf("csv saved to %s\n", csvPath)
	}
	if saveRun {
		meta := storage.RunMetadata{
			Kind:         "amplification",
			Environments: []string{earth.Name},
			Summary: map[string]float64{
				"n_max":     float64(res.Counts[last]),
				"ratio_max": res.Ratio[last],
			},
		}
		if err := saveTable(meta, header, rows); err != nil {
			return err
		}
	}

	fmt.Printf("\n%s\n", analysis.Disclaimer)
	return nil
}

func runCluster(cmd *cobra.Command, args []string) error {
	cl, err := config.ClusterByName(args[0])
	if err != nil {
		return err
	}
	e, err := config.EngineByName(cl.EngineName)
	if err != nil {
		return err
	}
	if engIndex > 0 {
		e = e.WithIndex(engIndex)
	}
	if lagMs > 0 {
		e = e.WithLag(lagMs / 1e3)
	}
	env, err := config.EnvironmentByName(envName)
	if err != nil {
		return err
	}

	omega := analysis.ForcingFrequency(e, freqHz)
	a := analysis.NewAnalyzer(e, env, cluster.DefaultDamping())
	rep, err := a.AnalyzeCluster(context.Background(), cl, omega)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	fmt.Printf("cluster: %s (%s, %d engines), %s\n", cl.Name, cl.EngineName, cl.TotalEngines, env.Name)
	fmt.Printf("forcing: %.1f hz\n\n", omega/(2*math.Pi))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RING\tENGINES\tMIN ZETA\tBREATHING\tRESPONSE\tSTABLE")
	for _, r := range rep.Rings {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\t%s\t%t\n",
			r.RingIndex, r.Engines, r.MinZeta, r.Damping.Zeta[0], rayleighString(r.Point.Rayleigh), r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if rep.Stable {
		fmt.Printf("\ncluster stable, min zeta %.4f\n", rep.MinZeta)
	} else {
		fmt.Printf("\ncluster UNSTABLE, min zeta %.4f\n", rep.MinZeta)
	}

	fmt.Println()
	fmt.Println(viz.RingLayout(cl, 60, 14).String())
	fmt.Println(analysis.Disclaimer)
	return nil
}

func rayleighString(r int) string {
	switch {
	case r > 0:
		return "driving"
	case r < 0:
		return "damping"
	}
	return "neutral"
}

func runBatch(cmd *cobra.Command, args []string) error {
	scn, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%d steps)\n", scn.Name, len(scn.Steps))
	if scn.Description != "" {
		fmt.Println(scn.Description)
	}
	fmt.Println()

	runner := automation.Runner{Store: storage.New(dataDir)}
	results, runErr := runner.Run(context.Background(), scn)
	for i, res := range results {
		fmt.Printf("[%d] %s", i+1, res.Kind)
		if res.Output != "" {
			fmt.Printf(" figure=%s", res.Output)
		}
		if res.CSV != "" {
			fmt.Printf(" csv=%s", res.CSV)
		}
		if res.RunID != "" {
			fmt.Printf(" run=%s", res.RunID)
		}
		fmt.Println()
	}
	if runErr != nil {
		return runErr
	}

	fmt.Printf("\n%s\n", analysis.Disclaimer)
	return nil
}

func runDispersion(cmd *cobra.Command, args []string) error {
	res, err := automation.RunDispersion(context.Background(), automation.Dispersion{
		Cluster:     sweepCluster,
		Ring:        sweepRing,
		Environment: envName,
		Trials:      trials,
		Seed:        seed,
		Frequency:   freqHz,
	}, cluster.DefaultDamping())
	if err != nil {
		return err
	}

	fmt.Printf("dispersion: %s ring %d, %s, %d trials\n\n", sweepCluster, sweepRing, envName, res.Trials)
	fmt.Printf("stable: %d of %d (%.1f%%)\n", res.Stable, res.Trials, res.StableFraction*100)
	fmt.Printf("worst point: n=%.3f, tau=%.3f ms, margin %.4f\n", res.WorstIndex, res.WorstLag*1e3, res.WorstMargin)

	fmt.Printf("\n%s\n", analysis.Disclaimer)
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
	fmt.Fprintln(w, "ID\tKIND\tENGINE\tCLUSTER\tENVIRONMENTS\tTIME")

	for _, run := range runs {
		clusterName := run.Cluster
		if clusterName == "" {
			clusterName = "-"
		}
		engine := run.Engine
		if engine == "" {
			engine = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Kind,
			engine,
			clusterName,
			strings.Join(run.Environments, ","),
			run.Timestamp.Format("2006-01-02 15:04:05"),
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

	header, rows, err := st.LoadData(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("samples: %d\n\n", len(rows))

	numCols := len(header) - 1
	maxPlots := 6
	if numCols > maxPlots {
		numCols = maxPlots
	}

	for c := 1; c <= numCols; c++ {
		data := make([]float64, len(rows))
		for i := range rows {
			data[i] = rows[i][c]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", header[c], header[0])),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
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

func exportCSVRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	header, rows, err := st.LoadData(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, val := range row {
			record[i] = strconv.FormatFloat(val, 'f', 6, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func runLiveSweep(cmd *cobra.Command, args []string) error {
	cl, err := config.ClusterByName(sweepCluster)
	if err != nil {
		return err
	}
	if sweepRing < 0 || sweepRing >= len(cl.Rings) {
		return fmt.Errorf("%w: ring index %d out of range, cluster %q has %d rings",
			cluster.ErrInvalidConfig, sweepRing, cl.Name, len(cl.Rings))
	}
	e, err := config.EngineByName(cl.EngineName)
	if err != nil {
		return err
	}
	env, err := config.EnvironmentByName(envName)
	if err != nil {
		return err
	}

	p := physics.Parameter(parameter)
	rc := config.Config{Sweep: config.SweepConfig{Parameter: parameter, From: sweepFrom, To: sweepTo}}
	from, to := rc.SweepRange(e)
	if liveSamples < 2 {
		liveSamples = 2
	}
	omega := analysis.ForcingFrequency(e, freqHz)
	d := cluster.DefaultDamping()

	r := tui.NewLiveRenderer(fmt.Sprintf("%s ring %d, %s", cl.Name, sweepRing, env.Name), frameRate)
	r.Start()
	defer r.Stop()

	step := (to - from) / float64(liveSamples-1)
	shown := 0
	for i := 0; i < liveSamples; i++ {
		v := from + float64(i)*step
		e2, err := p.Substitute(e, v)
		if err != nil {
			return err
		}
		rep, err := analysis.NewAnalyzer(e2, env, d).AnalyzeRing(context.Background(), sweepRing, cl.Rings[sweepRing], omega)
		if err != nil {
			// Range edges can produce invalid configurations, skip them.
			continue
		}
		r.Frame(liveLabel(p, v), rep.Damping.Zeta, rep.Point.Margin, rep.Stable)
		shown++
	}

	fmt.Printf("\n%d of %d operating points rendered\n", shown, liveSamples)
	return nil
}

func liveLabel(p physics.Parameter, v float64) string {
	switch p {
	case physics.ParamLag:
		return fmt.Sprintf("tau %.3f ms", v*1e3)
	case physics.ParamPressure:
		return fmt.Sprintf("pc %.1f bar", v/1e5)
	}
	return fmt.Sprintf("n %.3f", v)
}

func runServe(cmd *cobra.Command, args []string) error {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "15:04:05",
	})))

	srv := api.NewServer(slog.Default())
	addr := fmt.Sprintf("%s:%d", host, port)
	fmt.Printf("starting api server on http://%s\n", addr)
	fmt.Println(analysis.Disclaimer)
	return http.ListenAndServe(addr, srv)
}

func bothEnvironments() ([]cluster.Environment, error) {
	earth, err := config.EnvironmentByName("earth_sl")
	if err != nil {
		return nil, err
	}
	vacuum, err := config.EnvironmentByName("lunar_vacuum")
	if err != nil {
		return nil, err
	}
	return []cluster.Environment{earth, vacuum}, nil
}

func parseFrequencies(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	freqs := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad frequency %q: %w", part, err)
		}
		freqs = append(freqs, f)
	}
	return freqs, nil
}

func saveTable(meta storage.RunMetadata, header []string, rows [][]float64) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(meta, header, rows)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", id)
	return nil
}
