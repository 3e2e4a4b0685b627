package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/dpdsim/internal/config"
	"github.com/san-kum/dpdsim/internal/sim"
	"github.com/san-kum/dpdsim/internal/storage"
	"github.com/san-kum/dpdsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string

	numParts   int
	density    float64
	dt         float64
	loops      int
	steps      int
	seed       int64
	thermostat string
	gamma      float64
	tgamma     float64
	temp       float64
	viscosity  bool
	skipWarmup bool

	pngPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dpdsim",
		Short: "particle fluid simulation with pairwise stochastic thermostats",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dpdsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live temperature view",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the temperature trace of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngPath, "png", "", "write the plot to a PNG file instead of the terminal")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.Default())
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().IntVar(&numParts, "n", config.DefaultN, "number of particles")
	cmd.Flags().Float64Var(&density, "density", config.DefaultDensity, "number density")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&loops, "loops", 50, "production blocks")
	cmd.Flags().IntVar(&steps, "steps", 100, "steps per block")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&thermostat, "thermostat", "dpd", "thermostat (dpd|langevin|none)")
	cmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "friction coefficient")
	cmd.Flags().Float64Var(&tgamma, "tgamma", 0.0, "transverse friction coefficient")
	cmd.Flags().Float64Var(&temp, "temp", config.DefaultTemperature, "target temperature")
	cmd.Flags().BoolVar(&viscosity, "viscosity", false, "accumulate dyadic stress totals")
	cmd.Flags().BoolVar(&skipWarmup, "no-warmup", false, "skip the warm-up phase")
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Explicit flags override the file.
	if cmd.Flags().Changed("n") {
		cfg.N = numParts
	}
	if cmd.Flags().Changed("density") {
		cfg.Density = density
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("loops") {
		cfg.Loops = loops
	}
	if cmd.Flags().Changed("steps") {
		cfg.StepsPerLoop = steps
	}
	if cmd.Flags().Changed("thermostat") {
		cfg.Thermostat.Type = thermostat
	}
	if cmd.Flags().Changed("gamma") {
		cfg.Thermostat.Gamma = gamma
	}
	if cmd.Flags().Changed("tgamma") {
		cfg.Thermostat.TGamma = tgamma
	}
	if cmd.Flags().Changed("temp") {
		cfg.Thermostat.Temperature = temp
	}
	if cmd.Flags().Changed("viscosity") {
		cfg.Thermostat.Viscosity = viscosity
	}
	cfg.Seed = seed
	if skipWarmup {
		cfg.Warmup.Loops = 0
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(viz.Header(fmt.Sprintf("dpdsim  n=%d  thermostat=%s", cfg.N, cfg.Thermostat.Type)))

	if err := s.Warmup(ctx); err != nil {
		return fmt.Errorf("warmup: %w", err)
	}

	start := time.Now()
	result, err := s.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(viz.Trace("temperature", result.Temperature))
	fmt.Println(viz.Stat("steps", "%d", result.StepsTaken))
	fmt.Println(viz.Stat("wall time", "%s", elapsed.Round(time.Millisecond)))
	for name, value := range result.Metrics {
		fmt.Println(viz.Stat(name, "%.6f", value))
	}
	if cfg.Thermostat.Viscosity {
		fmt.Println(viz.Stat("stress xz/zx", "%.6f / %.6f", result.StressXZ, result.StressZX))
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(cfg, result)
	if err != nil {
		return err
	}
	fmt.Println(viz.Stat("saved", "%s", runID))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := s.Warmup(ctx); err != nil {
		return fmt.Errorf("warmup: %w", err)
	}

	model := viz.NewLive(s, cfg.Loops)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}
	if live, ok := final.(viz.Live); ok && live.Err() != nil {
		return live.Err()
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTHERMOSTAT\tN\tDT\tTEMP\tSTEPS\tWHEN")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%g\t%d\t%s\n",
			r.ID, r.Thermostat, r.N, r.Dt, r.Temperature, r.Steps,
			r.Timestamp.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	times, temps, err := store.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(temps) < 2 {
		return fmt.Errorf("run %s has no trace to plot", args[0])
	}

	if pngPath != "" {
		if err := viz.SavePNG(times, temps, "temperature", "t", "T", pngPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngPath)
		return nil
	}

	fmt.Println(viz.Trace(fmt.Sprintf("temperature (%s)", args[0]), temps))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.LoadMetadata(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
