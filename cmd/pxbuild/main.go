package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/san-kum/pxbind/internal/build"
	"github.com/san-kum/pxbind/internal/config"
	"github.com/san-kum/pxbind/internal/hierarchy"
	"github.com/san-kum/pxbind/internal/log"
	"github.com/san-kum/pxbind/internal/runner"
	"github.com/san-kum/pxbind/internal/sources"
	"github.com/san-kum/pxbind/internal/storage"
	"github.com/san-kum/pxbind/internal/toolchain"
	"github.com/san-kum/pxbind/internal/tui"
	"github.com/san-kum/pxbind/internal/viz"
)

var (
	dataDir    string
	configFile string
	verbose    bool
	jsonLogs   bool

	target   string
	host     string
	outDir   string
	features string
	preset   string

	force     bool
	dryRun    bool
	useTUI    bool
	component string
	exportOut string
	slowest   int

	logger = log.New(log.LevelInfo)
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pxbuild",
		Short:         "build the physx engine and its C adapter",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.LevelInfo
			if verbose {
				level = log.LevelDebug
			}
			if jsonLogs {
				logger = log.NewJSON(level)
			} else {
				logger = log.New(level)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "build history directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "log as json")

	descriptorFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&target, "target", "", "target triple (overrides TARGET)")
		cmd.Flags().StringVar(&host, "host", "", "host triple (overrides HOST)")
		cmd.Flags().StringVar(&outDir, "out-dir", "", "output directory (overrides OUT_DIR)")
		cmd.Flags().StringVar(&features, "features", "", "comma separated features (profile,structgen,cpp_warnings)")
		cmd.Flags().StringVar(&preset, "preset", "", "use a preset descriptor set")
	}

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "compile the engine and adapter libraries",
		RunE:  runBuild,
	}
	descriptorFlags(buildCmd)
	buildCmd.Flags().BoolVar(&force, "force", false, "rebuild even when inputs are unchanged")
	buildCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print commands without running them")
	buildCmd.Flags().BoolVar(&useTUI, "tui", false, "show build progress")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "print resolved sources, includes and flags",
		RunE:  runPlan,
	}
	descriptorFlags(planCmd)
	planCmd.Flags().StringVar(&component, "component", "", "resolve a single component")

	flagsCmd := &cobra.Command{
		Use:   "flags",
		Short: "print selected toolchain flags",
		RunE:  runFlags,
	}
	descriptorFlags(flagsCmd)

	structgenCmd := &cobra.Command{
		Use:   "structgen",
		Short: "generate struct layouts for the target",
		RunE:  runStructgen,
	}
	descriptorFlags(structgenCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list descriptor presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "list recorded builds",
		RunE:  listBuilds,
	}

	showCmd := &cobra.Command{
		Use:   "show [build_id]",
		Short: "show a recorded build",
		Args:  cobra.ExactArgs(1),
		RunE:  showBuild,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [build_id]",
		Short: "plot compile times of a build",
		Args:  cobra.ExactArgs(1),
		RunE:  plotBuild,
	}
	plotCmd.Flags().IntVar(&slowest, "slowest", 10, "number of slowest sources to list")

	exportCmd := &cobra.Command{
		Use:   "export [build_id]",
		Short: "export a build record as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportBuild,
	}
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")

	classesCmd := &cobra.Command{
		Use:   "classes",
		Short: "print the capability table",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(viz.Classes(hierarchy.Default()))
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify-layout [file]",
		Short: "check a generated layout against the declared capability table",
		Args:  cobra.ExactArgs(1),
		RunE:  verifyLayout,
	}

	rootCmd.AddCommand(buildCmd, planCmd, flagsCmd, structgenCmd, presetsCmd,
		historyCmd, showCmd, plotCmd, exportCmd, classesCmd, verifyCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("pxbuild failed", log.Err(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func options() (*config.Options, error) {
	if configFile == "" {
		if _, err := os.Stat("pxbuild.yaml"); err != nil {
			return config.DefaultOptions(), nil
		}
		configFile = "pxbuild.yaml"
	}
	opts, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configFile, err)
	}
	return opts, nil
}

// settings merges, in increasing priority, the process environment, a
// preset and the command line descriptors.
func settings() (*config.Settings, error) {
	opts, err := options()
	if err != nil {
		return nil, err
	}

	environ := config.Environ()
	if preset != "" {
		environ = config.GetPreset(preset, environ)
		if environ == nil {
			return nil, fmt.Errorf("unknown preset: %s (have %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		if _, ok := environ["OUT_DIR"]; !ok {
			environ["OUT_DIR"] = "target/pxbuild/" + preset
		}
	}
	for key, val := range map[string]string{
		"TARGET":           target,
		"HOST":             host,
		"OUT_DIR":          outDir,
		"PXBUILD_FEATURES": features,
	} {
		if val != "" {
			environ[key] = val
		}
	}

	e, err := config.LoadEnv(environ)
	if err != nil {
		return nil, err
	}
	return config.Resolve(e, opts)
}

func openStore() (*storage.Store, error) {
	dir := dataDir
	if dir == "" {
		opts, err := options()
		if err != nil {
			return nil, err
		}
		dir = opts.DataDir
	}
	store := storage.New(dir)
	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := settings()
	if err != nil {
		return err
	}

	p, err := build.NewPlanner(runner.NewExec(), logger).Plan(ctx, s)
	if err != nil {
		return err
	}
	fp := fmt.Sprintf("%016x", build.Fingerprint(p, s.Options.Watch))

	if dryRun {
		fmt.Print(viz.Plan(p, verbose))
		fmt.Println()
		for _, c := range p.Commands() {
			fmt.Println(c.String())
		}
		fmt.Println(viz.Label.Render("fingerprint ") + viz.Value.Render(fp))
		return nil
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	if !force {
		last, err := store.LastSuccess(s.Target)
		switch {
		case err == nil && last.Fingerprint == fp:
			logger.Info("inputs unchanged, skipping build",
				log.String("target", s.Target),
				log.String("previous", last.ID))
			fmt.Printf("%s %s\n", viz.Status(storage.StatusSkip), viz.Subtle.Render("up to date with "+last.ID))
			return nil
		case err != nil && !errors.Is(err, storage.ErrNoBuild):
			return err
		}
	}

	exec := build.NewExecutor(runner.NewExec(), logger)
	started := time.Now()
	var res *build.Result
	if useTUI {
		res, err = tui.Run(ctx, exec, p)
	} else {
		res, err = exec.Run(ctx, p)
	}

	meta := &storage.BuildMetadata{
		ID:          uuid.NewString(),
		Target:      s.Target,
		Host:        s.Host,
		Mode:        string(s.Mode),
		Compiler:    p.Compiler,
		Family:      p.Family.String(),
		Features:    s.Features.Names(),
		Timestamp:   started,
		Fingerprint: fp,
		Status:      storage.StatusOK,
		Duration:    time.Since(started).Seconds(),
		Sources:     len(p.Engine.Sources) + len(p.Adapter.Sources),
		Includes:    len(p.Engine.Includes),
	}
	var timings []build.Timing
	if res != nil {
		meta.ID = res.ID
		meta.Archives = res.Archives
		timings = res.Timings
	}
	if err != nil {
		meta.Status = storage.StatusFailed
		meta.Error = err.Error()
	}

	if _, serr := store.Save(meta, timings); serr != nil {
		logger.Warn("could not record build", log.Err(serr))
	}
	if err != nil {
		return err
	}

	fmt.Print(viz.Build(meta))
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	s, err := settings()
	if err != nil {
		return err
	}
	if component != "" {
		return planComponent(s, component)
	}
	p, err := build.NewPlanner(runner.NewExec(), logger).Plan(cmd.Context(), s)
	if err != nil {
		return err
	}
	fmt.Print(viz.Plan(p, true))
	fmt.Println()
	fmt.Print(viz.Flags(build.EngineLib, p.Engine.Flags))
	fmt.Println()
	fmt.Print(viz.Flags(build.AdapterLib, p.Adapter.Flags))
	return nil
}

func planComponent(s *config.Settings, name string) error {
	m, err := sources.LoadManifest(s.Options.Manifest)
	if err != nil {
		return err
	}
	comp, err := m.Component(name)
	if err != nil {
		return fmt.Errorf("%w (have %s)", err, strings.Join(m.Names(), ", "))
	}
	ctx := sources.NewContext(s.Options.Root, s.Options.SharedRoot)
	if err := sources.ResolveComponent(ctx, comp, s.TargetFamily); err != nil {
		return err
	}

	fmt.Println(viz.Header.Render(name))
	fmt.Println(viz.Title.Render("includes"))
	for _, inc := range ctx.Includes() {
		fmt.Println("  " + inc)
	}
	fmt.Println(viz.Title.Render("sources"))
	for _, src := range ctx.Sources() {
		fmt.Println("  " + src)
	}
	return nil
}

func runFlags(cmd *cobra.Command, args []string) error {
	s, err := settings()
	if err != nil {
		return err
	}
	compiler := toolchain.DefaultCompiler(s)
	fam, err := toolchain.Detect(cmd.Context(), runner.NewExec(), compiler)
	if err != nil {
		return err
	}
	engine, err := toolchain.Configure(s, compiler, fam)
	if err != nil {
		return err
	}
	adapter, err := toolchain.ConfigureAdapter(s, compiler, fam)
	if err != nil {
		return err
	}
	fmt.Print(viz.Flags(build.EngineLib, engine))
	fmt.Println()
	fmt.Print(viz.Flags(build.AdapterLib, adapter))
	return nil
}

func runStructgen(cmd *cobra.Command, args []string) error {
	s, err := settings()
	if err != nil {
		return err
	}
	s.Features.Structgen = true

	p, err := build.NewPlanner(runner.NewExec(), logger).Plan(cmd.Context(), s)
	if err != nil {
		return err
	}
	if err := build.NewExecutor(runner.NewExec(), logger).RunStructgen(cmd.Context(), p); err != nil {
		return err
	}
	fmt.Println(viz.Status(storage.StatusOK) + " " + viz.Subtle.Render("layouts written to "+s.OutDir))
	return nil
}

func listBuilds(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	builds, err := store.List()
	if err != nil {
		return err
	}
	fmt.Print(viz.History(builds))
	return nil
}

func showBuild(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Print(viz.Build(meta))
	return nil
}

func plotBuild(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	timings, err := store.LoadTimings(args[0])
	if err != nil {
		return err
	}
	fmt.Print(viz.PlotTimings(timings, slowest))
	return nil
}

func exportBuild(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	timings, err := store.LoadTimings(args[0])
	if err != nil {
		return err
	}
	if exportOut == "" {
		return storage.WriteJSON(os.Stdout, meta, timings)
	}
	if err := storage.ExportJSON(exportOut, meta, timings); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", exportOut)
	return nil
}

func verifyLayout(cmd *cobra.Command, args []string) error {
	generated, err := hierarchy.Load(args[0])
	if err != nil {
		return err
	}
	mismatches := hierarchy.Default().Diff(generated)
	if len(mismatches) == 0 {
		fmt.Println(viz.Status(storage.StatusOK) + " " + viz.Subtle.Render("layout matches the capability table"))
		return nil
	}
	for _, m := range mismatches {
		fmt.Println(viz.StatusFailed.Render("✗") + " " + m.String())
	}
	return fmt.Errorf("layout %s: %d mismatched relations", args[0], len(mismatches))
}
