package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/crackfield/audio"
	"github.com/lixenwraith/crackfield/config"
	"github.com/lixenwraith/crackfield/core"
	"github.com/lixenwraith/crackfield/engine"
	"github.com/lixenwraith/crackfield/metrics"
	"github.com/lixenwraith/crackfield/surface"
)

var version = "dev"

var (
	configPath  string
	seed        uint64
	fps         int
	debug       bool
	sound       bool
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "crackfield",
	Short: "Terminal crack field with mouse driven injection",
	Long: `crackfield draws a procedurally cracked concrete surface in the terminal.

Press and drag the mouse to inject into cracks, scroll to grow the field.
Keys: r regenerate, +/- radius, >/< speed, h help, q quit.`,
	SilenceUsage: true,
	RunE:         run,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the crack field (default)",
	RunE:  run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "crackfield", version)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file, watched for live changes")
	pf.Uint64Var(&seed, "seed", 0, "random seed, 0 seeds from time")
	pf.IntVar(&fps, "fps", 0, "frame rate override")
	pf.BoolVarP(&debug, "debug", "d", false, "write debug logs to "+logDir)
	pf.BoolVar(&sound, "sound", false, "play a tone on each injection")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	rootCmd.AddCommand(runCmd, versionCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers flags that were set explicitly over file and environment
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Render.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = fps
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("sound") {
		cfg.Audio.Enabled = sound
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = metricsAddr
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, logFile := setupLogging(cfg.Debug)
	if logFile != nil {
		defer logFile.Close()
	}
	defer func() { _ = logger.Sync() }()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	s := surface.New(screen, cfg.Render.PixelScale)
	if err := s.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashFinalizer(s)
	defer core.SetCrashFinalizer(nil)
	defer s.Fini()

	// Panic recovery: restore the terminal even if the loop crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	opts := engine.Options{
		Config: cfg,
		Logger: logger,
	}
	if cfg.Metrics.Addr != "" {
		opts.Metrics = metrics.New()
	}
	if cfg.Audio.Enabled {
		cue, err := audio.NewCue(cfg.Audio.Volume, logger.Named("audio"))
		if err != nil {
			logger.Warn("audio disabled", zap.Error(err))
		} else {
			defer cue.Close()
			opts.Cue = cue
		}
	}
	if configPath != "" {
		w, err := config.NewWatcher(configPath, cfg, logger.Named("config"))
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		opts.Watcher = w
	}

	e, err := newEngine(s, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", zap.String("version", version), zap.Int("fps", cfg.Render.FPS), zap.Uint64("seed", cfg.Render.Seed))
	return e.Run(ctx)
}

// newEngine builds the engine, releasing the config watch if that fails
func newEngine(s engine.Surface, opts engine.Options) (*engine.Engine, error) {
	e, err := engine.New(s, opts)
	if err != nil {
		if opts.Watcher != nil {
			_ = opts.Watcher.Close()
		}
		return nil, fmt.Errorf("create engine: %w", err)
	}
	return e, nil
}
