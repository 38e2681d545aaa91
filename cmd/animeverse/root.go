package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/kerbaras/animeverse/pkg/app"
	"github.com/kerbaras/animeverse/pkg/app/screens"
	"github.com/kerbaras/animeverse/pkg/config"
	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/kerbaras/animeverse/pkg/logging"
	"github.com/kerbaras/animeverse/pkg/pomodoro"
	"github.com/kerbaras/animeverse/pkg/services"
	"github.com/kerbaras/animeverse/pkg/sources"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// tuiAnnotation marks commands that take over the terminal. Their logs go to
// a file instead of stderr.
const tuiAnnotation = "tui"

var (
	configPath string
	dataDir    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	ctrl   *services.AnimeController
)

var rootCmd = &cobra.Command{
	Use:   "animeverse",
	Short: "Your anime journal in the terminal",
	Long: "Keep a photo album with notes, track what you watched and want to watch, " +
		"search Jikan and AniList, and study with a pomodoro timer.",
	Annotations:       map[string]string{tuiAnnotation: "true"},
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context(), screens.TabAlbum, nil)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <data-dir>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default $"+config.DataDirEnv+" or ~/.animeverse)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// setup loads configuration and builds the logger, storage and controller
// shared by every command.
func setup(cmd *cobra.Command, args []string) error {
	dir := dataDir
	if dir == "" {
		var err error
		if dir, err = config.DefaultDataDir(); err != nil {
			return err
		}
	}
	path := configPath
	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	}

	var err error
	cfg, err = config.Load(path)
	if err != nil {
		return err
	}
	if dataDir != "" || cfg.DataDir == "" {
		cfg.DataDir = dir
	}

	logOpts := logging.Options{Level: cfg.Logging.Level, Verbose: verbose}
	if cmd.Annotations[tuiAnnotation] == "true" {
		if logOpts.File, err = cfg.Resolve(cfg.Logging.File); err != nil {
			return err
		}
	}
	logger, err = logging.New(logOpts)
	if err != nil {
		return err
	}

	source, err := sources.New(cfg.Search.Provider, cfg.Search.JikanURL, cfg.Search.AniListURL, cfg.GetTimeout())
	if err != nil {
		return err
	}

	ctrl = services.NewAnimeController(services.ControllerConfig{
		Source:     source,
		KV:         openStorage(),
		AlbumDir:   cfg.DataDir,
		DateLayout: cfg.Notes.DateLayout,
		Debounce:   cfg.GetDebounce(),
		Logger:     logger,
	})
	logger.Debug("configured",
		zap.String("data_dir", cfg.DataDir),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("source", source.Name()))

	return ctrl.Load(cmd.Context())
}

// openStorage opens the configured KV backend. When it cannot be opened the
// tool keeps working on an in-memory store without persistence.
func openStorage() data.KV {
	path, err := cfg.Resolve(cfg.Storage.Path)
	if err == nil {
		var kv data.KV
		if kv, err = data.OpenKV(cfg.Storage.Driver, path); err == nil {
			return kv
		}
	}
	logger.Warn("cannot open storage, falling back to in-memory store (no persistence)",
		zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	fmt.Fprintf(os.Stderr, "WARNING: cannot open %s storage: %v\n", cfg.Storage.Driver, err)
	fmt.Fprintln(os.Stderr, "         falling back to in-memory store (no persistence)")
	return data.NewMemoryKV()
}

func teardown() {
	if ctrl != nil {
		if err := ctrl.Close(); err != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
		ctrl = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func runTUI(ctx context.Context, tab string, timer *pomodoro.Timer) error {
	if timer == nil {
		timer = pomodoro.New(cfg.GetWork(), cfg.GetBreak())
		timer.SetLoop(cfg.Pomodoro.Loop)
	}
	a := app.NewApp(ctrl, screens.Options{
		Timer:        timer,
		InitialTab:   tab,
		GlamourStyle: "dark",
	})
	return a.Run(ctx)
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	teardown()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
