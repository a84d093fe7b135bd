package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/naotimes/naotimes-cli/internal/config"
	"github.com/naotimes/naotimes-cli/internal/naotimes"
	"github.com/naotimes/naotimes-cli/internal/prefs"
	"github.com/naotimes/naotimes-cli/internal/project"
	"github.com/naotimes/naotimes-cli/internal/state"
	"github.com/naotimes/naotimes-cli/internal/ui"
)

// Options configure the naoTimes client.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/naotimes/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
}

// Env is the set of wired dependencies shared by the TUI and the headless
// commands.
type Env struct {
	Config      config.Config
	Prefs       prefs.Prefs
	PrefsPath   string
	Logger      *slog.Logger
	Client      *naotimes.Client
	Coordinator *project.Coordinator
}

// Bootstrap loads configuration and prefs and builds the gateway and the
// sync context. Logs go to logOut.
func Bootstrap(opts Options, logOut io.Writer) (*Env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return newEnv(cfg, opts, NewLogger(logOut, cfg.LogLevel))
}

// Run boots the TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := openLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	env, err := newEnv(cfg, opts, NewLogger(logFile, cfg.LogLevel))
	if err != nil {
		return err
	}

	store := &state.Store{}
	interval := env.Config.PollInterval

	// Do initial refresh to populate store before UI starts
	refresh(ctx, store, env.Client, env.Logger)

	StartPoller(ctx, store, env.Client, interval, env.Logger)

	env.Logger.Info("starting ui", "server", env.Config.ServerURL, "poll_interval", interval)
	return ui.Run(ui.Options{
		Context:     ctx,
		Gateway:     env.Client,
		Coordinator: env.Coordinator,
		Store:       store,
		Logger:      env.Logger,
		PollTick:    interval,
		DarkMode:    env.Prefs.DarkMode,
		PrefsPath:   env.PrefsPath,
	})
}

func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}
	return cfg, nil
}

func newEnv(cfg config.Config, opts Options, logger *slog.Logger) (*Env, error) {
	client, err := naotimes.NewClient(naotimes.Options{
		ServerURL: cfg.ServerURL,
		Token:     cfg.Token,
		Timeout:   cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init naotimes client: %w", err)
	}

	return &Env{
		Config:      cfg,
		Prefs:       prefs.Load(opts.PrefsPath),
		PrefsPath:   opts.PrefsPath,
		Logger:      logger,
		Client:      client,
		Coordinator: project.NewCoordinator(project.NewSyncContext(client, logger)),
	}, nil
}

// NewLogger builds the text logger used throughout the client.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
