package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything the client needs to reach a naoTimes server.
type Config struct {
	ServerURL      string
	Token          string
	RequestTimeout time.Duration
	LogLevel       slog.Level
	LogFile        string
	PollInterval   time.Duration
}

const (
	defaultConfigPath     = "~/.config/naotimes/config.toml"
	defaultServerURL      = "https://naoti.me/api"
	defaultLogFile        = "~/.local/state/naotimes/naotimes.log"
	defaultRequestTimeout = 10 * time.Second
	defaultPollInterval   = 15 * time.Second
)

// Environment variables that override the config file.
const (
	EnvServerURL = "NAOTIMES_SERVER_URL"
	EnvToken     = "NAOTIMES_TOKEN"
	EnvLogLevel  = "NAOTIMES_LOG_LEVEL"
	EnvLogFile   = "NAOTIMES_LOG_FILE"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ServerURL:      defaultServerURL,
		RequestTimeout: defaultRequestTimeout,
		LogLevel:       slog.LevelInfo,
		LogFile:        mustExpand(defaultLogFile),
		PollInterval:   defaultPollInterval,
	}
}

// Load reads the config file at path (or the default location), then applies
// .env and NAOTIMES_* overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := cfg.readFile(resolved); err != nil {
		return Config{}, err
	}

	// .env is optional; values already in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ServerURL      string `toml:"server_url"`
		Token          string `toml:"token"`
		RequestTimeout int    `toml:"request_timeout"`
		LogLevel       string `toml:"log_level"`
		LogFile        string `toml:"log_file"`
		PollInterval   int    `toml:"poll_interval"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.ServerURL); v != "" {
		c.ServerURL = v
	}
	c.Token = strings.TrimSpace(raw.Token)
	if raw.RequestTimeout > 0 {
		c.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}
	if raw.PollInterval > 0 {
		c.PollInterval = time.Duration(raw.PollInterval) * time.Second
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
		c.LogLevel = level
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvServerURL)); v != "" {
		c.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		c.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		c.LogLevel = level
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		c.LogFile = mustExpand(v)
	}
	return nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
