package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	defaultConfigPath       = "countdown.json"
	defaultAIModel          = "gpt-4o-mini"
	defaultLogLevel         = "info"
	defaultProgressInterval = 2 * time.Second
)

// envConfigPath names the config file when --config is not given.
const envConfigPath = "COUNTDOWN_CONFIG"

// aiConfig holds settings for the optional solution walkthrough.
type aiConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Model   string `json:"model,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
	APIKey  string `json:"api_key,omitempty"`
}

// appConfig holds the application configuration.
type appConfig struct {
	Workers  int    `json:"workers,omitempty"`
	LogLevel string `json:"log_level,omitempty"`
	// Progress is a time.ParseDuration string; "0" disables progress lines.
	Progress string   `json:"progress_interval,omitempty"`
	AI       aiConfig `json:"ai,omitempty"`

	progress time.Duration
}

func defaultConfig() appConfig {
	return appConfig{
		Workers:  runtime.NumCPU(),
		LogLevel: defaultLogLevel,
		AI: aiConfig{
			Enabled: true,
			Model:   defaultAIModel,
		},
		progress: defaultProgressInterval,
	}
}

// configPath resolves the config location: flag, then environment, then the
// working directory default.
func configPath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(envConfigPath)); p != "" {
		return p
	}
	return defaultConfigPath
}

// loadConfig loads configuration from the specified path. A missing file
// yields the defaults.
func loadConfig(path string) (appConfig, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return appConfig{}, fmt.Errorf("stat config: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), koanfjson.Parser()); err != nil {
		return appConfig{}, fmt.Errorf("load config: %w", err)
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return appConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Workers < 0 {
		return appConfig{}, fmt.Errorf("workers must be >= 0, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if p := strings.TrimSpace(cfg.Progress); p != "" {
		d, err := time.ParseDuration(p)
		if err != nil {
			return appConfig{}, fmt.Errorf("progress_interval: %w", err)
		}
		if d < 0 {
			return appConfig{}, fmt.Errorf("progress_interval must be >= 0, got %s", d)
		}
		cfg.progress = d
	}
	if strings.TrimSpace(cfg.AI.Model) == "" {
		cfg.AI.Model = defaultAIModel
	}
	return cfg, nil
}
