package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	ConfigDir  string `yaml:"-"`
	ConfigPath string `yaml:"-"`
	DBPath     string `yaml:"db_path" env:"TAGTERM_DB_PATH"`
	LogPath    string `yaml:"log_path" env:"TAGTERM_LOG_PATH"`
	LogLevel   string `yaml:"log_level" env:"TAGTERM_LOG_LEVEL"`

	BaseURL        string        `yaml:"base_url" env:"TAGTERM_BASE_URL"`
	Locale         string        `yaml:"locale" env:"TAGTERM_LOCALE"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"TAGTERM_REQUEST_TIMEOUT"`
	RedirectDelay  time.Duration `yaml:"redirect_delay" env:"TAGTERM_REDIRECT_DELAY"`

	// Development auth server (cmd/authstub).
	StubAddr     string        `yaml:"stub_addr" env:"TAGTERM_STUB_ADDR"`
	StubSecret   string        `yaml:"stub_secret" env:"TAGTERM_STUB_SECRET"`
	StubTokenTTL time.Duration `yaml:"stub_token_ttl" env:"TAGTERM_STUB_TOKEN_TTL"`
}

func Default() Config {
	configDir := filepath.Join(userConfigDir(), "tagterm")
	return Config{
		ConfigDir:      configDir,
		ConfigPath:     filepath.Join(configDir, "config.yml"),
		DBPath:         filepath.Join(configDir, "tagterm.db"),
		LogPath:        filepath.Join(configDir, "debug.log"),
		LogLevel:       "info",
		BaseURL:        "http://127.0.0.1:5000",
		Locale:         "en",
		RequestTimeout: 10 * time.Second,
		RedirectDelay:  1000 * time.Millisecond,
		StubAddr:       "127.0.0.1:5000",
		StubSecret:     "dev-secret-change-me",
		StubTokenTTL:   24 * time.Hour,
	}
}

// Load returns the defaults overlaid with the config file at cfg.ConfigPath
// (if it exists) and TAGTERM_* environment variables.
func Load() (Config, error) {
	cfg := Default()
	if p := os.Getenv("TAGTERM_CONFIG"); p != "" {
		cfg.ConfigPath = p
	}
	return LoadFrom(cfg.ConfigPath, cfg)
}

// LoadFrom overlays base with the YAML file at path and the environment.
// A missing file is not an error.
func LoadFrom(path string, base Config) (Config, error) {
	cfg := base
	cfg.ConfigPath = path

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("reading environment: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("checking config %s: %w", path, err)
	}

	if cfg.RedirectDelay <= 0 {
		return Config{}, fmt.Errorf("redirect_delay must be positive, got %s", cfg.RedirectDelay)
	}
	if cfg.RequestTimeout <= 0 {
		return Config{}, fmt.Errorf("request_timeout must be positive, got %s", cfg.RequestTimeout)
	}
	return cfg, nil
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
