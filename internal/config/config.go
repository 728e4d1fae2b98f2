// Package config loads process-wide settings from a TOML file, an optional
// .env file and the environment, in that order of precedence (lowest first).
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// ErrMissingCredentials is returned by Validate when Spotify credentials are absent.
var ErrMissingCredentials = errors.New("config: SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required")

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Spotify   SpotifyConfig   `toml:"spotify"`
	Generator GeneratorConfig `toml:"generator"`
	Ledger    LedgerConfig    `toml:"ledger"`
	Log       LogConfig       `toml:"log"`
}

type ServerConfig struct {
	Addr              string   `toml:"addr"`
	AllowedOrigins    []string `toml:"allowed_origins"`
	ReadHeaderTimeout Duration `toml:"read_header_timeout"`
}

// SpotifyConfig holds the long-lived client credentials and catalog tuning.
type SpotifyConfig struct {
	ClientID          string   `toml:"client_id"`
	ClientSecret      string   `toml:"client_secret"`
	RedirectURI       string   `toml:"redirect_uri"`
	BaseURL           string   `toml:"base_url"`
	Market            string   `toml:"market"`
	MaxRetries        int      `toml:"max_retries"`
	RetryBackoff      Duration `toml:"retry_backoff"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
}

type GeneratorConfig struct {
	Host    string   `toml:"host"`
	Model   string   `toml:"model"`
	Timeout Duration `toml:"timeout"`
}

// LedgerConfig controls the playlist audit store. An empty Path disables it.
type LedgerConfig struct {
	Path      string `toml:"path"`
	Workers   int    `toml:"workers"`
	QueueSize int    `toml:"queue_size"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration lets TOML carry values like "25s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration embedded in the binary.
func Default() *Config {
	var cfg Config
	if err := toml.Unmarshal(exampleConf, &cfg); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &cfg
}

// Load builds a Config from defaults, the TOML file at path (skipped when it
// does not exist), the .env file in the working directory, and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if _, err := toml.Decode(string(data), cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteExample writes the embedded example config to path, refusing to overwrite.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, exampleConf, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks settings required to serve traffic.
func (c *Config) Validate() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return ErrMissingCredentials
	}
	if c.Generator.Timeout.Duration <= 0 {
		return fmt.Errorf("config: generator timeout must be positive")
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	setString(&c.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	setString(&c.Spotify.RedirectURI, "SPOTIFY_REDIRECT_URI")
	setString(&c.Spotify.Market, "SPOTIFY_MARKET")
	setString(&c.Generator.Host, "OLLAMA_HOST")
	setString(&c.Generator.Model, "OLLAMA_MODEL")
	setString(&c.Server.Addr, "GENRELAY_ADDR")
	setString(&c.Ledger.Path, "LEDGER_PATH")
	setString(&c.Log.Level, "LOG_LEVEL")

	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins := strings.Split(raw, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		c.Server.AllowedOrigins = origins
	}

	if raw := os.Getenv("SPOTIFY_MAX_RETRIES"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("config: invalid SPOTIFY_MAX_RETRIES %q", raw)
		}
		c.Spotify.MaxRetries = parsed
	}
	if raw := os.Getenv("SPOTIFY_RETRY_BACKOFF_MS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("config: invalid SPOTIFY_RETRY_BACKOFF_MS %q", raw)
		}
		c.Spotify.RetryBackoff = Duration{time.Duration(parsed) * time.Millisecond}
	}
	if raw := os.Getenv("GENERATOR_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("config: invalid GENERATOR_TIMEOUT %q: %w", raw, err)
		}
		c.Generator.Timeout = Duration{parsed}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
