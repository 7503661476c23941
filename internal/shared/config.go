package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from the config file.
const (
	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvRefreshToken = "SPOTIFY_REFRESH_TOKEN"
	EnvRedirectURI  = "SPOTIFY_REDIRECT_URI"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Store       StoreConfig       `toml:"store"`
	Poller      PollerConfig      `toml:"poller"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
//
// RefreshToken is never written to config.toml; it comes from the environment or the token store.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	RefreshToken string `toml:"-"`
}

// Validate reports [ErrMissingCredentials] when the client id or secret is unset.
func (s SpotifyConfig) Validate() error {
	if s.ClientID == "" || s.ClientSecret == "" {
		return fmt.Errorf("%w: %s and %s must be set", ErrMissingCredentials, EnvClientID, EnvClientSecret)
	}
	return nil
}

// ServerConfig contains settings for the local OAuth callback listener.
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	CallbackPath string `toml:"callback_path"`
	AuthTimeout  string `toml:"auth_timeout"`
}

// Addr returns the host:port the callback listener binds.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Timeout is the bounded wait for the authorization callback.
func (s ServerConfig) Timeout() time.Duration {
	return parseDuration(s.AuthTimeout, 2*time.Minute)
}

// StoreConfig locates the KEY=VALUE file that persists the refresh token.
type StoreConfig struct {
	Path string `toml:"path"`
	Key  string `toml:"key"`
}

// PollerConfig controls the currently playing poll loop.
type PollerConfig struct {
	Interval       string  `toml:"interval"`
	RequestTimeout string  `toml:"request_timeout"`
	CoverPath      string  `toml:"cover_path"`
	MaxRetries     int     `toml:"max_retries"`
	RateLimit      float64 `toml:"rate_limit"` // Requests per second against the API
}

// PollInterval is the delay between polls.
func (p PollerConfig) PollInterval() time.Duration {
	return parseDuration(p.Interval, 2*time.Second)
}

// Timeout bounds every outbound HTTP call.
func (p PollerConfig) Timeout() time.Duration {
	return parseDuration(p.RequestTimeout, 10*time.Second)
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveConfig builds the process-wide configuration once: embedded defaults, then config.toml if it exists,
// then the dotenv file, then the process environment.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if config.Store.Path != "" {
		if _, err := os.Stat(config.Store.Path); err == nil {
			// Load never overrides variables already present in the environment.
			if err := godotenv.Load(config.Store.Path); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", config.Store.Path, err)
			}
		}
	}

	config.ApplyEnv(os.LookupEnv)
	return config, nil
}

// ApplyEnv overrides credentials with any values found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	sp := &c.Credentials.Spotify
	for key, dst := range map[string]*string{
		EnvClientID:     &sp.ClientID,
		EnvClientSecret: &sp.ClientSecret,
		EnvRedirectURI:  &sp.RedirectURI,
	} {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	key := c.Store.Key
	if key == "" {
		key = EnvRefreshToken
	}
	if v, ok := lookup(key); ok && v != "" {
		sp.RefreshToken = v
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
