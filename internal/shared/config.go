package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Matching    MatchingConfig    `toml:"matching"`
	Cache       CacheConfig       `toml:"cache"`
	Sync        SyncConfig        `toml:"sync"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify  SpotifyConfig  `toml:"spotify"`
	Subsonic SubsonicConfig `toml:"subsonic"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// SubsonicConfig contains connection settings for the Subsonic-compatible
// media server (Navidrome, Airsonic, Gonic) holding the local library.
type SubsonicConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	// RequestsPerSecond throttles library queries. Zero disables throttling.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// MatchingConfig overrides the decision thresholds. Zero values fall back to
// the engine defaults.
type MatchingConfig struct {
	AutoAcceptScore float64 `toml:"auto_accept_score"`
	ConfirmScore    float64 `toml:"confirm_score"`
	CandidateLimit  int     `toml:"candidate_limit"`
}

// CacheConfig contains settings for the library lookup cache database.
type CacheConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SyncConfig contains settings for sync runs.
type SyncConfig struct {
	// Workers bounds concurrency for batch runs. Defaults to 3.
	Workers int  `toml:"workers"`
	DryRun  bool `toml:"dry_run"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
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
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidInput)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
