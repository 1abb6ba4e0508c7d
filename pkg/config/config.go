package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete cjadrift configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Diff    DiffConfig    `mapstructure:"diff"`
}

// APIConfig holds the CJA API endpoint and credentials.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	AccessToken    string `mapstructure:"access_token"`
	APIKey         string `mapstructure:"api_key"`
	OrgID          string `mapstructure:"org_id"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	RetryAttempts  int    `mapstructure:"retry_attempts"`
}

// StorageConfig holds snapshot persistence settings.
type StorageConfig struct {
	SnapshotDir string `mapstructure:"snapshot_dir"`
	GitDir      string `mapstructure:"git_dir"`
	KeepLast    int    `mapstructure:"keep_last"`
}

// OutputConfig holds report formatting settings.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig holds listing/validation cache settings.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
	MaxItems   int           `mapstructure:"max_items"`
}

// DiffConfig holds comparison defaults.
type DiffConfig struct {
	FieldSet      string   `mapstructure:"field_set"`
	IgnoreFields  []string `mapstructure:"ignore_fields"`
	FailThreshold float64  `mapstructure:"fail_threshold"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		API: APIConfig{
			BaseURL:        "https://cja.adobe.io",
			TimeoutSeconds: 30,
			RetryAttempts:  3,
		},
		Storage: StorageConfig{
			SnapshotDir: filepath.Join(homeDir, ".cjadrift", "snapshots"),
			GitDir:      "",
			KeepLast:    0,
		},
		Output: OutputConfig{
			Format:  "console",
			NoColor: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: 15 * time.Minute,
			MaxItems:   256,
		},
		Diff: DiffConfig{
			FieldSet:      "basic",
			FailThreshold: 0,
		},
	}
}

// Load reads configuration from file, environment, and defaults, in
// ascending precedence of defaults < file < environment.
func Load() (*Config, error) {
	config := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".cjadrift"))
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("CJADRIFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("api.access_token", "CJADRIFT_ACCESS_TOKEN", "CJA_ACCESS_TOKEN")
	viper.BindEnv("api.api_key", "CJADRIFT_API_KEY", "CJA_API_KEY")
	viper.BindEnv("api.org_id", "CJADRIFT_ORG_ID", "CJA_ORG_ID")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return config, nil
}

// ExpandPaths resolves ~ prefixes in the configured directories.
func (c *Config) ExpandPaths() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot resolve home directory: %w", err)
	}
	c.Storage.SnapshotDir = expandPath(c.Storage.SnapshotDir, home)
	c.Storage.GitDir = expandPath(c.Storage.GitDir, home)
	return nil
}

func expandPath(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks the configuration for values the tool cannot run with.
func (c *Config) Validate() error {
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive")
	}
	if c.Diff.FailThreshold < 0 || c.Diff.FailThreshold > 100 {
		return fmt.Errorf("diff.fail_threshold must be within [0, 100]")
	}
	switch c.Diff.FieldSet {
	case "", "basic", "extended":
	default:
		return fmt.Errorf("diff.field_set must be basic or extended")
	}
	return nil
}
