package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"nodediff/pkg/errors"
)

// Config holds settings loadable from a TOML file. Command-line flags take
// precedence over file values; file values take precedence over defaults.
//
// Example:
//
//	base_url = "https://nodejs.org/dist"
//	cache_dir = "/var/cache/nodediff"
//	ttl = "720h"
type Config struct {
	BaseURL  string   `toml:"base_url"`
	CacheDir string   `toml:"cache_dir"`
	TTL      duration `toml:"ttl"`
}

// duration wraps time.Duration so TOML values like "24h" decode naturally.
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// defaultConfigPath returns ~/.config/nodediff/config.toml, honoring
// XDG_CONFIG_HOME when set.
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file at the default location is not an error; a
// missing file named explicitly is.
func loadConfig(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		defaultPath, err := defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, nil
}
