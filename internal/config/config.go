package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"vfsutil/internal/logging"
	"vfsutil/pkg/location"
)

const APP_NAME = "vfsutil" // application name used for config directory

// CONFIG_PATH_ENV overrides the config file location when set.
const CONFIG_PATH_ENV = "VFSUTIL_CONFIG_PATH"

// Config holds user configuration for vfsutil.
type Config struct {
	// UsePartial makes copies go through a temporary "*.partial~" file.
	UsePartial bool `yaml:"use_partial"`
	// FileSizeBinary formats sizes in IEC units (KiB, MiB) instead of SI.
	FileSizeBinary bool `yaml:"file_size_binary"`
	// SupportedSchemes lists the URI schemes accepted as arguments. Remote
	// schemes such as sftp or smb are not in the defaults and must be added
	// here before remote display names can be produced.
	SupportedSchemes []string `yaml:"supported_schemes"`
	// AllowedRoots restricts the MCP server to these directories. Empty
	// means unrestricted.
	AllowedRoots []string `yaml:"allowed_roots,omitempty"`
}

// ConfigPath returns the config file path for the current platform
func ConfigPath() string {
	if override := os.Getenv(CONFIG_PATH_ENV); override != "" {
		logging.Debug("Using config path from environment", "path", override)
		return override
	}
	configPath := filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UsePartial:       true,
		FileSizeBinary:   false,
		SupportedSchemes: slices.Clone(location.DefaultSupportedSchemes),
	}
}

// Load loads the config from the standard location.
// A missing config file is not an error: the defaults are returned.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads config from a specific path. Fields missing from the file
// keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	logging.Debug("Reading config file", "path", path)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		logging.Debug("No config file found, using defaults", "path", path)
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(cfg.SupportedSchemes) == 0 {
		cfg.SupportedSchemes = slices.Clone(location.DefaultSupportedSchemes)
	}

	return &cfg, nil
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Roots parses AllowedRoots into locations. Entries may be paths, "~/..."
// or URIs.
func (c *Config) Roots() ([]location.Location, error) {
	roots := make([]location.Location, 0, len(c.AllowedRoots))
	for _, raw := range c.AllowedRoots {
		loc, err := location.ParseCommandline(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed root %q: %w", raw, err)
		}
		roots = append(roots, loc)
	}
	return roots, nil
}

// IsSchemeSupported reports whether loc may be used as an argument.
func (c *Config) IsSchemeSupported(loc location.Location) bool {
	return location.IsURISchemeSupported(loc.Scheme(), c.SupportedSchemes)
}
