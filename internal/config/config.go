package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	ImportDir string `toml:"import_dir"`
	ExportDir string `toml:"export_dir"`
	LogDir    string `toml:"log_dir"`
}

// Store selects the persisted-state backend.
type Store struct {
	Backend string `toml:"backend"` // "json" or "sqlite"
}

// Weight is the evidence value of one attribute during duplicate scoring.
type Weight struct {
	Exact int `toml:"exact"`
	Token int `toml:"token"`
}

// Matching contains duplicate-detection configuration.
type Matching struct {
	// Threshold is the score a candidate must strictly exceed to be merged.
	Threshold int `toml:"threshold"`
	// Weights overrides evidence values per attribute name. Attributes not
	// listed keep their defaults.
	Weights map[string]Weight `toml:"weights"`
}

// Contacts contains configuration for contact construction.
type Contacts struct {
	// UnknownAttributes is "ignore" or "reject".
	UnknownAttributes string `toml:"unknown_attributes"`
	// StrictValues rejects malformed email addresses and URLs.
	StrictValues bool `toml:"strict_values"`
}

// Import contains configuration for vCard directory imports.
type Import struct {
	// DuplicatePolicy is "skip-duplicate" or "stop-on-duplicate".
	DuplicatePolicy string   `toml:"duplicate_policy"`
	Workers         int      `toml:"workers"`
	Extensions      []string `toml:"extensions"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Metrics contains configuration for metrics export.
type Metrics struct {
	// TextfilePath, when set, receives the metrics registry in Prometheus
	// text format after each CLI command (node_exporter textfile collector).
	TextfilePath string `toml:"textfile_path"`
}

// Config encapsulates all configuration values for contactbook.
//
// Configuration sections by subsystem:
//   - Paths: data, import, export, and log directories
//   - Store: persisted-state backend
//   - Matching: duplicate threshold and attribute weights
//   - Contacts: unknown-key handling and strict value checks
//   - Import: vCard import policy and parallelism
//   - Logging: log format and level
//   - Metrics: optional textfile export
type Config struct {
	Paths    Paths    `toml:"paths"`
	Store    Store    `toml:"store"`
	Matching Matching `toml:"matching"`
	Contacts Contacts `toml:"contacts"`
	Import   Import   `toml:"import"`
	Logging  Logging  `toml:"logging"`
	Metrics  Metrics  `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("contactbook.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the address book writes to. The
// import directory is created lazily by the importer itself.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the persisted-state file for the configured backend.
func (c *Config) StorePath() string {
	name := "contacts.json"
	if c.Store.Backend == BackendSQLite {
		name = "contacts.db"
	}
	return filepath.Join(c.Paths.DataDir, name)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
