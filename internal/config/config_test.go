package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"contactbook/internal/config"
	"contactbook/internal/contact"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CONTACTBOOK_DATA_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "contactbook")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.ImportDir != filepath.Join(wantData, "import") {
		t.Fatalf("unexpected import dir: %q", cfg.Paths.ImportDir)
	}
	if cfg.Store.Backend != config.BackendJSON {
		t.Fatalf("unexpected backend: %q", cfg.Store.Backend)
	}
	if cfg.StorePath() != filepath.Join(wantData, "contacts.json") {
		t.Fatalf("unexpected store path: %q", cfg.StorePath())
	}
	if cfg.Matching.Threshold != 0 {
		t.Fatalf("unexpected threshold: %d", cfg.Matching.Threshold)
	}
	if cfg.Import.DuplicatePolicy != config.PolicySkipDuplicate {
		t.Fatalf("unexpected duplicate policy: %q", cfg.Import.DuplicatePolicy)
	}
	if got := cfg.MatchWeights()[contact.Telephone]; got.Exact != 10 {
		t.Fatalf("expected default telephone weight, got %+v", got)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "contactbook.toml")
	t.Setenv("CONTACTBOOK_DATA_DIR", "")

	type weight struct {
		Exact int `toml:"exact"`
		Token int `toml:"token"`
	}
	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Store struct {
			Backend string `toml:"backend"`
		} `toml:"store"`
		Matching struct {
			Threshold int               `toml:"threshold"`
			Weights   map[string]weight `toml:"weights"`
		} `toml:"matching"`
		Import struct {
			DuplicatePolicy string   `toml:"duplicate_policy"`
			Extensions      []string `toml:"extensions"`
		} `toml:"import"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Store.Backend = "SQLite"
	custom.Matching.Threshold = 6
	custom.Matching.Weights = map[string]weight{"org": {Exact: 7}}
	custom.Import.DuplicatePolicy = "stop-on-duplicate"
	custom.Import.Extensions = []string{"VCF", ".vcard"}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Store.Backend != config.BackendSQLite {
		t.Fatalf("expected sqlite backend, got %q", cfg.Store.Backend)
	}
	if cfg.StorePath() != filepath.Join(tempDir, "data", "contacts.db") {
		t.Fatalf("unexpected store path: %q", cfg.StorePath())
	}
	if cfg.Matching.Threshold != 6 {
		t.Fatalf("expected threshold 6, got %d", cfg.Matching.Threshold)
	}
	weights := cfg.MatchWeights()
	if weights[contact.Organization].Exact != 7 {
		t.Fatalf("expected organization override, got %+v", weights[contact.Organization])
	}
	if weights[contact.Email].Exact != 10 {
		t.Fatalf("expected email default to survive override, got %+v", weights[contact.Email])
	}
	if cfg.Import.DuplicatePolicy != config.PolicyStopOnDup {
		t.Fatalf("unexpected duplicate policy %q", cfg.Import.DuplicatePolicy)
	}
	if strings.Join(cfg.Import.Extensions, ",") != ".vcf,.vcard" {
		t.Fatalf("unexpected extensions %v", cfg.Import.Extensions)
	}
}

func TestEnvVarOverridesDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONTACTBOOK_DATA_DIR", dir)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != dir {
		t.Fatalf("expected data dir from env, got %q", cfg.Paths.DataDir)
	}
}

func TestLoadRejectsUnknownWeightAttribute(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "contactbook.toml")
	body := "[matching.weights.fax]\nexact = 3\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "fax") {
		t.Fatalf("expected unknown attribute error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.DataDir, "contactbook") {
		t.Fatalf("expected data dir to contain contactbook, got %q", cfg.Paths.DataDir)
	}
	if cfg.Matching.Weights["name"].Token != 1 {
		t.Fatalf("expected sample name token weight, got %+v", cfg.Matching.Weights["name"])
	}

	t.Setenv("CONTACTBOOK_DATA_DIR", "")
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"backend", func(c *config.Config) { c.Store.Backend = "redis" }, "store.backend"},
		{"threshold", func(c *config.Config) { c.Matching.Threshold = -1 }, "matching.threshold"},
		{"weight", func(c *config.Config) { c.Matching.Weights = map[string]config.Weight{"name": {Exact: -2}} }, "matching.weights.name"},
		{"unknown policy", func(c *config.Config) { c.Contacts.UnknownAttributes = "maybe" }, "contacts.unknown_attributes"},
		{"duplicate policy", func(c *config.Config) { c.Import.DuplicatePolicy = "break" }, "import.duplicate_policy"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"data dir", func(c *config.Config) { c.Paths.DataDir = "" }, "paths.data_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
