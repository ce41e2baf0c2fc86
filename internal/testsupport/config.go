package testsupport

import (
	"path/filepath"
	"testing"

	"contactbook/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.ImportDir = filepath.Join(base, "import")
	cfgVal.Paths.ExportDir = filepath.Join(base, "export")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Matching.Weights = config.DefaultWeights()

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBackend selects the persisted-state backend.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Backend = backend
	}
}

// WithThreshold overrides the merge threshold.
func WithThreshold(threshold int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.Threshold = threshold
	}
}

// WithDuplicatePolicy overrides the import duplicate policy.
func WithDuplicatePolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Import.DuplicatePolicy = policy
	}
}

// WithStrictValues enables strict email and URL validation.
func WithStrictValues() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Contacts.StrictValues = true
	}
}

// BaseDir returns the temp directory used by NewConfig. It is derived from the
// data directory so callers do not need to keep the builder around.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
