package config

import "contactbook/internal/contact"

const (
	defaultConfigPath      = "~/.config/contactbook/config.toml"
	defaultDataDir         = "~/.local/share/contactbook"
	defaultImportDir       = "~/.local/share/contactbook/import"
	defaultExportDir       = "~/.local/share/contactbook/export"
	defaultLogDir          = "~/.local/share/contactbook/logs"
	defaultMatchThreshold  = 0
	defaultImportWorkers   = 4
	defaultImportExtension = ".vcf"
	defaultLogFormat       = "console"
	defaultLogLevel        = "warn"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Duplicate policies for directory imports.
const (
	PolicySkipDuplicate = "skip-duplicate"
	PolicyStopOnDup     = "stop-on-duplicate"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			ImportDir: defaultImportDir,
			ExportDir: defaultExportDir,
			LogDir:    defaultLogDir,
		},
		Store: Store{
			Backend: BackendJSON,
		},
		Matching: Matching{
			Threshold: defaultMatchThreshold,
		},
		Contacts: Contacts{
			UnknownAttributes: string(contact.UnknownIgnore),
		},
		Import: Import{
			DuplicatePolicy: PolicySkipDuplicate,
			Workers:         defaultImportWorkers,
			Extensions:      []string{defaultImportExtension},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultWeights returns the stock weight table keyed by attribute name.
func DefaultWeights() map[string]Weight {
	defaults := contact.DefaultWeights()
	out := make(map[string]Weight, len(defaults))
	for attr, w := range defaults {
		out[string(attr)] = Weight{Exact: w.Exact, Token: w.Token}
	}
	return out
}
