package addressbook

import (
	"log/slog"
	"strings"

	"contactbook/internal/config"
	"contactbook/internal/contact"
	"contactbook/internal/vcard"
)

// DuplicatePolicy decides what a directory import does with a candidate that
// equals a stored contact.
type DuplicatePolicy string

const (
	// SkipDuplicate drops the candidate and continues with the batch.
	SkipDuplicate DuplicatePolicy = config.PolicySkipDuplicate
	// StopOnDuplicate ends the batch at the first equal candidate.
	StopOnDuplicate DuplicatePolicy = config.PolicyStopOnDup
)

// DefaultThreshold is the score a duplicate must strictly exceed. At zero any
// shared evidence merges, and it is also what a zero-value Options carries.
const DefaultThreshold contact.Score = 0

// Options configures a Book. The zero value is equivalent to DefaultOptions.
type Options struct {
	Threshold        contact.Score
	Weights          contact.Weights
	UnknownPolicy    contact.UnknownPolicy
	StrictValues     bool
	DuplicatePolicy  DuplicatePolicy
	ImportWorkers    int
	ImportExtensions []string
	Logger           *slog.Logger
	Metrics          *Metrics
}

// DefaultOptions returns options matching the stock configuration.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

// OptionsFromConfig maps configuration onto book options.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger, metrics *Metrics) Options {
	return Options{
		Threshold:        contact.Score(cfg.Matching.Threshold),
		Weights:          cfg.MatchWeights(),
		UnknownPolicy:    contact.UnknownPolicy(cfg.Contacts.UnknownAttributes),
		StrictValues:     cfg.Contacts.StrictValues,
		DuplicatePolicy:  DuplicatePolicy(cfg.Import.DuplicatePolicy),
		ImportWorkers:    cfg.Import.Workers,
		ImportExtensions: cfg.Import.Extensions,
		Logger:           logger,
		Metrics:          metrics,
	}
}

func (o Options) withDefaults() Options {
	if o.Threshold < 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Weights == nil {
		o.Weights = contact.DefaultWeights()
	}
	if o.UnknownPolicy == "" {
		o.UnknownPolicy = contact.UnknownIgnore
	}
	if o.DuplicatePolicy == "" {
		o.DuplicatePolicy = SkipDuplicate
	}
	if o.ImportWorkers <= 0 {
		o.ImportWorkers = 1
	}
	exts := make([]string, 0, len(o.ImportExtensions))
	for _, ext := range o.ImportExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = []string{vcard.Extension}
	}
	o.ImportExtensions = exts
	return o
}
