package config

import (
	"errors"
	"fmt"

	"contactbook/internal/contact"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateContacts(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.ImportDir == "" {
		return errors.New("paths.import_dir must be set")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendJSON, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("store.backend: unsupported value %q (use %q or %q)", c.Store.Backend, BackendJSON, BackendSQLite)
	}
}

func (c *Config) validateMatching() error {
	if c.Matching.Threshold < 0 {
		return errors.New("matching.threshold must be zero or greater")
	}
	for name, weight := range c.Matching.Weights {
		if weight.Exact < 0 || weight.Token < 0 {
			return fmt.Errorf("matching.weights.%s: weights must be zero or greater", name)
		}
	}
	return nil
}

func (c *Config) validateContacts() error {
	switch contact.UnknownPolicy(c.Contacts.UnknownAttributes) {
	case contact.UnknownIgnore, contact.UnknownReject:
		return nil
	default:
		return fmt.Errorf("contacts.unknown_attributes: unsupported value %q", c.Contacts.UnknownAttributes)
	}
}

func (c *Config) validateImport() error {
	switch c.Import.DuplicatePolicy {
	case PolicySkipDuplicate, PolicyStopOnDup:
	default:
		return fmt.Errorf("import.duplicate_policy: unsupported value %q", c.Import.DuplicatePolicy)
	}
	if c.Import.Workers > 64 {
		return errors.New("import.workers must be 64 or fewer")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// MatchWeights converts the weight table into the form used for scoring.
func (c *Config) MatchWeights() contact.Weights {
	out := make(contact.Weights, len(c.Matching.Weights))
	for name, weight := range c.Matching.Weights {
		attr, ok := contact.ParseAttribute(name)
		if !ok {
			continue
		}
		out[attr] = contact.Weight{Exact: weight.Exact, Token: weight.Token}
	}
	return out
}
