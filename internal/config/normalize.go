package config

import (
	"fmt"
	"os"
	"strings"

	"contactbook/internal/contact"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStore()
	if err := c.normalizeMatching(); err != nil {
		return err
	}
	c.normalizeContacts()
	c.normalizeImport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("CONTACTBOOK_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = value
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.ImportDir, err = expandPath(c.Paths.ImportDir); err != nil {
		return fmt.Errorf("paths.import_dir: %w", err)
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = BackendJSON
	}
}

// normalizeMatching resolves attribute aliases in the weight table and fills
// in defaults for attributes the file does not mention.
func (c *Config) normalizeMatching() error {
	merged := DefaultWeights()
	for key, weight := range c.Matching.Weights {
		attr, ok := contact.ParseAttribute(key)
		if !ok {
			return fmt.Errorf("matching.weights: unknown attribute %q", key)
		}
		merged[string(attr)] = weight
	}
	c.Matching.Weights = merged
	return nil
}

func (c *Config) normalizeContacts() {
	c.Contacts.UnknownAttributes = strings.ToLower(strings.TrimSpace(c.Contacts.UnknownAttributes))
	if c.Contacts.UnknownAttributes == "" {
		c.Contacts.UnknownAttributes = string(contact.UnknownIgnore)
	}
}

func (c *Config) normalizeImport() {
	c.Import.DuplicatePolicy = strings.ToLower(strings.TrimSpace(c.Import.DuplicatePolicy))
	if c.Import.DuplicatePolicy == "" {
		c.Import.DuplicatePolicy = PolicySkipDuplicate
	}
	if c.Import.Workers <= 0 {
		c.Import.Workers = defaultImportWorkers
	}
	extensions := make([]string, 0, len(c.Import.Extensions))
	for _, ext := range c.Import.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions = append(extensions, ext)
	}
	if len(extensions) == 0 {
		extensions = []string{defaultImportExtension}
	}
	c.Import.Extensions = extensions
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
