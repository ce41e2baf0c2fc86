package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"contactbook/internal/addressbook"
	"contactbook/internal/config"
	"contactbook/internal/contactstore"
	"contactbook/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	bookOnce sync.Once
	book     *addressbook.Book
	store    contactstore.Store
	logger   *slog.Logger
	registry *prometheus.Registry
	bookErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureBook opens the process-wide address book on first use.
func (c *commandContext) ensureBook(ctx context.Context) (*addressbook.Book, error) {
	c.bookOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.bookErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.bookErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger

		c.registry = prometheus.NewRegistry()
		metrics, err := addressbook.NewMetrics(c.registry)
		if err != nil {
			c.bookErr = err
			return
		}

		store, err := contactstore.Open(cfg, logger)
		if err != nil {
			c.bookErr = fmt.Errorf("open address book: %w", err)
			return
		}
		book, err := addressbook.Open(ctx, store, addressbook.OptionsFromConfig(cfg, logger, metrics))
		if err != nil {
			_ = store.Close()
			c.bookErr = err
			return
		}
		c.store = store
		c.book = book
	})
	return c.book, c.bookErr
}

// close writes the metrics textfile, when configured, and releases the
// store lock.
func (c *commandContext) close() error {
	if c.store == nil {
		return nil
	}
	if c.config != nil && c.config.Metrics.TextfilePath != "" && c.registry != nil {
		if writeErr := addressbook.WriteTextfile(c.registry, c.config.Metrics.TextfilePath); writeErr != nil {
			logging.WarnWithContext(c.logger, "metrics textfile not written", "metrics_textfile_failed",
				logging.Error(writeErr),
				logging.String(logging.FieldPath, c.config.Metrics.TextfilePath),
				logging.String(logging.FieldImpact, "metrics are stale"),
			)
		}
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// logFailure records a failed command in the book log. Commands that never
// opened the book have no logger and log nothing.
func (c *commandContext) logFailure(cmd *cobra.Command, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	name := "contactbook"
	if cmd != nil {
		name = cmd.CommandPath()
	}
	logging.ErrorWithContext(c.logger, "command failed", "command_failed",
		logging.String("command", name),
		logging.Error(err),
	)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
