package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"contactbook/internal/config"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import [dir]",
		Short: "Import vCard files from a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := ctx.ensureBook(cmd.Context())
			if err != nil {
				return err
			}
			dir, err := directoryArg(ctx, args, func(cfg *config.Config) string { return cfg.Paths.ImportDir })
			if err != nil {
				return err
			}

			report, err := book.ImportDirectory(cmd.Context(), dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported from %s: %d file(s), %d card(s)\n", report.Dir, report.Files, report.Parsed)
			fmt.Fprintf(out, "  added %d, merged %d, skipped %d, invalid %d\n",
				report.Added, report.Merged, report.Skipped, report.Invalid)
			if report.Stopped {
				fmt.Fprintln(out, "  stopped at the first contact already present")
			}
			for _, fileErr := range multierr.Errors(report.FileErrors) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", fileErr)
			}
			return nil
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export [dir]",
		Short: "Export every contact as a vCard file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := ctx.ensureBook(cmd.Context())
			if err != nil {
				return err
			}
			dir, err := directoryArg(ctx, args, func(cfg *config.Config) string { return cfg.Paths.ExportDir })
			if err != nil {
				return err
			}
			n, err := book.ExportDirectory(cmd.Context(), dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contact(s) to %s\n", n, dir)
			return nil
		},
	}
}

func directoryArg(ctx *commandContext, args []string, fallback func(*config.Config) string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return config.ExpandPath(strings.TrimSpace(args[0]))
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", err
	}
	return fallback(cfg), nil
}
