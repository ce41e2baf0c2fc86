package addressbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"contactbook/internal/contact"
	"contactbook/internal/logging"
	"contactbook/internal/vcard"
)

// ImportReport summarizes one directory import.
type ImportReport struct {
	Dir     string
	Files   int
	Parsed  int
	Added   int
	Merged  int
	Skipped int
	Invalid int
	// Stopped is set when StopOnDuplicate ended the batch early.
	Stopped bool
	// FileErrors combines per-file parse failures. They never abort the batch.
	FileErrors error
}

var errNoAttributes = errors.New("card has no recognized attributes")

type parsedFile struct {
	path  string
	cards []map[string][]string
	err   error
}

// ImportDirectory adds every card found in the import files directly inside
// dir. The directory is created when missing. Files are parsed in parallel
// and applied one at a time in name order; unreadable files are reported in
// the result and skipped.
func (b *Book) ImportDirectory(ctx context.Context, dir string) (ImportReport, error) {
	report := ImportReport{Dir: dir}
	if strings.TrimSpace(dir) == "" {
		return report, errors.New("import directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return report, fmt.Errorf("create import directory: %w", err)
	}

	paths, err := b.importFiles(dir)
	if err != nil {
		return report, err
	}
	report.Files = len(paths)
	if len(paths) == 0 {
		b.logger.Info("no import files found", logging.String(logging.FieldPath, dir))
		return report, nil
	}

	files, err := b.parseFiles(ctx, paths)
	if err != nil {
		return report, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, file := range files {
		if file.err != nil {
			b.opts.Metrics.incImportFile("failed")
			report.FileErrors = multierr.Append(report.FileErrors, file.err)
			logging.WarnWithContext(b.logger, "skipping unreadable import file", "import_file_failed",
				logging.String(logging.FieldPath, file.path),
				logging.Error(file.err),
				logging.String(logging.FieldErrorHint, "check the file is a valid vCard"),
				logging.String(logging.FieldImpact, "contacts in this file were not imported"),
			)
			continue
		}
		b.opts.Metrics.incImportFile("parsed")

		for _, bag := range file.cards {
			report.Parsed++
			stop, err := b.importCardLocked(ctx, file.path, bag, &report)
			if err != nil {
				return report, err
			}
			if stop {
				report.Stopped = true
				b.logInfoReport(report)
				return report, nil
			}
		}
	}

	b.logInfoReport(report)
	return report, nil
}

func (b *Book) importCardLocked(ctx context.Context, path string, bag map[string][]string, report *ImportReport) (bool, error) {
	candidate, err := contact.New(bag, b.opts.UnknownPolicy)
	if err == nil && candidate.IsEmpty() {
		err = errNoAttributes
	}
	if err == nil && b.opts.StrictValues {
		err = contact.Validate(candidate)
	}
	if err != nil {
		report.Invalid++
		b.opts.Metrics.incImportContact("invalid")
		logging.WarnWithContext(b.logger, "skipping invalid contact", "import_contact_invalid",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "contact was not imported"),
		)
		return false, nil
	}

	if b.containsEqualLocked(candidate) {
		report.Skipped++
		b.opts.Metrics.incImportContact("skipped")
		stop := b.opts.DuplicatePolicy == StopOnDuplicate
		result := "skipped"
		if stop {
			result = "stopped"
		}
		attrs := append([]logging.Attr{
			logging.String(logging.FieldPath, path),
			logging.String("display_name", candidate.DisplayName()),
		}, logging.DecisionAttrs("import_duplicate", result, "contact already present")...)
		b.logger.Info("contact already present", logging.Args(attrs...)...)
		return stop, nil
	}

	var res AddResult
	if target, ok := b.findBestDuplicateLocked(candidate); ok {
		res, err = b.mergeLocked(ctx, target, candidate)
	} else {
		res, err = b.appendLocked(ctx, candidate, false)
	}
	if err != nil {
		return false, fmt.Errorf("import %s: %w", path, err)
	}
	if res.Merged {
		report.Merged++
		b.opts.Metrics.incImportContact("merged")
	} else {
		report.Added++
		b.opts.Metrics.incImportContact("added")
	}
	return false, nil
}

func (b *Book) containsEqualLocked(candidate *contact.Contact) bool {
	return slices.ContainsFunc(b.contacts, candidate.Equal)
}

func (b *Book) logInfoReport(report ImportReport) {
	b.logger.Info("import finished",
		logging.String(logging.FieldPath, report.Dir),
		logging.Int("files", report.Files),
		logging.Int("parsed", report.Parsed),
		logging.Int("added", report.Added),
		logging.Int("merged", report.Merged),
		logging.Int("skipped", report.Skipped),
		logging.Int("invalid", report.Invalid),
		logging.Int("failed_files", len(multierr.Errors(report.FileErrors))),
		logging.Bool("stopped", report.Stopped),
	)
}

// importFiles lists regular files in dir whose extension is configured for
// import, sorted by name.
func (b *Book) importFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read import directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !slices.Contains(b.opts.ImportExtensions, ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

func (b *Book) parseFiles(ctx context.Context, paths []string) ([]parsedFile, error) {
	files := make([]parsedFile, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.ImportWorkers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cards, err := vcard.ParseFile(path)
			files[i] = parsedFile{path: path, cards: cards, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parse import files: %w", err)
	}
	return files, nil
}

// ExportDirectory writes every contact to its own vCard file in dir and
// returns the number written.
func (b *Book) ExportDirectory(ctx context.Context, dir string) (int, error) {
	if strings.TrimSpace(dir) == "" {
		return 0, errors.New("export directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create export directory: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	written := 0
	for _, c := range b.contacts {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path, err := vcard.WriteFile(dir, c)
		if err != nil {
			return written, fmt.Errorf("export contact %s: %w", c.ID, err)
		}
		written++
		b.logger.Debug("contact exported",
			logging.String(logging.FieldContactID, c.ID),
			logging.String(logging.FieldPath, path))
	}
	b.logger.Info("export finished",
		logging.String(logging.FieldPath, dir),
		logging.Int("contacts", written))
	return written, nil
}
