package contactstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"contactbook/internal/contact"
	"contactbook/internal/logging"
)

// fileVersion is written into contacts.json; bump it when the layout changes.
const fileVersion = 1

type fileDocument struct {
	Version  int                `json:"version"`
	Contacts []*contact.Contact `json:"contacts"`
}

// JSONFile stores the address book as a single JSON document.
type JSONFile struct {
	path   string
	logger *slog.Logger
	lock   *flock.Flock
}

// NewJSONFile returns a store backed by path. The file is created on the
// first Save.
func NewJSONFile(path string, logger *slog.Logger) *JSONFile {
	return &JSONFile{path: path, logger: componentLogger(logger)}
}

// Path returns the state file location.
func (s *JSONFile) Path() string { return s.path }

// Close releases the process lock, if one is held.
func (s *JSONFile) Close() error {
	return releaseLock(s.lock)
}

// Load reads the document from disk. A missing file yields ErrNoState; an
// empty file is an empty address book.
func (s *JSONFile) Load(ctx context.Context) ([]*contact.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoState, s.path)
		}
		return nil, fmt.Errorf("read contacts file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse contacts file: %w", err)
	}
	if doc.Version > fileVersion {
		return nil, fmt.Errorf("contacts file version %d is newer than supported version %d", doc.Version, fileVersion)
	}

	contacts := make([]*contact.Contact, 0, len(doc.Contacts))
	for _, c := range doc.Contacts {
		if c != nil {
			contacts = append(contacts, c)
		}
	}

	s.logger.Debug("loaded contacts file",
		logging.Int("contact_count", len(contacts)),
		logging.String(logging.FieldPath, s.path))
	return contacts, nil
}

// Save writes the collection to a temporary file and renames it over the
// previous state, so readers see either the old or the new document.
func (s *JSONFile) Save(ctx context.Context, contacts []*contact.Contact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := fileDocument{Version: fileVersion, Contacts: contacts}
	if doc.Contacts == nil {
		doc.Contacts = []*contact.Contact{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal contacts: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
