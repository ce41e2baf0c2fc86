package contactstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"contactbook/internal/contact"
	"contactbook/internal/logging"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLite stores the address book in a SQLite database.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	lock   *flock.Flock
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(path string, logger *slog.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps the overwrite transaction and readers serialized.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLite{db: db, path: path, logger: componentLogger(logger)}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *SQLite) Path() string { return s.path }

// Close closes the database and releases the process lock.
func (s *SQLite) Close() error {
	if s == nil {
		return nil
	}
	var closeErr error
	if s.db != nil {
		closeErr = s.db.Close()
	}
	if err := releaseLock(s.lock); err != nil && closeErr == nil {
		closeErr = err
	}
	return closeErr
}

// Load returns the stored collection in position order. Until the first Save
// it returns ErrNoState.
func (s *SQLite) Load(ctx context.Context) ([]*contact.Contact, error) {
	var savedAt string
	err := s.db.QueryRowContext(ctx, "SELECT saved_at FROM book_state WHERE id = 1").Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoState, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read book state: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, pinned FROM contacts ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	var contacts []*contact.Contact
	byID := make(map[string]*contact.Contact)
	for rows.Next() {
		var id string
		var pinned bool
		if err := rows.Scan(&id, &pinned); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c := contact.Empty()
		c.ID = id
		c.Pinned = pinned
		contacts = append(contacts, c)
		byID[id] = c
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	rows.Close()

	valueRows, err := s.db.QueryContext(ctx,
		"SELECT contact_id, attribute, value FROM contact_values ORDER BY contact_id, attribute, position")
	if err != nil {
		return nil, fmt.Errorf("query contact values: %w", err)
	}
	defer valueRows.Close()
	for valueRows.Next() {
		var id, attrName, value string
		if err := valueRows.Scan(&id, &attrName, &value); err != nil {
			return nil, fmt.Errorf("scan contact value: %w", err)
		}
		c, ok := byID[id]
		if !ok {
			continue
		}
		attr, ok := contact.ParseAttribute(attrName)
		if !ok {
			s.logger.Debug("dropping unrecognized attribute",
				logging.String(logging.FieldContactID, id),
				logging.String("attribute", attrName))
			continue
		}
		c.Add(attr, value)
	}
	if err := valueRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact values: %w", err)
	}

	s.logger.Debug("loaded contacts database",
		logging.Int("contact_count", len(contacts)),
		logging.String("saved_at", savedAt))
	return contacts, nil
}

// Save replaces the stored collection in a single transaction. Contacts
// without an ID are given one.
func (s *SQLite) Save(ctx context.Context, contacts []*contact.Contact) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM contact_values"); err != nil {
		return fmt.Errorf("clear contact values: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM contacts"); err != nil {
		return fmt.Errorf("clear contacts: %w", err)
	}

	for position, c := range contacts {
		if c == nil {
			continue
		}
		if strings.TrimSpace(c.ID) == "" {
			c.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO contacts (id, position, pinned) VALUES (?, ?, ?)", c.ID, position, c.Pinned); err != nil {
			return fmt.Errorf("insert contact %s: %w", c.ID, err)
		}
		for _, attr := range c.Attributes() {
			for i, value := range c.Get(attr) {
				if _, err := tx.ExecContext(ctx,
					"INSERT INTO contact_values (contact_id, attribute, position, value) VALUES (?, ?, ?, ?)",
					c.ID, string(attr), i, value); err != nil {
					return fmt.Errorf("insert %s for contact %s: %w", attr, c.ID, err)
				}
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO book_state (id, saved_at, contact_count) VALUES (1, ?, ?)
         ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at, contact_count = excluded.contact_count`,
		time.Now().UTC().Format(time.RFC3339Nano), len(contacts)); err != nil {
		return fmt.Errorf("record book state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (s *SQLite) applyMigrations(ctx context.Context) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, name := range names {
		version := strings.TrimSuffix(name, ".sql")
		var count int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(1) FROM schema_migrations WHERE version = ?", version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		body, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("record migration %s: %w", version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}
