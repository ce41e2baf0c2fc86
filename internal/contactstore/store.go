package contactstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"

	"contactbook/internal/config"
	"contactbook/internal/contact"
	"contactbook/internal/logging"
)

var (
	// ErrNoState reports that no address book has been persisted yet.
	ErrNoState = errors.New("no persisted address book")
	// ErrLocked reports that another process holds the address book.
	ErrLocked = errors.New("address book is locked by another process")
)

// Open returns the backend selected by cfg, holding an exclusive lock on the
// state file until Close.
func Open(cfg *config.Config, logger *slog.Logger) (Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	path := cfg.StorePath()

	lock, err := acquireLock(path)
	if err != nil {
		return nil, err
	}

	switch cfg.Store.Backend {
	case config.BackendSQLite:
		store, err := OpenSQLite(path, logger)
		if err != nil {
			_ = lock.Unlock()
			return nil, err
		}
		store.lock = lock
		return store, nil
	default:
		store := NewJSONFile(path, logger)
		store.lock = lock
		return store, nil
	}
}

// Store is the full-collection persistence contract shared by both backends.
type Store interface {
	// Load returns every persisted contact in stored order, or ErrNoState.
	Load(ctx context.Context) ([]*contact.Contact, error)
	// Save replaces the persisted collection with contacts.
	Save(ctx context.Context, contacts []*contact.Contact) error
	Path() string
	Close() error
}

func acquireLock(path string) (*flock.Flock, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lock.Path())
	}
	return lock, nil
}

func releaseLock(lock *flock.Flock) error {
	if lock == nil {
		return nil
	}
	return lock.Unlock()
}

func componentLogger(logger *slog.Logger) *slog.Logger {
	return logging.NewComponentLogger(logger, "contactstore")
}
