package testsupport

import (
	"context"
	"testing"

	"contactbook/internal/addressbook"
	"contactbook/internal/config"
	"contactbook/internal/contactstore"
	"contactbook/internal/logging"
)

// MustOpenStore opens the configured contactstore.Store for tests and
// registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) contactstore.Store {
	t.Helper()

	store, err := contactstore.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("contactstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenBook opens an address book over a fresh store built from cfg.
func MustOpenBook(t testing.TB, cfg *config.Config) *addressbook.Book {
	t.Helper()

	book, _ := MustOpenBookStore(t, cfg)
	return book
}

// MustOpenBookStore is MustOpenBook that also returns the store, so a test
// can close it and reopen the same data directory.
func MustOpenBookStore(t testing.TB, cfg *config.Config) (*addressbook.Book, contactstore.Store) {
	t.Helper()

	store := MustOpenStore(t, cfg)
	book, err := addressbook.Open(context.Background(), store, addressbook.OptionsFromConfig(cfg, logging.NewNop(), nil))
	if err != nil {
		t.Fatalf("addressbook.Open: %v", err)
	}
	return book, store
}
