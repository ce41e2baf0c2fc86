// Package contactstore persists the address book.
//
// Two backends implement the same full-collection contract: read everything,
// overwrite everything, and report ErrNoState when nothing has been saved yet
// (a fresh install, not an error).
//
// # Backends
//
// JSONFile keeps a human-readable contacts.json and replaces it atomically via
// a temporary file and rename. SQLite keeps contacts.db and overwrites the
// collection inside one transaction.
//
// Open selects the backend from configuration and takes an exclusive lock
// file next to the state so a second process cannot write concurrently.
package contactstore
