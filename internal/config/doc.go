// Package config loads, normalizes, and validates contactbook configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CONTACTBOOK_DATA_DIR
// environment fallback. The Config type centralizes every knob the address
// book and CLI need: where persisted state lives, which storage backend holds
// it, how duplicates are scored, and how vCard imports behave.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a complete weight table, and clear validation errors.
package config
