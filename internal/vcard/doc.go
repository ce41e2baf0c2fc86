// Package vcard converts between vCard files and contact attribute bags.
//
// Parsing yields plain map[string][]string bags keyed by contact attribute
// name so callers decide how unknown keys and blank values are handled.
// Encoding writes vCard 4.0 cards for export.
package vcard
