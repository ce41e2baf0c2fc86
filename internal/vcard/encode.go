package vcard

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	govcard "github.com/emersion/go-vcard"

	"contactbook/internal/contact"
	"contactbook/internal/textutil"
)

// Extension is appended to exported file names.
const Extension = ".vcf"

// Card builds a vCard 4.0 card for c. Addresses are written as the street
// component because contacts keep them as a single line.
func Card(c *contact.Contact) govcard.Card {
	card := make(govcard.Card)
	card.SetValue(govcard.FieldVersion, "4.0")
	if c.ID != "" {
		card.SetValue(govcard.FieldUID, "urn:uuid:"+c.ID)
	}

	names := c.Get(contact.Name)
	if len(names) == 0 {
		names = []string{c.DisplayName()}
	}
	for _, name := range names {
		card.AddValue(govcard.FieldFormattedName, name)
	}
	for _, org := range c.Get(contact.Organization) {
		card.AddValue(govcard.FieldOrganization, org)
	}
	for _, nick := range c.Get(contact.Nickname) {
		card.AddValue(govcard.FieldNickname, nick)
	}
	for _, addr := range c.Get(contact.Address) {
		card.AddAddress(&govcard.Address{StreetAddress: addr})
	}
	for _, sf := range simpleFields {
		for _, value := range c.Get(sf.attr) {
			card.AddValue(sf.field, value)
		}
	}
	return card
}

// Encode writes c to w as a single card.
func Encode(w io.Writer, c *contact.Contact) error {
	if err := govcard.NewEncoder(w).Encode(Card(c)); err != nil {
		return fmt.Errorf("encode vcard: %w", err)
	}
	return nil
}

// FileName returns a filesystem-safe name for c, unique per contact ID.
func FileName(c *contact.Contact) string {
	base := textutil.SanitizeFileName(c.DisplayName())
	if base == "" {
		base = "contact"
	}
	id := c.ID
	if len(id) > 8 {
		id = id[:8]
	}
	if id != "" {
		base += "-" + id
	}
	return base + Extension
}

// WriteFile writes c into dir under FileName(c) and returns the path.
func WriteFile(dir string, c *contact.Contact) (string, error) {
	path := filepath.Join(dir, FileName(c))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create vcard file: %w", err)
	}
	if err := Encode(f, c); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close vcard file: %w", err)
	}
	return path, nil
}
