package vcard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	govcard "github.com/emersion/go-vcard"

	"contactbook/internal/contact"
)

// ErrNoCards is returned when a file holds no vCard.
var ErrNoCards = errors.New("no vcards found")

// simpleFields map single-component vCard properties onto contact attributes.
var simpleFields = []struct {
	field string
	attr  contact.Attribute
}{
	{govcard.FieldTelephone, contact.Telephone},
	{govcard.FieldEmail, contact.Email},
	{govcard.FieldNote, contact.Note},
	{govcard.FieldURL, contact.URL},
	{govcard.FieldTitle, contact.Title},
	{govcard.FieldBirthday, contact.Birthday},
}

// ParseFile reads every card in path.
func ParseFile(path string) ([]map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcard file: %w", err)
	}
	defer f.Close()

	bags, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bags, nil
}

// Parse decodes every card in r into an attribute bag.
func Parse(r io.Reader) ([]map[string][]string, error) {
	dec := govcard.NewDecoder(r)
	var bags []map[string][]string
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode vcard %d: %w", len(bags)+1, err)
		}
		bags = append(bags, cardValues(card))
	}
	if len(bags) == 0 {
		return nil, ErrNoCards
	}
	return bags, nil
}

func cardValues(card govcard.Card) map[string][]string {
	bag := make(map[string][]string)
	add := func(attr contact.Attribute, values ...string) {
		for _, value := range values {
			if value = strings.TrimSpace(value); value != "" {
				bag[string(attr)] = append(bag[string(attr)], value)
			}
		}
	}

	add(contact.Name, card.Values(govcard.FieldFormattedName)...)
	if len(bag[string(contact.Name)]) == 0 {
		for _, name := range card.Names() {
			add(contact.Name, structuredName(name))
		}
	}

	for _, org := range card.Values(govcard.FieldOrganization) {
		add(contact.Organization, joinComponents(strings.Split(org, ";")))
	}
	for _, nick := range card.Values(govcard.FieldNickname) {
		add(contact.Nickname, strings.Split(nick, ",")...)
	}
	for _, addr := range card.Addresses() {
		add(contact.Address, joinComponents([]string{
			addr.PostOfficeBox,
			addr.ExtendedAddress,
			addr.StreetAddress,
			addr.Locality,
			addr.Region,
			addr.PostalCode,
			addr.Country,
		}))
	}
	for _, sf := range simpleFields {
		add(sf.attr, card.Values(sf.field)...)
	}
	return bag
}

func structuredName(name *govcard.Name) string {
	return strings.Join(strings.Fields(strings.Join([]string{
		name.HonorificPrefix,
		name.GivenName,
		name.AdditionalName,
		name.FamilyName,
		name.HonorificSuffix,
	}, " ")), " ")
}

func joinComponents(parts []string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ", ")
}
