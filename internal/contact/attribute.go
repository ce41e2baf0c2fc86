package contact

import (
	"strings"

	"contactbook/internal/textutil"
)

// Attribute names one of the fixed, recognized contact fields.
type Attribute string

const (
	Name         Attribute = "name"
	Organization Attribute = "organization"
	Telephone    Attribute = "telephone"
	Email        Attribute = "email"
	Address      Attribute = "address"
	Note         Attribute = "note"
	URL          Attribute = "url"
	Title        Attribute = "title"
	Nickname     Attribute = "nickname"
	Birthday     Attribute = "birthday"
)

// attributeOrder is the canonical ordering used for iteration and output.
var attributeOrder = []Attribute{
	Name,
	Nickname,
	Organization,
	Title,
	Telephone,
	Email,
	Address,
	URL,
	Birthday,
	Note,
}

var attributeAliases = map[string]Attribute{
	"org":   Organization,
	"tel":   Telephone,
	"phone": Telephone,
	"adr":   Address,
	"fn":    Name,
	"bday":  Birthday,
}

// All returns every recognized attribute in canonical order.
func All() []Attribute {
	out := make([]Attribute, len(attributeOrder))
	copy(out, attributeOrder)
	return out
}

// ParseAttribute resolves a user- or file-supplied key to a recognized
// attribute. Keys are case-insensitive and a few short aliases are accepted.
func ParseAttribute(key string) (Attribute, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if alias, ok := attributeAliases[key]; ok {
		return alias, true
	}
	for _, attr := range attributeOrder {
		if string(attr) == key {
			return attr, true
		}
	}
	return "", false
}

// matchKey returns the key used when scoring; telephone numbers compare by
// digits so formatting differences do not hide a shared number.
func (a Attribute) matchKey(value string) string {
	if a == Telephone {
		return textutil.PhoneKey(value)
	}
	return textutil.FoldKey(value)
}

// UnknownPolicy controls what New does with keys that are not recognized.
type UnknownPolicy string

const (
	UnknownIgnore UnknownPolicy = "ignore"
	UnknownReject UnknownPolicy = "reject"
)
