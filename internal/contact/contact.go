package contact

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"contactbook/internal/textutil"
)

// ErrUnknownAttribute is returned by New under UnknownReject when a key is not
// a recognized attribute.
var ErrUnknownAttribute = errors.New("unknown contact attribute")

// Contact is one real-world person or organization. Its shape is fixed (every
// recognized attribute exists, possibly empty); only its content changes, and
// only by growing.
type Contact struct {
	// ID is assigned by the address book when the contact is first stored.
	ID string
	// Pinned marks an entry stored with auto-merge off. Merges that cascade
	// through the book never absorb it.
	Pinned bool

	attrs map[Attribute][]string
}

// Empty returns a contact with no values.
func Empty() *Contact {
	return &Contact{attrs: make(map[Attribute][]string)}
}

// New builds a partial contact from an attribute bag, such as user input or
// a parsed vCard. Blank values are dropped.
func New(values map[string][]string, policy UnknownPolicy) (*Contact, error) {
	c := Empty()
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		attr, ok := ParseAttribute(key)
		if !ok {
			if policy == UnknownReject {
				return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, key)
			}
			continue
		}
		c.Add(attr, values[key]...)
	}
	return c, nil
}

// Add appends values to attr, skipping blanks and values whose folded key is
// already present. Whitespace runs inside a value are collapsed.
func (c *Contact) Add(attr Attribute, values ...string) {
	if c.attrs == nil {
		c.attrs = make(map[Attribute][]string)
	}
	for _, value := range values {
		value = textutil.CollapseSpace(value)
		if value == "" || c.has(attr, value) {
			continue
		}
		c.attrs[attr] = append(c.attrs[attr], value)
	}
}

func (c *Contact) has(attr Attribute, value string) bool {
	key := textutil.FoldKey(value)
	for _, existing := range c.attrs[attr] {
		if textutil.FoldKey(existing) == key {
			return true
		}
	}
	return false
}

// Get returns a copy of the values stored for attr.
func (c *Contact) Get(attr Attribute) []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.attrs[attr])
}

// Attributes lists the attributes that hold at least one value, in canonical
// order.
func (c *Contact) Attributes() []Attribute {
	if c == nil {
		return nil
	}
	out := make([]Attribute, 0, len(c.attrs))
	for _, attr := range attributeOrder {
		if len(c.attrs[attr]) > 0 {
			out = append(out, attr)
		}
	}
	return out
}

// IsEmpty reports whether no attribute holds a value.
func (c *Contact) IsEmpty() bool {
	return len(c.Attributes()) == 0
}

// Values returns the contact as an attribute bag keyed by attribute name.
func (c *Contact) Values() map[string][]string {
	out := make(map[string][]string)
	for _, attr := range c.Attributes() {
		out[string(attr)] = c.Get(attr)
	}
	return out
}

// Clone returns a deep copy, including the ID and pin.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	clone := &Contact{ID: c.ID, Pinned: c.Pinned, attrs: make(map[Attribute][]string, len(c.attrs))}
	for attr, values := range c.attrs {
		if len(values) > 0 {
			clone.attrs[attr] = slices.Clone(values)
		}
	}
	return clone
}

// Equal reports whether both contacts hold the same folded values for every
// attribute. IDs, pins and value order are ignored.
func (c *Contact) Equal(other *Contact) bool {
	if c == nil || other == nil {
		return c == other
	}
	for _, attr := range attributeOrder {
		a := foldedSet(c.attrs[attr])
		b := foldedSet(other.attrs[attr])
		if len(a) != len(b) {
			return false
		}
		for key := range a {
			if _, ok := b[key]; !ok {
				return false
			}
		}
	}
	return true
}

// DisplayName picks a human label: the first name, else nickname,
// organization, email, or telephone.
func (c *Contact) DisplayName() string {
	if c == nil {
		return ""
	}
	for _, attr := range []Attribute{Name, Nickname, Organization, Email, Telephone} {
		if values := c.attrs[attr]; len(values) > 0 {
			return values[0]
		}
	}
	return "(unnamed)"
}

// String renders a compact single-line summary for logs.
func (c *Contact) String() string {
	if c == nil {
		return "<nil>"
	}
	parts := make([]string, 0, len(c.attrs))
	for _, attr := range c.Attributes() {
		parts = append(parts, string(attr)+"="+strings.Join(c.attrs[attr], "|"))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func foldedSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[textutil.FoldKey(value)] = struct{}{}
	}
	return set
}
