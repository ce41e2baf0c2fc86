package contact

import (
	"cmp"
	"slices"

	"contactbook/internal/textutil"
)

// Merge unions every attribute of other into c. Existing values are never
// removed and the receiver keeps its ID, so merging the same source twice has
// the same effect as merging it once.
func (c *Contact) Merge(other *Contact) {
	if c == nil || other == nil || c == other {
		return
	}
	for _, attr := range attributeOrder {
		if values := other.attrs[attr]; len(values) > 0 {
			c.Add(attr, values...)
		}
	}
}

// Consolidate normalizes the contact in place before it is persisted: values
// are whitespace-collapsed, folded duplicates removed (first spelling wins),
// and each attribute sorted case-insensitively.
func (c *Contact) Consolidate() {
	if c == nil {
		return
	}
	for attr, values := range c.attrs {
		seen := make(map[string]struct{}, len(values))
		cleaned := make([]string, 0, len(values))
		for _, value := range values {
			value = textutil.CollapseSpace(value)
			key := textutil.FoldKey(value)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			cleaned = append(cleaned, value)
		}
		if len(cleaned) == 0 {
			delete(c.attrs, attr)
			continue
		}
		slices.SortFunc(cleaned, func(a, b string) int {
			return cmp.Or(
				cmp.Compare(textutil.FoldKey(a), textutil.FoldKey(b)),
				cmp.Compare(a, b),
			)
		})
		c.attrs[attr] = cleaned
	}
}
