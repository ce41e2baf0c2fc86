package contact

import (
	"encoding/json"
	"fmt"
)

type contactJSON struct {
	ID         string              `json:"id,omitempty"`
	Pinned     bool                `json:"pinned,omitempty"`
	Attributes map[string][]string `json:"attributes"`
}

// MarshalJSON encodes the contact as {"id": ..., "attributes": {...}} with
// empty attributes omitted.
func (c *Contact) MarshalJSON() ([]byte, error) {
	return json.Marshal(contactJSON{ID: c.ID, Pinned: c.Pinned, Attributes: c.Values()})
}

// UnmarshalJSON decodes the MarshalJSON form. Attributes this build does not
// recognize are dropped.
func (c *Contact) UnmarshalJSON(data []byte) error {
	var payload contactJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode contact: %w", err)
	}
	decoded, err := New(payload.Attributes, UnknownIgnore)
	if err != nil {
		return err
	}
	decoded.ID = payload.ID
	decoded.Pinned = payload.Pinned
	*c = *decoded
	return nil
}
