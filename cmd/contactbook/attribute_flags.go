package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"contactbook/internal/contact"
)

// attributeFlags binds one repeatable flag per contact attribute plus a
// generic --attr key=value escape hatch.
type attributeFlags struct {
	values map[contact.Attribute]*[]string
	extra  []string
}

func bindAttributeFlags(cmd *cobra.Command) *attributeFlags {
	flags := &attributeFlags{values: make(map[contact.Attribute]*[]string)}
	for _, attr := range contact.All() {
		var values []string
		flags.values[attr] = &values
		cmd.Flags().StringArrayVar(&values, string(attr), nil, fmt.Sprintf("Contact %s (repeatable)", attr))
	}
	cmd.Flags().StringArrayVar(&flags.extra, "attr", nil, "Attribute as key=value (repeatable)")
	return flags
}

// bag returns the flag values as an attribute bag.
func (f *attributeFlags) bag() (map[string][]string, error) {
	out := make(map[string][]string)
	for attr, values := range f.values {
		if len(*values) > 0 {
			out[string(attr)] = append(out[string(attr)], *values...)
		}
	}
	for _, pair := range f.extra {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --attr %q (expected key=value)", pair)
		}
		out[key] = append(out[key], value)
	}
	if len(out) == 0 {
		return nil, errors.New("at least one attribute is required")
	}
	return out, nil
}
