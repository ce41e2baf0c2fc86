package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"contactbook/internal/contact"
)

const (
	formatAuto  = "auto"
	formatText  = "text"
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// contactView is the serialized form used by json and yaml output.
type contactView struct {
	ID         string              `json:"id" yaml:"id"`
	Name       string              `json:"display_name" yaml:"display_name"`
	Attributes map[string][]string `json:"attributes" yaml:"attributes"`
}

func newContactView(c *contact.Contact) contactView {
	return contactView{ID: c.ID, Name: c.DisplayName(), Attributes: c.Values()}
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML encodes v as YAML to the command's stdout.
func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeContact(cmd *cobra.Command, c *contact.Contact, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case formatJSON:
		return writeJSON(cmd, newContactView(c))
	case formatYAML:
		return writeYAML(cmd, newContactView(c))
	case formatText, formatAuto, "":
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", c.DisplayName())
		fmt.Fprintf(out, "  %-13s %s\n", "id:", c.ID)
		for _, attr := range c.Attributes() {
			for i, value := range c.Get(attr) {
				label := ""
				if i == 0 {
					label = string(attr) + ":"
				}
				fmt.Fprintf(out, "  %-13s %s\n", label, value)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func writeContactList(cmd *cobra.Command, contacts []*contact.Contact, format string) error {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == formatAuto || format == "" {
		format = formatJSON
		if isTerminal(cmd.OutOrStdout()) {
			format = formatTable
		}
	}

	switch format {
	case formatJSON, formatYAML:
		views := make([]contactView, 0, len(contacts))
		for _, c := range contacts {
			views = append(views, newContactView(c))
		}
		if format == formatJSON {
			return writeJSON(cmd, views)
		}
		return writeYAML(cmd, views)
	case formatTable:
		if len(contacts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Address book is empty")
			return nil
		}
		rows := make([][]string, 0, len(contacts))
		for _, c := range contacts {
			rows = append(rows, []string{
				shortID(c.ID),
				c.DisplayName(),
				strings.Join(c.Get(contact.Organization), ", "),
				strings.Join(c.Get(contact.Telephone), ", "),
				strings.Join(c.Get(contact.Email), ", "),
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"ID", "Name", "Organization", "Telephone", "Email"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		))
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
