package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"contactbook/internal/contact"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var noMerge bool
	var attrs *attributeFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact, merging it into a matching entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bag, err := attrs.bag()
			if err != nil {
				return err
			}
			book, err := ctx.ensureBook(cmd.Context())
			if err != nil {
				return err
			}
			cfg, _ := ctx.ensureConfig()

			candidate, err := contact.New(bag, contact.UnknownPolicy(cfg.Contacts.UnknownAttributes))
			if err != nil {
				return err
			}
			if candidate.IsEmpty() {
				return errors.New("no recognized attribute values given")
			}
			if cfg.Contacts.StrictValues {
				if err := contact.Validate(candidate); err != nil {
					return err
				}
			}

			res, err := book.Add(cmd.Context(), candidate, !noMerge)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Merged {
				fmt.Fprintf(out, "Merged into contact %s (%s)\n", res.Contact.ID, res.Contact.DisplayName())
			} else {
				fmt.Fprintf(out, "Added contact %s (%s)\n", res.Contact.ID, res.Contact.DisplayName())
			}
			return nil
		},
	}
	attrs = bindAttributeFlags(cmd)
	cmd.Flags().BoolVar(&noMerge, "no-merge", false, "Always append, even when a duplicate exists")
	return cmd
}

func newFindCommand(ctx *commandContext) *cobra.Command {
	var format string
	var attrs *attributeFlags

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find the best matching contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bag, err := attrs.bag()
			if err != nil {
				return err
			}
			book, err := ctx.ensureBook(cmd.Context())
			if err != nil {
				return err
			}
			found, ok, err := book.Find(bag)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching contact")
				return nil
			}
			return writeContact(cmd, found, format)
		},
	}
	attrs = bindAttributeFlags(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json, or yaml")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a contact by ID or unique ID prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := ctx.ensureBook(cmd.Context())
			if err != nil {
				return err
			}
			c, err := lookupContact(book.Contacts(), args[0])
			if err != nil {
				return err
			}
			return writeContact(cmd, c, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json, or yaml")
	return cmd
}

func lookupContact(contacts []*contact.Contact, ref string) (*contact.Contact, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("contact id is required")
	}
	var match *contact.Contact
	for _, c := range contacts {
		if c.ID == ref {
			return c, nil
		}
		if strings.HasPrefix(c.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("contact id prefix %q is ambiguous", ref)
			}
			match = c
		}
	}
	if match == nil {
		return nil, fmt.Errorf("contact %s not found", ref)
	}
	return match, nil
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := ctx.ensureBook(cmd.Context())
			if err != nil {
				return err
			}
			return writeContactList(cmd, book.Contacts(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatAuto, "Output format: auto, table, json, or yaml")
	return cmd
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("refusing to reset without --yes")
			}
			book, err := ctx.ensureBook(cmd.Context())
			if err != nil {
				return err
			}
			removed := book.Len()
			if err := book.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d contact(s)\n", removed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm removal of every contact")
	return cmd
}
