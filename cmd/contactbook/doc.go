// Command contactbook manages a local address book from the terminal.
//
// Contacts added with auto-merge enabled are folded into an existing entry
// when they score above the configured duplicate threshold. Directories of
// vCard files can be imported with the same matching rules and the book can
// be exported back to vCard.
package main
