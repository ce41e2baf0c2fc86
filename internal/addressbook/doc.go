// Package addressbook owns the in-memory contact collection and its
// persisted state.
//
// A Book is opened once per process over a contactstore.Store. Every
// mutation (Add, Reset) runs under the book mutex and is saved before the
// call returns; when the save fails the mutation is undone in memory so the
// collection keeps matching what is on disk. Duplicate detection scores a
// candidate against every stored contact and merges into the best match
// only when its score is strictly above the configured threshold.
package addressbook
