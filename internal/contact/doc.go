// Package contact models a single address-book entry and the rules used to
// decide whether two entries describe the same person.
//
// Every attribute holds a set of strings rather than a scalar: the same person
// may carry several phone numbers, addresses, or spellings of their name that
// were collected over time. Sets only grow by union (Merge) and never hold two
// values that fold to the same key, so merging is idempotent and never drops
// data.
//
// MatchScore is a weighted overlap count. Shared telephone numbers and email
// addresses are strong evidence, shared names moderate evidence, and shared
// name or address words weak evidence capped below a single exact match.
package contact
