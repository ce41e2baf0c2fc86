package addressbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"contactbook/internal/contact"
	"contactbook/internal/contactstore"
	"contactbook/internal/logging"
)

// ErrSave wraps failures to persist the address book.
var ErrSave = errors.New("save address book")

// Match pairs a stored contact with its score against a candidate.
type Match struct {
	Score   contact.Score
	Contact *contact.Contact
}

// AddResult describes where an added contact ended up.
type AddResult struct {
	// Contact is the stored entry: a copy of the appended contact or the
	// merge target.
	Contact *contact.Contact
	Merged  bool
	// Absorbed counts other entries folded into the merge target after it
	// grew.
	Absorbed int
}

// Book is the process-wide address book.
type Book struct {
	mu       sync.Mutex
	store    contactstore.Store
	opts     Options
	logger   *slog.Logger
	contacts []*contact.Contact
}

// Open constructs a book over store and loads the persisted collection.
func Open(ctx context.Context, store contactstore.Store, opts Options) (*Book, error) {
	if store == nil {
		return nil, errors.New("addressbook: store is nil")
	}
	opts = opts.withDefaults()
	b := &Book{
		store:  store,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "addressbook"),
	}
	if err := b.Load(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Load replaces the in-memory collection with the persisted one. Missing
// state leaves the book empty.
func (b *Book) Load(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	loaded, err := b.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, contactstore.ErrNoState) {
			return fmt.Errorf("load address book: %w", err)
		}
		logging.WarnWithContext(b.logger, "no saved address book; starting empty", "addressbook_state_missing",
			logging.String(logging.FieldPath, b.store.Path()),
			logging.String(logging.FieldErrorHint, "expected on first run"),
			logging.String(logging.FieldImpact, "address book starts empty"),
		)
		loaded = nil
	}

	seen := make(map[string]struct{}, len(loaded))
	for _, c := range loaded {
		if _, dup := seen[c.ID]; c.ID == "" || dup {
			c.ID = uuid.NewString()
		}
		seen[c.ID] = struct{}{}
	}
	b.contacts = loaded
	b.opts.Metrics.setContacts(len(b.contacts))
	b.logger.Debug("address book loaded", logging.Int("contact_count", len(b.contacts)))
	return nil
}

// Save consolidates every contact and overwrites the persisted state.
func (b *Book) Save(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saveLocked(ctx)
}

func (b *Book) saveLocked(ctx context.Context) error {
	for _, c := range b.contacts {
		c.Consolidate()
	}
	if err := b.store.Save(ctx, b.contacts); err != nil {
		b.opts.Metrics.incSave("error")
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	b.opts.Metrics.incSave("ok")
	b.opts.Metrics.setContacts(len(b.contacts))
	return nil
}

// FindDuplicates ranks stored contacts against candidate, best first. A
// candidate that is itself a stored entry yields only that entry with an
// Identical score. Ties keep insertion order.
func (b *Book) FindDuplicates(candidate *contact.Contact) []Match {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findDuplicatesLocked(candidate)
}

func (b *Book) findDuplicatesLocked(candidate *contact.Contact) []Match {
	if candidate == nil {
		return nil
	}
	if i := b.indexOf(candidate); i >= 0 {
		return []Match{{Score: contact.Identical, Contact: b.contacts[i]}}
	}
	matches := make([]Match, 0, len(b.contacts))
	for _, stored := range b.contacts {
		matches = append(matches, Match{
			Score:   candidate.MatchScore(stored, b.opts.Weights),
			Contact: stored,
		})
	}
	slices.SortStableFunc(matches, func(x, y Match) int {
		switch {
		case x.Score > y.Score:
			return -1
		case x.Score < y.Score:
			return 1
		default:
			return 0
		}
	})
	return matches
}

// FindBestDuplicate returns the top match when its score is strictly above
// the threshold.
func (b *Book) FindBestDuplicate(candidate *contact.Contact) (*contact.Contact, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findBestDuplicateLocked(candidate)
}

func (b *Book) findBestDuplicateLocked(candidate *contact.Contact) (*contact.Contact, bool) {
	matches := b.findDuplicatesLocked(candidate)
	if len(matches) == 0 {
		return nil, false
	}
	best := matches[0]
	if best.Score <= b.opts.Threshold || best.Score == contact.NoMatch {
		return nil, false
	}
	return best.Contact, true
}

// Add stores c. With autoMerge on and a duplicate above the threshold, c is
// merged into that duplicate and discarded; otherwise a copy of c is
// appended and pinned so later merges leave it apart. The caller keeps
// ownership of c. The book is saved before Add returns, and a failed save
// undoes the change.
func (b *Book) Add(ctx context.Context, c *contact.Contact, autoMerge bool) (AddResult, error) {
	if c == nil {
		return AddResult{}, errors.New("addressbook: contact is nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if autoMerge && len(b.contacts) > 0 {
		if target, ok := b.findBestDuplicateLocked(c); ok {
			return b.mergeLocked(ctx, target, c)
		}
	}
	return b.appendLocked(ctx, c, !autoMerge)
}

func (b *Book) mergeLocked(ctx context.Context, target, c *contact.Contact) (AddResult, error) {
	previous := slices.Clone(b.contacts)
	before := target.Clone()
	target.Merge(c)
	absorbed := b.absorbLocked(target)
	if err := b.saveLocked(ctx); err != nil {
		*target = *before
		b.contacts = previous
		return AddResult{}, err
	}
	b.opts.Metrics.incAdd("merged")
	attrs := []logging.Attr{
		logging.String(logging.FieldContactID, target.ID),
		logging.String("display_name", target.DisplayName()),
		logging.Int("absorbed", absorbed),
	}
	attrs = append(attrs, logging.DecisionAttrs("duplicate_merge", "merged", "score above threshold")...)
	b.logger.Info("contact merged", logging.Args(attrs...)...)
	return AddResult{Contact: target, Merged: true, Absorbed: absorbed}, nil
}

// absorbLocked folds into target every unpinned entry that scores above the
// threshold against it, rescanning after each fold since target grows.
func (b *Book) absorbLocked(target *contact.Contact) int {
	absorbed := 0
	for {
		i := slices.IndexFunc(b.contacts, func(e *contact.Contact) bool {
			return e != target && !e.Pinned && target.MatchScore(e, b.opts.Weights) > b.opts.Threshold
		})
		if i < 0 {
			return absorbed
		}
		b.logger.Debug("absorbing stored duplicate",
			logging.String(logging.FieldContactID, b.contacts[i].ID),
			logging.String("target_id", target.ID),
		)
		target.Merge(b.contacts[i])
		b.contacts = slices.Delete(b.contacts, i, i+1)
		absorbed++
	}
}

func (b *Book) appendLocked(ctx context.Context, c *contact.Contact, pinned bool) (AddResult, error) {
	entry := c.Clone()
	entry.Pinned = pinned
	if entry.ID == "" || b.indexOfID(entry.ID) >= 0 {
		entry.ID = uuid.NewString()
	}

	b.contacts = append(b.contacts, entry)
	if err := b.saveLocked(ctx); err != nil {
		b.contacts = b.contacts[:len(b.contacts)-1]
		return AddResult{}, err
	}
	b.opts.Metrics.incAdd("appended")
	b.logger.Info("contact added",
		logging.String(logging.FieldContactID, entry.ID),
		logging.String("display_name", entry.DisplayName()),
		logging.Bool("pinned", pinned),
	)
	return AddResult{Contact: entry}, nil
}

// Find builds a transient candidate from attrs and returns its best
// duplicate.
func (b *Book) Find(attrs map[string][]string) (*contact.Contact, bool, error) {
	candidate, err := contact.New(attrs, b.opts.UnknownPolicy)
	if err != nil {
		return nil, false, err
	}
	if candidate.IsEmpty() {
		return nil, false, nil
	}
	found, ok := b.FindBestDuplicate(candidate)
	return found, ok, nil
}

// Get returns the stored contact with the given ID.
func (b *Book) Get(id string) (*contact.Contact, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOfID(id); i >= 0 {
		return b.contacts[i], true
	}
	return nil, false
}

// Contacts returns the stored contacts in insertion order. The slice is a
// copy; the contacts are shared and must not be modified.
func (b *Book) Contacts() []*contact.Contact {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.contacts)
}

// Len returns the number of stored contacts.
func (b *Book) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.contacts)
}

// Reset removes every contact and saves the empty book.
func (b *Book) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	previous := b.contacts
	b.contacts = nil
	if err := b.saveLocked(ctx); err != nil {
		b.contacts = previous
		return err
	}
	b.logger.Info("address book reset", logging.Int("removed", len(previous)))
	return nil
}

func (b *Book) indexOf(c *contact.Contact) int {
	return slices.Index(b.contacts, c)
}

func (b *Book) indexOfID(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(b.contacts, func(c *contact.Contact) bool { return c.ID == id })
}
