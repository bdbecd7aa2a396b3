package mods

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// DuplicateNotice records a record displaced by another with the same UUID.
// Kept is the record that remained in the catalog.
type DuplicateNotice struct {
	UUID      string
	Kept      ModRecord
	Displaced ModRecord
}

func (n DuplicateNotice) String() string {
	return fmt.Sprintf("duplicate mod %s: kept %s (%s), displaced %s (%s)",
		n.UUID, n.Kept.DisplayName(), n.Kept.Version, n.Displaced.DisplayName(), n.Displaced.Version)
}

// Catalog is the indexed store of every known mod. Records are keyed by exact
// UUID match. Get and All hand out pointers into the catalog; callers must
// treat them as read-only.
type Catalog struct {
	mods       map[string]*ModRecord
	order      []string
	duplicates []DuplicateNotice
}

// NewCatalog returns a catalog seeded with the publisher mods.
func NewCatalog() *Catalog {
	c := &Catalog{mods: make(map[string]*ModRecord)}
	c.seedBuiltins()
	return c
}

func (c *Catalog) seedBuiltins() {
	for _, m := range BuiltinMods() {
		c.put(m.Clone())
	}
}

func (c *Catalog) put(rec *ModRecord) {
	if _, ok := c.mods[rec.UUID]; !ok {
		c.order = append(c.order, rec.UUID)
	}
	c.mods[rec.UUID] = rec
}

// Add inserts rec, replacing any record with the same UUID. When a record is
// already present the higher version wins; on equal versions the incoming
// record wins. Every displaced record is returned as a notice and also kept
// for Duplicates. An empty UUID is rejected with ErrEmptyUUID. A record
// reusing a publisher UUID stays force-loaded.
func (c *Catalog) Add(rec ModRecord) (*DuplicateNotice, error) {
	if strings.TrimSpace(rec.UUID) == "" {
		return nil, fmt.Errorf("add mod %q: %w", rec.Name, ErrEmptyUUID)
	}
	incoming := rec.Clone()
	if IsBuiltin(incoming.UUID) {
		incoming.IsForceLoaded = true
	}
	existing, ok := c.mods[rec.UUID]
	if !ok {
		c.put(incoming)
		return nil, nil
	}

	notice := DuplicateNotice{UUID: rec.UUID}
	if incoming.Version.Less(existing.Version) {
		notice.Kept, notice.Displaced = *existing, *incoming
	} else {
		notice.Kept, notice.Displaced = *incoming, *existing
		c.put(incoming)
	}
	c.duplicates = append(c.duplicates, notice)
	return &notice, nil
}

// Remove deletes the record with uuid. Publisher mods cannot be removed.
func (c *Catalog) Remove(uuid string) bool {
	if _, ok := c.mods[uuid]; !ok || IsBuiltin(uuid) {
		return false
	}
	delete(c.mods, uuid)
	c.order = slices.DeleteFunc(c.order, func(u string) bool { return u == uuid })
	return true
}

// Get looks up a record by exact UUID.
func (c *Catalog) Get(uuid string) (*ModRecord, bool) {
	m, ok := c.mods[uuid]
	return m, ok
}

// Has reports whether uuid is in the catalog.
func (c *Catalog) Has(uuid string) bool {
	_, ok := c.mods[uuid]
	return ok
}

// All yields records in insertion order.
func (c *Catalog) All() iter.Seq[*ModRecord] {
	return func(yield func(*ModRecord) bool) {
		for _, u := range c.order {
			if !yield(c.mods[u]) {
				return
			}
		}
	}
}

// Records returns All as a slice.
func (c *Catalog) Records() []*ModRecord {
	return slices.Collect(c.All())
}

func (c *Catalog) Len() int { return len(c.mods) }

// Duplicates returns every notice produced since the catalog was created or
// last refreshed.
func (c *Catalog) Duplicates() []DuplicateNotice {
	return slices.Clone(c.duplicates)
}

// Refresh discards every non-publisher record and rebuilds the catalog from
// records. Records that fail validation are skipped and their errors joined
// into the returned error; the catalog is still fully rebuilt.
func (c *Catalog) Refresh(records []ModRecord) ([]DuplicateNotice, error) {
	c.mods = make(map[string]*ModRecord, len(records)+len(builtinSet))
	c.order = nil
	c.duplicates = nil
	c.seedBuiltins()

	var errs []error
	for _, r := range records {
		if _, err := c.Add(r); err != nil {
			errs = append(errs, err)
		}
	}
	return c.Duplicates(), joinErrors(errs)
}

// Adventures lists the campaign mods a user can pick, sorted by name.
func (c *Catalog) Adventures() []*ModRecord {
	var out []*ModRecord
	for m := range c.All() {
		if m.Type == TypeAdventure && !m.IsHidden {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, compareByName)
	return out
}

func compareByName(a, b *ModRecord) int {
	if n := strings.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName())); n != 0 {
		return n
	}
	return strings.Compare(a.UUID, b.UUID)
}
