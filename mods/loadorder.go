package mods

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LoadOrderEntry is one position in a load order. Name caches the display
// name so the entry stays readable after the mod disappears.
type LoadOrderEntry struct {
	UUID    string
	Name    string
	Missing bool
}

// LoadOrder is a named, ordered sequence of mod references.
type LoadOrder struct {
	ID           string
	Name         string
	FilePath     string
	ProfileID    string
	Entries      []LoadOrderEntry
	IsCurrent    bool
	LastModified time.Time

	now func() time.Time
}

// NewLoadOrder returns an empty load order with a fresh ID.
func NewLoadOrder(name string) *LoadOrder {
	o := &LoadOrder{ID: uuid.NewString(), Name: name}
	o.touch()
	return o
}

// LoadOrderFrom builds a load order from a UUID sequence, caching names from
// the catalog where possible. Duplicates are collapsed to their first
// position.
func LoadOrderFrom(name string, uuids []string, c *Catalog) (*LoadOrder, error) {
	o := NewLoadOrder(name)
	for _, u := range uuids {
		e := LoadOrderEntry{UUID: u}
		if c != nil {
			if m, ok := c.Get(u); ok {
				e.Name = m.DisplayName()
			}
		}
		if _, err := o.Add(e, false); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *LoadOrder) touch() {
	if o.now != nil {
		o.LastModified = o.now()
		return
	}
	o.LastModified = time.Now()
}

// Add appends e. Without force the call is a no-op when the UUID is already
// present; force appends regardless, which is how persisted data carrying
// deliberate duplicates is rehydrated. Reports whether an entry was added.
func (o *LoadOrder) Add(e LoadOrderEntry, force bool) (bool, error) {
	if strings.TrimSpace(e.UUID) == "" {
		return false, fmt.Errorf("load order %q: %w", o.Name, ErrEmptyUUID)
	}
	if !force && o.Contains(e.UUID) {
		return false, nil
	}
	o.Entries = append(o.Entries, e)
	o.touch()
	return true, nil
}

// Insert places e at index at, clamped to the valid range. Any existing
// entry with the same UUID is removed first.
func (o *LoadOrder) Insert(e LoadOrderEntry, at int) error {
	if strings.TrimSpace(e.UUID) == "" {
		return fmt.Errorf("load order %q: %w", o.Name, ErrEmptyUUID)
	}
	o.removeAll(e.UUID)
	at = max(0, min(at, len(o.Entries)))
	o.Entries = slices.Insert(o.Entries, at, e)
	o.touch()
	return nil
}

// Remove drops every entry with uuid and reports whether any existed.
func (o *LoadOrder) Remove(uuid string) bool {
	if !o.removeAll(uuid) {
		return false
	}
	o.touch()
	return true
}

func (o *LoadOrder) removeAll(uuid string) bool {
	n := len(o.Entries)
	o.Entries = slices.DeleteFunc(o.Entries, func(e LoadOrderEntry) bool { return e.UUID == uuid })
	return len(o.Entries) != n
}

// Move relocates the first entry with uuid to index to.
func (o *LoadOrder) Move(uuid string, to int) error {
	from := o.IndexOf(uuid)
	if from < 0 {
		return fmt.Errorf("move %s: %w", uuid, ErrModNotFound)
	}
	if to < 0 || to >= len(o.Entries) {
		return fmt.Errorf("move %s to %d: %w", uuid, to, ErrIndexOutOfRange)
	}
	e := o.Entries[from]
	o.Entries = slices.Delete(o.Entries, from, from+1)
	o.Entries = slices.Insert(o.Entries, to, e)
	o.touch()
	return nil
}

// Contains reports whether any entry has uuid.
func (o *LoadOrder) Contains(uuid string) bool {
	return o.IndexOf(uuid) >= 0
}

// IndexOf returns the position of the first entry with uuid, or -1.
func (o *LoadOrder) IndexOf(uuid string) int {
	return slices.IndexFunc(o.Entries, func(e LoadOrderEntry) bool { return e.UUID == uuid })
}

// UUIDs returns the entry UUIDs in order.
func (o *LoadOrder) UUIDs() []string {
	out := make([]string, len(o.Entries))
	for i, e := range o.Entries {
		out[i] = e.UUID
	}
	return out
}

// Validate returns ErrEmptyUUID if any entry lacks a UUID.
func (o *LoadOrder) Validate() error {
	for i, e := range o.Entries {
		if strings.TrimSpace(e.UUID) == "" {
			return fmt.Errorf("load order %q entry %d: %w", o.Name, i, ErrEmptyUUID)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (o *LoadOrder) Clone() *LoadOrder {
	c := *o
	c.Entries = slices.Clone(o.Entries)
	return &c
}

// FlagMissing sets each entry's Missing flag from a resolution result and
// refreshes cached names for entries that resolved.
func (o *LoadOrder) FlagMissing(r *ResolvedOrder) {
	missing := make(map[string]bool, len(r.Report.MissingDirect))
	for _, m := range r.Report.MissingDirect {
		missing[m.UUID] = true
	}
	names := make(map[string]string, len(r.Mods))
	for _, m := range r.Mods {
		names[m.UUID] = m.DisplayName()
	}
	for i := range o.Entries {
		e := &o.Entries[i]
		e.Missing = missing[e.UUID]
		if n, ok := names[e.UUID]; ok {
			e.Name = n
		}
	}
}

// Profile is a save-game context owning its load orders.
type Profile struct {
	ID             string
	Name           string
	FolderPath     string
	CurrentOrderID string
	SavedOrderIDs  []string
	// ModOrder mirrors the flat UUID ordering in the game's own settings.
	ModOrder []string
}

// NewProfile returns a profile with a fresh ID.
func NewProfile(name string) *Profile {
	return &Profile{ID: uuid.NewString(), Name: name}
}

// Owns reports whether the load order belongs to this profile. Orders not
// bound to any profile belong to every profile.
func (p *Profile) Owns(o *LoadOrder) bool {
	return o.ProfileID == "" || (p != nil && p.ID == o.ProfileID)
}
