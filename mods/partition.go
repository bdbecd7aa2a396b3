package mods

import (
	"fmt"
	"slices"
)

// ModView wraps a catalog record with its position in a partition list.
// Presentation state lives here, never on ModRecord.
type ModView struct {
	Mod   *ModRecord
	Index int
}

// Partition is the user-facing split of the catalog.
type Partition struct {
	Active      []ModView
	Inactive    []ModView
	ForceLoaded []ModView
}

// UUIDs returns the UUIDs of a partition list in order.
func UUIDs(views []ModView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Mod.UUID
	}
	return out
}

// Partitioner derives the Active/Inactive/ForceLoaded sets from a catalog and
// a load order, and applies user reorders to the load order.
type Partitioner struct {
	catalog *Catalog
	order   *LoadOrder
}

// NewPartitioner binds a catalog and the load order it edits.
func NewPartitioner(c *Catalog, o *LoadOrder) *Partitioner {
	return &Partitioner{catalog: c, order: o}
}

// Order returns the load order being edited.
func (p *Partitioner) Order() *LoadOrder { return p.order }

// Compute derives the three lists. Active follows load-order position,
// Inactive is sorted by name, ForceLoaded follows catalog order. Every list is
// indexed contiguously from zero.
func (p *Partitioner) Compute() Partition {
	var part Partition
	seen := make(map[string]bool)
	for _, e := range p.order.Entries {
		m, ok := p.catalog.Get(e.UUID)
		if !ok || seen[e.UUID] || !m.Eligible() {
			continue
		}
		seen[e.UUID] = true
		part.Active = append(part.Active, ModView{Mod: m})
	}

	var inactive []*ModRecord
	for m := range p.catalog.All() {
		switch {
		case m.AlwaysOn():
			part.ForceLoaded = append(part.ForceLoaded, ModView{Mod: m})
		case m.Eligible() && !seen[m.UUID]:
			inactive = append(inactive, m)
		}
	}
	slices.SortStableFunc(inactive, compareByName)
	for _, m := range inactive {
		part.Inactive = append(part.Inactive, ModView{Mod: m})
	}

	reindex(part.Active)
	reindex(part.Inactive)
	reindex(part.ForceLoaded)
	return part
}

func reindex(views []ModView) {
	for i := range views {
		views[i].Index = i
	}
}

func (p *Partitioner) eligible(uuid string) (*ModRecord, error) {
	m, ok := p.catalog.Get(uuid)
	if !ok {
		return nil, fmt.Errorf("%s: %w", uuid, ErrModNotFound)
	}
	if !m.Eligible() {
		return nil, fmt.Errorf("%s (%s): %w", m.DisplayName(), uuid, ErrNotEligible)
	}
	return m, nil
}

// Activate inserts uuid into the active list at index at (clamped; a negative
// value appends) and returns the recomputed partition.
func (p *Partitioner) Activate(uuid string, at int) (Partition, error) {
	m, err := p.eligible(uuid)
	if err != nil {
		return Partition{}, fmt.Errorf("activate: %w", err)
	}
	if p.order.Contains(uuid) {
		if at < 0 {
			return p.Compute(), nil
		}
		n := len(p.Compute().Active)
		return p.Move(uuid, min(at, n-1))
	}
	pos := p.orderPosition(at)
	if err := p.order.Insert(LoadOrderEntry{UUID: uuid, Name: m.DisplayName()}, pos); err != nil {
		return Partition{}, fmt.Errorf("activate: %w", err)
	}
	return p.Compute(), nil
}

// Deactivate removes uuid from the load order.
func (p *Partitioner) Deactivate(uuid string) (Partition, error) {
	if !p.order.Remove(uuid) {
		return Partition{}, fmt.Errorf("deactivate %s: %w", uuid, ErrModNotFound)
	}
	return p.Compute(), nil
}

// Move places an active mod at active index to.
func (p *Partitioner) Move(uuid string, to int) (Partition, error) {
	active := p.Compute().Active
	from := slices.IndexFunc(active, func(v ModView) bool { return v.Mod.UUID == uuid })
	if from < 0 {
		return Partition{}, fmt.Errorf("move %s: %w", uuid, ErrModNotFound)
	}
	if to < 0 || to >= len(active) {
		return Partition{}, fmt.Errorf("move %s to %d: %w", uuid, to, ErrIndexOutOfRange)
	}
	if from == to {
		return p.Compute(), nil
	}
	e := p.order.Entries[p.order.IndexOf(uuid)]
	p.order.removeAll(uuid)
	// Anchor on the active mod now at the target index so entries that are
	// not active (missing mods) keep their relative spots.
	target := p.order.IndexOf(active[to].Mod.UUID)
	if from < to {
		target++
	}
	if err := p.order.Insert(e, target); err != nil {
		return Partition{}, fmt.Errorf("move: %w", err)
	}
	return p.Compute(), nil
}

// orderPosition maps an active-list index to a load-order index.
func (p *Partitioner) orderPosition(at int) int {
	active := p.Compute().Active
	if at < 0 || at >= len(active) {
		return len(p.order.Entries)
	}
	return p.order.IndexOf(active[at].Mod.UUID)
}
