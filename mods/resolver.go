package mods

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// ExtenderKey identifies the script extender in the ExtenderRequired bucket.
const ExtenderKey = "ScriptExtender"

// ExtenderStatus describes the script extender available to the game.
type ExtenderStatus struct {
	Installed bool
	Enabled   bool
	Version   int
}

// Satisfies reports whether the extender meets req.
func (s ExtenderStatus) Satisfies(req ExtenderRequirement) bool {
	if !req.Required {
		return true
	}
	return s.Installed && s.Enabled && s.Version >= req.RequiredVersion
}

// MissingEntry is one report line. RequiredBy holds requirer display names,
// deduplicated and sorted.
type MissingEntry struct {
	UUID       string
	Name       string
	Index      int // load-order position for MissingDirect, -1 otherwise
	MinVersion Version
	// RequiredVersion is the highest extender version any requirer asks for.
	RequiredVersion int
	RequiredBy      []string
}

// ConflictEntry is a declared conflict between two resolved mods.
type ConflictEntry struct {
	UUID             string
	Name             string
	ConflictWithUUID string
	ConflictWithName string
}

// MissingModReport collects every inconsistency found while resolving.
type MissingModReport struct {
	MissingDirect        []MissingEntry
	MissingDependencies  []MissingEntry
	ExtenderRequired     []MissingEntry
	InactiveDependencies []MissingEntry
	OutdatedDependencies []MissingEntry
	Conflicts            []ConflictEntry
}

// Count returns the number of report lines across all buckets.
func (r MissingModReport) Count() int {
	return len(r.MissingDirect) + len(r.MissingDependencies) + len(r.ExtenderRequired) +
		len(r.InactiveDependencies) + len(r.OutdatedDependencies) + len(r.Conflicts)
}

// Empty reports whether nothing was found.
func (r MissingModReport) Empty() bool { return r.Count() == 0 }

// ResolvedOrder is the resolver output. Mods holds pointers into the catalog
// and must be treated as read-only.
type ResolvedOrder struct {
	Mods []*ModRecord
	// ForceLoadedStart is the index in Mods where appended always-on mods begin.
	ForceLoadedStart int
	AdventureUUID    string
	Report           MissingModReport
	Warnings         []CycleWarning
}

// UUIDs returns the resolved sequence as UUIDs.
func (r *ResolvedOrder) UUIDs() []string {
	out := make([]string, len(r.Mods))
	for i, m := range r.Mods {
		out[i] = m.UUID
	}
	return out
}

// Resolver turns a load order into a ResolvedOrder. It never mutates its
// inputs and holds no locks; it is safe to call concurrently as long as the
// catalog is not modified meanwhile.
type Resolver struct {
	catalog  *Catalog
	graph    *Graph
	ignore   IgnoreSet
	extender ExtenderStatus
	log      *zap.SugaredLogger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExtender sets the script extender status used for requirement checks.
func WithExtender(s ExtenderStatus) Option {
	return func(r *Resolver) { r.extender = s }
}

// WithLogger sets a debug logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithGraph reuses a prebuilt graph. It must have been built from the same
// catalog and ignore set.
func WithGraph(g *Graph) Option {
	return func(r *Resolver) { r.graph = g }
}

// NewResolver builds a resolver over catalog. A graph is built unless one is
// supplied with WithGraph.
func NewResolver(c *Catalog, ignore IgnoreSet, opts ...Option) *Resolver {
	r := &Resolver{catalog: c, ignore: ignore, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(r)
	}
	if r.graph == nil {
		r.graph = NewGraph(c, ignore)
	}
	return r
}

// Graph returns the dependency graph used by the resolver.
func (r *Resolver) Graph() *Graph { return r.graph }

// Resolve computes the exportable ordering for order. adventureUUID may be
// empty. Missing data never fails the call; it is reported in the result.
// Errors are returned only for invalid input: an entry without UUID, or a
// load order bound to a profile other than profile.
func (r *Resolver) Resolve(profile *Profile, order *LoadOrder, adventureUUID string) (*ResolvedOrder, error) {
	if order == nil {
		return nil, fmt.Errorf("resolve: %w: nil load order", ErrInvalidInput)
	}
	if err := order.Validate(); err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	if !profile.Owns(order) {
		return nil, fmt.Errorf("resolve %q (profile %s): %w", order.Name, order.ProfileID, ErrUnknownProfile)
	}

	b := newReportBuilder()
	out := &ResolvedOrder{AdventureUUID: adventureUUID}
	placed := make(map[string]bool)
	place := func(m *ModRecord) {
		placed[m.UUID] = true
		out.Mods = append(out.Mods, m)
	}

	if adventureUUID != "" {
		if m, ok := r.catalog.Get(adventureUUID); ok {
			place(m)
		} else if !r.ignore.Has(adventureUUID) {
			b.direct(MissingEntry{UUID: adventureUUID, Name: adventureUUID, Index: -1})
		}
	}

	for i, e := range order.Entries {
		if placed[e.UUID] || r.ignore.Has(e.UUID) {
			continue
		}
		m, ok := r.catalog.Get(e.UUID)
		if !ok {
			if !b.seenDirect[e.UUID] {
				name := e.Name
				if name == "" {
					name = e.UUID
				}
				b.direct(MissingEntry{UUID: e.UUID, Name: name, Index: i})
			}
			continue
		}
		if m.AlwaysOn() {
			// Always-on mods are excluded from manual ordering and land in
			// the tail below, wherever an imported order put them.
			continue
		}
		place(m)
	}

	out.ForceLoadedStart = len(out.Mods)
	for m := range r.catalog.All() {
		if m.AlwaysOn() && !placed[m.UUID] && !r.ignore.Has(m.UUID) {
			place(m)
		}
	}

	for _, m := range out.Mods {
		r.audit(m, placed, b)
	}
	r.auditConflicts(out, b)

	out.Report = b.build()
	out.Warnings = b.cycles
	r.log.Debugw("Resolved load order",
		zap.String("order", order.Name),
		zap.Int("mods", len(out.Mods)),
		zap.Int("missing_direct", len(out.Report.MissingDirect)),
		zap.Int("missing_dependencies", len(out.Report.MissingDependencies)),
		zap.Int("extender_required", len(out.Report.ExtenderRequired)),
	)
	return out, nil
}

func (r *Resolver) audit(m *ModRecord, placed map[string]bool, b *reportBuilder) {
	requirer := m.DisplayName()

	for _, dep := range m.Dependencies {
		if dep.UUID == "" || r.ignore.Has(dep.UUID) {
			continue
		}
		target, ok := r.catalog.Get(dep.UUID)
		if !ok {
			continue // reported through the transitive walk below
		}
		if !placed[dep.UUID] {
			b.merge(b.inactive, dep.UUID, target.DisplayName(), requirer, dep.MinVersion, 0)
		}
		if dep.MinVersion != 0 && target.Version.Less(dep.MinVersion) {
			b.merge(b.outdated, dep.UUID, target.DisplayName(), requirer, dep.MinVersion, 0)
		}
	}

	closure, err := r.graph.TransitiveDependencies(m.UUID)
	if err != nil {
		return
	}
	for _, edge := range closure.Missing {
		from := requirer
		if src, ok := r.catalog.Get(edge.From); ok {
			from = src.DisplayName()
		}
		name := edge.To.Name
		if name == "" {
			name = edge.To.UUID
		}
		b.merge(b.missingDeps, edge.To.UUID, name, from, edge.To.MinVersion, 0)
	}
	for _, c := range closure.Cycles {
		b.cycle(c)
	}

	if !r.extender.Satisfies(m.Extender) {
		b.merge(b.extender, ExtenderKey, "Script Extender", requirer, 0, m.Extender.RequiredVersion)
	}
}

func (r *Resolver) auditConflicts(out *ResolvedOrder, b *reportBuilder) {
	for _, pair := range r.graph.Conflicts(out.UUIDs()) {
		key := [2]string{pair.Mod, pair.ConflictWith}
		if b.seenConflict[key] {
			continue
		}
		b.seenConflict[key] = true
		a, _ := r.catalog.Get(pair.Mod)
		c, _ := r.catalog.Get(pair.ConflictWith)
		b.conflicts = append(b.conflicts, ConflictEntry{
			UUID:             a.UUID,
			Name:             a.DisplayName(),
			ConflictWithUUID: c.UUID,
			ConflictWithName: c.DisplayName(),
		})
	}
}

// bucket keeps entries in first-seen order with requirers merged per key.
type bucket struct {
	keys    []string
	entries map[string]*MissingEntry
}

func newBucket() *bucket { return &bucket{entries: map[string]*MissingEntry{}} }

func (bk *bucket) list() []MissingEntry {
	out := make([]MissingEntry, 0, len(bk.keys))
	for _, k := range bk.keys {
		e := *bk.entries[k]
		e.RequiredBy = sortNames(e.RequiredBy)
		out = append(out, e)
	}
	return out
}

type reportBuilder struct {
	directEntries []MissingEntry
	seenDirect    map[string]bool
	missingDeps   *bucket
	extender      *bucket
	inactive      *bucket
	outdated      *bucket
	conflicts     []ConflictEntry
	seenConflict  map[[2]string]bool
	cycles        []CycleWarning
	seenCycle     map[string]bool
}

func newReportBuilder() *reportBuilder {
	return &reportBuilder{
		seenDirect:   map[string]bool{},
		missingDeps:  newBucket(),
		extender:     newBucket(),
		inactive:     newBucket(),
		outdated:     newBucket(),
		seenConflict: map[[2]string]bool{},
		seenCycle:    map[string]bool{},
	}
}

func (b *reportBuilder) direct(e MissingEntry) {
	b.seenDirect[e.UUID] = true
	b.directEntries = append(b.directEntries, e)
}

func (b *reportBuilder) merge(bk *bucket, key, name, requirer string, minVersion Version, extVersion int) {
	e, ok := bk.entries[key]
	if !ok {
		e = &MissingEntry{UUID: key, Name: name, Index: -1}
		bk.entries[key] = e
		bk.keys = append(bk.keys, key)
	}
	e.RequiredBy = append(e.RequiredBy, requirer)
	e.MinVersion = maxVersion(e.MinVersion, minVersion)
	e.RequiredVersion = max(e.RequiredVersion, extVersion)
}

func (b *reportBuilder) cycle(c CycleWarning) {
	// The same cycle is met from every member; keep it once per member set.
	members := slices.Clone(c.Path[:len(c.Path)-1])
	slices.Sort(members)
	key := fmt.Sprint(members)
	if b.seenCycle[key] {
		return
	}
	b.seenCycle[key] = true
	b.cycles = append(b.cycles, c)
}

func (b *reportBuilder) build() MissingModReport {
	return MissingModReport{
		MissingDirect:        b.directEntries,
		MissingDependencies:  b.missingDeps.list(),
		ExtenderRequired:     b.extender.list(),
		InactiveDependencies: b.inactive.list(),
		OutdatedDependencies: b.outdated.list(),
		Conflicts:            b.conflicts,
	}
}
