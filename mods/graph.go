package mods

import (
	"fmt"
	"slices"
	"strings"
)

// MissingEdge is a declared dependency whose target is not in the catalog.
type MissingEdge struct {
	From string
	To   ModuleRef
}

// CycleWarning records a dependency edge that led back onto the current
// traversal path. The edge is skipped, not followed.
type CycleWarning struct {
	Path []string
}

func (w CycleWarning) String() string {
	return "dependency cycle: " + strings.Join(w.Path, " -> ")
}

// Closure is the result of a transitive dependency walk.
type Closure struct {
	Root         string
	Dependencies []string // sorted, excludes Root
	Missing      []MissingEdge
	Cycles       []CycleWarning
}

// Graph holds the declared dependency and conflict edges of a catalog
// snapshot. Edges are exactly what each mod declares; nothing is mirrored.
type Graph struct {
	catalog    *Catalog
	ignore     IgnoreSet
	dependents map[string][]string
}

// NewGraph builds the graph for the current catalog contents. Edges to
// ignored UUIDs are kept on the records but never traversed or reported.
func NewGraph(c *Catalog, ignore IgnoreSet) *Graph {
	g := &Graph{catalog: c, ignore: ignore, dependents: make(map[string][]string)}
	for m := range c.All() {
		for _, d := range m.Dependencies {
			if d.UUID == "" || ignore.Has(d.UUID) {
				continue
			}
			g.dependents[d.UUID] = append(g.dependents[d.UUID], m.UUID)
		}
	}
	for u, list := range g.dependents {
		slices.Sort(list)
		g.dependents[u] = slices.Compact(list)
	}
	return g
}

// Catalog returns the catalog the graph was built from.
func (g *Graph) Catalog() *Catalog { return g.catalog }

// DependsOn returns the declared dependency edges of uuid.
func (g *Graph) DependsOn(uuid string) []ModuleRef {
	if m, ok := g.catalog.Get(uuid); ok {
		return m.Dependencies
	}
	return nil
}

// ConflictsWith returns the declared conflict edges of uuid.
func (g *Graph) ConflictsWith(uuid string) []ModuleRef {
	if m, ok := g.catalog.Get(uuid); ok {
		return m.Conflicts
	}
	return nil
}

// Dependents returns the UUIDs of catalog mods that declare a dependency on
// uuid, sorted.
func (g *Graph) Dependents(uuid string) []string {
	return slices.Clone(g.dependents[uuid])
}

// TransitiveDependencies walks dependency edges from uuid. Only targets
// present in the catalog are traversed; absent targets are reported in
// Missing. An edge back onto the current path is recorded in Cycles and
// skipped. The only error is ErrEmptyUUID.
func (g *Graph) TransitiveDependencies(uuid string) (Closure, error) {
	if strings.TrimSpace(uuid) == "" {
		return Closure{}, fmt.Errorf("transitive dependencies: %w", ErrEmptyUUID)
	}
	w := walker{
		graph:   g,
		visited: map[string]bool{},
		onPath:  map[string]bool{},
		missing: map[[2]string]bool{},
	}
	out := Closure{Root: uuid}
	if !g.catalog.Has(uuid) {
		if !g.ignore.Has(uuid) {
			out.Missing = append(out.Missing, MissingEdge{To: ModuleRef{UUID: uuid}})
		}
		return out, nil
	}
	w.visit(uuid)

	delete(w.visited, uuid)
	for u := range w.visited {
		out.Dependencies = append(out.Dependencies, u)
	}
	slices.Sort(out.Dependencies)
	out.Missing = w.missingEdges
	out.Cycles = w.cycles
	return out, nil
}

type walker struct {
	graph        *Graph
	visited      map[string]bool
	onPath       map[string]bool
	path         []string
	missing      map[[2]string]bool
	missingEdges []MissingEdge
	cycles       []CycleWarning
}

func (w *walker) visit(uuid string) {
	w.visited[uuid] = true
	w.onPath[uuid] = true
	w.path = append(w.path, uuid)
	defer func() {
		w.onPath[uuid] = false
		w.path = w.path[:len(w.path)-1]
	}()

	for _, dep := range w.graph.DependsOn(uuid) {
		switch {
		case dep.UUID == "" || w.graph.ignore.Has(dep.UUID):
			continue
		case !w.graph.catalog.Has(dep.UUID):
			key := [2]string{uuid, dep.UUID}
			if !w.missing[key] {
				w.missing[key] = true
				w.missingEdges = append(w.missingEdges, MissingEdge{From: uuid, To: dep})
			}
		case w.onPath[dep.UUID]:
			cycle := append(slices.Clone(w.path[slices.Index(w.path, dep.UUID):]), dep.UUID)
			w.cycles = append(w.cycles, CycleWarning{Path: cycle})
		case w.visited[dep.UUID]:
			continue
		default:
			w.visit(dep.UUID)
		}
	}
}

// ConflictPair is a declared conflict between two mods of the same set.
type ConflictPair struct {
	Mod          string
	ConflictWith string
}

// Conflicts returns every declared conflict where both sides are in uuids.
// A conflict declared only by B against A is reported once, as B -> A.
func (g *Graph) Conflicts(uuids []string) []ConflictPair {
	in := make(map[string]bool, len(uuids))
	for _, u := range uuids {
		in[u] = true
	}
	var out []ConflictPair
	for _, u := range uuids {
		for _, c := range g.ConflictsWith(u) {
			if c.UUID != u && in[c.UUID] {
				out = append(out, ConflictPair{Mod: u, ConflictWith: c.UUID})
			}
		}
	}
	return out
}
