// Package mods implements the load-order resolution and dependency
// consistency engine: an indexed catalog of installed mods, the dependency
// graph derived from it, user load orders, the Active/Inactive/ForceLoaded
// partition, and the resolver that turns all of it into one exportable
// ordering plus a report of every inconsistency found.
//
// Nothing in this package performs I/O or synchronisation. Callers that share
// a Catalog or LoadOrder across goroutines must snapshot or lock externally.
package mods

import "slices"

// ModType is the module type tag declared in mod metadata.
type ModType string

const (
	TypeAdventure ModType = "Adventure"
	TypeAddon     ModType = "Add-on"
)

// ModuleRef is a declared edge to another mod. It is used for both
// dependencies and conflicts.
type ModuleRef struct {
	UUID       string
	Name       string
	Folder     string
	MinVersion Version // zero means any version
}

// ExtenderRequirement describes what a mod needs from the script extender.
type ExtenderRequirement struct {
	Required        bool
	RequiredVersion int
	Features        []string
}

// ModRecord is a single installed or built-in mod. Records are owned by a
// Catalog and referenced elsewhere by UUID.
type ModRecord struct {
	UUID          string
	Name          string
	Folder        string
	Version       Version
	Author        string
	Description   string
	Type          ModType
	MD5           string
	PublishHandle uint64
	FilePath      string
	Tags          []string

	IsForceLoaded          bool
	IsForceLoadedMergedMod bool
	ForceAllowInLoadOrder  bool
	IsHidden               bool
	IsEditorProject        bool
	IsUserInstalled        bool

	Dependencies []ModuleRef
	Conflicts    []ModuleRef
	Extender     ExtenderRequirement
}

// AlwaysOn reports whether the mod is force-loaded and kept out of manual
// ordering.
func (m *ModRecord) AlwaysOn() bool {
	return m.IsForceLoaded && !m.IsForceLoadedMergedMod && !m.ForceAllowInLoadOrder
}

// Eligible reports whether the mod may appear in the Active or Inactive lists.
func (m *ModRecord) Eligible() bool {
	if m.Type == TypeAdventure || m.IsHidden {
		return false
	}
	return !m.IsForceLoaded || m.IsForceLoadedMergedMod || m.ForceAllowInLoadOrder
}

// DisplayName falls back to the folder and then the UUID when no name is set.
func (m *ModRecord) DisplayName() string {
	switch {
	case m.Name != "":
		return m.Name
	case m.Folder != "":
		return m.Folder
	default:
		return m.UUID
	}
}

// Ref returns a reference to this record suitable for a dependency list.
func (m *ModRecord) Ref() ModuleRef {
	return ModuleRef{UUID: m.UUID, Name: m.Name, Folder: m.Folder, MinVersion: m.Version}
}

// Clone returns a deep copy so the catalog never shares slices with callers.
func (m *ModRecord) Clone() *ModRecord {
	c := *m
	c.Tags = slices.Clone(m.Tags)
	c.Dependencies = slices.Clone(m.Dependencies)
	c.Conflicts = slices.Clone(m.Conflicts)
	c.Extender.Features = slices.Clone(m.Extender.Features)
	return &c
}
