// Package modinfo parses the metadata sidecars shipped next to mod archives
// (info.json, or info.yaml for hand-written entries) into catalog records.
package modinfo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"bg3-mod-manager/mods"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var ErrNoMods = errors.New("metadata lists no mods")

// File is a parsed info.json / info.yaml document.
type File struct {
	Mods []Mod  `json:"Mods" yaml:"Mods"`
	MD5  string `json:"MD5" yaml:"MD5"`
}

// Mod is one mod entry of a metadata file.
type Mod struct {
	Author        string    `json:"Author" yaml:"Author"`
	Name          string    `json:"Name" yaml:"Name"`
	Folder        string    `json:"Folder" yaml:"Folder"`
	Version       Version   `json:"Version" yaml:"Version"`
	Description   string    `json:"Description" yaml:"Description"`
	UUID          string    `json:"UUID" yaml:"UUID"`
	Type          string    `json:"Type" yaml:"Type"`
	Tags          []string  `json:"Tags" yaml:"Tags"`
	PublishHandle uint64    `json:"PublishHandle" yaml:"PublishHandle"`
	Dependencies  []Ref     `json:"Dependencies" yaml:"Dependencies"`
	Conflicts     []Ref     `json:"Conflicts" yaml:"Conflicts"`
	ForceLoaded   bool      `json:"ForceLoaded" yaml:"ForceLoaded"`
	Hidden        bool      `json:"Hidden" yaml:"Hidden"`
	Extender      *Extender `json:"ScriptExtender" yaml:"ScriptExtender"`

	// Merged mods are force-loaded overrides the user may still order.
	ForceLoadedMergedMod  bool `json:"ForceLoadedMergedMod" yaml:"ForceLoadedMergedMod"`
	ForceAllowInLoadOrder bool `json:"ForceAllowInLoadOrder" yaml:"ForceAllowInLoadOrder"`
	EditorProject         bool `json:"EditorProject" yaml:"EditorProject"`
}

// Extender is the script extender requirement block.
type Extender struct {
	RequiredVersion int      `json:"RequiredVersion" yaml:"RequiredVersion"`
	Features        []string `json:"FeatureFlags" yaml:"FeatureFlags"`
}

// Ref is a dependency or conflict. Metadata files write either a bare UUID
// string or an object.
type Ref struct {
	UUID    string  `json:"UUID" yaml:"UUID"`
	Name    string  `json:"Name" yaml:"Name"`
	Folder  string  `json:"Folder" yaml:"Folder"`
	Version Version `json:"Version" yaml:"Version"`
}

// Version holds a version as written: dotted text or the packed integer,
// which JSON writers emit either quoted or bare.
type Version string

func (v *Version) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Version(s)
		return nil
	}
	if string(b) == "null" {
		*v = ""
		return nil
	}
	*v = Version(b)
	return nil
}

type refObject Ref

func (r *Ref) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = Ref{UUID: s}
		return nil
	}
	var o refObject
	if err := json.Unmarshal(b, &o); err != nil {
		return err
	}
	*r = Ref(o)
	return nil
}

func (r *Ref) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*r = Ref{UUID: n.Value}
		return nil
	}
	var o refObject
	if err := n.Decode(&o); err != nil {
		return err
	}
	*r = Ref(o)
	return nil
}

// Parse decodes a metadata document. format is "json" or "yaml".
func Parse(r io.Reader, format string) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var f File
	switch strings.ToLower(format) {
	case "json":
		// Some tools write a UTF-8 BOM.
		data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
		err = json.Unmarshal(data, &f)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("unsupported metadata format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", format, err)
	}
	if len(f.Mods) == 0 {
		return nil, ErrNoMods
	}
	return &f, nil
}

// ParseFile reads a metadata file, picking the format from its extension.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Parse(fh, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// IsMetadataFile reports whether path looks like a metadata sidecar.
func IsMetadataFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Records converts the document into catalog records. Entries with an empty
// UUID, or with a dependency lacking one, are rejected with mods.ErrEmptyUUID;
// the remaining entries are still returned. warnings lists UUIDs that are
// present but not well-formed.
func (f *File) Records() (records []mods.ModRecord, warnings []string, err error) {
	var errs []error
	for i, m := range f.Mods {
		rec, err := m.record()
		if err != nil {
			errs = append(errs, fmt.Errorf("mod %d (%s): %w", i, m.Name, err))
			continue
		}
		if len(f.Mods) == 1 && rec.MD5 == "" {
			rec.MD5 = f.MD5
		}
		if uuid.Validate(rec.UUID) != nil {
			warnings = append(warnings, fmt.Sprintf("mod %q has a malformed uuid %q", rec.Name, rec.UUID))
		}
		records = append(records, rec)
	}
	return records, warnings, errors.Join(errs...)
}

func (m Mod) record() (mods.ModRecord, error) {
	if strings.TrimSpace(m.UUID) == "" {
		return mods.ModRecord{}, mods.ErrEmptyUUID
	}
	version, err := mods.ParseVersion(string(m.Version))
	if err != nil {
		return mods.ModRecord{}, err
	}
	deps, err := refs(m.Dependencies)
	if err != nil {
		return mods.ModRecord{}, fmt.Errorf("dependencies: %w", err)
	}
	conflicts, err := refs(m.Conflicts)
	if err != nil {
		return mods.ModRecord{}, fmt.Errorf("conflicts: %w", err)
	}

	rec := mods.ModRecord{
		UUID:            strings.TrimSpace(m.UUID),
		Name:            m.Name,
		Folder:          m.Folder,
		Version:         version,
		Author:          m.Author,
		Description:     m.Description,
		Type:            mods.TypeAddon,
		PublishHandle:   m.PublishHandle,
		Tags:            m.Tags,
		IsForceLoaded:   m.ForceLoaded,
		IsHidden:        m.Hidden,
		IsUserInstalled: true,
		Dependencies:    deps,
		Conflicts:       conflicts,

		IsForceLoadedMergedMod: m.ForceLoadedMergedMod,
		ForceAllowInLoadOrder:  m.ForceAllowInLoadOrder,
		IsEditorProject:        m.EditorProject,
	}
	if strings.EqualFold(m.Type, string(mods.TypeAdventure)) {
		rec.Type = mods.TypeAdventure
	}
	if m.Extender != nil {
		rec.Extender = mods.ExtenderRequirement{
			Required:        true,
			RequiredVersion: m.Extender.RequiredVersion,
			Features:        m.Extender.Features,
		}
	}
	return rec, nil
}

func refs(in []Ref) ([]mods.ModuleRef, error) {
	out := make([]mods.ModuleRef, 0, len(in))
	for _, r := range in {
		if strings.TrimSpace(r.UUID) == "" {
			return nil, mods.ErrEmptyUUID
		}
		v, err := mods.ParseVersion(string(r.Version))
		if err != nil {
			return nil, err
		}
		out = append(out, mods.ModuleRef{UUID: strings.TrimSpace(r.UUID), Name: r.Name, Folder: r.Folder, MinVersion: v})
	}
	return out, nil
}
