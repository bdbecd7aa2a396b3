// Package export writes projected load orders in the formats the game and
// players exchange: the game's modsettings.lsx, and JSON, TSV, plain text and
// YAML summaries.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"bg3-mod-manager/mods"

	"gopkg.in/yaml.v3"
)

// Supported format names.
const (
	FormatLSX  = "lsx"
	FormatJSON = "json"
	FormatTSV  = "tsv"
	FormatText = "txt"
	FormatYAML = "yaml"
)

// Formats lists every name accepted by Write.
func Formats() []string {
	return []string{FormatLSX, FormatJSON, FormatTSV, FormatText, FormatYAML}
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	return "." + strings.ToLower(format)
}

// Document is a named, projected load order ready to be written.
type Document struct {
	Name       string
	Profile    string
	Adventure  string
	ExportedAt time.Time
	Mods       []mods.ModDescriptor
}

// Write serialises doc in the named format.
func Write(w io.Writer, format string, doc Document) error {
	switch strings.ToLower(format) {
	case FormatLSX:
		return WriteModSettings(w, doc.Mods)
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatTSV:
		return WriteTSV(w, doc.Mods)
	case FormatText, "text":
		return WriteText(w, doc)
	case FormatYAML, "yml":
		return WriteYAML(w, doc)
	default:
		return fmt.Errorf("unknown export format %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}
}

type jsonDocument struct {
	Name       string               `json:"name"`
	Profile    string               `json:"profile,omitempty"`
	Adventure  string               `json:"adventure,omitempty"`
	ExportedAt time.Time            `json:"exportedAt"`
	Order      []mods.ModDescriptor `json:"order"`
}

// WriteJSON writes the document as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonDocument{
		Name:       doc.Name,
		Profile:    doc.Profile,
		Adventure:  doc.Adventure,
		ExportedAt: doc.ExportedAt.UTC(),
		Order:      nonNil(doc.Mods),
	})
}

type yamlDocument struct {
	Name       string               `yaml:"name"`
	Profile    string               `yaml:"profile,omitempty"`
	Adventure  string               `yaml:"adventure,omitempty"`
	ExportedAt string               `yaml:"exportedAt"`
	Order      []mods.ModDescriptor `yaml:"order"`
}

// WriteYAML writes the document as YAML.
func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlDocument{
		Name:       doc.Name,
		Profile:    doc.Profile,
		Adventure:  doc.Adventure,
		ExportedAt: doc.ExportedAt.UTC().Format(time.RFC3339),
		Order:      nonNil(doc.Mods),
	}); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

var tsvHeader = []string{"Index", "Name", "UUID", "Folder", "Version", "MD5", "PublishHandle"}

// WriteTSV writes one tab-separated row per mod with a header row.
func WriteTSV(w io.Writer, descs []mods.ModDescriptor) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(tsvHeader); err != nil {
		return err
	}
	for i, d := range descs {
		row := []string{
			strconv.Itoa(i),
			d.Name,
			d.UUID,
			d.Folder,
			d.Version.String(),
			d.MD5,
			strconv.FormatUint(d.PublishHandle, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText writes a numbered, human-readable list.
func WriteText(w io.Writer, doc Document) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Load order: %s\n", doc.Name)
	if doc.Profile != "" {
		fmt.Fprintf(&b, "Profile: %s\n", doc.Profile)
	}
	if !doc.ExportedAt.IsZero() {
		fmt.Fprintf(&b, "Exported: %s\n", doc.ExportedAt.UTC().Format(time.RFC3339))
	}
	b.WriteString("\n")
	width := len(strconv.Itoa(len(doc.Mods)))
	for i, d := range doc.Mods {
		fmt.Fprintf(&b, "%*d. %s (%s) [%s]\n", width, i+1, d.Name, d.Version, d.UUID)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func nonNil(descs []mods.ModDescriptor) []mods.ModDescriptor {
	if descs == nil {
		return []mods.ModDescriptor{}
	}
	return slices.Clone(descs)
}
