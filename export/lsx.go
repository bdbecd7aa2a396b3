package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"bg3-mod-manager/mods"
)

// Game file version the settings document is written as.
const (
	lsxMajor    = 4
	lsxMinor    = 7
	lsxRevision = 1
	lsxBuild    = 3
)

type lsxSave struct {
	XMLName xml.Name   `xml:"save"`
	Version lsxVersion `xml:"version"`
	Region  lsxRegion  `xml:"region"`
}

type lsxVersion struct {
	Major    int `xml:"major,attr"`
	Minor    int `xml:"minor,attr"`
	Revision int `xml:"revision,attr"`
	Build    int `xml:"build,attr"`
}

type lsxRegion struct {
	ID   string  `xml:"id,attr"`
	Node lsxNode `xml:"node"`
}

type lsxNode struct {
	ID         string         `xml:"id,attr"`
	Attributes []lsxAttribute `xml:"attribute,omitempty"`
	Children   *lsxChildren   `xml:"children,omitempty"`
}

type lsxChildren struct {
	Nodes []lsxNode `xml:"node"`
}

type lsxAttribute struct {
	ID    string `xml:"id,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

func shortDesc(d mods.ModDescriptor) lsxNode {
	return lsxNode{
		ID: "ModuleShortDesc",
		Attributes: []lsxAttribute{
			{ID: "Folder", Type: "LSString", Value: d.Folder},
			{ID: "MD5", Type: "LSString", Value: d.MD5},
			{ID: "Name", Type: "LSString", Value: d.Name},
			{ID: "PublishHandle", Type: "uint64", Value: strconv.FormatUint(d.PublishHandle, 10)},
			{ID: "UUID", Type: "guid", Value: d.UUID},
			{ID: "Version64", Type: "int64", Value: strconv.FormatInt(int64(d.Version), 10)},
		},
	}
}

// WriteModSettings writes the game's modsettings.lsx for descs, which should
// come from a full projection so always-on mods are present.
func WriteModSettings(w io.Writer, descs []mods.ModDescriptor) error {
	list := make([]lsxNode, 0, len(descs))
	for _, d := range descs {
		list = append(list, shortDesc(d))
	}
	doc := lsxSave{
		Version: lsxVersion{Major: lsxMajor, Minor: lsxMinor, Revision: lsxRevision, Build: lsxBuild},
		Region: lsxRegion{
			ID: "ModuleSettings",
			Node: lsxNode{
				ID: "root",
				Children: &lsxChildren{Nodes: []lsxNode{
					{ID: "Mods", Children: &lsxChildren{Nodes: list}},
				}},
			},
		},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode modsettings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ReadModSettings parses a modsettings.lsx and returns its mods in order.
func ReadModSettings(r io.Reader) ([]mods.ModDescriptor, error) {
	var doc lsxSave
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode modsettings: %w", err)
	}
	var out []mods.ModDescriptor
	if doc.Region.Node.Children == nil {
		return out, nil
	}
	for _, n := range doc.Region.Node.Children.Nodes {
		if n.ID != "Mods" || n.Children == nil {
			continue
		}
		for i, m := range n.Children.Nodes {
			d, err := descriptorFrom(m)
			if err != nil {
				return nil, fmt.Errorf("decode modsettings: mod %d: %w", i, err)
			}
			out = append(out, d)
		}
	}
	return out, nil
}

func descriptorFrom(n lsxNode) (mods.ModDescriptor, error) {
	var d mods.ModDescriptor
	for _, a := range n.Attributes {
		switch a.ID {
		case "Folder":
			d.Folder = a.Value
		case "MD5":
			d.MD5 = a.Value
		case "Name":
			d.Name = a.Value
		case "UUID":
			d.UUID = a.Value
		case "PublishHandle":
			h, err := strconv.ParseUint(a.Value, 10, 64)
			if err != nil {
				return d, fmt.Errorf("publish handle %q: %w", a.Value, err)
			}
			d.PublishHandle = h
		case "Version64", "Version":
			v, err := strconv.ParseInt(a.Value, 10, 64)
			if err != nil {
				return d, fmt.Errorf("version %q: %w", a.Value, err)
			}
			d.Version = mods.Version(v)
		}
	}
	return d, nil
}
