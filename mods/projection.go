package mods

// ProjectionMode selects which resolved mods a projection keeps.
type ProjectionMode int

const (
	// ProjectFull keeps every resolved mod, always-on mods included. It feeds
	// the game's own settings file.
	ProjectFull ProjectionMode = iota
	// ProjectUserOrder drops always-on mods. It feeds shareable order files.
	ProjectUserOrder
)

func (m ProjectionMode) String() string {
	if m == ProjectUserOrder {
		return "user-order"
	}
	return "full"
}

// ModDescriptor is the minimal external description of a mod.
type ModDescriptor struct {
	Folder        string  `json:"folder" yaml:"folder"`
	MD5           string  `json:"md5" yaml:"md5"`
	Name          string  `json:"name" yaml:"name"`
	UUID          string  `json:"uuid" yaml:"uuid"`
	Version       Version `json:"version" yaml:"version"`
	PublishHandle uint64  `json:"publishHandle" yaml:"publishHandle"`
}

// Project maps a resolved order to descriptors. It is a pure function of r.
func Project(r *ResolvedOrder, mode ProjectionMode) []ModDescriptor {
	out := make([]ModDescriptor, 0, len(r.Mods))
	for _, m := range r.Mods {
		if mode == ProjectUserOrder && m.AlwaysOn() {
			continue
		}
		out = append(out, Describe(m))
	}
	return out
}

// Describe returns the descriptor for a single record.
func Describe(m *ModRecord) ModDescriptor {
	return ModDescriptor{
		Folder:        m.Folder,
		MD5:           m.MD5,
		Name:          m.DisplayName(),
		UUID:          m.UUID,
		Version:       m.Version,
		PublishHandle: m.PublishHandle,
	}
}

// ToUUIDs returns the UUIDs of descriptors in order.
func ToUUIDs(descs []ModDescriptor) []string {
	out := make([]string, len(descs))
	for i, d := range descs {
		out[i] = d.UUID
	}
	return out
}
