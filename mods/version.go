package mods

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the game's packed 64-bit mod version.
// Layout: major(9) minor(8) revision(16) build(31).
type Version int64

const (
	majorShift    = 55
	minorShift    = 47
	revisionShift = 31

	majorMask    = 0x1ff
	minorMask    = 0xff
	revisionMask = 0xffff
	buildMask    = 0x7fffffff
)

var componentLimits = [4]int64{majorMask, minorMask, revisionMask, buildMask}

// NewVersion packs the four components into a Version. Components wider
// than their field are truncated; ParseVersion rejects them instead.
func NewVersion(major, minor, revision, build int64) Version {
	return Version((major&majorMask)<<majorShift |
		(minor&minorMask)<<minorShift |
		(revision&revisionMask)<<revisionShift |
		build&buildMask)
}

// Compare orders versions by their unsigned packed value, so majors of 256
// and above sort after smaller ones even though the int64 is negative.
func (v Version) Compare(other Version) int {
	a, b := uint64(v), uint64(other)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

func maxVersion(a, b Version) Version {
	if a.Less(b) {
		return b
	}
	return a
}

func (v Version) Major() int64    { return int64(uint64(v) >> majorShift) }
func (v Version) Minor() int64    { return int64(v>>minorShift) & minorMask }
func (v Version) Revision() int64 { return int64(v>>revisionShift) & revisionMask }
func (v Version) Build() int64    { return int64(v) & buildMask }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major(), v.Minor(), v.Revision(), v.Build())
}

// ParseVersion accepts either a dotted "major.minor.revision.build" string
// (missing trailing parts are zero) or the raw packed integer.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if !strings.Contains(s, ".") {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse version %q: %w", s, err)
		}
		return Version(n), nil
	}
	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return 0, fmt.Errorf("parse version %q: too many components", s)
	}
	var c [4]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse version %q: bad component %q", s, p)
		}
		if n > componentLimits[i] {
			return 0, fmt.Errorf("parse version %q: component %q exceeds %d", s, p, componentLimits[i])
		}
		c[i] = n
	}
	return NewVersion(c[0], c[1], c[2], c[3]), nil
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(b []byte) error {
	parsed, err := ParseVersion(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
