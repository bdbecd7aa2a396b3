package db

import (
	"time"

	"gorm.io/gorm"
)

// Ref kinds stored in ModRef.Kind.
const (
	RefDependency = "dependency"
	RefConflict   = "conflict"
)

// Mod is an installed mod as last seen by an import.
type Mod struct {
	gorm.Model
	UUID          string `gorm:"uniqueIndex"`
	Name          string
	Folder        string
	Version       int64 // packed game version
	Author        string
	Description   string
	Type          string
	MD5           string
	PublishHandle uint64
	FilePath      string
	Tags          []string `gorm:"serializer:json"`

	IsForceLoaded          bool
	IsForceLoadedMergedMod bool
	ForceAllowInLoadOrder  bool
	IsHidden               bool
	IsEditorProject        bool
	IsUserInstalled        bool

	ExtenderRequired bool
	ExtenderVersion  int
	ExtenderFeatures []string `gorm:"serializer:json"`

	Refs []ModRef `gorm:"foreignKey:ModID"`
}

// ModRef is a declared dependency or conflict edge of a Mod.
type ModRef struct {
	ID         uint `gorm:"primarykey"`
	ModID      uint `gorm:"index"`
	Kind       string
	Position   int
	UUID       string
	Name       string
	Folder     string
	MinVersion int64
}

// Profile is a save-game profile.
type Profile struct {
	ID             string `gorm:"primaryKey"`
	Name           string `gorm:"uniqueIndex"`
	FolderPath     string
	CurrentOrderID string
	ModOrder       []string `gorm:"serializer:json"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LoadOrder is the current revision of a saved load order.
type LoadOrder struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	FilePath     string
	ProfileID    string `gorm:"index"`
	IsCurrent    bool
	LastModified time.Time
	Entries      []LoadOrderEntry `gorm:"foreignKey:LoadOrderID"`
}

// LoadOrderEntry is one position of a LoadOrder.
type LoadOrderEntry struct {
	ID          uint   `gorm:"primarykey"`
	LoadOrderID string `gorm:"index"`
	Position    int
	UUID        string
	Name        string
	Missing     bool
}

// LoadOrderVersion is an archived revision of a LoadOrder, written every time
// the order is overwritten so it can be rolled back.
type LoadOrderVersion struct {
	gorm.Model
	LoadOrderID  string `gorm:"index"`
	Revision     int
	Name         string
	Entries      []SnapshotEntry `gorm:"serializer:json"`
	LastModified time.Time
}

// SnapshotEntry is the archived form of a LoadOrderEntry.
type SnapshotEntry struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}
