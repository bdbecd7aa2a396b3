package db

import (
	"errors"
	"fmt"

	"bg3-mod-manager/mods"

	"gorm.io/gorm"
)

func modFromRecord(r *mods.ModRecord) Mod {
	m := Mod{
		UUID:                   r.UUID,
		Name:                   r.Name,
		Folder:                 r.Folder,
		Version:                int64(r.Version),
		Author:                 r.Author,
		Description:            r.Description,
		Type:                   string(r.Type),
		MD5:                    r.MD5,
		PublishHandle:          r.PublishHandle,
		FilePath:               r.FilePath,
		Tags:                   r.Tags,
		IsForceLoaded:          r.IsForceLoaded,
		IsForceLoadedMergedMod: r.IsForceLoadedMergedMod,
		ForceAllowInLoadOrder:  r.ForceAllowInLoadOrder,
		IsHidden:               r.IsHidden,
		IsEditorProject:        r.IsEditorProject,
		IsUserInstalled:        r.IsUserInstalled,
		ExtenderRequired:       r.Extender.Required,
		ExtenderVersion:        r.Extender.RequiredVersion,
		ExtenderFeatures:       r.Extender.Features,
	}
	for i, d := range r.Dependencies {
		m.Refs = append(m.Refs, refFromModule(RefDependency, i, d))
	}
	for i, c := range r.Conflicts {
		m.Refs = append(m.Refs, refFromModule(RefConflict, i, c))
	}
	return m
}

func refFromModule(kind string, pos int, ref mods.ModuleRef) ModRef {
	return ModRef{
		Kind:       kind,
		Position:   pos,
		UUID:       ref.UUID,
		Name:       ref.Name,
		Folder:     ref.Folder,
		MinVersion: int64(ref.MinVersion),
	}
}

// Record converts the row back into a catalog record. Refs must be preloaded
// in position order.
func (m Mod) Record() mods.ModRecord {
	r := mods.ModRecord{
		UUID:                   m.UUID,
		Name:                   m.Name,
		Folder:                 m.Folder,
		Version:                mods.Version(m.Version),
		Author:                 m.Author,
		Description:            m.Description,
		Type:                   mods.ModType(m.Type),
		MD5:                    m.MD5,
		PublishHandle:          m.PublishHandle,
		FilePath:               m.FilePath,
		Tags:                   m.Tags,
		IsForceLoaded:          m.IsForceLoaded,
		IsForceLoadedMergedMod: m.IsForceLoadedMergedMod,
		ForceAllowInLoadOrder:  m.ForceAllowInLoadOrder,
		IsHidden:               m.IsHidden,
		IsEditorProject:        m.IsEditorProject,
		IsUserInstalled:        m.IsUserInstalled,
		Extender: mods.ExtenderRequirement{
			Required:        m.ExtenderRequired,
			RequiredVersion: m.ExtenderVersion,
			Features:        m.ExtenderFeatures,
		},
	}
	for _, ref := range m.Refs {
		mr := mods.ModuleRef{UUID: ref.UUID, Name: ref.Name, Folder: ref.Folder, MinVersion: mods.Version(ref.MinVersion)}
		switch ref.Kind {
		case RefDependency:
			r.Dependencies = append(r.Dependencies, mr)
		case RefConflict:
			r.Conflicts = append(r.Conflicts, mr)
		}
	}
	return r
}

// UpsertMod inserts or replaces the row for rec, keyed by UUID.
func UpsertMod(gdb *gorm.DB, rec *mods.ModRecord) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		return upsertMod(tx, rec)
	})
}

func upsertMod(tx *gorm.DB, rec *mods.ModRecord) error {
	m := modFromRecord(rec)

	var existing Mod
	err := tx.Where("uuid = ?", rec.UUID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(&m).Error
	case err != nil:
		return fmt.Errorf("failed to look up mod %s: %w", rec.UUID, err)
	}

	if err := tx.Where("mod_id = ?", existing.ID).Delete(&ModRef{}).Error; err != nil {
		return fmt.Errorf("failed to clear refs of %s: %w", rec.UUID, err)
	}
	m.ID = existing.ID
	m.CreatedAt = existing.CreatedAt
	return tx.Save(&m).Error
}

// DeleteMod removes the row and refs for uuid. Missing rows are not an error.
func DeleteMod(gdb *gorm.DB, uuid string) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var existing Mod
		err := tx.Where("uuid = ?", uuid).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		if err := tx.Where("mod_id = ?", existing.ID).Delete(&ModRef{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&existing).Error
	})
}

// SaveCatalog makes the mods table mirror c. Publisher mods are not stored;
// NewCatalog seeds them on load.
func SaveCatalog(gdb *gorm.DB, c *mods.Catalog) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		keep := make(map[string]bool, c.Len())
		for rec := range c.All() {
			if mods.IsBuiltin(rec.UUID) {
				continue
			}
			keep[rec.UUID] = true
			if err := upsertMod(tx, rec); err != nil {
				return err
			}
		}

		var stored []string
		if err := tx.Model(&Mod{}).Pluck("uuid", &stored).Error; err != nil {
			return err
		}
		for _, u := range stored {
			if keep[u] {
				continue
			}
			var gone Mod
			if err := tx.Where("uuid = ?", u).First(&gone).Error; err != nil {
				return err
			}
			if err := tx.Where("mod_id = ?", gone.ID).Delete(&ModRef{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Delete(&gone).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadCatalog rebuilds a catalog from the stored mods.
func LoadCatalog(gdb *gorm.DB) (*mods.Catalog, error) {
	var rows []Mod
	err := gdb.Preload("Refs", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("kind, position")
	}).Order("id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load mods: %w", err)
	}

	c := mods.NewCatalog()
	for _, row := range rows {
		if _, err := c.Add(row.Record()); err != nil {
			return nil, err
		}
	}
	return c, nil
}
