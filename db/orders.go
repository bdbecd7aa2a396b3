package db

import (
	"errors"
	"fmt"

	"bg3-mod-manager/mods"

	"gorm.io/gorm"
)

var (
	ErrLoadOrderNotFound = errors.New("load order not found")
	ErrNoHistory         = errors.New("no archived revision")
)

// SaveProfile inserts or updates p.
func SaveProfile(gdb *gorm.DB, p *mods.Profile) error {
	row := Profile{
		ID:             p.ID,
		Name:           p.Name,
		FolderPath:     p.FolderPath,
		CurrentOrderID: p.CurrentOrderID,
		ModOrder:       p.ModOrder,
	}
	return gdb.Transaction(func(tx *gorm.DB) error {
		var existing Profile
		err := tx.Where("id = ?", p.ID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&row).Error
		} else if err != nil {
			return err
		}
		row.CreatedAt = existing.CreatedAt
		return tx.Save(&row).Error
	})
}

// GetProfile loads the profile called name along with the IDs of its saved
// load orders.
func GetProfile(gdb *gorm.DB, name string) (*mods.Profile, error) {
	var row Profile
	err := gdb.Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("profile %q: %w", name, mods.ErrUnknownProfile)
	} else if err != nil {
		return nil, err
	}

	p := &mods.Profile{
		ID:             row.ID,
		Name:           row.Name,
		FolderPath:     row.FolderPath,
		CurrentOrderID: row.CurrentOrderID,
		ModOrder:       row.ModOrder,
	}
	if err := gdb.Model(&LoadOrder{}).Where("profile_id = ?", row.ID).Order("name").Pluck("id", &p.SavedOrderIDs).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// EnsureProfile returns the named profile, creating it when absent.
func EnsureProfile(gdb *gorm.DB, name, folder string) (*mods.Profile, error) {
	p, err := GetProfile(gdb, name)
	if err == nil {
		if folder != "" && p.FolderPath != folder {
			p.FolderPath = folder
			return p, SaveProfile(gdb, p)
		}
		return p, nil
	}
	if !errors.Is(err, mods.ErrUnknownProfile) {
		return nil, err
	}
	p = mods.NewProfile(name)
	p.FolderPath = folder
	if err := SaveProfile(gdb, p); err != nil {
		return nil, err
	}
	return p, nil
}

func entryRows(o *mods.LoadOrder) []LoadOrderEntry {
	rows := make([]LoadOrderEntry, len(o.Entries))
	for i, e := range o.Entries {
		rows[i] = LoadOrderEntry{LoadOrderID: o.ID, Position: i, UUID: e.UUID, Name: e.Name, Missing: e.Missing}
	}
	return rows
}

// SaveLoadOrder writes o. When a previous revision exists its entries are
// archived first so RollbackLoadOrder can restore them. Marking o current
// clears the flag on the profile's other orders.
func SaveLoadOrder(gdb *gorm.DB, o *mods.LoadOrder) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return gdb.Transaction(func(tx *gorm.DB) error {
		var existing LoadOrder
		err := tx.Preload("Entries", orderByPosition).Where("id = ?", o.ID).First(&existing).Error
		exists := err == nil
		switch {
		case exists:
			if err := archive(tx, &existing); err != nil {
				return err
			}
			if err := tx.Where("load_order_id = ?", o.ID).Delete(&LoadOrderEntry{}).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if o.IsCurrent {
			err := tx.Model(&LoadOrder{}).
				Where("profile_id = ? AND id <> ?", o.ProfileID, o.ID).
				Update("is_current", false).Error
			if err != nil {
				return err
			}
		}

		row := LoadOrder{
			ID:           o.ID,
			Name:         o.Name,
			FilePath:     o.FilePath,
			ProfileID:    o.ProfileID,
			IsCurrent:    o.IsCurrent,
			LastModified: o.LastModified,
			Entries:      entryRows(o),
		}
		if !exists {
			return tx.Create(&row).Error
		}
		return tx.Save(&row).Error
	})
}

func orderByPosition(tx *gorm.DB) *gorm.DB { return tx.Order("position") }

func archive(tx *gorm.DB, existing *LoadOrder) error {
	var revisions int64
	if err := tx.Model(&LoadOrderVersion{}).Where("load_order_id = ?", existing.ID).Count(&revisions).Error; err != nil {
		return err
	}
	snap := make([]SnapshotEntry, len(existing.Entries))
	for i, e := range existing.Entries {
		snap[i] = SnapshotEntry{UUID: e.UUID, Name: e.Name}
	}
	return tx.Create(&LoadOrderVersion{
		LoadOrderID:  existing.ID,
		Revision:     int(revisions) + 1,
		Name:         existing.Name,
		Entries:      snap,
		LastModified: existing.LastModified,
	}).Error
}

func toLoadOrder(row LoadOrder) (*mods.LoadOrder, error) {
	o := &mods.LoadOrder{
		ID:           row.ID,
		Name:         row.Name,
		FilePath:     row.FilePath,
		ProfileID:    row.ProfileID,
		IsCurrent:    row.IsCurrent,
		LastModified: row.LastModified,
	}
	for _, e := range row.Entries {
		o.Entries = append(o.Entries, mods.LoadOrderEntry{UUID: e.UUID, Name: e.Name, Missing: e.Missing})
	}
	return o, o.Validate()
}

// GetLoadOrder loads the order with the given ID.
func GetLoadOrder(gdb *gorm.DB, id string) (*mods.LoadOrder, error) {
	var row LoadOrder
	err := gdb.Preload("Entries", orderByPosition).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", id, ErrLoadOrderNotFound)
	} else if err != nil {
		return nil, err
	}
	return toLoadOrder(row)
}

// FindLoadOrder looks an order up by its name within a profile.
func FindLoadOrder(gdb *gorm.DB, profileID, name string) (*mods.LoadOrder, error) {
	var row LoadOrder
	err := gdb.Preload("Entries", orderByPosition).
		Where("profile_id = ? AND name = ?", profileID, name).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%q: %w", name, ErrLoadOrderNotFound)
	} else if err != nil {
		return nil, err
	}
	return toLoadOrder(row)
}

// ListLoadOrders returns every order owned by the profile, sorted by name.
func ListLoadOrders(gdb *gorm.DB, profileID string) ([]*mods.LoadOrder, error) {
	var rows []LoadOrder
	err := gdb.Preload("Entries", orderByPosition).
		Where("profile_id = ?", profileID).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*mods.LoadOrder, 0, len(rows))
	for _, row := range rows {
		o, err := toLoadOrder(row)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// RollbackLoadOrder replaces the order's entries with its most recent archived
// revision and drops that revision from history.
func RollbackLoadOrder(gdb *gorm.DB, id string) (*mods.LoadOrder, error) {
	var restored *mods.LoadOrder
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var row LoadOrder
		err := tx.Where("id = ?", id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s: %w", id, ErrLoadOrderNotFound)
		} else if err != nil {
			return err
		}

		var prev LoadOrderVersion
		err = tx.Where("load_order_id = ?", id).Order("revision DESC").First(&prev).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load order %q: %w", row.Name, ErrNoHistory)
		} else if err != nil {
			return err
		}

		if err := tx.Where("load_order_id = ?", id).Delete(&LoadOrderEntry{}).Error; err != nil {
			return err
		}
		row.Name = prev.Name
		row.LastModified = prev.LastModified
		row.Entries = make([]LoadOrderEntry, len(prev.Entries))
		for i, e := range prev.Entries {
			row.Entries[i] = LoadOrderEntry{LoadOrderID: id, Position: i, UUID: e.UUID, Name: e.Name}
		}
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&prev).Error; err != nil {
			return err
		}

		restored, err = toLoadOrder(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// History returns the archived revisions of an order, newest first.
func History(gdb *gorm.DB, id string) ([]LoadOrderVersion, error) {
	var out []LoadOrderVersion
	err := gdb.Where("load_order_id = ?", id).Order("revision DESC").Find(&out).Error
	return out, err
}

// SetMissing updates the missing flags of an order's entries in place without
// archiving a revision.
func SetMissing(gdb *gorm.DB, orderID string, missing []string) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&LoadOrderEntry{}).Where("load_order_id = ?", orderID).Update("missing", false).Error
		if err != nil {
			return err
		}
		if len(missing) == 0 {
			return nil
		}
		return tx.Model(&LoadOrderEntry{}).
			Where("load_order_id = ? AND uuid IN ?", orderID, missing).
			Update("missing", true).Error
	})
}
