package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bg3-mod-manager/config"
	"bg3-mod-manager/db"
	"bg3-mod-manager/export"
	"bg3-mod-manager/logger"
	"bg3-mod-manager/mods"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultOrderName names the order created for a profile that has none.
const defaultOrderName = "Current"

// session is the state every command works on.
type session struct {
	cfg     config.Config
	db      *gorm.DB
	catalog *mods.Catalog
	profile *mods.Profile
	log     *zap.SugaredLogger
}

// openSession loads config, opens the database and reads the stored catalog
// and profile.
func openSession(path string) (*session, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return openSessionWith(cfg)
}

func openSessionWith(cfg config.Config) (*session, error) {
	if err := db.InitDatabase(cfg.DatabasePath); err != nil {
		return nil, err
	}
	logger.Log.Infow("Database initialized", zap.String("path", cfg.DatabasePath))

	catalog, err := db.LoadCatalog(db.DB)
	if err != nil {
		return nil, err
	}
	profile, err := db.EnsureProfile(db.DB, cfg.Profile, cfg.ProfileDir)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:     cfg,
		db:      db.DB,
		catalog: catalog,
		profile: profile,
		log:     logger.Log.With(zap.String("profile", profile.Name)),
	}, nil
}

// bootstrap handles shared initialization logic for commands.
func bootstrap(path string) *session {
	s, err := openSession(path)
	if err != nil {
		logger.Log.Fatalw("Failed to start", zap.Error(err))
	}
	return s
}

func (s *session) close() {
	if err := db.Close(s.db); err != nil {
		s.log.Warnw("Failed to close database", zap.Error(err))
	}
}

func (s *session) resolver() *mods.Resolver {
	return mods.NewResolver(s.catalog, s.cfg.IgnoreSet(),
		mods.WithExtender(s.cfg.ExtenderStatus()),
		mods.WithLogger(s.log),
	)
}

func (s *session) resolve(o *mods.LoadOrder) (*mods.ResolvedOrder, error) {
	return s.resolver().Resolve(s.profile, o, s.cfg.AdventureMod)
}

// modSettingsPath is where the game reads the active load order from.
func (s *session) modSettingsPath() string {
	return filepath.Join(s.cfg.ProfileDir, "modsettings.lsx")
}

// currentOrder returns the profile's current load order. A profile without
// one gets a new order seeded from the game's modsettings.lsx when present.
func (s *session) currentOrder() (*mods.LoadOrder, error) {
	if s.profile.CurrentOrderID != "" {
		o, err := db.GetLoadOrder(s.db, s.profile.CurrentOrderID)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, db.ErrLoadOrderNotFound) {
			return nil, err
		}
		s.log.Warnw("Current load order is gone, starting a new one", zap.String("order_id", s.profile.CurrentOrderID))
	}

	seed := s.profile.ModOrder
	if fromGame, err := s.readGameOrder(); err != nil {
		s.log.Debugw("No usable modsettings.lsx", zap.Error(err))
	} else if len(fromGame) > 0 {
		seed = fromGame
	}

	o, err := mods.LoadOrderFrom(defaultOrderName, seed, s.catalog)
	if err != nil {
		return nil, err
	}
	if err := s.saveOrder(o, true); err != nil {
		return nil, err
	}
	return o, nil
}

// readGameOrder reads the user-ordered UUIDs from modsettings.lsx. Publisher
// and always-on mods are dropped since they are never manually ordered.
func (s *session) readGameOrder() ([]string, error) {
	f, err := os.Open(s.modSettingsPath())
	if err != nil {
		return nil, err
	}
	defer f.Close()

	descs, err := export.ReadModSettings(f)
	if err != nil {
		return nil, err
	}
	ignore := s.cfg.IgnoreSet()
	var out []string
	for i, d := range descs {
		if strings.TrimSpace(d.UUID) == "" {
			s.log.Warnw("Skipping modsettings entry without a UUID", zap.Int("position", i), zap.String("name", d.Name))
			continue
		}
		if ignore.Has(d.UUID) {
			continue
		}
		if m, ok := s.catalog.Get(d.UUID); ok && (m.AlwaysOn() || m.Type == mods.TypeAdventure) {
			continue
		}
		out = append(out, d.UUID)
	}
	return out, nil
}

// saveOrder stores o for the session profile. makeCurrent also points the
// profile at it.
func (s *session) saveOrder(o *mods.LoadOrder, makeCurrent bool) error {
	o.ProfileID = s.profile.ID
	if makeCurrent {
		o.IsCurrent = true
	}
	if err := db.SaveLoadOrder(s.db, o); err != nil {
		return fmt.Errorf("failed to save load order %q: %w", o.Name, err)
	}
	if makeCurrent && s.profile.CurrentOrderID != o.ID {
		s.profile.CurrentOrderID = o.ID
		if err := db.SaveProfile(s.db, s.profile); err != nil {
			return err
		}
	}
	return nil
}

// findMod looks a mod up by exact UUID, then by case-insensitive name or
// folder.
func findMod(c *mods.Catalog, key string) (*mods.ModRecord, error) {
	if m, ok := c.Get(key); ok {
		return m, nil
	}
	var found []*mods.ModRecord
	for m := range c.All() {
		if strings.EqualFold(m.Name, key) || strings.EqualFold(m.Folder, key) {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%q: %w", key, mods.ErrModNotFound)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d mods, use the UUID", key, len(found))
	}
}

// parsePosition turns a 1-based CLI position into a 0-based index.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("position %q must be a number starting at 1", s)
	}
	return n - 1, nil
}
