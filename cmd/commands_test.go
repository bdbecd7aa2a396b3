package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"bg3-mod-manager/db"
	"bg3-mod-manager/export"
	"bg3-mod-manager/mods"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// importedSession returns a session whose catalog holds Alpha (needs Beta),
// Beta and Gamma, with Alpha and Beta active.
func importedSession(t *testing.T) *session {
	t.Helper()
	cfg := testConfig(t)
	writeMod(t, cfg.ModsDir, "mod-a", "Alpha", "1.0.0.0", "mod-b")
	writeMod(t, cfg.ModsDir, "mod-b", "Beta", "1.0.0.0")
	writeMod(t, cfg.ModsDir, "mod-c", "Gamma", "1.0.0.0")

	s := testSession(t, cfg)
	_, err := runImport(s, nil)
	require.NoError(t, err)

	for _, name := range []string{"Beta", "Alpha"} {
		require.NoError(t, editOrder(s, func(p *mods.Partitioner, m *mods.ModRecord) error {
			_, err := p.Activate(m.UUID, -1)
			return err
		}, name))
	}
	return s
}

func TestRunStatus(t *testing.T) {
	s := importedSession(t)

	var out bytes.Buffer
	require.NoError(t, runStatus(s, &out))
	text := out.String()
	assert.Contains(t, text, "Active (2)")
	assert.Contains(t, text, "Inactive (1)")
	assert.Contains(t, text, "Gamma")
	assert.Contains(t, text, "No missing mods")
}

func TestRunResolveStrict(t *testing.T) {
	s := importedSession(t)

	var out bytes.Buffer
	require.NoError(t, runResolve(s, &out, true))
	assert.Contains(t, out.String(), "Resolved order (3)")

	// Beta leaves the order while Alpha still needs it.
	require.NoError(t, editOrder(s, func(p *mods.Partitioner, m *mods.ModRecord) error {
		_, err := p.Deactivate(m.UUID)
		return err
	}, "mod-b"))

	out.Reset()
	err := runResolve(s, &out, true)
	require.ErrorIs(t, err, errReportNotEmpty)
	assert.Contains(t, out.String(), "Inactive dependencies")
	require.NoError(t, runResolve(s, &out, false))
}

func TestRunResolveFlagsMissingEntries(t *testing.T) {
	s := importedSession(t)
	o, err := s.currentOrder()
	require.NoError(t, err)
	_, err = o.Add(mods.LoadOrderEntry{UUID: "ghost", Name: "Ghost"}, false)
	require.NoError(t, err)
	require.NoError(t, s.saveOrder(o, true))

	var out bytes.Buffer
	require.NoError(t, runResolve(s, &out, false))
	assert.Contains(t, out.String(), "Ghost")

	stored, err := db.GetLoadOrder(s.db, o.ID)
	require.NoError(t, err)
	require.Len(t, stored.Entries, 3)
	assert.True(t, stored.Entries[2].Missing)
	assert.False(t, stored.Entries[0].Missing)
}

func TestRunExport(t *testing.T) {
	s := importedSession(t)

	t.Run("json to stdout keeps user order", func(t *testing.T) {
		var out bytes.Buffer
		path, err := runExport(s, exportOptions{format: "json", stdout: &out})
		require.NoError(t, err)
		assert.Empty(t, path)

		var doc struct {
			Order []mods.ModDescriptor `json:"order"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
		assert.Equal(t, []string{"mod-b", "mod-a"}, mods.ToUUIDs(doc.Order))
	})

	t.Run("lsx replaces modsettings", func(t *testing.T) {
		path, err := runExport(s, exportOptions{format: "lsx"})
		require.NoError(t, err)
		assert.Equal(t, s.modSettingsPath(), path)

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		descs, err := export.ReadModSettings(f)
		require.NoError(t, err)
		assert.Equal(t, []string{mods.GustavDevUUID, "mod-b", "mod-a"}, mods.ToUUIDs(descs))
		assert.Equal(t, mods.ToUUIDs(descs), s.profile.ModOrder)
	})

	t.Run("tsv to file", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "order.tsv")
		path, err := runExport(s, exportOptions{format: "tsv", out: target})
		require.NoError(t, err)
		assert.Equal(t, target, path)
		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Contains(t, string(data), "mod-a")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := runExport(s, exportOptions{format: "xml", out: filepath.Join(t.TempDir(), "x")})
		assert.Error(t, err)
	})
}

func TestOrderCommands(t *testing.T) {
	s := importedSession(t)
	first := s.profile.CurrentOrderID

	require.NoError(t, newOrder(s, "Copy", true))
	copied, err := s.currentOrder()
	require.NoError(t, err)
	assert.Equal(t, "Copy", copied.Name)
	assert.Equal(t, []string{"mod-b", "mod-a"}, copied.UUIDs())
	assert.Error(t, newOrder(s, "Copy", false), "names are unique per profile")

	require.NoError(t, useOrder(s, defaultOrderName))
	assert.Equal(t, first, s.profile.CurrentOrderID)

	var out bytes.Buffer
	require.NoError(t, listOrders(s, &out))
	assert.Contains(t, out.String(), "Copy")
	assert.Contains(t, out.String(), defaultOrderName)

	require.NoError(t, editOrder(s, func(p *mods.Partitioner, m *mods.ModRecord) error {
		_, err := p.Move(m.UUID, 0)
		return err
	}, "Alpha"))
	cur, err := s.currentOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"mod-a", "mod-b"}, cur.UUIDs())
}

func TestRollbackOrder(t *testing.T) {
	s := importedSession(t)

	require.NoError(t, editOrder(s, func(p *mods.Partitioner, m *mods.ModRecord) error {
		_, err := p.Activate(m.UUID, 0)
		return err
	}, "Gamma"))
	cur, err := s.currentOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"mod-c", "mod-b", "mod-a"}, cur.UUIDs())

	require.NoError(t, rollbackOrder(s, ""))
	cur, err = s.currentOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"mod-b", "mod-a"}, cur.UUIDs())

	require.NoError(t, rollbackOrder(s, defaultOrderName))
	cur, err = s.currentOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"mod-b"}, cur.UUIDs())

	assert.Error(t, rollbackOrder(s, "nope"))
}
