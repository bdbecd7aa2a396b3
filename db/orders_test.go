package db

import (
	"testing"

	"bg3-mod-manager/mods"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, profileID, name string, uuids ...string) *mods.LoadOrder {
	t.Helper()
	o, err := mods.LoadOrderFrom(name, uuids, nil)
	require.NoError(t, err)
	o.ProfileID = profileID
	return o
}

func TestEnsureProfile(t *testing.T) {
	gdb := setupDB(t)

	_, err := GetProfile(gdb, "Public")
	require.ErrorIs(t, err, mods.ErrUnknownProfile)

	p, err := EnsureProfile(gdb, "Public", "/profiles/Public")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	again, err := EnsureProfile(gdb, "Public", "")
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, "/profiles/Public", again.FolderPath)

	again.ModOrder = []string{"a", "b"}
	again.CurrentOrderID = "order-1"
	require.NoError(t, SaveProfile(gdb, again))

	loaded, err := GetProfile(gdb, "Public")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, loaded.ModOrder)
	assert.Equal(t, "order-1", loaded.CurrentOrderID)
}

func TestSaveAndListLoadOrders(t *testing.T) {
	gdb := setupDB(t)
	p, err := EnsureProfile(gdb, "Public", "")
	require.NoError(t, err)

	first := newOrder(t, p.ID, "Zeta", "a", "b", "c")
	first.IsCurrent = true
	require.NoError(t, SaveLoadOrder(gdb, first))

	second := newOrder(t, p.ID, "Alpha", "c", "a")
	second.IsCurrent = true
	require.NoError(t, SaveLoadOrder(gdb, second))

	orders, err := ListLoadOrders(gdb, p.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "Alpha", orders[0].Name)
	assert.Equal(t, []string{"c", "a"}, orders[0].UUIDs())
	assert.True(t, orders[0].IsCurrent)
	assert.False(t, orders[1].IsCurrent, "only one order per profile is current")

	found, err := FindLoadOrder(gdb, p.ID, "Zeta")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, []string{"a", "b", "c"}, found.UUIDs())

	reloaded, err := GetProfile(gdb, "Public")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, reloaded.SavedOrderIDs)

	_, err = GetLoadOrder(gdb, "nope")
	require.ErrorIs(t, err, ErrLoadOrderNotFound)
}

func TestRollbackLoadOrder(t *testing.T) {
	gdb := setupDB(t)

	o := newOrder(t, "", "Main", "a", "b")
	require.NoError(t, SaveLoadOrder(gdb, o))

	_, err := RollbackLoadOrder(gdb, o.ID)
	require.ErrorIs(t, err, ErrNoHistory)

	require.NoError(t, o.Move("b", 0))
	require.NoError(t, SaveLoadOrder(gdb, o))
	_, err = o.Add(mods.LoadOrderEntry{UUID: "c"}, false)
	require.NoError(t, err)
	require.NoError(t, SaveLoadOrder(gdb, o))

	history, err := History(gdb, o.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Revision)

	restored, err := RollbackLoadOrder(gdb, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, restored.UUIDs())

	restored, err = RollbackLoadOrder(gdb, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, restored.UUIDs())

	current, err := GetLoadOrder(gdb, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, current.UUIDs())

	_, err = RollbackLoadOrder(gdb, o.ID)
	require.ErrorIs(t, err, ErrNoHistory)
}

func TestSaveLoadOrderRejectsBlankEntries(t *testing.T) {
	gdb := setupDB(t)
	o := mods.NewLoadOrder("Broken")
	o.Entries = append(o.Entries, mods.LoadOrderEntry{UUID: " "})
	require.ErrorIs(t, SaveLoadOrder(gdb, o), mods.ErrEmptyUUID)
}

func TestSetMissingKeepsHistory(t *testing.T) {
	gdb := setupDB(t)

	o := newOrder(t, "", "Main", "a", "b", "c")
	require.NoError(t, SaveLoadOrder(gdb, o))
	require.NoError(t, SetMissing(gdb, o.ID, []string{"b"}))

	got, err := GetLoadOrder(gdb, o.ID)
	require.NoError(t, err)
	assert.False(t, got.Entries[0].Missing)
	assert.True(t, got.Entries[1].Missing)

	require.NoError(t, SetMissing(gdb, o.ID, nil))
	got, err = GetLoadOrder(gdb, o.ID)
	require.NoError(t, err)
	assert.False(t, got.Entries[1].Missing)

	history, err := History(gdb, o.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
