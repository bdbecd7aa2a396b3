package mods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partitionCatalog() *Catalog {
	forced := mod("f", "Forced")
	forced.IsForceLoaded = true
	merged := mod("m", "Merged")
	merged.IsForceLoaded = true
	merged.IsForceLoadedMergedMod = true
	allowed := mod("w", "Allowed")
	allowed.IsForceLoaded = true
	allowed.ForceAllowInLoadOrder = true
	hidden := mod("h", "Hidden")
	hidden.IsHidden = true
	camp := mod("camp", "Campaign")
	camp.Type = TypeAdventure

	return catalogOf(mod("a", "Alpha"), mod("b", "Beta"), mod("c", "Charlie"), forced, merged, allowed, hidden, camp)
}

func assertContiguous(t *testing.T, views []ModView) {
	t.Helper()
	for i, v := range views {
		assert.Equal(t, i, v.Index, v.Mod.UUID)
	}
}

func TestPartitionCompute(t *testing.T) {
	c := partitionCatalog()
	o := orderOf("c", "f", "missing", "m", "a")
	part := NewPartitioner(c, o).Compute()

	assert.Equal(t, []string{"c", "m", "a"}, UUIDs(part.Active))
	assert.Equal(t, []string{"w", "b"}, UUIDs(part.Inactive))
	assert.Contains(t, UUIDs(part.ForceLoaded), "f")
	assert.Contains(t, UUIDs(part.ForceLoaded), GustavDevUUID)
	assertContiguous(t, part.Active)
	assertContiguous(t, part.Inactive)
	assertContiguous(t, part.ForceLoaded)
}

func TestPartitionCompleteness(t *testing.T) {
	c := partitionCatalog()
	part := NewPartitioner(c, orderOf("b", "a")).Compute()

	seen := map[string]int{}
	for _, list := range [][]ModView{part.Active, part.Inactive, part.ForceLoaded} {
		for _, v := range list {
			seen[v.Mod.UUID]++
		}
	}
	for m := range c.All() {
		want := 0
		if m.Eligible() || m.AlwaysOn() {
			want = 1
		}
		assert.Equal(t, want, seen[m.UUID], m.UUID)
	}
	assert.Zero(t, seen["h"])
	assert.Zero(t, seen["camp"])
}

func TestPartitionerActivateDeactivate(t *testing.T) {
	c := partitionCatalog()
	p := NewPartitioner(c, orderOf("a", "b"))

	part, err := p.Activate("c", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, UUIDs(part.Active))
	assertContiguous(t, part.Active)

	part, err = p.Activate("w", -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b", "w"}, UUIDs(part.Active))
	assert.Equal(t, []string{"m"}, UUIDs(part.Inactive))

	part, err = p.Deactivate("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "w"}, UUIDs(part.Active))
	assert.Equal(t, []string{"c", "m"}, UUIDs(part.Inactive))
	assertContiguous(t, part.Active)

	_, err = p.Activate("f", 0)
	require.ErrorIs(t, err, ErrNotEligible)
	_, err = p.Activate("camp", 0)
	require.ErrorIs(t, err, ErrNotEligible)
	_, err = p.Activate("nope", 0)
	require.ErrorIs(t, err, ErrModNotFound)
	_, err = p.Deactivate("c")
	require.ErrorIs(t, err, ErrModNotFound)
}

func TestPartitionerActivateExistingMoves(t *testing.T) {
	p := NewPartitioner(partitionCatalog(), orderOf("a", "b", "c"))
	part, err := p.Activate("c", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, UUIDs(part.Active))
	assert.Len(t, p.Order().Entries, 3)
}

func TestPartitionerMove(t *testing.T) {
	c := partitionCatalog()
	p := NewPartitioner(c, orderOf("a", "missing", "b", "c"))

	part, err := p.Move("a", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, UUIDs(part.Active))
	assert.Equal(t, []string{"missing", "b", "c", "a"}, p.Order().UUIDs())
	assertContiguous(t, part.Active)

	part, err = p.Move("a", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, UUIDs(part.Active))
	assertContiguous(t, part.Active)

	_, err = p.Move("a", 3)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = p.Move("w", 0)
	require.ErrorIs(t, err, ErrModNotFound)
}
