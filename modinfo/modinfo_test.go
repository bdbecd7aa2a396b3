package modinfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bg3-mod-manager/mods"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoJSON = "\xef\xbb\xbf" + `{
  "Mods": [{
    "Author": "Someone",
    "Name": "Better Camp",
    "Folder": "BetterCamp",
    "Version": "36028797018963968",
    "Description": "Camp tweaks",
    "UUID": "4e5f6a7b-1111-2222-3333-444455556666",
    "Dependencies": [
      "aaaaaaaa-0000-0000-0000-000000000001",
      {"UUID": "aaaaaaaa-0000-0000-0000-000000000002", "Name": "Lib", "Version": "1.2.0.0"}
    ],
    "ScriptExtender": {"RequiredVersion": 18, "FeatureFlags": ["Lua"]}
  }],
  "MD5": "d41d8cd98f00b204e9800998ecf8427e"
}`

func TestParseJSON(t *testing.T) {
	f, err := Parse(strings.NewReader(infoJSON), "json")
	require.NoError(t, err)

	recs, warnings, err := f.Records()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, recs, 1)

	r := recs[0]
	assert.Equal(t, "Better Camp", r.Name)
	assert.Equal(t, "1.0.0.0", r.Version.String())
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", r.MD5)
	assert.Equal(t, mods.TypeAddon, r.Type)
	assert.True(t, r.IsUserInstalled)
	require.Len(t, r.Dependencies, 2)
	assert.Equal(t, "aaaaaaaa-0000-0000-0000-000000000001", r.Dependencies[0].UUID)
	assert.Equal(t, "Lib", r.Dependencies[1].Name)
	assert.Equal(t, mods.NewVersion(1, 2, 0, 0), r.Dependencies[1].MinVersion)
	assert.Equal(t, mods.ExtenderRequirement{Required: true, RequiredVersion: 18, Features: []string{"Lua"}}, r.Extender)
}

func TestParseBareNumericVersion(t *testing.T) {
	f, err := Parse(strings.NewReader(`{"Mods":[{"UUID":"x","Name":"X","Version":36028797018963968}]}`), "json")
	require.NoError(t, err)
	recs, warnings, err := f.Records()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0.0", recs[0].Version.String())
	assert.Len(t, warnings, 1, "x is not a well-formed uuid")
}

func TestParseYAML(t *testing.T) {
	doc := `
Mods:
  - Name: Custom Campaign
    UUID: 0f0f0f0f-1111-2222-3333-444455556666
    Type: adventure
    Version: "2.0"
    Dependencies:
      - aaaaaaaa-0000-0000-0000-000000000001
      - UUID: aaaaaaaa-0000-0000-0000-000000000002
        Name: Lib
    Conflicts:
      - bbbbbbbb-0000-0000-0000-000000000001
`
	f, err := Parse(strings.NewReader(doc), "yaml")
	require.NoError(t, err)
	recs, _, err := f.Records()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, mods.TypeAdventure, recs[0].Type)
	assert.Equal(t, "2.0.0.0", recs[0].Version.String())
	assert.Len(t, recs[0].Dependencies, 2)
	assert.Len(t, recs[0].Conflicts, 1)
	assert.False(t, recs[0].Extender.Required)
}

func TestParseLoadFlags(t *testing.T) {
	doc := `
Mods:
  - Name: Merged
    UUID: 11111111-0000-0000-0000-000000000001
    ForceLoaded: true
    ForceLoadedMergedMod: true
  - Name: Allowed
    UUID: 11111111-0000-0000-0000-000000000002
    ForceLoaded: true
    ForceAllowInLoadOrder: true
  - Name: Toolkit Project
    UUID: 11111111-0000-0000-0000-000000000003
    EditorProject: true
`
	f, err := Parse(strings.NewReader(doc), "yaml")
	require.NoError(t, err)
	recs, _, err := f.Records()
	require.NoError(t, err)
	require.Len(t, recs, 3)

	merged, allowed, editor := recs[0], recs[1], recs[2]
	assert.True(t, merged.IsForceLoadedMergedMod)
	assert.True(t, merged.Eligible())
	assert.False(t, merged.AlwaysOn())

	assert.True(t, allowed.ForceAllowInLoadOrder)
	assert.True(t, allowed.Eligible())
	assert.False(t, allowed.AlwaysOn())

	assert.True(t, editor.IsEditorProject)
	assert.False(t, editor.IsForceLoaded)

	f, err = Parse(strings.NewReader(`{"Mods":[{"UUID":"x","ForceLoaded":true,"ForceLoadedMergedMod":true,"EditorProject":true}]}`), "json")
	require.NoError(t, err)
	recs, _, err = f.Records()
	require.NoError(t, err)
	assert.True(t, recs[0].IsForceLoadedMergedMod)
	assert.True(t, recs[0].IsEditorProject)
	assert.False(t, recs[0].ForceAllowInLoadOrder)
}

func TestRecordsRejectEmptyUUIDs(t *testing.T) {
	doc := `{"Mods":[
		{"Name":"no uuid"},
		{"Name":"bad dep","UUID":"a","Dependencies":[""]},
		{"Name":"ok","UUID":"b"}
	]}`
	f, err := Parse(strings.NewReader(doc), "json")
	require.NoError(t, err)
	recs, _, err := f.Records()
	require.ErrorIs(t, err, mods.ErrEmptyUUID)
	require.Len(t, recs, 1)
	assert.Equal(t, "ok", recs[0].Name)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"Mods":[]}`), "json")
	require.ErrorIs(t, err, ErrNoMods)

	_, err = Parse(strings.NewReader(`{`), "json")
	require.Error(t, err)

	_, err = Parse(strings.NewReader(`x`), "toml")
	require.Error(t, err)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "BetterCamp.json")
	require.NoError(t, os.WriteFile(path, []byte(infoJSON), 0644))

	f, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Mods, 1)

	_, err = ParseFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	assert.True(t, IsMetadataFile(path))
	assert.True(t, IsMetadataFile("x.YAML"))
	assert.False(t, IsMetadataFile("x.pak"))
}
