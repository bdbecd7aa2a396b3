package cmd

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportModelProgress(t *testing.T) {
	m := initialImportModel(nil)

	steps := []ImportProgressMsg{
		{Type: "status", Message: "Scanning"},
		{Type: "parsed", Path: "/mods/Alpha.json", Done: 1, Total: 2},
		{Type: "duplicate", Message: "duplicate mod a"},
		{Type: "parsed", Path: "/mods/Beta.json", Done: 2, Total: 2},
		{Type: "summary", Message: "Imported 1 mods"},
	}
	for _, s := range steps {
		next, cmd := m.Update(s)
		m = next.(ImportModel)
		assert.NotNil(t, cmd, "keeps listening after %s", s.Type)
	}

	assert.Equal(t, 2, m.parsed)
	assert.Equal(t, []string{"Alpha.json", "Beta.json"}, m.recent)
	assert.Equal(t, []string{"duplicate mod a"}, m.problems)
	assert.Contains(t, m.View(), "Imported 1 mods")

	next, cmd := m.Update(ImportProgressMsg{Type: "done"})
	m = next.(ImportModel)
	assert.True(t, m.done)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestImportModelRunsImport(t *testing.T) {
	m := initialImportModel(func(progress func(ImportProgressMsg)) error {
		progress(ImportProgressMsg{Type: "status", Message: "working"})
		return errors.New("boom")
	})

	assert.Nil(t, m.startImport()())
	wait := m.waitForActivity()
	assert.Equal(t, ImportProgressMsg{Type: "status", Message: "working"}, wait())
	assert.Equal(t, ImportProgressMsg{Type: "error", Message: "boom"}, wait())
	assert.Equal(t, ImportProgressMsg{Type: "done"}, wait())
}
