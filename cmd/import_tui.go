package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"bg3-mod-manager/ui"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ImportModel controls the UI for the import command
type ImportModel struct {
	spinner      spinner.Model
	progressChan chan ImportProgressMsg
	run          func(progress func(ImportProgressMsg)) error

	// State
	status   string
	recent   []string
	problems []string
	summary  string
	done     bool

	// Counters
	parsed int
	total  int
}

func initialImportModel(run func(progress func(ImportProgressMsg)) error) ImportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ImportModel{
		spinner:      s,
		progressChan: make(chan ImportProgressMsg, 100),
		run:          run,
		status:       "Initializing...",
	}
}

func (m ImportModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startImport(),
		m.waitForActivity(),
	)
}

func (m ImportModel) startImport() tea.Cmd {
	return func() tea.Msg {
		go func() {
			defer close(m.progressChan)
			if m.run == nil {
				return
			}
			if err := m.run(func(msg ImportProgressMsg) { m.progressChan <- msg }); err != nil {
				m.progressChan <- ImportProgressMsg{Type: "error", Message: err.Error()}
			}
		}()
		return nil
	}
}

func (m ImportModel) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.progressChan
		if !ok {
			return ImportProgressMsg{Type: "done"}
		}
		return msg
	}
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" || m.done {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ImportProgressMsg:
		switch msg.Type {
		case "done":
			m.done = true
			m.status = "Finished"
			return m, tea.Quit

		case "status":
			m.status = msg.Message

		case "parsed":
			m.parsed = msg.Done
			m.total = msg.Total
			m.status = fmt.Sprintf("Parsed %d/%d metadata files", msg.Done, msg.Total)
			m.recent = append(m.recent, filepath.Base(msg.Path))
			if len(m.recent) > 5 {
				m.recent = m.recent[len(m.recent)-5:]
			}

		case "warning", "duplicate", "error":
			m.problems = append(m.problems, msg.Message)

		case "summary":
			m.summary = msg.Message
		}

		return m, m.waitForActivity()
	}

	return m, nil
}

func (m ImportModel) View() string {
	var symbol string
	if m.done {
		symbol = ui.OKStyle.Render("✓")
	} else {
		symbol = m.spinner.View()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n %s %s\n\n", symbol, m.status)

	if len(m.recent) > 0 && !m.done {
		b.WriteString(ui.HeadingStyle.Render("Recently parsed:") + "\n")
		for _, r := range m.recent {
			fmt.Fprintf(&b, "  • %s\n", r)
		}
		b.WriteString("\n")
	}

	if len(m.problems) > 0 {
		b.WriteString(ui.WarnStyle.Render("Problems:") + "\n")
		for _, p := range m.problems {
			fmt.Fprintf(&b, "  • %s\n", p)
		}
		b.WriteString("\n")
	}

	if m.summary != "" {
		b.WriteString(m.summary + "\n")
	}
	if m.done {
		b.WriteString(ui.MutedStyle.Render("Press any key to exit") + "\n")
	}
	return b.String()
}
