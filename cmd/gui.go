package cmd

import (
	"fmt"
	"strings"
	"time"

	"bg3-mod-manager/mods"
	"bg3-mod-manager/ui"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// guiCmd represents the gui command
var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Edit the current load order interactively",
	Long:  `Launch an interactive TUI to activate, deactivate and reorder mods in the current load order.`,
	Run: func(_ *cobra.Command, _ []string) {
		runGUI()
	},
}

func init() {
	rootCmd.AddCommand(guiCmd)
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Switch   key.Binding
	Toggle   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Save     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Toggle, k.MoveUp, k.MoveDown, k.Save, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Switch:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch list")),
	Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("space", "(de)activate")),
	MoveUp:   key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move up")),
	MoveDown: key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move down")),
	Save:     key.NewBinding(key.WithKeys("ctrl+s", "s"), key.WithHelp("s", "save")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
}

type pane int

const (
	activePane pane = iota
	inactivePane
)

// Model represents the state of the load order editor
type Model struct {
	order       *mods.LoadOrder
	partitioner *mods.Partitioner
	resolve     func(*mods.LoadOrder) (*mods.ResolvedOrder, error)
	save        func(*mods.LoadOrder) error

	part   mods.Partition
	report mods.MissingModReport
	focus  pane
	cursor [2]int
	dirty  bool

	help    help.Model
	message string
	error   string
	width   int
	height  int
}

type savedMsg struct{ err error }

type clearMessageMsg struct{}

func newEditorModel(c *mods.Catalog, o *mods.LoadOrder,
	resolve func(*mods.LoadOrder) (*mods.ResolvedOrder, error),
	save func(*mods.LoadOrder) error) Model {
	m := Model{
		order:       o,
		partitioner: mods.NewPartitioner(c, o),
		resolve:     resolve,
		save:        save,
		help:        help.New(),
		width:       80,
		height:      24,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh recomputes the partition and report after an edit.
func (m *Model) refresh() {
	m.part = m.partitioner.Compute()
	if m.resolve != nil {
		r, err := m.resolve(m.order)
		if err != nil {
			m.error = err.Error()
		} else {
			m.report = r.Report
		}
	}
	for p, n := range []int{len(m.part.Active), len(m.part.Inactive)} {
		m.cursor[p] = max(0, min(m.cursor[p], n-1))
	}
}

func (m Model) list(p pane) []mods.ModView {
	if p == activePane {
		return m.part.Active
	}
	return m.part.Inactive
}

func (m Model) selected() (*mods.ModRecord, bool) {
	l := m.list(m.focus)
	if len(l) == 0 {
		return nil, false
	}
	return l[m.cursor[m.focus]].Mod, true
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case savedMsg:
		if msg.err != nil {
			m.error = msg.err.Error()
			return m, nil
		}
		m.dirty = false
		m.message = "Saved " + m.order.Name
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearMessageMsg{}
		})
	case clearMessageMsg:
		m.message = ""
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.error = ""
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor[m.focus] > 0 {
			m.cursor[m.focus]--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor[m.focus] < len(m.list(m.focus))-1 {
			m.cursor[m.focus]++
		}
	case key.Matches(msg, keys.Switch):
		m.focus = 1 - m.focus
	case key.Matches(msg, keys.Toggle):
		m.toggle()
	case key.Matches(msg, keys.MoveUp):
		m.move(-1)
	case key.Matches(msg, keys.MoveDown):
		m.move(1)
	case key.Matches(msg, keys.Save):
		if m.save == nil {
			return m, nil
		}
		order, save := m.order, m.save
		return m, func() tea.Msg { return savedMsg{err: save(order)} }
	}
	return m, nil
}

func (m *Model) toggle() {
	mod, ok := m.selected()
	if !ok {
		return
	}
	var err error
	if m.focus == activePane {
		_, err = m.partitioner.Deactivate(mod.UUID)
	} else {
		_, err = m.partitioner.Activate(mod.UUID, -1)
	}
	if err != nil {
		m.error = err.Error()
		return
	}
	m.dirty = true
	m.refresh()
}

func (m *Model) move(delta int) {
	if m.focus != activePane {
		return
	}
	mod, ok := m.selected()
	if !ok {
		return
	}
	to := m.cursor[activePane] + delta
	if to < 0 || to >= len(m.part.Active) {
		return
	}
	if _, err := m.partitioner.Move(mod.UUID, to); err != nil {
		m.error = err.Error()
		return
	}
	m.cursor[activePane] = to
	m.dirty = true
	m.refresh()
}

// View renders the UI
func (m Model) View() string {
	colWidth := max(30, m.width/2-2)
	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderColumn("Active", activePane, colWidth),
		m.renderColumn("Inactive", inactivePane, colWidth),
	)

	var b strings.Builder
	title := "Load order: " + m.order.Name
	if m.dirty {
		title += " *"
	}
	b.WriteString(ui.HeadingStyle.Render(title) + "\n\n")
	b.WriteString(columns + "\n")

	if m.report.Empty() {
		b.WriteString(ui.OKStyle.Render("✓ No missing mods or conflicts") + "\n")
	} else {
		b.WriteString(ui.ErrorStyle.Render(fmt.Sprintf("%d problems, run `resolve` for details", m.report.Count())) + "\n")
	}
	if m.error != "" {
		b.WriteString(ui.ErrorStyle.Render("Error: "+m.error) + "\n")
	}
	if m.message != "" {
		b.WriteString(ui.OKStyle.Render(m.message) + "\n")
	}
	b.WriteString("\n" + m.help.View(keys))
	return b.String()
}

func (m Model) renderColumn(title string, p pane, width int) string {
	views := m.list(p)
	heading := fmt.Sprintf("%s (%d)", title, len(views))
	if p == m.focus {
		heading = ui.CursorStyle.Render(heading)
	} else {
		heading = ui.HeadingStyle.Render(heading)
	}

	lines := []string{heading}
	rows := max(5, m.height-8)
	start := max(0, m.cursor[p]-rows+1)
	for i := start; i < len(views) && i < start+rows; i++ {
		name := truncate(views[i].Mod.DisplayName(), width-8)
		row := fmt.Sprintf("%3d. %s", i+1, name)
		if p == m.focus && i == m.cursor[p] {
			row = ui.CursorStyle.Render("> " + row)
		} else {
			row = "  " + ui.ModName(row, views[i].Mod.UUID)
		}
		lines = append(lines, row)
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func runGUI() {
	s := bootstrap(configDir)
	defer s.close()

	o, err := s.currentOrder()
	if err != nil {
		s.log.Fatalw("Failed to load current order", zap.Error(err))
	}
	m := newEditorModel(s.catalog, o, s.resolve, func(o *mods.LoadOrder) error {
		return s.saveOrder(o, true)
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		s.log.Fatalw("Failed to run GUI", zap.Error(err))
	}
}
