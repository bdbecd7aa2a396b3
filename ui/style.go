package ui

import (
	"fmt"
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

var (
	HeadingStyle = lipgloss.NewStyle().Bold(true)
	OKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	CursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// Colorize applies the given 24-bit RGB color to the text.
func Colorize(text string, color int) string {
	hexColor := fmt.Sprintf("#%06x", color&0xffffff)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor)).Render(text)
}

// palette holds the colors mod names are drawn in.
var palette = []int{0x1bd96a, 0x4a9eff, 0xe0a526, 0xc27bff, 0xff6b6b, 0x2dd4bf, 0xf472b6, 0xa3e635}

// ColorFor picks a stable color for a mod UUID so the same mod is drawn the
// same way in every command.
func ColorFor(uuid string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(uuid))
	return palette[h.Sum32()%uint32(len(palette))]
}

// ModName colors a mod's display name by its UUID.
func ModName(name, uuid string) string {
	return Colorize(name, ColorFor(uuid))
}
