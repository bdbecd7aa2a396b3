package ui

import (
	"fmt"
	"strings"

	"bg3-mod-manager/mods"
)

// RenderReport formats a resolution report for the terminal. An empty report
// renders as a single OK line.
func RenderReport(r mods.MissingModReport) string {
	if r.Empty() {
		return OKStyle.Render("✓ No missing mods or conflicts") + "\n"
	}

	var b strings.Builder
	section := func(title string, entries []mods.MissingEntry, line func(mods.MissingEntry) string) {
		if len(entries) == 0 {
			return
		}
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("%s (%d):", title, len(entries))) + "\n")
		for _, e := range entries {
			b.WriteString("  • " + line(e) + "\n")
		}
		b.WriteString("\n")
	}

	section("Missing from load order", r.MissingDirect, func(e mods.MissingEntry) string {
		if e.Index < 0 {
			return fmt.Sprintf("%s %s", e.Name, MutedStyle.Render(e.UUID))
		}
		return fmt.Sprintf("#%d %s %s", e.Index+1, e.Name, MutedStyle.Render(e.UUID))
	})
	section("Missing dependencies", r.MissingDependencies, requiredByLine)
	section("Inactive dependencies", r.InactiveDependencies, requiredByLine)
	section("Outdated dependencies", r.OutdatedDependencies, func(e mods.MissingEntry) string {
		return fmt.Sprintf("%s needs at least %s, required by %s", e.Name, e.MinVersion, strings.Join(e.RequiredBy, ", "))
	})
	section("Script Extender", r.ExtenderRequired, func(e mods.MissingEntry) string {
		return fmt.Sprintf("version %d or newer required by %s", e.RequiredVersion, strings.Join(e.RequiredBy, ", "))
	})

	if len(r.Conflicts) > 0 {
		b.WriteString(WarnStyle.Render(fmt.Sprintf("Conflicts (%d):", len(r.Conflicts))) + "\n")
		for _, c := range r.Conflicts {
			b.WriteString(fmt.Sprintf("  • %s conflicts with %s\n", c.Name, c.ConflictWithName))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func requiredByLine(e mods.MissingEntry) string {
	return fmt.Sprintf("%s %s, required by %s", e.Name, MutedStyle.Render(e.UUID), strings.Join(e.RequiredBy, ", "))
}

// RenderWarnings lists dependency cycles.
func RenderWarnings(ws []mods.CycleWarning) string {
	if len(ws) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(WarnStyle.Render("Dependency cycles:") + "\n")
	for _, w := range ws {
		b.WriteString("  • " + w.String() + "\n")
	}
	return b.String()
}

// RenderList prints one partition list with 1-based positions.
func RenderList(title string, views []mods.ModView) string {
	var b strings.Builder
	b.WriteString(HeadingStyle.Render(fmt.Sprintf("%s (%d)", title, len(views))) + "\n")
	for _, v := range views {
		b.WriteString(fmt.Sprintf("  %3d. %s %s\n", v.Index+1, ModName(v.Mod.DisplayName(), v.Mod.UUID), MutedStyle.Render(v.Mod.Version.String())))
	}
	return b.String()
}
