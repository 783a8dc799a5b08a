package tui

import (
	"fmt"
	"strings"
)

// View renders the overlay.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("recalldoc · " + m.scope.String()))
	b.WriteString("\n\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		if len(m.history) == 0 {
			b.WriteString(mutedStyle.Render("No footprints recorded yet"))
		} else {
			b.WriteString(mutedStyle.Render("No results found"))
		}
	} else {
		hi, _ := m.highlightedIndex()
		start, end := window(len(m.results), hi, m.maxRows)
		for i := start; i < end; i++ {
			b.WriteString(renderRow(m.results[i].Directories, m.results[i].Name, i == hi))
			b.WriteString("\n")
		}
		if rest := len(m.results) - end; rest > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("... and %d more", rest)))
			b.WriteString("\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(m.help())
	return appStyle.Render(b.String())
}

func (m *Model) statusLine() string {
	romaji := "[ ]"
	if m.config.EnableRomajiSearch {
		romaji = "[x]"
	}
	return countStyle.Render(fmt.Sprintf("%s romaji  startup: %s  %d/%d",
		romaji, m.config.StartupKeyCombination, len(m.results), len(m.history)))
}

// window returns the [start, end) slice of rows to draw so that the
// highlighted row stays visible.
func window(total, highlighted, rows int) (int, int) {
	if rows <= 0 || total <= rows {
		return 0, total
	}
	start := 0
	if highlighted >= rows {
		start = highlighted - rows + 1
	}
	return start, start + rows
}

func renderRow(dirs []string, name string, highlighted bool) string {
	path := ""
	if len(dirs) > 0 {
		path = strings.Join(dirs, "/") + "/"
	}
	if highlighted {
		return highlightedStyle.Render(path + name)
	}
	return directoryStyle.Render(path) + nameStyle.Render(name)
}

func (m *Model) help() string {
	parts := make([]string, 0, len(Keys.ShortHelp()))
	for _, k := range Keys.ShortHelp() {
		h := k.Help()
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
