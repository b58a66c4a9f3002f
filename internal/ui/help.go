package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// helpModal lists the key bindings. Any key closes it.
type helpModal struct{}

func (h helpModal) Update(msg tea.Msg, _ keyMap) (Modal, tea.Cmd, bool) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return h, nil, true
	}
	return h, nil, false
}

func (h helpModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	keys := DefaultKeyMap()

	sections := []helpSection{
		{title: "Gallery", bindings: []key.Binding{keys.Up, keys.Down, keys.Left, keys.Right, keys.Select, keys.Random}},
		{title: "Search", bindings: []key.Binding{keys.Search, keys.Confirm, keys.Escape}},
		{title: "Full-size Image", bindings: []key.Binding{keys.UserPhotos, keys.CopyURL, keys.Escape}},
		{title: "General", bindings: []key.Binding{keys.CycleTheme, keys.Columns, keys.Logs, keys.Help, keys.Quit}},
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Warning)).
		Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			hb := binding.Help()
			b.WriteString(keyStyle.Render(hb.Key))
			b.WriteString(styles.Text.Render(hb.Desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return renderOverlay(theme, width, height, 40, b.String())
}

type helpSection struct {
	title    string
	bindings []key.Binding
}
