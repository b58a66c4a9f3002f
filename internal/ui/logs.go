package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shutter/internal/logtail"
)

// logTailLines bounds how much of the log file the overlay loads.
const logTailLines = 500

type logTailMsg struct {
	lines []string
	err   error
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return logTailMsg{}
		}
		lines, err := logtail.Read(path, logTailLines)
		return logTailMsg{lines: lines, err: err}
	}
}

// logModal shows the tail of the diagnostic log in a scrollable viewport.
type logModal struct {
	path     string
	theme    Theme
	viewport viewport.Model
	entries  []logtail.Entry
	err      error
	loaded   bool
}

func newLogModal(path string, theme Theme, width, height int) logModal {
	l := logModal{path: path, theme: theme}
	l.resize(width, height)
	return l
}

func (l *logModal) resize(width, height int) {
	w := overlayWidth(width, 40, 160) - 6
	h := max(3, height-12)
	if l.viewport.Width == 0 {
		l.viewport = viewport.New(w, h)
	} else {
		l.viewport.Width = w
		l.viewport.Height = h
	}
	l.refresh()
}

func (l *logModal) refresh() {
	if !l.loaded {
		return
	}
	l.viewport.SetContent(renderLogEntries(l.entries, l.theme.Styles(), l.viewport.Width))
}

func (l logModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case logTailMsg:
		l.loaded = true
		l.err = msg.err
		l.entries = make([]logtail.Entry, 0, len(msg.lines))
		for _, line := range msg.lines {
			l.entries = append(l.entries, logtail.Parse(line))
		}
		l.refresh()
		l.viewport.GotoBottom()
		return l, nil, false

	case tea.WindowSizeMsg:
		l.resize(msg.Width, msg.Height)
		return l, nil, false

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Logs), key.Matches(msg, keys.Quit):
			return l, nil, true
		case key.Matches(msg, keys.PageUp):
			l.viewport.HalfViewUp()
			return l, nil, false
		case key.Matches(msg, keys.PageDown):
			l.viewport.HalfViewDown()
			return l, nil, false
		}
	}

	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return l, cmd, false
}

func (l logModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Diagnostic Log"))
	if l.path != "" {
		b.WriteString(styles.FaintText.Render("  " + truncateMiddle(l.path, l.viewport.Width-16)))
	}
	b.WriteString("\n\n")

	switch {
	case l.path == "":
		b.WriteString(styles.MutedText.Render("File logging is disabled."))
	case l.err != nil:
		b.WriteString(styles.DangerText.Render(l.err.Error()))
	case !l.loaded:
		b.WriteString(styles.MutedText.Render("Reading log..."))
	case len(l.entries) == 0:
		b.WriteString(styles.MutedText.Render("Log is empty."))
	default:
		b.WriteString(l.viewport.View())
	}

	b.WriteString("\n\n")
	scroll := ""
	if l.loaded && len(l.entries) > 0 {
		scroll = fmt.Sprintf("%3.0f%%  •  ", l.viewport.ScrollPercent()*100)
	}
	b.WriteString(styles.FaintText.Render(scroll + "j/k: Scroll  •  pgup/pgdn: Page  •  esc: Close"))

	return renderOverlay(theme, width, height, l.viewport.Width+6, b.String())
}

func renderLogEntries(entries []logtail.Entry, styles Styles, width int) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatLogEntry(e, styles, width))
	}
	return strings.Join(lines, "\n")
}

// formatLogEntry renders "15:04:05 WARN  component  message key=value".
func formatLogEntry(e logtail.Entry, styles Styles, width int) string {
	if e.Level == "" && e.Time == "" {
		return styles.Text.Render(truncate(e.Message, width))
	}

	var parts []string
	if e.Time != "" {
		ts := e.Time
		if t, err := time.Parse(time.RFC3339, e.Time); err == nil {
			ts = t.Local().Format("15:04:05")
		}
		parts = append(parts, styles.FaintText.Render(ts))
	}
	if e.Level != "" {
		parts = append(parts, levelStyle(e.Level, styles).Render(padRight(e.Level, 5)))
	}
	if e.Component != "" {
		parts = append(parts, styles.AccentText.Render(e.Component))
	}
	if e.Message != "" {
		parts = append(parts, styles.Text.Render(e.Message))
	}
	if e.Error != "" {
		parts = append(parts, styles.DangerText.Render("error="+e.Error))
	}
	for _, f := range e.Fields {
		parts = append(parts, styles.MutedText.Render(f.Key+"="+f.Value))
	}
	line := strings.Join(parts, " ")
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR", "FATAL", "PANIC":
		return styles.DangerText
	case "DEBUG", "TRACE":
		return styles.InfoText
	default:
		return styles.Text
	}
}
