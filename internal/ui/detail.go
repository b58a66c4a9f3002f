package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shutter/internal/catalog"
	"github.com/five82/shutter/internal/gallery"
)

const detailFooter = "Press u to see the user photos."

// handleDetailKey handles keys that only apply while an image is open. The
// bool reports whether the key was consumed.
func (m Model) handleDetailKey(msg tea.KeyMsg, sel catalog.ImageRecord) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.ctrl.CloseDetail()
		return m, nil, true

	case key.Matches(msg, m.keys.UserPhotos):
		req, err := m.ctrl.OpenUserPhotos()
		if err != nil {
			m.log.Debug().Err(err).Msg("user photos ignored")
			return m, nil, true
		}
		return m, m.dispatch(req), true

	case key.Matches(msg, m.keys.CopyURL):
		if err := m.copyText(sel.FullURL); err != nil {
			m.log.Warn().Err(err).Msg("clipboard write failed")
			m.status = "Copy failed: " + err.Error()
		} else {
			m.status = "Copied full-size URL"
		}
		return m, nil, true
	}
	return m, nil, false
}

// renderDetail renders the full-size image overlay for the selection.
func (m Model) renderDetail(st gallery.State) string {
	sel := *st.Selected
	styles := m.theme.Styles()
	boxWidth := overlayWidth(m.width, 40, 90)
	inner := boxWidth - 6
	labelWidth := 12

	label := func(s string) string {
		return styles.MutedText.Render(padRight(s, labelWidth))
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Full-size Image"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", min(inner, 40))))
	b.WriteString("\n\n")

	b.WriteString(styles.AccentText.Bold(true).Render("@" + sel.OwnerHandle))
	if i := st.IndexOf(sel); i >= 0 {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("  %d of %d", i+1, len(st.Images))))
	}
	b.WriteString("\n")

	desc := wrap(sel.Description, inner, 4)
	if len(desc) == 0 {
		b.WriteString(styles.FaintText.Render("No description"))
		b.WriteString("\n")
	}
	for _, line := range desc {
		b.WriteString(styles.Text.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(label("Size"))
	b.WriteString(styles.Text.Render(fmt.Sprintf("%d × %d", sel.Width, sel.Height)))
	if aspect := sel.Aspect(); aspect > 0 {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("  (%.2f:1)", aspect)))
	}
	b.WriteString("\n")
	b.WriteString(label("Full size"))
	b.WriteString(styles.InfoText.Render(truncateMiddle(sel.FullURL, inner-labelWidth)))
	b.WriteString("\n")
	b.WriteString(label("Display"))
	b.WriteString(styles.MutedText.Render(truncateMiddle(sel.DisplayURL, inner-labelWidth)))
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(styles.SuccessText.Render(m.status))
		b.WriteString("\n")
	}
	if !st.Notice.Empty() {
		b.WriteString(styles.DangerText.Render(st.Notice.Message))
		b.WriteString("\n")
	}

	b.WriteString(styles.WarningText.Render(detailFooter))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("y: Copy URL  •  esc: Close"))

	return renderOverlay(m.theme, m.width, m.height, boxWidth, b.String())
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
