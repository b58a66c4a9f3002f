package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shutter/internal/gallery"
)

// chromeLines is the number of rows taken by everything except the grid:
// header, search bar, heading, notice and footer.
const chromeLines = 5

const logoText = "Image API"

// renderMain renders the gallery screen.
func (m Model) renderMain(st gallery.State) string {
	parts := []string{
		m.renderHeader(st),
		m.renderSearchBar(),
		m.renderHeading(st),
		m.renderNotice(st),
		m.renderGrid(st, m.height-chromeLines),
		m.renderFooter(),
	}
	return strings.Join(parts, "\n")
}

// renderHeader renders the top bar: logo, mode, count and activity.
func (m Model) renderHeader(st gallery.State) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{
		bg.Render(logoText, styles.Logo),
		styles.ModeStyle(st.Mode).Render(st.Mode.String()),
		bg.Render(fmt.Sprintf("%d photos", len(st.Images)), styles.MutedText),
	}
	if st.Loading {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+
			bg.Render("loading", styles.WarningText))
	}
	if m.prefs.Columns > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d cols", m.prefs.Columns), styles.FaintText))
	}

	content := strings.Join(parts, sep)
	return styles.Header.Width(m.width).Render(content)
}

func (m Model) renderSearchBar() string {
	styles := m.theme.Styles()
	label := styles.MutedText.Render("Search ")
	if m.search.Focused() {
		label = styles.AccentText.Bold(true).Render("Search ")
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(label + m.search.View())
}

// renderHeading shows the collection title, blank for random pages.
func (m Model) renderHeading(st gallery.State) string {
	heading := st.Heading()
	if heading == "" {
		return ""
	}
	styles := m.theme.Styles()
	return lipgloss.NewStyle().Padding(0, 1).Render(styles.AccentText.Bold(true).Render(heading))
}

func (m Model) renderNotice(st gallery.State) string {
	styles := m.theme.Styles()
	pad := lipgloss.NewStyle().Padding(0, 1)
	switch {
	case st.Notice.Kind == gallery.NoticeNotFound:
		return pad.Render(styles.WarningText.Render(st.Notice.Message))
	case !st.Notice.Empty():
		return pad.Render(styles.DangerText.Render(st.Notice.Message))
	case m.status != "":
		return pad.Render(styles.SuccessText.Render(m.status))
	}
	return ""
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	h := m.help
	h.Styles.ShortKey = styles.AccentText
	h.Styles.ShortDesc = styles.MutedText
	h.Styles.ShortSeparator = styles.FaintText
	return styles.Footer.Width(m.width).Render(h.View(m.keys))
}
