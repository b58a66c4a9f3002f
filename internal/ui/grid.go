package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shutter/internal/catalog"
	"github.com/five82/shutter/internal/gallery"
)

// Card geometry in terminal cells. cardHeight includes the border.
const (
	defaultCardWidth = 30
	minCardWidth     = 18
	maxCardWidth     = 48
	cardGap          = 1
	cardHeight       = 7
)

// columnCycle is the order the columns key steps through; 0 fits the terminal.
var columnCycle = []int{0, 2, 3, 4}

func nextColumns(current int) int {
	for i, c := range columnCycle {
		if c == current {
			return columnCycle[(i+1)%len(columnCycle)]
		}
	}
	return columnCycle[0]
}

// gridLayout returns the column count and the outer width of each card.
func (m Model) gridLayout() (cols, cardWidth int) {
	usable := max(m.width-1, minCardWidth)
	cols = m.prefs.Columns
	if cols <= 0 {
		cols = max(1, usable/(defaultCardWidth+cardGap))
	}
	cardWidth = clamp(usable/cols-cardGap, minCardWidth, maxCardWidth)
	return cols, cardWidth
}

func (m Model) handleGridKey(msg tea.KeyMsg, count int) (tea.Model, tea.Cmd) {
	if count == 0 {
		return m, nil
	}
	cols, _ := m.gridLayout()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor+cols < count {
			m.cursor += cols
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor < count-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if err := m.ctrl.SelectIndex(m.cursor); err != nil {
			m.log.Debug().Err(err).Int("index", m.cursor).Msg("select ignored")
		}
	}
	return m, nil
}

// renderGrid lays the cards out in rows, scrolled so the cursor row is visible.
func (m Model) renderGrid(st gallery.State, height int) string {
	height = max(height, cardHeight)
	styles := m.theme.Styles()

	if len(st.Images) == 0 {
		msg := "No photos. Press r for random photos or / to search."
		if st.Loading {
			msg = "Loading photos..."
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	cols, cardWidth := m.gridLayout()
	visibleRows := max(1, height/cardHeight)
	cursorRow := m.cursor / cols
	firstRow := 0
	if cursorRow >= visibleRows {
		firstRow = cursorRow - visibleRows + 1
	}

	thumbs := st.Thumbnails()
	var rows []string
	for row := firstRow; row < firstRow+visibleRows; row++ {
		start := row * cols
		if start >= len(thumbs) {
			break
		}
		end := min(start+cols, len(thumbs))
		cards := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				cards = append(cards, strings.Repeat(" ", cardGap))
			}
			cards = append(cards, m.renderCard(i, thumbs[i], st.Images[i], cardWidth, i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(strings.Join(rows, "\n"))
}

// renderCard draws one thumbnail: owner, description, a bar scaled from the
// thumbnail width, and the pixel size.
func (m Model) renderCard(index int, thumb gallery.Thumbnail, rec catalog.ImageRecord, width int, focused bool) string {
	styles := m.theme.Styles()
	inner := width - 4

	title := styles.FaintText.Render(fmt.Sprintf("#%d ", index+1)) +
		styles.AccentText.Render(truncate("@"+thumb.Owner, inner-len(fmt.Sprintf("#%d ", index+1))))

	desc := wrap(thumb.Alt, inner, 2)
	if len(desc) == 0 {
		desc = []string{styles.FaintText.Render("untitled")}
	} else {
		for i := range desc {
			desc[i] = styles.MutedText.Render(desc[i])
		}
	}
	for len(desc) < 2 {
		desc = append(desc, "")
	}

	barWidth := clamp(thumb.Width/10, 1, inner)
	bar := styles.InfoText.Render(strings.Repeat("▆", barWidth))
	size := styles.FaintText.Render(fmt.Sprintf("%d×%d", rec.Width, rec.Height))

	body := strings.Join([]string{title, desc[0], desc[1], bar, size}, "\n")

	style := styles.Card
	if focused {
		style = styles.CardFocus
	}
	return style.Width(width - 2).Render(body)
}
