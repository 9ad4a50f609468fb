package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/svcmap/pkg/layout"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// CardListModel - Interactive card browser
// =============================================================================

// CardListModel is the bubbletea model of the inspect command: a scrolling
// table of placed cards with a detail pane for the card under the cursor.
type CardListModel struct {
	Frame  *layout.Frame
	Cursor int
	Offset int
	Height int

	// Detail shows the detail pane of the card under the cursor.
	Detail bool

	// Selected is the id of the card shown when the browser was left, if any.
	Selected string
}

// NewCardListModel creates a card browser over f.
func NewCardListModel(f *layout.Frame) CardListModel {
	return CardListModel{Frame: f, Height: 15}
}

func (m CardListModel) Init() tea.Cmd {
	return nil
}

func (m CardListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.Detail && len(m.Frame.Cards) > 0 {
				m.Selected = m.Frame.Cards[m.Cursor].ID
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Frame.Cards)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if len(m.Frame.Cards) > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m CardListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Cards"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Frame.Cards) == 0 {
		b.WriteString(listDimStyle.Render("  no placed cards"))
		b.WriteString("\n")
		m.writePending(&b)
		return b.String()
	}

	all := cardRows(m.Frame)
	end := min(m.Offset+m.Height, len(all))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, all[i]...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, cardHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Frame.Cards))))
	b.WriteString("\n")
	m.writePending(&b)

	if m.Detail {
		b.WriteString("\n")
		b.WriteString(renderCardDetail(m.Frame, m.Frame.Cards[m.Cursor].ID))
	}
	return b.String()
}

func (m CardListModel) writePending(b *strings.Builder) {
	if len(m.Frame.Pending) == 0 {
		return
	}
	b.WriteString(stylePending.Render(fmt.Sprintf("  %d pending: %s", len(m.Frame.Pending), strings.Join(m.Frame.Pending, ", "))))
	b.WriteString("\n")
}
