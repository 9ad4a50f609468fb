package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/svcmap/pkg/geom"
	"github.com/matzehuels/svcmap/pkg/layout"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	stylePending  = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints frame statistics on a single line.
func printStats(w io.Writer, cards, pending, arrows int, cached bool) {
	parts := []string{fmt.Sprintf("%d cards", cards)}
	if pending > 0 {
		parts = append(parts, stylePending.Render(fmt.Sprintf("%d pending", pending)))
	}
	parts = append(parts, fmt.Sprintf("%d arrows", arrows))

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(w, line)
}

// =============================================================================
// Frame Tables
// =============================================================================

// cardRows returns one table row per card: id, column, row, box, access
// point count and connector count.
func cardRows(f *layout.Frame) [][]string {
	rows := make([][]string, 0, len(f.Cards))
	for _, c := range f.Cards {
		rows = append(rows, []string{
			c.ID,
			strconv.Itoa(c.Column),
			strconv.Itoa(c.Row),
			formatBox(c.Box),
			strconv.Itoa(len(c.AccessPoints)),
			strconv.Itoa(len(f.ConnectorsOf(c.ID))),
		})
	}
	return rows
}

var cardHeaders = []string{"Card", "Col", "Row", "Box", "APs", "Connectors"}

// renderCardTable renders the per-card geometry table.
func renderCardTable(f *layout.Frame) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(cardHeaders...).
		Rows(cardRows(f)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// renderCardDetail describes one card: its box, access points and the
// connectors anchored on it with their senders.
func renderCardDetail(f *layout.Frame, id string) string {
	c, ok := f.Card(id)
	if !ok {
		return StyleWarning.Render(fmt.Sprintf("card %s is not placed", id))
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(c.Caption))
	if c.Namespace != "" {
		b.WriteString(StyleDim.Render("  " + c.Namespace))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  box      %s\n", formatBox(c.Box))
	if len(c.Flags) > 0 {
		fmt.Fprintf(&b, "  flags    %s\n", strings.Join(c.Flags, ", "))
	}

	if len(c.AccessPoints) > 0 {
		b.WriteString(styleHeader.Render("  access points") + "\n")
		for _, ap := range f.AccessPoints {
			if ap.ServiceID != c.ID {
				continue
			}
			label := strconv.Itoa(ap.Port)
			if ap.Protocol != "" {
				label += "/" + string(ap.Protocol)
			}
			fmt.Fprintf(&b, "    %-12s %s\n", label, formatXY(ap.Point))
		}
	}

	if cs := f.ConnectorsOf(c.ID); len(cs) > 0 {
		b.WriteString(styleHeader.Render("  connectors") + "\n")
		for _, cn := range cs {
			fmt.Fprintf(&b, "    %s %s %s\n", formatXY(cn.Point), StyleDim.Render("from"), strings.Join(cn.Senders, ", "))
		}
	}
	return b.String()
}

func formatBox(b geom.XYWH) string {
	return fmt.Sprintf("%g,%g %g×%g", b.X, b.Y, b.W, b.H)
}

func formatXY(p geom.XY) string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}
