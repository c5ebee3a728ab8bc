// Package ui holds the shared lipgloss styles and rendering helpers the
// visualizer views compose their frames from.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Styles (views can override these locally if desired)
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	ErrorLineStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("52")).
			Foreground(lipgloss.Color("231"))

	SelectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("24")).
			Foreground(lipgloss.Color("231"))

	PathBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	KeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))

	StringStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	NumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("215"))

	BoolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("139"))

	NullStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	AnnotationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("109")).
			Faint(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")).
			Bold(true)

	FrameBorderColor = lipgloss.Color("117")
)

// RenderFramedBox draws a bordered frame with a centered title above the
// content. If width <= 0, the frame hugs the widest content line. ANSI
// sequences in content are preserved.
func RenderFramedBox(title, content string, width int) string {
	lines := strings.Split(content, "\n")

	// Compute content width
	contentWidth := 0
	for _, l := range lines {
		if w := lipgloss.Width(l); w > contentWidth {
			contentWidth = w
		}
	}
	if width <= 0 {
		width = contentWidth + 4 // padding left/right
	}

	titleStyled := TitleStyle.Render(" " + title + " ")
	borderWidth := width - 2 // left/right borders
	borderStyle := lipgloss.NewStyle().Foreground(FrameBorderColor)

	// Top border with centered title
	leftPad := (borderWidth - lipgloss.Width(titleStyled)) / 2
	if leftPad < 0 {
		leftPad = 0
	}
	rightPad := borderWidth - leftPad - lipgloss.Width(titleStyled)
	if rightPad < 0 {
		rightPad = 0
	}

	topLine := fmt.Sprintf(
		"%s%s%s%s%s",
		borderStyle.Render("╭"),
		borderStyle.Render(strings.Repeat("─", leftPad)),
		titleStyled,
		borderStyle.Render(strings.Repeat("─", rightPad)),
		borderStyle.Render("╮"),
	)

	boxLines := []string{topLine}
	for _, l := range lines {
		boxLines = append(boxLines, fmt.Sprintf("%s%s%s",
			borderStyle.Render("│"),
			PadLine(l, borderWidth),
			borderStyle.Render("│")))
	}

	bottomLine := fmt.Sprintf("%s%s%s",
		borderStyle.Render("╰"),
		borderStyle.Render(strings.Repeat("─", borderWidth)),
		borderStyle.Render("╯"))
	boxLines = append(boxLines, bottomLine)

	return strings.Join(boxLines, "\n")
}

// PadLine fits a line to width, preserving ANSI sequences
func PadLine(line string, width int) string {
	l := lipgloss.Width(line)
	if l >= width {
		return lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line + strings.Repeat(" ", width-l)
}

// Truncate shortens a cell to the given display width, ending with an
// ellipsis when anything was cut. Width is measured in terminal cells,
// not bytes, so wide runes count double.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width-1, "") + "…"
}
