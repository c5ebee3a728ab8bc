// Package views contains the interactive document views the application
// switches between. Each view implements view.View and reacts to the
// shared document and selection messages broadcast by the app model.
package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsonpeek/jsonpeek/internal/tui/ui"
	"github.com/jsonpeek/jsonpeek/internal/tui/view"
)

type keyBinding struct {
	Key  string
	Desc string
}

var helpSections = []struct {
	Title    string
	Bindings []keyBinding
}{
	{
		Title: "Global",
		Bindings: []keyBinding{
			{"1-6", "jump to input, tree, text, graph, table or snippets"},
			{"tab / shift+tab", "cycle views"},
			{"?", "toggle this help"},
			{"q / ctrl+c", "quit"},
		},
	},
	{
		Title: "Input",
		Bindings: []keyBinding{
			{"esc", "leave the editor"},
			{"i / enter", "edit the document"},
			{"ctrl+r", "repair the document"},
		},
	},
	{
		Title: "Tree",
		Bindings: []keyBinding{
			{"j/k or arrows", "move the cursor"},
			{"enter / space", "expand or collapse"},
			{"e / c", "expand or collapse everything"},
			{"/", "filter nodes"},
			{"g", "open the selection as a graph"},
		},
	},
	{
		Title: "Table",
		Bindings: []keyBinding{
			{"s", "sort by the next column"},
			{"o", "flip the sort order"},
			{"/", "filter rows"},
			{"enter", "select the row"},
		},
	},
	{
		Title: "Snippets",
		Bindings: []keyBinding{
			{"l", "switch language"},
			{"j/k", "choose a snippet"},
			{"y", "copy to clipboard"},
		},
	},
}

// Help is a static reference card for the key bindings.
type Help struct {
	width  int
	height int
}

func NewHelp(width, height int) *Help {
	return &Help{width: width, height: height}
}

func (h *Help) Init() tea.Cmd { return nil }

func (h *Help) Name() string { return view.NameHelp }

func (h *Help) Update(msg tea.Msg) (view.View, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		h.width = size.Width
		h.height = size.Height
	}
	return h, nil
}

func (h *Help) View() string {
	var b strings.Builder
	for i, section := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ui.HeaderStyle.Render(section.Title))
		b.WriteString("\n")
		for _, kb := range section.Bindings {
			padded := fmt.Sprintf("%-18s", kb.Key)
			fmt.Fprintf(&b, "  %s %s\n", ui.KeyStyle.Render(padded), kb.Desc)
		}
	}
	return ui.RenderFramedBox("Help", strings.TrimRight(b.String(), "\n"), h.width)
}
