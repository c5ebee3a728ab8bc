package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/docpath"
	"github.com/jsonpeek/jsonpeek/internal/models"
	"github.com/jsonpeek/jsonpeek/internal/tui/ui"
	"github.com/jsonpeek/jsonpeek/internal/tui/view"
)

// Graph draws the document as nested boxes, one per container, with child
// containers fanned out to the right. It focuses on the current selection
// so a deep subtree can be inspected without the rest of the document.
type Graph struct {
	width  int
	height int

	cfg      *config.Config
	viewport viewport.Model

	doc         models.Value
	hasDoc      bool
	fingerprint uint64

	focus    docpath.Path
	focusVal models.Value

	expanded map[string]bool
	boxes    []docpath.Path
	cursor   int

	boxCount  int
	truncated bool
}

func NewGraph(cfg *config.Config, width, height int) *Graph {
	vp := viewport.New(contentWidth(width), contentHeight(height))
	return &Graph{
		width:    width,
		height:   height,
		cfg:      cfg,
		viewport: vp,
		expanded: map[string]bool{},
	}
}

func (g *Graph) Init() tea.Cmd { return nil }

func (g *Graph) Name() string { return view.NameGraph }

func (g *Graph) Update(msg tea.Msg) (view.View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
		g.viewport.Width = contentWidth(msg.Width)
		g.viewport.Height = contentHeight(msg.Height)
		return g, nil

	case view.SetDocumentMsg:
		if msg.Fingerprint != g.fingerprint {
			g.fingerprint = msg.Fingerprint
			g.expanded = map[string]bool{}
			g.focus = docpath.Path{}
			g.cursor = 0
			g.viewport.GotoTop()
			g.eagerOpen(msg.Doc, docpath.Path{}, 0)
		}
		g.doc = msg.Doc
		g.hasDoc = true
		g.refocus()
		g.rebuild()
		return g, nil

	case view.SelectionMsg:
		if g.hasDoc && !msg.Path.Equal(g.focus) {
			g.focus = msg.Path
			g.cursor = 0
			g.viewport.GotoTop()
			g.refocus()
			g.rebuild()
		}
		return g, nil

	case tea.KeyMsg:
		return g, g.updateKeys(msg)
	}
	return g, nil
}

func (g *Graph) updateKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j":
		if g.cursor < len(g.boxes)-1 {
			g.cursor++
		}
		return nil
	case "k":
		if g.cursor > 0 {
			g.cursor--
		}
		return nil
	case "enter", " ":
		if g.cursor < len(g.boxes) {
			key := g.boxes[g.cursor].String()
			g.expanded[key] = !g.expanded[key]
			g.rebuild()
		}
		return nil
	case "r":
		g.focus = docpath.Path{}
		g.cursor = 0
		g.viewport.GotoTop()
		g.refocus()
		g.rebuild()
		return nil
	}

	var cmd tea.Cmd
	g.viewport, cmd = g.viewport.Update(msg)
	return cmd
}

// eagerOpen fans out the first EagerDepth levels of a fresh document.
func (g *Graph) eagerOpen(v models.Value, p docpath.Path, d int) {
	if d >= g.cfg.Graph.EagerDepth || !v.IsContainer() {
		return
	}
	g.expanded[p.String()] = true
	switch v.Kind {
	case models.Object:
		for _, m := range v.Members {
			g.eagerOpen(m.Value, p.Append(docpath.Key(m.Key)), d+1)
		}
	case models.Array:
		for i, e := range v.Elems {
			g.eagerOpen(e, p.Append(docpath.Index(i)), d+1)
		}
	}
}

// refocus resolves the focus path against the current document, falling
// back to the root when the path no longer exists.
func (g *Graph) refocus() {
	val, ok := g.focus.Resolve(g.doc)
	if !ok {
		g.focus = docpath.Path{}
		val = g.doc
	}
	g.focusVal = val
}

func (g *Graph) rebuild() {
	if !g.hasDoc {
		return
	}
	var keep docpath.Path
	if g.cursor < len(g.boxes) {
		keep = g.boxes[g.cursor]
	}

	// First pass walks the structure to know which boxes exist, so the
	// cursor can be resolved before anything is drawn.
	g.boxes = g.boxes[:0]
	g.truncated = false
	g.collect(g.focusVal, g.focus)

	g.cursor = 0
	for i, p := range g.boxes {
		if p.Equal(keep) {
			g.cursor = i
			break
		}
	}

	label := g.cfg.RootBinding
	if len(g.focus) > 0 {
		label = g.focus[len(g.focus)-1].Label()
	}
	g.boxCount = 0
	g.viewport.SetContent(g.renderNode(g.focusVal, g.focus, label))
}

// boxOpen reports whether the box for p fans its container children out,
// honoring the node cap. count is how many boxes were seen before it.
func (g *Graph) boxOpen(p docpath.Path, count int) bool {
	max := g.cfg.Graph.MaxNodes
	if max > 0 && count >= max {
		g.truncated = true
		return false
	}
	return g.expanded[p.String()]
}

func (g *Graph) collect(v models.Value, p docpath.Path) {
	g.boxes = append(g.boxes, p)
	if !g.boxOpen(p, len(g.boxes)) {
		return
	}
	switch v.Kind {
	case models.Object:
		for _, m := range v.Members {
			if m.Value.IsContainer() {
				g.collect(m.Value, p.Append(docpath.Key(m.Key)))
			}
		}
	case models.Array:
		for i, e := range v.Elems {
			if e.IsContainer() {
				g.collect(e, p.Append(docpath.Index(i)))
			}
		}
	}
}

// renderNode draws the box for one container and, when it is open, its
// container children to the right of it. It repeats the collect traversal
// so box indices line up with the cursor.
func (g *Graph) renderNode(v models.Value, p docpath.Path, label string) string {
	selected := g.boxCount == g.cursor
	g.boxCount++
	open := g.boxOpen(p, g.boxCount)

	var lines []string
	var children []string

	appendEntry := func(childLabel string, child models.Value, childPath docpath.Path) {
		if !child.IsContainer() {
			lines = append(lines, ui.KeyStyle.Render(childLabel)+": "+graphScalar(child))
			return
		}
		if open {
			lines = append(lines, ui.KeyStyle.Render(childLabel)+" "+ui.StatusStyle.Render("▾"))
			children = append(children, g.renderNode(child, childPath, childLabel))
			return
		}
		lines = append(lines, fmt.Sprintf("%s %s",
			ui.KeyStyle.Render(childLabel),
			ui.StatusStyle.Render(fmt.Sprintf("▸ %d", child.Len()))))
	}

	switch v.Kind {
	case models.Object:
		for _, m := range v.Members {
			appendEntry(m.Key, m.Value, p.Append(docpath.Key(m.Key)))
		}
	case models.Array:
		for i, e := range v.Elems {
			appendEntry(fmt.Sprintf("[%d]", i), e, p.Append(docpath.Index(i)))
		}
	default:
		lines = append(lines, graphScalar(v))
	}
	if len(lines) == 0 {
		lines = append(lines, ui.StatusStyle.Render("(empty)"))
	}

	if selected {
		label = "● " + label
	}
	box := ui.RenderFramedBox(label, strings.Join(lines, "\n"), 0)
	if len(children) == 0 {
		return box
	}

	edge := lipgloss.NewStyle().Foreground(ui.FrameBorderColor).Render("──")
	column := lipgloss.JoinVertical(lipgloss.Left, children...)
	return lipgloss.JoinHorizontal(lipgloss.Top, box, edge, column)
}

func graphScalar(v models.Value) string {
	switch v.Kind {
	case models.String:
		return ui.StringStyle.Render(ui.Truncate(fmt.Sprintf("%q", v.Str), 28))
	case models.Number:
		return ui.NumberStyle.Render(v.Scalar())
	case models.Boolean:
		return ui.BoolStyle.Render(v.Scalar())
	default:
		return ui.NullStyle.Render("null")
	}
}

func (g *Graph) View() string {
	if !g.hasDoc {
		return ui.RenderFramedBox("Graph", ui.StatusStyle.Render("no document loaded"), g.width)
	}
	title := "Graph"
	if len(g.focus) > 0 {
		title = "Graph · " + g.focus.Notations(g.cfg.RootBinding).Member
	}
	if g.truncated {
		title += ui.StatusStyle.Render(" (truncated)")
	}
	return ui.RenderFramedBox(title, g.viewport.View(), g.width)
}
