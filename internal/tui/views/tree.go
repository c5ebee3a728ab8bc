package views

import (
	"fmt"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsonpeek/jsonpeek/internal/analyzer"
	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/docpath"
	"github.com/jsonpeek/jsonpeek/internal/models"
	"github.com/jsonpeek/jsonpeek/internal/tui/ui"
	"github.com/jsonpeek/jsonpeek/internal/tui/view"
)

// treeNode is one visible row of the tree.
type treeNode struct {
	path      docpath.Path
	label     string
	value     models.Value
	depth     int
	container bool
	expanded  bool
}

// Tree is the collapsible document tree. Expansion state is kept per path
// and survives reformatting of the same document; a new document resets it
// to the configured eager depth.
type Tree struct {
	width  int
	height int

	cfg        *config.Config
	classifier *analyzer.Classifier
	rootLabel  string

	doc         models.Value
	hasDoc      bool
	fingerprint uint64

	expanded map[string]bool
	cursor   int
	offset   int

	filtering  bool
	filterText string

	nodes     []treeNode
	truncated bool
}

func NewTree(cfg *config.Config, width, height int) *Tree {
	return &Tree{
		width:      width,
		height:     height,
		cfg:        cfg,
		classifier: analyzer.NewClassifierWithConfig(cfg),
		rootLabel:  cfg.RootBinding,
		expanded:   map[string]bool{},
	}
}

func (t *Tree) Init() tea.Cmd { return nil }

func (t *Tree) Name() string { return view.NameTree }

// Editing reports whether the filter prompt is capturing keystrokes.
func (t *Tree) Editing() bool { return t.filtering }

func (t *Tree) Update(msg tea.Msg) (view.View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.clampCursor()
		return t, nil

	case view.SetDocumentMsg:
		if msg.Fingerprint != t.fingerprint {
			t.fingerprint = msg.Fingerprint
			t.resetExpansion(msg.Doc)
			t.cursor = 0
			t.offset = 0
			t.filterText = ""
			t.filtering = false
		}
		t.doc = msg.Doc
		t.hasDoc = true
		t.rebuild()
		return t, t.selectCursor()

	case tea.KeyMsg:
		if t.filtering {
			return t, t.updateFilter(msg)
		}
		return t, t.updateKeys(msg)
	}
	return t, nil
}

func (t *Tree) updateKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
			t.clampCursor()
			return t.selectCursor()
		}
	case "down", "j":
		if t.cursor < len(t.nodes)-1 {
			t.cursor++
			t.clampCursor()
			return t.selectCursor()
		}
	case "enter", " ":
		if n, ok := t.current(); ok && n.container {
			key := n.path.String()
			t.expanded[key] = !t.expanded[key]
			t.rebuild()
		}
		return t.selectCursor()
	case "e":
		t.expandAll(t.doc, docpath.Path{})
		t.rebuild()
	case "c":
		t.expanded = map[string]bool{}
		t.expanded[docpath.Path{}.String()] = true
		t.cursor = 0
		t.offset = 0
		t.rebuild()
		return t.selectCursor()
	case "/":
		t.filtering = true
	case "g":
		return func() tea.Msg { return view.NavigateToMsg{ViewName: view.NameGraph} }
	}
	return nil
}

func (t *Tree) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		t.filtering = false
	case "esc":
		t.filtering = false
		t.filterText = ""
		t.rebuild()
	case "backspace":
		if t.filterText != "" {
			runes := []rune(t.filterText)
			t.filterText = string(runes[:len(runes)-1])
			t.rebuild()
		}
	default:
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				if unicode.IsPrint(r) {
					t.filterText += string(r)
				}
			}
			t.rebuild()
		}
	}
	t.clampCursor()
	return t.selectCursor()
}

func (t *Tree) current() (treeNode, bool) {
	if t.cursor < 0 || t.cursor >= len(t.nodes) {
		return treeNode{}, false
	}
	return t.nodes[t.cursor], true
}

func (t *Tree) selectCursor() tea.Cmd {
	n, ok := t.current()
	if !ok {
		return nil
	}
	key := ""
	if len(n.path) > 0 {
		last := n.path[len(n.path)-1]
		if last.IsKey() {
			key = last.Key()
		}
	}
	return func() tea.Msg {
		return view.SelectionMsg{Path: n.path, Value: n.value, Key: key}
	}
}

// resetExpansion opens containers down to the configured eager depth.
func (t *Tree) resetExpansion(doc models.Value) {
	t.expanded = map[string]bool{}
	depth := t.cfg.Tree.EagerDepth
	if depth < 0 {
		depth = 0
	}
	var walk func(v models.Value, p docpath.Path, d int)
	walk = func(v models.Value, p docpath.Path, d int) {
		if !v.IsContainer() {
			return
		}
		if d <= depth {
			t.expanded[p.String()] = true
		}
		if d >= depth {
			return
		}
		switch v.Kind {
		case models.Object:
			for _, m := range v.Members {
				walk(m.Value, p.Append(docpath.Key(m.Key)), d+1)
			}
		case models.Array:
			for i, e := range v.Elems {
				walk(e, p.Append(docpath.Index(i)), d+1)
			}
		}
	}
	walk(doc, docpath.Path{}, 0)
}

func (t *Tree) expandAll(v models.Value, p docpath.Path) {
	if !v.IsContainer() {
		return
	}
	t.expanded[p.String()] = true
	switch v.Kind {
	case models.Object:
		for _, m := range v.Members {
			t.expandAll(m.Value, p.Append(docpath.Key(m.Key)))
		}
	case models.Array:
		for i, e := range v.Elems {
			t.expandAll(e, p.Append(docpath.Index(i)))
		}
	}
}

// rebuild recomputes the visible rows from the document, the expansion map
// and the active filter.
func (t *Tree) rebuild() {
	t.nodes = t.nodes[:0]
	t.truncated = false
	if !t.hasDoc {
		return
	}

	var keep map[string]bool
	if t.filterText != "" {
		keep = t.filterSet()
	}

	max := t.cfg.Tree.MaxNodes
	var walk func(v models.Value, p docpath.Path, label string, depth int)
	walk = func(v models.Value, p docpath.Path, label string, depth int) {
		if max > 0 && len(t.nodes) >= max {
			t.truncated = true
			return
		}
		if keep != nil && !keep[p.String()] {
			return
		}
		expanded := t.expanded[p.String()] || (keep != nil && v.IsContainer())
		t.nodes = append(t.nodes, treeNode{
			path:      p,
			label:     label,
			value:     v,
			depth:     depth,
			container: v.IsContainer(),
			expanded:  expanded,
		})
		if !expanded {
			return
		}
		switch v.Kind {
		case models.Object:
			for _, m := range v.Members {
				walk(m.Value, p.Append(docpath.Key(m.Key)), m.Key, depth+1)
			}
		case models.Array:
			for i, e := range v.Elems {
				walk(e, p.Append(docpath.Index(i)), fmt.Sprintf("[%d]", i), depth+1)
			}
		}
	}
	walk(t.doc, docpath.Path{}, t.rootLabel, 0)
	t.clampCursor()
}

// filterSet returns the paths to keep: every match plus all of its
// ancestors, so matches stay reachable in the collapsed hierarchy.
func (t *Tree) filterSet() map[string]bool {
	matches := analyzer.Search(t.doc, t.filterText, t.cfg.Search.CaseSensitive)
	keep := make(map[string]bool, len(matches)*2)
	for _, m := range matches {
		for i := 0; i <= len(m.Path); i++ {
			keep[m.Path[:i].String()] = true
		}
	}
	return keep
}

func (t *Tree) clampCursor() {
	if t.cursor > len(t.nodes)-1 {
		t.cursor = len(t.nodes) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	rows := contentHeight(t.height)
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+rows {
		t.offset = t.cursor - rows + 1
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

func (t *Tree) View() string {
	if !t.hasDoc {
		return ui.RenderFramedBox("Tree", ui.StatusStyle.Render("no document loaded"), t.width)
	}

	rows := contentHeight(t.height)
	end := t.offset + rows
	if end > len(t.nodes) {
		end = len(t.nodes)
	}

	var b strings.Builder
	for i := t.offset; i < end; i++ {
		line := t.renderNode(t.nodes[i])
		if i == t.cursor {
			line = ui.SelectedStyle.Render(ui.PadLine(line, contentWidth(t.width)))
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if len(t.nodes) == 0 {
		b.WriteString(ui.StatusStyle.Render("no nodes match the filter"))
	}

	title := "Tree"
	if t.filtering || t.filterText != "" {
		title = fmt.Sprintf("Tree /%s", t.filterText)
	}
	if t.truncated {
		title += ui.StatusStyle.Render(" (truncated)")
	}
	return ui.RenderFramedBox(title, b.String(), t.width)
}

func (t *Tree) renderNode(n treeNode) string {
	indent := strings.Repeat("  ", n.depth)

	expander := "  "
	if n.container {
		if n.expanded {
			expander = "▾ "
		} else {
			expander = "▸ "
		}
	}

	label := ui.KeyStyle.Render(n.label)
	if strings.HasPrefix(n.label, "[") {
		label = ui.StatusStyle.Render(n.label)
	}

	return indent + expander + label + ": " + t.renderValue(n.value)
}

func (t *Tree) renderValue(v models.Value) string {
	switch v.Kind {
	case models.Object:
		word := "keys"
		if v.Len() == 1 {
			word = "key"
		}
		return ui.StatusStyle.Render(fmt.Sprintf("{%d %s}", v.Len(), word))
	case models.Array:
		word := "items"
		if v.Len() == 1 {
			word = "item"
		}
		return ui.StatusStyle.Render(fmt.Sprintf("[%d %s]", v.Len(), word))
	case models.String:
		out := ui.StringStyle.Render(fmt.Sprintf("%q", v.Str))
		if tag := t.classifier.ClassifyString(v.Str); tag != "" {
			out += " " + ui.AnnotationStyle.Render("⟨"+tag+"⟩")
		} else if t.cfg.Tree.ShowKinds {
			out += " " + ui.AnnotationStyle.Render("⟨string⟩")
		}
		return out
	case models.Number:
		out := ui.NumberStyle.Render(v.Scalar())
		if t.cfg.Tree.ShowKinds {
			out += " " + ui.AnnotationStyle.Render("⟨number⟩")
		}
		return out
	case models.Boolean:
		out := ui.BoolStyle.Render(v.Scalar())
		if t.cfg.Tree.ShowKinds {
			out += " " + ui.AnnotationStyle.Render("⟨boolean⟩")
		}
		return out
	default:
		return ui.NullStyle.Render("null")
	}
}
