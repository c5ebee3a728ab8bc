package views

import (
	"fmt"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsonpeek/jsonpeek/internal/analyzer"
	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/models"
	"github.com/jsonpeek/jsonpeek/internal/tui/ui"
	"github.com/jsonpeek/jsonpeek/internal/tui/ui/sorting"
	"github.com/jsonpeek/jsonpeek/internal/tui/view"
)

const (
	columnPath = iota
	columnType
	columnValue
	columnNone = -1
)

var tableColumns = []string{"Path", "Type", "Value"}

type tableRow struct {
	entry    analyzer.Entry
	pathText string
	typeText string
	value    string
	num      float64
	isNum    bool
}

// Table lists every node of the flattened document as a sortable,
// filterable grid. Sorting is stable so equal keys keep document order.
type Table struct {
	width  int
	height int

	cfg *config.Config

	doc         models.Value
	hasDoc      bool
	fingerprint uint64

	rows      []tableRow
	visible   []tableRow
	truncated bool

	sortColumn int
	sortOrder  sorting.SortOrder

	filtering  bool
	filterText string

	cursor int
	offset int
}

func NewTable(cfg *config.Config, width, height int) *Table {
	return &Table{
		width:      width,
		height:     height,
		cfg:        cfg,
		sortColumn: columnNone,
	}
}

func (t *Table) Init() tea.Cmd { return nil }

func (t *Table) Name() string { return view.NameTable }

// Editing reports whether the filter prompt is capturing keystrokes.
func (t *Table) Editing() bool { return t.filtering }

func (t *Table) Update(msg tea.Msg) (view.View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.clampCursor()
		return t, nil

	case view.SetDocumentMsg:
		if msg.Fingerprint != t.fingerprint {
			t.fingerprint = msg.Fingerprint
			t.sortColumn = columnNone
			t.sortOrder = sorting.Ascending
			t.filterText = ""
			t.filtering = false
			t.cursor = 0
			t.offset = 0
		}
		t.doc = msg.Doc
		t.hasDoc = true
		t.reload()
		return t, nil

	case tea.KeyMsg:
		if t.filtering {
			return t, t.updateFilter(msg)
		}
		return t, t.updateKeys(msg)
	}
	return t, nil
}

func (t *Table) updateKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(t.visible)-1 {
			t.cursor++
		}
	case "s":
		t.sortColumn++
		if t.sortColumn >= len(tableColumns) {
			t.sortColumn = columnNone
		}
		t.apply()
	case "o":
		t.sortOrder = t.sortOrder.Toggle()
		t.apply()
	case "/":
		t.filtering = true
	case "enter":
		if t.cursor < len(t.visible) {
			row := t.visible[t.cursor]
			key := ""
			if len(row.entry.Path) > 0 {
				if last := row.entry.Path[len(row.entry.Path)-1]; last.IsKey() {
					key = last.Key()
				}
			}
			return func() tea.Msg {
				return view.SelectionMsg{Path: row.entry.Path, Value: row.entry.Value, Key: key}
			}
		}
	}
	t.clampCursor()
	return nil
}

func (t *Table) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		t.filtering = false
	case "esc":
		t.filtering = false
		t.filterText = ""
		t.apply()
	case "backspace":
		if t.filterText != "" {
			runes := []rune(t.filterText)
			t.filterText = string(runes[:len(runes)-1])
			t.apply()
		}
	default:
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				if unicode.IsPrint(r) {
					t.filterText += string(r)
				}
			}
			t.apply()
		}
	}
	t.clampCursor()
	return nil
}

// reload flattens the document into rows and reapplies filter and sort.
func (t *Table) reload() {
	entries := analyzer.Flatten(t.doc, t.cfg.Table.MaxDepth)
	t.truncated = false
	if max := t.cfg.Table.MaxRows; max > 0 && len(entries) > max {
		entries = entries[:max]
		t.truncated = true
	}

	t.rows = make([]tableRow, 0, len(entries))
	for _, e := range entries {
		row := tableRow{
			entry:    e,
			pathText: e.Path.Notations(t.cfg.RootBinding).Member,
			typeText: e.Type,
			value:    tableValue(e.Value),
		}
		if e.Value.Kind == models.Number {
			if f, err := e.Value.Num.Float64(); err == nil {
				row.num = f
				row.isNum = true
			}
		}
		t.rows = append(t.rows, row)
	}
	t.apply()
}

// apply recomputes the visible rows from filter and sort settings.
func (t *Table) apply() {
	t.visible = t.visible[:0]
	needle := strings.ToLower(t.filterText)
	for _, r := range t.rows {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.pathText), needle) ||
			strings.Contains(strings.ToLower(r.typeText), needle) ||
			strings.Contains(strings.ToLower(r.value), needle) {
			t.visible = append(t.visible, r)
		}
	}

	switch t.sortColumn {
	case columnPath:
		sorting.SortStringField(t.visible, func(r tableRow) string { return r.pathText }, t.sortOrder)
	case columnType:
		sorting.SortStringField(t.visible, func(r tableRow) string { return r.typeText }, t.sortOrder)
	case columnValue:
		if allNumeric(t.visible) {
			sorting.SortNumberField(t.visible, func(r tableRow) float64 { return r.num }, t.sortOrder)
		} else {
			sorting.SortStringField(t.visible, func(r tableRow) string { return r.value }, t.sortOrder)
		}
	}
	t.clampCursor()
}

func allNumeric(rows []tableRow) bool {
	if len(rows) == 0 {
		return false
	}
	for _, r := range rows {
		if !r.isNum {
			return false
		}
	}
	return true
}

func tableValue(v models.Value) string {
	switch v.Kind {
	case models.Object:
		return fmt.Sprintf("{%d}", v.Len())
	case models.Array:
		return fmt.Sprintf("[%d]", v.Len())
	case models.String:
		return fmt.Sprintf("%q", v.Str)
	default:
		return v.Scalar()
	}
}

func (t *Table) clampCursor() {
	if t.cursor > len(t.visible)-1 {
		t.cursor = len(t.visible) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	rows := contentHeight(t.height) - 1 // header line
	if rows < 1 {
		rows = 1
	}
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

func (t *Table) View() string {
	if !t.hasDoc {
		return ui.RenderFramedBox("Table", ui.StatusStyle.Render("no document loaded"), t.width)
	}

	pathW, typeW, valueW := t.columnWidths()

	var b strings.Builder
	b.WriteString(t.renderHeader(pathW, typeW, valueW))
	b.WriteString("\n")

	rows := contentHeight(t.height) - 1
	if rows < 1 {
		rows = 1
	}
	end := t.offset + rows
	if end > len(t.visible) {
		end = len(t.visible)
	}
	for i := t.offset; i < end; i++ {
		r := t.visible[i]
		line := fmt.Sprintf("%-*s  %-*s  %s",
			pathW, ui.Truncate(r.pathText, pathW),
			typeW, ui.Truncate(r.typeText, typeW),
			ui.Truncate(r.value, valueW))
		if i == t.cursor {
			line = ui.SelectedStyle.Render(ui.PadLine(line, contentWidth(t.width)))
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if len(t.visible) == 0 {
		b.WriteString(ui.StatusStyle.Render("no rows match the filter"))
	}

	title := fmt.Sprintf("Table · %d rows", len(t.visible))
	if t.filtering || t.filterText != "" {
		title += fmt.Sprintf(" /%s", t.filterText)
	}
	if t.truncated {
		title += ui.StatusStyle.Render(" (truncated)")
	}
	return ui.RenderFramedBox(title, b.String(), t.width)
}

func (t *Table) renderHeader(pathW, typeW, valueW int) string {
	names := make([]string, len(tableColumns))
	for i, name := range tableColumns {
		if i == t.sortColumn {
			name += " " + sorting.SortArrow(t.sortOrder)
		}
		names[i] = name
	}
	header := fmt.Sprintf("%-*s  %-*s  %s",
		pathW, ui.Truncate(names[columnPath], pathW),
		typeW, ui.Truncate(names[columnType], typeW),
		ui.Truncate(names[columnValue], valueW))
	return ui.HeaderStyle.Render(header)
}

func (t *Table) columnWidths() (pathW, typeW, valueW int) {
	total := contentWidth(t.width)
	typeW = 9
	pathW = total * 2 / 5
	if pathW < 12 {
		pathW = 12
	}
	valueW = total - pathW - typeW - 4
	if valueW < 8 {
		valueW = 8
	}
	return pathW, typeW, valueW
}
