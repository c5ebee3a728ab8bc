package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsonpeek/jsonpeek/internal/formatter"
	"github.com/jsonpeek/jsonpeek/internal/parser"
	"github.com/jsonpeek/jsonpeek/internal/tui/ui"
	"github.com/jsonpeek/jsonpeek/internal/tui/view"
)

// Text renders the pretty-printed document with line numbers. When the
// buffer does not parse it falls back to the raw text and marks the line
// the parser stopped on.
type Text struct {
	width  int
	height int

	viewport    viewport.Model
	formatter   *formatter.Formatter
	fingerprint uint64
	parseErr    *parser.ParseError
	hasContent  bool
}

func NewText(f *formatter.Formatter, width, height int) *Text {
	vp := viewport.New(contentWidth(width), contentHeight(height))
	return &Text{
		width:     width,
		height:    height,
		viewport:  vp,
		formatter: f,
	}
}

func (t *Text) Init() tea.Cmd { return nil }

func (t *Text) Name() string { return view.NameText }

func (t *Text) Update(msg tea.Msg) (view.View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.viewport.Width = contentWidth(msg.Width)
		t.viewport.Height = contentHeight(msg.Height)
		return t, nil

	case view.SetDocumentMsg:
		fresh := msg.Fingerprint != t.fingerprint
		t.fingerprint = msg.Fingerprint
		t.parseErr = nil
		t.hasContent = true

		text, err := t.formatter.FormatValue(msg.Doc)
		if err != nil {
			text = msg.Raw
		}
		t.viewport.SetContent(numberLines(text, 0))
		if fresh {
			t.viewport.GotoTop()
		}
		return t, nil

	case view.ParseFailedMsg:
		t.parseErr = msg.Err
		t.hasContent = true
		errLine := 0
		if msg.Err != nil {
			errLine = msg.Err.Line
		}
		t.viewport.SetContent(numberLines(msg.Raw, errLine))
		if errLine > 0 {
			t.viewport.SetYOffset(errLine - t.viewport.Height/2)
		}
		return t, nil
	}

	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

func (t *Text) View() string {
	if !t.hasContent {
		return ui.RenderFramedBox("Text", ui.StatusStyle.Render("no document loaded"), t.width)
	}
	title := "Text"
	if t.parseErr != nil {
		title = "Text " + ui.ErrorStyle.Render("(invalid: "+t.parseErr.Error()+")")
	}
	return ui.RenderFramedBox(title, t.viewport.View(), t.width)
}

// numberLines prefixes each line with a right-aligned line number. When
// errLine is positive that line is highlighted instead of styled normally.
func numberLines(text string, errLine int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	gutter := len(fmt.Sprintf("%d", len(lines)))
	if gutter < 3 {
		gutter = 3
	}

	var b strings.Builder
	for i, line := range lines {
		num := fmt.Sprintf("%*d", gutter, i+1)
		if i+1 == errLine {
			b.WriteString(ui.ErrorLineStyle.Render(num + " │ " + line))
		} else {
			b.WriteString(ui.StatusStyle.Render(num+" │ ") + line)
		}
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func contentWidth(w int) int {
	if w <= 4 {
		return 1
	}
	return w - 2
}

func contentHeight(h int) int {
	if h <= 2 {
		return 1
	}
	return h - 2
}
