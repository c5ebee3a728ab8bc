package views

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/repair"
	"github.com/jsonpeek/jsonpeek/internal/tui/ui"
	"github.com/jsonpeek/jsonpeek/internal/tui/view"
)

// debounceMsg is the delayed marker for a pending re-parse. The id ties it
// to the edit that scheduled it; a newer edit bumps the sequence and the
// stale message is dropped on delivery.
type debounceMsg struct {
	id uint64
}

func debouncedReparse(id uint64, delay time.Duration) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(delay)
		return debounceMsg{id: id}
	}
}

// Input is the editable buffer the document lives in. Edits re-parse the
// text after a quiet period; repair is explicit, never automatic.
type Input struct {
	width  int
	height int

	cfg      *config.Config
	textarea textarea.Model

	debounceSeq uint64

	parseOK    bool
	statusLine string
	hasDoc     bool
}

func NewInput(cfg *config.Config, width, height int) *Input {
	ta := textarea.New()
	ta.Placeholder = `{"paste": "your JSON here"}`
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetWidth(contentWidth(width))
	ta.SetHeight(editorHeight(height))
	ta.Focus()

	return &Input{
		width:    width,
		height:   height,
		cfg:      cfg,
		textarea: ta,
	}
}

func (i *Input) Init() tea.Cmd { return textarea.Blink }

func (i *Input) Name() string { return view.NameInput }

// Editing reports whether the buffer currently owns the keyboard, which
// suppresses the global view-switching keys.
func (i *Input) Editing() bool { return i.textarea.Focused() }

func (i *Input) Update(msg tea.Msg) (view.View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		i.width = msg.Width
		i.height = msg.Height
		i.textarea.SetWidth(contentWidth(msg.Width))
		i.textarea.SetHeight(editorHeight(msg.Height))
		return i, nil

	case view.SetDocumentMsg:
		i.parseOK = true
		i.hasDoc = true
		i.statusLine = "valid document"
		if i.textarea.Value() != msg.Raw {
			i.textarea.SetValue(msg.Raw)
		}
		return i, nil

	case view.ParseFailedMsg:
		i.parseOK = false
		i.hasDoc = true
		if msg.Err != nil {
			i.statusLine = msg.Err.Error()
		} else {
			i.statusLine = "document does not parse"
		}
		if i.textarea.Value() != msg.Raw {
			i.textarea.SetValue(msg.Raw)
		}
		return i, nil

	case debounceMsg:
		if msg.id != i.debounceSeq {
			return i, nil
		}
		return i, i.emitEdit()

	case tea.KeyMsg:
		return i.updateKeys(msg)
	}

	var cmd tea.Cmd
	i.textarea, cmd = i.textarea.Update(msg)
	return i, cmd
}

func (i *Input) updateKeys(msg tea.KeyMsg) (view.View, tea.Cmd) {
	if !i.textarea.Focused() {
		switch msg.String() {
		case "i", "enter":
			cmd := i.textarea.Focus()
			return i, cmd
		case "r":
			return i, i.runRepair()
		}
		return i, nil
	}

	switch msg.String() {
	case "esc":
		i.textarea.Blur()
		return i, nil
	case "ctrl+r":
		return i, i.runRepair()
	}

	before := i.textarea.Value()
	var cmd tea.Cmd
	i.textarea, cmd = i.textarea.Update(msg)
	if i.textarea.Value() != before {
		i.debounceSeq++
		delay := time.Duration(i.cfg.Search.DebounceMs) * time.Millisecond
		return i, tea.Batch(cmd, debouncedReparse(i.debounceSeq, delay))
	}
	return i, cmd
}

// runRepair rewrites the buffer with the repaired text and re-parses it
// immediately, skipping the debounce.
func (i *Input) runRepair() tea.Cmd {
	out := repair.Repair(i.textarea.Value())
	i.textarea.SetValue(out.Text)
	i.debounceSeq++

	status := "repair made no changes"
	if len(out.Records) > 0 {
		status = fmt.Sprintf("repair applied %d changes", len(out.Records))
		if len(out.Records) == 1 {
			status = "repair applied 1 change"
		}
	}
	return tea.Batch(
		i.emitEdit(),
		statusCmd(status),
		func() tea.Msg { return view.RepairRanMsg{Records: out.Records} },
	)
}

func (i *Input) emitEdit() tea.Cmd {
	text := i.textarea.Value()
	return func() tea.Msg {
		return view.DocumentEditedMsg{Text: text}
	}
}

func (i *Input) View() string {
	status := i.statusLine
	switch {
	case !i.hasDoc:
		status = "start typing, the document re-parses as you pause"
	case i.parseOK:
		status = ui.StringStyle.Render("✓ ") + status
	default:
		status = ui.ErrorStyle.Render("✗ ") + status
	}

	hint := "esc leave editor · ctrl+r repair"
	if !i.textarea.Focused() {
		hint = "i edit · r repair"
	}

	content := i.textarea.View() + "\n" +
		status + "\n" +
		ui.StatusStyle.Render(hint)

	return ui.RenderFramedBox("Input", content, i.width)
}

// editorHeight leaves room for the frame, the parse status and the hint.
func editorHeight(h int) int {
	if h <= 4 {
		return 1
	}
	return h - 4
}
