// Package tui wires the interactive session: one model owning every view,
// a message bus between them, and the shared document state.
package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/jsonpeek/jsonpeek/internal/analyzer"
	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/formatter"
	"github.com/jsonpeek/jsonpeek/internal/logging"
	"github.com/jsonpeek/jsonpeek/internal/models"
	"github.com/jsonpeek/jsonpeek/internal/parser"
	"github.com/jsonpeek/jsonpeek/internal/tui/ui"
	"github.com/jsonpeek/jsonpeek/internal/tui/view"
	"github.com/jsonpeek/jsonpeek/internal/tui/views"
)

// chromeHeight is the rows taken by the title, path and status bars.
const chromeHeight = 3

// jumpOrder maps the digit keys 1-6 to views. Help is reached with "?".
var jumpOrder = []string{
	view.NameInput,
	view.NameTree,
	view.NameText,
	view.NameGraph,
	view.NameTable,
	view.NameSnippets,
}

// Model is the bubbletea root. Views are instantiated once and kept for
// the whole session; document and selection messages are broadcast to all
// of them while keys go to the current view only.
type Model struct {
	cfg *config.Config

	registry *view.Registry
	views    map[string]view.View
	order    []string

	currentName  string
	previousName string

	width  int
	height int

	raw         string
	doc         models.Value
	parseOK     bool
	hasDoc      bool
	fingerprint uint64

	selection view.SelectionMsg
	status    string

	initialText string
}

func New(cfg *config.Config, initialText string) *Model {
	f := formatter.NewFormatterWithConfig(cfg)

	reg := view.NewRegistry()
	reg.Register(view.NameInput, func(w, h int) view.View { return views.NewInput(cfg, w, h) })
	reg.Register(view.NameTree, func(w, h int) view.View { return views.NewTree(cfg, w, h) })
	reg.Register(view.NameText, func(w, h int) view.View { return views.NewText(f, w, h) })
	reg.Register(view.NameGraph, func(w, h int) view.View { return views.NewGraph(cfg, w, h) })
	reg.Register(view.NameTable, func(w, h int) view.View { return views.NewTable(cfg, w, h) })
	reg.Register(view.NameSnippets, func(w, h int) view.View { return views.NewSnippets(cfg, w, h) })
	reg.Register(view.NameHelp, func(w, h int) view.View { return views.NewHelp(w, h) })

	m := &Model{
		cfg:         cfg,
		registry:    reg,
		views:       map[string]view.View{},
		order:       reg.Names(),
		currentName: view.NameInput,
		initialText: initialText,
	}
	for _, name := range m.order {
		factory, _ := reg.Get(name)
		m.views[name] = factory(80, 24-chromeHeight)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.order)+1)
	for _, name := range m.order {
		if cmd := m.views[name].Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if m.initialText != "" {
		text := m.initialText
		cmds = append(cmds, func() tea.Msg {
			return view.DocumentEditedMsg{Text: text}
		})
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - chromeHeight}
		return m, tea.Batch(m.broadcast(inner)...)

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case view.DocumentEditedMsg:
		return m, tea.Batch(m.setDocument(msg.Text)...)

	case view.SelectionMsg:
		m.selection = msg
		return m, tea.Batch(m.broadcast(msg)...)

	case view.NavigateToMsg:
		m.switchTo(msg.ViewName)
		return m, nil

	case view.StatusMsg:
		m.status = msg.Text
		return m, nil

	case view.RepairRanMsg:
		for _, rec := range msg.Records {
			logging.L().Infow("repair record", "record", rec)
		}
		return m, nil
	}

	// Everything else (debounce ticks, blink cursors, spinner frames) is
	// fanned out so components keep working while another view is shown.
	return m, tea.Batch(m.broadcast(msg)...)
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if !m.editing() {
		switch key := msg.String(); key {
		case "q":
			return m, tea.Quit
		case "tab":
			m.cycle(1)
			return m, nil
		case "shift+tab":
			m.cycle(-1)
			return m, nil
		case "?":
			m.toggleHelp()
			return m, nil
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				idx := int(key[0] - '1')
				if idx < len(jumpOrder) {
					m.switchTo(jumpOrder[idx])
					return m, nil
				}
			}
		}
	}

	return m, m.forward(m.currentName, msg)
}

// editing reports whether the current view owns the keyboard outright, as
// the input view does while its buffer is focused.
func (m *Model) editing() bool {
	type editor interface{ Editing() bool }
	if v, ok := m.views[m.currentName].(editor); ok {
		return v.Editing()
	}
	return false
}

func (m *Model) cycle(step int) {
	idx := 0
	for i, name := range m.order {
		if name == m.currentName {
			idx = i
			break
		}
	}
	idx = (idx + step + len(m.order)) % len(m.order)
	m.switchTo(m.order[idx])
}

func (m *Model) toggleHelp() {
	if m.currentName == view.NameHelp {
		target := m.previousName
		if target == "" {
			target = view.NameInput
		}
		m.switchTo(target)
		return
	}
	m.switchTo(view.NameHelp)
}

func (m *Model) switchTo(name string) {
	if _, ok := m.views[name]; !ok || name == m.currentName {
		return
	}
	m.previousName = m.currentName
	m.currentName = name
}

// setDocument parses raw text and broadcasts the outcome. The fingerprint
// is structural, so reformatting the same document does not reset views.
func (m *Model) setDocument(text string) []tea.Cmd {
	m.raw = text
	out := parser.Parse(text)
	if !out.OK {
		m.parseOK = false
		m.hasDoc = true
		if out.Err != nil {
			m.status = out.Err.Error()
			logging.L().Debugw("parse failed",
				"error", out.Err.Message,
				"line", out.Err.Line,
				"column", out.Err.Column,
			)
		}
		return m.broadcast(view.ParseFailedMsg{Raw: text, Err: out.Err})
	}

	m.parseOK = true
	m.hasDoc = true
	m.doc = out.Doc
	m.fingerprint = fingerprintOf(out.Doc)

	stats := analyzer.Statistics(out.Doc)
	m.status = fmt.Sprintf("%d nodes · depth %d", stats.TotalNodes, stats.MaxDepth)
	logging.L().Debugw("document parsed",
		"nodes", stats.TotalNodes,
		"depth", stats.MaxDepth,
		"fingerprint", m.fingerprint,
	)

	return m.broadcast(view.SetDocumentMsg{
		Doc:         out.Doc,
		Raw:         text,
		Fingerprint: m.fingerprint,
	})
}

// fingerprintOf hashes the parsed value structurally. Zero is reserved for
// "no document yet", so a real hash of zero is nudged off it.
func fingerprintOf(doc models.Value) uint64 {
	h, err := hashstructure.Hash(doc, hashstructure.FormatV2, nil)
	if err != nil {
		logging.L().Warnw("fingerprint failed", "error", err)
		return 1
	}
	if h == 0 {
		return 1
	}
	return h
}

// broadcast delivers msg to every view and collects their commands.
func (m *Model) broadcast(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for _, name := range m.order {
		updated, cmd := m.views[name].Update(msg)
		m.views[name] = updated
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// forward delivers msg to a single view.
func (m *Model) forward(name string, msg tea.Msg) tea.Cmd {
	v, ok := m.views[name]
	if !ok {
		return nil
	}
	updated, cmd := v.Update(msg)
	m.views[name] = updated
	return cmd
}

func (m *Model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		m.renderPathBar(),
		m.views[m.currentName].View(),
		m.renderStatusBar(),
	)
}

func titleCase(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (m *Model) renderTitleBar() string {
	var tabs []string
	for i, name := range jumpOrder {
		label := fmt.Sprintf("%d %s", i+1, titleCase(name))
		if name == m.currentName {
			label = ui.SelectedStyle.Render(" " + label + " ")
		} else {
			label = ui.StatusStyle.Render(" " + label + " ")
		}
		tabs = append(tabs, label)
	}
	return ui.TitleStyle.Render("jsonpeek") + " " + strings.Join(tabs, "")
}

func (m *Model) renderPathBar() string {
	if !m.hasDoc {
		return ui.StatusStyle.Render("─")
	}
	n := m.selection.Path.Notations(m.cfg.RootBinding)
	return ui.PathBarStyle.Render(n.Member) + "  " + ui.AnnotationStyle.Render(n.Description)
}

func (m *Model) renderStatusBar() string {
	state := ""
	switch {
	case !m.hasDoc:
		state = ui.StatusStyle.Render("no document")
	case m.parseOK:
		state = ui.StringStyle.Render("valid")
	default:
		state = ui.ErrorStyle.Render("invalid")
	}
	text := m.status
	if text == "" {
		text = "? help"
	}
	return state + "  " + ui.StatusStyle.Render(text)
}

// Run starts the interactive session, seeded with initialText when a
// document was given on the command line. When stdin was consumed by a
// pipe, keyboard input is reopened from the controlling terminal.
func Run(cfg *config.Config, initialText string) error {
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		if tty, err := os.Open("/dev/tty"); err == nil {
			defer tty.Close()
			opts = append(opts, tea.WithInput(tty))
		}
	}
	p := tea.NewProgram(New(cfg, initialText), opts...)
	_, err := p.Run()
	return err
}
