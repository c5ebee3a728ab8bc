package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsonpeek/jsonpeek/internal/codegen"
	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/models"
	"github.com/jsonpeek/jsonpeek/internal/tui/ui"
	"github.com/jsonpeek/jsonpeek/internal/tui/view"
)

// Snippets shows ready-to-paste access code for the current selection and
// copies the highlighted snippet to the clipboard on demand.
type Snippets struct {
	width  int
	height int

	cfg       *config.Config
	generator *codegen.Generator

	doc         models.Value
	hasDoc      bool
	fingerprint uint64

	selection codegen.Selection
	language  string

	snippets []codegen.Snippet
	cursor   int
	offset   int
}

func NewSnippets(cfg *config.Config, width, height int) *Snippets {
	return &Snippets{
		width:     width,
		height:    height,
		cfg:       cfg,
		generator: codegen.NewGeneratorWithConfig(cfg),
		language:  cfg.Snippets.Language,
	}
}

func (s *Snippets) Init() tea.Cmd { return nil }

func (s *Snippets) Name() string { return view.NameSnippets }

func (s *Snippets) Update(msg tea.Msg) (view.View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		return s, nil

	case view.SetDocumentMsg:
		if msg.Fingerprint != s.fingerprint {
			s.fingerprint = msg.Fingerprint
			s.selection = codegen.Selection{Value: msg.Doc, Doc: msg.Doc}
			s.cursor = 0
			s.offset = 0
		} else {
			s.selection.Doc = msg.Doc
		}
		s.doc = msg.Doc
		s.hasDoc = true
		s.regenerate()
		return s, nil

	case view.SelectionMsg:
		if !s.hasDoc {
			return s, nil
		}
		s.selection = codegen.Selection{
			Path:  msg.Path,
			Value: msg.Value,
			Key:   msg.Key,
			Doc:   s.doc,
		}
		s.cursor = 0
		s.offset = 0
		s.regenerate()
		return s, nil

	case tea.KeyMsg:
		return s, s.updateKeys(msg)
	}
	return s, nil
}

func (s *Snippets) updateKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.snippets)-1 {
			s.cursor++
		}
	case "l":
		if s.language == codegen.LangGo {
			s.language = codegen.LangJavaScript
		} else {
			s.language = codegen.LangGo
		}
		s.cursor = 0
		s.offset = 0
		s.regenerate()
	case "y":
		return s.copyCurrent()
	}
	return nil
}

func (s *Snippets) copyCurrent() tea.Cmd {
	if s.cursor >= len(s.snippets) {
		return nil
	}
	if !s.cfg.Snippets.Clipboard {
		return statusCmd("clipboard copy is disabled in the configuration")
	}
	snip := s.snippets[s.cursor]
	return func() tea.Msg {
		if err := clipboard.WriteAll(snip.Code); err != nil {
			return view.StatusMsg{Text: "clipboard unavailable: " + err.Error()}
		}
		return view.StatusMsg{Text: fmt.Sprintf("copied %q to the clipboard", snip.Title)}
	}
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return view.StatusMsg{Text: text} }
}

func (s *Snippets) regenerate() {
	if !s.hasDoc {
		s.snippets = nil
		return
	}
	s.snippets = s.generator.Generate(s.selection, s.language)
	if s.cursor > len(s.snippets)-1 {
		s.cursor = 0
	}
}

func languageLabel(lang string) string {
	if lang == codegen.LangGo {
		return "Go"
	}
	return "JavaScript"
}

func (s *Snippets) View() string {
	if !s.hasDoc {
		return ui.RenderFramedBox("Snippets", ui.StatusStyle.Render("no document loaded"), s.width)
	}

	target := s.selection.Path.Notations(s.cfg.RootBinding)

	var b strings.Builder
	b.WriteString(ui.PathBarStyle.Render(target.Member))
	b.WriteString("  ")
	b.WriteString(ui.AnnotationStyle.Render(target.Description))
	b.WriteString("\n")

	for i, snip := range s.snippets {
		b.WriteString("\n")
		marker := "  "
		title := ui.HeaderStyle.Render(snip.Title)
		if i == s.cursor {
			marker = ui.SelectedStyle.Render("▌") + " "
		}
		b.WriteString(marker + title)
		if snip.Description != "" {
			b.WriteString("  " + ui.StatusStyle.Render(snip.Description))
		}
		b.WriteString("\n")
		for _, line := range strings.Split(snip.Code, "\n") {
			b.WriteString("    " + line + "\n")
		}
	}

	content := strings.TrimRight(b.String(), "\n")
	content = s.window(content)

	title := fmt.Sprintf("Snippets · %s", languageLabel(s.language))
	return ui.RenderFramedBox(title, content, s.width)
}

// window trims the rendered snippet list to the rows that fit, keeping the
// cursor's snippet in view.
func (s *Snippets) window(content string) string {
	lines := strings.Split(content, "\n")
	rows := contentHeight(s.height)
	if len(lines) <= rows {
		return content
	}

	// Scroll so the cursor's title line is visible.
	target := 0
	seen := -1
	for i, line := range lines {
		if strings.Contains(line, "▌") {
			seen = i
			break
		}
	}
	if seen >= 0 {
		target = seen - rows/2
	}
	if target > len(lines)-rows {
		target = len(lines) - rows
	}
	if target < 0 {
		target = 0
	}
	s.offset = target
	return strings.Join(lines[target:target+rows], "\n")
}
