package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/parser"
	"github.com/jsonpeek/jsonpeek/internal/tui/view"
)

func TestInput_StaleDebounceIsDropped(t *testing.T) {
	in := NewInput(config.NewConfig(), 80, 24)
	in.textarea.SetValue(`{"a": 1}`)
	in.debounceSeq = 7

	_, cmd := in.Update(debounceMsg{id: 3})

	assert.Nil(t, cmd, "a superseded debounce must not re-parse")
}

func TestInput_FreshDebounceEmitsEdit(t *testing.T) {
	in := NewInput(config.NewConfig(), 80, 24)
	in.textarea.SetValue(`{"a": 1}`)
	in.debounceSeq = 7

	_, cmd := in.Update(debounceMsg{id: 7})
	require.NotNil(t, cmd)

	msg, ok := cmd().(view.DocumentEditedMsg)
	require.True(t, ok)
	assert.Equal(t, `{"a": 1}`, msg.Text)
}

func TestInput_TypingSchedulesReparse(t *testing.T) {
	in := NewInput(config.NewConfig(), 80, 24)
	require.True(t, in.Editing())

	_, cmd := in.Update(keyRunes("x"))

	assert.NotNil(t, cmd)
	assert.Equal(t, uint64(1), in.debounceSeq)
}

func TestInput_CursorKeysDoNotSchedule(t *testing.T) {
	in := NewInput(config.NewConfig(), 80, 24)
	in.textarea.SetValue(`{"a": 1}`)
	seq := in.debounceSeq

	in.Update(tea.KeyMsg{Type: tea.KeyLeft})

	assert.Equal(t, seq, in.debounceSeq)
}

func TestInput_RepairRewritesBuffer(t *testing.T) {
	in := NewInput(config.NewConfig(), 80, 24)
	broken := `{"a": 1,}`
	in.textarea.SetValue(broken)

	_, cmd := in.Update(tea.KeyMsg{Type: tea.KeyCtrlR})

	require.NotNil(t, cmd)
	assert.NotEqual(t, broken, in.textarea.Value())
	assert.True(t, parser.Parse(in.textarea.Value()).OK)
	assert.Equal(t, uint64(1), in.debounceSeq)
}

func TestInput_RepairFromBlurredState(t *testing.T) {
	in := NewInput(config.NewConfig(), 80, 24)
	in.textarea.SetValue(`[1, 2,]`)
	in.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, in.Editing())

	_, cmd := in.Update(keyRunes("r"))

	require.NotNil(t, cmd)
	assert.True(t, parser.Parse(in.textarea.Value()).OK)
}

func TestInput_FocusCycle(t *testing.T) {
	in := NewInput(config.NewConfig(), 80, 24)
	require.True(t, in.Editing())

	in.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, in.Editing())

	in.Update(keyRunes("i"))
	assert.True(t, in.Editing())
}

func TestInput_SetDocumentSyncsBuffer(t *testing.T) {
	in := NewInput(config.NewConfig(), 80, 24)

	setDoc(t, in, `{"x": 1}`, 1)

	assert.Equal(t, `{"x": 1}`, in.textarea.Value())
	assert.True(t, in.parseOK)
	assert.Equal(t, "valid document", in.statusLine)
}

func TestInput_ParseFailureKeepsSessionOpen(t *testing.T) {
	in := NewInput(config.NewConfig(), 80, 24)
	broken := `{"x": `

	out := parser.Parse(broken)
	require.False(t, out.OK)
	in.Update(view.ParseFailedMsg{Raw: broken, Err: out.Err})

	assert.False(t, in.parseOK)
	assert.Equal(t, broken, in.textarea.Value())
	assert.NotEmpty(t, in.statusLine)
}
