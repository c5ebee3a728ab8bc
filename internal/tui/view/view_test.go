package view

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubView struct {
	name string
}

func (s stubView) Init() tea.Cmd                  { return nil }
func (s stubView) Update(tea.Msg) (View, tea.Cmd) { return s, nil }
func (s stubView) View() string                   { return s.name }
func (s stubView) Name() string                   { return s.name }

func stubFactory(name string) Factory {
	return func(width, height int) View { return stubView{name: name} }
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register("alpha", stubFactory("alpha"))
	r.Register("beta", stubFactory("beta"))

	factory, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", factory(0, 0).Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_NamesKeepRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("c", stubFactory("c"))
	r.Register("a", stubFactory("a"))
	r.Register("b", stubFactory("b"))

	assert.Equal(t, []string{"c", "a", "b"}, r.Names())
}

func TestRegistry_ReRegisterKeepsPosition(t *testing.T) {
	r := NewRegistry()
	r.Register("first", stubFactory("first"))
	r.Register("second", stubFactory("second"))
	r.Register("first", stubFactory("replacement"))

	assert.Equal(t, []string{"first", "second"}, r.Names())

	factory, ok := r.Get("first")
	require.True(t, ok)
	assert.Equal(t, "replacement", factory(0, 0).Name())
}

func TestRegistry_NamesReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Register("only", stubFactory("only"))

	names := r.Names()
	names[0] = "mutated"

	assert.Equal(t, []string{"only"}, r.Names())
}
