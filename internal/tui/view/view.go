// Package view defines the contract every visualizer implements and the
// registry the app resolves them from.
package view

import tea "github.com/charmbracelet/bubbletea"

// View is one rendering mode over the current document. Update returns
// the possibly-replaced view; rendering derives entirely from state, so
// every frame is rebuilt from scratch.
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	Name() string
}

// Factory builds a view at the given size.
type Factory func(width, height int) View

// View name constants for type-safe switching
const (
	NameInput    = "input"
	NameTree     = "tree"
	NameText     = "text"
	NameGraph    = "graph"
	NameTable    = "table"
	NameSnippets = "snippets"
	NameHelp     = "help"
)

// Registry maps view names to factories. Registration order is preserved
// so the app can cycle views deterministically.
type Registry struct {
	factories map[string]Factory
	order     []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory under a name. Re-registering a name replaces
// the factory but keeps its position.
func (r *Registry) Register(name string, f Factory) {
	if _, exists := r.factories[name]; !exists {
		r.order = append(r.order, name)
	}
	r.factories[name] = f
}

// Get returns a factory by name
func (r *Registry) Get(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Names returns all registered names in registration order
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
