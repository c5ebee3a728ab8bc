// Package formatter renders JSON text for display: pretty-printed,
// compacted, or colorized for terminals.
package formatter

import (
	"strings"

	"github.com/tidwall/pretty"

	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/models"
)

// defaultWidth is the column budget below which containers collapse onto
// a single line.
const defaultWidth = 80

// Formatter formats JSON text according to the output configuration
type Formatter struct {
	config *config.Config
}

// NewFormatter creates a Formatter with default configuration
func NewFormatter() *Formatter {
	return NewFormatterWithConfig(config.NewConfig())
}

// NewFormatterWithConfig creates a Formatter with custom configuration
func NewFormatterWithConfig(cfg *config.Config) *Formatter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Formatter{config: cfg}
}

// Format pretty-prints JSON text with the configured indent. Containers
// short enough for one line stay on one line.
func (f *Formatter) Format(text string) string {
	// Handle empty input
	if strings.TrimSpace(text) == "" {
		return ""
	}

	out := pretty.PrettyOptions([]byte(text), &pretty.Options{
		Width:  defaultWidth,
		Indent: f.config.IndentString(),
	})
	return string(out)
}

// Compact strips all insignificant whitespace.
func (f *Formatter) Compact(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return string(pretty.Ugly([]byte(text)))
}

// Colorize applies the default terminal color style to formatted text.
func (f *Formatter) Colorize(text string) string {
	return string(pretty.Color([]byte(text), nil))
}

// FormatValue serializes a parsed value, keeping member order and number
// text, and pretty-prints the result.
func (f *Formatter) FormatValue(v models.Value) (string, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	return f.Format(string(raw)), nil
}

// ShouldColor resolves the configured color mode against the terminal
// state of the output stream.
func (f *Formatter) ShouldColor(isTerminal bool) bool {
	switch f.config.Output.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTerminal
	}
}
