package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/parser"
)

func TestFormat_ShortObjectCollapses(t *testing.T) {
	f := NewFormatter()

	assert.Equal(t, "{\"a\": 1}\n", f.Format(`{"a":1}`))
	assert.Equal(t, "[1, 2, 3]\n", f.Format(`[1,2,3]`))
}

func TestFormat_MultiLine(t *testing.T) {
	input := `{"first_name":"Johnathan Albert","last_name":"Fitzgerald-Smithson","occupation":"Software Engineering Manager"}`

	f := NewFormatter()
	formatted := f.Format(input)

	expectedOutput := `{
  "first_name": "Johnathan Albert",
  "last_name": "Fitzgerald-Smithson",
  "occupation": "Software Engineering Manager"
}
`
	assert.Equal(t, expectedOutput, formatted)
}

func TestFormat_CustomIndent(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Output.Indent = 4

	input := `{"first_name":"Johnathan Albert","last_name":"Fitzgerald-Smithson","occupation":"Software Engineering Manager"}`
	formatted := NewFormatterWithConfig(cfg).Format(input)

	assert.Contains(t, formatted, "\n    \"first_name\"")
}

func TestFormat_EmptyInput(t *testing.T) {
	f := NewFormatter()

	assert.Equal(t, "", f.Format(""))
	assert.Equal(t, "", f.Format("   \n\t"))
}

func TestCompact(t *testing.T) {
	input := `{
  "a": 1,
  "b": [1, 2]
}
`

	f := NewFormatter()

	assert.Equal(t, `{"a":1,"b":[1,2]}`, f.Compact(input))
}

func TestColorize(t *testing.T) {
	f := NewFormatter()

	colored := f.Colorize("{\"a\": 1}\n")

	assert.Contains(t, colored, "\x1b[")
}

func TestFormatValue_PreservesOrder(t *testing.T) {
	outcome := parser.Parse(`{"zebra": 1, "apple": 2}`)
	require.True(t, outcome.OK)

	f := NewFormatter()
	formatted, err := f.FormatValue(outcome.Doc)
	require.NoError(t, err)

	assert.Equal(t, "{\"zebra\": 1, \"apple\": 2}\n", formatted)
}

func TestShouldColor(t *testing.T) {
	tests := []struct {
		mode       string
		isTerminal bool
		expected   bool
	}{
		{"always", false, true},
		{"always", true, true},
		{"never", true, false},
		{"never", false, false},
		{"auto", true, true},
		{"auto", false, false},
	}

	for _, tt := range tests {
		cfg := config.NewConfig()
		cfg.Output.Color = tt.mode
		f := NewFormatterWithConfig(cfg)

		assert.Equal(t, tt.expected, f.ShouldColor(tt.isTerminal), "mode=%s terminal=%v", tt.mode, tt.isTerminal)
	}
}
