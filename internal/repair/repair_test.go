package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonpeek/jsonpeek/internal/parser"
)

func TestRepair_TrailingCommaInObject(t *testing.T) {
	out := Repair(`{"a": 1,}`)

	assert.Equal(t, `{"a": 1}`, out.Text)
	require.Len(t, out.Records, 1)
	assert.Contains(t, out.Records[0], "trailing comma")
	assert.True(t, parser.Parse(out.Text).OK)
}

func TestRepair_TrailingCommasCountedTogether(t *testing.T) {
	out := Repair(`{"scores": [1, 2, 3,],}`)

	assert.Equal(t, `{"scores": [1, 2, 3]}`, out.Text)
	require.Len(t, out.Records, 1)
	assert.Contains(t, out.Records[0], "2 trailing comma")
}

func TestRepair_ObjectMarker(t *testing.T) {
	out := Repair(`{"data": [object Object]}`)

	assert.Equal(t, `{"data": {}}`, out.Text)
	require.Len(t, out.Records, 1)
	assert.Contains(t, out.Records[0], "non-serializable object marker")
	assert.True(t, parser.Parse(out.Text).OK)
}

func TestRepair_ArrayMarker(t *testing.T) {
	out := Repair(`{"list": [object Array]}`)

	assert.Equal(t, `{"list": [{}]}`, out.Text)
	assert.True(t, parser.Parse(out.Text).OK)
}

func TestRepair_QuotedObjectMarker(t *testing.T) {
	out := Repair(`{"x": "Object"}`)

	assert.Equal(t, `{"x": {}}`, out.Text)
	require.Len(t, out.Records, 1)
	assert.Contains(t, out.Records[0], "quoted object marker")
}

func TestRepair_QuotedObjectMarkerAtRoot(t *testing.T) {
	out := Repair(`"Object"`)

	assert.Equal(t, `{}`, out.Text)
	require.Len(t, out.Records, 1)
	assert.True(t, parser.Parse(out.Text).OK)
}

func TestRepair_MissingColon(t *testing.T) {
	out := Repair(`{"a" 1}`)

	assert.Equal(t, `{"a": 1}`, out.Text)
	require.Len(t, out.Records, 1)
	assert.Contains(t, out.Records[0], "missing ':'")
}

func TestRepair_MissingCommaBetweenMembers(t *testing.T) {
	out := Repair(`{"a": 1 "b": 2}`)

	assert.Equal(t, `{"a": 1, "b": 2}`, out.Text)
	require.Len(t, out.Records, 1)
	assert.Contains(t, out.Records[0], "missing ','")
}

func TestRepair_MissingCommaBetweenElements(t *testing.T) {
	out := Repair(`[1 2]`)

	assert.Equal(t, `[1, 2]`, out.Text)
	assert.True(t, parser.Parse(out.Text).OK)
}

func TestRepair_DuplicatedComma(t *testing.T) {
	out := Repair(`[1,, 2]`)

	assert.Equal(t, `[1, 2]`, out.Text)
	require.Len(t, out.Records, 1)
	assert.Contains(t, out.Records[0], "duplicated character")
}

func TestRepair_StrayQuoteEscaped(t *testing.T) {
	out := Repair(`["abc"def"]`)

	assert.Equal(t, `["abc\"def"]`, out.Text)
	require.Len(t, out.Records, 1)
	assert.Contains(t, out.Records[0], "stray quote")
	assert.True(t, parser.Parse(out.Text).OK)
}

func TestRepair_SeveralDefectsAcrossIterations(t *testing.T) {
	out := Repair(`{"a" 1, "b": [object Object],}`)

	assert.Equal(t, `{"a": 1, "b": {}}`, out.Text)
	require.Len(t, out.Records, 3)

	// Pattern rewrites come first, then the position-anchored edits in the
	// order they were applied.
	assert.Contains(t, out.Records[0], "object marker")
	assert.Contains(t, out.Records[1], "trailing comma")
	assert.Contains(t, out.Records[2], "missing ':'")
	assert.True(t, parser.Parse(out.Text).OK)
}

func TestRepair_ValidInputUntouched(t *testing.T) {
	input := `{"users": [{"name": "Ada"}], "count": 1}`

	out := Repair(input)

	assert.Equal(t, input, out.Text)
	assert.Empty(t, out.Records)
}

func TestRepair_Idempotent(t *testing.T) {
	first := Repair(`{"scores": [10, 20,], "note": "x" }`)
	require.True(t, parser.Parse(first.Text).OK)

	second := Repair(first.Text)

	assert.Equal(t, first.Text, second.Text)
	assert.Empty(t, second.Records)
}

func TestRepair_NeverFails(t *testing.T) {
	out := Repair(`{{{{`)

	// The duplicated-character strategy peels braces until nothing matches;
	// the result still does not parse, and that is fine.
	assert.Equal(t, `{`, out.Text)
	assert.Len(t, out.Records, 3)
	assert.False(t, parser.Parse(out.Text).OK)
}

func TestRepair_EmptyInputUnchanged(t *testing.T) {
	out := Repair("")

	assert.Equal(t, "", out.Text)
	assert.Empty(t, out.Records)
}

func TestRepair_IterationBudgetRespected(t *testing.T) {
	// Each doubled comma costs one iteration; more defects than the budget
	// leaves the text unparseable but the loop still terminates.
	input := `[1`
	for i := 0; i < MaxIterations+5; i++ {
		input += ",, 1"
	}
	input += `]`

	out := Repair(input)

	assert.LessOrEqual(t, len(out.Records), MaxIterations)
	assert.False(t, parser.Parse(out.Text).OK)
}
