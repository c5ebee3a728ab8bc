package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/models"
	"github.com/jsonpeek/jsonpeek/internal/parser"
)

func mustParse(t *testing.T, text string) models.Value {
	t.Helper()
	outcome := parser.Parse(text)
	require.True(t, outcome.OK, "expected valid JSON: %s", text)
	return outcome.Doc
}

func TestStatisticsSimpleArray(t *testing.T) {
	doc := mustParse(t, `[1, 2, 3]`)

	stats := Statistics(doc)

	assert.Equal(t, 4, stats.TotalNodes)
	assert.Equal(t, 1, stats.MaxDepth)
	assert.Equal(t, 1, stats.ArrayCount)
	assert.Equal(t, 0, stats.ObjectCount)
	assert.Equal(t, 3, stats.PrimitiveCount)
	assert.Equal(t, 0, stats.NullCount)
}

func TestStatisticsNestedDocument(t *testing.T) {
	doc := mustParse(t, `{"a": {"b": [null, true]}}`)

	stats := Statistics(doc)

	assert.Equal(t, 5, stats.TotalNodes)
	assert.Equal(t, 3, stats.MaxDepth)
	assert.Equal(t, 2, stats.ObjectCount)
	assert.Equal(t, 1, stats.ArrayCount)
	assert.Equal(t, 1, stats.NullCount)
	assert.Equal(t, 1, stats.PrimitiveCount)
}

func TestStatisticsScalarRoot(t *testing.T) {
	doc := mustParse(t, `42`)

	stats := Statistics(doc)

	assert.Equal(t, 1, stats.TotalNodes)
	assert.Equal(t, 0, stats.MaxDepth)
	assert.Equal(t, 1, stats.PrimitiveCount)
}

func TestStatisticsDepthCap(t *testing.T) {
	// 150 nested arrays around a single number; traversal stops at depth 100
	text := strings.Repeat("[", 150) + "1" + strings.Repeat("]", 150)
	doc := mustParse(t, text)

	stats := Statistics(doc)

	assert.Equal(t, StatsMaxDepth, stats.MaxDepth)
	assert.Equal(t, StatsMaxDepth+1, stats.TotalNodes)
	assert.Equal(t, 0, stats.PrimitiveCount, "the innermost number is beyond the cap")
}

func TestSearchKeyTakesPrecedence(t *testing.T) {
	doc := mustParse(t, `{"name": "name"}`)

	matches := Search(doc, "name", false)

	require.Len(t, matches, 1)
	assert.Equal(t, MatchedKey, matches[0].MatchedOn)
	assert.Equal(t, `["name"]`, matches[0].Path.String())
}

func TestSearchValueMatch(t *testing.T) {
	doc := mustParse(t, `{"title": "the name"}`)

	matches := Search(doc, "name", false)

	require.Len(t, matches, 1)
	assert.Equal(t, MatchedValue, matches[0].MatchedOn)
	assert.Equal(t, models.String, matches[0].Value.Kind)
}

func TestSearchCaseSensitivity(t *testing.T) {
	doc := mustParse(t, `{"Name": "x"}`)

	assert.Len(t, Search(doc, "name", false), 1)
	assert.Empty(t, Search(doc, "name", true))
	assert.Len(t, Search(doc, "Name", true), 1)
}

func TestSearchDocumentOrder(t *testing.T) {
	doc := mustParse(t, `{"b": "z", "a": {"z": 1}}`)

	matches := Search(doc, "z", false)

	require.Len(t, matches, 2)
	assert.Equal(t, `["b"]`, matches[0].Path.String())
	assert.Equal(t, MatchedValue, matches[0].MatchedOn)
	assert.Equal(t, `["a","z"]`, matches[1].Path.String())
	assert.Equal(t, MatchedKey, matches[1].MatchedOn)
}

func TestSearchContainerMatchesByKeyOnly(t *testing.T) {
	doc := mustParse(t, `{"users": [1, 2]}`)

	matches := Search(doc, "users", false)

	require.Len(t, matches, 1)
	assert.Equal(t, MatchedKey, matches[0].MatchedOn)
	assert.Equal(t, models.Array, matches[0].Value.Kind)
}

func TestSearchStringifiedPrimitives(t *testing.T) {
	doc := mustParse(t, `{"n": 42, "flags": [true, null]}`)

	numeric := Search(doc, "42", false)
	require.Len(t, numeric, 1)
	assert.Equal(t, `["n"]`, numeric[0].Path.String())

	nulls := Search(doc, "null", false)
	require.Len(t, nulls, 1)
	assert.Equal(t, `["flags",1]`, nulls[0].Path.String())
}

func TestSearchEmptyTerm(t *testing.T) {
	doc := mustParse(t, `{"a": 1}`)

	assert.Nil(t, Search(doc, "", false))
}

func TestFlattenMatchesStatistics(t *testing.T) {
	doc := mustParse(t, `{"a": [1, {"b": null}], "c": "x"}`)

	entries := Flatten(doc, 0)
	stats := Statistics(doc)

	assert.Len(t, entries, stats.TotalNodes)
	assert.True(t, entries[0].Path.IsRoot())
	assert.Equal(t, "object", entries[0].Type)

	for _, e := range entries {
		got, ok := e.Path.Resolve(doc)
		require.True(t, ok, "path %s must resolve", e.Path)
		assert.True(t, got.Equal(e.Value), "path %s resolves to a different value", e.Path)
	}
}

func TestFlattenDepthLimit(t *testing.T) {
	doc := mustParse(t, `{"a": {"b": 1}}`)

	entries := Flatten(doc, 1)

	require.Len(t, entries, 2)
	assert.Equal(t, `[]`, entries[0].Path.String())
	assert.Equal(t, `["a"]`, entries[1].Path.String())
	assert.Equal(t, "object", entries[1].Type)
}

func TestFlattenPreOrder(t *testing.T) {
	doc := mustParse(t, `{"a": [10, 20], "b": true}`)

	entries := Flatten(doc, 0)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path.String())
	}
	assert.Equal(t, []string{`[]`, `["a"]`, `["a",0]`, `["a",1]`, `["b"]`}, paths)
}

func TestClassifyString(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"uuid", "123e4567-e89b-12d3-a456-426614174000", "uuid"},
		{"uuid uppercase", "123E4567-E89B-12D3-A456-426614174000", "uuid"},
		{"rfc3339", "2024-01-15T10:30:00Z", "timestamp"},
		{"rfc3339 nano", "2024-01-15T10:30:00.123456789Z", "timestamp"},
		{"date only", "2024-01-15", "timestamp"},
		{"date time", "2024-01-15 10:30:00", "timestamp"},
		{"email", "user@example.com", "email"},
		{"url", "https://example.com/path", "url"},
		{"plain string", "hello world", ""},
		{"empty", "", ""},
		{"truncated uuid", "123e4567-e89b-12d3-a456-42661417400", ""},
		{"braced uuid rejected", "{123e4567-e89b-12d3-a456-426614174000}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.ClassifyString(tt.input))
		})
	}
}

func TestClassifyStringDisabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Classify.Enabled = false
	c := NewClassifierWithConfig(cfg)

	assert.Equal(t, "", c.ClassifyString("user@example.com"))
}

func TestClassifyStringCustomRule(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Classify.Rules = append(cfg.Classify.Rules, config.ClassifyRule{
		Name:    "hexcolor",
		Pattern: `^#[0-9a-fA-F]{6}$`,
	})
	c := NewClassifierWithConfig(cfg)

	assert.Equal(t, "hexcolor", c.ClassifyString("#ff8800"))
}

func TestKindCounts(t *testing.T) {
	doc := mustParse(t, `{
		"id": "123e4567-e89b-12d3-a456-426614174000",
		"contacts": ["a@example.com", "b@example.com"],
		"site": "https://example.com",
		"note": "plain"
	}`)

	counts := NewClassifier().KindCounts(doc)

	assert.Equal(t, 1, counts["uuid"])
	assert.Equal(t, 2, counts["email"])
	assert.Equal(t, 1, counts["url"])
	assert.NotContains(t, counts, "")
}
