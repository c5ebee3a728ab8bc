package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/docpath"
	"github.com/jsonpeek/jsonpeek/internal/models"
	"github.com/jsonpeek/jsonpeek/internal/parser"
)

func mustParse(t *testing.T, text string) models.Value {
	t.Helper()
	outcome := parser.Parse(text)
	require.True(t, outcome.OK, "expected valid JSON: %s", text)
	return outcome.Doc
}

func selectionAt(t *testing.T, text string, segs ...docpath.Segment) Selection {
	t.Helper()
	doc := mustParse(t, text)
	path := docpath.Path(segs)
	value, ok := path.Resolve(doc)
	require.True(t, ok, "path %s must resolve", path)

	key := ""
	if len(segs) > 0 {
		key = segs[len(segs)-1].Label()
	}
	return Selection{Path: path, Value: value, Key: key, Doc: doc}
}

func snippetByTitle(t *testing.T, snippets []Snippet, title string) Snippet {
	t.Helper()
	for _, s := range snippets {
		if s.Title == title {
			return s
		}
	}
	t.Fatalf("no snippet titled %q", title)
	return Snippet{}
}

func TestGenerateRootSelection(t *testing.T) {
	sel := selectionAt(t, `{"a": 1}`)

	snippets := NewGenerator().Generate(sel, LangJavaScript)

	require.Len(t, snippets, 1)
	assert.Equal(t, "const value = data;", snippets[0].Code)
}

func TestGenerateGenericSet(t *testing.T) {
	sel := selectionAt(t, `{"user": {"name": "Ada"}}`,
		docpath.Key("user"), docpath.Key("name"))

	snippets := NewGenerator().Generate(sel, LangJavaScript)

	assert.Equal(t, "const name = data.user.name;",
		snippetByTitle(t, snippets, "Member access").Code)
	assert.Equal(t, `const name = data["user"]["name"];`,
		snippetByTitle(t, snippets, "Indexed access").Code)
	assert.Equal(t, "const name = data?.user?.name;",
		snippetByTitle(t, snippets, "Safe access").Code)
	assert.Equal(t, "const { name } = data.user;",
		snippetByTitle(t, snippets, "Destructure").Code)
	assert.Equal(t, `const name = data?.user?.name ?? "";`,
		snippetByTitle(t, snippets, "With fallback").Code)
}

func TestGenerateNoDestructureForShallowPath(t *testing.T) {
	sel := selectionAt(t, `{"name": "Ada"}`, docpath.Key("name"))

	snippets := NewGenerator().Generate(sel, LangJavaScript)

	for _, s := range snippets {
		assert.NotEqual(t, "Destructure", s.Title)
	}
}

func TestGenerateArrayDestructure(t *testing.T) {
	sel := selectionAt(t, `{"items": [10, 20]}`,
		docpath.Key("items"), docpath.Index(0))

	snippets := NewGenerator().Generate(sel, LangJavaScript)

	assert.Equal(t, "const [first] = data.items;",
		snippetByTitle(t, snippets, "Destructure").Code)
}

func TestGenerateObjectExamples(t *testing.T) {
	sel := selectionAt(t, `{"user": {"name": "Ada", "age": 36}}`,
		docpath.Key("user"))

	snippets := NewGenerator().Generate(sel, LangJavaScript)

	assert.Equal(t, "const keys = Object.keys(data.user);",
		snippetByTitle(t, snippets, "Object keys").Code)
	assert.Equal(t, "const values = Object.values(data.user);",
		snippetByTitle(t, snippets, "Object values").Code)
	assert.Equal(t, "const entries = Object.entries(data.user);",
		snippetByTitle(t, snippets, "Object entries").Code)
}

func TestGenerateArrayExamples(t *testing.T) {
	sel := selectionAt(t, `{"items": [1, 2, 3]}`, docpath.Key("items"))

	snippets := NewGenerator().Generate(sel, LangJavaScript)

	assert.Contains(t, snippetByTitle(t, snippets, "First and last").Code,
		"data.items[data.items.length - 1]")
	assert.Equal(t, "const filtered = data.items.filter(item => item != null);",
		snippetByTitle(t, snippets, "Filter elements").Code)
}

func TestGenerateNumericArrayContext(t *testing.T) {
	sel := selectionAt(t, `{"users": [{"age": 41}, {"age": 52}]}`,
		docpath.Key("users"), docpath.Index(1), docpath.Key("age"))

	snippets := NewGenerator().Generate(sel, LangJavaScript)

	assert.Equal(t, "const age = data.users[1].age;",
		snippetByTitle(t, snippets, "Access this value").Code)
	assert.Equal(t, "const ages = data.users.map(item => item.age);",
		snippetByTitle(t, snippets, "Map all elements").Code)
	assert.Equal(t, "const filtered = data.users.filter(item => item.age > 52);",
		snippetByTitle(t, snippets, "Filter elements").Code)
	assert.Equal(t, "const total = data.users.reduce((sum, item) => sum + item.age, 0);",
		snippetByTitle(t, snippets, "Sum values").Code)
	assert.Equal(t, "const sorted = [...data.users].sort((a, b) => a.age - b.age);",
		snippetByTitle(t, snippets, "Sort numerically").Code)
	assert.Contains(t, snippetByTitle(t, snippets, "Sort as text").Code, "localeCompare")
	assert.Equal(t, "const found = data.users.find(item => item.age === 52);",
		snippetByTitle(t, snippets, "Find one element").Code)
}

func TestGenerateStringArrayContext(t *testing.T) {
	sel := selectionAt(t, `{"users": [{"name": "Ada"}]}`,
		docpath.Key("users"), docpath.Index(0), docpath.Key("name"))

	snippets := NewGenerator().Generate(sel, LangJavaScript)

	assert.Equal(t, `const filtered = data.users.filter(item => item.name === "Ada");`,
		snippetByTitle(t, snippets, "Filter elements").Code)

	// Numeric-only snippets stay out of string contexts
	for _, s := range snippets {
		assert.NotEqual(t, "Sum values", s.Title)
	}
}

func TestGenerateBooleanArrayContext(t *testing.T) {
	sel := selectionAt(t, `{"users": [{"active": true}]}`,
		docpath.Key("users"), docpath.Index(0), docpath.Key("active"))

	snippets := NewGenerator().Generate(sel, LangJavaScript)

	assert.Equal(t, "const filtered = data.users.filter(item => item.active);",
		snippetByTitle(t, snippets, "Filter elements").Code)
}

func TestGenerateInnermostArrayWins(t *testing.T) {
	sel := selectionAt(t, `{"teams": [{"members": [{"score": 7}]}]}`,
		docpath.Key("teams"), docpath.Index(0),
		docpath.Key("members"), docpath.Index(0), docpath.Key("score"))

	snippets := NewGenerator().Generate(sel, LangJavaScript)

	assert.Equal(t, "const scores = data.teams[0].members.map(item => item.score);",
		snippetByTitle(t, snippets, "Map all elements").Code)
}

func TestGenerateElementWithoutTailUsesGenericSet(t *testing.T) {
	sel := selectionAt(t, `{"users": [{"name": "Ada"}]}`,
		docpath.Key("users"), docpath.Index(0))

	snippets := NewGenerator().Generate(sel, LangJavaScript)

	// Selecting the element itself has no trailing property, so there is
	// no array context to map over.
	assert.Equal(t, "const user = data.users[0];",
		snippetByTitle(t, snippets, "Member access").Code)
	assert.Equal(t, "const keys = Object.keys(data.users[0]);",
		snippetByTitle(t, snippets, "Object keys").Code)
}

func TestGenerateOddKeyNotation(t *testing.T) {
	sel := selectionAt(t, `{"odd key": 1}`, docpath.Key("odd key"))

	snippets := NewGenerator().Generate(sel, LangJavaScript)

	assert.Equal(t, "const oddKey = data['odd key'];",
		snippetByTitle(t, snippets, "Member access").Code)
	assert.Equal(t, `const oddKey = data["odd key"];`,
		snippetByTitle(t, snippets, "Indexed access").Code)
	assert.Equal(t, "const oddKey = data?.['odd key'];",
		snippetByTitle(t, snippets, "Safe access").Code)
}

func TestGenerateCustomRootBinding(t *testing.T) {
	cfg := config.NewConfig()
	cfg.RootBinding = "payload"
	sel := selectionAt(t, `{"user": {"name": "Ada"}}`,
		docpath.Key("user"), docpath.Key("name"))

	snippets := NewGeneratorWithConfig(cfg).Generate(sel, LangJavaScript)

	assert.Equal(t, "const name = payload.user.name;",
		snippetByTitle(t, snippets, "Member access").Code)
}

func TestGenerateGoMode(t *testing.T) {
	sel := selectionAt(t, `{"users": [{"age": 41}, {"age": 52}]}`,
		docpath.Key("users"), docpath.Index(1), docpath.Key("age"))

	snippets := NewGenerator().Generate(sel, LangGo)

	get := snippetByTitle(t, snippets, "Get value")
	assert.Contains(t, get.Code, `gjson.Get(jsonStr, "users.1.age")`)
	assert.Contains(t, get.Code, "value.Float()")

	collect := snippetByTitle(t, snippets, "Collect all values")
	assert.Contains(t, collect.Code, `"users.#.age"`)

	query := snippetByTitle(t, snippets, "Query elements")
	assert.Contains(t, query.Code, `"users.#(age>52)#"`)
}

func TestGenerateGoModeRoot(t *testing.T) {
	sel := selectionAt(t, `[1, 2]`)

	snippets := NewGenerator().Generate(sel, LangGo)

	require.Len(t, snippets, 1)
	assert.Contains(t, snippets[0].Code, "gjson.Parse(jsonStr)")
}

func TestGenerateDefaultLanguageFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Snippets.Language = LangGo
	sel := selectionAt(t, `{"a": 1}`, docpath.Key("a"))

	snippets := NewGeneratorWithConfig(cfg).Generate(sel, "")

	assert.Contains(t, snippets[0].Code, "gjson.Get")
}

func TestGjsonPathEscaping(t *testing.T) {
	path := docpath.Path{docpath.Key("a.b"), docpath.Index(0), docpath.Key("c")}

	assert.Equal(t, `a\.b.0.c`, GjsonPath(path))
}
