// Package codegen turns a document selection into ready-to-paste access
// snippets. JavaScript is the primary target; a compact Go set built on
// gjson sits behind a language toggle.
package codegen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"

	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/docpath"
	"github.com/jsonpeek/jsonpeek/internal/models"
)

// Supported snippet languages
const (
	LangJavaScript = "javascript"
	LangGo         = "go"
)

// Selection is what the user picked in a visualizer: the path, the value
// found there, the key or index label of the node, and the document it
// belongs to. Selections are ephemeral and replaced wholesale.
type Selection struct {
	Path  docpath.Path
	Value models.Value
	Key   string
	Doc   models.Value
}

// Snippet is one generated access example.
type Snippet struct {
	Title       string
	Code        string
	Description string
}

// arrayContext describes the innermost array the selected path passes
// through, with at least one segment remaining after the index.
type arrayContext struct {
	arrayPath    docpath.Path
	propertyPath docpath.Path
	element      models.Value
}

// Generator builds snippet sets for selections
type Generator struct {
	config *config.Config
}

// NewGenerator creates a Generator with default configuration
func NewGenerator() *Generator {
	return NewGeneratorWithConfig(config.NewConfig())
}

// NewGeneratorWithConfig creates a Generator with custom configuration
func NewGeneratorWithConfig(cfg *config.Config) *Generator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Generator{config: cfg}
}

// Generate builds the snippet set for a selection in the given language.
// An empty lang falls back to the configured default.
func (g *Generator) Generate(sel Selection, lang string) []Snippet {
	if lang == "" {
		lang = g.config.Snippets.Language
	}
	if lang == LangGo {
		return g.goSnippets(sel)
	}
	return g.jsSnippets(sel)
}

func (g *Generator) rootBinding() string {
	if g.config.RootBinding != "" {
		return g.config.RootBinding
	}
	return docpath.DefaultRoot
}

func (g *Generator) jsSnippets(sel Selection) []Snippet {
	root := g.rootBinding()

	if sel.Path.IsRoot() {
		return []Snippet{{
			Title:       "Access document",
			Code:        fmt.Sprintf("const value = %s;", root),
			Description: "The whole parsed document",
		}}
	}

	if ctx, ok := arrayContextOf(sel); ok {
		return g.jsArraySnippets(sel, ctx)
	}
	return g.jsGenericSnippets(sel)
}

// arrayContextOf finds the innermost index segment that still has segments
// after it. Selections directly on an array element (no trailing property)
// use the generic set instead.
func arrayContextOf(sel Selection) (arrayContext, bool) {
	for i := len(sel.Path) - 1; i >= 0; i-- {
		seg := sel.Path[i]
		if seg.IsKey() || i == len(sel.Path)-1 {
			continue
		}
		arrayPath := sel.Path[:i]
		arr, ok := arrayPath.Resolve(sel.Doc)
		if !ok || arr.Kind != models.Array {
			continue
		}
		element, ok := arr.At(seg.Index())
		if !ok {
			element, _ = arr.At(0)
		}
		return arrayContext{
			arrayPath:    arrayPath,
			propertyPath: sel.Path[i+1:],
			element:      element,
		}, true
	}
	return arrayContext{}, false
}

func (g *Generator) jsArraySnippets(sel Selection, ctx arrayContext) []Snippet {
	root := g.rootBinding()
	arrExpr := ctx.arrayPath.Notations(root).Member
	itemProp := ctx.propertyPath.Notations("item").Member
	selExpr := sel.Path.Notations(root).Member
	propName := lastKeyOf(ctx.propertyPath)
	if propName == "" {
		propName = "value"
	}
	mapped := pluralize(identifier(propName))

	snippets := []Snippet{
		{
			Title:       "Access this value",
			Code:        fmt.Sprintf("const %s = %s;", identifier(propName), selExpr),
			Description: "Direct access to the selected element's property",
		},
		{
			Title:       "Map all elements",
			Code:        fmt.Sprintf("const %s = %s.map(item => %s);", mapped, arrExpr, itemProp),
			Description: fmt.Sprintf("Collect %s from every element", itemProp),
		},
		{
			Title:       "Filter elements",
			Code:        fmt.Sprintf("const filtered = %s.filter(item => %s);", arrExpr, filterPredicate(itemProp, sel.Value)),
			Description: "Keep elements matching the selected value",
		},
		{
			Title:       "Iterate elements",
			Code:        fmt.Sprintf("%s.forEach(item => {\n  console.log(%s);\n});", arrExpr, itemProp),
			Description: "Visit every element in order",
		},
		{
			Title:       "Find one element",
			Code:        fmt.Sprintf("const found = %s.find(item => %s);", arrExpr, findPredicate(itemProp, sel.Value)),
			Description: "First element matching the selected value",
		},
	}

	if sel.Value.Kind == models.Number {
		lit := jsLiteral(sel.Value)
		snippets = append(snippets,
			Snippet{
				Title:       "Sum values",
				Code:        fmt.Sprintf("const total = %s.reduce((sum, item) => sum + %s, 0);", arrExpr, itemProp),
				Description: fmt.Sprintf("Total of %s across all elements", itemProp),
			},
			Snippet{
				Title:       "Min and max",
				Code:        fmt.Sprintf("const min = Math.min(...%s.map(item => %s));\nconst max = Math.max(...%s.map(item => %s));", arrExpr, itemProp, arrExpr, itemProp),
				Description: "Smallest and largest value",
			},
			Snippet{
				Title:       "Some and every",
				Code:        fmt.Sprintf("const any = %s.some(item => %s > %s);\nconst all = %s.every(item => %s > %s);", arrExpr, itemProp, lit, arrExpr, itemProp, lit),
				Description: "Whether some or all elements exceed the selected value",
			},
			Snippet{
				Title:       "Sort numerically",
				Code:        fmt.Sprintf("const sorted = [...%s].sort((a, b) => %s - %s);", arrExpr, propOn("a", ctx.propertyPath), propOn("b", ctx.propertyPath)),
				Description: "Ascending by numeric subtraction; copy keeps the original order",
			},
			Snippet{
				Title:       "Sort as text",
				Code:        fmt.Sprintf("const sorted = [...%s].sort((a, b) => String(%s).localeCompare(String(%s)));", arrExpr, propOn("a", ctx.propertyPath), propOn("b", ctx.propertyPath)),
				Description: "Locale-aware string ordering",
			},
		)
	}

	return snippets
}

func (g *Generator) jsGenericSnippets(sel Selection) []Snippet {
	root := g.rootBinding()
	n := sel.Path.Notations(root)
	name := variableName(sel)

	snippets := []Snippet{
		{
			Title:       "Member access",
			Code:        fmt.Sprintf("const %s = %s;", name, n.Member),
			Description: "Dot notation where keys allow it",
		},
		{
			Title:       "Indexed access",
			Code:        fmt.Sprintf("const %s = %s;", name, n.Indexed),
			Description: "Bracket notation works for any key",
		},
		{
			Title:       "Safe access",
			Code:        fmt.Sprintf("const %s = %s;", name, n.Safe),
			Description: "Optional chaining tolerates missing parents",
		},
	}

	switch sel.Value.Kind {
	case models.Array:
		snippets = append(snippets,
			Snippet{
				Title:       "Map elements",
				Code:        fmt.Sprintf("const mapped = %s.map(item => item);", n.Member),
				Description: "Transform every element",
			},
			Snippet{
				Title:       "Filter elements",
				Code:        fmt.Sprintf("const filtered = %s.filter(item => item != null);", n.Member),
				Description: "Drop null and undefined elements",
			},
			Snippet{
				Title:       "Reduce elements",
				Code:        fmt.Sprintf("const count = %s.reduce((acc, item) => acc + 1, 0);", n.Member),
				Description: "Fold the array into a single value",
			},
			Snippet{
				Title:       "First and last",
				Code:        fmt.Sprintf("const first = %s[0];\nconst last = %s[%s.length - 1];", n.Member, n.Member, n.Member),
				Description: "Boundary elements",
			},
		)
	case models.Object:
		snippets = append(snippets,
			Snippet{
				Title:       "Object keys",
				Code:        fmt.Sprintf("const keys = Object.keys(%s);", n.Member),
				Description: "Key names in insertion order",
			},
			Snippet{
				Title:       "Object values",
				Code:        fmt.Sprintf("const values = Object.values(%s);", n.Member),
				Description: "Member values in insertion order",
			},
			Snippet{
				Title:       "Object entries",
				Code:        fmt.Sprintf("const entries = Object.entries(%s);", n.Member),
				Description: "Key/value pairs for iteration",
			},
		)
	}

	if destructure, ok := destructureSnippet(sel, root); ok {
		snippets = append(snippets, destructure)
	}

	snippets = append(snippets, Snippet{
		Title:       "With fallback",
		Code:        fmt.Sprintf("const %s = %s ?? %s;", name, n.Safe, fallbackLiteral(sel.Value)),
		Description: "Safe access with a type-appropriate default",
	})

	return snippets
}

// destructureSnippet builds the destructuring form for paths deeper than
// one segment: object form for key tails, array form for index-0 tails.
func destructureSnippet(sel Selection, root string) (Snippet, bool) {
	if len(sel.Path) < 2 {
		return Snippet{}, false
	}
	last := sel.Path[len(sel.Path)-1]
	parent := sel.Path[:len(sel.Path)-1].Notations(root).Member

	switch {
	case last.IsKey() && docpath.IsBareIdentifier(last.Key()):
		return Snippet{
			Title:       "Destructure",
			Code:        fmt.Sprintf("const { %s } = %s;", last.Key(), parent),
			Description: "Pull the member out of its parent object",
		}, true
	case !last.IsKey() && last.Index() == 0:
		return Snippet{
			Title:       "Destructure",
			Code:        fmt.Sprintf("const [first] = %s;", parent),
			Description: "Pull the first element out of its parent array",
		}, true
	}
	return Snippet{}, false
}

func (g *Generator) goSnippets(sel Selection) []Snippet {
	gpath := GjsonPath(sel.Path)

	if sel.Path.IsRoot() {
		return []Snippet{{
			Title:       "Parse document",
			Code:        "result := gjson.Parse(jsonStr)\nfmt.Println(result.Type)",
			Description: "jsonStr holds the raw document text",
		}}
	}

	snippets := []Snippet{
		{
			Title:       "Get value",
			Code:        fmt.Sprintf("value := gjson.Get(jsonStr, %q)\nfmt.Println(value.%s)", gpath, gjsonAccessor(sel.Value)),
			Description: "jsonStr holds the raw document text",
		},
		{
			Title:       "Check existence",
			Code:        fmt.Sprintf("if gjson.Get(jsonStr, %q).Exists() {\n\t// value is present\n}", gpath),
			Description: "Missing paths return a zero Result, never an error",
		},
	}

	if ctx, ok := arrayContextOf(sel); ok {
		arrPath := GjsonPath(ctx.arrayPath)
		propPath := GjsonPath(ctx.propertyPath)
		snippets = append(snippets,
			Snippet{
				Title: "Iterate elements",
				Code: fmt.Sprintf("gjson.Get(jsonStr, %q).ForEach(func(_, item gjson.Result) bool {\n\tfmt.Println(item.Get(%q).String())\n\treturn true\n})",
					arrPath, propPath),
				Description: "Visit every element in order",
			},
			Snippet{
				Title:       "Collect all values",
				Code:        fmt.Sprintf("values := gjson.Get(jsonStr, %q).Array()", arrPath+".#."+propPath),
				Description: "The # wildcard maps the property across the array",
			},
		)
		if sel.Value.Kind == models.Number {
			query := fmt.Sprintf("%s.#(%s>%s)#", arrPath, propPath, sel.Value.Num.String())
			snippets = append(snippets, Snippet{
				Title:       "Query elements",
				Code:        fmt.Sprintf("matches := gjson.Get(jsonStr, %q).Array()", query),
				Description: "Elements whose value exceeds the selected one",
			})
		}
	}

	return snippets
}

// GjsonPath renders a path in gjson's dotted syntax, escaping characters
// gjson treats specially inside keys.
func GjsonPath(p docpath.Path) string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		if seg.IsKey() {
			b.WriteString(escapeGjsonKey(seg.Key()))
		} else {
			b.WriteString(strconv.Itoa(seg.Index()))
		}
	}
	return b.String()
}

func escapeGjsonKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '\\', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteByte(key[i])
	}
	return b.String()
}

func gjsonAccessor(v models.Value) string {
	switch v.Kind {
	case models.Number:
		return "Float()"
	case models.Boolean:
		return "Bool()"
	default:
		return "String()"
	}
}

func filterPredicate(itemProp string, v models.Value) string {
	switch v.Kind {
	case models.Number:
		return fmt.Sprintf("%s > %s", itemProp, jsLiteral(v))
	case models.String:
		return fmt.Sprintf("%s === %s", itemProp, jsLiteral(v))
	case models.Boolean:
		return itemProp
	default:
		return fmt.Sprintf("%s != null", itemProp)
	}
}

func findPredicate(itemProp string, v models.Value) string {
	switch v.Kind {
	case models.Number, models.String, models.Boolean:
		return fmt.Sprintf("%s === %s", itemProp, jsLiteral(v))
	default:
		return fmt.Sprintf("%s != null", itemProp)
	}
}

// jsLiteral renders the selected value as a JavaScript literal.
func jsLiteral(v models.Value) string {
	switch v.Kind {
	case models.String:
		return strconv.Quote(v.Str)
	case models.Number:
		return v.Num.String()
	case models.Boolean:
		return strconv.FormatBool(v.Bool)
	default:
		return "null"
	}
}

// fallbackLiteral picks a type-appropriate default for the ?? form.
func fallbackLiteral(v models.Value) string {
	switch v.Kind {
	case models.String:
		return `""`
	case models.Number:
		return "0"
	case models.Boolean:
		return "false"
	case models.Array:
		return "[]"
	case models.Object:
		return "{}"
	default:
		return "null"
	}
}

// propOn renders the property tail against a different receiver variable,
// for comparator bodies.
func propOn(receiver string, propertyPath docpath.Path) string {
	return propertyPath.Notations(receiver).Member
}

// variableName derives a camel-cased identifier from the nearest key on
// the selected path. Selections landing on an array element take the
// singular of the enclosing array's key.
func variableName(sel Selection) string {
	if len(sel.Path) > 0 && !sel.Path[len(sel.Path)-1].IsKey() {
		if key := lastKeyOf(sel.Path); key != "" {
			return identifier(singularize(key))
		}
		return "item"
	}
	name := lastKeyOf(sel.Path)
	if name == "" {
		if sel.Value.Kind == models.Array {
			return "items"
		}
		return "value"
	}
	return identifier(name)
}

// knownSingulars handles common irregular plurals
var knownSingulars = map[string]string{
	"people":   "person",
	"children": "child",
	"men":      "man",
	"women":    "woman",
	"feet":     "foot",
	"teeth":    "tooth",
	"mice":     "mouse",
	"geese":    "goose",
}

func singularize(name string) string {
	if singular, ok := knownSingulars[strings.ToLower(name)]; ok {
		return singular
	}
	switch {
	case strings.HasSuffix(name, "ies") && len(name) > 3:
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(name, "ses") || strings.HasSuffix(name, "xes") ||
		strings.HasSuffix(name, "zes") || strings.HasSuffix(name, "ches") ||
		strings.HasSuffix(name, "shes"):
		return name[:len(name)-2]
	case strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss") && len(name) > 1:
		return name[:len(name)-1]
	}
	return name
}

// lastKeyOf walks backward to the nearest key segment.
func lastKeyOf(p docpath.Path) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].IsKey() {
			return p[i].Key()
		}
	}
	return ""
}

// identifier lower-camels a key and strips anything that cannot appear in
// a JavaScript identifier.
func identifier(key string) string {
	name := strcase.ToLowerCamel(key)

	var b strings.Builder
	for i, r := range name {
		switch {
		case unicode.IsLetter(r) || r == '_' || r == '$':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "value"
	}
	return b.String()
}

func pluralize(name string) string {
	if name == "" {
		return "items"
	}
	if strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}
