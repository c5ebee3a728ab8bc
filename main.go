package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	stderrors "errors"

	"github.com/alecthomas/kong"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jsonpeek/jsonpeek/internal/analyzer"
	"github.com/jsonpeek/jsonpeek/internal/codegen"
	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/docpath"
	"github.com/jsonpeek/jsonpeek/internal/errors"
	"github.com/jsonpeek/jsonpeek/internal/formatter"
	"github.com/jsonpeek/jsonpeek/internal/logging"
	"github.com/jsonpeek/jsonpeek/internal/markdown"
	"github.com/jsonpeek/jsonpeek/internal/models"
	"github.com/jsonpeek/jsonpeek/internal/parser"
	"github.com/jsonpeek/jsonpeek/internal/repair"
	"github.com/jsonpeek/jsonpeek/internal/schema"
	"github.com/jsonpeek/jsonpeek/internal/tui"
)

// CLI defines the command-line interface
var CLI struct {
	Config  string           `help:"Path to a config file." short:"c" type:"path"`
	Verbose bool             `help:"Enable debug logging." short:"v"`
	Version kong.VersionFlag `help:"Show version information." short:"V"`

	View     ViewCmd     `cmd:"" default:"withargs" help:"Open the interactive viewer (default command)."`
	Check    CheckCmd    `cmd:"" help:"Report whether a document parses, with the error position when it does not."`
	Repair   RepairCmd   `cmd:"" help:"Repair malformed JSON and print the result."`
	Fmt      FmtCmd      `cmd:"" help:"Pretty-print or compact a document."`
	Stats    StatsCmd    `cmd:"" help:"Print structural statistics for a document."`
	Search   SearchCmd   `cmd:"" help:"Search keys and values for a substring."`
	Flatten  FlattenCmd  `cmd:"" help:"List every node as a path, type and value row."`
	Query    QueryCmd    `cmd:"" help:"Extract a value with a gjson path."`
	Set      SetCmd      `cmd:"" help:"Apply one edit with a gjson path and print the document."`
	Snippets SnippetsCmd `cmd:"" help:"Print access snippets for a node."`
	Schema   SchemaCmd   `cmd:"" help:"Infer a JSON Schema skeleton."`
	Markdown MarkdownCmd `cmd:"" help:"Render a markdown file to HTML."`
}

// Context holds the runtime context shared by every command.
type Context struct {
	Config *config.Config
	Stdout io.Writer
	Stderr io.Writer
}

// exitError requests a specific exit status after the command already
// reported its result on the usual streams.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Version information
const (
	Version = "0.1.0"
)

func main() {
	k := kong.Must(&CLI,
		kong.Name("jsonpeek"),
		kong.Description("Inspect, repair and explore JSON documents"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("jsonpeek version %s", Version)},
	)

	ctx, err := k.Parse(os.Args[1:])
	if err != nil {
		// kong.UsageOnError() has already printed the usage
		os.Exit(1)
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError("failed to load configuration", err)))
		os.Exit(1)
	}
	if CLI.Verbose {
		cfg.Log.Level = "debug"
	}
	logging.Init(cfg)
	logging.L().Debugw("command dispatch", "command", ctx.Command())

	app := &Context{Config: cfg, Stdout: os.Stdout, Stderr: os.Stderr}
	if err := ctx.Run(app); err != nil {
		logging.Sync()
		var ee exitError
		if stderrors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
	logging.Sync()
}

// ViewCmd opens the TUI, seeded from a file or piped stdin when present.
type ViewCmd struct {
	File string `arg:"" optional:"" help:"Document to open ('-' for stdin)."`
}

func (c *ViewCmd) Run(app *Context) error {
	text := ""
	if c.File != "" {
		t, err := readDocument(c.File)
		if err != nil {
			return err
		}
		text = t
	} else if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return errors.NewInputError("failed to read from stdin", err)
		}
		text = string(data)
	}
	return tui.Run(app.Config, text)
}

// CheckCmd prints a parse verdict and exits non-zero on invalid input.
type CheckCmd struct {
	File string `arg:"" help:"Document to check ('-' for stdin)."`
}

func (c *CheckCmd) Run(app *Context) error {
	text, err := readDocument(c.File)
	if err != nil {
		return err
	}

	out := parser.Parse(text)
	if !out.OK {
		fmt.Fprintf(app.Stdout, "invalid: %s\n", out.Err.Error())
		return exitError{code: 1}
	}

	st := analyzer.Statistics(out.Doc)
	p := message.NewPrinter(language.English)
	p.Fprintf(app.Stdout, "valid: %d nodes, depth %d\n", st.TotalNodes, st.MaxDepth)
	return nil
}

// RepairCmd runs the repair engine. Records go to stderr, the repaired
// text to stdout or the -o file.
type RepairCmd struct {
	File   string `arg:"" help:"Document to repair ('-' for stdin)."`
	Output string `help:"Write the repaired document to this file instead of stdout." short:"o"`
	Check  bool   `help:"Report repairs without writing output; exit 1 when any were needed."`
}

func (c *RepairCmd) Run(app *Context) error {
	text, err := readDocument(c.File)
	if err != nil {
		return err
	}

	out := repair.Repair(text)
	for _, rec := range out.Records {
		fmt.Fprintf(app.Stderr, "repair: %s\n", rec)
	}
	logging.L().Infow("repair finished", "changes", len(out.Records))

	if c.Check {
		if len(out.Records) > 0 {
			return exitError{code: 1}
		}
		return nil
	}

	if c.Output != "" {
		if err := os.WriteFile(c.Output, []byte(out.Text), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", c.Output), err)
		}
		fmt.Fprintf(app.Stderr, "Repaired document written to %s\n", c.Output)
		return nil
	}
	fmt.Fprintln(app.Stdout, out.Text)
	return nil
}

// FmtCmd pretty-prints or compacts a valid document.
type FmtCmd struct {
	File    string `arg:"" help:"Document to format ('-' for stdin)."`
	Indent  int    `help:"Spaces per indent level (overrides config)." default:"0"`
	Compact bool   `help:"Strip all insignificant whitespace instead of pretty-printing."`
	Color   bool   `help:"Force ANSI colors on."`
}

func (c *FmtCmd) Run(app *Context) error {
	text, err := readDocument(c.File)
	if err != nil {
		return err
	}
	if out := parser.Parse(text); !out.OK {
		return errors.NewParsingError("cannot format invalid JSON", out.Err)
	}

	cfg := *app.Config
	if c.Indent > 0 {
		cfg.Output.Indent = c.Indent
	}
	if c.Color {
		cfg.Output.Color = "always"
	}
	f := formatter.NewFormatterWithConfig(&cfg)

	result := ""
	if c.Compact {
		result = f.Compact(text)
	} else {
		result = f.Format(text)
	}
	if f.ShouldColor(stdoutIsTerminal()) {
		result = f.Colorize(result)
	}
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	fmt.Fprint(app.Stdout, result)
	return nil
}

// StatsCmd prints node counts and depth, optionally with string kinds.
type StatsCmd struct {
	File  string `arg:"" help:"Document to analyze ('-' for stdin)."`
	Kinds bool   `help:"Include classified string kind counts."`
}

func (c *StatsCmd) Run(app *Context) error {
	doc, err := parseDocument(c.File)
	if err != nil {
		return err
	}

	st := analyzer.Statistics(doc)
	p := message.NewPrinter(language.English)
	p.Fprintf(app.Stdout, "nodes:      %d\n", st.TotalNodes)
	p.Fprintf(app.Stdout, "depth:      %d\n", st.MaxDepth)
	p.Fprintf(app.Stdout, "objects:    %d\n", st.ObjectCount)
	p.Fprintf(app.Stdout, "arrays:     %d\n", st.ArrayCount)
	p.Fprintf(app.Stdout, "primitives: %d\n", st.PrimitiveCount)
	p.Fprintf(app.Stdout, "nulls:      %d\n", st.NullCount)

	if c.Kinds {
		counts := analyzer.NewClassifierWithConfig(app.Config).KindCounts(doc)
		if len(counts) > 0 {
			keys := make([]string, 0, len(counts))
			for k := range counts {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(app.Stdout, "kinds:")
			for _, k := range keys {
				p.Fprintf(app.Stdout, "  %s: %d\n", k, counts[k])
			}
		}
	}
	return nil
}

// SearchCmd lists nodes whose key or value contains a term.
type SearchCmd struct {
	File          string `arg:"" help:"Document to search ('-' for stdin)."`
	Term          string `arg:"" help:"Substring to look for."`
	CaseSensitive bool   `help:"Match case exactly."`
	Max           int    `help:"Maximum number of matches to print (overrides config)." default:"0"`
}

func (c *SearchCmd) Run(app *Context) error {
	doc, err := parseDocument(c.File)
	if err != nil {
		return err
	}

	limit := c.Max
	if limit <= 0 {
		limit = app.Config.Search.MaxResults
	}
	caseSensitive := c.CaseSensitive || app.Config.Search.CaseSensitive

	matches := analyzer.Search(doc, c.Term, caseSensitive)
	shown := matches
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for _, m := range shown {
		path := m.Path.Notations(app.Config.RootBinding).Member
		fmt.Fprintf(app.Stdout, "%s\t%s\t%s\n", path, m.MatchedOn, preview(m.Value))
	}
	if len(matches) > len(shown) {
		fmt.Fprintf(app.Stderr, "%d more matches not shown\n", len(matches)-len(shown))
	}
	return nil
}

// FlattenCmd prints one path/type/value row per node.
type FlattenCmd struct {
	File     string `arg:"" help:"Document to flatten ('-' for stdin)."`
	MaxDepth int    `help:"Deepest level to descend to (overrides config)." default:"0"`
}

func (c *FlattenCmd) Run(app *Context) error {
	doc, err := parseDocument(c.File)
	if err != nil {
		return err
	}

	depth := c.MaxDepth
	if depth <= 0 {
		depth = app.Config.Table.MaxDepth
	}
	for _, e := range analyzer.Flatten(doc, depth) {
		path := e.Path.Notations(app.Config.RootBinding).Member
		fmt.Fprintf(app.Stdout, "%s\t%s\t%s\n", path, e.Type, preview(e.Value))
	}
	return nil
}

// QueryCmd extracts the raw JSON at a gjson path.
type QueryCmd struct {
	File   string `arg:"" help:"Document to query ('-' for stdin)."`
	Path   string `arg:"" help:"gjson path, e.g. users.0.name or users.#.name."`
	Repair bool   `help:"Repair the document before querying."`
}

func (c *QueryCmd) Run(app *Context) error {
	text, err := readDocument(c.File)
	if err != nil {
		return err
	}
	if c.Repair {
		text = repair.Repair(text).Text
	}
	if out := parser.Parse(text); !out.OK {
		return errors.NewParsingError("cannot query invalid JSON", out.Err)
	}

	res := gjson.Get(text, c.Path)
	if !res.Exists() {
		return errors.NewQueryError(fmt.Sprintf("path %q matched nothing", c.Path), errors.ErrPathNotFound)
	}
	fmt.Fprintln(app.Stdout, res.Raw)
	return nil
}

// SetCmd applies one edit at a gjson path and prints the whole document.
// A value that parses as JSON is spliced in raw; anything else becomes a
// string.
type SetCmd struct {
	File  string `arg:"" help:"Document to edit ('-' for stdin)."`
	Path  string `arg:"" help:"gjson path to set."`
	Value string `arg:"" help:"New value, as JSON or a bare string."`
}

func (c *SetCmd) Run(app *Context) error {
	text, err := readDocument(c.File)
	if err != nil {
		return err
	}
	if out := parser.Parse(text); !out.OK {
		return errors.NewParsingError("cannot edit invalid JSON", out.Err)
	}

	updated := ""
	var setErr error
	if parser.Parse(c.Value).OK {
		updated, setErr = sjson.SetRaw(text, c.Path, c.Value)
	} else {
		updated, setErr = sjson.Set(text, c.Path, c.Value)
	}
	if setErr != nil {
		return errors.NewQueryError(fmt.Sprintf("failed to set path %q", c.Path), setErr)
	}
	fmt.Fprintln(app.Stdout, updated)
	return nil
}

// SnippetsCmd prints access snippets for a node addressed by path
// expression.
type SnippetsCmd struct {
	File string `arg:"" help:"Document to read ('-' for stdin)."`
	Path string `arg:"" optional:"" help:"Node to target, e.g. users[0].name (defaults to the root)."`
	Lang string `help:"Snippet language (overrides config)." enum:"js,go," default:""`
}

func (c *SnippetsCmd) Run(app *Context) error {
	doc, err := parseDocument(c.File)
	if err != nil {
		return err
	}

	path := docpath.Path{}
	if c.Path != "" {
		path, err = docpath.Parse(c.Path)
		if err != nil {
			return err
		}
	}
	val, ok := path.Resolve(doc)
	if !ok {
		return errors.NewPathError(fmt.Sprintf("path %q does not exist in the document", c.Path), errors.ErrPathNotFound)
	}

	lang := app.Config.Snippets.Language
	switch c.Lang {
	case "js":
		lang = codegen.LangJavaScript
	case "go":
		lang = codegen.LangGo
	}

	key := ""
	if n := len(path); n > 0 && path[n-1].IsKey() {
		key = path[n-1].Key()
	}
	sel := codegen.Selection{Path: path, Value: val, Key: key, Doc: doc}

	for _, sn := range codegen.NewGeneratorWithConfig(app.Config).Generate(sel, lang) {
		fmt.Fprintf(app.Stdout, "# %s\n", sn.Title)
		if sn.Description != "" {
			fmt.Fprintf(app.Stdout, "# %s\n", sn.Description)
		}
		fmt.Fprintln(app.Stdout, sn.Code)
		fmt.Fprintln(app.Stdout)
	}
	return nil
}

// SchemaCmd prints an inferred JSON Schema skeleton.
type SchemaCmd struct {
	File string `arg:"" help:"Document to infer from ('-' for stdin)."`
}

func (c *SchemaCmd) Run(app *Context) error {
	doc, err := parseDocument(c.File)
	if err != nil {
		return err
	}

	text, err := formatter.NewFormatterWithConfig(app.Config).FormatValue(schema.Infer(doc))
	if err != nil {
		return errors.NewOutputError("failed to serialize schema", err)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	fmt.Fprint(app.Stdout, text)
	return nil
}

// MarkdownCmd renders a markdown file to HTML.
type MarkdownCmd struct {
	File   string `arg:"" help:"Markdown file to render ('-' for stdin)."`
	Output string `help:"Write the HTML to this file instead of stdout." short:"o"`
}

func (c *MarkdownCmd) Run(app *Context) error {
	src, err := readDocument(c.File)
	if err != nil {
		return err
	}

	html, err := markdown.NewRendererWithConfig(app.Config).Render([]byte(src))
	if err != nil {
		return errors.NewMarkdownError("failed to render markdown", err)
	}

	if c.Output != "" {
		if err := os.WriteFile(c.Output, html, 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", c.Output), err)
		}
		fmt.Fprintf(app.Stderr, "Rendered HTML written to %s\n", c.Output)
		return nil
	}
	_, err = app.Stdout.Write(html)
	return err
}

// readDocument loads the text for a document argument. "-" reads stdin.
func readDocument(path string) (string, error) {
	if path == "-" {
		stdinInfo, err := os.Stdin.Stat()
		if err != nil {
			return "", errors.NewInputError("failed to access stdin", err)
		}
		if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
			return "", errors.NewInputError("no input provided on stdin", errors.ErrNoInput)
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.NewInputError("failed to read from stdin", err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewInputError(fmt.Sprintf("file not found: %s", path), errors.ErrFileNotFound)
		}
		return "", errors.NewInputError(fmt.Sprintf("failed to read file '%s'", path), err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", errors.NewInputError(fmt.Sprintf("file '%s' is empty", path), errors.ErrFileEmpty)
	}
	return string(data), nil
}

// parseDocument reads and parses a document argument in one step.
func parseDocument(path string) (models.Value, error) {
	text, err := readDocument(path)
	if err != nil {
		return models.Value{}, err
	}
	out := parser.Parse(text)
	if !out.OK {
		return models.Value{}, errors.NewParsingError("failed to parse JSON", out.Err)
	}
	return out.Doc, nil
}

// preview renders a value for one-line CLI output.
func preview(v models.Value) string {
	switch v.Kind {
	case models.Object:
		return fmt.Sprintf("{%d}", v.Len())
	case models.Array:
		return fmt.Sprintf("[%d]", v.Len())
	case models.String:
		return fmt.Sprintf("%q", v.Str)
	default:
		return v.Scalar()
	}
}

func stdoutIsTerminal() bool {
	stat, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
