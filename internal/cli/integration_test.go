package cli_test

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the jsonpeek binary with go run, returning stdout, stderr
// and the exit code.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()

	cmdArgs := append([]string{"run", "../.."}, args...)
	cmd := exec.Command("go", cmdArgs...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run CLI: %v", err)
		}
	}
	return stdout.String(), stderr.String(), code
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCLI_CheckValid(t *testing.T) {
	file := writeDoc(t, "doc.json", `{"name": "Ada", "tags": [1, 2]}`)

	stdout, _, code := runCLI(t, "", "check", file)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "valid:")
}

func TestCLI_CheckInvalidExitsOne(t *testing.T) {
	file := writeDoc(t, "doc.json", `{"name": }`)

	stdout, _, code := runCLI(t, "", "check", file)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "invalid:")
	assert.Contains(t, stdout, "line 1")
}

func TestCLI_RepairSeparatesStreams(t *testing.T) {
	file := writeDoc(t, "doc.json", `{"a": 1,}`)

	stdout, stderr, code := runCLI(t, "", "repair", file)
	assert.Equal(t, 0, code)
	assert.Equal(t, "{\"a\": 1}\n", stdout)
	assert.Contains(t, stderr, "repair: Removed 1 trailing comma(s)")
}

func TestCLI_FmtFromStdin(t *testing.T) {
	stdout, _, code := runCLI(t, `{"a":1,"b":[2,3]}`, "fmt", "-")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, `"a": 1`)
}

func TestCLI_QueryThenSetRoundTrip(t *testing.T) {
	file := writeDoc(t, "doc.json", `{"users": [{"name": "Ada"}]}`)

	stdout, _, code := runCLI(t, "", "query", file, "users.0.name")
	require.Equal(t, 0, code)
	assert.Equal(t, "\"Ada\"\n", stdout)

	stdout, _, code = runCLI(t, "", "set", file, "users.0.name", `"Grace"`)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, `"Grace"`)
}

func TestCLI_QueryMissingPathFails(t *testing.T) {
	file := writeDoc(t, "doc.json", `{"users": []}`)

	_, stderr, code := runCLI(t, "", "query", file, "users.9")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Query error")
}

func TestCLI_StatsHumanizedCounts(t *testing.T) {
	// 1,200 array elements push the node count past the thousands separator
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < 1200; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("1")
	}
	sb.WriteString("]")
	file := writeDoc(t, "doc.json", sb.String())

	stdout, _, code := runCLI(t, "", "stats", file)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "1,201")
}

func TestCLI_FlattenRows(t *testing.T) {
	file := writeDoc(t, "doc.json", `{"a": {"b": 1}}`)

	stdout, _, code := runCLI(t, "", "flatten", file)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "data.a.b\tnumber\t1")
}

func TestCLI_SnippetsGoMode(t *testing.T) {
	file := writeDoc(t, "doc.json", `{"users": [{"name": "Ada"}]}`)

	stdout, _, code := runCLI(t, "", "snippets", file, "users[0].name", "--lang", "go")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "gjson.Get")
}

func TestCLI_SchemaInference(t *testing.T) {
	file := writeDoc(t, "doc.json", `{"name": "Ada"}`)

	stdout, _, code := runCLI(t, "", "schema", file)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, `"type": "object"`)
}

func TestCLI_MarkdownRendering(t *testing.T) {
	file := writeDoc(t, "doc.md", "# Release Notes\n")

	stdout, _, code := runCLI(t, "", "markdown", file)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "<h1>Release Notes</h1>")
}

func TestCLI_VersionFlag(t *testing.T) {
	stdout, _, code := runCLI(t, "", "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "jsonpeek version")
}

func TestCLI_ConfigFlagChangesIndent(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  indent: 4\n"), 0o644))
	file := writeDoc(t, "doc.json", `{"first_name":"Johnathan Albert","last_name":"Fitzgerald-Smithson","occupation":"Software Engineering Manager"}`)

	stdout, _, code := runCLI(t, "", "--config", cfgPath, "fmt", file)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "\n    \"first_name\"")
}

func TestCLI_UnknownFileReportsInputError(t *testing.T) {
	_, stderr, code := runCLI(t, "", "check", "/non/existent/doc.json")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Input error")
}
