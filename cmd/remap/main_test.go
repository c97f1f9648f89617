package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/remap"
	"github.com/zoobzio/remap/msgpack"
)

const testBundle = `
schemas:
  user:
    name: fullName
    country: {$lookup: countries}
  upper:
    name: [name, {$transform: up}]
dictionaries:
  countries: [[DE, Germany], ["*", Unknown]]
transformers:
  up: {builtin: string.upper}
`

// execute runs the CLI with args and stdin, returning stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := rootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "remap version "+Version+"\n", out)
}

func TestSchemas(t *testing.T) {
	bundlePath := writeFile(t, "bundle.yaml", testBundle)

	out, _, err := execute(t, "", "schemas", "--bundle", bundlePath)
	require.NoError(t, err)
	assert.Equal(t, "upper\nuser\n", out)

	_, _, err = execute(t, "", "schemas")
	assert.EqualError(t, err, "--bundle is required")
}

func TestRun_Bundle(t *testing.T) {
	bundlePath := writeFile(t, "bundle.yaml", testBundle)

	out, _, err := execute(t, `{"fullName": "Ada", "country": "DE"}`,
		"run", "--bundle", bundlePath, "--schema", "user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "Ada", "country": "Germany"}`, out)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestRun_InputFileAndYAMLOutput(t *testing.T) {
	bundlePath := writeFile(t, "bundle.yaml", testBundle)
	inPath := writeFile(t, "in.json", `{"name": "ada"}`)

	out, _, err := execute(t, "", "run", "-b", bundlePath, "-s", "upper", "-i", inPath, "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "name: ADA\n", out)
}

func TestRun_MsgpackOutput(t *testing.T) {
	bundlePath := writeFile(t, "bundle.yaml", testBundle)

	out, _, err := execute(t, `{"name": "ada"}`, "run", "-b", bundlePath, "-s", "upper", "-o", "msgpack")
	require.NoError(t, err)

	var got any
	require.NoError(t, msgpack.New().Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]any{"name": "ADA"}, got)
}

func TestRun_SchemaFile(t *testing.T) {
	schemaPath := writeFile(t, "schema.yaml", "email: [contact.email, {$transform: mask.email}]\n")

	out, _, err := execute(t, "contact:\n  email: ada@example.com\n",
		"run", "--schema", schemaPath, "--format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "email: a***@example.com\n", out)
}

func TestRun_Errors(t *testing.T) {
	bundlePath := writeFile(t, "bundle.yaml", testBundle)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no schema", []string{"run"}, "--schema is required without --bundle"},
		{"ambiguous", []string{"run", "-b", bundlePath}, "--schema is required, bundle has 2 schemas: upper, user"},
		{"unknown schema", []string{"run", "-b", bundlePath, "-s", "nope"}, `unknown schema: "nope"`},
		{"unknown format", []string{"run", "-b", bundlePath, "-s", "user", "-f", "xml"}, `unknown format "xml"`},
		{"missing input", []string{"run", "-b", bundlePath, "-s", "user", "-i", "/nonexistent/in.json"}, "read input"},
		{"missing bundle", []string{"run", "-b", "/nonexistent/bundle.yaml"}, "failed to read bundle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "{}", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRun_BadInput(t *testing.T) {
	bundlePath := writeFile(t, "bundle.yaml", testBundle)

	_, _, err := execute(t, "{", "run", "-b", bundlePath, "-s", "user")
	assert.ErrorIs(t, err, remap.ErrUnmarshal)
}

func TestRun_Trace(t *testing.T) {
	bundlePath := writeFile(t, "bundle.yaml", testBundle)

	_, stderr, err := execute(t, `{"fullName": "Ada"}`, "run", "-b", bundlePath, "-s", "user", "--trace")
	require.NoError(t, err)
	assert.Contains(t, stderr, `msg="formula enter" path=name operator=path`)
	assert.Contains(t, stderr, `msg="formula exit" path=country operator=$lookup`)
}

func TestCheck(t *testing.T) {
	bundlePath := writeFile(t, "bundle.yaml", testBundle)
	expectPath := writeFile(t, "expect.json", `{"country": "Germany", "name": "Ada"}`)

	out, _, err := execute(t, `{"fullName": "Ada", "country": "DE"}`,
		"check", "-b", bundlePath, "-s", "user", "--expect", expectPath)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestCheck_Mismatch(t *testing.T) {
	color.NoColor = true
	bundlePath := writeFile(t, "bundle.yaml", testBundle)
	expectPath := writeFile(t, "expect.json", `{"country": "France", "name": "Ada"}`)

	out, _, err := execute(t, `{"fullName": "Ada", "country": "DE"}`,
		"check", "-b", bundlePath, "-s", "user", "--expect", expectPath)
	assert.ErrorIs(t, err, errMismatch)
	assert.Contains(t, out, "--- expected\n+++ actual\n")
	assert.Contains(t, out, `-  "country": "France",`)
	assert.Contains(t, out, `+  "country": "Germany",`)
	assert.Contains(t, out, `   "name": "Ada"`)
}

func TestCheck_RequiresExpect(t *testing.T) {
	_, _, err := execute(t, "{}", "check")
	assert.EqualError(t, err, "--expect is required")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	newLogger(&buf, &options{logLevel: "warn"}).Info("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, &options{logLevel: "warn", trace: true}).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
