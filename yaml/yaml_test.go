package yaml

import (
	"context"
	"testing"

	"github.com/zoobzio/remap"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/yaml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/yaml")
	}
}

func TestUnmarshalTree(t *testing.T) {
	c := New()

	input := `user:
  name: ada
  tags: [a, b]
codes:
  1: one
  2: two`

	var v any
	if err := c.Unmarshal([]byte(input), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	root, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("Unmarshal() = %T, want map[string]any", v)
	}
	user, ok := root["user"].(map[string]any)
	if !ok || user["name"] != "ada" {
		t.Errorf("user = %#v", root["user"])
	}
	if tags, ok := user["tags"].([]any); !ok || len(tags) != 2 {
		t.Errorf("user.tags = %#v", user["tags"])
	}

	// integer keys are rendered as strings
	codes, ok := root["codes"].(map[string]any)
	if !ok {
		t.Fatalf("codes = %T, want map[string]any", root["codes"])
	}
	if codes["1"] != "one" || codes["2"] != "two" {
		t.Errorf("codes = %#v", codes)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v any
	err := c.Unmarshal([]byte("name: [invalid"), &v)
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestMarshalNil(t *testing.T) {
	c := New()

	data, err := c.Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}

	if string(data) != "null\n" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null\n")
	}
}

func TestMarshalIndent(t *testing.T) {
	c := New()

	data, err := c.Marshal(map[string]any{"a": map[string]any{"b": 1}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != "a:\n  b: 1\n" {
		t.Errorf("Marshal() = %q", data)
	}
}

func TestUnmarshal_EmptyInput(t *testing.T) {
	c := New()

	var v any
	if err := c.Unmarshal([]byte{}, &v); err != nil {
		t.Errorf("Unmarshal(empty) error: %v", err)
	}
	if v != nil {
		t.Errorf("Unmarshal(empty) = %#v, want nil", v)
	}
}

func TestTransformBytes_Anchors(t *testing.T) {
	a, err := remap.New(map[string]any{
		"timeout": "production.timeout",
		"retries": "production.retries",
		"codes":   map[string]any{"$iterate": "codes", "label": "name"},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	input := `base: &base
  timeout: 30
  retries: 3
production:
  <<: *base
  timeout: 60
codes:
  - {name: first}
  - {name: second}
`

	out, err := a.TransformBytes(context.Background(), New(), []byte(input))
	if err != nil {
		t.Fatalf("TransformBytes() error: %v", err)
	}

	want := `codes:
  - label: first
  - label: second
retries: 3
timeout: 60
`
	if string(out) != want {
		t.Errorf("TransformBytes() =\n%s\nwant\n%s", out, want)
	}
}

func TestMarshal_QuotesAmbiguousScalars(t *testing.T) {
	c := New()

	for _, s := range []string{"yes", "123", "null", "key: value", "line1\nline2", "*alias"} {
		data, err := c.Marshal(map[string]any{"text": s})
		if err != nil {
			t.Fatalf("Marshal(%q) error: %v", s, err)
		}

		var restored any
		if err := c.Unmarshal(data, &restored); err != nil {
			t.Fatalf("Unmarshal(%q) error: %v", data, err)
		}
		if got := restored.(map[string]any)["text"]; got != s {
			t.Errorf("round-trip of %q = %#v", s, got)
		}
	}
}

func TestUnmarshal_FirstDocumentOnly(t *testing.T) {
	c := New()

	var v any
	if err := c.Unmarshal([]byte("---\nname: doc1\n---\nname: doc2\n"), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if name := v.(map[string]any)["name"]; name != "doc1" {
		t.Errorf("name = %v, want %q", name, "doc1")
	}
}
