package msgpack

import (
	"bytes"
	"testing"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/msgpack")
	}
}

func TestRoundTripTree(t *testing.T) {
	c := New()

	original := map[string]any{
		"name": "test",
		"tags": []any{"a", "b"},
		"meta": map[string]any{"ok": true},
	}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored any
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	root, ok := restored.(map[string]any)
	if !ok {
		t.Fatalf("Unmarshal() = %T, want map[string]any", restored)
	}
	if root["name"] != "test" {
		t.Errorf("name = %v", root["name"])
	}
	if tags, ok := root["tags"].([]any); !ok || len(tags) != 2 || tags[0] != "a" {
		t.Errorf("tags = %#v", root["tags"])
	}
	if meta, ok := root["meta"].(map[string]any); !ok || meta["ok"] != true {
		t.Errorf("meta = %#v", root["meta"])
	}
}

func TestUnmarshalStruct(t *testing.T) {
	c := New()

	type TestStruct struct {
		Name  string `msgpack:"name"`
		Value int    `msgpack:"value"`
	}

	data, err := c.Marshal(map[string]any{"name": "test", "value": 42})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored TestStruct
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if restored.Name != "test" || restored.Value != 42 {
		t.Errorf("Unmarshal() = %+v", restored)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	c := New()

	v := map[string]any{"b": 2, "a": 1, "c": 3, "d": 4}
	first, err := c.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	for range 10 {
		next, err := c.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal() error: %v", err)
		}
		if !bytes.Equal(first, next) {
			t.Fatal("Marshal() output should not depend on map iteration order")
		}
	}
}

func TestMarshalBinary(t *testing.T) {
	c := New()

	data, err := c.Marshal(map[string]any{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	if data[0] == '{' {
		t.Error("MessagePack output should be binary, not JSON")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v any
	err := c.Unmarshal([]byte{0xc1}, &v)
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
