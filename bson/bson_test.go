package bson

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/bson")
	}
}

func TestRoundTripTree(t *testing.T) {
	c := New()

	data, err := c.Marshal(map[string]any{
		"name": "test",
		"user": map[string]any{"age": int32(7)},
		"tags": []any{"a", "b"},
	})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var v any
	if err := c.Unmarshal(data, &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	root, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("Unmarshal() = %T, want map[string]any", v)
	}
	if root["name"] != "test" {
		t.Errorf("name = %v", root["name"])
	}
	user, ok := root["user"].(map[string]any)
	if !ok || user["age"] != int32(7) {
		t.Errorf("user = %#v", root["user"])
	}
	if tags, ok := root["tags"].([]any); !ok || len(tags) != 2 {
		t.Errorf("tags = %#v", root["tags"])
	}
}

func TestUnmarshalDriverTypes(t *testing.T) {
	c := New()

	id := primitive.NewObjectID()
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	data, err := bson.Marshal(bson.D{
		{Key: "_id", Value: id},
		{Key: "at", Value: primitive.NewDateTimeFromTime(when)},
		{Key: "nested", Value: bson.D{{Key: "x", Value: "y"}}},
	})
	if err != nil {
		t.Fatalf("bson.Marshal() error: %v", err)
	}

	var v any
	if err := c.Unmarshal(data, &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	root := v.(map[string]any)
	if root["_id"] != id.Hex() {
		t.Errorf("_id = %v, want %s", root["_id"], id.Hex())
	}
	if root["at"] != "2024-03-01T12:00:00Z" {
		t.Errorf("at = %v", root["at"])
	}
	if nested, ok := root["nested"].(map[string]any); !ok || nested["x"] != "y" {
		t.Errorf("nested = %#v", root["nested"])
	}
}

func TestMarshalNotDocument(t *testing.T) {
	c := New()

	for _, v := range []any{nil, []any{1, 2}} {
		if _, err := c.Marshal(v); !errors.Is(err, ErrNotDocument) {
			t.Errorf("Marshal(%#v) error = %v, want ErrNotDocument", v, err)
		}
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v any
	err := c.Unmarshal([]byte("invalid bson"), &v)
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
