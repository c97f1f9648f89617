package builtin

import (
	"errors"
	"testing"
)

func TestTransformers_Names(t *testing.T) {
	fns := Transformers()

	for _, name := range []string{
		StringUpper, StringLower, StringTrim,
		MaskSSN, MaskEmail, MaskPhone, MaskCard, MaskIP, MaskUUID, MaskIBAN, MaskName,
		HashSHA256, HashSHA512, HashArgon2, HashBcrypt,
		UUIDv5,
	} {
		if fns[name] == nil {
			t.Errorf("Transformers() missing %q", name)
		}
	}
}

func TestTransformers_Fresh(t *testing.T) {
	a := Transformers()
	delete(a, StringUpper)

	if Transformers()[StringUpper] == nil {
		t.Error("Transformers() should return a new table on every call")
	}
}

func TestText(t *testing.T) {
	upper := Transformers()[StringUpper]

	tests := []struct {
		name  string
		input any
		want  any
	}{
		{"string", "abc", "ABC"},
		{"bytes", []byte("abc"), "ABC"},
		{"bool", true, "TRUE"},
		{"float", 1.5, "1.5"},
		{"whole float", float64(3), "3"},
		{"int", 42, "42"},
		{"nil passes through", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := upper(tt.input)
			if err != nil {
				t.Fatalf("upper(%v) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("upper(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestText_Unsupported(t *testing.T) {
	trim := Transformers()[StringTrim]

	for _, v := range []any{map[string]any{}, []any{"a"}} {
		if _, err := trim(v); !errors.Is(err, ErrUnsupportedValue) {
			t.Errorf("trim(%T) error = %v, want ErrUnsupportedValue", v, err)
		}
	}
}

func TestFilters(t *testing.T) {
	filters := Filters()

	tests := []struct {
		filter string
		input  any
		want   bool
	}{
		{UUIDValid, "550e8400-e29b-41d4-a716-446655440000", true},
		{UUIDValid, "not-a-uuid", false},
		{UUIDValid, 12, false},
		{StringNonEmpty, "x", true},
		{StringNonEmpty, "   ", false},
		{StringNonEmpty, nil, false},
	}

	for _, tt := range tests {
		got, err := filters[tt.filter](tt.input)
		if err != nil {
			t.Fatalf("%s(%v) error: %v", tt.filter, tt.input, err)
		}
		if got != tt.want {
			t.Errorf("%s(%v) = %v, want %v", tt.filter, tt.input, got, tt.want)
		}
	}
}

func TestNameUUID(t *testing.T) {
	derive := Transformers()[UUIDv5]

	a, err := derive("user-1")
	if err != nil {
		t.Fatalf("derive() error: %v", err)
	}
	b, _ := derive("user-1")
	c, _ := derive("user-2")

	if a != b {
		t.Errorf("same input gave %v and %v", a, b)
	}
	if a == c {
		t.Error("different inputs should give different UUIDs")
	}
	if ok, _ := validUUID(a); !ok {
		t.Errorf("derive() = %v, not a valid UUID", a)
	}
}
