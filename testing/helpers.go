// Package testing provides fixtures and helpers for testing remap adapters.
package testing

import (
	"testing"

	"github.com/zoobzio/remap"
	"github.com/zoobzio/remap/builtin"
)

// TestKey returns a valid 32-byte AES key for testing.
func TestKey() []byte {
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestEncryptor returns an AES encryptor configured for testing.
func TestEncryptor(tb testing.TB) builtin.Encryptor {
	tb.Helper()
	enc, err := builtin.AES(TestKey())
	if err != nil {
		tb.Fatalf("AES() error: %v", err)
	}
	return enc
}

// Order is a line item of Customer.
type Order struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// Contact holds Customer contact details.
type Contact struct {
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Mobile string `json:"mobile,omitempty"`
}

// Customer is a typed source matching SampleSource.
type Customer struct {
	ID        string  `json:"customerId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Gender    string  `json:"gender"`
	Verified  string  `json:"verified"`
	Contact   Contact `json:"contact"`
	Orders    []Order `json:"orders"`
	internal  string
}

// SampleCustomer returns the typed form of SampleSource.
func SampleCustomer() Customer {
	return Customer{
		ID:        "c-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Gender:    "Female",
		Verified:  "yes",
		Contact:   Contact{Email: "ada@example.com", Phone: "555-0100"},
		Orders: []Order{
			{SKU: "A-1", Quantity: 2},
			{SKU: "B-7", Quantity: 1},
		},
		internal: "not exported",
	}
}

// SampleSource returns a source document exercising every operator of
// SampleSchema.
func SampleSource() map[string]any {
	return map[string]any{
		"customerId": "c-1",
		"firstName":  "Ada",
		"lastName":   "Lovelace",
		"gender":     "Female",
		"verified":   "yes",
		"contact": map[string]any{
			"email": "ada@example.com",
			"phone": "555-0100",
		},
		"orders": []any{
			map[string]any{"sku": "A-1", "quantity": 2},
			map[string]any{"sku": "B-7", "quantity": 1},
		},
	}
}

// SampleSchema returns a schema using every operator.
func SampleSchema() map[string]any {
	return map[string]any{
		"id":          "customerId",
		"name.first":  "firstName",
		"name.last":   []any{"lastName", map[string]any{"$transform": builtin.StringUpper}},
		"gender":      map[string]any{"$lookup": "gender"},
		"email":       []any{"contact.email", map[string]any{"$transform": builtin.MaskEmail}},
		"source":      map[string]any{"$var": "source"},
		"kind":        map[string]any{"$value": "customer"},
		"phones":      map[string]any{"$concat": []any{"contact.phone", "contact.mobile"}},
		"preferred":   map[string]any{"$alt": []any{"contact.mobile", "contact.phone"}},
		"verified":    map[string]any{"$filter": builtin.StringNonEmpty},
		"fingerprint": []any{"customerId", map[string]any{"$transform": builtin.HashSHA256}},
		"orders": map[string]any{
			"$iterate": "orders",
			"sku":      "sku",
			"qty":      "quantity",
		},
	}
}

// SampleEnv returns the environment SampleSchema needs.
func SampleEnv() remap.Env {
	return remap.Env{
		Transformers: builtin.Transformers(),
		Filters:      builtin.Filters(),
		Dictionaries: map[string]remap.Dictionary{
			"gender": {{"Male", "M"}, {"Female", "F"}, {"*", "U"}},
		},
		Vars: map[string]any{"source": "crm"},
	}
}

// SampleTarget returns the result of SampleSchema applied to SampleSource.
func SampleTarget(tb testing.TB) map[string]any {
	tb.Helper()
	fingerprint, err := builtin.SHA256().Hash([]byte("c-1"))
	if err != nil {
		tb.Fatalf("SHA256() error: %v", err)
	}
	return map[string]any{
		"id":          "c-1",
		"name":        map[string]any{"first": "Ada", "last": "LOVELACE"},
		"gender":      "F",
		"email":       "a***@example.com",
		"source":      "crm",
		"kind":        "customer",
		"phones":      []any{"555-0100", nil},
		"preferred":   "555-0100",
		"verified":    "yes",
		"fingerprint": fingerprint,
		"orders": []any{
			map[string]any{"sku": "A-1", "qty": 2},
			map[string]any{"sku": "B-7", "qty": 1},
		},
	}
}

// MustAdapter compiles schema or fails the test.
func MustAdapter(tb testing.TB, schema any, opts ...remap.Option) *remap.Adapter {
	tb.Helper()
	a, err := remap.New(schema, opts...)
	if err != nil {
		tb.Fatalf("New() error: %v", err)
	}
	return a
}
