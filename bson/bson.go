// Package bson provides a BSON codec implementation.
package bson

import (
	"errors"

	"github.com/zoobzio/remap"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotDocument is returned when marshaling a value that is not a mapping.
// BSON has no top-level representation for sequences or scalars.
var ErrNotDocument = errors.New("bson: top-level value must be a document")

// bsonCodec implements remap.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() remap.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	switch v.(type) {
	case nil, []any:
		return nil, ErrNotDocument
	}
	return bson.Marshal(v)
}

// Unmarshal decodes a BSON document into v. When v is a *any, driver
// types are converted so the result is a JSON-like tree.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	tree, ok := v.(*any)
	if !ok {
		return bson.Unmarshal(data, v)
	}

	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	*tree = remap.Clone(fromDriver(doc))
	return nil
}

// fromDriver replaces driver document and value types with plain ones.
func fromDriver(v any) any {
	switch x := v.(type) {
	case primitive.M:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = fromDriver(e)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = fromDriver(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = fromDriver(e)
		}
		return out
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Decimal128:
		return x.String()
	case primitive.Binary:
		return x.Data
	case primitive.Null, primitive.Undefined:
		return nil
	}
	return v
}
