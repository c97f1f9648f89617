// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/remap"
)

// msgpackCodec implements remap.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() remap.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack. Map keys are sorted so equal trees
// encode to equal bytes.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v. When v is a *any, the result
// is normalized to a JSON-like tree.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	if tree, ok := v.(*any); ok {
		dec.SetMapDecoder(func(d *msgpack.Decoder) (any, error) {
			return d.DecodeUntypedMap()
		})
		decoded, err := dec.DecodeInterface()
		if err != nil {
			return err
		}
		*tree = remap.Clone(decoded)
		return nil
	}
	return dec.Decode(v)
}
