package remap

import (
	"encoding/json"
)

// jsonTestCodec is a minimal Codec for tests in this package; the json
// subpackage cannot be imported here without a cycle.
type jsonTestCodec struct{}

func (jsonTestCodec) ContentType() string { return "application/json" }

func (jsonTestCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonTestCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
