package builtin

import (
	"github.com/google/uuid"
	"github.com/zoobzio/remap"
)

// NamespaceRemap is the default namespace for name-based UUIDs.
var NamespaceRemap = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/zoobzio/remap"))

// NameUUID returns a transformer deriving a version 5 UUID from the value
// within namespace. Equal inputs always yield equal UUIDs.
func NameUUID(namespace uuid.UUID) remap.TransformFunc {
	return Text(func(s string) string {
		return uuid.NewSHA1(namespace, []byte(s)).String()
	})
}

func validUUID(v any) (bool, error) {
	s, ok := v.(string)
	if !ok {
		return false, nil
	}
	return uuid.Validate(s) == nil, nil
}
