// Package builtin provides stock transformers and filters for remap
// environments: string normalization, content-aware masking, hashing,
// UUID derivation and field encryption.
//
//	adapter, err := remap.New(schema,
//	    remap.WithTransformers(builtin.Transformers()),
//	    remap.WithFilters(builtin.Filters()),
//	)
//
// Transformers accept strings, byte slices, numbers and booleans; numbers
// and booleans are formatted first. A null value passes through unchanged.
// Mappings and sequences are rejected with ErrUnsupportedValue.
package builtin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zoobzio/remap"
)

// ErrUnsupportedValue is returned when a builtin receives a mapping or
// sequence where text is expected.
var ErrUnsupportedValue = errors.New("unsupported value")

// Transformer names.
const (
	StringUpper = "string.upper"
	StringLower = "string.lower"
	StringTrim  = "string.trim"

	MaskSSN   = "mask.ssn"   // 123-45-6789 -> ***-**-6789
	MaskEmail = "mask.email" // alice@example.com -> a***@example.com
	MaskPhone = "mask.phone" // (555) 123-4567 -> (***) ***-4567
	MaskCard  = "mask.card"  // 4111111111111111 -> ************1111
	MaskIP    = "mask.ip"    // 192.168.1.100 -> 192.168.xxx.xxx
	MaskUUID  = "mask.uuid"  // 550e8400-e29b-... -> 550e8400-****-****-****-************
	MaskIBAN  = "mask.iban"  // GB82WEST12345698765432 -> GB82************5432
	MaskName  = "mask.name"  // John Smith -> J*** S****

	HashSHA256 = "hash.sha256"
	HashSHA512 = "hash.sha512"
	HashArgon2 = "hash.argon2"
	HashBcrypt = "hash.bcrypt"

	UUIDv5 = "uuid.v5"
)

// Filter names.
const (
	UUIDValid      = "uuid.valid"
	StringNonEmpty = "string.nonempty"
)

// Transformers returns a fresh table of every builtin transformer.
func Transformers() map[string]remap.TransformFunc {
	return map[string]remap.TransformFunc{
		StringUpper: Text(strings.ToUpper),
		StringLower: Text(strings.ToLower),
		StringTrim:  Text(strings.TrimSpace),

		MaskSSN:   Text(maskSSN),
		MaskEmail: Text(maskEmail),
		MaskPhone: Text(maskPhone),
		MaskCard:  Text(maskCard),
		MaskIP:    Text(maskIP),
		MaskUUID:  Text(maskUUID),
		MaskIBAN:  Text(maskIBAN),
		MaskName:  Text(maskName),

		HashSHA256: Hash(SHA256()),
		HashSHA512: Hash(SHA512()),
		HashArgon2: Hash(Argon2(DefaultArgon2Params())),
		HashBcrypt: Hash(Bcrypt(BcryptDefaultCost)),

		UUIDv5: NameUUID(NamespaceRemap),
	}
}

// Filters returns a fresh table of every builtin filter.
func Filters() map[string]remap.FilterFunc {
	return map[string]remap.FilterFunc{
		UUIDValid:      validUUID,
		StringNonEmpty: nonEmpty,
	}
}

// nonEmpty holds for strings with at least one non-space character.
func nonEmpty(v any) (bool, error) {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != "", nil
}

// Text lifts a string function into a TransformFunc.
func Text(fn func(string) string) remap.TransformFunc {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		s, err := text(v)
		if err != nil {
			return nil, err
		}
		return fn(s), nil
	}
}

// text renders a scalar as a string.
func text(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case bool:
		return strconv.FormatBool(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}
