package codec

import "strings"

// Decode maps payload onto schema. Two encodings are accepted: raw ABI
// return data as a 0x-prefixed hex string, and the dispatcher's JSON field
// list. Any deviation from the schema yields a *DecodeError; nothing is
// coerced and no partial result is returned.
func Decode(payload string, schema Schema) (Values, error) {
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		return decodeABI(trimmed, payload, schema)
	}
	return decodeFields(trimmed, payload, schema)
}
