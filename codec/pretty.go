package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EncodePretty renders vals as a JSON object keyed by the schema's slot
// names, in schema order. uint256 values become 0x-hex quantities and
// addresses 0x-hex strings, so every value survives unchanged.
func EncodePretty(s Schema, vals Values) (string, error) {
	if len(vals) != len(s.Slots) {
		return "", fmt.Errorf("encode %s: %w: want %d values, got %d", s.Variant, ErrArity, len(s.Slots), len(vals))
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, slot := range s.Slots {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(slot.Name)
		if err != nil {
			return "", err
		}
		val, err := prettyValue(vals[i])
		if err != nil {
			return "", fmt.Errorf("encode %s field %s: %w", s.Variant, slot.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

func prettyValue(v Value) ([]byte, error) {
	switch v.Type {
	case Bool:
		return json.Marshal(v.Bool)
	case Address:
		return json.Marshal(v.Address)
	case Uint256:
		if v.Uint == nil {
			return nil, fmt.Errorf("nil uint256")
		}
		return json.Marshal((*hexutil.Big)(v.Uint))
	default:
		return nil, fmt.Errorf("unsupported type %s", v.Type)
	}
}
