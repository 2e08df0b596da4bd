package codec

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

// field is one entry of the dispatcher's JSON field list, e.g.
// {"name":"canProduce","type":"bool","value":true}. A fixed array type such
// as "uint256[6]" carries a JSON array and spans that many positions.
type field struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func decodeFields(trimmed, payload string, s Schema) (Values, error) {
	var fields []field
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return nil, decodeErr(s, payload, -1, ErrMalformed, "field list: %v", err)
	}

	out := make(Values, 0, len(s.Slots))
	for _, f := range fields {
		base, n, isArray, err := splitArrayType(f.Type)
		if err != nil {
			return nil, decodeErr(s, payload, len(out), ErrMalformed, "field %q: %v", f.Name, err)
		}

		elems := []json.RawMessage{f.Value}
		if isArray {
			elems = nil
			if err := json.Unmarshal(f.Value, &elems); err != nil {
				return nil, decodeErr(s, payload, len(out), ErrFieldType, "field %q: want %s", f.Name, f.Type)
			}
			if len(elems) != n {
				return nil, decodeErr(s, payload, len(out), ErrArity, "field %q: %s holds %d values", f.Name, f.Type, len(elems))
			}
		}

		for _, raw := range elems {
			pos := len(out)
			if pos >= len(s.Slots) {
				return nil, decodeErr(s, payload, -1, ErrArity, "want %d fields, got more", len(s.Slots))
			}
			slot := s.Slots[pos]
			if FieldType(base) != slot.Type {
				return nil, decodeErr(s, payload, pos, ErrFieldType, "want %s, got %s", slot.Type, base)
			}
			v, err := parseValue(slot.Type, raw)
			if err != nil {
				return nil, &DecodeError{Variant: s.Variant, Payload: payload, Position: pos, Err: err}
			}
			out = append(out, v)
		}
	}
	if len(out) != len(s.Slots) {
		return nil, decodeErr(s, payload, -1, ErrArity, "want %d fields, got %d", len(s.Slots), len(out))
	}
	return out, nil
}

// splitArrayType splits "uint256[6]" into ("uint256", 6, true).
func splitArrayType(typ string) (base string, n int, isArray bool, err error) {
	open := strings.IndexByte(typ, '[')
	if open < 0 {
		return typ, 1, false, nil
	}
	if !strings.HasSuffix(typ, "]") {
		return "", 0, false, strconv.ErrSyntax
	}
	n, err = strconv.Atoi(typ[open+1 : len(typ)-1])
	if err != nil || n <= 0 {
		return "", 0, false, strconv.ErrSyntax
	}
	return typ[:open], n, true, nil
}

func parseValue(typ FieldType, raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Value{}, wrapf(ErrFieldType, "missing %s value", typ)
	}
	switch typ {
	case Bool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, wrapf(ErrFieldType, "want bool, got %s", raw)
		}
		return Value{Type: Bool, Bool: b}, nil

	case Address:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, wrapf(ErrFieldType, "want address, got %s", raw)
		}
		if !common.IsHexAddress(s) {
			return Value{}, wrapf(ErrMalformed, "invalid address %q", s)
		}
		return Value{Type: Address, Address: common.HexToAddress(s)}, nil

	case Uint256:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, wrapf(ErrFieldType, "want uint256, got %s", raw)
		}
		if s == "" {
			return Value{}, wrapf(ErrMalformed, "empty uint256")
		}
		v, ok := math.ParseBig256(s)
		if !ok || v.Sign() < 0 {
			return Value{}, wrapf(ErrMalformed, "invalid uint256 %q", s)
		}
		return Value{Type: Uint256, Uint: v}, nil

	default:
		return Value{}, wrapf(ErrFieldType, "unsupported schema type %s", typ)
	}
}
