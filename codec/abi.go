package codec

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const wordSize = 32

// abiTypes holds the go-ethereum type for every schema field type.
var abiTypes = func() map[FieldType]abi.Type {
	m := make(map[FieldType]abi.Type)
	for _, ft := range []FieldType{Bool, Address, Uint256} {
		t, err := abi.NewType(string(ft), "", nil)
		if err != nil {
			panic(fmt.Sprintf("codec: abi type %s: %v", ft, err))
		}
		m[ft] = t
	}
	return m
}()

// decodeABI reads return data of a view function whose outputs are the
// schema's static types, one 32-byte word per position.
func decodeABI(trimmed, payload string, s Schema) (Values, error) {
	data, err := hexutil.Decode(trimmed)
	if err != nil {
		return nil, decodeErr(s, payload, -1, ErrMalformed, "abi data: %v", err)
	}
	if len(data) != wordSize*len(s.Slots) {
		return nil, decodeErr(s, payload, -1, ErrArity, "want %d words, got %d bytes", len(s.Slots), len(data))
	}

	out := make(Values, len(s.Slots))
	for i, slot := range s.Slots {
		word := data[i*wordSize : (i+1)*wordSize]
		v, err := unpackWord(slot.Type, word)
		if err != nil {
			return nil, &DecodeError{Variant: s.Variant, Payload: payload, Position: i, Err: err}
		}
		out[i] = v
	}
	return out, nil
}

func unpackWord(typ FieldType, word []byte) (Value, error) {
	t, ok := abiTypes[typ]
	if !ok {
		return Value{}, wrapf(ErrFieldType, "unsupported schema type %s", typ)
	}
	// go-ethereum does not check address padding; a dirty high part means
	// the word is not an address.
	if typ == Address {
		for _, b := range word[:wordSize-common.AddressLength] {
			if b != 0 {
				return Value{}, wrapf(ErrFieldType, "want address, got non-zero padding")
			}
		}
	}

	vals, err := abi.Arguments{{Type: t}}.Unpack(word)
	if err != nil {
		return Value{}, wrapf(ErrFieldType, "want %s: %v", typ, err)
	}
	switch v := vals[0].(type) {
	case bool:
		return Value{Type: Bool, Bool: v}, nil
	case common.Address:
		return Value{Type: Address, Address: v}, nil
	case *big.Int:
		return Value{Type: Uint256, Uint: v}, nil
	default:
		return Value{}, wrapf(ErrFieldType, "unexpected %T for %s", v, typ)
	}
}
