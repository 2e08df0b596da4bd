// Package dapp decides, per tracked contract instance, whether the node
// should submit a transaction. Each supported contract is described as a
// Variant record (schema, predicate, action) and driven by one Engine.
package dapp

import "fmt"

// Kind enumerates the supported contract variants.
type Kind uint8

const (
	KindLottery Kind = iota + 1
	KindPoSProduce
	KindPoSClaim
	KindPoSPrototype
)

// Kinds lists every supported variant in declaration order.
func Kinds() []Kind {
	return []Kind{KindLottery, KindPoSProduce, KindPoSClaim, KindPoSPrototype}
}

// String returns the display name, which is also the registry key used for
// service status lookups.
func (k Kind) String() string {
	h, err := k.handler()
	if err != nil {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return h.name()
}

// ParseKind resolves a display name.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("dapp: unknown variant %q", name)
}

func (k Kind) MarshalText() ([]byte, error) {
	if _, err := k.handler(); err != nil {
		return nil, err
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// handler is the single place a Kind is mapped to its variant record.
func (k Kind) handler() (handler, error) {
	switch k {
	case KindLottery:
		return lottery, nil
	case KindPoSProduce:
		return posProduce, nil
	case KindPoSClaim:
		return posClaim, nil
	case KindPoSPrototype:
		return posPrototype, nil
	default:
		return nil, fmt.Errorf("dapp: no handler for kind %d", uint8(k))
	}
}
