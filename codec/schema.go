// Package codec maps the positional, ABI-typed state a dispatcher reports for
// a contract instance onto a fixed schema, and renders decoded values as a
// named-field JSON document for operators.
package codec

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// FieldType is the ABI type of one schema position.
type FieldType string

const (
	Bool    FieldType = "bool"
	Address FieldType = "address"
	Uint256 FieldType = "uint256"
)

// Slot is one position of a schema. Name is the field's name in the pretty
// document; the wire encoding is matched by position only.
type Slot struct {
	Name string
	Type FieldType
}

// Schema is the ordered list of positions a variant's state must decode into.
type Schema struct {
	Variant string
	Slots   []Slot
}

// Value is a decoded field. Only the member matching Type is set.
type Value struct {
	Type    FieldType
	Bool    bool
	Address common.Address
	Uint    *big.Int
}

// Values holds decoded fields in schema order. Accessors assume the values
// came out of Decode with the same schema and index positions accordingly.
type Values []Value

func (v Values) Bool(i int) bool              { return v[i].Bool }
func (v Values) Address(i int) common.Address { return v[i].Address }

// Uint returns a copy so callers can do arithmetic in place.
func (v Values) Uint(i int) *big.Int { return new(big.Int).Set(v[i].Uint) }
