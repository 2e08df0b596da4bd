package core

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/cartesi/pos-dlib/crypto"
)

// Strategy tells the submission layer how to price and resubmit a request.
type Strategy string

// StrategySimplest submits once at the node's suggested gas price.
const StrategySimplest Strategy = "simplest"

// TokenType is the ABI type of a call argument.
type TokenType string

const (
	TokenUint    TokenType = "uint256"
	TokenAddress TokenType = "address"
)

// Token is a single typed call argument. Exactly one of Uint or Address is
// meaningful, selected by Type.
type Token struct {
	Type    TokenType
	Uint    *big.Int
	Address common.Address
}

// UintToken wraps v as a uint256 argument.
func UintToken(v *big.Int) Token {
	if v == nil {
		return Token{Type: TokenUint}
	}
	return Token{Type: TokenUint, Uint: new(big.Int).Set(v)}
}

// AddressToken wraps a as an address argument.
func AddressToken(a common.Address) Token {
	return Token{Type: TokenAddress, Address: a}
}

// value returns the Go value go-ethereum's ABI packer expects for t.
func (t Token) value() (any, error) {
	switch t.Type {
	case TokenUint:
		if err := checkUint256(t.Uint); err != nil {
			return nil, fmt.Errorf("uint256 token: %w", err)
		}
		return t.Uint, nil
	case TokenAddress:
		return t.Address, nil
	default:
		return nil, fmt.Errorf("unsupported token type %q", t.Type)
	}
}

func (t Token) MarshalJSON() ([]byte, error) {
	body := struct {
		Type  TokenType `json:"type"`
		Value any       `json:"value"`
	}{Type: t.Type}
	switch t.Type {
	case TokenUint:
		body.Value = (*hexutil.Big)(t.Uint)
	case TokenAddress:
		body.Value = t.Address
	default:
		return nil, fmt.Errorf("unsupported token type %q", t.Type)
	}
	return json.Marshal(body)
}

// TransactionRequest describes a contract call for the submission layer.
// Gas nil means "use the submitter's default".
type TransactionRequest struct {
	Concern      Concern  `json:"concern"`
	Value        *big.Int `json:"value"`
	Function     string   `json:"function"`
	Arguments    []Token  `json:"arguments"`
	Gas          *uint64  `json:"gas"`
	Strategy     Strategy `json:"strategy"`
	ContractName string   `json:"contract_name,omitempty"` // empty: the concern names the contract
}

// Signature returns the canonical ABI signature, e.g. "claimWin(uint256,address)".
func (r *TransactionRequest) Signature() string {
	types := make([]string, len(r.Arguments))
	for i, tok := range r.Arguments {
		types[i] = string(tok.Type)
	}
	return r.Function + "(" + strings.Join(types, ",") + ")"
}

// CallData returns the 4-byte selector followed by the ABI-encoded arguments.
func (r *TransactionRequest) CallData() ([]byte, error) {
	args := make(abi.Arguments, len(r.Arguments))
	vals := make([]any, len(r.Arguments))
	for i, tok := range r.Arguments {
		typ, err := abi.NewType(string(tok.Type), "", nil)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		v, err := tok.value()
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = abi.Argument{Type: typ}
		vals[i] = v
	}
	packed, err := args.Pack(vals...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", r.Function, err)
	}
	return append(crypto.Selector(r.Signature()), packed...), nil
}
