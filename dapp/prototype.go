package dapp

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/cartesi/pos-dlib/codec"
	"github.com/cartesi/pos-dlib/core"
)

// PoSPrototypeCtx is the decoded state of the prototype PoS contract.
type PoSPrototypeCtx struct {
	CanWin        bool           `json:"can_win"`
	WinnerAddress common.Address `json:"winner_address"`
}

// The prototype contract takes the winner explicitly: claimWin(index, winner).
var posPrototype = &Variant[PoSPrototypeCtx]{
	Name: "PoSPrototype",
	Schema: codec.Schema{
		Variant: "PoSPrototype",
		Slots: []codec.Slot{
			{Name: "can_win", Type: codec.Bool},
			{Name: "winner_address", Type: codec.Address},
		},
	},
	Bind: func(v codec.Values) PoSPrototypeCtx {
		return PoSPrototypeCtx{CanWin: v.Bool(0), WinnerAddress: v.Address(1)}
	},
	Eligible: func(c PoSPrototypeCtx) bool { return c.CanWin },
	Action: func(c PoSPrototypeCtx, index *big.Int) Action {
		return Action{
			Function:  "claimWin",
			Arguments: []core.Token{core.UintToken(index), core.AddressToken(c.WinnerAddress)},
		}
	},
}
