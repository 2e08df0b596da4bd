package dapp

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/cartesi/pos-dlib/codec"
)

// PoSProduceCtx is the decoded state of a block-producing PoS instance.
// UserSplit is decoded for a future minimum-reward threshold and is not
// used by the predicate yet.
type PoSProduceCtx struct {
	CanProduce           bool           `json:"can_produce"`
	BlockSelectorAddress common.Address `json:"block_selector_address"`
	CurrentReward        *big.Int       `json:"current_reward"`
	UserSplit            *big.Int       `json:"user_split"`
}

// PoSClaimCtx is the decoded state of a prize-claiming PoS instance.
// Only CanWin drives the decision.
type PoSClaimCtx struct {
	CanWin        bool           `json:"can_win"`
	WinnerAddress common.Address `json:"winner_address"`
	CurrentPrize  *big.Int       `json:"current_prize"`
	UserSplit     *big.Int       `json:"user_split"`
}

var posProduce = &Variant[PoSProduceCtx]{
	Name: "PoS",
	Schema: codec.Schema{
		Variant: "PoS",
		Slots: []codec.Slot{
			{Name: "can_produce", Type: codec.Bool},
			{Name: "block_selector_address", Type: codec.Address},
			{Name: "current_reward", Type: codec.Uint256},
			{Name: "user_split", Type: codec.Uint256},
		},
	},
	Bind: func(v codec.Values) PoSProduceCtx {
		return PoSProduceCtx{
			CanProduce:           v.Bool(0),
			BlockSelectorAddress: v.Address(1),
			CurrentReward:        v.Uint(2),
			UserSplit:            v.Uint(3),
		}
	},
	// TODO: weigh CurrentReward*UserSplit against the estimated submission
	// cost once the gas price oracle is exposed to this layer.
	Eligible: func(c PoSProduceCtx) bool {
		return c.CanProduce && c.CurrentReward.Sign() > 0
	},
	Action: indexAction[PoSProduceCtx]("produceBlock"),
}

var posClaim = &Variant[PoSClaimCtx]{
	Name: "PoSClaim",
	Schema: codec.Schema{
		Variant: "PoSClaim",
		Slots: []codec.Slot{
			{Name: "can_win", Type: codec.Bool},
			{Name: "winner_address", Type: codec.Address},
			{Name: "current_prize", Type: codec.Uint256},
			{Name: "user_split", Type: codec.Uint256},
		},
	},
	Bind: func(v codec.Values) PoSClaimCtx {
		return PoSClaimCtx{
			CanWin:        v.Bool(0),
			WinnerAddress: v.Address(1),
			CurrentPrize:  v.Uint(2),
			UserSplit:     v.Uint(3),
		}
	},
	Eligible: func(c PoSClaimCtx) bool { return c.CanWin },
	Action:   indexAction[PoSClaimCtx]("claimWin"),
}
