package dapp

import (
	"math/big"

	"github.com/cartesi/pos-dlib/codec"
)

// LotteryCtx is the decoded state of a lottery round.
type LotteryCtx struct {
	BlockNumber            *big.Int `json:"block_number"`
	GoalBlockNumber        *big.Int `json:"goal_block_number"`
	Difficulty             *big.Int `json:"difficulty"`
	StakedBalance          *big.Int `json:"staked_balance"`
	TimePassedMicroSeconds *big.Int `json:"time_passed_micro_seconds"`
	LogOfDistance          *big.Int `json:"log_of_distance"`
}

var (
	// A round whose goal block is more than this many blocks old can be
	// claimed by anyone.
	lotteryExpiry = big.NewInt(220)
	// Upper bound of log_of_distance (log2 of a 256-bit distance, scaled by 1e6).
	lotteryMaxLog = big.NewInt(256000000)
)

var lottery = &Variant[LotteryCtx]{
	Name: "Lottery",
	Schema: codec.Schema{
		Variant: "Lottery",
		Slots: []codec.Slot{
			{Name: "block_number", Type: codec.Uint256},
			{Name: "goal_block_number", Type: codec.Uint256},
			{Name: "difficulty", Type: codec.Uint256},
			{Name: "staked_balance", Type: codec.Uint256},
			{Name: "time_passed_micro_seconds", Type: codec.Uint256},
			{Name: "log_of_distance", Type: codec.Uint256},
		},
	},
	Bind: func(v codec.Values) LotteryCtx {
		return LotteryCtx{
			BlockNumber:            v.Uint(0),
			GoalBlockNumber:        v.Uint(1),
			Difficulty:             v.Uint(2),
			StakedBalance:          v.Uint(3),
			TimePassedMicroSeconds: v.Uint(4),
			LogOfDistance:          v.Uint(5),
		}
	},
	Eligible: func(c LotteryCtx) bool {
		return c.contestExpired() || c.eligibleToWin()
	},
	Action: indexAction[LotteryCtx]("claimRound"),
}

// contestExpired compares block numbers at full width. A goal block in the
// future is not expired.
func (c LotteryCtx) contestExpired() bool {
	if c.BlockNumber.Cmp(c.GoalBlockNumber) <= 0 {
		return false
	}
	passed := new(big.Int).Sub(c.BlockNumber, c.GoalBlockNumber)
	return passed.Cmp(lotteryExpiry) > 0
}

// eligibleToWin evaluates staked*time > difficulty*(maxLog-log) without
// overflow. A log_of_distance above maxLog clamps the distance term to zero.
func (c LotteryCtx) eligibleToWin() bool {
	weight := new(big.Int).Mul(c.StakedBalance, c.TimePassedMicroSeconds)
	distance := new(big.Int).Sub(lotteryMaxLog, c.LogOfDistance)
	if distance.Sign() < 0 {
		distance.SetInt64(0)
	}
	target := distance.Mul(distance, c.Difficulty)
	return weight.Cmp(target) > 0
}
