package dapp

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cartesi/pos-dlib/core"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(nil, nil, zaptest.NewLogger(t))
}

func TestLotteryExpiry(t *testing.T) {
	e := newTestEngine(t)

	// 321-100 = 221 > 220; win inequality 0 > 1*256000000 is false.
	r, err := e.React(KindLottery, newInstance(4, lotteryInts(321, 100, 1, 0, 0, 0)))
	require.NoError(t, err)
	tx := requireTransaction(t, r, "claimRound")
	require.Len(t, tx.Arguments, 1)
	assert.Equal(t, core.TokenUint, tx.Arguments[0].Type)
	assert.Equal(t, int64(4), tx.Arguments[0].Uint.Int64())

	// 320-100 = 220 is not > 220.
	r, err = e.React(KindLottery, newInstance(4, lotteryInts(320, 100, 1, 0, 0, 0)))
	require.NoError(t, err)
	assert.True(t, r.IsIdle())
}

func TestLotteryGoalInFutureIsNotExpired(t *testing.T) {
	e := newTestEngine(t)
	r, err := e.React(KindLottery, newInstance(0, lotteryInts(100, 1000, 1, 0, 0, 0)))
	require.NoError(t, err)
	assert.True(t, r.IsIdle())
}

func TestLotteryWinBoundary(t *testing.T) {
	cases := []struct {
		name               string
		staked, time, diff int64
		log                int64
		wantSubmit         bool
	}{
		{"equal sides", 2, 3, 1, 255999994, false},
		{"left side raised", 2, 4, 1, 255999994, true},
		{"staked raised", 3, 3, 1, 255999994, true},
		{"distance lowered", 2, 3, 1, 255999995, true},
		{"difficulty raised", 2, 3, 2, 255999994, false},
	}
	e := newTestEngine(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := lotteryInts(100, 100, tc.diff, tc.staked, tc.time, tc.log)
			r, err := e.React(KindLottery, newInstance(9, state))
			require.NoError(t, err)
			assert.Equal(t, tc.wantSubmit, !r.IsIdle())
			if tc.wantSubmit {
				requireTransaction(t, r, "claimRound")
			}
		})
	}
}

func TestLotteryFullWidthArithmetic(t *testing.T) {
	e := newTestEngine(t)
	two64 := new(big.Int).Lsh(big.NewInt(1), 64)
	plus := func(n int64) *big.Int { return new(big.Int).Add(two64, big.NewInt(n)) }
	zero := new(big.Int)

	// Block numbers beyond 64 bits still subtract exactly.
	state := lotteryState(plus(221), plus(0), big.NewInt(1), zero, zero, zero)
	r, err := e.React(KindLottery, newInstance(1, state))
	require.NoError(t, err)
	assert.False(t, r.IsIdle())

	state = lotteryState(plus(220), plus(0), big.NewInt(1), zero, zero, zero)
	r, err = e.React(KindLottery, newInstance(1, state))
	require.NoError(t, err)
	assert.True(t, r.IsIdle())

	// 2^255 * 2 is exactly 2^256: wrapping arithmetic would see zero.
	half := new(big.Int).Lsh(big.NewInt(1), 255)
	state = lotteryState(big.NewInt(1), big.NewInt(1), big.NewInt(1), half, big.NewInt(2), zero)
	r, err = e.React(KindLottery, newInstance(1, state))
	require.NoError(t, err)
	assert.False(t, r.IsIdle())
}

func TestLotteryLogAboveRangeClampsDistance(t *testing.T) {
	e := newTestEngine(t)
	r, err := e.React(KindLottery, newInstance(1, lotteryInts(1, 1, 1000, 1, 1, 256000001)))
	require.NoError(t, err)
	assert.False(t, r.IsIdle())

	r, err = e.React(KindLottery, newInstance(1, lotteryInts(1, 1, 1000, 0, 1, 256000001)))
	require.NoError(t, err)
	assert.True(t, r.IsIdle())
}

func TestPoSProduce(t *testing.T) {
	cases := []struct {
		name       string
		canProduce bool
		reward     int64
		wantSubmit bool
	}{
		{"cannot produce", false, 100, false},
		{"no reward", true, 0, false},
		{"eligible", true, 1, true},
	}
	e := newTestEngine(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := flagState(tc.canProduce, selectorAddr, tc.reward, 10000)
			r, err := e.React(KindPoSProduce, newInstance(2, state))
			require.NoError(t, err)
			if !tc.wantSubmit {
				assert.True(t, r.IsIdle())
				return
			}
			tx := requireTransaction(t, r, "produceBlock")
			require.Len(t, tx.Arguments, 1)
			assert.Equal(t, int64(2), tx.Arguments[0].Uint.Int64())
		})
	}
}

func TestPoSProduceRewardBeyond64Bits(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	state := `[{"name":"a","type":"bool","value":true},` +
		`{"name":"b","type":"address","value":"` + selectorAddr.Hex() + `"},` +
		`{"name":"c","type":"uint256","value":"` + hexOf(huge) + `"},` +
		`{"name":"d","type":"uint256","value":"0x0"}]`
	r, err := newTestEngine(t).React(KindPoSProduce, newInstance(2, state))
	require.NoError(t, err)
	requireTransaction(t, r, "produceBlock")
}

func TestPoSClaim(t *testing.T) {
	e := newTestEngine(t)

	r, err := e.React(KindPoSClaim, newInstance(5, flagState(true, winnerAddr, 0, 0)))
	require.NoError(t, err)
	tx := requireTransaction(t, r, "claimWin")
	require.Len(t, tx.Arguments, 1)
	assert.Equal(t, int64(5), tx.Arguments[0].Uint.Int64())

	r, err = e.React(KindPoSClaim, newInstance(5, flagState(false, winnerAddr, 1000, 5000)))
	require.NoError(t, err)
	assert.True(t, r.IsIdle())
}

func TestPoSPrototypePassesWinner(t *testing.T) {
	e := newTestEngine(t)

	r, err := e.React(KindPoSPrototype, newInstance(5, flagState(true, winnerAddr)))
	require.NoError(t, err)
	tx := requireTransaction(t, r, "claimWin")
	require.Len(t, tx.Arguments, 2)
	assert.Equal(t, int64(5), tx.Arguments[0].Uint.Int64())
	assert.Equal(t, core.TokenAddress, tx.Arguments[1].Type)
	assert.Equal(t, winnerAddr, tx.Arguments[1].Address)

	claim, err := e.React(KindPoSClaim, newInstance(5, flagState(true, winnerAddr, 0, 0)))
	require.NoError(t, err)
	assert.NotEqual(t, len(claim.Transaction.Arguments), len(tx.Arguments))
	assert.NotEqual(t, claim.Transaction.Signature(), tx.Signature())

	r, err = e.React(KindPoSPrototype, newInstance(5, flagState(false, winnerAddr)))
	require.NoError(t, err)
	assert.True(t, r.IsIdle())
}

// TestIndexOutsideUint256IsRejected keeps an eligible instance from turning a
// bad index into a call against some other round.
func TestIndexOutsideUint256IsRejected(t *testing.T) {
	e := newTestEngine(t)
	eligible := map[Kind]string{
		KindLottery:      lotteryInts(500, 100, 1, 1000, 1000, 0),
		KindPoSProduce:   flagState(true, selectorAddr, 1, 10000),
		KindPoSClaim:     flagState(true, winnerAddr, 0, 0),
		KindPoSPrototype: flagState(true, winnerAddr),
	}
	indexes := []struct {
		name  string
		index *big.Int
	}{
		{"negative", big.NewInt(-1)},
		{"2^256", new(big.Int).Lsh(big.NewInt(1), 256)},
		{"missing", nil},
	}
	for kind, state := range eligible {
		r, err := e.React(kind, newInstance(1, state))
		require.NoError(t, err, kind)
		require.False(t, r.IsIdle(), "%s must be eligible", kind)

		for _, tc := range indexes {
			inst := newInstance(0, state)
			inst.Index = tc.index

			r, err := e.React(kind, inst)
			require.ErrorIs(t, err, core.ErrInvalidIndex, "%s %s", kind, tc.name)
			assert.True(t, r.IsIdle(), "%s %s", kind, tc.name)
			assert.False(t, IsDecodeError(err))

			_, err = e.PrettyInstance(kind, inst)
			assert.ErrorIs(t, err, core.ErrInvalidIndex, "%s %s", kind, tc.name)
		}
	}
}

func TestMalformedStateIsDecodeError(t *testing.T) {
	e := newTestEngine(t)
	boolWhereUint := `[{"name":"x","type":"uint256[6]","value":[true,"0x1","0x1","0x1","0x1","0x1"]}]`
	cases := map[Kind][]string{
		KindLottery:      {lotteryInts(1, 1, 1, 1, 1, 1)[:40], `[]`, boolWhereUint},
		KindPoSProduce:   {flagState(true, selectorAddr, 1), flagState(true, selectorAddr, 1, 2, 3), `[true]`},
		KindPoSClaim:     {flagState(true, winnerAddr), `[{"name":"a","type":"uint256","value":"0x1"}]`, `"x"`},
		KindPoSPrototype: {flagState(true, winnerAddr, 1), `[{"name":"a","type":"bool","value":"true"},{"name":"b","type":"address","value":"0x00"}]`, `0x01`},
	}
	for kind, payloads := range cases {
		for _, payload := range payloads {
			r, err := e.React(kind, newInstance(1, payload))
			require.Error(t, err, "%s: %s", kind, payload)
			assert.True(t, IsDecodeError(err), "%s: %v", kind, err)
			assert.True(t, r.IsIdle())

			_, err = e.PrettyInstance(kind, newInstance(1, payload))
			assert.True(t, IsDecodeError(err), "%s: %v", kind, err)
		}
	}
}

func TestABIEncodedState(t *testing.T) {
	word := func(b []byte) []byte {
		w := make([]byte, 32)
		copy(w[32-len(b):], b)
		return w
	}
	data := append(word([]byte{1}), word(winnerAddr.Bytes())...)
	r, err := newTestEngine(t).React(KindPoSPrototype, newInstance(3, hexutil.Encode(data)))
	require.NoError(t, err)
	tx := requireTransaction(t, r, "claimWin")
	assert.Equal(t, winnerAddr, tx.Arguments[1].Address)
}
