package dapp

import (
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/cartesi/pos-dlib/core"
)

var (
	contractAddr = common.HexToAddress("0x00000000000000000000000000000000000000c0")
	userAddr     = common.HexToAddress("0x0000000000000000000000000000000000000001")
	winnerAddr   = common.HexToAddress("0xabababababababababababababababababababab")
	selectorAddr = common.HexToAddress("0x00000000000000000000000000000000000000aa")
)

func hexOf(v *big.Int) string { return hexutil.EncodeBig(v) }

func newInstance(index int64, state string) *core.Instance {
	return &core.Instance{
		Name:         "instance",
		Concern:      core.Concern{ContractAddress: contractAddr, UserAddress: userAddr},
		Index:        big.NewInt(index),
		EncodedState: state,
	}
}

// lotteryState encodes the six lottery positions the way the dispatcher
// reports them: a single uint256[6] field.
func lotteryState(vals ...*big.Int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%q", hexOf(v))
	}
	return `[{"name":"lottery","type":"uint256[6]","value":[` + strings.Join(parts, ",") + `]}]`
}

func lotteryInts(block, goal, difficulty, staked, time, log int64) string {
	return lotteryState(big.NewInt(block), big.NewInt(goal), big.NewInt(difficulty),
		big.NewInt(staked), big.NewInt(time), big.NewInt(log))
}

// flagState encodes the bool/address/uint256... layout shared by the PoS
// variants.
func flagState(flag bool, addr common.Address, uints ...int64) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, `[{"name":"flag","type":"bool","value":%t},`, flag)
	fmt.Fprintf(&b, `{"name":"addr","type":"address","value":%q}`, addr.Hex())
	for i, u := range uints {
		fmt.Fprintf(&b, `,{"name":"u%d","type":"uint256","value":%q}`, i, hexOf(big.NewInt(u)))
	}
	b.WriteString("]")
	return b.String()
}

type mapLookup map[string]*core.ServiceStatus

func (m mapLookup) ServiceStatus(name string) *core.ServiceStatus { return m[name] }

func requireTransaction(t *testing.T, r core.Reaction, function string) *core.TransactionRequest {
	t.Helper()
	require.False(t, r.IsIdle(), "expected a transaction")
	tx := r.Transaction
	require.Equal(t, function, tx.Function)
	require.Equal(t, 0, tx.Value.Sign(), "value must be zero")
	require.Nil(t, tx.Gas)
	require.Equal(t, core.StrategySimplest, tx.Strategy)
	require.Equal(t, contractAddr, tx.Concern.ContractAddress)
	require.Equal(t, userAddr, tx.Concern.UserAddress)
	return tx
}
