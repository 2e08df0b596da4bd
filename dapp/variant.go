package dapp

import (
	"math/big"

	"github.com/cartesi/pos-dlib/codec"
	"github.com/cartesi/pos-dlib/core"
)

// Action names the contract function to call and its arguments.
type Action struct {
	Function  string
	Arguments []core.Token
}

// Variant describes one contract kind as data: how its state decodes, when
// it is worth acting on, and what to call when it is.
type Variant[C any] struct {
	Name     string
	Schema   codec.Schema
	Bind     func(codec.Values) C
	Eligible func(C) bool
	Action   func(ctx C, index *big.Int) Action
}

// decision is the outcome of evaluating one instance. action is nil when
// the predicate did not hold.
type decision struct {
	ctx    any
	action *Action
}

type handler interface {
	name() string
	decide(inst *core.Instance) (decision, error)
	pretty(inst *core.Instance) (string, error)
}

func (v *Variant[C]) name() string { return v.Name }

func (v *Variant[C]) decode(inst *core.Instance) (C, codec.Values, error) {
	var zero C
	vals, err := codec.Decode(inst.EncodedState, v.Schema)
	if err != nil {
		return zero, nil, err
	}
	return v.Bind(vals), vals, nil
}

func (v *Variant[C]) decide(inst *core.Instance) (decision, error) {
	ctx, _, err := v.decode(inst)
	if err != nil {
		return decision{}, err
	}
	d := decision{ctx: ctx}
	if v.Eligible(ctx) {
		act := v.Action(ctx, inst.Index)
		d.action = &act
	}
	return d, nil
}

func (v *Variant[C]) pretty(inst *core.Instance) (string, error) {
	_, vals, err := v.decode(inst)
	if err != nil {
		return "", err
	}
	return codec.EncodePretty(v.Schema, vals)
}

// buildReaction turns a decision into what the submission layer consumes:
// zero value, default gas, simplest strategy, concern passed through.
func buildReaction(inst *core.Instance, act *Action) core.Reaction {
	if act == nil {
		return core.Idle()
	}
	return core.Submit(&core.TransactionRequest{
		Concern:   inst.Concern,
		Value:     new(big.Int),
		Function:  act.Function,
		Arguments: act.Arguments,
		Strategy:  core.StrategySimplest,
	})
}

// indexAction is the action shape shared by most variants: fn(index).
func indexAction[C any](fn string) func(C, *big.Int) Action {
	return func(_ C, index *big.Int) Action {
		return Action{Function: fn, Arguments: []core.Token{core.UintToken(index)}}
	}
}
