package dapp

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cartesi/pos-dlib/codec"
	"github.com/cartesi/pos-dlib/core"
	"github.com/cartesi/pos-dlib/events"
)

var errNilInstance = errors.New("dapp: nil instance")

// Engine evaluates instances of any supported variant. It keeps no state
// between calls, so one Engine may serve any number of goroutines.
type Engine struct {
	statuses core.StatusLookup
	emitter  *events.Emitter
	logger   *zap.Logger
}

// NewEngine creates an Engine. statuses and emitter may be nil; a nil
// logger discards output.
func NewEngine(statuses core.StatusLookup, emitter *events.Emitter, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{statuses: statuses, emitter: emitter, logger: logger}
}

// React decodes inst as kind, applies the variant's predicate and returns
// the transaction to submit, or idle. It fails on an unknown kind, an index
// outside uint256 (core.ErrInvalidIndex) or undecodable state
// (*codec.DecodeError), and never returns a transaction with an error.
func (e *Engine) React(kind Kind, inst *core.Instance) (core.Reaction, error) {
	if inst == nil {
		return core.Idle(), errNilInstance
	}
	h, err := kind.handler()
	if err != nil {
		return core.Idle(), err
	}
	if err := inst.CheckIndex(); err != nil {
		return core.Idle(), fmt.Errorf("%s instance: %w", h.name(), err)
	}
	index := inst.Index.String()

	d, err := h.decide(inst)
	if err != nil {
		e.emit(events.New(events.EventDecodeFailed, h.name(), index, map[string]any{"error": err.Error()}))
		return core.Idle(), err
	}
	e.logger.Debug("decoded context",
		zap.String("variant", h.name()),
		zap.String("index", index),
		zap.Any("ctx", d.ctx))

	reaction := buildReaction(inst, d.action)
	data := map[string]any{"submit": !reaction.IsIdle()}
	if d.action != nil {
		data["function"] = d.action.Function
		e.logger.Info("submitting action",
			zap.String("variant", h.name()),
			zap.String("index", index),
			zap.String("function", d.action.Function))
	}
	e.emit(events.New(events.EventDecision, h.name(), index, data))
	return reaction, nil
}

// PrettyInstance returns inst re-encoded for display: the state as a
// named-field JSON document, the service status for the variant's display
// name, and no sub-instances.
func (e *Engine) PrettyInstance(kind Kind, inst *core.Instance) (*core.Instance, error) {
	if inst == nil {
		return nil, errNilInstance
	}
	h, err := kind.handler()
	if err != nil {
		return nil, err
	}
	if err := inst.CheckIndex(); err != nil {
		return nil, fmt.Errorf("%s instance: %w", h.name(), err)
	}
	doc, err := h.pretty(inst)
	if err != nil {
		return nil, err
	}
	var status *core.ServiceStatus
	if e.statuses != nil {
		status = e.statuses.ServiceStatus(h.name())
	}
	return &core.Instance{
		Name:          h.name(),
		Concern:       inst.Concern,
		Index:         inst.Index,
		EncodedState:  doc,
		SubInstances:  []*core.Instance{},
		ServiceStatus: status,
	}, nil
}

func (e *Engine) emit(ev events.Event) {
	if e.emitter != nil {
		e.emitter.Emit(ev)
	}
}

// Job is one instance to evaluate in a batch.
type Job struct {
	Kind     Kind           `json:"variant"`
	Instance *core.Instance `json:"instance"`
}

// Result pairs a job's reaction with its error, if any.
type Result struct {
	Reaction core.Reaction
	Err      error
}

// ReactAll evaluates jobs on up to workers goroutines and returns results
// in job order. A failing job does not stop the others. If ctx is cancelled
// the jobs not yet started report ctx.Err() and so does ReactAll.
func (e *Engine) ReactAll(ctx context.Context, jobs []Job, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			r, err := e.React(job.Kind, job.Instance)
			results[i] = Result{Reaction: r, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}

// IsDecodeError reports whether err is a state decode failure.
func IsDecodeError(err error) bool {
	var de *codec.DecodeError
	return errors.As(err, &de)
}
