package events

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventType labels what happened.
type EventType string

const (
	EventDecision     EventType = "decision"
	EventDecodeFailed EventType = "decode_failed"
)

// Event is a diagnostic record of one decision call.
type Event struct {
	ID      string         `json:"id"`
	Type    EventType      `json:"type"`
	Variant string         `json:"variant"`
	Index   string         `json:"index"`
	Data    map[string]any `json:"data"`
}

// New stamps a fresh event ID.
func New(typ EventType, variant, index string, data map[string]any) Event {
	return Event{ID: uuid.NewString(), Type: typ, Variant: variant, Index: index, Data: data}
}

// Handler is a callback invoked for matching events.
type Handler func(Event)

// Emitter is a simple pub/sub broker. Subscribe before Emit.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	logger   *zap.Logger
}

// NewEmitter creates an Emitter with no subscribers. A nil logger discards
// subscriber panics silently.
func NewEmitter(logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{handlers: make(map[EventType][]Handler), logger: logger}
}

// Subscribe registers h to be called whenever typ is emitted.
func (e *Emitter) Subscribe(typ EventType, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[typ] = append(e.handlers[typ], h)
}

// Emit delivers ev to all subscribers for ev.Type synchronously.
// Each handler is guarded by panic recovery so a misbehaving subscriber
// cannot turn a decision into a crash.
func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	handlers := e.handlers[ev.Type]
	e.mu.RUnlock()
	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("event handler panicked",
						zap.String("type", string(ev.Type)),
						zap.Any("panic", r))
				}
			}()
			h(ev)
		}()
	}
}
