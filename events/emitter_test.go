package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestEmitDeliversToMatchingSubscribers(t *testing.T) {
	e := NewEmitter(zaptest.NewLogger(t))
	var decisions, failures int
	e.Subscribe(EventDecision, func(Event) { decisions++ })
	e.Subscribe(EventDecodeFailed, func(Event) { failures++ })

	e.Emit(New(EventDecision, "Lottery", "0", nil))
	e.Emit(New(EventDecision, "Lottery", "1", nil))

	assert.Equal(t, 2, decisions)
	assert.Equal(t, 0, failures)
}

func TestEmitRecoversFromPanickingHandler(t *testing.T) {
	e := NewEmitter(nil)
	var after bool
	e.Subscribe(EventDecision, func(Event) { panic("boom") })
	e.Subscribe(EventDecision, func(Event) { after = true })

	require.NotPanics(t, func() { e.Emit(New(EventDecision, "PoS", "3", nil)) })
	assert.True(t, after, "handlers after a panicking one still run")
}

func TestNewStampsUniqueIDs(t *testing.T) {
	a := New(EventDecision, "PoS", "1", nil)
	b := New(EventDecision, "PoS", "1", nil)
	assert.NotEqual(t, a.ID, b.ID)
	_, err := uuid.Parse(a.ID)
	assert.NoError(t, err)
}
