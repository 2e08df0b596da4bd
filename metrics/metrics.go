// Package metrics turns decision events into Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cartesi/pos-dlib/events"
)

const namespace = "posdlib"

// Collector counts reactions per variant and outcome, and decode failures
// per variant.
type Collector struct {
	reactions      *prometheus.CounterVec
	decodeFailures *prometheus.CounterVec
}

// NewCollector creates the counters and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		reactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_total",
			Help:      "Decisions taken, by variant and outcome (transaction or idle).",
		}, []string{"variant", "outcome"}),
		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_failures_total",
			Help:      "Instances whose state did not match the variant schema.",
		}, []string{"variant"}),
	}
	for _, col := range []prometheus.Collector{c.reactions, c.decodeFailures} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Attach subscribes the collector to emitter.
func (c *Collector) Attach(emitter *events.Emitter) {
	emitter.Subscribe(events.EventDecision, c.onDecision)
	emitter.Subscribe(events.EventDecodeFailed, c.onDecodeFailed)
}

func (c *Collector) onDecision(ev events.Event) {
	outcome := "idle"
	if submit, _ := ev.Data["submit"].(bool); submit {
		outcome = "transaction"
	}
	c.reactions.WithLabelValues(ev.Variant, outcome).Inc()
}

func (c *Collector) onDecodeFailed(ev events.Event) {
	c.decodeFailures.WithLabelValues(ev.Variant).Inc()
}
