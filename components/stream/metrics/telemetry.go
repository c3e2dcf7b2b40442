// Package metrics backs stream telemetry with Prometheus counters.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Telemetry counts stream events by name and variant.
type Telemetry struct {
	events *prometheus.CounterVec
}

// NewTelemetry creates and registers the event counter on reg.
func NewTelemetry(reg prometheus.Registerer, namespace string) (*Telemetry, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Activity stream events by name and variant.",
	}, []string{"event", "variant"})
	if reg != nil {
		if err := reg.Register(events); err != nil {
			return nil, fmt.Errorf("registering events counter: %w", err)
		}
	}
	return &Telemetry{events: events}, nil
}

// Record increments the counter for event. The "variant" payload key, when
// present, becomes the variant label.
func (t *Telemetry) Record(_ context.Context, event string, payload map[string]any) {
	if t == nil {
		return
	}
	variant, _ := payload["variant"].(string)
	t.events.WithLabelValues(event, variant).Inc()
}
