package spawn

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/udisondev/spawnkit/internal/spawn"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds spawn counters. A nil *Metrics records nothing.
type Metrics struct {
	attempts     metric.Int64Counter
	created      metric.Int64Counter
	refused      metric.Int64Counter
	configErrors metric.Int64Counter
}

// NewMetrics creates counters on the given meter.
// Nil meter means the global OTel meter (no-op if not configured).
func NewMetrics(m metric.Meter) (*Metrics, error) {
	if m == nil {
		m = meter()
	}

	var (
		ms  Metrics
		err error
	)

	ms.attempts, err = m.Int64Counter(
		"spawner.attempts",
		metric.WithDescription("Spawn attempts, including refused and misconfigured ones"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating attempts counter: %w", err)
	}

	ms.created, err = m.Int64Counter(
		"spawner.instances.created",
		metric.WithDescription("Instances created by the host"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating created counter: %w", err)
	}

	ms.refused, err = m.Int64Counter(
		"spawner.instances.refused",
		metric.WithDescription("Spawn requests refused by the host"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating refused counter: %w", err)
	}

	ms.configErrors, err = m.Int64Counter(
		"spawner.config_errors",
		metric.WithDescription("Spawn attempts dropped due to missing prototypes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating config errors counter: %w", err)
	}

	return &ms, nil
}

func spawnerAttr(id string) metric.AddOption {
	return metric.WithAttributes(attribute.String("spawner", id))
}

func spawnerObserveAttr(id string) metric.ObserveOption {
	return metric.WithAttributes(attribute.String("spawner", id))
}

func (m *Metrics) attempt(id string) {
	if m == nil {
		return
	}
	m.attempts.Add(context.Background(), 1, spawnerAttr(id))
}

func (m *Metrics) create(id string) {
	if m == nil {
		return
	}
	m.created.Add(context.Background(), 1, spawnerAttr(id))
}

func (m *Metrics) refuse(id string) {
	if m == nil {
		return
	}
	m.refused.Add(context.Background(), 1, spawnerAttr(id))
}

func (m *Metrics) configError(id string) {
	if m == nil {
		return
	}
	m.configErrors.Add(context.Background(), 1, spawnerAttr(id))
}
