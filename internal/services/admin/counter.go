package admin

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/louisbranch/launchpad/internal/platform/errors"
	"github.com/louisbranch/launchpad/internal/services/admin/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// counterOp is a dashboard counter mutation posted in the "op" field.
type counterOp string

const (
	opIncrement counterOp = "increment"
	opDecrement counterOp = "decrement"
	opReset     counterOp = "reset"
)

func parseCounterOp(value string) (counterOp, error) {
	switch op := counterOp(value); op {
	case opIncrement, opDecrement, opReset:
		return op, nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeCounterUnknownOperation, "unknown counter operation", map[string]string{"Op": value})
	}
}

// applyCounterOp mutates the named counter and returns its new state.
func applyCounterOp(ctx context.Context, store storage.CounterStore, name string, op counterOp, at time.Time) (storage.Counter, error) {
	var (
		counter storage.Counter
		err     error
	)
	switch op {
	case opIncrement:
		counter, err = store.AddCounter(ctx, name, 1, at)
	case opDecrement:
		counter, err = store.AddCounter(ctx, name, -1, at)
	case opReset:
		counter, err = store.ResetCounter(ctx, name, at)
	default:
		return storage.Counter{}, apperrors.WithMetadata(apperrors.CodeCounterUnknownOperation, "unknown counter operation", map[string]string{"Op": string(op)})
	}
	if err != nil {
		return storage.Counter{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "update counter", err)
	}
	return counter, nil
}

// loadCounter returns the stored counter, or a zero counter when it has
// never been written.
func loadCounter(ctx context.Context, store storage.CounterStore, name string) (storage.Counter, error) {
	counter, err := store.GetCounter(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Counter{Name: name}, nil
	}
	if err != nil {
		return storage.Counter{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "load counter", err)
	}
	return counter, nil
}

// counterMetrics tracks counter mutations and the settled counter value.
type counterMetrics struct {
	operations *prometheus.CounterVec
	value      prometheus.Gauge
}

func newCounterMetrics(reg prometheus.Registerer) *counterMetrics {
	factory := promauto.With(reg)
	return &counterMetrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_counter_operations_total",
			Help: "The total number of dashboard counter operations by op.",
		}, []string{"op"}),
		value: factory.NewGauge(prometheus.GaugeOpts{
			Name: "admin_counter_value",
			Help: "The dashboard counter value once updates settle.",
		}),
	}
}
