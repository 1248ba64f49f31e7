package vault

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
)

// Metrics holds the Prometheus collectors of vault operations.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics registers the vault collectors with reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophvault_vault_operations_total",
				Help: "Total number of vault operations by record type, operation and result",
			},
			[]string{"record", "operation", "result"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gophvault_vault_operation_duration_seconds",
				Help:    "Duration of vault operations, including encryption",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"record", "operation"},
		),
	}
}

func (m *Metrics) observe(record, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(record, operation, resultLabel(err)).Inc()
	m.duration.WithLabelValues(record, operation).Observe(time.Since(start).Seconds())
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	case errors.Is(err, common.ErrorUnauthorized):
		return "unauthorized"
	case errors.Is(err, common.ErrorValidation):
		return "invalid"
	case errors.Is(err, cryptox.ErrDecryption):
		return "decrypt_failed"
	default:
		return "error"
	}
}
