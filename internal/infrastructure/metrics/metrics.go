package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/docuflow-api/internal/domain"
)

// Resultados posibles de una operación sobre documentos.
const (
	OutcomeOK          = "ok"
	OutcomeValidation  = "validation"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "store_unavailable"
	OutcomeUnexpected  = "unexpected"
)

// Metrics contadores e histogramas de las operaciones de documentos.
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// New registra las métricas en reg (prometheus.DefaultRegisterer si es nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docuflow_record_operations_total",
			Help: "Total number of record operations by kind, operation and outcome",
		}, []string{"kind", "op", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docuflow_record_operation_duration_seconds",
			Help:    "Duration of record operations including the store round trip",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		}, []string{"kind", "op"}),
	}
}

// ObserveOperation implementa records.Observer.
func (m *Metrics) ObserveOperation(kind, op string, err error, start time.Time) {
	m.Operations.WithLabelValues(kind, op, Outcome(err)).Inc()
	m.Duration.WithLabelValues(kind, op).Observe(time.Since(start).Seconds())
}

// Outcome clasifica un error según la taxonomía de dominio.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeValidation
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrStoreUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeUnexpected
	}
}
