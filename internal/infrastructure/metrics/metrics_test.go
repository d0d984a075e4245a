package metrics_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/metrics"
)

func TestOutcome(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, metrics.OutcomeOK},
		{domain.NewValidationError("status", "inválido"), metrics.OutcomeValidation},
		{fmt.Errorf("get: %w", domain.ErrNotFound), metrics.OutcomeNotFound},
		{fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, context.DeadlineExceeded), metrics.OutcomeUnavailable},
		{errors.New("otro"), metrics.OutcomeUnexpected},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, metrics.Outcome(tc.err), "%v", tc.err)
	}
}

func TestObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveOperation("invoice", "create", nil, time.Now())
	m.ObserveOperation("invoice", "create", domain.ErrNotFound, time.Now())
	m.ObserveOperation("invoice", "create", nil, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("invoice", "create", metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("invoice", "create", metrics.OutcomeNotFound)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}
