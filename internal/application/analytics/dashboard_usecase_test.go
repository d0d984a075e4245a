package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/docuflow-api/internal/application/analytics"
	"github.com/jhoicas/docuflow-api/internal/application/records"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

func invoice(date entity.Date, amount string, status entity.Status) entity.Invoice {
	return entity.Invoice{Date: date, Amount: decimal.RequireFromString(amount), Status: status}
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2026, 2, 17, 15, 0, 0, 0, time.UTC)

	m, err := analytics.ParseMonth("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), m)

	m, err = analytics.ParseMonth("2024-03", now)
	require.NoError(t, err)
	assert.Equal(t, time.March, m.Month())
	assert.Equal(t, 2024, m.Year())

	_, err = analytics.ParseMonth("03/2024", now)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	invoices := []entity.Invoice{
		invoice(entity.NewDate(2024, 3, 1), "100.25", entity.StatusPending),
		invoice(entity.NewDate(2024, 3, 1), "50", entity.StatusProcessed),
		invoice(entity.NewDate(2024, 2, 10), "10", entity.StatusPending),
	}
	notes := []entity.DeliveryNote{
		{Date: entity.NewDate(2024, 3, 31), Status: entity.StatusPending},
		{Date: entity.NewDate(2024, 4, 1), Status: entity.StatusProcessed},
	}

	out := analytics.Summarize(invoices, notes, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "2024-03", out.Month)
	assert.Equal(t, "Marzo 2024", out.DateLabel)
	assert.Equal(t, 3, out.Invoices.Total)
	assert.Equal(t, 2, out.Invoices.Pending)
	assert.Equal(t, 1, out.Invoices.Processed)
	assert.Equal(t, 2, out.DeliveryNotes.Total)
	assert.Equal(t, 3, out.TotalPending)
	assert.True(t, decimal.RequireFromString("160.25").Equal(out.TotalInvoiceAmount))
	assert.True(t, decimal.RequireFromString("150.25").Equal(out.MonthlyInvoiceAmount))

	require.Len(t, out.DailyActivity, 31)
	assert.Equal(t, "2024-03-01", out.DailyActivity[0].Date)
	assert.Equal(t, 2, out.DailyActivity[0].Invoices)
	assert.Equal(t, 2, out.DailyActivity[0].Total)
	assert.Equal(t, 1, out.DailyActivity[30].DeliveryNotes)

	require.Len(t, out.MonthlyTotals, 2)
	assert.Equal(t, "2024-02", out.MonthlyTotals[0].Month)
	assert.Equal(t, "2024-03", out.MonthlyTotals[1].Month)
	assert.Equal(t, 2, out.MonthlyTotals[1].InvoiceCount)
	assert.True(t, decimal.RequireFromString("150.25").Equal(out.MonthlyTotals[1].Amount))
}

func TestSummarize_SinDocumentos(t *testing.T) {
	out := analytics.Summarize(nil, nil, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	assert.Len(t, out.DailyActivity, 29)
	assert.NotNil(t, out.MonthlyTotals)
	assert.True(t, out.TotalInvoiceAmount.IsZero())
}

// stubRecords implementa solo List; el resto no se usa en el dashboard.
type stubRecords[T any] struct {
	records.Records[T]
	list []T
	err  error
}

func (s stubRecords[T]) List(context.Context, entity.Order) ([]T, error) { return s.list, s.err }

func TestGetSummary_PropagaErrorDelAlmacen(t *testing.T) {
	uc := analytics.NewDashboardUseCase(
		stubRecords[entity.Invoice]{list: []entity.Invoice{}},
		stubRecords[entity.DeliveryNote]{err: domain.ErrStoreUnavailable},
	)

	_, err := uc.GetSummary(context.Background(), time.Time{})
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}

func TestGetSummary_MesEnCursoPorDefecto(t *testing.T) {
	uc := analytics.NewDashboardUseCase(
		stubRecords[entity.Invoice]{list: []entity.Invoice{invoice(entity.NewDate(2024, 1, 5), "7", entity.StatusPending)}},
		stubRecords[entity.DeliveryNote]{},
	)

	out, err := uc.GetSummary(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-01", out.Month)
	assert.Equal(t, 1, out.DailyActivity[4].Invoices)

	out, err = uc.GetSummary(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01"), out.Month)
}
