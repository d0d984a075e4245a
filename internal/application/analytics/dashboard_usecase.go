// Package analytics contiene el resumen del Dashboard: conteos por estado,
// importes mensuales y actividad diaria de facturas y albaranes.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/application/records"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

const monthLayout = "2006-01"

// DashboardUseCase genera el resumen a partir del contrato Records, por lo que
// funciona igual con el almacén SQL, el local o un gateway de cliente.
type DashboardUseCase struct {
	invoices      records.Records[entity.Invoice]
	deliveryNotes records.Records[entity.DeliveryNote]
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	invoices records.Records[entity.Invoice],
	deliveryNotes records.Records[entity.DeliveryNote],
) *DashboardUseCase {
	return &DashboardUseCase{invoices: invoices, deliveryNotes: deliveryNotes, now: time.Now}
}

// ParseMonth interpreta "YYYY-MM"; vacío devuelve el mes de now.
func ParseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("mes %q: se espera YYYY-MM", s)
	}
	return t, nil
}

// GetSummary carga ambas colecciones en paralelo y agrega el mes indicado
// (cero = mes en curso).
func (uc *DashboardUseCase) GetSummary(ctx context.Context, month time.Time) (*dto.DashboardSummaryDTO, error) {
	if month.IsZero() {
		month, _ = ParseMonth("", uc.now())
	}

	var (
		invoices []entity.Invoice
		notes    []entity.DeliveryNote
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := uc.invoices.List(gctx, entity.DefaultOrder)
		if err != nil {
			return fmt.Errorf("dashboard: facturas: %w", err)
		}
		invoices = list
		return nil
	})
	g.Go(func() error {
		list, err := uc.deliveryNotes.List(gctx, entity.DefaultOrder)
		if err != nil {
			return fmt.Errorf("dashboard: albaranes: %w", err)
		}
		notes = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Summarize(invoices, notes, month), nil
}

// Summarize agrega los documentos. month se normaliza al día 1.
func Summarize(invoices []entity.Invoice, notes []entity.DeliveryNote, month time.Time) *dto.DashboardSummaryDTO {
	month = time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthKey := month.Format(monthLayout)

	out := &dto.DashboardSummaryDTO{
		TotalInvoiceAmount:   decimal.Zero,
		MonthlyInvoiceAmount: decimal.Zero,
		Month:                monthKey,
		DateLabel:            monthLabel(month),
	}

	// ── Actividad diaria: un bucket por día del mes ───────────────────────────
	daysInMonth := month.AddDate(0, 1, -1).Day()
	daily := make([]dto.DailyActivityDTO, daysInMonth)
	for i := range daily {
		daily[i].Date = month.AddDate(0, 0, i).Format(entity.DateLayout)
	}
	dayIndex := func(d entity.Date) (int, bool) {
		if d.IsZero() || d.Format(monthLayout) != monthKey {
			return 0, false
		}
		return d.Day() - 1, true
	}

	monthly := map[string]*dto.MonthlyTotalDTO{}

	for _, inv := range invoices {
		countStatus(&out.Invoices, inv.Status)
		out.TotalInvoiceAmount = out.TotalInvoiceAmount.Add(inv.Amount)

		if i, ok := dayIndex(inv.Date); ok {
			daily[i].Invoices++
			out.MonthlyInvoiceAmount = out.MonthlyInvoiceAmount.Add(inv.Amount)
		}
		if !inv.Date.IsZero() {
			key := inv.Date.Format(monthLayout)
			mt, ok := monthly[key]
			if !ok {
				mt = &dto.MonthlyTotalDTO{Month: key, Amount: decimal.Zero}
				monthly[key] = mt
			}
			mt.InvoiceCount++
			mt.Amount = mt.Amount.Add(inv.Amount)
		}
	}
	for _, n := range notes {
		countStatus(&out.DeliveryNotes, n.Status)
		if i, ok := dayIndex(n.Date); ok {
			daily[i].DeliveryNotes++
		}
	}
	for i := range daily {
		daily[i].Total = daily[i].Invoices + daily[i].DeliveryNotes
	}

	out.TotalPending = out.Invoices.Pending + out.DeliveryNotes.Pending
	out.DailyActivity = daily
	out.MonthlyTotals = make([]dto.MonthlyTotalDTO, 0, len(monthly))
	for _, mt := range monthly {
		out.MonthlyTotals = append(out.MonthlyTotals, *mt)
	}
	sort.Slice(out.MonthlyTotals, func(i, j int) bool {
		return out.MonthlyTotals[i].Month < out.MonthlyTotals[j].Month
	})
	return out
}

func countStatus(c *dto.DocumentCountsDTO, s entity.Status) {
	c.Total++
	switch s {
	case entity.StatusPending:
		c.Pending++
	case entity.StatusProcessed:
		c.Processed++
	}
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
