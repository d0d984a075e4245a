package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Conteos por estado, importes de facturas y actividad diaria del mes seleccionado.
type DashboardSummaryDTO struct {
	Invoices      DocumentCountsDTO `json:"invoices"`
	DeliveryNotes DocumentCountsDTO `json:"delivery_notes"`
	TotalPending  int               `json:"total_pending"` // facturas + albaranes pendientes

	TotalInvoiceAmount   decimal.Decimal `json:"total_invoice_amount"`   // suma de todas las facturas
	MonthlyInvoiceAmount decimal.Decimal `json:"monthly_invoice_amount"` // facturas con fecha en el mes seleccionado

	// Metadatos del período
	Month     string `json:"month"`      // ej: "2026-02"
	DateLabel string `json:"date_label"` // ej: "Febrero 2026"

	// Una entrada por día del mes (gráfica de líneas)
	DailyActivity []DailyActivityDTO `json:"daily_activity"`
	// Importe facturado por mes, ascendente (gráfica de barras)
	MonthlyTotals []MonthlyTotalDTO `json:"monthly_totals"`
}

// DocumentCountsDTO conteos de un tipo de documento.
type DocumentCountsDTO struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Processed int `json:"processed"`
}

// DailyActivityDTO documentos con fecha en un día concreto.
type DailyActivityDTO struct {
	Date          string `json:"date"` // YYYY-MM-DD
	Invoices      int    `json:"invoices"`
	DeliveryNotes int    `json:"delivery_notes"`
	Total         int    `json:"total"`
}

// MonthlyTotalDTO facturación agregada de un mes.
type MonthlyTotalDTO struct {
	Month        string          `json:"month"` // YYYY-MM
	InvoiceCount int             `json:"invoice_count"`
	Amount       decimal.Decimal `json:"amount"`
}
