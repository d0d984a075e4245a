package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura: importe en unidades monetarias mayores y descripción opcional.
type Invoice struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customer_name"`
	Date         Date            `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Status       Status          `json:"status"`
	Description  string          `json:"description"`
	CreatedDate  time.Time       `json:"created_date"`
}

// InvoiceSchema descriptor de la tabla invoices.
var InvoiceSchema = Schema[Invoice]{
	Kind:       "invoice",
	Collection: "invoices",
	Fields: []Field[Invoice]{
		{Name: FieldID, Kind: KindText, System: true, Ref: func(r *Invoice) any { return &r.ID }},
		{Name: FieldCustomerName, Kind: KindText, Required: true, Ref: func(r *Invoice) any { return &r.CustomerName }},
		{Name: FieldDate, Kind: KindDate, Required: true, Ref: func(r *Invoice) any { return &r.Date }},
		{Name: "amount", Kind: KindDecimal, Required: true, Ref: func(r *Invoice) any { return &r.Amount }},
		{Name: FieldStatus, Kind: KindStatus, Required: true, Ref: func(r *Invoice) any { return &r.Status }},
		{Name: "description", Kind: KindText, Ref: func(r *Invoice) any { return &r.Description }},
		{Name: FieldCreatedDate, Kind: KindTimestamp, System: true, Ref: func(r *Invoice) any { return &r.CreatedDate }},
	},
}
