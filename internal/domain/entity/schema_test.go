package entity_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

// fields construye un cuerpo de petición a partir de valores Go.
func fields(t *testing.T, m map[string]any) entity.Fields {
	t.Helper()
	out := entity.Fields{}
	for k, v := range m {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		out[k] = raw
	}
	return out
}

func acmeInvoice(t *testing.T) entity.Fields {
	return fields(t, map[string]any{
		"customer_name": "Acme",
		"date":          "2024-03-01",
		"amount":        120.50,
		"status":        "pending",
	})
}

func TestApply_CreacionValida(t *testing.T) {
	var inv entity.Invoice
	err := entity.InvoiceSchema.Apply(&inv, acmeInvoice(t), true)
	require.NoError(t, err)

	assert.Equal(t, "Acme", inv.CustomerName)
	assert.Equal(t, entity.NewDate(2024, time.March, 1), inv.Date)
	assert.True(t, decimal.RequireFromString("120.50").Equal(inv.Amount))
	assert.Equal(t, entity.StatusPending, inv.Status)
	assert.Empty(t, inv.Description)
}

func TestApply_ObligatoriosAusentes(t *testing.T) {
	var inv entity.Invoice
	err := entity.InvoiceSchema.Apply(&inv, entity.Fields{}, true)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"customer_name", "date", "amount", "status"}, verr.FieldNames())
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestApply_EstadoFueraDelEnum(t *testing.T) {
	in := acmeInvoice(t)
	in["status"] = json.RawMessage(`"archived"`)

	var inv entity.Invoice
	err := entity.InvoiceSchema.Apply(&inv, in, true)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"status"}, verr.FieldNames())
	assert.Equal(t, "debe ser pending o processed", verr.Fields[0].Message)
}

func TestApply_TiposInvalidos(t *testing.T) {
	in := fields(t, map[string]any{
		"customer_name": 42,
		"date":          "01/03/2024",
		"amount":        "mucho",
		"status":        "pending",
	})

	var inv entity.Invoice
	err := entity.InvoiceSchema.Apply(&inv, in, true)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"customer_name", "date", "amount"}, verr.FieldNames())
}

func TestApply_ImporteComoTexto(t *testing.T) {
	in := acmeInvoice(t)
	in["amount"] = json.RawMessage(`"99.90"`)

	var inv entity.Invoice
	require.NoError(t, entity.InvoiceSchema.Apply(&inv, in, true))
	assert.True(t, decimal.RequireFromString("99.9").Equal(inv.Amount))
}

func TestApply_CamposDeSistemaIgnorados(t *testing.T) {
	in := acmeInvoice(t)
	in["id"] = json.RawMessage(`"forzado"`)
	in["created_date"] = json.RawMessage(`"2000-01-01T00:00:00Z"`)
	in["desconocido"] = json.RawMessage(`true`)

	var inv entity.Invoice
	require.NoError(t, entity.InvoiceSchema.Apply(&inv, in, true))
	assert.Empty(t, inv.ID)
	assert.True(t, inv.CreatedDate.IsZero())
}

func TestApply_ActualizacionParcial(t *testing.T) {
	var inv entity.Invoice
	require.NoError(t, entity.InvoiceSchema.Apply(&inv, acmeInvoice(t), true))

	err := entity.InvoiceSchema.Apply(&inv, fields(t, map[string]any{"status": "processed"}), false)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusProcessed, inv.Status)
	assert.Equal(t, "Acme", inv.CustomerName)
}

func TestApply_NullLimpiaOpcionalYRechazaObligatorio(t *testing.T) {
	var note entity.DeliveryNote
	require.NoError(t, entity.DeliveryNoteSchema.Apply(&note, fields(t, map[string]any{
		"customer_name": "Beta",
		"date":          "2024-02-01",
		"reference":     "DN-1",
		"status":        "pending",
		"notes":         "frágil",
	}), true))

	require.NoError(t, entity.DeliveryNoteSchema.Apply(&note, entity.Fields{"notes": json.RawMessage(`null`)}, false))
	assert.Empty(t, note.Notes)

	err := entity.DeliveryNoteSchema.Apply(&note, entity.Fields{"reference": json.RawMessage(`null`)}, false)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"reference"}, verr.FieldNames())
}

func TestApply_TextoEnBlancoEsObligatorio(t *testing.T) {
	in := acmeInvoice(t)
	in["customer_name"] = json.RawMessage(`"   "`)

	var inv entity.Invoice
	err := entity.InvoiceSchema.Apply(&inv, in, true)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"customer_name"}, verr.FieldNames())
}

func TestSetSystemYValidate(t *testing.T) {
	var inv entity.Invoice
	require.NoError(t, entity.InvoiceSchema.Apply(&inv, acmeInvoice(t), true))

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entity.InvoiceSchema.SetSystem(&inv, "abc", now)
	assert.Equal(t, "abc", entity.InvoiceSchema.ID(&inv))
	assert.Equal(t, now, inv.CreatedDate)
	assert.NoError(t, entity.InvoiceSchema.Validate(&inv))

	inv.Status = "archived"
	assert.ErrorIs(t, entity.InvoiceSchema.Validate(&inv), domain.ErrInvalidInput)
}
