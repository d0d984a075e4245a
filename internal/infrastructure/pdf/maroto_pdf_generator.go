// Package pdf genera la representación imprimible de un documento
// (factura o albarán) en A4.
//
// Layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de documento    │  N° documento + Fecha        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre                                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: Importe / Referencia + Estado                     │
//	│  OBSERVACIONES: Descripción / Notas                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Fecha de registro                                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 79, Green: 70, Blue: 229}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorPending = &props.Color{Red: 245, Green: 158, Blue: 11}
	colorDone    = &props.Color{Red: 16, Green: 185, Blue: 129}
)

// document vista común de factura y albarán para el layout.
type document struct {
	Title       string
	ID          string
	Date        entity.Date
	Customer    string
	Status      entity.Status
	Detail      [][2]string // etiqueta, valor
	Remarks     string
	CreatedDate string
}

// MarotoPDFGenerator genera PDFs de documentos usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador (importes con formato es-ES).
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.Spanish)}
}

// InvoicePDF genera el PDF de una factura.
func (g *MarotoPDFGenerator) InvoicePDF(ctx context.Context, inv *entity.Invoice) ([]byte, error) {
	return g.render(ctx, document{
		Title:    "FACTURA",
		ID:       inv.ID,
		Date:     inv.Date,
		Customer: inv.CustomerName,
		Status:   inv.Status,
		Detail: [][2]string{
			{"Importe", g.FormatAmount(inv.Amount)},
		},
		Remarks:     inv.Description,
		CreatedDate: inv.CreatedDate.Format("02/01/2006 15:04"),
	})
}

// DeliveryNotePDF genera el PDF de un albarán.
func (g *MarotoPDFGenerator) DeliveryNotePDF(ctx context.Context, note *entity.DeliveryNote) ([]byte, error) {
	return g.render(ctx, document{
		Title:    "ALBARÁN",
		ID:       note.ID,
		Date:     note.Date,
		Customer: note.CustomerName,
		Status:   note.Status,
		Detail: [][2]string{
			{"Referencia", note.Reference},
		},
		Remarks:     note.Notes,
		CreatedDate: note.CreatedDate.Format("02/01/2006 15:04"),
	})
}

// FormatAmount formatea un importe en euros con separadores es-ES.
func (g *MarotoPDFGenerator) FormatAmount(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f €", d.Round(2).InexactFloat64())
}

func (g *MarotoPDFGenerator) render(ctx context.Context, doc document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Title+" "+doc.ID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(detailRows(doc)...)
	if doc.Remarks != "" {
		m.AddRows(remarksRow(doc.Remarks))
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo de documento (izq) y N° + fecha (der).
func headerRow(doc document) core.Row {
	return row.New(18).Add(
		col.New(6).Add(
			text.New(doc.Title, props.Text{
				Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(6).Add(
			text.New("N° "+doc.ID, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Fecha: "+doc.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func customerRow(doc document) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Customer, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 6,
			}),
		),
	)
}

// detailRows: una fila por dato del documento más el estado.
func detailRows(doc document) []core.Row {
	rows := make([]core.Row, 0, len(doc.Detail)+1)
	for _, d := range doc.Detail {
		rows = append(rows, row.New(8).Add(
			col.New(4).Add(text.New(d[0]+":", props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 1,
			})),
			col.New(8).Add(text.New(d[1], props.Text{
				Size: 9, Align: align.Right, Top: 1,
			})),
		))
	}
	rows = append(rows, row.New(8).Add(
		col.New(4).Add(text.New("Estado:", props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 1,
		})),
		col.New(8).Add(text.New(statusLabel(doc.Status), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Color: statusColor(doc.Status),
		})),
	))
	return rows
}

func remarksRow(remarks string) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			text.New("OBSERVACIONES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
			text.New(remarks, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func footerRow(doc document) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Registrado el "+doc.CreatedDate, props.Text{
			Size: 7, Color: colorGray, Top: 2, Align: align.Right,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(s entity.Status) string {
	if s == entity.StatusProcessed {
		return "Procesado"
	}
	return "Pendiente"
}

func statusColor(s entity.Status) *props.Color {
	if s == entity.StatusProcessed {
		return colorDone
	}
	return colorPending
}
