package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/docuflow-api/internal/application/analytics"
	"github.com/jhoicas/docuflow-api/internal/application/records"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

// PDFRenderer genera la representación imprimible de los documentos.
type PDFRenderer interface {
	InvoicePDF(ctx context.Context, inv *entity.Invoice) ([]byte, error)
	DeliveryNotePDF(ctx context.Context, note *entity.DeliveryNote) ([]byte, error)
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName       string
	Backend       string
	Invoices      records.Records[entity.Invoice]
	DeliveryNotes records.Records[entity.DeliveryNote]
	DashboardUC   *appanalytics.DashboardUseCase
	PDF           PDFRenderer         // nil = sin rutas /pdf
	Store         Pinger              // health check
	Metrics       prometheus.Gatherer // nil = sin /metrics
	Logger        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", NewHealthHandler(deps.AppName, deps.Backend, deps.Store).Get)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Facturas
	invoiceHandler := NewRecordHandler(deps.Invoices, log.Component("invoices"), "factura no encontrada", "factura")
	// Albaranes
	noteHandler := NewRecordHandler(deps.DeliveryNotes, log.Component("delivery-notes"), "albarán no encontrado", "albaran")
	if deps.PDF != nil {
		invoiceHandler.WithPDF(deps.PDF.InvoicePDF)
		noteHandler.WithPDF(deps.PDF.DeliveryNotePDF)
	}
	invoiceHandler.Register(api.Group("/invoices"))
	noteHandler.Register(api.Group("/delivery-notes"))

	// Dashboard
	if deps.DashboardUC != nil {
		dashboardHandler := NewDashboardHandler(deps.DashboardUC, log.Component("dashboard"))
		api.Get("/dashboard/summary", dashboardHandler.GetSummary)
	}
}
