// @title        DocuFlow API
// @version      1.0
// @description  Gestión de facturas y albaranes.
// @BasePath     /
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	_ "github.com/jhoicas/docuflow-api/docs"
	appanalytics "github.com/jhoicas/docuflow-api/internal/application/analytics"
	"github.com/jhoicas/docuflow-api/internal/application/records"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/local"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/docuflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/docuflow-api/internal/interfaces/http"
	"github.com/jhoicas/docuflow-api/pkg/config"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Backend).
		Msg("iniciando aplicación")

	// Importes como números JSON, no strings
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	var (
		invoiceRepo repository.RecordRepository[entity.Invoice]
		noteRepo    repository.RecordRepository[entity.DeliveryNote]
	)
	switch cfg.Store.Backend {
	case config.BackendLocal:
		db, err := local.Open(local.Options{Path: cfg.Store.LocalPath, Logger: log})
		if err != nil {
			log.Fatal().Err(err).Msg("apertura del almacén local")
		}
		defer db.Close()
		invoiceRepo = local.NewRecordStore(db, entity.InvoiceSchema)
		noteRepo = local.NewRecordStore(db, entity.DeliveryNoteSchema)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, postgres.NewTxRunner(pool)); err != nil {
			log.Fatal().Err(err).Msg("creación del esquema")
		}
		invoiceRepo = postgres.NewInvoiceRepository(pool)
		noteRepo = postgres.NewDeliveryNoteRepository(pool)
	}

	svcCfg := records.Config{
		Timeout:  cfg.Store.Timeout,
		Observer: metrics.New(prometheus.DefaultRegisterer),
	}
	invoiceSvc := records.NewService(entity.InvoiceSchema, invoiceRepo, svcCfg)
	noteSvc := records.NewService(entity.DeliveryNoteSchema, noteRepo, svcCfg)
	dashboardUC := appanalytics.NewDashboardUseCase(invoiceSvc, noteSvc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Docs.SwaggerFile != "" {
		if _, err := os.Stat(cfg.Docs.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.Docs.SwaggerFile,
				Path:     "docs",
				Title:    "DocuFlow API",
			}))
		} else {
			log.Warn().Str("file", cfg.Docs.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:       cfg.App.Name,
		Backend:       cfg.Store.Backend,
		Invoices:      invoiceSvc,
		DeliveryNotes: noteSvc,
		DashboardUC:   dashboardUC,
		PDF:           infrapdf.NewMarotoPDFGenerator(),
		Store:         invoiceSvc,
		Metrics:       prometheus.DefaultGatherer,
		Logger:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
