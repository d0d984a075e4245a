package http

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/application/records"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

// RenderFunc genera la representación PDF de un registro.
type RenderFunc[T any] func(ctx context.Context, rec *T) ([]byte, error)

// RecordHandler maneja las peticiones HTTP de un tipo de documento.
// Sin estado entre peticiones: solo extrae parámetros y traduce errores.
type RecordHandler[T any] struct {
	svc      records.Records[T]
	log      *logger.Logger
	notFound string // mensaje 404
	filename string // prefijo del PDF descargado
	render   RenderFunc[T]
}

// NewRecordHandler construye el handler.
func NewRecordHandler[T any](svc records.Records[T], log *logger.Logger, notFound, filename string) *RecordHandler[T] {
	return &RecordHandler[T]{svc: svc, log: log, notFound: notFound, filename: filename}
}

// WithPDF habilita GET /:id/pdf.
func (h *RecordHandler[T]) WithPDF(render RenderFunc[T]) *RecordHandler[T] {
	h.render = render
	return h
}

// Register monta las rutas CRUD en el grupo.
func (h *RecordHandler[T]) Register(g fiber.Router) {
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Delete("/:id", h.Delete)
	if h.render != nil {
		g.Get("/:id/pdf", h.PDF)
	}
}

// List GET /api/{documentos}?orderBy=-created_date
func (h *RecordHandler[T]) List(c *fiber.Ctx) error {
	order := entity.ParseOrder(c.Query("orderBy"))
	list, err := h.svc.List(c.UserContext(), order)
	if err != nil {
		return writeError(c, h.log, err, h.notFound)
	}
	return c.JSON(list)
}

// GetByID GET /api/{documentos}/:id
func (h *RecordHandler[T]) GetByID(c *fiber.Ctx) error {
	rec, err := h.svc.Get(c.UserContext(), recordID(c))
	if err != nil {
		return writeError(c, h.log, err, h.notFound)
	}
	return c.JSON(rec)
}

// Create POST /api/{documentos}
func (h *RecordHandler[T]) Create(c *fiber.Ctx) error {
	in, ok := parseFields(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err, h.notFound)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// Update PUT /api/{documentos}/:id (merge parcial)
func (h *RecordHandler[T]) Update(c *fiber.Ctx) error {
	in, ok := parseFields(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.svc.Update(c.UserContext(), recordID(c), in)
	if err != nil {
		return writeError(c, h.log, err, h.notFound)
	}
	return c.JSON(rec)
}

// Delete DELETE /api/{documentos}/:id
func (h *RecordHandler[T]) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), recordID(c)); err != nil {
		return writeError(c, h.log, err, h.notFound)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// PDF GET /api/{documentos}/:id/pdf
func (h *RecordHandler[T]) PDF(c *fiber.Ctx) error {
	id := recordID(c)
	rec, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err, h.notFound)
	}
	doc, err := h.render(c.UserContext(), rec)
	if err != nil {
		return writeError(c, h.log, err, h.notFound)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s-%s.pdf"`, h.filename, url.PathEscape(id)))
	return c.Send(doc)
}

// recordID devuelve el parámetro :id decodificado; el router no deshace el
// escape de la ruta.
func recordID(c *fiber.Ctx) string {
	raw := c.Params("id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

// parseFields lee el cuerpo JSON como mapa de campos; un cuerpo vacío equivale a {}.
func parseFields(c *fiber.Ctx) (entity.Fields, bool) {
	in := entity.Fields{}
	if len(c.Body()) == 0 {
		return in, true
	}
	if err := c.BodyParser(&in); err != nil {
		return nil, false
	}
	if in == nil {
		in = entity.Fields{}
	}
	return in, true
}
