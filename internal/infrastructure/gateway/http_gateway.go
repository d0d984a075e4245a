// Package gateway contiene las implementaciones de cliente del contrato
// records.Records: el acceso por la API REST, la caché de listados que se
// invalida tras cada mutación propia y el modo sin conexión sobre el almacén local.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/application/records"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

// DefaultTimeout límite por petición cuando no se indica otro.
const DefaultTimeout = 10 * time.Second

var (
	_ records.Records[entity.Invoice]      = (*HTTP[entity.Invoice])(nil)
	_ records.Records[entity.DeliveryNote] = (*HTTP[entity.DeliveryNote])(nil)
)

// HTTP implementa records.Records llamando a la API REST.
type HTTP[T any] struct {
	endpoint string // http://host:port/api/invoices
	timeout  time.Duration
}

// NewHTTP construye el gateway del tipo de documento descrito por schema.
// baseURL es la raíz del servidor (http://localhost:8080).
func NewHTTP[T any](baseURL string, schema entity.Schema[T], timeout time.Duration) *HTTP[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP[T]{
		endpoint: strings.TrimRight(baseURL, "/") + ResourcePath(schema.Collection),
		timeout:  timeout,
	}
}

// ResourcePath ruta REST de una colección ("delivery_notes" -> "/api/delivery-notes").
func ResourcePath(collection string) string {
	return "/api/" + strings.ReplaceAll(collection, "_", "-")
}

// List GET /api/{documentos}?orderBy=...
func (g *HTTP[T]) List(ctx context.Context, order entity.Order) ([]T, error) {
	u := g.endpoint + "?orderBy=" + url.QueryEscape(order.String())
	out := []T{}
	if err := g.call(ctx, fiber.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get GET /api/{documentos}/{id}
func (g *HTTP[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := g.call(ctx, fiber.MethodGet, g.recordURL(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create POST /api/{documentos}
func (g *HTTP[T]) Create(ctx context.Context, in entity.Fields) (*T, error) {
	var out T
	if err := g.call(ctx, fiber.MethodPost, g.endpoint, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update PUT /api/{documentos}/{id}
func (g *HTTP[T]) Update(ctx context.Context, id string, in entity.Fields) (*T, error) {
	var out T
	if err := g.call(ctx, fiber.MethodPut, g.recordURL(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete DELETE /api/{documentos}/{id}
func (g *HTTP[T]) Delete(ctx context.Context, id string) error {
	var out dto.SuccessResponse
	return g.call(ctx, fiber.MethodDelete, g.recordURL(id), nil, &out)
}

func (g *HTTP[T]) recordURL(id string) string {
	return g.endpoint + "/" + url.PathEscape(id)
}

// call ejecuta la petición y traduce el estado HTTP a la taxonomía de dominio.
func (g *HTTP[T]) call(ctx context.Context, method, uri string, body any, out any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, uri, domain.ErrStoreUnavailable, err)
	}
	timeout := g.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	// Los id van escapados en la ruta; sin esto fasthttp reescribe %2F como /.
	req.URI().DisablePathNormalizing = true
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			fiber.ReleaseAgent(a)
			return fmt.Errorf("encode body: %w", err)
		}
		req.Header.SetContentType(fiber.MIMEApplicationJSON)
		req.SetBody(b)
	}
	a.Timeout(timeout)
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("%s %s: %w: %w", method, uri, domain.ErrStoreUnavailable, err)
	}
	a.DisablePathNormalizing = true

	// Bytes libera el agente
	code, respBody, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w: %w", method, uri, domain.ErrStoreUnavailable, errors.Join(errs...))
	}

	switch {
	case code >= 200 && code < 300:
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, uri, err)
		}
		return nil
	case code == fiber.StatusBadRequest:
		return validationError(respBody)
	case code == fiber.StatusNotFound:
		return domain.ErrNotFound
	default:
		return fmt.Errorf("%s %s: %w: status %d", method, uri, domain.ErrStoreUnavailable, code)
	}
}

// validationError reconstruye el ValidationError a partir del cuerpo 400.
func validationError(body []byte) error {
	var resp dto.ErrorResponse
	_ = json.Unmarshal(body, &resp)
	verr := &domain.ValidationError{Fields: resp.Fields}
	if verr.Empty() {
		msg := resp.Message
		if msg == "" {
			msg = "petición rechazada"
		}
		verr.Add("body", msg)
	}
	return verr
}
