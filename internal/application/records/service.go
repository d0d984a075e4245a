// Package records contiene el servicio genérico de documentos (facturas y
// albaranes). Una única implementación, parametrizada por el descriptor
// entity.Schema, se instancia una vez por tipo de documento.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
)

const (
	tracerName    = "github.com/jhoicas/docuflow-api/records"
	maxIDAttempts = 3
)

// Records contrato uniforme de un tipo de documento. Lo implementan Service
// (sobre cualquier RecordRepository) y los gateways de cliente.
type Records[T any] interface {
	List(ctx context.Context, order entity.Order) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in entity.Fields) (*T, error)
	Update(ctx context.Context, id string, in entity.Fields) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Observer recibe el resultado de cada operación (métricas).
type Observer interface {
	ObserveOperation(kind, op string, err error, start time.Time)
}

// Config parámetros opcionales del servicio.
type Config struct {
	Timeout  time.Duration    // límite por operación; 0 = sin límite
	Now      func() time.Time // reloj para created_date
	NewID    func() string    // generador de identificadores
	Observer Observer
}

// Service implementa Records[T] sobre un RecordRepository[T].
type Service[T any] struct {
	schema   entity.Schema[T]
	repo     repository.RecordRepository[T]
	timeout  time.Duration
	now      func() time.Time
	newID    func() string
	observer Observer
	tracer   trace.Tracer
}

var _ Records[entity.Invoice] = (*Service[entity.Invoice])(nil)

// NewService construye el servicio para el esquema y repositorio indicados.
func NewService[T any](schema entity.Schema[T], repo repository.RecordRepository[T], cfg Config) *Service[T] {
	s := &Service[T]{
		schema:   schema,
		repo:     repo,
		timeout:  cfg.Timeout,
		now:      cfg.Now,
		newID:    cfg.NewID,
		observer: cfg.Observer,
		tracer:   otel.Tracer(tracerName),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = NewID
	}
	return s
}

// NewID genera un identificador UUIDv7: prefijo temporal más sufijo aleatorio.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Schema devuelve el descriptor del tipo de documento.
func (s *Service[T]) Schema() entity.Schema[T] { return s.schema }

// List devuelve todos los registros ordenados. Nunca devuelve nil sin error.
func (s *Service[T]) List(ctx context.Context, order entity.Order) ([]T, error) {
	var out []T
	err := s.do(ctx, "list", func(ctx context.Context) error {
		if err := s.schema.CheckOrder(order); err != nil {
			return err
		}
		list, err := s.repo.List(ctx, order)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Get obtiene un registro por id; domain.ErrNotFound si no existe.
func (s *Service[T]) Get(ctx context.Context, id string) (*T, error) {
	var out *T
	err := s.do(ctx, "get", func(ctx context.Context) error {
		rec, err := s.find(ctx, id)
		out = rec
		return err
	})
	return out, err
}

// Create valida el cuerpo, asigna id y created_date y persiste el registro.
// Un registro inválido nunca llega al repositorio.
func (s *Service[T]) Create(ctx context.Context, in entity.Fields) (*T, error) {
	var rec T
	err := s.do(ctx, "create", func(ctx context.Context) error {
		if err := s.schema.Apply(&rec, in, true); err != nil {
			return err
		}
		createdAt := s.now().UTC().Truncate(time.Millisecond)
		for attempt := 1; ; attempt++ {
			s.schema.SetSystem(&rec, s.newID(), createdAt)
			err := s.repo.Create(ctx, &rec)
			if errors.Is(err, domain.ErrDuplicate) && attempt < maxIDAttempts {
				continue
			}
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update fusiona los campos enviados sobre el registro existente.
// id y created_date nunca se sobrescriben; los campos omitidos conservan su valor.
func (s *Service[T]) Update(ctx context.Context, id string, in entity.Fields) (*T, error) {
	var out *T
	err := s.do(ctx, "update", func(ctx context.Context) error {
		cur, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		next := *cur
		if err := s.schema.Apply(&next, in, false); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, &next); err != nil {
			return err
		}
		out = &next
		return nil
	})
	return out, err
}

// Delete elimina el registro de forma definitiva.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	return s.do(ctx, "delete", func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

// Ping verifica que el almacenamiento responde.
func (s *Service[T]) Ping(ctx context.Context) error {
	return s.do(ctx, "ping", s.repo.Ping)
}

func (s *Service[T]) find(ctx context.Context, id string) (*T, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// do ejecuta fn con timeout, span y observación del resultado.
func (s *Service[T]) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, s.schema.Kind+"."+op,
		trace.WithAttributes(attribute.String("record.kind", s.schema.Kind)))
	defer span.End()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := classify(fn(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, op)
	}
	if s.observer != nil {
		s.observer.ObserveOperation(s.schema.Kind, op, err, start)
	}
	return err
}

// classify convierte la expiración del contexto en ErrStoreUnavailable.
func classify(err error) error {
	if err == nil || errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}
