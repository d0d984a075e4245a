package repository

import (
	"context"

	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

// RecordRepository define el puerto de persistencia de un tipo de documento (DIP).
// Implementaciones: postgres (durable) y local (badger, modo sin conexión).
//
// Contrato común:
//   - GetByID devuelve (nil, nil) si el registro no existe.
//   - Update y Delete devuelven domain.ErrNotFound si el id no existe.
//   - Create devuelve domain.ErrDuplicate si el id ya está en uso.
//   - Los fallos del almacenamiento se envuelven con domain.ErrStoreUnavailable.
type RecordRepository[T any] interface {
	List(ctx context.Context, order entity.Order) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, rec *T) error
	Update(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
