package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
)

const (
	keyPrefix          = "docu-flow-"
	maxConflictRetries = 5
)

var (
	_ repository.RecordRepository[entity.Invoice]      = (*RecordStore[entity.Invoice])(nil)
	_ repository.RecordRepository[entity.DeliveryNote] = (*RecordStore[entity.DeliveryNote])(nil)
)

// RecordStore implementación local de RecordRepository. Las escrituras de una
// colección se serializan en proceso; Badger aporta la atomicidad de cada cambio.
type RecordStore[T any] struct {
	db     *badger.DB
	schema entity.Schema[T]
	key    []byte
	mu     sync.Mutex
}

// NewRecordStore construye la colección local para el esquema indicado.
func NewRecordStore[T any](db *DB, schema entity.Schema[T]) *RecordStore[T] {
	return &RecordStore[T]{
		db:     db.db,
		schema: schema,
		key:    []byte(CollectionKey(schema.Collection)),
	}
}

// CollectionKey clave Badger de una colección ("delivery_notes" -> "docu-flow-delivery-notes").
func CollectionKey(collection string) string {
	return keyPrefix + strings.ReplaceAll(collection, "_", "-")
}

// List devuelve la colección ordenada con el mismo criterio que el almacén SQL.
func (s *RecordStore[T]) List(ctx context.Context, order entity.Order) ([]T, error) {
	if err := s.schema.CheckOrder(order); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var list []T
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		list, err = s.load(txn)
		return err
	})
	if err != nil {
		return nil, s.storeError("list", err)
	}
	s.schema.Sort(list, order)
	return list, nil
}

// GetByID obtiene un registro por id; (nil, nil) si no existe.
func (s *RecordStore[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var found *T
	err := s.db.View(func(txn *badger.Txn) error {
		list, err := s.load(txn)
		if err != nil {
			return err
		}
		if i := s.indexOf(list, id); i >= 0 {
			rec := list[i]
			found = &rec
		}
		return nil
	})
	if err != nil {
		return nil, s.storeError("get", err)
	}
	return found, nil
}

// Create añade el registro; el id debe ser único dentro de la colección local.
func (s *RecordStore[T]) Create(ctx context.Context, rec *T) error {
	id := s.schema.ID(rec)
	return s.mutate(ctx, "insert", func(list []T) ([]T, error) {
		if s.indexOf(list, id) >= 0 {
			return nil, domain.ErrDuplicate
		}
		return append(list, *rec), nil
	})
}

// Update reemplaza el registro con el mismo id.
func (s *RecordStore[T]) Update(ctx context.Context, rec *T) error {
	id := s.schema.ID(rec)
	return s.mutate(ctx, "update", func(list []T) ([]T, error) {
		i := s.indexOf(list, id)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		list[i] = *rec
		return list, nil
	})
}

// Delete elimina el registro de la colección.
func (s *RecordStore[T]) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete", func(list []T) ([]T, error) {
		i := s.indexOf(list, id)
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		return append(list[:i], list[i+1:]...), nil
	})
}

// Ping falla si la base está cerrada.
func (s *RecordStore[T]) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return s.storeError("ping", badger.ErrDBClosed)
	}
	return ctx.Err()
}

// mutate lee la colección, aplica fn y la reescribe en una única transacción.
func (s *RecordStore[T]) mutate(ctx context.Context, op string, fn func([]T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err = s.db.Update(func(txn *badger.Txn) error {
			list, err := s.load(txn)
			if err != nil {
				return err
			}
			next, err := fn(list)
			if err != nil {
				return err
			}
			return s.save(txn, next)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	return s.storeError(op, err)
}

func (s *RecordStore[T]) load(txn *badger.Txn) ([]T, error) {
	item, err := txn.Get(s.key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	list := []T{}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &list)
	})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return list, nil
}

func (s *RecordStore[T]) save(txn *badger.Txn, list []T) error {
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	return txn.Set(s.key, b)
}

func (s *RecordStore[T]) indexOf(list []T, id string) int {
	for i := range list {
		if s.schema.ID(&list[i]) == id {
			return i
		}
	}
	return -1
}

func (s *RecordStore[T]) storeError(op string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, s.key, domain.ErrStoreUnavailable, err)
}
