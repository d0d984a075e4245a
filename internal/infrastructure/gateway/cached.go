package gateway

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/docuflow-api/internal/application/records"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

// Cached envuelve un records.Records y guarda los listados por criterio de orden.
// Cada mutación con éxito emitida por este cliente vacía la caché antes de
// devolver; las fallidas la dejan intacta. No hay garantía de frescura frente
// a cambios hechos por otros clientes.
type Cached[T any] struct {
	next    records.Records[T]
	group   singleflight.Group
	timeout time.Duration

	mu    sync.RWMutex
	gen   uint64
	lists map[string][]T
}

// NewCached construye la caché sobre next. Las cargas compartidas usan
// DefaultTimeout como límite.
func NewCached[T any](next records.Records[T]) *Cached[T] {
	return &Cached[T]{next: next, timeout: DefaultTimeout, lists: make(map[string][]T)}
}

// WithLoadTimeout cambia el límite de las cargas compartidas.
func (c *Cached[T]) WithLoadTimeout(d time.Duration) *Cached[T] {
	if d > 0 {
		c.timeout = d
	}
	return c
}

// List devuelve el listado en caché o lo carga; las cargas concurrentes del
// mismo orden comparten una única petición.
func (c *Cached[T]) List(ctx context.Context, order entity.Order) ([]T, error) {
	key := order.String()

	c.mu.RLock()
	cached, ok := c.lists[key]
	gen := c.gen
	c.mu.RUnlock()
	if ok {
		return slices.Clone(cached), nil
	}

	// La generación forma parte de la clave: tras una invalidación no se
	// reutiliza una carga iniciada antes. La carga no hereda la cancelación de
	// quien la inicia; cada llamante espera solo hasta su propio ctx.
	ch := c.group.DoChan(strconv.FormatUint(gen, 10)+"|"+key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		list, err := c.next.List(loadCtx, order)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.lists[key] = list
		}
		c.mu.Unlock()
		return list, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list %s: %w: %w", key, domain.ErrStoreUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]T)), nil
	}
}

// Get no se cachea.
func (c *Cached[T]) Get(ctx context.Context, id string) (*T, error) {
	return c.next.Get(ctx, id)
}

// Create delega e invalida si tiene éxito.
func (c *Cached[T]) Create(ctx context.Context, in entity.Fields) (*T, error) {
	rec, err := c.next.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	c.Invalidate()
	return rec, nil
}

// Update delega e invalida si tiene éxito.
func (c *Cached[T]) Update(ctx context.Context, id string, in entity.Fields) (*T, error) {
	rec, err := c.next.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	c.Invalidate()
	return rec, nil
}

// Delete delega e invalida si tiene éxito.
func (c *Cached[T]) Delete(ctx context.Context, id string) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

// Invalidate descarta todos los listados.
func (c *Cached[T]) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.lists = make(map[string][]T)
	c.mu.Unlock()
}
