package entity

import (
	"sort"
	"strings"

	"github.com/jhoicas/docuflow-api/internal/domain"
)

// Order criterio de ordenación de un listado: un campo y su sentido.
type Order struct {
	Field      string
	Descending bool
}

// ParseOrder interpreta un especificador "campo" o "-campo" (descendente).
// Un especificador vacío devuelve DefaultOrder.
func ParseOrder(raw string) Order {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultOrder
	}
	if strings.HasPrefix(raw, "-") {
		return Order{Field: strings.TrimSpace(raw[1:]), Descending: true}
	}
	return Order{Field: raw}
}

// String devuelve el especificador en la forma aceptada por ParseOrder.
func (o Order) String() string {
	if o.Descending {
		return "-" + o.Field
	}
	return o.Field
}

// CheckOrder verifica que el campo de orden exista en el esquema.
func (s Schema[T]) CheckOrder(o Order) error {
	if _, ok := s.Lookup(o.Field); !ok {
		return domain.NewValidationError("orderBy", "campo desconocido: "+o.Field)
	}
	return nil
}

// Compare compara dos registros por el campo de o. Los empates se resuelven por
// identificador ascendente, también en orden descendente.
func (s Schema[T]) Compare(a, b *T, o Order) int {
	f, ok := s.Lookup(o.Field)
	if ok {
		c := compareRefs(f.Ref(a), f.Ref(b))
		if o.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return strings.Compare(s.ID(a), s.ID(b))
}

// Sort ordena recs en sitio según o.
func (s Schema[T]) Sort(recs []T, o Order) {
	sort.SliceStable(recs, func(i, j int) bool {
		return s.Compare(&recs[i], &recs[j], o) < 0
	})
}
