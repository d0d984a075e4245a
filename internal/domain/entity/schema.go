package entity

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/docuflow-api/internal/domain"
)

// Nombres de los campos comunes a todos los documentos.
const (
	FieldID           = "id"
	FieldCustomerName = "customer_name"
	FieldDate         = "date"
	FieldStatus       = "status"
	FieldCreatedDate  = "created_date"
)

// DefaultOrder orden de los listados cuando no se indica orderBy.
var DefaultOrder = Order{Field: FieldCreatedDate, Descending: true}

// FieldKind tipo semántico de un campo; define validación y orden natural.
type FieldKind int

const (
	KindText FieldKind = iota
	KindDate
	KindDecimal
	KindStatus
	KindTimestamp
)

// Field describe una columna del documento.
type Field[T any] struct {
	Name     string // nombre en JSON y en la columna SQL
	Kind     FieldKind
	Required bool
	// System: asignado por el servidor (id, created_date); nunca se toma de la petición.
	System bool
	// Ref devuelve un puntero al valor del campo dentro del registro.
	Ref func(rec *T) any
}

// Schema descriptor de un tipo de documento: campos, obligatorios y restricciones de enum.
// El servicio de registros y los almacenes son genéricos sobre este descriptor.
type Schema[T any] struct {
	Kind       string // "invoice", "delivery_note"
	Collection string // tabla SQL / colección local / segmento de la ruta
	Fields     []Field[T]
}

// Fields cuerpo de creación o actualización: campo → valor JSON crudo.
// Los campos ausentes se ignoran (merge parcial en actualizaciones).
type Fields map[string]json.RawMessage

// Lookup busca un campo por nombre.
func (s Schema[T]) Lookup(name string) (Field[T], bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Columns nombres de todas las columnas en el orden del descriptor.
func (s Schema[T]) Columns() []string {
	cols := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		cols = append(cols, f.Name)
	}
	return cols
}

// ID devuelve el identificador del registro.
func (s Schema[T]) ID(rec *T) string {
	f, _ := s.Lookup(FieldID)
	return *f.Ref(rec).(*string)
}

// SetSystem asigna identificador y fecha de creación.
func (s Schema[T]) SetSystem(rec *T, id string, createdAt time.Time) {
	for _, f := range s.Fields {
		switch f.Name {
		case FieldID:
			*f.Ref(rec).(*string) = id
		case FieldCreatedDate:
			*f.Ref(rec).(*time.Time) = createdAt
		}
	}
}

// Apply decodifica in sobre rec. Los campos de sistema y los desconocidos se ignoran.
// Con requireAll (creación) los campos obligatorios deben estar presentes; en
// actualización solo se validan los campos enviados. Devuelve un
// *domain.ValidationError con todos los campos inválidos.
func (s Schema[T]) Apply(rec *T, in Fields, requireAll bool) error {
	verr := &domain.ValidationError{}
	for _, f := range s.Fields {
		if f.System {
			continue
		}
		raw, present := in[f.Name]
		if !present {
			if requireAll && f.Required {
				verr.Add(f.Name, "es obligatorio")
			}
			continue
		}
		if isNull(raw) {
			if f.Required {
				verr.Add(f.Name, "es obligatorio")
				continue
			}
			clearRef(f.Ref(rec))
			continue
		}
		if err := decodeField(f, rec, raw); err != nil {
			verr.Add(f.Name, err.Error())
			continue
		}
		if f.Required && blank(f.Ref(rec)) {
			verr.Add(f.Name, "es obligatorio")
		}
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}

// Validate comprueba un registro completo (usado por almacenes que reciben registros ya construidos).
func (s Schema[T]) Validate(rec *T) error {
	verr := &domain.ValidationError{}
	for _, f := range s.Fields {
		if f.System {
			continue
		}
		v := f.Ref(rec)
		if st, ok := v.(*Status); ok && !st.Valid() {
			verr.Add(f.Name, "debe ser pending o processed")
			continue
		}
		if f.Required && blank(v) {
			verr.Add(f.Name, "es obligatorio")
		}
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}

func decodeField[T any](f Field[T], rec *T, raw json.RawMessage) error {
	switch f.Kind {
	case KindStatus:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return errInvalidStatus
		}
		st := Status(strings.TrimSpace(s))
		if !st.Valid() {
			return errInvalidStatus
		}
		*f.Ref(rec).(*Status) = st
		return nil
	case KindDecimal:
		var d decimal.Decimal
		if err := d.UnmarshalJSON(raw); err != nil {
			return errInvalidNumber
		}
		*f.Ref(rec).(*decimal.Decimal) = d
		return nil
	case KindText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return errInvalidText
		}
		*f.Ref(rec).(*string) = s
		return nil
	default:
		return json.Unmarshal(raw, f.Ref(rec))
	}
}

type fieldMessage string

func (m fieldMessage) Error() string { return string(m) }

const (
	errInvalidStatus fieldMessage = "debe ser pending o processed"
	errInvalidNumber fieldMessage = "debe ser un número"
	errInvalidText   fieldMessage = "debe ser texto"
)

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func blank(v any) bool {
	switch p := v.(type) {
	case *string:
		return strings.TrimSpace(*p) == ""
	case *Date:
		return p.IsZero()
	case *Status:
		return *p == ""
	case *time.Time:
		return p.IsZero()
	default:
		return false
	}
}

func clearRef(v any) {
	switch p := v.(type) {
	case *string:
		*p = ""
	case *Date:
		*p = Date{}
	case *decimal.Decimal:
		*p = decimal.Zero
	}
}

// compareRefs compara dos punteros a valores del mismo campo según su tipo semántico.
func compareRefs(a, b any) int {
	switch x := a.(type) {
	case *string:
		return strings.Compare(*x, *b.(*string))
	case *Status:
		return strings.Compare(string(*x), string(*b.(*Status)))
	case *Date:
		return x.Compare(*b.(*Date))
	case *time.Time:
		return x.Compare(*b.(*time.Time))
	case *decimal.Decimal:
		return x.Cmp(*b.(*decimal.Decimal))
	default:
		return 0
	}
}
