package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrStoreUnavailable = errors.New("almacenamiento no disponible")
	ErrDuplicate        = errors.New("recurso duplicado")
)

// FieldError describe un campo rechazado por la validación.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa todos los campos inválidos de una petición.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError construye el error con un único campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add acumula un campo inválido.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Empty indica si no se registró ningún campo.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// FieldNames devuelve los nombres de los campos rechazados, en orden.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrInvalidInput.Error() + " (" + strings.Join(parts, "; ") + ")"
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
