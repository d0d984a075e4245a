package dto

import "github.com/jhoicas/docuflow-api/internal/domain"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"` // solo en errores de validación
}

// SuccessResponse confirmación de operaciones sin cuerpo (DELETE).
type SuccessResponse struct {
	Success bool `json:"success"`
}

// HealthResponse estado del servicio y de su almacenamiento.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Store   string `json:"store"`
}
