package entity

// Status estado del ciclo de vida de un documento.
type Status string

// Estados permitidos. Cualquier otro valor es inválido.
const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
)

// Statuses lista los estados válidos en orden de ciclo de vida.
var Statuses = []Status{StatusPending, StatusProcessed}

// Valid indica si el estado pertenece al enum.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusProcessed
}

func (s Status) String() string { return string(s) }
