package gateway

import (
	"github.com/jhoicas/docuflow-api/internal/application/records"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/local"
)

// NewLocal sustituye API, servicio remoto y almacén por el servicio de registros
// sobre la base local. Mismo contrato que NewHTTP.
func NewLocal[T any](db *local.DB, schema entity.Schema[T], cfg records.Config) *records.Service[T] {
	return records.NewService(schema, local.NewRecordStore(db, schema), cfg)
}
