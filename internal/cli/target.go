package cli

import (
	"errors"

	"github.com/jhoicas/docuflow-api/internal/application/records"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/gateway"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/local"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

// openRecords devuelve el contrato de registros del destino elegido y la
// función que libera sus recursos.
func openRecords[T any](opts *RootOptions, schema entity.Schema[T], log *logger.Logger) (records.Records[T], func() error, error) {
	if opts.API != "" {
		log.Debug().Str("api", opts.API).Str("kind", schema.Kind).Msg("destino remoto")
		remote := gateway.NewCached[T](gateway.NewHTTP(opts.API, schema, opts.Timeout))
		return remote, func() error { return nil }, nil
	}

	db, err := local.Open(local.Options{Path: opts.Local, Logger: log})
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("path", opts.Local).Str("kind", schema.Kind).Msg("destino local")
	return gateway.NewLocal(db, schema, records.Config{Timeout: opts.Timeout}), db.Close, nil
}

// closeInto libera el destino y añade su error al de la operación.
func closeInto(err *error, closeFn func() error) {
	*err = errors.Join(*err, closeFn())
}
