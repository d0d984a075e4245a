package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaLockKey serializa EnsureSchema entre instancias que arrancan a la vez.
const schemaLockKey int64 = 0x646f6375 // "docu"

// EnsureSchema crea las tablas de documentos si no existen.
func EnsureSchema(ctx context.Context, runner *TxRunner) error {
	return runner.Locked(ctx, schemaLockKey, func(q Querier) error {
		if _, err := q.Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("aplicar esquema: %w", err)
		}
		return nil
	})
}
