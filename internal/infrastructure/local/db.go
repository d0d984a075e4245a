// Package local implementa el almacén de respaldo sin conexión sobre BadgerDB:
// una clave por colección ("docu-flow-invoices", "docu-flow-delivery-notes")
// cuyo valor es el array JSON de registros.
package local

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/jhoicas/docuflow-api/pkg/logger"
)

// Options configura la base local.
type Options struct {
	// Directorio de la base. Vacío = modo en memoria.
	Path string
	// InMemory fuerza modo en memoria aunque Path esté definido.
	InMemory bool
	// Logger para los mensajes internos de Badger; nil los descarta.
	Logger *logger.Logger
}

// DB base Badger compartida por las colecciones.
type DB struct {
	db *badger.DB
}

// Open abre (o crea) la base local.
func Open(opts Options) (*DB, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)
	if opts.Path == "" || opts.InMemory {
		badgerOpts = badgerOpts.WithDir("").WithValueDir("").WithInMemory(true)
	}
	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(badgerLogger{l: opts.Logger.Component("badger")})
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &DB{db: db}, nil
}

// Close cierra la base.
func (d *DB) Close() error {
	return d.db.Close()
}

// badgerLogger adapta zerolog a badger.Logger.
type badgerLogger struct {
	l *logger.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{})   { b.l.Error().Msgf(format, args...) }
func (b badgerLogger) Warningf(format string, args ...interface{}) { b.l.Warn().Msgf(format, args...) }
func (b badgerLogger) Infof(format string, args ...interface{})    { b.l.Debug().Msgf(format, args...) }
func (b badgerLogger) Debugf(format string, args ...interface{})   { b.l.Trace().Msgf(format, args...) }
