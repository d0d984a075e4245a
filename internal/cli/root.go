// Package cli implementa docuflowctl: importación y exportación de facturas y
// albaranes contra la API REST o contra un almacén local.
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

// RootOptions flags globales de todos los comandos.
type RootOptions struct {
	API     string // URL base de la API (http://localhost:8080)
	Local   string // directorio de la base local
	Timeout time.Duration
	Verbose bool
}

// Kinds tipos de documento aceptados por --kind.
var Kinds = []string{entity.InvoiceSchema.Kind, entity.DeliveryNoteSchema.Kind}

// NewRootCommand crea el comando raíz de docuflowctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "docuflowctl",
		Short:         "Herramienta de línea de comandos de DocuFlow",
		Long:          "Importa y exporta facturas y albaranes contra la API (--api) o contra un almacén local (--local).",
		SilenceErrors: true, // main imprime el error
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.API, "api", "", "URL base de la API")
	cmd.PersistentFlags().StringVar(&opts.Local, "local", "", "directorio del almacén local")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "límite por operación")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "salida detallada")

	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

func (o *RootOptions) validate() error {
	switch {
	case o.API == "" && o.Local == "":
		return errors.New("indique --api o --local")
	case o.API != "" && o.Local != "":
		return errors.New("--api y --local son excluyentes")
	case o.Timeout <= 0:
		return fmt.Errorf("--timeout debe ser positivo")
	}
	return nil
}

func (o *RootOptions) logger(cmd *cobra.Command) *logger.Logger {
	level := "warn"
	if o.Verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Env: "development", Level: level, Output: cmd.ErrOrStderr()})
}

func isValidKind(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
