package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

// ExportOptions flags del comando export.
type ExportOptions struct {
	Kind    string
	OrderBy string
}

// NewExportCommand crea el comando export.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:          "export",
		Short:        "Exporta una colección como JSON",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidKind(opts.Kind) {
				return fmt.Errorf("--kind %q no soportado: %v", opts.Kind, Kinds)
			}
			log := rootOpts.logger(cmd)
			order := entity.ParseOrder(opts.OrderBy)
			if opts.Kind == entity.DeliveryNoteSchema.Kind {
				return exportKind(cmd.Context(), rootOpts, entity.DeliveryNoteSchema, order, cmd.OutOrStdout(), log)
			}
			return exportKind(cmd.Context(), rootOpts, entity.InvoiceSchema, order, cmd.OutOrStdout(), log)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", entity.InvoiceSchema.Kind, "tipo de documento (invoice|delivery_note)")
	cmd.Flags().StringVar(&opts.OrderBy, "order-by", entity.DefaultOrder.String(), "campo de orden; prefijo - para descendente")

	return cmd
}

func exportKind[T any](ctx context.Context, opts *RootOptions, schema entity.Schema[T], order entity.Order, w io.Writer, log *logger.Logger) (err error) {
	recs, closeFn, err := openRecords(opts, schema, log)
	if err != nil {
		return err
	}
	defer closeInto(&err, closeFn)

	list, err := recs.List(ctx, order)
	if err != nil {
		return err
	}
	log.Debug().Int("records", len(list)).Str("kind", schema.Kind).Msg("exportando")

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}
