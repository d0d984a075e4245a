package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

// Codificaciones aceptadas por --encoding.
const (
	EncodingUTF8        = "utf8"
	EncodingLatin1      = "latin1"
	EncodingWindows1252 = "windows1252"
)

// ImportOptions flags del comando import.
type ImportOptions struct {
	Kind     string
	Encoding string
}

// ImportResult resumen de una importación.
type ImportResult struct {
	Imported int
	Rejected []RowError
}

// RowError fila rechazada por la validación.
type RowError struct {
	Row int // 1 = primera fila de datos
	Err error
}

// NewImportCommand crea el comando import.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import <archivo.csv>",
		Short: "Importa documentos desde un CSV",
		Long: `Importa facturas o albaranes desde un CSV cuya cabecera contiene los
nombres de campo (customer_name, date, amount, status, ...).

Las filas inválidas se informan y se omiten; un fallo del almacenamiento
detiene la importación.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, rootOpts, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", entity.InvoiceSchema.Kind, "tipo de documento (invoice|delivery_note)")
	cmd.Flags().StringVar(&opts.Encoding, "encoding", EncodingUTF8, "codificación del CSV (utf8|latin1|windows1252)")

	return cmd
}

func runImport(cmd *cobra.Command, rootOpts *RootOptions, opts *ImportOptions, path string) error {
	if !isValidKind(opts.Kind) {
		return fmt.Errorf("--kind %q no soportado: %v", opts.Kind, Kinds)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := ReadCSV(f, opts.Encoding)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	log := rootOpts.logger(cmd)
	var res *ImportResult
	switch opts.Kind {
	case entity.DeliveryNoteSchema.Kind:
		res, err = importKind(cmd.Context(), rootOpts, entity.DeliveryNoteSchema, rows, log)
	default:
		res, err = importKind(cmd.Context(), rootOpts, entity.InvoiceSchema, rows, log)
	}
	if res != nil {
		out := cmd.OutOrStdout()
		for _, r := range res.Rejected {
			fmt.Fprintf(cmd.ErrOrStderr(), "fila %d: %v\n", r.Row, r.Err)
		}
		fmt.Fprintf(out, "importados: %d, rechazados: %d\n", res.Imported, len(res.Rejected))
	}
	return err
}

func importKind[T any](ctx context.Context, opts *RootOptions, schema entity.Schema[T], rows []entity.Fields, log *logger.Logger) (res *ImportResult, err error) {
	recs, closeFn, err := openRecords(opts, schema, log)
	if err != nil {
		return nil, err
	}
	defer closeInto(&err, closeFn)

	log.Debug().Int("rows", len(rows)).Str("kind", schema.Kind).Msg("importando")
	return Import[T](ctx, recs, rows)
}

// Creator parte del contrato de registros que usa Import.
type Creator[T any] interface {
	Create(ctx context.Context, in entity.Fields) (*T, error)
}

// Import crea un registro por fila. Las filas inválidas se acumulan en el
// resultado; cualquier otro error detiene la importación.
func Import[T any](ctx context.Context, creator Creator[T], rows []entity.Fields) (*ImportResult, error) {
	res := &ImportResult{}
	for i, row := range rows {
		if _, err := creator.Create(ctx, row); err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				res.Rejected = append(res.Rejected, RowError{Row: i + 1, Err: err})
				continue
			}
			return res, fmt.Errorf("fila %d: %w", i+1, err)
		}
		res.Imported++
	}
	return res, nil
}

// ReadCSV lee un CSV con cabecera y devuelve una entrada por fila con los
// campos no vacíos. Los nombres de cabecera se normalizan a minúsculas.
func ReadCSV(r io.Reader, encoding string) ([]entity.Fields, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf-8":
	case EncodingLatin1, "iso-8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case EncodingWindows1252, "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("codificación %q no soportada", encoding)
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("CSV vacío")
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var rows []entity.Fields
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := entity.Fields{}
		for i, v := range rec {
			v = strings.TrimSpace(v)
			if i >= len(header) || header[i] == "" || v == "" {
				continue
			}
			raw, _ := json.Marshal(v)
			row[header[i]] = raw
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
