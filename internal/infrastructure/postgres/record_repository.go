package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
)

var (
	_ repository.RecordRepository[entity.Invoice]      = (*RecordRepo[entity.Invoice])(nil)
	_ repository.RecordRepository[entity.DeliveryNote] = (*RecordRepo[entity.DeliveryNote])(nil)
)

// RecordRepo implementación genérica de RecordRepository sobre PostgreSQL (usable con pool o tx).
// Las sentencias se construyen una vez a partir del descriptor; cada operación es
// una única sentencia parametrizada.
type RecordRepo[T any] struct {
	q      Querier
	schema entity.Schema[T]
	table  string
	sql    recordSQL
}

type recordSQL struct {
	selectAll string
	getByID   string
	insert    string
	update    string
	delete    string
}

// NewRecordRepository construye el adaptador para el esquema indicado. Pasar pool o tx (Querier).
func NewRecordRepository[T any](q Querier, schema entity.Schema[T]) *RecordRepo[T] {
	return &RecordRepo[T]{
		q:      q,
		schema: schema,
		table:  schema.Collection,
		sql:    buildRecordSQL(schema),
	}
}

// NewInvoiceRepository adaptador de la tabla invoices.
func NewInvoiceRepository(q Querier) *RecordRepo[entity.Invoice] {
	return NewRecordRepository(q, entity.InvoiceSchema)
}

// NewDeliveryNoteRepository adaptador de la tabla delivery_notes.
func NewDeliveryNoteRepository(q Querier) *RecordRepo[entity.DeliveryNote] {
	return NewRecordRepository(q, entity.DeliveryNoteSchema)
}

// List devuelve todos los registros ordenados por el campo indicado; empates por id ascendente.
func (r *RecordRepo[T]) List(ctx context.Context, order entity.Order) ([]T, error) {
	orderBy, err := orderClause(r.schema, order)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, r.sql.selectAll+" ORDER BY "+orderBy)
	if err != nil {
		return nil, storeError("list "+r.table, err)
	}
	defer rows.Close()

	list := make([]T, 0)
	for rows.Next() {
		var rec T
		if err := rows.Scan(scanTargets(r.schema, &rec)...); err != nil {
			return nil, storeError("scan "+r.table, err)
		}
		list = append(list, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list "+r.table, err)
	}
	return list, nil
}

// GetByID obtiene un registro por id; (nil, nil) si no existe.
func (r *RecordRepo[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var rec T
	err := r.q.QueryRow(ctx, r.sql.getByID, id).Scan(scanTargets(r.schema, &rec)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get "+r.table, err)
	}
	return &rec, nil
}

// Create inserta el registro con id y created_date ya asignados.
func (r *RecordRepo[T]) Create(ctx context.Context, rec *T) error {
	args := make([]any, 0, len(r.schema.Fields))
	for _, f := range r.schema.Fields {
		args = append(args, f.Ref(rec))
	}
	if _, err := r.q.Exec(ctx, r.sql.insert, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storeError("insert "+r.table, err)
	}
	return nil
}

// Update reescribe los campos editables; id y created_date no forman parte del SET.
func (r *RecordRepo[T]) Update(ctx context.Context, rec *T) error {
	args := []any{r.schema.ID(rec)}
	for _, f := range r.schema.Fields {
		if !f.System {
			args = append(args, f.Ref(rec))
		}
	}
	tag, err := r.q.Exec(ctx, r.sql.update, args...)
	if err != nil {
		return storeError("update "+r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el registro (borrado físico).
func (r *RecordRepo[T]) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, r.sql.delete, id)
	if err != nil {
		return storeError("delete "+r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Ping comprueba la conexión con una consulta trivial.
func (r *RecordRepo[T]) Ping(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, "SELECT 1"); err != nil {
		return storeError("ping", err)
	}
	return nil
}

func buildRecordSQL[T any](schema entity.Schema[T]) recordSQL {
	table := pgx.Identifier{schema.Collection}.Sanitize()
	idCol := pgx.Identifier{entity.FieldID}.Sanitize()

	selects := make([]string, 0, len(schema.Fields))
	cols := make([]string, 0, len(schema.Fields))
	params := make([]string, 0, len(schema.Fields))
	sets := make([]string, 0, len(schema.Fields))
	for i, f := range schema.Fields {
		col := pgx.Identifier{f.Name}.Sanitize()
		if f.Kind == entity.KindText && !f.Required && !f.System {
			selects = append(selects, fmt.Sprintf("COALESCE(%s, '') AS %s", col, col))
		} else {
			selects = append(selects, col)
		}
		cols = append(cols, col)
		params = append(params, fmt.Sprintf("$%d", i+1))
		if !f.System {
			sets = append(sets, fmt.Sprintf("%s = $%d", col, len(sets)+2))
		}
	}

	selectAll := fmt.Sprintf("SELECT %s FROM %s", strings.Join(selects, ", "), table)
	return recordSQL{
		selectAll: selectAll,
		getByID:   fmt.Sprintf("%s WHERE %s = $1", selectAll, idCol),
		insert: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(cols, ", "), strings.Join(params, ", ")),
		update: fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1",
			table, strings.Join(sets, ", "), idCol),
		delete: fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, idCol),
	}
}

// orderClause traduce el criterio a SQL. Solo se aceptan columnas del descriptor;
// el texto se compara byte a byte (COLLATE "C") para coincidir con el almacén local.
func orderClause[T any](schema entity.Schema[T], order entity.Order) (string, error) {
	if err := schema.CheckOrder(order); err != nil {
		return "", err
	}
	f, _ := schema.Lookup(order.Field)
	expr := pgx.Identifier{f.Name}.Sanitize()
	if f.Kind == entity.KindText || f.Kind == entity.KindStatus {
		expr += ` COLLATE "C"`
	}
	dir := "ASC"
	if order.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf(`%s %s, %s COLLATE "C" ASC`, expr, dir, pgx.Identifier{entity.FieldID}.Sanitize()), nil
}

func scanTargets[T any](schema entity.Schema[T], rec *T) []any {
	targets := make([]any, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		targets = append(targets, f.Ref(rec))
	}
	return targets
}
