package local_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/local"
)

func openStore(t *testing.T) (*local.DB, *local.RecordStore[entity.DeliveryNote]) {
	t.Helper()
	db, err := local.Open(local.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, local.NewRecordStore(db, entity.DeliveryNoteSchema)
}

func note(id, customer string, date entity.Date) *entity.DeliveryNote {
	return &entity.DeliveryNote{
		ID:           id,
		CustomerName: customer,
		Date:         date,
		Reference:    "REF-" + id,
		Status:       entity.StatusPending,
		CreatedDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCollectionKey(t *testing.T) {
	assert.Equal(t, "docu-flow-invoices", local.CollectionKey("invoices"))
	assert.Equal(t, "docu-flow-delivery-notes", local.CollectionKey("delivery_notes"))
}

func TestRecordStore_CRUD(t *testing.T) {
	_, store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, note("1", "Acme", entity.NewDate(2024, 3, 1))))

	got, err := store.GetByID(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.CustomerName)
	assert.Equal(t, "2024-03-01", got.Date.String())

	upd := *got
	upd.Status = entity.StatusProcessed
	require.NoError(t, store.Update(ctx, &upd))

	got, err = store.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusProcessed, got.Status)

	require.NoError(t, store.Delete(ctx, "1"))
	got, err = store.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordStore_IdentificadorDuplicado(t *testing.T) {
	_, store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, note("1", "Acme", entity.NewDate(2024, 3, 1))))
	assert.ErrorIs(t, store.Create(ctx, note("1", "Otro", entity.NewDate(2024, 3, 2))), domain.ErrDuplicate)
}

func TestRecordStore_InexistenteEsNotFound(t *testing.T) {
	_, store := openStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Update(ctx, note("zzz", "Acme", entity.NewDate(2024, 3, 1))), domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "zzz"), domain.ErrNotFound)

	list, err := store.List(ctx, entity.DefaultOrder)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecordStore_ListOrdenado(t *testing.T) {
	_, store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, note("a", "Beta", entity.NewDate(2024, 1, 1))))
	require.NoError(t, store.Create(ctx, note("b", "Alfa", entity.NewDate(2024, 3, 1))))
	require.NoError(t, store.Create(ctx, note("c", "Gamma", entity.NewDate(2024, 2, 1))))

	list, err := store.List(ctx, entity.ParseOrder("-date"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(list))

	list, err = store.List(ctx, entity.ParseOrder("customer_name"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids(list))

	_, err = store.List(ctx, entity.ParseOrder("precio"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordStore_ColeccionesIndependientes(t *testing.T) {
	db, notes := openStore(t)
	invoices := local.NewRecordStore(db, entity.InvoiceSchema)
	ctx := context.Background()

	require.NoError(t, notes.Create(ctx, note("1", "Acme", entity.NewDate(2024, 3, 1))))

	list, err := invoices.List(ctx, entity.DefaultOrder)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecordStore_BaseCerrada(t *testing.T) {
	db, store := openStore(t)
	require.NoError(t, db.Close())
	ctx := context.Background()

	assert.ErrorIs(t, store.Ping(ctx), domain.ErrStoreUnavailable)
	assert.ErrorIs(t, store.Ping(ctx), badger.ErrDBClosed)
	assert.ErrorIs(t, store.Create(ctx, note("1", "Acme", entity.NewDate(2024, 3, 1))), domain.ErrStoreUnavailable)
}

func TestRecordStore_ContextoCancelado(t *testing.T) {
	_, store := openStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Create(ctx, note("1", "Acme", entity.NewDate(2024, 3, 1))), context.Canceled)
	_, err := store.List(ctx, entity.DefaultOrder)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecordStore_PersisteEntreAperturas(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := local.Open(local.Options{Path: dir})
	require.NoError(t, err)
	store := local.NewRecordStore(db, entity.DeliveryNoteSchema)
	require.NoError(t, store.Create(ctx, note("1", "Acme", entity.NewDate(2024, 3, 1))))
	require.NoError(t, db.Close())

	db, err = local.Open(local.Options{Path: dir})
	require.NoError(t, err)
	defer db.Close()
	got, err := local.NewRecordStore(db, entity.DeliveryNoteSchema).GetByID(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.CustomerName)
}

func TestOpen_InMemoryIgnoraPath(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := local.Open(local.Options{Path: dir, InMemory: true})
	require.NoError(t, err)
	store := local.NewRecordStore(db, entity.DeliveryNoteSchema)
	require.NoError(t, store.Create(ctx, note("1", "Acme", entity.NewDate(2024, 3, 1))))
	require.NoError(t, db.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func ids(list []entity.DeliveryNote) []string {
	out := make([]string, 0, len(list))
	for _, n := range list {
		out = append(out, n.ID)
	}
	return out
}
