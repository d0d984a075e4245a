package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/docuflow-api/internal/application/records"
	"github.com/jhoicas/docuflow-api/internal/cli"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/gateway"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/local"
	apphttp "github.com/jhoicas/docuflow-api/internal/interfaces/http"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

func TestReadCSV_UTF8ConBOM(t *testing.T) {
	in := "\ufeffCustomer_Name,date,amount,status,description\n" +
		"Acme,2024-03-01,100.50,pending,\n" +
		",,,,\n" +
		"Beta,2024-03-02,7,processed,Portes\n"

	rows, err := cli.ReadCSV(strings.NewReader(in), cli.EncodingUTF8)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.JSONEq(t, `"Acme"`, string(rows[0]["customer_name"]))
	assert.JSONEq(t, `"100.50"`, string(rows[0]["amount"]))
	assert.NotContains(t, rows[0], "description")
	assert.JSONEq(t, `"Portes"`, string(rows[1]["description"]))
}

func TestReadCSV_Latin1(t *testing.T) {
	in := []byte("customer_name,reference\nJos\xe9 P\xe9rez,DN-1\n")

	rows, err := cli.ReadCSV(bytes.NewReader(in), cli.EncodingLatin1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.JSONEq(t, `"José Pérez"`, string(rows[0]["customer_name"]))
}

func TestReadCSV_Errores(t *testing.T) {
	_, err := cli.ReadCSV(strings.NewReader("a,b\n"), "ebcdic")
	assert.Error(t, err)

	_, err = cli.ReadCSV(strings.NewReader(""), cli.EncodingUTF8)
	assert.Error(t, err)
}

type fakeCreator struct {
	calls int
	errs  map[int]error
}

func (f *fakeCreator) Create(_ context.Context, _ entity.Fields) (*entity.Invoice, error) {
	f.calls++
	if err := f.errs[f.calls]; err != nil {
		return nil, err
	}
	return &entity.Invoice{}, nil
}

func TestImport_OmiteFilasInvalidas(t *testing.T) {
	c := &fakeCreator{errs: map[int]error{2: domain.NewValidationError("status", "inválido")}}

	res, err := cli.Import[entity.Invoice](context.Background(), c, make([]entity.Fields, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 2, res.Rejected[0].Row)
}

func TestImport_DetieneAnteFalloDelAlmacen(t *testing.T) {
	c := &fakeCreator{errs: map[int]error{2: domain.ErrStoreUnavailable}}

	res, err := cli.Import[entity.Invoice](context.Background(), c, make([]entity.Fields, 3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 2, c.calls)
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRoot_DestinoObligatorioYExcluyente(t *testing.T) {
	_, _, err := run(t, "export")
	assert.Error(t, err)

	_, _, err = run(t, "export", "--api", "http://localhost:8080", "--local", t.TempDir())
	assert.Error(t, err)

	_, _, err = run(t, "export", "--local", t.TempDir(), "--kind", "receipt")
	assert.Error(t, err)
}

func TestImportExport_Local(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "facturas.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"customer_name,date,amount,status\n"+
			"Acme,2024-03-01,100.5,pending\n"+
			"Beta,2024-03-02,20,archived\n"+
			"Gamma,2024-03-03,30,processed\n"), 0o600))
	store := filepath.Join(dir, "db")

	out, errOut, err := run(t, "--local", store, "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "importados: 2, rechazados: 1")
	assert.Contains(t, errOut, "fila 2")

	out, _, err = run(t, "--local", store, "export", "--order-by", "customer_name")
	require.NoError(t, err)

	var list []entity.Invoice
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Acme", list[0].CustomerName)
	assert.Equal(t, "Gamma", list[1].CustomerName)
	assert.NotEmpty(t, list[0].ID)

	out, _, err = run(t, "--local", store, "export", "--kind", "delivery_note")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestImportExport_API(t *testing.T) {
	db, err := local.Open(local.Options{InMemory: true})
	require.NoError(t, err)

	log := logger.Nop()
	app := fiber.New(fiber.Config{DisableStartupMessage: true, ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		Invoices:      gateway.NewLocal(db, entity.InvoiceSchema, records.Config{}),
		DeliveryNotes: gateway.NewLocal(db, entity.DeliveryNoteSchema, records.Config{}),
		Logger:        log,
	})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() {
		_ = app.Shutdown()
		_ = db.Close()
	})
	api := "http://" + ln.Addr().String()

	csvPath := filepath.Join(t.TempDir(), "albaranes.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"customer_name,date,reference,status,notes\n"+
			"Acme,2024-03-01,DN-1,pending,Entrega parcial\n"+
			"Beta,2024-03-02,,processed,\n"), 0o600))

	out, errOut, err := run(t, "--api", api, "import", "--kind", "delivery_note", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "importados: 1, rechazados: 1")
	assert.Contains(t, errOut, "reference")

	out, _, err = run(t, "--api", api, "export", "--kind", "delivery_note")
	require.NoError(t, err)

	var list []entity.DeliveryNote
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "DN-1", list[0].Reference)
	assert.Equal(t, "Entrega parcial", list[0].Notes)
}
