package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/docuflow-api/pkg/logger"
)

func TestNew_JSONConNivelYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "WARN", Output: &buf})

	log.Info().Msg("descartado")
	log.Component("records").Warn().Str("kind", "invoice").Msg("lento")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "records", entry["component"])
	assert.Equal(t, "invoice", entry["kind"])
	assert.Equal(t, "lento", entry["message"])
}

func TestNew_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "verboso", Output: &buf})

	log.Debug().Msg("no")
	log.Info().Msg("si")
	assert.Contains(t, buf.String(), `"si"`)
	assert.NotContains(t, buf.String(), `"no"`)
}
