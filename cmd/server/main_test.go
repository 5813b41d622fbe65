package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lostfound/internal/config"
	"lostfound/internal/db"
	"lostfound/internal/logging"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line), "every line is structured JSON: %s", raw)
		lines = append(lines, line)
	}
	return lines
}

func TestOpenDatabase_ResetLogsThroughLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, "debug")
	cfg := &config.Config{DBDriver: db.DriverSQLite, DatabaseDSN: ":memory:", ResetDB: true}

	gdb, err := openDatabase(context.Background(), cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, gdb)
	assert.True(t, gdb.Migrator().HasTable("users"))

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Contains(t, lines[0]["msg"], "RESET_DB=true")
	assert.Equal(t, "tables dropped", lines[1]["msg"])
}

func TestOpenDatabase_NoResetIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{DBDriver: db.DriverSQLite, DatabaseDSN: ":memory:"}

	_, err := openDatabase(context.Background(), cfg, logging.New(&buf, "debug"))
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	cfg := &config.Config{DBDriver: "oracle", DatabaseDSN: "x"}
	_, err := openDatabase(context.Background(), cfg, logging.Nop())
	assert.ErrorContains(t, err, "unsupported db driver")
}

func TestSwaggerURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/swagger/index.html", swaggerURL(&config.Config{ServerPort: "8080"}))
	assert.Equal(t, "http://api.example.com/swagger/index.html", swaggerURL(&config.Config{SwaggerHost: "api.example.com"}))
	assert.Equal(t, "https://api.example.com/swagger/index.html", swaggerURL(&config.Config{SwaggerHost: "https://api.example.com"}))
}
