package telemetry_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/clkctl/internal/telemetry"
)

func TestRecord(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")
	rec, err := telemetry.NewService(telemetry.Config{DBPath: dbPath, Enabled: true})
	require.NoError(t, err)
	defer rec.Close()

	ctx := context.Background()
	require.NoError(t, rec.Record(ctx, &telemetry.Event{
		Timestamp: time.Now(),
		Clock:     "core_clk",
		Op:        telemetry.OpSetRate,
		Value:     192000000,
		OK:        true,
	}))
	require.NoError(t, rec.Record(ctx, &telemetry.Event{
		Timestamp: time.Now(),
		Clock:     "gfx_clk",
		Op:        telemetry.OpMeasure,
		OK:        false,
		ErrorCode: "clk_measure_reparent_failed",
	}))

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM clk_events`).Scan(&count))
	assert.Equal(t, 2, count)

	var errorCode string
	require.NoError(t, db.QueryRow(
		`SELECT error_code FROM clk_events WHERE clock = ?`, "gfx_clk").Scan(&errorCode))
	assert.Equal(t, "clk_measure_reparent_failed", errorCode)
}

func TestRecordInvalidEvent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")
	rec, err := telemetry.NewService(telemetry.Config{DBPath: dbPath, Enabled: true})
	require.NoError(t, err)
	defer rec.Close()

	assert.Error(t, rec.Record(context.Background(), nil))
	assert.Error(t, rec.Record(context.Background(), &telemetry.Event{Op: telemetry.OpSetRate}))
}

func TestDefaultConfig(t *testing.T) {
	cfg := telemetry.DefaultConfig()
	assert.Equal(t, "/var/lib/clkctl/telemetry.db", cfg.DBPath)

	cfg.Enabled = true
	assert.NoError(t, cfg.Validate())
}

func TestNewServiceInvalidConfig(t *testing.T) {
	_, err := telemetry.NewService(telemetry.Config{Enabled: true})
	require.Error(t, err)
}
