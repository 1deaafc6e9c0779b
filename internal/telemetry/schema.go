package telemetry

import "database/sql"

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS clk_events (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            timestamp INTEGER NOT NULL,
            clock TEXT NOT NULL,
            op TEXT NOT NULL,
            value INTEGER,
            ok INTEGER NOT NULL,
            error_code TEXT
        );
        CREATE INDEX IF NOT EXISTS idx_clk_events_clock ON clk_events(clock, timestamp)
    `)

	return err
}
