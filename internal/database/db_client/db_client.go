package db_client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func Open(host, port, user, pass, database string) (*sql.DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		user, pass, host, port, database,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetConnMaxIdleTime(time.Minute)
	return db, db.Ping()
}

// EnsureSchema creates the gateway-owned tables. All marketplace data lives
// in the external backend; these two tables are the only local state.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS search_selections (
		session_id TEXT PRIMARY KEY,
		query      TEXT NOT NULL DEFAULT '',
		country    TEXT,
		state      TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS bid_audit (
		id         TEXT PRIMARY KEY,
		auction_id TEXT NOT NULL,
		user_id    TEXT NOT NULL,
		amount     DOUBLE PRECISION NOT NULL,
		accepted   BOOLEAN NOT NULL,
		reason     TEXT NOT NULL DEFAULT '',
		at         TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS bid_audit_auction_idx ON bid_audit (auction_id, at)`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
