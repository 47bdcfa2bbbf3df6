package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// database/sql に "sqlite3" ドライバを登録する。
	_ "github.com/mattn/go-sqlite3"
)

const createEmployeesTable = `
CREATE TABLE IF NOT EXISTS employees (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT ''
);
`

const createEmployeesEmailIndex = `CREATE INDEX IF NOT EXISTS idx_employees_email ON employees (email);`

// Open は SQLite データベースを開き疎通確認を行います。
// 接続ごとに別 DB になる ":memory:" でも同じ内容を参照できるよう接続数は 1 に固定します。
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return db, nil
}

// Migrate は employees テーブルを作成します。既に存在する場合は何もしません。
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{createEmployeesTable, createEmployeesEmailIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}
