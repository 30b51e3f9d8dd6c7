package storage

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// MySQL keeps values in the kv_entries table. All timestamps are UTC.
type MySQL struct {
	db *sql.DB
}

func NewMySQL(db *sql.DB) *MySQL { return &MySQL{db: db} }

// EnsureSchema creates the kv_entries table when it does not exist.
func (m *MySQL) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS kv_entries (
        k          VARCHAR(191) NOT NULL PRIMARY KEY,
        v          LONGTEXT     NOT NULL,
        updated_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
	if _, err := m.db.ExecContext(ctx, q); err != nil {
		return errors.Wrap(err, "create kv_entries")
	}
	return nil
}

func (m *MySQL) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `SELECT v FROM kv_entries WHERE k = ?`
	var v string
	err := m.db.QueryRowContext(ctx, q, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "select %q", key)
	}
	return v, true, nil
}

func (m *MySQL) Set(ctx context.Context, key, raw string) error {
	const q = `INSERT INTO kv_entries (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`
	if _, err := m.db.ExecContext(ctx, q, key, raw); err != nil {
		return errors.Wrapf(err, "upsert %q", key)
	}
	return nil
}

func (m *MySQL) Remove(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_entries WHERE k = ?`
	if _, err := m.db.ExecContext(ctx, q, key); err != nil {
		return errors.Wrapf(err, "delete %q", key)
	}
	return nil
}
