package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	ns    TEXT NOT NULL,
	key   TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (ns, key)
)`

// SQLiteStore 基于 modernc.org/sqlite 的存储
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite 打开数据库并建表
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = "./pitchforge.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite 单写者
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteUpsert = `INSERT INTO kv (ns, key, value) VALUES (?, ?, ?)
	ON CONFLICT(ns, key) DO UPDATE SET value = excluded.value`

func (s *SQLiteStore) Set(ctx context.Context, ns, key, value string) error {
	_, err := s.db.ExecContext(ctx, sqliteUpsert, ns, key, value)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, ns, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE ns = ? AND key = ?`, ns, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, ns string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE ns = ?`, ns)
	return err
}

// Replace 在一个事务内删除旧会话并写入新值
func (s *SQLiteStore) Replace(ctx context.Context, ns string, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE ns = ?`, ns); err != nil {
		return err
	}
	for k, v := range values {
		if _, err := tx.ExecContext(ctx, sqliteUpsert, ns, k, v); err != nil {
			return fmt.Errorf("write %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
