package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/conduit/internal/auth/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the owning Store holds the connection.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(context.Context, func(store.Tx) error) error { return sql.ErrTxDone }

func (t *txStore) Users() store.Users { return &usersRepo{db: t.tx} }

// ApplyMigrations is a no-op; migrations run on the Store before use.
func (t *txStore) ApplyMigrations() error { return nil }
