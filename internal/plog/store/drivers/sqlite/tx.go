package sqlite

import (
	"context"
	"database/sql"

	"github.com/ploghq/plog/internal/plog/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // nothing to close; caller will commit/rollback and outer DB stays open

// Ping is a no-op for transactions. The connection is already established
// when the transaction is created.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return sql.ErrTxDone
}

func (t *txStore) Members() store.Members   { return &membersRepo{q: t.tx} }
func (t *txStore) Posts() store.Posts       { return &postsRepo{q: t.tx} }
func (t *txStore) Comments() store.Comments { return &commentsRepo{q: t.tx} }
func (t *txStore) HashTags() store.HashTags { return &hashtagsRepo{q: t.tx} }
func (t *txStore) Images() store.Images     { return &imagesRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // no-op; migrations are applied before any tx starts
