package postgres

import (
	"context"
	"database/sql"

	"github.com/phrazzld/metanav/internal/store"
)

// conn is the database handle shared by the stores. When it wraps a *sql.DB,
// atomic runs its function in a new transaction; when it already wraps a
// transaction, the function runs on it directly.
type conn struct {
	db    store.DBTX
	sqlDB *sql.DB
}

func newConn(db store.DBTX) conn {
	if db == nil {
		panic("db cannot be nil")
	}
	sqlDB, _ := db.(*sql.DB)
	return conn{db: db, sqlDB: sqlDB}
}

func (c conn) atomic(ctx context.Context, fn func(db store.DBTX) error) error {
	if c.sqlDB == nil {
		return fn(c.db)
	}
	return store.RunInTransaction(ctx, c.sqlDB, func(ctx context.Context, tx *sql.Tx) error {
		return fn(tx)
	})
}
