package postgres

import (
	"context"
	"database/sql"
)

// Executor é satisfeito tanto por *sql.DB quanto por *sql.Tx, permitindo que os
// repositórios participem da transação do chamador
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Transactor executa uma unidade de trabalho atômica
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(tx Executor) error) error
}
