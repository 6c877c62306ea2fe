package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-engine/internal/config"
)

const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

type Conn interface {
	Executor
	Transactor
	Close() error
	Ping(context.Context) error
}

type Connection struct {
	*sql.DB
	maxAttempts int
}

func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*Connection, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return NewConnectionFromDB(db, cfg.MaxTxAttempts), nil
}

// NewConnectionFromDB embrulha um *sql.DB já aberto
func NewConnectionFromDB(db *sql.DB, maxAttempts int) *Connection {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Connection{DB: db, maxAttempts: maxAttempts}
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// RunInTransaction executa fn em uma transação serializável. Falhas de
// serialização ou deadlock são repetidas até maxAttempts vezes.
func (c *Connection) RunInTransaction(ctx context.Context, fn func(tx Executor) error) error {
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err = c.runOnce(ctx, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"attempt":      attempt,
			"max_attempts": c.maxAttempts,
		}).WithError(err).Warn("Transação abortada por conflito de serialização, repetindo")
	}

	return err
}

func (c *Connection) runOnce(ctx context.Context, fn func(tx Executor) error) error {
	tx, err := c.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			_ = tx.Rollback()
			panic(err)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// IsRetryable indica se o erro do Postgres pode ser resolvido repetindo a transação
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == serializationFailure || pqErr.Code == deadlockDetected
}

// IsUniqueViolation indica violação de chave única
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
