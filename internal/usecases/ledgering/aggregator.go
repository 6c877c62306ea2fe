package ledgering

import (
	"context"
	"fmt"

	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/infrastructure/repository"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/pkg/log"
)

const (
	Apply   = 1
	Reverse = -1
)

type Aggregator struct {
	ledger repository.LedgerRepository
}

func NewAggregator(ledger repository.LedgerRepository) *Aggregator {
	return &Aggregator{ledger: ledger}
}

// ApplySnapshot aplica o snapshot com a direção informada dentro da transação q.
// Com allowCreate falso, células inexistentes são ignoradas e nunca criadas.
func (a *Aggregator) ApplySnapshot(ctx context.Context, q postgres.Executor, snap domain.Snapshot, direction int, allowCreate bool) error {
	deltas := Deltas(snap, direction)
	sortDeltas(deltas)

	for _, delta := range deltas {
		if err := a.ApplyDelta(ctx, q, delta, allowCreate); err != nil {
			return err
		}
	}

	return nil
}

// ApplyDelta trava a célula antes de incrementá-la
func (a *Aggregator) ApplyDelta(ctx context.Context, q postgres.Executor, delta domain.CellDelta, allowCreate bool) error {
	if delta.Values.IsZero() {
		return nil
	}

	cell, err := a.ledger.LockCell(ctx, q, delta.Key)
	if err != nil {
		return fmt.Errorf("erro ao travar célula do ledger: %w", err)
	}

	if cell == nil {
		if !allowCreate {
			log.ForContext(ctx).WithField("cell", delta.Key.String()).
				Debug("Célula inexistente na reversão, nada a desfazer")
			return nil
		}
		if err := a.ledger.CreateCell(ctx, q, delta.Key, delta.Currency, delta.Values); err != nil {
			return fmt.Errorf("erro ao criar célula do ledger: %w", err)
		}
		return nil
	}

	if err := a.ledger.IncrementCell(ctx, q, delta.Key, delta.Values); err != nil {
		return fmt.Errorf("erro ao incrementar célula do ledger: %w", err)
	}

	return nil
}
