package adspending

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/infrastructure/repository"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/internal/usecases/ledgering"
	"github.com/vfg2006/profit-engine/pkg/log"
	"github.com/vfg2006/profit-engine/pkg/utils"
)

const defaultCampaignID = "default"

type Service struct {
	stores     repository.StoreRepository
	facts      repository.AdSpendRepository
	transactor postgres.Transactor
	aggregator *ledgering.Aggregator
	converter  CurrencyConverter
	allocator  DateRecomputer
}

func NewService(
	stores repository.StoreRepository,
	facts repository.AdSpendRepository,
	ledger repository.LedgerRepository,
	transactor postgres.Transactor,
	converter CurrencyConverter,
	allocator DateRecomputer,
) *Service {
	return &Service{
		stores:     stores,
		facts:      facts,
		transactor: transactor,
		aggregator: ledgering.NewAggregator(ledger),
		converter:  converter,
		allocator:  allocator,
	}
}

// RecordAdSpend grava o gasto da campanha no dia e aplica nas células TOTAL e do canal
// apenas a diferença para o valor anterior. O fato é guardado na moeda da loja.
func (s *Service) RecordAdSpend(ctx context.Context, storeID string, input AdSpendInput) (*RecordResult, error) {
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}

	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	channel, ok := domain.ChannelForProvider(provider)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, input.Provider)
	}
	if input.Date.IsZero() {
		return nil, ErrInvalidDate
	}
	if input.Spend.IsNegative() {
		return nil, ErrNegativeSpend
	}
	if !utils.InMoneyRange(input.Spend) {
		return nil, ErrSpendOutOfRange
	}

	store, err := s.stores.GetStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	campaignID := strings.TrimSpace(input.CampaignID)
	if campaignID == "" {
		campaignID = defaultCampaignID
	}
	date := utils.DayIn(input.Date, time.UTC)

	currency := strings.ToUpper(input.Currency)
	if currency == "" {
		currency = store.Currency
	}

	spend := input.Spend
	if currency != store.Currency && s.converter != nil {
		spend, err = s.converter.Convert(ctx, input.Spend, currency, store.Currency, date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCurrencyConversion, err)
		}
	}
	spend = utils.RoundMoney(spend)

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"store_id":    storeID,
		"provider":    provider,
		"campaign_id": campaignID,
		"date":        date.Format("2006-01-02"),
	})

	var delta decimal.Decimal
	err = s.transactor.RunInTransaction(ctx, func(tx postgres.Executor) error {
		previous, err := s.facts.LockFact(ctx, tx, storeID, provider, campaignID, date)
		if err != nil {
			return fmt.Errorf("erro ao travar gasto anterior: %w", err)
		}

		delta = spend
		if previous != nil {
			delta = spend.Sub(previous.Spend)
		}

		if !delta.IsZero() {
			for _, key := range []domain.CellKey{
				domain.TotalCellKey(storeID, date),
				domain.ChannelCellKey(storeID, channel, date),
			} {
				err := s.aggregator.ApplyDelta(ctx, tx, domain.CellDelta{
					Key:      key,
					Currency: store.Currency,
					Values:   domain.MetricValues{AdSpend: delta},
				}, true)
				if err != nil {
					return err
				}
			}
		}

		return s.facts.UpsertFact(ctx, tx, &domain.AdSpendFact{
			StoreID:      storeID,
			Provider:     provider,
			CampaignID:   campaignID,
			CampaignName: input.CampaignName,
			Date:         date,
			Spend:        spend,
			Currency:     store.Currency,
		})
	})
	if err != nil {
		logger.WithError(err).Error("Falha ao registrar gasto de anúncio")
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}

	result := &RecordResult{
		StoreID:    storeID,
		Provider:   provider,
		CampaignID: campaignID,
		Date:       date,
		Spend:      spend,
		Delta:      delta,
		Currency:   store.Currency,
	}

	if s.allocator != nil && !delta.IsZero() {
		processed, err := s.allocator.RecomputeForDate(ctx, store, date)
		if err != nil {
			logger.WithError(err).Warn("Falha ao recalcular atribuições do dia")
		}
		result.Reallocated = processed
	}

	logger.WithFields(log.Fields{
		"spend": spend.String(),
		"delta": delta.String(),
	}).Info("Gasto de anúncio registrado")

	return result, nil
}
