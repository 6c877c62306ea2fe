package insighting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/profit-engine/infrastructure/repository"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/pkg/log"
	"github.com/vfg2006/profit-engine/pkg/utils"
)

const (
	defaultRangeDays = 30
	maxRangeDays     = 366
)

type Service struct {
	stores    repository.StoreRepository
	ledger    repository.LedgerRepository
	converter CurrencyConverter
	now       func() time.Time
}

func NewService(stores repository.StoreRepository, ledger repository.LedgerRepository, converter CurrencyConverter) *Service {
	return &Service{
		stores:    stores,
		ledger:    ledger,
		converter: converter,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GetMetricsReport monta a série diária de um canal (ou de um SKU) com um dia por
// data do intervalo, inclusive os dias sem movimento. Com Currency informada os valores
// são convertidos na leitura pela cotação de cada dia.
func (s *Service) GetMetricsReport(ctx context.Context, storeID string, filters domain.MetricsFilters) (*domain.MetricsReport, error) {
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}

	store, err := s.stores.GetStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar loja: %w", err)
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}

	channel, sku, err := resolveScope(filters)
	if err != nil {
		return nil, err
	}

	startDate, endDate, err := s.resolveRange(store, filters)
	if err != nil {
		return nil, err
	}

	cells, err := s.ledger.ListRange(ctx, storeID, channel, sku, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar métricas: %w", err)
	}

	byDate := make(map[string]*domain.DailyMetric, len(cells))
	for _, cell := range cells {
		byDate[cell.Date.Format(utils.DateLayout)] = cell
	}

	currency := store.Currency
	if target := strings.ToUpper(strings.TrimSpace(filters.Currency)); target != "" {
		currency = target
	}

	report := &domain.MetricsReport{
		StoreID:  storeID,
		Channel:  channel,
		SKU:      sku,
		Currency: currency,
		Days:     make([]*domain.MetricsReportDay, 0),
	}

	for _, date := range generateDateRange(startDate, endDate) {
		values := domain.MetricValues{}
		if cell, ok := byDate[date.Format(utils.DateLayout)]; ok {
			values = cell.MetricValues
		}

		if currency != store.Currency && !values.IsZero() {
			values, err = s.convert(ctx, values, store.Currency, currency, date)
			if err != nil {
				return nil, err
			}
		}

		report.Days = append(report.Days, &domain.MetricsReportDay{
			Date:               date,
			Currency:           currency,
			MetricValues:       values,
			ProfitAfterAdSpend: utils.RoundMoney(values.NetProfit.Sub(values.AdSpend)),
			Roas:               calculateRoas(values),
		})
		report.Totals = report.Totals.Add(values)
	}

	report.ProfitAfterAdSpend = utils.RoundMoney(report.Totals.NetProfit.Sub(report.Totals.AdSpend))
	report.Roas = calculateRoas(report.Totals)

	log.ForContext(ctx).WithFields(log.Fields{
		"store_id": storeID,
		"channel":  channel,
		"sku":      sku,
		"days":     len(report.Days),
	}).Debug("Relatório de métricas gerado")

	return report, nil
}

func resolveScope(filters domain.MetricsFilters) (domain.Channel, string, error) {
	sku := strings.TrimSpace(filters.SKU)
	if sku != "" {
		if filters.Channel != "" && filters.Channel != domain.ChannelProduct {
			return "", "", fmt.Errorf("%w: sku só é aceito no canal %s", ErrInvalidChannel, domain.ChannelProduct)
		}
		return domain.ChannelProduct, sku, nil
	}

	switch filters.Channel {
	case "", domain.ChannelTotal:
		return domain.ChannelTotal, "", nil
	case domain.ChannelProduct:
		return "", "", ErrSKURequired
	}

	channel, ok := domain.ParseChannel(string(filters.Channel))
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidChannel, filters.Channel)
	}
	return channel, "", nil
}

// resolveRange usa os últimos 30 dias no fuso da loja quando as datas não são informadas
func (s *Service) resolveRange(store *domain.Store, filters domain.MetricsFilters) (time.Time, time.Time, error) {
	endDate := filters.EndDate
	if endDate.IsZero() {
		endDate = utils.DayIn(s.now(), store.Location())
	}
	endDate = utils.DayIn(endDate, time.UTC)

	startDate := filters.StartDate
	if startDate.IsZero() {
		startDate = endDate.AddDate(0, 0, -(defaultRangeDays - 1))
	}
	startDate = utils.DayIn(startDate, time.UTC)

	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	if endDate.Sub(startDate) >= maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, ErrDateRangeTooLarge
	}

	return startDate, endDate, nil
}

func (s *Service) convert(ctx context.Context, values domain.MetricValues, from, to string, date time.Time) (domain.MetricValues, error) {
	if s.converter == nil {
		return domain.MetricValues{}, fmt.Errorf("%w: conversor não configurado", ErrCurrencyConversion)
	}

	rate, err := s.converter.Convert(ctx, decimal.NewFromInt(1), from, to, date)
	if err != nil {
		return domain.MetricValues{}, fmt.Errorf("%w: %v", ErrCurrencyConversion, err)
	}

	money := func(d decimal.Decimal) decimal.Decimal {
		return utils.RoundMoney(d.Mul(rate))
	}

	return domain.MetricValues{
		Orders:       values.Orders,
		Units:        values.Units,
		Revenue:      money(values.Revenue),
		AdSpend:      money(values.AdSpend),
		Cogs:         money(values.Cogs),
		ShippingCost: money(values.ShippingCost),
		PaymentFees:  money(values.PaymentFees),
		OtherCosts:   money(values.OtherCosts),
		RefundAmount: money(values.RefundAmount),
		RefundCount:  values.RefundCount,
		GrossProfit:  money(values.GrossProfit),
		NetProfit:    money(values.NetProfit),
	}, nil
}

// calculateRoas retorna receita por unidade de gasto em anúncio, zero sem gasto
func calculateRoas(values domain.MetricValues) decimal.Decimal {
	return utils.SafeDiv(values.Revenue, values.AdSpend).Round(2)
}

func generateDateRange(startDate, endDate time.Time) []time.Time {
	if startDate.After(endDate) {
		return []time.Time{}
	}

	var dates []time.Time
	currentDate := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	endDateTime := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, time.UTC)

	for !currentDate.After(endDateTime) {
		dates = append(dates, currentDate)
		currentDate = currentDate.AddDate(0, 0, 1)
	}

	return dates
}
