package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/infrastructure/repository"
	"github.com/vfg2006/profit-engine/internal/domain"
)

var (
	_ postgres.Transactor              = (*Store)(nil)
	_ repository.StoreRepository       = (*Store)(nil)
	_ repository.OrderRepository       = (*Store)(nil)
	_ repository.LedgerRepository      = (*Store)(nil)
	_ repository.UsageRepository       = (*Store)(nil)
	_ repository.OverageRepository     = (*Store)(nil)
	_ repository.AttributionRepository = (*Store)(nil)
	_ repository.CostConfigRepository  = (*Store)(nil)
	_ repository.AdSpendRepository     = (*Store)(nil)
)

var errNoSQL = errors.New("memory store does not execute SQL")

// executor é passado às funções transacionais; os métodos do Store o ignoram
type executor struct{}

func (executor) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errNoSQL
}

func (executor) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errNoSQL
}

func (executor) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

// Store implementa todos os repositórios em memória. Transações são
// serializadas e revertidas por cópia do estado quando fn falha.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *state
	now  func() time.Time
}

type state struct {
	stores       map[string]domain.Store
	plans        map[string]domain.Plan
	orders       map[string]*domain.PersistedOrder
	cells        map[string]domain.DailyMetric
	usage        map[string]int64
	overages     map[string]domain.OverageRecord
	overageByKey map[string]string
	rules        map[string][]domain.AttributionRule
	attributions map[string][]domain.OrderAttribution
	skuCosts     []domain.SkuCost
	templates    map[string][]domain.CostTemplate
	logistics    []domain.LogisticsRule
	adSpend      map[string]domain.AdSpendFact
	seq          int64
}

func NewStore() *Store {
	return &Store{
		data: newState(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func newState() *state {
	return &state{
		stores:       map[string]domain.Store{},
		plans:        map[string]domain.Plan{},
		orders:       map[string]*domain.PersistedOrder{},
		cells:        map[string]domain.DailyMetric{},
		usage:        map[string]int64{},
		overages:     map[string]domain.OverageRecord{},
		overageByKey: map[string]string{},
		rules:        map[string][]domain.AttributionRule{},
		attributions: map[string][]domain.OrderAttribution{},
		templates:    map[string][]domain.CostTemplate{},
		adSpend:      map[string]domain.AdSpendFact{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.stores {
		c.stores[k] = v
	}
	for k, v := range s.plans {
		c.plans[k] = v
	}
	for k, v := range s.orders {
		o := *v
		o.LineItems = slices.Clone(v.LineItems)
		o.Costs = slices.Clone(v.Costs)
		o.Refunds = slices.Clone(v.Refunds)
		c.orders[k] = &o
	}
	for k, v := range s.cells {
		c.cells[k] = v
	}
	for k, v := range s.usage {
		c.usage[k] = v
	}
	for k, v := range s.overages {
		c.overages[k] = v
	}
	for k, v := range s.overageByKey {
		c.overageByKey[k] = v
	}
	for k, v := range s.rules {
		c.rules[k] = slices.Clone(v)
	}
	for k, v := range s.attributions {
		c.attributions[k] = slices.Clone(v)
	}
	c.skuCosts = slices.Clone(s.skuCosts)
	for k, v := range s.templates {
		c.templates[k] = slices.Clone(v)
	}
	c.logistics = slices.Clone(s.logistics)
	for k, v := range s.adSpend {
		c.adSpend[k] = v
	}
	c.seq = s.seq
	return c
}

func (s *Store) RunInTransaction(ctx context.Context, fn func(tx postgres.Executor) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	backup := s.data.clone()
	s.mu.RUnlock()

	rollback := func() {
		s.mu.Lock()
		s.data = backup
		s.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err = ctx.Err(); err != nil {
		return err
	}

	if err = fn(executor{}); err != nil {
		rollback()
		return err
	}

	return nil
}

func orderKey(storeID, externalID string) string {
	return storeID + "|" + externalID
}

func cellKey(key domain.CellKey) string {
	return key.String()
}

func usageKey(merchantID string, year, month int) string {
	return fmt.Sprintf("%s|%04d-%02d", merchantID, year, month)
}

func adSpendKey(storeID, provider, campaignID string, date time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s", storeID, provider, campaignID, date.Format("2006-01-02"))
}

// ---- seed ----

func (s *Store) PutStore(store domain.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.stores[store.ID] = store
}

func (s *Store) PutPlan(merchantID string, plan domain.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.plans[merchantID] = plan
}

func (s *Store) PutSkuCost(cost domain.SkuCost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.skuCosts = append(s.data.skuCosts, cost)
}

func (s *Store) PutCostTemplate(template domain.CostTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.templates[template.StoreID] = append(s.data.templates[template.StoreID], template)
}

func (s *Store) PutLogisticsRule(rule domain.LogisticsRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.logistics = append(s.data.logistics, rule)
}

func (s *Store) PutAttributionRule(rule domain.AttributionRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.rules[rule.MerchantID] = append(s.data.rules[rule.MerchantID], rule)
}

// SetMonthlyUsage define o contador do mês, usado em cenários de teste e demo
func (s *Store) SetMonthlyUsage(merchantID string, year, month int, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.usage[usageKey(merchantID, year, month)] = count
}

// Cells retorna uma cópia de todas as células ordenadas pela chave
func (s *Store) Cells() []domain.DailyMetric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data.cells))
	for k := range s.data.cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cells := make([]domain.DailyMetric, 0, len(keys))
	for _, k := range keys {
		cells = append(cells, s.data.cells[k])
	}
	return cells
}

// ---- StoreRepository ----

func (s *Store) GetStore(_ context.Context, storeID string) (*domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	store, ok := s.data.stores[storeID]
	if !ok {
		return nil, nil
	}
	return &store, nil
}

func (s *Store) ListStoresWithAdAccount(_ context.Context) ([]*domain.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stores := make([]*domain.Store, 0)
	for _, store := range s.data.stores {
		if store.MetaAdAccountID == "" {
			continue
		}
		st := store
		stores = append(stores, &st)
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].ID < stores[j].ID })
	return stores, nil
}

func (s *Store) GetMerchantPlan(_ context.Context, merchantID string) (*domain.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plan, ok := s.data.plans[merchantID]
	if !ok {
		return nil, nil
	}
	return &plan, nil
}

// ---- OrderRepository ----

func (s *Store) GetForUpdate(_ context.Context, _ postgres.Executor, storeID, externalID string) (*domain.PersistedOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.data.orders[orderKey(storeID, externalID)]
	if !ok {
		return nil, nil
	}
	c := *order
	c.LineItems = slices.Clone(order.LineItems)
	c.Costs = slices.Clone(order.Costs)
	c.Refunds = slices.Clone(order.Refunds)
	return &c, nil
}

func (s *Store) Save(_ context.Context, _ postgres.Executor, order *domain.Order) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := orderKey(order.StoreID, order.ExternalID)
	now := s.now()
	existing, ok := s.data.orders[key]
	if ok {
		saved := *order
		saved.ID = existing.Order.ID
		saved.CreatedAt = existing.Order.CreatedAt
		saved.UpdatedAt = now
		existing.Order = saved
		return saved.ID, nil
	}

	saved := *order
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	saved.CreatedAt = now
	saved.UpdatedAt = now
	s.data.orders[key] = &domain.PersistedOrder{Order: saved}
	return saved.ID, nil
}

func (s *Store) findOrderByID(orderID string) *domain.PersistedOrder {
	for _, order := range s.data.orders {
		if order.Order.ID == orderID {
			return order
		}
	}
	return nil
}

func (s *Store) ReplaceLineItems(_ context.Context, _ postgres.Executor, orderID string, items []domain.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.findOrderByID(orderID)
	if order == nil {
		return fmt.Errorf("pedido %s não encontrado", orderID)
	}
	order.LineItems = make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		s.data.seq++
		item.ID = s.data.seq
		item.OrderID = orderID
		order.LineItems = append(order.LineItems, item)
	}
	return nil
}

func (s *Store) ReplaceCosts(_ context.Context, _ postgres.Executor, orderID string, costs []domain.OrderCost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.findOrderByID(orderID)
	if order == nil {
		return fmt.Errorf("pedido %s não encontrado", orderID)
	}
	order.Costs = make([]domain.OrderCost, 0, len(costs))
	for _, cost := range costs {
		s.data.seq++
		cost.ID = s.data.seq
		cost.OrderID = orderID
		order.Costs = append(order.Costs, cost)
	}
	return nil
}

func (s *Store) ReconcileRefunds(_ context.Context, _ postgres.Executor, storeID, orderExternalID string, refunds []domain.RefundRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.data.orders[orderKey(storeID, orderExternalID)]
	if !ok {
		return 0, fmt.Errorf("pedido %s não encontrado", orderExternalID)
	}

	incoming := make(map[string]struct{}, len(refunds))
	for _, r := range refunds {
		incoming[r.ExternalID] = struct{}{}
	}

	var deleted int64
	for _, r := range order.Refunds {
		if _, ok := incoming[r.ExternalID]; !ok {
			deleted++
		}
	}

	// id externo do reembolso é único por loja
	for _, other := range s.data.orders {
		if other == order || other.Order.StoreID != storeID {
			continue
		}
		other.Refunds = slices.DeleteFunc(other.Refunds, func(r domain.RefundRecord) bool {
			_, moved := incoming[r.ExternalID]
			return moved
		})
	}

	order.Refunds = make([]domain.RefundRecord, 0, len(refunds))
	for _, r := range refunds {
		s.data.seq++
		r.ID = s.data.seq
		r.StoreID = storeID
		r.OrderExternalID = orderExternalID
		order.Refunds = append(order.Refunds, r)
	}
	return deleted, nil
}

func (s *Store) ListByLedgerDate(_ context.Context, storeID string, date time.Time) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := date.Format("2006-01-02")
	orders := make([]*domain.Order, 0)
	for _, order := range s.data.orders {
		if order.Order.StoreID == storeID && order.Order.LedgerDate.Format("2006-01-02") == day {
			o := order.Order
			orders = append(orders, &o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ProcessedAt.Before(orders[j].ProcessedAt) })
	return orders, nil
}

// ---- LedgerRepository ----

func (s *Store) LockCell(_ context.Context, _ postgres.Executor, key domain.CellKey) (*domain.DailyMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cell, ok := s.data.cells[cellKey(key)]
	if !ok {
		return nil, nil
	}
	return &cell, nil
}

func (s *Store) IncrementCell(_ context.Context, _ postgres.Executor, key domain.CellKey, delta domain.MetricValues) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cell, ok := s.data.cells[cellKey(key)]
	if !ok {
		return nil
	}
	cell.MetricValues = cell.MetricValues.Add(delta)
	cell.UpdatedAt = s.now()
	s.data.cells[cellKey(key)] = cell
	return nil
}

func (s *Store) CreateCell(_ context.Context, _ postgres.Executor, key domain.CellKey, currency string, values domain.MetricValues) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if cell, ok := s.data.cells[cellKey(key)]; ok {
		cell.MetricValues = cell.MetricValues.Add(values)
		cell.UpdatedAt = now
		s.data.cells[cellKey(key)] = cell
		return nil
	}
	s.data.seq++
	s.data.cells[cellKey(key)] = domain.DailyMetric{
		ID:           s.data.seq,
		CellKey:      key,
		Currency:     currency,
		MetricValues: values,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return nil
}

func (s *Store) GetCell(ctx context.Context, key domain.CellKey) (*domain.DailyMetric, error) {
	return s.LockCell(ctx, nil, key)
}

func (s *Store) ListChannelCells(_ context.Context, storeID string, date time.Time) ([]*domain.DailyMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := date.Format("2006-01-02")
	cells := make([]*domain.DailyMetric, 0)
	for _, cell := range s.data.cells {
		if cell.StoreID != storeID || cell.Date.Format("2006-01-02") != day {
			continue
		}
		if cell.Channel.IsReserved() || cell.ProductSKU != nil {
			continue
		}
		c := cell
		cells = append(cells, &c)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Channel < cells[j].Channel })
	return cells, nil
}

func (s *Store) ListRange(_ context.Context, storeID string, channel domain.Channel, sku string, startDate, endDate time.Time) ([]*domain.DailyMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to := startDate.Format("2006-01-02"), endDate.Format("2006-01-02")
	cells := make([]*domain.DailyMetric, 0)
	for _, cell := range s.data.cells {
		day := cell.Date.Format("2006-01-02")
		if cell.StoreID != storeID || cell.Channel != channel || cell.SKU() != sku || day < from || day > to {
			continue
		}
		c := cell
		cells = append(cells, &c)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Date.Before(cells[j].Date) })
	return cells, nil
}

func (s *Store) DeleteOlderThan(_ context.Context, days int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().AddDate(0, 0, -days).Format("2006-01-02")
	var deleted int64
	for k, cell := range s.data.cells {
		if cell.Date.Format("2006-01-02") < cutoff {
			delete(s.data.cells, k)
			deleted++
		}
	}
	return deleted, nil
}

// ---- UsageRepository ----

func (s *Store) LockMonthlyUsage(_ context.Context, _ postgres.Executor, merchantID string, year, month int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := usageKey(merchantID, year, month)
	if _, ok := s.data.usage[key]; !ok {
		s.data.usage[key] = 0
	}
	return s.data.usage[key], nil
}

func (s *Store) GetMonthlyUsage(_ context.Context, merchantID string, year, month int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.usage[usageKey(merchantID, year, month)], nil
}

func (s *Store) IncrementMonthlyUsage(_ context.Context, _ postgres.Executor, merchantID string, year, month int, incoming int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.usage[usageKey(merchantID, year, month)] += incoming
	return nil
}

// ---- OverageRepository ----

func (s *Store) Schedule(_ context.Context, _ postgres.Executor, record *domain.OverageRecord) (*domain.OverageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key := usageKey(record.MerchantID, record.Year, record.Month)
	if id, ok := s.data.overageByKey[key]; ok {
		existing := s.data.overages[id]
		if record.UnitsRequired > existing.UnitsRequired {
			existing.UnitsRequired = record.UnitsRequired
		}
		if existing.UnitsRequired > existing.UnitsBilled {
			existing.Status = domain.OverageStatusPending
		}
		existing.UpdatedAt = now
		s.data.overages[id] = existing
		return &existing, nil
	}

	saved := *record
	saved.UnitsBilled = 0
	saved.Status = domain.OverageStatusPending
	saved.CreatedAt = now
	saved.UpdatedAt = now
	s.data.overages[saved.ID] = saved
	s.data.overageByKey[key] = saved.ID
	return &saved, nil
}

func (s *Store) GetByID(_ context.Context, id string) (*domain.OverageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.data.overages[id]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *Store) ListPending(_ context.Context) ([]*domain.OverageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*domain.OverageRecord, 0)
	for _, record := range s.data.overages {
		if record.Status == domain.OverageStatusPending {
			r := record
			records = append(records, &r)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt.Before(records[j].CreatedAt) })
	return records, nil
}

func (s *Store) MarkBilled(_ context.Context, id string, unitsBilled int64, billedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.data.overages[id]
	if !ok {
		return fmt.Errorf("excedente %s não encontrado", id)
	}
	if unitsBilled > record.UnitsBilled {
		record.UnitsBilled = unitsBilled
	}
	if record.UnitsRequired <= record.UnitsBilled {
		record.Status = domain.OverageStatusBilled
	}
	record.BilledAt = &billedAt
	record.UpdatedAt = s.now()
	s.data.overages[id] = record
	return nil
}

// ---- AttributionRepository ----

func (s *Store) ListAttributionRules(_ context.Context, merchantID string) ([]domain.AttributionRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.rules[merchantID]), nil
}

func (s *Store) ReplaceOrderAttributions(_ context.Context, _ postgres.Executor, orderID string, attributions []domain.OrderAttribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(attributions) == 0 {
		delete(s.data.attributions, orderID)
		return nil
	}
	now := s.now()
	rows := make([]domain.OrderAttribution, 0, len(attributions))
	for _, a := range attributions {
		a.OrderID = orderID
		a.CreatedAt = now
		rows = append(rows, a)
	}
	s.data.attributions[orderID] = rows
	return nil
}

func (s *Store) ListByOrder(_ context.Context, orderID string) ([]domain.OrderAttribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.attributions[orderID]), nil
}

// ---- CostConfigRepository ----

func (s *Store) ResolveActiveSkuCosts(_ context.Context, storeID string, asOf time.Time) (map[string]domain.SkuCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := map[string]domain.SkuCost{}
	for _, cost := range s.data.skuCosts {
		if cost.StoreID != storeID || asOf.Before(cost.EffectiveFrom) {
			continue
		}
		if cost.EffectiveTo != nil && !asOf.Before(*cost.EffectiveTo) {
			continue
		}
		if current, ok := latest[cost.SKU]; !ok || cost.EffectiveFrom.After(current.EffectiveFrom) {
			latest[cost.SKU] = cost
		}
	}

	return latest, nil
}

func (s *Store) ListCostTemplates(_ context.Context, storeID string) ([]domain.CostTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.templates[storeID]), nil
}

func (s *Store) ListLogisticsRules(_ context.Context, storeID string, asOf time.Time) ([]domain.LogisticsRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules := make([]domain.LogisticsRule, 0)
	for _, rule := range s.data.logistics {
		if rule.StoreID == storeID && rule.ActiveAt(asOf) {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

// ---- AdSpendRepository ----

func (s *Store) LockFact(_ context.Context, _ postgres.Executor, storeID, provider, campaignID string, date time.Time) (*domain.AdSpendFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fact, ok := s.data.adSpend[adSpendKey(storeID, provider, campaignID, date)]
	if !ok {
		return nil, nil
	}
	return &fact, nil
}

func (s *Store) UpsertFact(_ context.Context, _ postgres.Executor, fact *domain.AdSpendFact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := *fact
	saved.UpdatedAt = s.now()
	s.data.adSpend[adSpendKey(fact.StoreID, fact.Provider, fact.CampaignID, fact.Date)] = saved
	return nil
}

func (s *Store) ListByDate(_ context.Context, storeID string, date time.Time) ([]*domain.AdSpendFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day := date.Format("2006-01-02")
	facts := make([]*domain.AdSpendFact, 0)
	for _, fact := range s.data.adSpend {
		if fact.StoreID == storeID && fact.Date.Format("2006-01-02") == day {
			f := fact
			facts = append(facts, &f)
		}
	}
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].Provider != facts[j].Provider {
			return facts[i].Provider < facts[j].Provider
		}
		return facts[i].CampaignID < facts[j].CampaignID
	})
	return facts, nil
}
