package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/profit-engine/infrastructure/database/postgres"
	"github.com/vfg2006/profit-engine/infrastructure/integrator/currency"
	"github.com/vfg2006/profit-engine/infrastructure/integrator/meta"
	"github.com/vfg2006/profit-engine/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/profit-engine/infrastructure/integrator/payments/paymentsclient"
	"github.com/vfg2006/profit-engine/infrastructure/memory"
	"github.com/vfg2006/profit-engine/infrastructure/repository"
	"github.com/vfg2006/profit-engine/internal/api"
	"github.com/vfg2006/profit-engine/internal/api/handler"
	"github.com/vfg2006/profit-engine/internal/config"
	"github.com/vfg2006/profit-engine/internal/domain"
	"github.com/vfg2006/profit-engine/internal/scheduler"
	"github.com/vfg2006/profit-engine/internal/usecases/adspending"
	"github.com/vfg2006/profit-engine/internal/usecases/attributing"
	"github.com/vfg2006/profit-engine/internal/usecases/billing"
	"github.com/vfg2006/profit-engine/internal/usecases/costing"
	"github.com/vfg2006/profit-engine/internal/usecases/insighting"
	"github.com/vfg2006/profit-engine/internal/usecases/parsing"
	"github.com/vfg2006/profit-engine/internal/usecases/processing"
)

// repositories agrupa os repositórios de um backend (Postgres ou memória)
type repositories struct {
	stores       repository.StoreRepository
	orders       repository.OrderRepository
	costConfig   repository.CostConfigRepository
	ledger       repository.LedgerRepository
	usage        repository.UsageRepository
	overages     repository.OverageRepository
	attributions repository.AttributionRepository
	adSpend      repository.AdSpendRepository
	transactor   postgres.Transactor
	close        func() error
}

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos := newRepositories(ctx, cfg)
	defer repos.close()

	var rateCache currency.RateCache
	if cfg.Redis.Addr != "" {
		redisCache := currency.NewRedisRateCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			logrus.WithError(err).Warn("Redis indisponível, cotações sem cache")
		} else {
			rateCache = redisCache
			defer redisCache.Close()
		}
	}

	converter, err := currency.NewConverter(cfg.Currency, rateCache)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar cotações")
	}

	ruleSet, err := parsing.LoadChannelRuleSet(cfg.Channels.RulesFile)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar regras de canal")
	}
	classifier, err := parsing.NewRuleClassifier(ruleSet)
	if err != nil {
		logrus.WithError(err).Fatal("Regras de canal inválidas")
	}

	formulas, err := costing.NewFormulaEvaluator()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao iniciar avaliador de fórmulas")
	}

	guard := billing.NewGuard(repos.stores, repos.usage, repos.overages, billing.DefaultPlanFromConfig(cfg.Capacity))
	charger := billing.NewCharger(repos.overages, paymentsclient.NewClient(cfg))
	allocator := attributing.NewAllocator(repos.ledger, repos.attributions, repos.orders, repos.transactor)

	processor := processing.NewService(processing.Dependencies{
		Stores:     repos.stores,
		Orders:     repos.orders,
		CostConfig: repos.costConfig,
		Ledger:     repos.ledger,
		Transactor: repos.transactor,
		Parser:     parsing.NewParser(classifier),
		Costs:      costing.NewCostResolver(formulas),
		Converter:  converter,
		Capacity:   guard,
		Charger:    charger,
		Allocator:  allocator,
	})

	adSpendService := adspending.NewService(repos.stores, repos.adSpend, repos.ledger, repos.transactor, converter, allocator)
	insightService := insighting.NewService(repos.stores, repos.ledger, converter)

	metaIntegrator := meta.New(metaclient.NewClient(cfg.Meta))

	adSpendSyncService := scheduler.NewAdSpendSyncService(repos.stores, metaIntegrator, adSpendService, cfg.AdSpendSync)
	overageChargeSyncService := scheduler.NewOverageChargeSyncService(charger, cfg.OverageChargeSync)
	retentionPurgeService := scheduler.NewRetentionPurgeService(repos.ledger, cfg.RetentionPurge)

	// Inicia os agendadores em background
	for name, job := range map[string]interface{ Start(context.Context) error }{
		"gasto em anúncios":     adSpendSyncService,
		"cobrança de excedente": overageChargeSyncService,
		"limpeza de retenção":   retentionPurgeService,
	} {
		if err := job.Start(ctx); err != nil {
			logrus.WithError(err).Errorf("Erro ao iniciar o agendador de %s", name)
		}
	}

	server, err := api.New(
		cfg,
		processor,
		adSpendService,
		insightService,
		handler.CronJobServices{
			AdSpendSyncService:       adSpendSyncService,
			OverageChargeSyncService: overageChargeSyncService,
			RetentionPurgeService:    retentionPurgeService,
		},
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// newRepositories usa o Postgres quando configurado; sem banco roda com o store em memória
func newRepositories(ctx context.Context, cfg *config.Config) repositories {
	if !cfg.Database.Enabled() {
		logrus.Warn("DATABASE_URL não configurada, usando store em memória com a loja de demonstração")

		store := memory.NewStore()
		seedDemo(store)

		return repositories{
			stores:       store,
			orders:       store,
			costConfig:   store,
			ledger:       store,
			usage:        store,
			overages:     store,
			attributions: store,
			adSpend:      store,
			transactor:   store,
			close:        func() error { return nil },
		}
	}

	conn := pgconn(ctx, cfg.Database)

	return repositories{
		stores:       repository.NewStoreRepository(conn),
		orders:       repository.NewOrderRepository(conn),
		costConfig:   repository.NewCostConfigRepository(conn),
		ledger:       repository.NewLedgerRepository(conn),
		usage:        repository.NewUsageRepository(conn),
		overages:     repository.NewOverageRepository(conn),
		attributions: repository.NewAttributionRepository(conn),
		adSpend:      repository.NewAdSpendRepository(conn),
		transactor:   conn,
		close:        conn.Close,
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

func seedDemo(store *memory.Store) {
	store.PutStore(domain.Store{
		ID:         "store-demo",
		MerchantID: "merchant-demo",
		Name:       "Loja Demo",
		Currency:   "USD",
		Timezone:   "UTC",
		CreatedAt:  time.Now().UTC(),
	})

	effectiveFrom := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	store.PutSkuCost(domain.SkuCost{StoreID: "store-demo", SKU: "SKU-A", UnitCost: decimal.NewFromInt(40), Currency: "USD", EffectiveFrom: effectiveFrom})
	store.PutSkuCost(domain.SkuCost{StoreID: "store-demo", SKU: "SKU-B", UnitCost: decimal.NewFromInt(70), Currency: "USD", EffectiveFrom: effectiveFrom})
}
