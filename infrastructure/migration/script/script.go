package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	idLength   = 8
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// schema cria as tabelas do engine. Todas as instruções são idempotentes.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS stores (
		id                 TEXT PRIMARY KEY,
		merchant_id        TEXT NOT NULL,
		name               TEXT NOT NULL,
		currency           CHAR(3) NOT NULL,
		timezone           TEXT NOT NULL DEFAULT 'UTC',
		meta_ad_account_id TEXT,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS merchant_plans (
		merchant_id         TEXT PRIMARY KEY,
		name                TEXT NOT NULL,
		monthly_order_limit BIGINT NOT NULL DEFAULT 0,
		overage_block_size  BIGINT NOT NULL DEFAULT 0,
		overage_block_price NUMERIC(18,4) NOT NULL DEFAULT 0,
		overage_currency    CHAR(3) NOT NULL DEFAULT 'USD'
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                     TEXT PRIMARY KEY,
		store_id               TEXT NOT NULL REFERENCES stores(id),
		external_id            TEXT NOT NULL,
		name                   TEXT NOT NULL DEFAULT '',
		channel                TEXT NOT NULL,
		source_name            TEXT NOT NULL DEFAULT '',
		currency               CHAR(3) NOT NULL,
		financial_status       TEXT NOT NULL DEFAULT '',
		gateway                TEXT NOT NULL DEFAULT '',
		customer_id            TEXT,
		customer_email         TEXT,
		shipping_country       TEXT NOT NULL DEFAULT '',
		shipping_region        TEXT NOT NULL DEFAULT '',
		shipping_carrier       TEXT NOT NULL DEFAULT '',
		subtotal               NUMERIC(18,4) NOT NULL DEFAULT 0,
		discount               NUMERIC(18,4) NOT NULL DEFAULT 0,
		shipping_revenue       NUMERIC(18,4) NOT NULL DEFAULT 0,
		tax                    NUMERIC(18,4) NOT NULL DEFAULT 0,
		revenue                NUMERIC(18,4) NOT NULL DEFAULT 0,
		total                  NUMERIC(18,4) NOT NULL DEFAULT 0,
		gross_profit           NUMERIC(18,4) NOT NULL DEFAULT 0,
		net_profit             NUMERIC(18,4) NOT NULL DEFAULT 0,
		total_weight_kg        NUMERIC(18,4) NOT NULL DEFAULT 0,
		missing_sku_cost_count INT NOT NULL DEFAULT 0,
		processed_at           TIMESTAMPTZ NOT NULL,
		ledger_date            DATE NOT NULL,
		ledger_snapshot        JSONB,
		created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (store_id, external_id)
	)`,
	`CREATE INDEX IF NOT EXISTS orders_store_ledger_date_idx ON orders (store_id, ledger_date)`,
	`CREATE TABLE IF NOT EXISTS order_line_items (
		id           BIGSERIAL PRIMARY KEY,
		order_id     TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		sku          TEXT NOT NULL DEFAULT '',
		variant_id   TEXT NOT NULL DEFAULT '',
		title        TEXT NOT NULL DEFAULT '',
		quantity     BIGINT NOT NULL,
		unit_price   NUMERIC(18,4) NOT NULL,
		discount     NUMERIC(18,4) NOT NULL DEFAULT 0,
		revenue      NUMERIC(18,4) NOT NULL DEFAULT 0,
		cogs         NUMERIC(18,4) NOT NULL DEFAULT 0,
		weight_grams BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS order_costs (
		id        BIGSERIAL PRIMARY KEY,
		order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		cost_type TEXT NOT NULL,
		source    TEXT NOT NULL,
		label     TEXT NOT NULL DEFAULT '',
		amount    NUMERIC(18,4) NOT NULL,
		currency  CHAR(3) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refunds (
		id                BIGSERIAL PRIMARY KEY,
		store_id          TEXT NOT NULL REFERENCES stores(id),
		order_external_id TEXT NOT NULL,
		external_id       TEXT NOT NULL,
		amount            NUMERIC(18,4) NOT NULL,
		currency          CHAR(3) NOT NULL,
		note              TEXT NOT NULL DEFAULT '',
		restock           BOOLEAN NOT NULL DEFAULT FALSE,
		processed_at      TIMESTAMPTZ NOT NULL,
		line_items        JSONB,
		raw_payload       JSONB,
		UNIQUE (store_id, external_id)
	)`,
	`CREATE INDEX IF NOT EXISTS refunds_store_order_idx ON refunds (store_id, order_external_id)`,
	`CREATE TABLE IF NOT EXISTS sku_costs (
		store_id       TEXT NOT NULL REFERENCES stores(id),
		sku            TEXT NOT NULL,
		unit_cost      NUMERIC(18,4) NOT NULL,
		currency       CHAR(3) NOT NULL,
		effective_from TIMESTAMPTZ NOT NULL,
		effective_to   TIMESTAMPTZ,
		PRIMARY KEY (store_id, sku, effective_from)
	)`,
	`CREATE TABLE IF NOT EXISTS cost_templates (
		id             TEXT PRIMARY KEY,
		store_id       TEXT NOT NULL REFERENCES stores(id),
		name           TEXT NOT NULL,
		cost_type      TEXT NOT NULL,
		gateway_filter TEXT[],
		channel_filter TEXT[],
		lines          JSONB NOT NULL DEFAULT '[]',
		active         BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS logistics_rules (
		id             TEXT PRIMARY KEY,
		store_id       TEXT NOT NULL REFERENCES stores(id),
		provider       TEXT,
		country        TEXT,
		region         TEXT,
		min_weight_kg  NUMERIC(18,4) NOT NULL DEFAULT 0,
		max_weight_kg  NUMERIC(18,4),
		flat_fee       NUMERIC(18,4) NOT NULL DEFAULT 0,
		per_kg         NUMERIC(18,4) NOT NULL DEFAULT 0,
		currency       CHAR(3) NOT NULL,
		effective_from TIMESTAMPTZ NOT NULL,
		effective_to   TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS daily_metrics (
		id            BIGSERIAL PRIMARY KEY,
		store_id      TEXT NOT NULL REFERENCES stores(id),
		channel       TEXT NOT NULL,
		product_sku   TEXT,
		sku_key       TEXT NOT NULL DEFAULT '',
		date          DATE NOT NULL,
		currency      CHAR(3) NOT NULL,
		orders        BIGINT NOT NULL DEFAULT 0,
		units         BIGINT NOT NULL DEFAULT 0,
		revenue       NUMERIC(18,4) NOT NULL DEFAULT 0,
		ad_spend      NUMERIC(18,4) NOT NULL DEFAULT 0,
		cogs          NUMERIC(18,4) NOT NULL DEFAULT 0,
		shipping_cost NUMERIC(18,4) NOT NULL DEFAULT 0,
		payment_fees  NUMERIC(18,4) NOT NULL DEFAULT 0,
		other_costs   NUMERIC(18,4) NOT NULL DEFAULT 0,
		refund_amount NUMERIC(18,4) NOT NULL DEFAULT 0,
		refund_count  BIGINT NOT NULL DEFAULT 0,
		gross_profit  NUMERIC(18,4) NOT NULL DEFAULT 0,
		net_profit    NUMERIC(18,4) NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT daily_metrics_cell_unique UNIQUE (store_id, channel, sku_key, date)
	)`,
	`CREATE TABLE IF NOT EXISTS monthly_order_usage (
		merchant_id TEXT NOT NULL,
		year        INT NOT NULL,
		month       INT NOT NULL,
		order_count BIGINT NOT NULL DEFAULT 0,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (merchant_id, year, month)
	)`,
	`CREATE TABLE IF NOT EXISTS overage_records (
		id             TEXT PRIMARY KEY,
		merchant_id    TEXT NOT NULL,
		year           INT NOT NULL,
		month          INT NOT NULL,
		units_required BIGINT NOT NULL DEFAULT 0,
		units_billed   BIGINT NOT NULL DEFAULT 0,
		block_size     BIGINT NOT NULL,
		block_price    NUMERIC(18,4) NOT NULL,
		currency       CHAR(3) NOT NULL,
		status         TEXT NOT NULL DEFAULT 'PENDING',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		billed_at      TIMESTAMPTZ,
		UNIQUE (merchant_id, year, month)
	)`,
	`CREATE TABLE IF NOT EXISTS attribution_rules (
		merchant_id TEXT NOT NULL,
		provider    TEXT NOT NULL,
		touches     JSONB NOT NULL DEFAULT '[]',
		PRIMARY KEY (merchant_id, provider)
	)`,
	`CREATE TABLE IF NOT EXISTS order_attributions (
		id         TEXT PRIMARY KEY,
		order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		store_id   TEXT NOT NULL,
		provider   TEXT NOT NULL,
		rule_type  TEXT NOT NULL,
		amount     NUMERIC(18,4) NOT NULL,
		currency   CHAR(3) NOT NULL,
		date       DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS ad_spend_facts (
		store_id      TEXT NOT NULL REFERENCES stores(id),
		provider      TEXT NOT NULL,
		campaign_id   TEXT NOT NULL,
		campaign_name TEXT NOT NULL DEFAULT '',
		date          DATE NOT NULL,
		spend         NUMERIC(18,4) NOT NULL DEFAULT 0,
		currency      CHAR(3) NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (store_id, provider, campaign_id, date)
	)`,
}

func setupLogger() {
	// Configura o logger para incluir data, hora e arquivo
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Iniciando script de migração...")
}

func generateID() string {
	id, _ := gonanoid.Generate(characters, idLength)
	return id
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func createSchema(db *sql.DB) {
	log.Printf("Aplicando %d instruções de schema...", len(schema))
	startTime := time.Now()

	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("ERRO ao aplicar instrução [%d/%d]: %v", i+1, len(schema), err)
		}
	}

	log.Printf("Schema aplicado em %v", time.Since(startTime))
}

// seedDemo cria a loja de demonstração usada nos exemplos de pedido
func seedDemo(tx *sql.Tx) {
	log.Println("Inserindo loja de demonstração...")

	effectiveFrom := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	statements := []struct {
		name  string
		query string
		args  []any
	}{
		{
			name: "loja",
			query: `INSERT INTO stores (id, merchant_id, name, currency, timezone)
				VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
			args: []any{"store-demo", "merchant-demo", "Loja Demo", "USD", "UTC"},
		},
		{
			name: "plano",
			query: `INSERT INTO merchant_plans (merchant_id, name, monthly_order_limit, overage_block_size, overage_block_price, overage_currency)
				VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (merchant_id) DO NOTHING`,
			args: []any{"merchant-demo", "growth", 1000, 100, "19.90", "USD"},
		},
		{
			name: "custo SKU-A",
			query: `INSERT INTO sku_costs (store_id, sku, unit_cost, currency, effective_from)
				VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			args: []any{"store-demo", "SKU-A", "40", "USD", effectiveFrom},
		},
		{
			name: "custo SKU-B",
			query: `INSERT INTO sku_costs (store_id, sku, unit_cost, currency, effective_from)
				VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			args: []any{"store-demo", "SKU-B", "70", "USD", effectiveFrom},
		},
		{
			name: "template stripe",
			query: `INSERT INTO cost_templates (id, store_id, name, cost_type, gateway_filter, lines)
				SELECT $1, $2, $3, $4, ARRAY['stripe'], $5::jsonb
				WHERE NOT EXISTS (SELECT 1 FROM cost_templates WHERE store_id = $2 AND name = $3)`,
			args: []any{
				generateID(), "store-demo", "Stripe", "PAYMENT_FEE",
				`[{"label":"stripe","flat_amount":"0.30","percentage_rate":"0.029","applies_to":"ORDER_TOTAL"}]`,
			},
		},
		{
			name: "regra de frete",
			query: `INSERT INTO logistics_rules (id, store_id, provider, country, flat_fee, per_kg, currency, effective_from)
				SELECT $1, $2, $3, $4, $5, $6, $7, $8
				WHERE NOT EXISTS (SELECT 1 FROM logistics_rules WHERE store_id = $2 AND provider = $3)`,
			args: []any{generateID(), "store-demo", "correios", "BR", "12", "1.2", "USD", effectiveFrom},
		},
		{
			name: "atribuição meta",
			query: `INSERT INTO attribution_rules (merchant_id, provider, touches)
				VALUES ($1, $2, $3::jsonb) ON CONFLICT DO NOTHING`,
			args: []any{"merchant-demo", "meta", `[{"rule_type":"LAST_TOUCH","weight":"1"}]`},
		},
	}

	for _, s := range statements {
		if _, err := tx.Exec(s.query, s.args...); err != nil {
			log.Fatalf("ERRO ao inserir %s: %v", s.name, err)
		}
	}

	log.Println("Loja de demonstração inserida")
}

func main() {
	setupLogger()

	_ = godotenv.Load()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		log.Fatal("ERRO: DATABASE_URL não configurada")
	}

	connectionString := fmt.Sprintf("postgres://%s:%s@%s", getEnv("DATABASE_USER", "postgres"), os.Getenv("DATABASE_PASSWORD"), url)

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		log.Fatalf("ERRO ao abrir conexão: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ERRO ao conectar ao banco: %v", err)
	}

	createSchema(db)

	if len(os.Args) > 1 && os.Args[1] == "--seed" {
		tx, err := db.Begin()
		if err != nil {
			log.Fatalf("ERRO ao iniciar transação: %v", err)
		}
		seedDemo(tx)
		if err := tx.Commit(); err != nil {
			log.Fatalf("ERRO ao confirmar transação: %v", err)
		}
	}

	log.Println("Migração concluída")
}
