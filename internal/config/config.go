package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App               App               `mapstructure:",squash"`
	Server            Server            `mapstructure:",squash"`
	Database          Database          `mapstructure:",squash"`
	Redis             Redis             `mapstructure:",squash"`
	Meta              Meta              `mapstructure:",squash"`
	Billing           Billing           `mapstructure:",squash"`
	Capacity          Capacity          `mapstructure:",squash"`
	Channels          Channels          `mapstructure:",squash"`
	Currency          Currency          `mapstructure:",squash"`
	AdSpendSync       AdSpendSync       `mapstructure:",squash"`
	OverageChargeSync OverageChargeSync `mapstructure:",squash"`
	RetentionPurge    RetentionPurge    `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
	// MaxTxAttempts limita as tentativas de uma transação que falhou por serialização
	MaxTxAttempts int `mapstructure:"database_max_tx_attempts"`
}

// Enabled indica se há um banco configurado; sem ele a aplicação roda com o store em memória
func (d Database) Enabled() bool {
	return d.URL != ""
}

type Redis struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

type Meta struct {
	BaseURL     string `mapstructure:"meta_base_url"`
	URL         string `mapstructure:"-"`
	Version     string `mapstructure:"meta_version"`
	AccessToken string `mapstructure:"meta_access_token"`
}

type Billing struct {
	URL    string `mapstructure:"billing_url"`
	APIKey string `mapstructure:"billing_api_key"`
}

// Capacity define o plano usado quando o merchant não possui plano cadastrado
type Capacity struct {
	DefaultMonthlyOrderLimit int64   `mapstructure:"capacity_default_monthly_order_limit"`
	DefaultOverageBlockSize  int64   `mapstructure:"capacity_default_overage_block_size"`
	DefaultOverageBlockPrice float64 `mapstructure:"capacity_default_overage_block_price"`
	DefaultOverageCurrency   string  `mapstructure:"capacity_default_overage_currency"`
}

type Channels struct {
	RulesFile string `mapstructure:"channel_rules_file"`
}

type Currency struct {
	// StaticRates no formato "USD=1,BRL=5.10,EUR=0.92", cotação de cada moeda por 1 unidade da base
	StaticRates []string `mapstructure:"currency_static_rates"`
	Base        string   `mapstructure:"currency_base"`
}

type AdSpendSync struct {
	CronSchedule        string `mapstructure:"ad_spend_sync_cron"`
	LookbackDays        int    `mapstructure:"ad_spend_sync_lookback_days"`
	RequestDelaySeconds int    `mapstructure:"ad_spend_sync_request_delay_seconds"`
	MaxConcurrentJobs   int    `mapstructure:"ad_spend_sync_max_concurrent_jobs"`
	Enabled             bool   `mapstructure:"ad_spend_sync_enabled"`
}

type OverageChargeSync struct {
	CronSchedule string `mapstructure:"overage_charge_sync_cron"`
	Enabled      bool   `mapstructure:"overage_charge_sync_enabled"`
}

type RetentionPurge struct {
	CronSchedule  string `mapstructure:"retention_purge_cron"`
	RetentionDays int    `mapstructure:"retention_purge_days"`
	Enabled       bool   `mapstructure:"retention_purge_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_ENV", "development")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_TX_ATTEMPTS", 3)

	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_ACCESS_TOKEN", "")

	viper.SetDefault("BILLING_URL", "")
	viper.SetDefault("BILLING_API_KEY", "")

	viper.SetDefault("CAPACITY_DEFAULT_MONTHLY_ORDER_LIMIT", 1000)
	viper.SetDefault("CAPACITY_DEFAULT_OVERAGE_BLOCK_SIZE", 0)
	viper.SetDefault("CAPACITY_DEFAULT_OVERAGE_BLOCK_PRICE", 0)
	viper.SetDefault("CAPACITY_DEFAULT_OVERAGE_CURRENCY", "USD")

	viper.SetDefault("CHANNEL_RULES_FILE", "")

	viper.SetDefault("CURRENCY_BASE", "USD")
	viper.SetDefault("CURRENCY_STATIC_RATES", "USD=1")

	viper.SetDefault("AD_SPEND_SYNC_CRON", "0 */4 * * *")
	viper.SetDefault("AD_SPEND_SYNC_LOOKBACK_DAYS", 3)
	viper.SetDefault("AD_SPEND_SYNC_REQUEST_DELAY_SECONDS", 2)
	viper.SetDefault("AD_SPEND_SYNC_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("AD_SPEND_SYNC_ENABLED", false)

	viper.SetDefault("OVERAGE_CHARGE_SYNC_CRON", "*/30 * * * *")
	viper.SetDefault("OVERAGE_CHARGE_SYNC_ENABLED", true)

	viper.SetDefault("RETENTION_PURGE_CRON", "0 3 * * *")
	viper.SetDefault("RETENTION_PURGE_DAYS", 730)
	viper.SetDefault("RETENTION_PURGE_ENABLED", true)
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	if config.Database.URL != "" {
		config.Database.DSN = fmt.Sprintf(
			"%s://%s:%s@%s",
			config.Database.Driver,
			config.Database.User,
			config.Database.Password,
			config.Database.URL,
		)
	}

	if config.Database.MaxTxAttempts <= 0 {
		config.Database.MaxTxAttempts = 1
	}

	config.Currency.Base = strings.ToUpper(config.Currency.Base)

	return config, nil
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, seguindo com variáveis de ambiente")
}
