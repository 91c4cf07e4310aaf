package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	SeedFile string `env:"SEED_FILE" envDefault:"seed.json"`
	Telegram Telegram
	Redis    Redis
	API      API
	Cache    Cache
	Store    Store
	Jobs     Jobs
}

type Telegram struct {
	Token         string        `env:"TELEGRAM_TOKEN"`
	UpdTimeout    time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
	AllowedChatID int64         `env:"TELEGRAM_ALLOWED_CHAT_ID" envDefault:"0"`
}

// пустой хост отключает публикацию снапшота в redis
type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:""`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type API struct {
	Debug      bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout    time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	TInvestApi TInvestApi
	BinanceApi BinanceApi
}

type TInvestApi struct {
	Url       string `env:"TINVEST_API_URL" envDefault:"https://invest-public-api.tbank.ru/rest"`
	Token     string `env:"TINVEST_TOKEN" envDefault:""`
	AccountID string `env:"TINVEST_ACCOUNT_ID"`
	Currency  string `env:"TINVEST_PORTFOLIO_CURRENCY" envDefault:"RUB"`
}

type BinanceApi struct {
	Url string `env:"BINANCE_API_URL" envDefault:"https://api.binance.com"`
}

type Cache struct {
	SnapshotExpiration time.Duration `env:"CACHE_SNAPSHOT_EXPIRATION" envDefault:"1h"`
}

type Store struct {
	BusyMinVisible     time.Duration `env:"STORE_BUSY_MIN_VISIBLE" envDefault:"300ms"`
	BlockedShareTicker string        `env:"STORE_BLOCKED_SHARE_TICKER" envDefault:"TECH"`
}

type Jobs struct {
	RefreshAllInterval    time.Duration `env:"REFRESH_ALL_JOB_INTERVAL" envDefault:"15m"`
	RefreshCryptoInterval time.Duration `env:"REFRESH_CRYPTO_JOB_INTERVAL" envDefault:"1m"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
