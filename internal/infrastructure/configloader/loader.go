package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string `yaml:"port" env:"HTTP_PORT"`
	ReadTimeout  int    `yaml:"readTimeout"`  // seconds
	WriteTimeout int    `yaml:"writeTimeout"` // seconds
	IdleTimeout  int    `yaml:"idleTimeout"`  // seconds
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format"` // "json" or "console"
}

// DBConfig holds the wallet store connection.
type DBConfig struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER"` // "postgres" or "sqlite"
	Host     string `yaml:"host" env:"POSTGRES_HOST"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB"`
	SSLMode  string `yaml:"sslmode"`
	// SQLitePath is used when Driver is "sqlite".
	SQLitePath string `yaml:"sqlitePath" env:"SQLITE_PATH"`
}

// DSN returns the postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend                string `yaml:"backend" env:"CACHE_BACKEND"` // "memory" or "redis"
	RedisAddr              string `yaml:"redisAddr" env:"REDIS_ADDR"`
	RedisPassword          string `yaml:"redisPassword" env:"REDIS_PASSWORD"`
	RedisDB                int    `yaml:"redisDB"`
	KeyPrefix              string `yaml:"keyPrefix"`
	CleanupIntervalMinutes int    `yaml:"cleanupIntervalMinutes"`
}

// SolanaConfig holds the RPC node settings.
type SolanaConfig struct {
	RPCURL           string `yaml:"rpcURL" env:"SOLANA_RPC_URL"`
	RPCTimeoutMillis int64  `yaml:"rpcTimeoutMillis"`
}

// TokenListConfig holds the token metadata source settings.
type TokenListConfig struct {
	URL                    string `yaml:"url" env:"TOKEN_LIST_URL"`
	File                   string `yaml:"file"` // read instead of URL when set
	RefreshIntervalMinutes int    `yaml:"refreshIntervalMinutes"`
	FailureBackoffSeconds  int    `yaml:"failureBackoffSeconds"`
	RequestTimeoutMillis   int64  `yaml:"requestTimeoutMillis"`
}

// PriceOracleConfig holds the price oracle settings.
type PriceOracleConfig struct {
	Mode                  string  `yaml:"mode" env:"PRICE_ORACLE_MODE"` // "coingecko" or "fixed"
	BaseURL               string  `yaml:"baseURL"`
	APIKey                string  `yaml:"apiKey" env:"COINGECKO_API_KEY"`
	RequestTimeoutMillis  int64   `yaml:"requestTimeoutMillis"`
	RateLimitPerMinute    int     `yaml:"rateLimitPerMinute"`
	RateLimitBurst        int     `yaml:"rateLimitBurst"`
	CacheTTLSeconds       int     `yaml:"cacheTTLSeconds"`
	FallbackTTLSeconds    int     `yaml:"fallbackTTLSeconds"`
	StaleRetentionMinutes int     `yaml:"staleRetentionMinutes"`
	DefaultNativePrice    float64 `yaml:"defaultNativePrice"`
	FixedTokenPrice       float64 `yaml:"fixedTokenPrice"`
}

// PortfolioConfig holds aggregation settings.
type PortfolioConfig struct {
	CacheTTLSeconds         int `yaml:"cacheTTLSeconds"`
	MaxConcurrentValuations int `yaml:"maxConcurrentValuations"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Path     string `yaml:"path"`
	SpecFile string `yaml:"specFile"`
}

// SeedConfig points at an optional wallets file loaded at startup.
type SeedConfig struct {
	WalletsFile string `yaml:"walletsFile" env:"SEED_WALLETS_FILE"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Database    DBConfig          `yaml:"database"`
	Cache       CacheConfig       `yaml:"cache"`
	Solana      SolanaConfig      `yaml:"solana"`
	TokenList   TokenListConfig   `yaml:"tokenList"`
	PriceOracle PriceOracleConfig `yaml:"priceOracle"`
	Portfolio   PortfolioConfig   `yaml:"portfolio"`
	Swagger     SwaggerConfig     `yaml:"swagger"`
	Seed        SeedConfig        `yaml:"seed"`
}

// Load reads the YAML configuration file at path, applies environment overrides and defaults.
// A missing file is not an error: the configuration is then built from the environment and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, reading overrides from the environment only")
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logrus.Warnf("Config file %s not found, using environment and defaults", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	logrus.Infof("Configuration loaded (price oracle: %s, cache: %s, database: %s)",
		cfg.PriceOracle.Mode, cfg.Cache.Backend, cfg.Database.Driver)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/wallets.db"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = "tracker:"
	}
	if cfg.Cache.CleanupIntervalMinutes <= 0 {
		cfg.Cache.CleanupIntervalMinutes = 10
	}

	if cfg.Solana.RPCURL == "" {
		cfg.Solana.RPCURL = "https://api.mainnet-beta.solana.com"
	}
	if cfg.Solana.RPCTimeoutMillis <= 0 {
		cfg.Solana.RPCTimeoutMillis = 10000
	}

	if cfg.TokenList.URL == "" && cfg.TokenList.File == "" {
		cfg.TokenList.URL = "https://raw.githubusercontent.com/solana-labs/token-list/main/src/tokens/solana.tokenlist.json"
	}
	if cfg.TokenList.RefreshIntervalMinutes <= 0 {
		cfg.TokenList.RefreshIntervalMinutes = 60
	}
	if cfg.TokenList.FailureBackoffSeconds <= 0 {
		cfg.TokenList.FailureBackoffSeconds = 30
	}
	if cfg.TokenList.RequestTimeoutMillis <= 0 {
		cfg.TokenList.RequestTimeoutMillis = 30000
	}

	if cfg.PriceOracle.Mode == "" {
		cfg.PriceOracle.Mode = "coingecko"
	}
	cfg.PriceOracle.Mode = strings.ToLower(cfg.PriceOracle.Mode)
	if cfg.PriceOracle.BaseURL == "" {
		cfg.PriceOracle.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.PriceOracle.RequestTimeoutMillis <= 0 {
		cfg.PriceOracle.RequestTimeoutMillis = 10000
	}
	if cfg.PriceOracle.RateLimitPerMinute <= 0 {
		cfg.PriceOracle.RateLimitPerMinute = 30 // public CoinGecko tier
	}
	if cfg.PriceOracle.RateLimitBurst <= 0 {
		cfg.PriceOracle.RateLimitBurst = 5
	}
	if cfg.PriceOracle.CacheTTLSeconds <= 0 {
		cfg.PriceOracle.CacheTTLSeconds = 600
	}
	if cfg.PriceOracle.FallbackTTLSeconds <= 0 {
		cfg.PriceOracle.FallbackTTLSeconds = 60
	}
	if cfg.PriceOracle.StaleRetentionMinutes <= 0 {
		cfg.PriceOracle.StaleRetentionMinutes = 24 * 60
	}
	if cfg.PriceOracle.DefaultNativePrice <= 0 {
		cfg.PriceOracle.DefaultNativePrice = 50
	}
	if cfg.PriceOracle.FixedTokenPrice <= 0 {
		cfg.PriceOracle.FixedTokenPrice = 1
	}

	if cfg.Portfolio.CacheTTLSeconds <= 0 {
		cfg.Portfolio.CacheTTLSeconds = 30
	}
	if cfg.Portfolio.MaxConcurrentValuations <= 0 {
		cfg.Portfolio.MaxConcurrentValuations = 8
	}

	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "/swagger"
	}
	if cfg.Swagger.SpecFile == "" {
		cfg.Swagger.SpecFile = "./docs/swagger.yaml"
	}
}

func validate(cfg *Config) error {
	switch cfg.PriceOracle.Mode {
	case "coingecko", "fixed":
	default:
		return fmt.Errorf("unknown priceOracle.mode %q", cfg.PriceOracle.Mode)
	}
	switch cfg.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache.backend %q", cfg.Cache.Backend)
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database.driver %q", cfg.Database.Driver)
	}
	return nil
}
