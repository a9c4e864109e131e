package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	// Subgraph (indexing service) configuration
	Subgraph SubgraphConfig

	// Volume check configuration
	Checker CheckerConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// API server configuration
	API APIConfig

	// Logging configuration
	Log LogConfig
}

// SubgraphConfig holds indexing service connection settings
type SubgraphConfig struct {
	// Candidate endpoints in priority order (comma-separated)
	Endpoints       []string      `envconfig:"SUBGRAPH_ENDPOINTS" default:"https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v3"`
	RequestTimeout  time.Duration `envconfig:"SUBGRAPH_REQUEST_TIMEOUT" default:"30s"`
	PageSize        int           `envconfig:"SUBGRAPH_PAGE_SIZE" default:"1000"`
	ParallelQueries bool          `envconfig:"SUBGRAPH_PARALLEL_QUERIES" default:"true"`
}

// CheckerConfig holds volume check settings
type CheckerConfig struct {
	ThresholdUSD float64 `envconfig:"CHECKER_THRESHOLD_USD" default:"10000"`
	WalletsFile  string  `envconfig:"CHECKER_WALLETS_FILE" default:"wallets.txt"`
	OutputDir    string  `envconfig:"CHECKER_OUTPUT_DIR" default:"."`
	Persist      bool    `envconfig:"CHECKER_PERSIST" default:"false"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"checker"`
	Password        string        `envconfig:"DB_PASSWORD" default:"checker"`
	Name            string        `envconfig:"DB_NAME" default:"dex_volume"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// APIConfig holds API server settings
type APIConfig struct {
	Host            string        `envconfig:"API_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"API_PORT" default:"8081"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"5m"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    int           `envconfig:"API_RATE_LIMIT_RPS" default:"20"`
	CacheTTL        time.Duration `envconfig:"API_CACHE_TTL" default:"5m"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.Subgraph.Endpoints = cleanEndpoints(cfg.Subgraph.Endpoints)
	if len(cfg.Subgraph.Endpoints) == 0 {
		return nil, fmt.Errorf("SUBGRAPH_ENDPOINTS must list at least one endpoint")
	}
	if cfg.Subgraph.PageSize <= 0 {
		return nil, fmt.Errorf("SUBGRAPH_PAGE_SIZE must be positive, got %d", cfg.Subgraph.PageSize)
	}
	return &cfg, nil
}

// cleanEndpoints trims each endpoint and drops blanks, keeping priority order
func cleanEndpoints(endpoints []string) []string {
	out := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
