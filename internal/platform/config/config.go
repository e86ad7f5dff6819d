package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable through STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendLevelDB  = "leveldb"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	Environment   string
	LogLevel      string
	JWTSigningKey string
	TxTimeout     time.Duration

	Store StoreConfig
	Redis RedisConfig
	Audit AuditConfig
}

// StoreConfig selects and locates the ledger backend.
type StoreConfig struct {
	Backend     string
	LevelDBPath string
	DatabaseURL string
	SQLitePath  string
}

// RedisConfig configures the go-redis client used by the redis backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig configures where audit events go.
// An empty Brokers list keeps events in memory.
type AuditConfig struct {
	Brokers []string
	Topic   string
	Buffer  int
	// MemoryCapacity bounds the in-memory sink and the Kafka outage spill.
	MemoryCapacity int
}

// AuthEnabled reports whether callers must present a signed token.
func (s Server) AuthEnabled() bool {
	return s.JWTSigningKey != ""
}

const (
	defaultTxTimeout           = 5 * time.Second
	defaultAuditMemoryCapacity = 10_000
)

// Caller tokens are minted by cmd/tokengen and checked by the server with these values.
const (
	TokenIssuer   = "healthledger"
	TokenAudience = "healthledger-api"
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("LEDGER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	env := os.Getenv("LEDGER_ENV")
	if env == "" {
		env = "dev"
	}

	txTimeout := defaultTxTimeout
	if txTimeoutStr := os.Getenv("TX_TIMEOUT"); txTimeoutStr != "" {
		if duration, err := time.ParseDuration(txTimeoutStr); err == nil && duration > 0 {
			txTimeout = duration
		}
	}

	backend := strings.ToLower(os.Getenv("STORE_BACKEND"))
	if backend == "" {
		backend = BackendMemory
	}

	topic := os.Getenv("AUDIT_TOPIC")
	if topic == "" {
		topic = "ledger.audit"
	}
	buffer := 0
	if v, err := strconv.Atoi(os.Getenv("AUDIT_BUFFER")); err == nil && v > 0 {
		buffer = v
	}
	memoryCapacity := defaultAuditMemoryCapacity
	if v, err := strconv.Atoi(os.Getenv("AUDIT_MEMORY_CAPACITY")); err == nil && v > 0 {
		memoryCapacity = v
	}

	return Server{
		Addr:          addr,
		Environment:   env,
		LogLevel:      os.Getenv("LOG_LEVEL"),
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		TxTimeout:     txTimeout,
		Store: StoreConfig{
			Backend:     backend,
			LevelDBPath: envOr("LEVELDB_PATH", "data/ledger.db"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			SQLitePath:  envOr("SQLITE_PATH", "data/ledger.sqlite"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Audit: AuditConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   topic,
			Buffer:  buffer,

			MemoryCapacity: memoryCapacity,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
