package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	AdminToken    string
	LogLevel      string

	Redis     RedisConfig
	Postgres  PostgresConfig
	Kafka     KafkaConfig
	Offchain  OffchainConfig
	RateLimit RateLimitConfig
}

// RedisConfig configures the shared Redis client. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the relational stores. An empty URL disables Postgres.
type PostgresConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// KafkaConfig configures ledger event publishing. No brokers means events stay in memory.
type KafkaConfig struct {
	Brokers     []string
	EventsTopic string
	Partitions  int32
}

// OffchainConfig configures the notification processor and its epoch clock.
type OffchainConfig struct {
	// LockTimeout is the lease of the processor lock.
	LockTimeout time.Duration
	// EpochInterval is the block time; one processor trigger per epoch.
	EpochInterval time.Duration
	// Genesis anchors epoch numbering: epoch = (now-genesis)/interval.
	Genesis time.Time
	// MaxBacktrack is the most epochs one processor pass replays.
	MaxBacktrack int
	// LocalDBPath enables the node-local SQLite checkpoint and lock.
	LocalDBPath string
	// SchedulerEnabled runs the built-in epoch clock. Disable when an
	// external block producer calls the trigger route instead.
	SchedulerEnabled bool
	// EnforceFlagOwnership rejects add_flag from signers that do not own
	// the identity.
	EnforceFlagOwnership bool
}

// RateLimitConfig throttles signed commands per account. A non-positive
// limit disables throttling.
type RateLimitConfig struct {
	CommandsPerWindow int
	Window            time.Duration
}

// LockTimeoutDefault is the processor lease, 3000ms.
const LockTimeoutDefault = 3000 * time.Millisecond

// GenesisDefault anchors the epoch clock when OCW_GENESIS is unset. It is
// fixed so epoch numbers survive restarts against a durable checkpoint.
var GenesisDefault = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          envOr("CONTACTLEDGER_ADDR", ":8080"),
		JWTSigningKey: jwtSigningKey,
		AdminToken:    os.Getenv("ADMIN_TOKEN"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(os.Getenv("KAFKA_BROKERS")),
			EventsTopic: envOr("KAFKA_EVENTS_TOPIC", "contact-tracing.events"),
			Partitions:  int32(envInt("KAFKA_EVENTS_PARTITIONS", 3)),
		},
		Offchain: OffchainConfig{
			LockTimeout:          envDuration("OCW_LOCK_TIMEOUT", LockTimeoutDefault),
			EpochInterval:        envDuration("OCW_EPOCH_INTERVAL", 6*time.Second),
			Genesis:              envTime("OCW_GENESIS", GenesisDefault),
			MaxBacktrack:         envInt("OCW_MAX_BACKTRACK", 1000),
			LocalDBPath:          os.Getenv("OCW_LOCAL_DB"),
			SchedulerEnabled:     envOr("OCW_SCHEDULER", "true") == "true",
			EnforceFlagOwnership: os.Getenv("OCW_ENFORCE_FLAG_OWNERSHIP") == "true",
		},
		RateLimit: RateLimitConfig{
			CommandsPerWindow: envInt("COMMAND_RATE_LIMIT", 120),
			Window:            envDuration("COMMAND_RATE_WINDOW", time.Minute),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func envTime(key string, fallback time.Time) time.Time {
	if v, err := time.Parse(time.RFC3339, os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
