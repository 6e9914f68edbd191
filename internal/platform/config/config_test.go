package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("OCW_LOCK_TIMEOUT", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("OCW_ENFORCE_FLAG_OWNERSHIP", "")
	t.Setenv("COMMAND_RATE_LIMIT", "")
	t.Setenv("OCW_GENESIS", "")
	t.Setenv("OCW_MAX_BACKTRACK", "")

	cfg := FromEnv()
	assert.Equal(t, 3000*time.Millisecond, cfg.Offchain.LockTimeout)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.False(t, cfg.Offchain.EnforceFlagOwnership)
	assert.True(t, cfg.Offchain.SchedulerEnabled)
	assert.Equal(t, GenesisDefault, cfg.Offchain.Genesis)
	assert.Equal(t, 1000, cfg.Offchain.MaxBacktrack)
	assert.Equal(t, 120, cfg.RateLimit.CommandsPerWindow)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("OCW_LOCK_TIMEOUT", "5s")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")
	t.Setenv("OCW_GENESIS", "2020-04-01T00:00:00Z")
	t.Setenv("OCW_ENFORCE_FLAG_OWNERSHIP", "true")
	t.Setenv("COMMAND_RATE_LIMIT", "0")
	t.Setenv("OCW_MAX_BACKTRACK", "50")

	cfg := FromEnv()
	assert.Equal(t, 5*time.Second, cfg.Offchain.LockTimeout)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC), cfg.Offchain.Genesis)
	assert.True(t, cfg.Offchain.EnforceFlagOwnership)
	assert.Zero(t, cfg.RateLimit.CommandsPerWindow)
	assert.Equal(t, 50, cfg.Offchain.MaxBacktrack)
}
