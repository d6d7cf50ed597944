package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"DISCORD_TOKEN", "DISCORD_GUILD_ID", "DATABASE_URL", "DATABASE_NAME",
		"STARTING_BALANCE", "TICKET_COST", "REPAIR_BATCH_SIZE", "REPAIR_RATE_PER_SECOND",
		"LOG_LEVEL", "METRICS_ADDR", "ENVIRONMENT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := Load(ModeBot)
	require.NoError(t, err)

	assert.Equal(t, int64(100000), cfg.StartingBalance)
	assert.Equal(t, int64(1000), cfg.TicketCost)
	assert.Equal(t, 100, cfg.RepairBatchSize)
	assert.Equal(t, 50.0, cfg.RepairRatePerSecond)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")
	t.Setenv("TICKET_COST", "250")
	t.Setenv("STARTING_BALANCE", "5000")
	t.Setenv("REPAIR_BATCH_SIZE", "10")
	t.Setenv("REPAIR_RATE_PER_SECOND", "2.5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load(ModeTooling)
	require.NoError(t, err)

	assert.Equal(t, int64(250), cfg.TicketCost)
	assert.Equal(t, int64(5000), cfg.StartingBalance)
	assert.Equal(t, 10, cfg.RepairBatchSize)
	assert.Equal(t, 2.5, cfg.RepairRatePerSecond)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_RequiredSettings(t *testing.T) {
	t.Run("bot needs a discord token", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost:5432")

		_, err := Load(ModeBot)
		assert.EqualError(t, err, "DISCORD_TOKEN is required")
	})

	t.Run("tooling does not need a discord token", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_URL", "postgres://localhost:5432")

		_, err := Load(ModeTooling)
		assert.NoError(t, err)
	})

	t.Run("database url is always required", func(t *testing.T) {
		clearEnv(t)

		_, err := Load(ModeTooling)
		assert.EqualError(t, err, "DATABASE_URL is required")
	})
}

func TestLoad_RejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("TICKET_COST", "cheap")

	_, err := Load(ModeBot)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TICKET_COST")
}
