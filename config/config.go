package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Wallet and ticket configuration
	StartingBalance int64
	TicketCost      int64

	// Repair workflow pacing
	RepairBatchSize     int
	RepairRatePerSecond float64

	// Observability
	LogLevel    string
	MetricsAddr string // empty disables the metrics listener

	// Environment
	Environment string // "development", "production" or "test"
}

// Mode selects which settings are required when loading
type Mode int

const (
	// ModeBot requires everything the Discord bot needs
	ModeBot Mode = iota
	// ModeTooling only requires database access
	ModeTooling
)

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance for the bot
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = Load(ModeBot)
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from environment variables
func Load(mode Mode) (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Defaults
		StartingBalance:     100000,
		TicketCost:          1000,
		RepairBatchSize:     100,
		RepairRatePerSecond: 50,
		LogLevel:            "info",

		MetricsAddr: os.Getenv("METRICS_ADDR"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		parsed, err := strconv.ParseInt(balance, 10, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid STARTING_BALANCE %q", balance)
		}
		config.StartingBalance = parsed
	}
	if cost := os.Getenv("TICKET_COST"); cost != "" {
		parsed, err := strconv.ParseInt(cost, 10, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid TICKET_COST %q", cost)
		}
		config.TicketCost = parsed
	}
	if size := os.Getenv("REPAIR_BATCH_SIZE"); size != "" {
		parsed, err := strconv.Atoi(size)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid REPAIR_BATCH_SIZE %q", size)
		}
		config.RepairBatchSize = parsed
	}
	if rate := os.Getenv("REPAIR_RATE_PER_SECOND"); rate != "" {
		parsed, err := strconv.ParseFloat(rate, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid REPAIR_RATE_PER_SECOND %q", rate)
		}
		config.RepairRatePerSecond = parsed
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if mode == ModeBot && config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
