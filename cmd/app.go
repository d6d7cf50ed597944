package cmd

import (
	"fmt"

	"housie/config"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

const name = "housie"

// overridden during build with ldflags
var version = "dev"

// NewApp builds the housie command tree
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Housie ticket bot and tooling",
		Version: version,
		Commands: []*cli.Command{
			runCmd(),
			migrateCmd(),
			ticketCmd(),
		},
	}
}

// setupLogging applies the configured level, JSON output in production
func setupLogging(cfg *config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// loadTooling loads configuration that only needs database access
func loadTooling() (*config.Config, error) {
	cfg, err := config.Load(config.ModeTooling)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := setupLogging(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
