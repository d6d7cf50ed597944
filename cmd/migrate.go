package cmd

import (
	"context"
	"fmt"
	"strconv"

	"housie/database"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					url, err := toolingDatabaseURL()
					if err != nil {
						return err
					}
					return database.MigrateUp(url)
				},
			},
			{
				Name:      "down",
				Usage:     "Roll back migrations",
				ArgsUsage: "[steps]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					steps, err := parseSteps(cmd.Args().First())
					if err != nil {
						return err
					}
					url, err := toolingDatabaseURL()
					if err != nil {
						return err
					}
					return database.MigrateDown(url, steps)
				},
			},
			{
				Name:  "status",
				Usage: "Show the current schema version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					url, err := toolingDatabaseURL()
					if err != nil {
						return err
					}
					status, err := database.GetMigrationStatus(url)
					if err != nil {
						return err
					}
					if !status.Applied {
						log.Info("No migrations applied")
						return nil
					}
					log.WithFields(log.Fields{
						"version": status.Version,
						"dirty":   status.Dirty,
					}).Info("Migration status")
					return nil
				},
			},
		},
	}
}

func toolingDatabaseURL() (string, error) {
	cfg, err := loadTooling()
	if err != nil {
		return "", err
	}
	return database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName), nil
}

// parseSteps reads the down step count, one when omitted
func parseSteps(arg string) (int, error) {
	if arg == "" {
		return 1, nil
	}
	steps, err := strconv.Atoi(arg)
	if err != nil || steps <= 0 {
		return 0, fmt.Errorf("invalid step count %q", arg)
	}
	return steps, nil
}
