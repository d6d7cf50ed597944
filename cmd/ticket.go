package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"housie/database"
	"housie/events"
	"housie/metrics"
	"housie/repository"
	"housie/service"
	"housie/ticket"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

var errTicketInvalid = errors.New("ticket is invalid")

func ticketCmd() *cli.Command {
	return &cli.Command{
		Name:  "ticket",
		Usage: "Generate, validate and repair tickets",
		Commands: []*cli.Command{
			generateCmd(),
			validateCmd(),
			repairCmd(),
		},
	}
}

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Print freshly generated tickets",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Value:   1,
				Usage:   "Number of tickets to generate",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Seed for reproducible output, 0 uses crypto randomness",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print tickets as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			count := int(cmd.Int("count"))
			if count <= 0 {
				return fmt.Errorf("count must be positive, got %d", count)
			}

			rnd := ticket.NewCryptoRandom()
			if seed := int64(cmd.Int("seed")); seed != 0 {
				rnd = ticket.NewSeededRandom(seed)
			}
			generator := ticket.NewGenerator(rnd)

			tickets := make([]ticket.Ticket, 0, count)
			for i := 0; i < count; i++ {
				tickets = append(tickets, generator.Generate())
			}
			return writeTickets(cmd.Root().Writer, tickets, cmd.Bool("json"))
		},
	}
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate ticket numbers",
		ArgsUsage: "<numbers...|json>",
		Description: `Validate a ticket given as separate numbers, a comma separated list,
a JSON array (flat or grid shaped) or a Postgres array literal.

Examples:
  housie ticket validate 3 14 25 ...
  housie ticket validate '[[3,0,21,...],[...],[...]]'`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("no ticket numbers given")
			}

			report := ticket.Validate(strings.Join(cmd.Args().Slice(), " "))
			if err := writeReport(cmd.Root().Writer, report); err != nil {
				return err
			}
			if !report.Valid {
				return errTicketInvalid
			}
			return nil
		},
	}
}

func repairCmd() *cli.Command {
	return &cli.Command{
		Name:  "repair",
		Usage: "Validate every stored ticket and regenerate invalid ones",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report invalid tickets without rewriting them",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Tickets per transaction (default REPAIR_BATCH_SIZE)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Ticket rewrites per second (default REPAIR_RATE_PER_SECOND)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadTooling()
			if err != nil {
				return err
			}

			opts := service.RepairOptions{
				BatchSize:     cfg.RepairBatchSize,
				RatePerSecond: cfg.RepairRatePerSecond,
				DryRun:        cmd.Bool("dry-run"),
			}
			if cmd.IsSet("batch-size") {
				opts.BatchSize = int(cmd.Int("batch-size"))
			}
			if cmd.IsSet("rate") {
				opts.RatePerSecond = cmd.Float("rate")
			}

			db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			eventBus := events.NewBus()
			metrics.Register(eventBus)

			repairService := service.NewRepairServiceWithProgress(
				repository.NewUnitOfWorkFactory(db, eventBus),
				ticket.NewGenerator(ticket.NewCryptoRandom()),
				logProgress,
			)

			run, err := repairService.RepairTickets(ctx, opts)
			if run != nil {
				log.WithFields(log.Fields{
					"runID":       run.ID,
					"checked":     run.TicketsChecked,
					"invalid":     run.TicketsInvalid,
					"regenerated": run.TicketsRegenerated,
					"dryRun":      run.DryRun,
					"duration":    run.Duration(),
				}).Info("Repair run finished")
			}
			return err
		},
	}
}

func logProgress(p service.RepairProgress) {
	log.WithFields(log.Fields{
		"checked":     p.Checked,
		"invalid":     p.Invalid,
		"regenerated": p.Regenerated,
		"elapsed":     p.Elapsed.Round(time.Millisecond),
	}).Info("Repair progress")
}

// writeTickets prints tickets as grids separated by blank lines, or as a
// JSON array
func writeTickets(w io.Writer, tickets []ticket.Ticket, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tickets)
	}

	for i, t := range tickets {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, t.Grid.String()); err != nil {
			return err
		}
	}
	return nil
}

// writeReport prints a validation report in human readable form
func writeReport(w io.Writer, report ticket.Report) error {
	status := "valid"
	if !report.Valid {
		status = "invalid"
	}

	counts := make([]string, len(report.ColumnCounts))
	for c, n := range report.ColumnCounts {
		counts[c] = fmt.Sprintf("%d", n)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ticket is %s\n", status)
	fmt.Fprintf(&b, "Column counts: %s\n", strings.Join(counts, " "))
	for _, issue := range report.Issues {
		fmt.Fprintf(&b, "- %s\n", issue)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
