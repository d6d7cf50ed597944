package cmd

import (
	"context"
	"fmt"
	"time"

	"housie/bot"
	"housie/config"
	"housie/database"
	"housie/events"
	"housie/metrics"
	"housie/repository"
	"housie/service"
	"housie/ticket"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Start the Discord bot",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return Run(ctx)
		},
	}
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	if err := setupLogging(cfg); err != nil {
		return err
	}

	log.Info("Starting housie bot...")

	databaseURL := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)
	if err := database.MigrateUp(databaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	eventBus := events.NewBus()
	metrics.Register(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	generator := ticket.NewGenerator(ticket.NewCryptoRandom())

	userService := service.NewUserService(uowFactory, cfg.StartingBalance)
	ticketService := service.NewTicketService(uowFactory, generator, cfg.TicketCost, cfg.StartingBalance)
	log.WithFields(log.Fields{
		"ticketCost":      cfg.TicketCost,
		"startingBalance": cfg.StartingBalance,
	}).Info("Services initialized")

	metricsErr := make(chan error, 1)
	metricsRunning := cfg.MetricsAddr != ""
	if metricsRunning {
		go func() {
			metricsErr <- metrics.Serve(ctx, cfg.MetricsAddr)
		}()
	}

	discordBot, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}, userService, ticketService)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	log.Infof("Bot is running in %s mode...", cfg.Environment)

	select {
	case <-ctx.Done():
	case err := <-metricsErr:
		metricsRunning = false
		if err != nil {
			log.Errorf("Metrics listener stopped: %v", err)
		}
		<-ctx.Done()
	}

	log.Info("Shutting down bot...")
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	if metricsRunning {
		select {
		case <-metricsErr:
		case <-time.After(10 * time.Second):
			log.Warn("Metrics listener shutdown timeout exceeded")
		}
	}

	log.Info("Shutdown completed")
	return nil
}
