package service

import (
	"context"
	"fmt"
	"time"

	"housie/events"
	"housie/models"
	"housie/ticket"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultRepairBatchSize is used when RepairOptions.BatchSize is not set
const DefaultRepairBatchSize = 100

type repairService struct {
	uowFactory UnitOfWorkFactory
	generator  TicketGenerator
	onProgress func(RepairProgress)
}

// NewRepairService creates the service that validates stored tickets and
// regenerates the ones that cannot be laid out.
func NewRepairService(uowFactory UnitOfWorkFactory, generator TicketGenerator) RepairService {
	return &repairService{
		uowFactory: uowFactory,
		generator:  generator,
	}
}

// NewRepairServiceWithProgress is NewRepairService with a callback invoked
// after every committed batch.
func NewRepairServiceWithProgress(uowFactory UnitOfWorkFactory, generator TicketGenerator, onProgress func(RepairProgress)) RepairService {
	return &repairService{
		uowFactory: uowFactory,
		generator:  generator,
		onProgress: onProgress,
	}
}

// RepairTickets pages through every stored ticket in ID order. Each batch is
// its own transaction, so a cancelled run keeps the batches already
// committed, and the run record is written either way.
func (s *repairService) RepairTickets(ctx context.Context, opts RepairOptions) (*models.TicketRepairRun, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultRepairBatchSize
	}
	if opts.RatePerSecond < 0 {
		return nil, fmt.Errorf("repair rate must not be negative")
	}

	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}

	run := &models.TicketRepairRun{
		StartedAt: time.Now(),
		DryRun:    opts.DryRun,
	}

	log.WithFields(log.Fields{
		"batchSize": opts.BatchSize,
		"rate":      opts.RatePerSecond,
		"dryRun":    opts.DryRun,
	}).Info("Starting ticket repair run")

	var afterID int64
	var runErr error
	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		batch, err := s.repairBatch(ctx, afterID, opts, limiter)
		run.TicketsChecked += batch.checked
		run.TicketsInvalid += batch.invalid
		run.TicketsRegenerated += batch.regenerated
		if batch.lastID > afterID {
			afterID = batch.lastID
		}

		if batch.checked > 0 && s.onProgress != nil {
			s.onProgress(RepairProgress{
				Checked:     run.TicketsChecked,
				Invalid:     run.TicketsInvalid,
				Regenerated: run.TicketsRegenerated,
				Elapsed:     time.Since(run.StartedAt),
			})
		}

		if err != nil {
			runErr = err
			break
		}
		if batch.listed < opts.BatchSize {
			break
		}
	}

	run.CompletedAt = time.Now()
	run.ExecutionSummary = map[string]any{
		"batch_size":    opts.BatchSize,
		"rate":          opts.RatePerSecond,
		"last_ticket":   afterID,
		"interrupted":   runErr != nil,
		"duration_ms":   run.Duration().Milliseconds(),
		"invalid_ratio": invalidRatio(run),
	}
	if runErr != nil {
		run.ExecutionSummary["error"] = runErr.Error()
	}

	// The run is recorded even when ctx is done
	if err := s.recordRun(context.WithoutCancel(ctx), run); err != nil {
		log.WithError(err).Error("Failed to record ticket repair run")
		if runErr == nil {
			runErr = err
		}
	}

	fields := log.Fields{
		"checked":     run.TicketsChecked,
		"invalid":     run.TicketsInvalid,
		"regenerated": run.TicketsRegenerated,
		"duration":    run.Duration(),
	}
	if runErr != nil {
		log.WithError(runErr).WithFields(fields).Warn("Ticket repair run stopped early")
		return run, fmt.Errorf("repair stopped after %d tickets: %w", run.TicketsChecked, runErr)
	}
	log.WithFields(fields).Info("Ticket repair run completed")

	return run, nil
}

func (s *repairService) GetLatestRun(ctx context.Context) (*models.TicketRepairRun, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	run, err := uow.TicketRepairRunRepository().GetLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest repair run: %w", err)
	}
	return run, nil
}

type batchResult struct {
	listed      int
	checked     int
	invalid     int
	regenerated int
	lastID      int64
}

// repairBatch handles one page. The transaction runs on a context detached
// from cancellation so the work done before ctx ends can still commit; the
// zero batchResult is returned when nothing was committed.
func (s *repairService) repairBatch(ctx context.Context, afterID int64, opts RepairOptions, limiter *rate.Limiter) (batchResult, error) {
	var res batchResult

	txCtx := context.WithoutCancel(ctx)
	uow := s.uowFactory.Create()
	if err := uow.Begin(txCtx); err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tickets, err := uow.HousieTicketRepository().ListAfter(txCtx, afterID, opts.BatchSize)
	if err != nil {
		return res, fmt.Errorf("failed to list tickets after %d: %w", afterID, err)
	}
	res.listed = len(tickets)

	var stopErr error
	for _, stored := range tickets {
		report := ticket.Validate(stored.Numbers)
		if !report.Valid && !opts.DryRun {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					stopErr = err
					break
				}
			}

			fresh := s.generator.Generate()
			if err := uow.HousieTicketRepository().UpdateNumbers(txCtx, stored.ID, fresh.Numbers); err != nil {
				return batchResult{}, fmt.Errorf("failed to regenerate ticket %d: %w", stored.ID, err)
			}

			old, _ := ticket.Flatten(stored.Numbers)
			uow.EventBus().Publish(events.TicketRegeneratedEvent{
				TicketID:   stored.ID,
				DiscordID:  stored.DiscordID,
				OldNumbers: old,
				NewNumbers: fresh.Numbers,
				Issues:     report.Issues,
			})
			res.regenerated++

			log.WithFields(log.Fields{
				"ticketID": stored.ID,
				"issues":   report.Issues,
			}).Debug("Regenerated ticket")
		}

		uow.EventBus().Publish(events.TicketValidatedEvent{
			TicketID: stored.ID,
			Valid:    report.Valid,
			Issues:   report.Issues,
		})
		res.checked++
		if !report.Valid {
			res.invalid++
		}
		res.lastID = stored.ID
	}

	if err := uow.Commit(); err != nil {
		return batchResult{}, fmt.Errorf("failed to commit repair batch: %w", err)
	}
	return res, stopErr
}

func (s *repairService) recordRun(ctx context.Context, run *models.TicketRepairRun) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TicketRepairRunRepository().Create(ctx, run); err != nil {
		return fmt.Errorf("failed to create repair run: %w", err)
	}
	return uow.Commit()
}

func invalidRatio(run *models.TicketRepairRun) float64 {
	if run.TicketsChecked == 0 {
		return 0
	}
	return float64(run.TicketsInvalid) / float64(run.TicketsChecked)
}
