package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"housie/events"
	"housie/models"
	"housie/ticket"
)

// MaxTicketsPerListing caps how many tickets GetUserTickets returns
const MaxTicketsPerListing = 10

type ticketService struct {
	uowFactory      UnitOfWorkFactory
	generator       TicketGenerator
	ticketCost      int64
	startingBalance int64
}

// NewTicketService creates a new ticket service. generator is usually
// ticket.NewGenerator(ticket.NewCryptoRandom()).
func NewTicketService(uowFactory UnitOfWorkFactory, generator TicketGenerator, ticketCost, startingBalance int64) TicketService {
	return &ticketService{
		uowFactory:      uowFactory,
		generator:       generator,
		ticketCost:      ticketCost,
		startingBalance: startingBalance,
	}
}

func (s *ticketService) PurchaseTicket(ctx context.Context, discordID, guildID int64, username string) (*TicketPurchaseResult, error) {
	start := time.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, _, err := getOrCreateUser(ctx, uow, discordID, username, s.startingBalance)
	if err != nil {
		return nil, err
	}
	if !user.CanAfford(s.ticketCost) {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, user.Balance, s.ticketCost)
	}

	generated := s.generator.Generate()

	newBalance := user.Balance
	var historyID *int64
	if s.ticketCost > 0 {
		newBalance, err = uow.UserRepository().DeductBalance(ctx, discordID, s.ticketCost)
		if err != nil {
			if errors.Is(err, ErrInsufficientBalance) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to deduct ticket cost: %w", err)
		}

		history := &models.BalanceHistory{
			DiscordID:       discordID,
			BalanceBefore:   newBalance + s.ticketCost,
			BalanceAfter:    newBalance,
			ChangeAmount:    -s.ticketCost,
			TransactionType: models.TransactionTypeHousieTicket,
			TransactionMetadata: map[string]any{
				"guild_id": guildID,
				"numbers":  generated.Numbers,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record balance change: %w", err)
		}
		historyID = &history.ID
	}

	encoded, err := json.Marshal(generated.Numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ticket numbers: %w", err)
	}

	stored := &models.HousieTicket{
		DiscordID:        discordID,
		GuildID:          guildID,
		Numbers:          encoded,
		PurchasePrice:    s.ticketCost,
		BalanceHistoryID: historyID,
	}
	if err := uow.HousieTicketRepository().Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to create ticket record: %w", err)
	}

	uow.EventBus().Publish(events.TicketPurchasedEvent{
		TicketID:  stored.ID,
		DiscordID: discordID,
		GuildID:   guildID,
		Numbers:   generated.Numbers,
		Price:     s.ticketCost,
		Duration:  time.Since(start),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &TicketPurchaseResult{
		Ticket:     stored,
		Grid:       generated.Grid,
		Numbers:    generated.Numbers,
		Cost:       s.ticketCost,
		NewBalance: newBalance,
	}, nil
}

func (s *ticketService) GetUserTickets(ctx context.Context, discordID int64, limit int) ([]*TicketView, error) {
	if limit <= 0 || limit > MaxTicketsPerListing {
		limit = MaxTicketsPerListing
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stored, err := uow.HousieTicketRepository().GetByUser(ctx, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}

	views := make([]*TicketView, 0, len(stored))
	for _, t := range stored {
		views = append(views, s.view(t))
	}
	return views, nil
}

func (s *ticketService) CheckTicket(ctx context.Context, ticketID int64) (*TicketView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stored, err := uow.HousieTicketRepository().GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: %d", ErrTicketNotFound, ticketID)
	}

	view := s.view(stored)

	uow.EventBus().Publish(events.TicketValidatedEvent{
		TicketID: stored.ID,
		Valid:    view.Report.Valid,
		Issues:   view.Report.Issues,
	})

	// Nothing was written; committing only releases the validated event
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return view, nil
}

// view validates the stored numbers and lays them out for display. Stored
// numbers that cannot be laid out are shown as a freshly generated stand-in.
func (s *ticketService) view(t *models.HousieTicket) *TicketView {
	report := ticket.Validate(t.Numbers)

	var numbers []int
	if report.Valid {
		numbers, _ = ticket.Flatten(t.Numbers)
	}
	display, substituted := s.generator.Reconstruct(numbers)

	return &TicketView{
		Ticket:      t,
		Grid:        display.Grid,
		Numbers:     display.Numbers,
		Substituted: substituted,
		Report:      report,
	}
}
