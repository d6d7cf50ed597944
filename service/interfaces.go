package service

import (
	"context"
	"errors"
	"time"

	"housie/events"
	"housie/models"
	"housie/ticket"
)

var (
	// ErrInsufficientBalance is returned when a wallet cannot cover a purchase
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrTicketNotFound is returned when a ticket ID does not exist
	ErrTicketNotFound = errors.New("ticket not found")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByDiscordID retrieves a user by their Discord ID, nil if absent
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)

	// Create creates a new user with the initial balance
	Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*models.User, error)

	// DeductBalance atomically subtracts amount and returns the new balance.
	// It returns ErrInsufficientBalance when the balance would go negative.
	DeductBalance(ctx context.Context, discordID int64, amount int64) (int64, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry and sets its ID
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns the most recent entries for a user
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error)
}

// HousieTicketRepository defines the interface for stored tickets
type HousieTicketRepository interface {
	// Create stores a ticket and sets its ID and purchase time
	Create(ctx context.Context, t *models.HousieTicket) error

	// GetByID retrieves a ticket, nil if absent
	GetByID(ctx context.Context, id int64) (*models.HousieTicket, error)

	// GetByUser returns a user's tickets, newest first
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.HousieTicket, error)

	// ListAfter pages through all tickets in ID order
	ListAfter(ctx context.Context, afterID int64, limit int) ([]*models.HousieTicket, error)

	// UpdateNumbers overwrites a ticket's numbers and stamps regenerated_at
	UpdateNumbers(ctx context.Context, id int64, numbers []int) error

	// CountAll returns the number of stored tickets
	CountAll(ctx context.Context) (int64, error)
}

// TicketRepairRunRepository defines the interface for repair run records
type TicketRepairRunRepository interface {
	Create(ctx context.Context, run *models.TicketRepairRun) error
	GetLatest(ctx context.Context) (*models.TicketRepairRun, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() UserRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	HousieTicketRepository() HousieTicketRepository
	TicketRepairRunRepository() TicketRepairRunRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// TicketGenerator produces tickets; *ticket.Generator implements it
type TicketGenerator interface {
	Generate() ticket.Ticket
	Reconstruct(numbers []int) (ticket.Ticket, bool)
}

// UserService defines the interface for wallet operations
type UserService interface {
	// GetOrCreateUser retrieves an existing user or creates one with the starting balance
	GetOrCreateUser(ctx context.Context, discordID int64, username string) (*models.User, error)
}

// TicketService defines the interface for ticket purchase and display
type TicketService interface {
	// PurchaseTicket debits the ticket cost and stores a freshly generated ticket
	PurchaseTicket(ctx context.Context, discordID, guildID int64, username string) (*TicketPurchaseResult, error)

	// GetUserTickets returns display views of a user's most recent tickets
	GetUserTickets(ctx context.Context, discordID int64, limit int) ([]*TicketView, error)

	// CheckTicket validates one stored ticket
	CheckTicket(ctx context.Context, ticketID int64) (*TicketView, error)
}

// RepairService defines the interface for the validate-and-regenerate workflow
type RepairService interface {
	// RepairTickets validates every stored ticket and regenerates invalid ones
	RepairTickets(ctx context.Context, opts RepairOptions) (*models.TicketRepairRun, error)

	// GetLatestRun returns the most recent repair run, nil if none
	GetLatestRun(ctx context.Context) (*models.TicketRepairRun, error)
}

// TicketPurchaseResult is the outcome of a purchase
type TicketPurchaseResult struct {
	Ticket     *models.HousieTicket
	Grid       ticket.Grid
	Numbers    []int
	Cost       int64
	NewBalance int64
}

// TicketView is a stored ticket prepared for display. When Substituted is
// true the stored numbers could not be laid out and Grid shows a freshly
// generated replacement instead; nothing was written back.
type TicketView struct {
	Ticket      *models.HousieTicket
	Grid        ticket.Grid
	Numbers     []int
	Substituted bool
	Report      ticket.Report
}

// RepairOptions controls a repair run
type RepairOptions struct {
	BatchSize     int
	RatePerSecond float64 // ticket writes per second, 0 means unpaced
	DryRun        bool
}

// RepairProgress is reported after every batch
type RepairProgress struct {
	Checked     int
	Invalid     int
	Regenerated int
	Elapsed     time.Duration
}
