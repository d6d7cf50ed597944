package repository

import (
	"context"
	"errors"
	"fmt"

	"housie/database"
	"housie/events"
	"housie/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                 *database.DB
	tx                 pgx.Tx
	ctx                context.Context
	transactionalBus   *events.TransactionalBus
	userRepo           service.UserRepository
	balanceHistoryRepo service.BalanceHistoryRepository
	ticketRepo         service.HousieTicketRepository
	repairRunRepo      service.TicketRepairRunRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.userRepo = newUserRepositoryWithTx(tx)
	u.balanceHistoryRepo = newBalanceHistoryRepositoryWithTx(tx)
	u.ticketRepo = newHousieTicketRepositoryWithTx(tx)
	u.repairRunRepo = newTicketRepairRunRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and then releases queued events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil
	u.transactionalBus.Flush()

	return nil
}

// Rollback rolls back the transaction. It is a no-op after Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	u.transactionalBus.Discard()

	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() service.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// BalanceHistoryRepository returns the balance history repository for this unit of work
func (u *unitOfWork) BalanceHistoryRepository() service.BalanceHistoryRepository {
	if u.balanceHistoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.balanceHistoryRepo
}

// HousieTicketRepository returns the ticket repository for this unit of work
func (u *unitOfWork) HousieTicketRepository() service.HousieTicketRepository {
	if u.ticketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ticketRepo
}

// TicketRepairRunRepository returns the repair run repository for this unit of work
func (u *unitOfWork) TicketRepairRunRepository() service.TicketRepairRunRepository {
	if u.repairRunRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.repairRunRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}
