package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"housie/events"
	"housie/models"
	"housie/repository/testutil"
	"housie/service"
	"housie/ticket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(bus *events.Bus, eventType events.EventType) <-chan events.Event {
	ch := make(chan events.Event, 16)
	bus.Subscribe(eventType, func(ctx context.Context, event events.Event) {
		ch <- event
	})
	return ch
}

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	changes := collect(bus, events.EventTypeBalanceChange)
	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	_, err := uow.UserRepository().Create(ctx, 42, "committer", 100000)
	require.NoError(t, err)
	require.NoError(t, service.RecordBalanceChange(ctx, uow,
		testutil.CreateTestBalanceHistory(42, models.TransactionTypeInitial)))

	select {
	case <-changes:
		t.Fatal("event delivered before commit")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, uow.Commit())

	select {
	case ev := <-changes:
		assert.Equal(t, int64(42), ev.(events.BalanceChangeEvent).UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered after commit")
	}

	user, err := NewUserRepository(testDB.DB).GetByDiscordID(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	changes := collect(bus, events.EventTypeBalanceChange)
	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.UserRepository().Create(ctx, 43, "rolledback", 100000)
	require.NoError(t, err)
	uow.EventBus().Publish(events.BalanceChangeEvent{UserID: 43})

	require.NoError(t, uow.Rollback())
	// a second rollback is a no-op
	require.NoError(t, uow.Rollback())
	assert.Error(t, uow.Commit())

	select {
	case <-changes:
		t.Fatal("rolled back event was delivered")
	case <-time.After(100 * time.Millisecond):
	}

	user, err := NewUserRepository(testDB.DB).GetByDiscordID(ctx, 43)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUnitOfWork_AccessorsPanicBeforeBegin(t *testing.T) {
	uow := NewUnitOfWorkFactory(nil, events.NewBus()).Create()
	assert.Panics(t, func() { uow.HousieTicketRepository() })
	assert.Panics(t, func() { uow.UserRepository() })
}

func TestTicketService_PurchaseAndRepairIntegration(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	purchased := collect(bus, events.EventTypeTicketPurchased)
	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	generator := ticket.NewGenerator(ticket.NewSeededRandom(21))

	tickets := service.NewTicketService(factory, generator, 1000, 2500)

	first, err := tickets.PurchaseTicket(ctx, 777, 1, "buyer")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), first.NewBalance)
	assert.NoError(t, first.Grid.Check())

	second, err := tickets.PurchaseTicket(ctx, 777, 1, "buyer")
	require.NoError(t, err)
	assert.Equal(t, int64(500), second.NewBalance)

	_, err = tickets.PurchaseTicket(ctx, 777, 1, "buyer")
	assert.True(t, errors.Is(err, service.ErrInsufficientBalance))

	var delivered []int64
	for len(delivered) < 2 {
		select {
		case ev := <-purchased:
			delivered = append(delivered, ev.(events.TicketPurchasedEvent).TicketID)
		case <-time.After(2 * time.Second):
			t.Fatal("purchase event not delivered")
		}
	}
	assert.ElementsMatch(t, []int64{first.Ticket.ID, second.Ticket.ID}, delivered)

	history, err := NewBalanceHistoryRepository(testDB.DB).GetByUser(ctx, 777, 10)
	require.NoError(t, err)
	// initial grant plus two purchases
	assert.Len(t, history, 3)

	// plant a legacy ticket the repair run has to fix
	legacy := testutil.CreateTestTicket(777, `[1,2,3,4,5,6,7,8,9,10,11,12,13,14,15]`)
	require.NoError(t, NewHousieTicketRepository(testDB.DB).Create(ctx, legacy))

	views, err := tickets.GetUserTickets(ctx, 777, 5)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.True(t, views[0].Substituted)
	assert.False(t, views[1].Substituted)

	repair := service.NewRepairService(factory, generator)
	run, err := repair.RepairTickets(ctx, service.RepairOptions{BatchSize: 2, RatePerSecond: 100})
	require.NoError(t, err)
	assert.Equal(t, 3, run.TicketsChecked)
	assert.Equal(t, 1, run.TicketsInvalid)
	assert.Equal(t, 1, run.TicketsRegenerated)

	fixed, err := tickets.CheckTicket(ctx, legacy.ID)
	require.NoError(t, err)
	assert.True(t, fixed.Report.Valid)
	assert.True(t, fixed.Ticket.WasRegenerated())

	latest, err := repair.GetLatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, run.ID, latest.ID)
}
