// Package metrics exposes ticket activity as Prometheus metrics. Counters are
// fed from the event bus, so they only move after the owning transaction
// has committed.
package metrics

import (
	"context"

	"housie/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

// Validation result label values
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

var (
	ticketsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "housie_tickets_generated_total",
			Help: "Total number of tickets generated for purchases and repairs",
		},
	)

	ticketsValidated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housie_tickets_validated_total",
			Help: "Total number of stored tickets validated, by result",
		},
		[]string{"result"},
	)

	ticketsRegenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "housie_tickets_regenerated_total",
			Help: "Total number of stored tickets replaced because they could not be laid out",
		},
	)

	purchaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "housie_ticket_purchase_duration_seconds",
			Help:    "Time spent inside the ticket purchase transaction in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	walletChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "housie_wallet_changes_total",
			Help: "Total number of wallet balance changes, by transaction type",
		},
		[]string{"type"},
	)
)

// Register subscribes the metric handlers to bus
func Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeTicketPurchased, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.TicketPurchasedEvent)
		if !ok {
			return
		}
		ticketsGenerated.Inc()
		purchaseDuration.Observe(e.Duration.Seconds())
	})

	bus.Subscribe(events.EventTypeTicketValidated, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.TicketValidatedEvent)
		if !ok {
			return
		}
		if e.Valid {
			ticketsValidated.WithLabelValues(ResultValid).Inc()
		} else {
			ticketsValidated.WithLabelValues(ResultInvalid).Inc()
		}
	})

	bus.Subscribe(events.EventTypeTicketRegenerated, func(ctx context.Context, event events.Event) {
		if _, ok := event.(events.TicketRegeneratedEvent); !ok {
			return
		}
		ticketsGenerated.Inc()
		ticketsRegenerated.Inc()
	})

	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.BalanceChangeEvent)
		if !ok {
			return
		}
		walletChanges.WithLabelValues(string(e.TransactionType)).Inc()
	})

	log.Debug("Registered ticket metrics handlers")
}
