package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersAcceptedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "orderbookx",
			Name:      "orders_accepted_total",
			Help:      "Total number of accepted limit orders.",
		},
	)

	OrdersRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderbookx",
			Name:      "orders_rejected_total",
			Help:      "Total number of rejected orders.",
		},
		[]string{"reason"}, // invalid_id / invalid_price / invalid_qty / duplicate_id
	)

	CancelsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderbookx",
			Name:      "cancels_total",
			Help:      "Total number of cancel attempts.",
		},
		[]string{"result"}, // ok / not_found
	)

	AmendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderbookx",
			Name:      "amends_total",
			Help:      "Total number of amend attempts.",
		},
		[]string{"result"},
	)

	TradesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "orderbookx",
			Name:      "trades_total",
			Help:      "Total number of executed trades.",
		},
	)

	TradedQtyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "orderbookx",
			Name:      "traded_qty_total",
			Help:      "Total traded quantity.",
		},
	)

	MailboxFullTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "orderbookx",
			Name:      "engine_mailbox_full_total",
			Help:      "Commands refused because the actor mailbox was full.",
		},
	)

	EventsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "orderbookx",
			Name:      "engine_events_dropped_total",
			Help:      "Trade events dropped by the bus (slow consumer).",
		},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		OrdersAcceptedTotal, OrdersRejectedTotal,
		CancelsTotal, AmendsTotal,
		TradesTotal, TradedQtyTotal,
		MailboxFullTotal, EventsDroppedTotal,
	)
}
