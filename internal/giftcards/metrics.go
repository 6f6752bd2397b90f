package giftcards

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cardsIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gift_cards_issued_total",
		Help: "Total number of gift cards issued, by entry point",
	}, []string{"source"})

	duplicateIssuanceTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gift_cards_duplicate_issuance_total",
		Help: "Total number of issuance requests short-circuited by the idempotency guard",
	})

	cardsRedeemedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gift_cards_redeemed_total",
		Help: "Total number of gift cards redeemed",
	})

	emailDeliveryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gift_card_email_delivery_total",
		Help: "Total number of gift card recipient email attempts, by outcome",
	}, []string{"outcome"})
)
