package service

import "github.com/prometheus/client_golang/prometheus"

var (
	fapsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "economy_faps_total",
		Help: "Total faps recorded",
	})
	dailyClaims = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "economy_daily_claims_total",
		Help: "Total successful daily reward claims",
	})
	purchases = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "economy_purchases_total",
		Help: "Total store purchases by item",
	}, []string{"item"})
	itemUses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "economy_item_uses_total",
		Help: "Total item uses by item and outcome",
	}, []string{"item", "outcome"})
	gachaDraws = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gacha_draws_total",
		Help: "Total ritual draws by rarity",
	}, []string{"rarity"})
)

func init() {
	prometheus.MustRegister(fapsTotal, dailyClaims, purchases, itemUses, gachaDraws)
}
