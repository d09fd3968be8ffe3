package succubus

import "github.com/prometheus/client_golang/prometheus"

var (
	effectTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "succubus_effect_ticks_total",
			Help: "Background effect loop ticks that ran to completion",
		},
		[]string{"succubus", "effect"},
	)
	lootBoxes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "succubus_loot_boxes_total",
			Help: "Loot boxes spawned by Morvina, by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(effectTicks)
	prometheus.MustRegister(lootBoxes)
}
