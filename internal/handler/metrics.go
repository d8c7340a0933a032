package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storiesPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_publishes_total",
		Help: "Total number of successful story publishes.",
	})

	storiesRepublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_republishes_total",
		Help: "Total number of successful story republishes.",
	})

	likesToggledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_likes_toggled_total",
			Help: "Total number of like toggles by resulting state.",
		},
		[]string{"result"},
	)
)
