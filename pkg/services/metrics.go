package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_feed_fetches_total",
		Help: "Feed fetch attempts by result",
	}, []string{"result"})

	feedEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gallery_feed_entries",
		Help: "Number of entries in the current feed index",
	})

	windowFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gallery_window_fallbacks_total",
		Help: "Windows served from the latest entries because the requested range could not be filled",
	})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gallery_feed_fetch_duration_seconds",
		Help:    "Duration of feed fetches",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms doubling up to ~25s
	})
)
