package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_cache_hits_total",
		Help: "Feed pages served from the cache",
	})

	feedCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_cache_misses_total",
		Help: "Feed pages built from the database",
	})

	rateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"category", "scope"},
	)
)
