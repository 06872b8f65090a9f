package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	EventPublishFailure        = "event_publish_failure"
	FeedCandidates             = "feed_candidates"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		EventPublishFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: EventPublishFailure,
			Help: "Count of events which could not be published",
		}, []string{"event"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
		FeedCandidates: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    FeedCandidates,
			Help:    "Number of posts ranked per feed request",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, nil),
	}
)
