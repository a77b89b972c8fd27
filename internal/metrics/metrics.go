package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"recshare/internal/store"
)

var (
	viewerCountDesc = prometheus.NewDesc(
		"recshare_viewers",
		"Number of registered viewers",
		nil, nil,
	)
	meetingCountDesc = prometheus.NewDesc(
		"recshare_meetings",
		"Number of meetings",
		nil, nil,
	)
	recordingCountDesc = prometheus.NewDesc(
		"recshare_recordings",
		"Number of recordings",
		nil, nil,
	)
	shareCountDesc = prometheus.NewDesc(
		"recshare_sharing_entries",
		"Number of (recording, viewer) sharing entries",
		nil, nil,
	)

	accessDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recshare_access_decisions_total",
			Help: "Access check decisions by outcome",
		},
		[]string{"decision"},
	)
	sharesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recshare_shares_total",
			Help: "Successful share operations",
		},
	)
)

// EntityCollector is a custom Prometheus collector that reads entity counts
// from the store on each scrape.
type EntityCollector struct {
	store store.Store
}

// Describe sends the metric descriptors to the channel.
func (c *EntityCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- viewerCountDesc
	ch <- meetingCountDesc
	ch <- recordingCountDesc
	ch <- shareCountDesc
}

// Collect queries the store for entity counts and emits them as gauges.
func (c *EntityCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.store.Counts(context.Background())
	if err != nil {
		slog.Error("failed to collect entity count metrics", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(viewerCountDesc, prometheus.GaugeValue, float64(counts.Viewers))
	ch <- prometheus.MustNewConstMetric(meetingCountDesc, prometheus.GaugeValue, float64(counts.Meetings))
	ch <- prometheus.MustNewConstMetric(recordingCountDesc, prometheus.GaugeValue, float64(counts.Recordings))
	ch <- prometheus.MustNewConstMetric(shareCountDesc, prometheus.GaugeValue, float64(counts.Shares))
}

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init(s store.Store) {
	initOnce.Do(func() {
		prometheus.MustRegister(&EntityCollector{store: s})
		prometheus.MustRegister(accessDecisions, sharesTotal)
	})
}

// RecordAccessDecision counts one access check outcome.
func RecordAccessDecision(decision string) {
	accessDecisions.WithLabelValues(decision).Inc()
}

// RecordShare counts one successful share operation.
func RecordShare() {
	sharesTotal.Inc()
}
