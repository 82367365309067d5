// Package metrics records per-run grab statistics for the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Programme outcomes.
const (
	OutcomeKept       = "kept"
	OutcomeUnselected = "unselected_channel"
	OutcomeOutside    = "outside_window"
	OutcomeInvalid    = "invalid"
)

// Recorder collects metrics of one grab. A nil *Recorder records nothing.
type Recorder struct {
	reg *prometheus.Registry

	feedsFetched     prometheus.Counter
	feedFetchSeconds prometheus.Histogram
	programmes       *prometheus.CounterVec
	channelsWritten  prometheus.Gauge
	programmesOut    prometheus.Gauge
	lastSuccess      prometheus.Gauge
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		feedsFetched: f.NewCounter(prometheus.CounterOpts{
			Name: "sfr_epg_feeds_fetched_total",
			Help: "Number of daily SFR feeds downloaded",
		}),
		feedFetchSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sfr_epg_feed_fetch_seconds",
			Help:    "Time spent downloading and parsing one daily SFR feed",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),
		programmes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sfr_epg_programmes_total",
			Help: "Feed programmes seen by outcome",
		}, []string{"outcome"}), // outcome=kept|unselected_channel|outside_window|invalid
		channelsWritten: f.NewGauge(prometheus.GaugeOpts{
			Name: "sfr_epg_xmltv_channels_written",
			Help: "Number of channels written to XMLTV in the last grab",
		}),
		programmesOut: f.NewGauge(prometheus.GaugeOpts{
			Name: "sfr_epg_xmltv_programmes_written",
			Help: "Number of programmes written to XMLTV in the last grab",
		}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "sfr_epg_last_success_timestamp_seconds",
			Help: "Unix time of the last successful grab",
		}),
	}
}

func (r *Recorder) FeedFetched(d time.Duration) {
	if r == nil {
		return
	}
	r.feedsFetched.Inc()
	r.feedFetchSeconds.Observe(d.Seconds())
}

func (r *Recorder) Programme(outcome string) {
	if r == nil {
		return
	}
	r.programmes.WithLabelValues(outcome).Inc()
}

// Generated records the size of a completed XMLTV document.
func (r *Recorder) Generated(channels, programmes int) {
	if r == nil {
		return
	}
	r.channelsWritten.Set(float64(channels))
	r.programmesOut.Set(float64(programmes))
	r.lastSuccess.SetToCurrentTime()
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
