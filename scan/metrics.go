package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/binarizer"
)

// Metrics counts scan outcomes. A nil *Metrics records nothing.
type Metrics struct {
	images   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	results  *prometheus.CounterVec
}

// NewMetrics registers the scan collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		images: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barcodescan_images_total",
				Help: "Total number of images scanned",
			},
			[]string{"outcome"}, // decoded, not_found, error, timeout
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "barcodescan_decode_duration_seconds",
				Help:    "Time spent decoding one image with one binarizer",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"binarizer"},
		),
		results: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barcodescan_results_total",
				Help: "Total number of barcodes decoded",
			},
			[]string{"format"},
		),
	}
}

func (m *Metrics) observeImage(r FileResult) {
	if m == nil {
		return
	}
	m.images.WithLabelValues(string(r.Outcome)).Inc()
	if r.Outcome == OutcomeDecoded {
		m.results.WithLabelValues(r.Result.Format.String()).Inc()
	}
}

func (m *Metrics) observeDecode(kind binarizer.Kind, seconds float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(string(kind)).Observe(seconds)
}

// ImagesTotal returns the counter for outcome.
func (m *Metrics) ImagesTotal(outcome Outcome) prometheus.Counter {
	return m.images.WithLabelValues(string(outcome))
}

// ResultsTotal returns the counter for format.
func (m *Metrics) ResultsTotal(format zxcore.Format) prometheus.Counter {
	return m.results.WithLabelValues(format.String())
}
