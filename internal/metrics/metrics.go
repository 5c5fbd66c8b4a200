package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the overlay editor service.
type Metrics struct {
	overlaySaves  *prometheus.CounterVec
	saveErrors    *prometheus.CounterVec
	saveLatency   prometheus.Histogram
	fieldCount    prometheus.Gauge
	fontUploads   prometheus.Counter
	imageUploads  prometheus.Counter
	uploadRejects *prometheus.CounterVec
}

// NewMetrics creates and registers all service metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		overlaySaves: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "overlay_saves_total",
				Help: "Total number of saves per resource",
			},
			[]string{"resource"},
		),
		saveErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "overlay_save_errors_total",
				Help: "Total number of failed saves per resource",
			},
			[]string{"resource"},
		),
		saveLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "overlay_save_latency_ms",
				Help:    "Latency of persistence gateway saves in milliseconds",
				Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
			},
		),
		fieldCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "overlay_field_count",
				Help: "Number of fields in the current overlay document",
			},
		),
		fontUploads: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "overlay_font_uploads_total",
				Help: "Total number of successfully uploaded fonts",
			},
		),
		imageUploads: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "overlay_image_uploads_total",
				Help: "Total number of successfully uploaded images",
			},
		),
		uploadRejects: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "overlay_upload_rejects_total",
				Help: "Total number of rejected asset uploads by reason",
			},
			[]string{"reason"},
		),
	}
}

// RecordSave counts a save attempt for a resource and its latency.
func (m *Metrics) RecordSave(resource string, latencyMs float64, err error) {
	m.overlaySaves.WithLabelValues(resource).Inc()
	m.saveLatency.Observe(latencyMs)
	if err != nil {
		m.saveErrors.WithLabelValues(resource).Inc()
	}
}

// SetFieldCount updates the field count gauge.
func (m *Metrics) SetFieldCount(n int) {
	m.fieldCount.Set(float64(n))
}

// RecordFontUpload counts a successful font upload.
func (m *Metrics) RecordFontUpload() {
	m.fontUploads.Inc()
}

// RecordImageUpload counts a successful image upload.
func (m *Metrics) RecordImageUpload() {
	m.imageUploads.Inc()
}

// RecordUploadReject counts a rejected upload.
func (m *Metrics) RecordUploadReject(reason string) {
	m.uploadRejects.WithLabelValues(reason).Inc()
}
