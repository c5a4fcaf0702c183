package core

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsState struct {
	Registry *prometheus.Registry

	ImportsTotal       prometheus.Counter
	ObjectsTotal       prometheus.Counter
	FacesTotal         prometheus.Counter
	DecodeErrorsTotal  *prometheus.CounterVec
	ImportDurationMs   prometheus.Histogram
	LastImportVertices prometheus.Gauge
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil

// getMetrics builds the collectors on first use. Every access goes through the
// once so that workers recording a pass never race with initialization.
func getMetrics() *MetricsState {
	onceMetrics.Do(func() {
		ms := &MetricsState{
			Registry: prometheus.NewRegistry(),
			ImportsTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "citymesh_imports_total",
				Help: "Total number of import passes",
			}),
			ObjectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "citymesh_objects_total",
				Help: "Total number of city object meshes produced",
			}),
			FacesTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "citymesh_faces_total",
				Help: "Total number of faces emitted",
			}),
			DecodeErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "citymesh_decode_errors_total",
				Help: "Decode errors by kind",
			}, []string{"kind"}),
			ImportDurationMs: prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "citymesh_import_duration_ms",
				Help:    "Import pass duration in milliseconds",
				Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
			}),
			LastImportVertices: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "citymesh_last_import_vertices",
				Help: "Global vertex count of the last imported document",
			}),
		}
		ms.Registry.MustRegister(
			ms.ImportsTotal,
			ms.ObjectsTotal,
			ms.FacesTotal,
			ms.DecodeErrorsTotal,
			ms.ImportDurationMs,
			ms.LastImportVertices,
		)
		metricsState = ms
	})
	return metricsState
}

func MetricsInitialize() error {
	getMetrics()
	return nil
}

// MetricsRecordImport accounts for one finished import pass.
func MetricsRecordImport(objects, faces, vertices int, elapsed time.Duration, errs []error) {
	ms := getMetrics()
	ms.ImportsTotal.Inc()
	ms.ObjectsTotal.Add(float64(objects))
	ms.FacesTotal.Add(float64(faces))
	ms.LastImportVertices.Set(float64(vertices))
	ms.ImportDurationMs.Observe(float64(elapsed.Microseconds()) / 1000.0)
	for _, err := range errs {
		ms.DecodeErrorsTotal.WithLabelValues(ErrorKind(err)).Inc()
	}
}

// MetricsHandler exposes the registry in the Prometheus text format.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(getMetrics().Registry, promhttp.HandlerOpts{})
}

func MetricsRegistry() *prometheus.Registry {
	return getMetrics().Registry
}
