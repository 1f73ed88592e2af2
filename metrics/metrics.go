package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every bimgeo collector, kept apart from the default registry
// so a CLI run can dump exactly these to a textfile.
var Registry = prometheus.NewRegistry()

var (
	// Model metrics
	ModelsLoadedTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "bimgeo_models_loaded_total",
		Help: "Total number of model files loaded",
	})

	// Element metrics
	ElementsProcessedTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "bimgeo_elements_processed_total",
		Help: "Total number of elements handed to the flattener",
	})

	ElementsSkippedTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "bimgeo_elements_skipped_total",
		Help: "Total number of elements left out of the output, by reason",
	}, []string{"reason"})

	FeaturesBuiltTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "bimgeo_features_built_total",
		Help: "Total number of GeoJSON features written",
	})

	FlattenDuration = promauto.With(Registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "bimgeo_flatten_duration_seconds",
		Help:    "Time taken to flatten the elements of one model and entity type",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~260s
	})
)

// WriteTextfile writes the current values in the node exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
