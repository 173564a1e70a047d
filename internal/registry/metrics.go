package registry

import "github.com/prometheus/client_golang/prometheus"

var (
	registryEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "extranetd",
			Subsystem: "registry",
			Name:      "entries",
			Help:      "Number of add-on files currently indexed",
		},
		[]string{"kind"},
	)

	refreshDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "extranetd",
			Subsystem: "registry",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of registry directory scans in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	metadataReads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "extranetd",
			Subsystem: "registry",
			Name:      "metadata_reads_total",
			Help:      "Embedded metadata lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(registryEntries, refreshDuration, metadataReads)
}
