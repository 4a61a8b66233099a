package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation and corpus Prometheus metrics.
var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesisrec",
			Name:      "recommendations_total",
			Help:      "Total recommendation queries by outcome",
		},
		[]string{"mode", "outcome"}, // outcome: "ok" / empty_query / out_of_vocabulary / no_match / "error"
	)

	RecommendationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "thesisrec",
			Name:      "recommendation_duration_seconds",
			Help:      "Recommendation scoring and ranking duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		},
		[]string{"mode"},
	)

	CorpusSubjects = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "thesisrec",
			Name:      "corpus_subjects",
			Help:      "Number of subjects in the published vector space",
		},
	)

	VocabularyTerms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "thesisrec",
			Name:      "vocabulary_terms",
			Help:      "Number of terms in the published vocabulary",
		},
	)

	CorpusReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesisrec",
			Name:      "corpus_reloads_total",
			Help:      "Total corpus loads by status",
		},
		[]string{"status"},
	)

	IngestRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "thesisrec",
			Name:      "ingest_records_total",
			Help:      "Source records seen during ingestion by result",
		},
		[]string{"result"}, // "accepted" / "dropped" / "skipped" / "duplicate"
	)
)

var recMetricsRegistered bool

// RegisterRecommendationMetrics registers recommendation metrics. Must be called once from main.
func RegisterRecommendationMetrics() {
	if recMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(RecommendationDuration)
	prometheus.MustRegister(CorpusSubjects)
	prometheus.MustRegister(VocabularyTerms)
	prometheus.MustRegister(CorpusReloadsTotal)
	prometheus.MustRegister(IngestRecordsTotal)
	recMetricsRegistered = true
}
