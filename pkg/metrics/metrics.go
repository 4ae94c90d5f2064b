package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "snapstore"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// UploadsCompletedCounter counts the number of snapshot uploads that succeeded
	UploadsCompletedCounter = newCounterVec(
		"uploads_completed_count",
		"Number of snapshot uploads that were successfully completed",
	)
	// UploadsFailedCounter counts the number of snapshot uploads that failed after retries
	UploadsFailedCounter = newCounterVec(
		"uploads_failed_count",
		"Number of snapshot uploads that failed after exhausting retries",
	)
	// GCDeletedCounter counts the number of snapshot objects removed by garbage collection
	GCDeletedCounter = newCounterVec(
		"gc_deleted_count",
		"Number of snapshot objects removed by garbage collection",
	)
	// GCFailedCounter counts the number of garbage collection deletions that failed
	GCFailedCounter = newCounterVec(
		"gc_failed_count",
		"Number of garbage collection deletions that failed after exhausting retries",
	)
	// GCDuration observes the duration of each garbage collection pass
	GCDuration = newSummaryVec(
		"gc_duration_seconds",
		"Duration in seconds for each garbage collection pass",
	)
	// FolderObjectsDeletedCounter counts the number of objects removed by recursive folder deletion
	FolderObjectsDeletedCounter = newCounterVec(
		"folder_objects_deleted_count",
		"Number of objects removed by recursive folder deletion",
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
