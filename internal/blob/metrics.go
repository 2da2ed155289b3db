package blob

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opPut    = "put"
	opDelete = "delete"

	resultSuccess = "success"
	resultError   = "error"
	resultSkipped = "skipped"
)

var blobOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tutorhub",
	Subsystem: "blob",
	Name:      "operations_total",
	Help:      "Blob store operations by provider, operation and result.",
}, []string{"provider", "operation", "result"})
