package ledger

import "time"

// MetricsCollector defines the interface for collecting ledger metrics.
type MetricsCollector interface {
	RecordTransaction(transactionType string)
	RecordOperationDuration(operation string, duration time.Duration)
	RecordError(operation, errType string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string)                      {}
func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordError(string, string)                    {}
