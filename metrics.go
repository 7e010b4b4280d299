package indextable

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see the
// promcollector package for a Prometheus implementation.
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// err is nil if successful, a *KeyCollisionError otherwise.
	RecordInsert(duration time.Duration, err error)

	// RecordBulkInsert is called after each bulk insert.
	// count is the number of records inserted, failed is 1 if the bulk
	// insert stopped on a collision and 0 otherwise.
	RecordBulkInsert(count, failed int, duration time.Duration)

	// RecordFind is called after each Find or FindMany.
	// many is true for FindMany, categories is the number of queried
	// categories, results the number of records returned.
	RecordFind(many bool, categories, results int, duration time.Duration)

	// RecordRemove is called after each remove operation.
	RecordRemove(found bool, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)        {}
func (NoopMetricsCollector) RecordBulkInsert(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordFind(bool, int, int, time.Duration) {}
func (NoopMetricsCollector) RecordRemove(bool, time.Duration)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount          atomic.Int64
	InsertCollisions     atomic.Int64
	InsertTotalNanos     atomic.Int64
	BulkInsertCount      atomic.Int64
	BulkInsertItems      atomic.Int64
	BulkInsertFailed     atomic.Int64
	BulkInsertTotalNanos atomic.Int64
	FindCount            atomic.Int64
	FindManyCount        atomic.Int64
	FindResults          atomic.Int64
	FindTotalNanos       atomic.Int64
	RemoveCount          atomic.Int64
	RemoveMisses         atomic.Int64
	RemoveTotalNanos     atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertCollisions.Add(1)
	}
}

// RecordBulkInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBulkInsert(count, failed int, duration time.Duration) {
	b.BulkInsertCount.Add(1)
	b.BulkInsertItems.Add(int64(count))
	b.BulkInsertFailed.Add(int64(failed))
	b.BulkInsertTotalNanos.Add(duration.Nanoseconds())
}

// RecordFind implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFind(many bool, categories, results int, duration time.Duration) {
	b.FindCount.Add(1)
	if many {
		b.FindManyCount.Add(1)
	}
	b.FindResults.Add(int64(results))
	b.FindTotalNanos.Add(duration.Nanoseconds())
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(found bool, duration time.Duration) {
	b.RemoveCount.Add(1)
	b.RemoveTotalNanos.Add(duration.Nanoseconds())
	if !found {
		b.RemoveMisses.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:        b.InsertCount.Load(),
		InsertCollisions:   b.InsertCollisions.Load(),
		InsertAvgNanos:     avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		BulkInsertCount:    b.BulkInsertCount.Load(),
		BulkInsertItems:    b.BulkInsertItems.Load(),
		BulkInsertFailed:   b.BulkInsertFailed.Load(),
		BulkInsertAvgNanos: avg(b.BulkInsertTotalNanos.Load(), b.BulkInsertCount.Load()),
		FindCount:          b.FindCount.Load(),
		FindManyCount:      b.FindManyCount.Load(),
		FindResults:        b.FindResults.Load(),
		FindAvgNanos:       avg(b.FindTotalNanos.Load(), b.FindCount.Load()),
		RemoveCount:        b.RemoveCount.Load(),
		RemoveMisses:       b.RemoveMisses.Load(),
		RemoveAvgNanos:     avg(b.RemoveTotalNanos.Load(), b.RemoveCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount        int64
	InsertCollisions   int64
	InsertAvgNanos     int64
	BulkInsertCount    int64
	BulkInsertItems    int64
	BulkInsertFailed   int64
	BulkInsertAvgNanos int64
	FindCount          int64
	FindManyCount      int64
	FindResults        int64
	FindAvgNanos       int64
	RemoveCount        int64
	RemoveMisses       int64
	RemoveAvgNanos     int64
}
