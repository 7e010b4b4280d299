package promcollector

import (
	"slices"
	"testing"

	"github.com/hupe1980/indextable"
	"github.com/hupe1980/indextable/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_TableOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	mc, err := New(reg, WithConstLabels(prometheus.Labels{"table": "books"}))
	require.NoError(t, err)

	tbl := indextable.New[testutil.BookID, testutil.BookCategory, testutil.Book](indextable.WithMetricsCollector(mc))

	_, err = tbl.InsertAll(slices.Values(testutil.Books()))
	require.NoError(t, err)
	assert.Error(t, tbl.Insert(testutil.Books()[0]))
	tbl.Find(testutil.Science(2))
	tbl.FindMany(testutil.Science(2), testutil.Author(13))
	tbl.Remove(1)
	tbl.Remove(1)

	assert.Equal(t, float64(7), promtest.ToFloat64(mc.bulkRecords))
	assert.Equal(t, float64(1), promtest.ToFloat64(mc.ops.WithLabelValues("bulk_insert", "success")))
	assert.Equal(t, float64(1), promtest.ToFloat64(mc.ops.WithLabelValues("insert", "collision")))
	assert.Equal(t, float64(0), promtest.ToFloat64(mc.ops.WithLabelValues("insert", "success")))
	assert.Equal(t, float64(1), promtest.ToFloat64(mc.ops.WithLabelValues("find", "success")))
	assert.Equal(t, float64(1), promtest.ToFloat64(mc.ops.WithLabelValues("find_many", "success")))
	assert.Equal(t, float64(1), promtest.ToFloat64(mc.ops.WithLabelValues("remove", "success")))
	assert.Equal(t, float64(1), promtest.ToFloat64(mc.ops.WithLabelValues("remove", "miss")))

	n, err := promtest.GatherAndCount(reg, "indextable_operation_latency_seconds")
	require.NoError(t, err)
	assert.Equal(t, 5, n) // insert, bulk_insert, find, find_many, remove
}

func TestCollector_FindManySingleCategory(t *testing.T) {
	mc, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	tbl := indextable.New[testutil.BookID, testutil.BookCategory, testutil.Book](indextable.WithMetricsCollector(mc))
	_, err = tbl.InsertAll(slices.Values(testutil.Books()))
	require.NoError(t, err)

	tbl.FindMany(testutil.Science(2))
	tbl.FindMany()

	assert.Equal(t, float64(0), promtest.ToFloat64(mc.ops.WithLabelValues("find", "success")))
	assert.Equal(t, float64(2), promtest.ToFloat64(mc.ops.WithLabelValues("find_many", "success")))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)

	_, err = New(reg, WithNamespace("other"), WithBuckets(prometheus.DefBuckets))
	assert.NoError(t, err)
}
