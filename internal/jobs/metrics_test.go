package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOutcomeAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	for i := 0; i < 9; i++ {
		require.NoError(t, metrics.Track("catalog:warmup").End(nil))
	}
	boom := errors.New("timeout")
	assert.ErrorIs(t, metrics.Track("catalog:warmup").End(boom), boom)
	metrics.AddWarmedItems(12)
	metrics.AddWarmedItems(0)

	families, err := reg.Gather()
	require.NoError(t, err)

	success := metricValue(t, families, "catalogo_jobs_total", map[string]string{"job": "catalog:warmup", "status": "success"})
	failure := metricValue(t, families, "catalogo_jobs_total", map[string]string{"job": "catalog:warmup", "status": "failure"})
	assert.Equal(t, 9.0, success)
	assert.Equal(t, 1.0, failure)
	assert.Positive(t, gaugeValue(t, families, "catalogo_job_last_success_timestamp_seconds", map[string]string{"job": "catalog:warmup"}))
	assert.Equal(t, 12.0, metricValue(t, families, "catalogo_warmup_items_total", nil))

	count := histogramCount(t, families, "catalogo_job_duration_seconds", map[string]string{"job": "catalog:warmup"})
	assert.Equal(t, uint64(10), count)
}

func TestNilMetricsTrackerPassesErrorThrough(t *testing.T) {
	var metrics *Metrics
	boom := errors.New("boom")
	assert.ErrorIs(t, metrics.Track("catalog:item_created").End(boom), boom)
	metrics.AddWarmedItems(3)
}

func metricValue(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func gaugeValue(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				return metric.GetGauge().GetValue()
			}
		}
	}
	t.Fatalf("gauge %s with labels %v not found", name, labels)
	return 0
}

func histogramCount(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) uint64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				return metric.GetHistogram().GetSampleCount()
			}
		}
	}
	t.Fatalf("histogram %s with labels %v not found", name, labels)
	return 0
}

func hasLabels(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.GetLabel()) != len(labels) {
		return false
	}
	for _, lp := range metric.GetLabel() {
		if val, ok := labels[lp.GetName()]; !ok || val != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestFailedRunLeavesLastSuccessUnset(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	_ = metrics.Track("catalog:item_created").End(errors.New("redis down"))

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		assert.NotEqual(t, "catalogo_job_last_success_timestamp_seconds", fam.GetName())
	}
}
