package metrics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/oacanon/canon"
	"github.com/katalvlaran/oacanon/design"
	"github.com/katalvlaran/oacanon/metrics"
)

// gather returns the metric families of reg indexed by name.
func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		out[mf.GetName()] = mf
	}

	return out
}

func counterWithLabel(mf *dto.MetricFamily, name, value string) float64 {
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == name && lp.GetValue() == value {
				return m.GetCounter().GetValue()
			}
		}
	}

	return 0
}

func TestCollector_RecordsSearches(t *testing.T) {
	reg := prometheus.NewRegistry()
	col, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	a, err := design.Example("oa8-2^4")
	require.NoError(t, err)
	res, err := canon.Canonicalize(context.Background(), a, canon.WithObserver(col))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = canon.Canonicalize(ctx, a, canon.WithObserver(col))
	require.Error(t, err)

	fams := gather(t, reg)
	require.Contains(t, fams, "oacanon_canon_searches_total")
	searches := fams["oacanon_canon_searches_total"]
	assert.Equal(t, 1.0, counterWithLabel(searches, "status", metrics.StatusOK))
	assert.Equal(t, 1.0, counterWithLabel(searches, "status", metrics.StatusBudget))

	leaves := fams["oacanon_canon_leaves_total"].GetMetric()[0].GetCounter().GetValue()
	assert.Equal(t, float64(res.Stats.Leaves), leaves)
	assert.Equal(t, 0.0, fams["oacanon_canon_searches_in_flight"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, uint64(2), fams["oacanon_canon_search_duration_seconds"].GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestNewCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewCollector(reg)
	require.NoError(t, err)
	_, err = metrics.NewCollector(reg)
	assert.Error(t, err)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, metrics.StatusOK, metrics.Status(nil))
	assert.Equal(t, metrics.StatusBudget, metrics.Status(canon.ErrSearchBudgetExceeded))
	assert.Equal(t, metrics.StatusRejected, metrics.Status(errors.New("boom")))
}

func TestCollector_NilSafe(t *testing.T) {
	var col *metrics.Collector
	assert.NotPanics(t, func() {
		col.OnSearchStart(context.Background(), 1, 1)
		col.OnSearchComplete(context.Background(), canon.Stats{}, nil)
	})
}
