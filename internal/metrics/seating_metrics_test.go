package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatingCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewSeatingCollector()
	require.NoError(t, c.Register(reg))

	c.RecordVerdict("order", "accepted")
	c.RecordVerdict("order", "accepted")
	c.RecordVerdict("check", "rejected_fragmentation")
	c.RecordAllocation("strict", 3)
	c.RecordOccupancy(12, 100)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.verdictsTotal.WithLabelValues("order", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.verdictsTotal.WithLabelValues("check", "rejected_fragmentation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.allocationsTotal.WithLabelValues("strict")))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.occupiedSeats))
	assert.Equal(t, 100.0, testutil.ToFloat64(c.totalSeats))
}

func TestSeatingCollector_RegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewSeatingCollector()
	require.NoError(t, c.Register(reg))
	assert.Error(t, c.Register(reg))
}

func TestSeatingCollector_NilRegistry(t *testing.T) {
	assert.NoError(t, NewSeatingCollector().Register(nil))
}
