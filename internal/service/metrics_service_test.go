package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshotStateLookups(t *testing.T) {
	m := NewMetricsService()

	m.RecordStateLookup(true, time.Millisecond)
	m.RecordStateLookup(true, 2*time.Millisecond)
	m.RecordStateLookup(false, time.Millisecond)

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(2), snapshot.StateHits)
	assert.Equal(t, uint64(1), snapshot.StateMisses)
	assert.InDelta(t, 2.0/3.0, snapshot.StateHitRatio, 0.0001)
}

func TestMetricsSnapshotHTTPRequests(t *testing.T) {
	m := NewMetricsService()

	m.ObserveHTTPRequest(http.MethodGet, "/students", http.StatusOK, 10*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodPost, "/students", http.StatusCreated, 30*time.Millisecond)

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(2), snapshot.RequestsTotal)
	assert.InDelta(t, 20.0, snapshot.AverageRequestDurationMs, 0.0001)
	require.False(t, snapshot.GeneratedAt.IsZero())
}

func TestMetricsNilReceiverSafe(t *testing.T) {
	var m *MetricsService

	m.RecordStateLookup(true, time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/students", http.StatusOK, time.Millisecond)

	assert.Equal(t, uint64(0), m.Snapshot().RequestsTotal)
	require.NotNil(t, m.Handler())
}
