package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signage/internal/model"
)

func TestStoreMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewStoreMetrics(reg)
	require.NoError(t, err)

	m.Observe(StoreURLs, "add", time.Now(), nil)
	m.Observe(StoreURLs, "add", time.Now(), nil)
	m.Observe(StoreMedia, "delete", time.Now(), model.ErrNotFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues(StoreURLs, "add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(StoreMedia, "delete", "not_found")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestStoreMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewStoreMetrics(reg)
	require.NoError(t, err)

	_, err = NewStoreMetrics(reg)
	assert.Error(t, err)
}

func TestStoreMetrics_NilIsNoop(t *testing.T) {
	var m *StoreMetrics
	assert.NotPanics(t, func() { m.Observe(StoreMedia, "put", time.Now(), nil) })
}

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{model.InvalidInput("empty"), "invalid_input"},
		{model.ErrNotFound, "not_found"},
		{model.ErrPayloadTooLarge, "payload_too_large"},
		{model.NewStorageError("lock", "x", model.ErrLockContention), "lock_contention"},
		{model.NewStorageError("write", "x", errors.New("disk full")), "storage_error"},
		{context.Canceled, "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Result(tt.err))
	}
}
