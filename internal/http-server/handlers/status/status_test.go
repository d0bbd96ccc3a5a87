package status

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCore struct {
	count int64
	err   error
}

func (f *fakeCore) CountSubscriptions() (int64, error) {
	return f.count, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)

	Health(discardLogger())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Uptime)
}

func TestStats(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/stats", nil)

	Stats(discardLogger(), &fakeCore{count: 7})(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body statsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(7), body.Subscriptions)
}

func TestStatsStorageFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/stats", nil)

	Stats(discardLogger(), &fakeCore{err: errors.New("mongo down")})(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
