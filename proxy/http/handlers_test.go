package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/confidential"
	"go.dedis.ch/confidential/core/origin"
	"go.dedis.ch/confidential/internal/testing/fake"
)

func TestQueryHandler_Serve(t *testing.T) {
	q := &fakeQuerier{resp: []byte(`{"Error":"NotAuthorized"}`)}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query",
		strings.NewReader(`{"contract":7,"payload":"IkRlY29kZVN0b3JlZENvZGUi"}`))

	NewQueryHandler(q).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, `{"Error":"NotAuthorized"}`, rec.Body.String())

	require.Len(t, q.envs, 1)
	require.EqualValues(t, 7, q.envs[0].Contract)
	require.Equal(t, `"DecodeStoredCode"`, string(q.envs[0].Payload))
	require.False(t, q.envs[0].IsSigned())
}

func TestQueryHandler_BadMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/query", nil)

	NewQueryHandler(&fakeQuerier{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestQueryHandler_BadEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader("{"))

	NewQueryHandler(&fakeQuerier{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "failed to decode envelope: ")
}

func TestQueryHandler_QueryFailed(t *testing.T) {
	q := &fakeQuerier{err: fake.GetError()}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{"contract":1}`))

	NewQueryHandler(q).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "query failed: fake error\n", rec.Body.String())
}

func TestMetricsHandler_Serve(t *testing.T) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "confidential_test_total",
		Help: "test counter",
	})
	counter.Inc()

	restore := confidential.PromCollectors
	confidential.PromCollectors = append(confidential.PromCollectors, counter)

	defer func() {
		confidential.PromCollectors = restore
	}()

	handler, err := NewMetricsHandler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "confidential_test_total 1")
}

func TestMetricsHandler_Duplicate(t *testing.T) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "confidential_test_dup_total",
		Help: "test counter",
	})

	restore := confidential.PromCollectors
	confidential.PromCollectors = append(confidential.PromCollectors, counter, counter)

	defer func() {
		confidential.PromCollectors = restore
	}()

	_, err := NewMetricsHandler()
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to register collector: ")
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeQuerier struct {
	envs []origin.Envelope
	resp []byte
	err  error
}

func (q *fakeQuerier) QuerySigned(env origin.Envelope) ([]byte, error) {
	q.envs = append(q.envs, env)
	return q.resp, q.err
}
