package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyapar-labs/siterisk/internal/config"
)

func newTestExternal(baseURL string, timeout time.Duration) *ExternalResolver {
	return NewExternalResolver(config.ExternalGeocoderConfig{
		BaseURL:          baseURL,
		APIKey:           "test-key",
		RateLimit:        100,
		Burst:            10,
		FailureThreshold: 2,
		ResetTimeoutSecs: 30,
	}, timeout)
}

func TestExternalResolver_Unconfigured(t *testing.T) {
	r := NewExternalResolver(config.ExternalGeocoderConfig{}, time.Second)
	assert.False(t, r.Available())
}

func TestExternalResolver_Match(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/v1/geocode", req.URL.Path)
		assert.Equal(t, "shahdara", req.URL.Query().Get("q"))
		assert.Equal(t, "110032", req.URL.Query().Get("pincode"))
		assert.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"lat": 28.6692, "lng": 77.2890, "area": "Shahdara", "matched": true}`)) //nolint:errcheck
	}))
	defer srv.Close()

	r := newTestExternal(srv.URL, 2*time.Second)
	require.True(t, r.Available())

	res, err := r.Resolve(context.Background(), Query{Location: "shahdara", Pincode: "110032"})
	require.NoError(t, err)
	require.True(t, res.Matched)
	assert.Equal(t, "external", res.Source)
	assert.Equal(t, "Shahdara", res.Area)
	assert.InDelta(t, 28.6692, res.Coordinate.Lat, 1e-9)
	assert.InDelta(t, 77.2890, res.Coordinate.Lng, 1e-9)
}

func TestExternalResolver_UpstreamMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"matched": false}`)) //nolint:errcheck
	}))
	defer srv.Close()

	r := newTestExternal(srv.URL, 2*time.Second)

	res, err := r.Resolve(context.Background(), Query{Location: "nowhere"})
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Equal(t, "external", res.Source)
}

func TestExternalResolver_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := newTestExternal(srv.URL, 2*time.Second)

	_, err := r.Resolve(context.Background(), Query{Location: "anywhere"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestExternalResolver_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	r := newTestExternal(srv.URL, 20*time.Millisecond)

	_, err := r.Resolve(context.Background(), Query{Location: "slow"})
	require.Error(t, err)
}

func TestExternalResolver_BreakerOpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := newTestExternal(srv.URL, 2*time.Second)
	ctx := context.Background()

	// Threshold is 2: two upstream failures open the breaker.
	_, err := r.Resolve(ctx, Query{Location: "a"})
	require.Error(t, err)
	_, err = r.Resolve(ctx, Query{Location: "b"})
	require.Error(t, err)

	_, err = r.Resolve(ctx, Query{Location: "c"})
	require.ErrorIs(t, err, errBreakerOpen)
	assert.Equal(t, int32(2), hits.Load(), "open breaker must not reach the upstream")
}
