package httpx

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_DefaultTimeoutAndTransport(t *testing.T) {
	c := NewClient(0)
	assert.Equal(t, DefaultTimeout, c.Timeout)

	tr, ok := c.Transport.(*Transport)
	require.Truef(t, ok, "期望 *Transport，实际 %T", c.Transport)
	assert.NotNil(t, tr.Base)

	assert.Equal(t, 5*time.Second, NewClient(5*time.Second).Timeout)
}

func TestTransport_SetsUserAgentAndNoRetry(t *testing.T) {
	var hits atomic.Int32
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotUA.Store(r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	resp, err := NewClient(time.Second).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), hits.Load(), "不应重试")
	assert.Equal(t, UserAgent, gotUA.Load())
}

func TestTransport_KeepsCallerUserAgent(t *testing.T) {
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom/1")

	resp, err := NewClient(time.Second).Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "custom/1", gotUA.Load())
}

func TestTransport_NilBase(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1", nil)
	_, err := (&Transport{}).RoundTrip(req)
	assert.Error(t, err)
}
