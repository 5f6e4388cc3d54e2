package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClient_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		require.Equal(t, "https://example.com/page", r.URL.Query().Get("url"))
		require.Equal(t, "true", r.URL.Query().Get("render"))
		require.Equal(t, "de", r.URL.Query().Get("country_code"))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "<html><head><title>Example</title></head></html>")
	}))
	defer server.Close()

	client := NewClient(Config{ApiKey: "test-key", BaseURL: server.URL, ConcurrencyLimit: 2})
	page, err := client.Fetch(context.Background(), Request{
		URL:         "https://example.com/page",
		RenderJS:    true,
		CountryCode: "de",
	})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/page", page.URL)
	require.Equal(t, http.StatusOK, page.StatusCode)
	require.Contains(t, page.Html, "<title>Example</title>")
	require.Equal(t, 1, page.Attempts)
	require.Greater(t, page.Elapsed, time.Duration(0))
}

func TestClient_Fetch_RetryThenSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "<html><title>ok</title></html>")
	}))
	defer server.Close()

	client := NewClient(Config{ApiKey: "test-key", BaseURL: server.URL, ConcurrencyLimit: 1, RetryCount: 3})
	page, err := client.Fetch(context.Background(), Request{URL: "https://example.com/flaky"})
	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load())
	require.Equal(t, 3, page.Attempts)
}

func TestClient_Fetch_AuthFailureDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{ApiKey: "bad-key", BaseURL: server.URL, ConcurrencyLimit: 1, RetryCount: 3})
	_, err := client.Fetch(context.Background(), Request{URL: "https://example.com/page"})
	require.Error(t, err)
	require.True(t, IsAuth(err))
	require.Equal(t, int32(1), calls.Load())
}

func TestClient_Fetch_GonePageIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Config{ApiKey: "test-key", BaseURL: server.URL, ConcurrencyLimit: 1, RetryCount: 3})
	_, err := client.Fetch(context.Background(), Request{URL: "https://example.com/dead"})
	require.Error(t, err)
	require.True(t, IsPermanent(err))
	require.False(t, IsAuth(err))
	require.Equal(t, int32(1), calls.Load())
}

func TestClient_Fetch_RetryBudgetExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{ApiKey: "test-key", BaseURL: server.URL, ConcurrencyLimit: 1, RetryCount: 1})
	_, err := client.Fetch(context.Background(), Request{URL: "https://example.com/down"})
	require.Error(t, err)
	require.False(t, IsAuth(err))
	require.False(t, IsPermanent(err))
	require.Equal(t, int32(2), calls.Load())
}

func TestClient_Fetch_ConcurrencyCap(t *testing.T) {
	var inflight, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := inflight.Add(1)
		for {
			max := peak.Load()
			if current <= max || peak.CompareAndSwap(max, current) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		inflight.Add(-1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{ApiKey: "test-key", BaseURL: server.URL, ConcurrencyLimit: 2})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := client.Fetch(context.Background(), Request{URL: fmt.Sprintf("https://example.com/%d", n)})
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.LessOrEqual(t, peak.Load(), int32(2), "in-flight requests exceeded the concurrency cap")
}

func TestClient_Account(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"requestCount":1200,"failedRequestCount":34,"requestLimit":250000,"concurrentRequests":3,"concurrencyLimit":50}`)
	}))
	defer server.Close()

	client := NewClient(Config{ApiKey: "test-key", BaseURL: server.URL, ConcurrencyLimit: 1})
	status, err := client.Account(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1200, status.RequestCount)
	require.Equal(t, 34, status.FailedRequestCount)
	require.Equal(t, 250000, status.RequestLimit)
	require.Equal(t, 3, status.ConcurrentRequests)
	require.Equal(t, 50, status.ConcurrencyLimit)
}

func TestClient_Account_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(Config{ApiKey: "bad-key", BaseURL: server.URL, ConcurrencyLimit: 1})
	_, err := client.Account(context.Background())
	require.Error(t, err)
	require.True(t, IsAuth(err))
}
