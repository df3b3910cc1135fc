//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dexpaprika/dexpaprika-go/internal/testutil"
	"github.com/dexpaprika/dexpaprika-go/pkg/api"
	"github.com/dexpaprika/dexpaprika-go/pkg/cache"
	"github.com/dexpaprika/dexpaprika-go/pkg/client"
	"github.com/dexpaprika/dexpaprika-go/pkg/pagination"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

// testTransport redirects requests for the public API host to the mock server.
type testTransport struct {
	mockServer *testutil.MockAPI
}

func (t *testTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Host == "api.dexpaprika.com" {
		req.URL.Scheme = "http"
		req.URL.Host = strings.TrimPrefix(t.mockServer.URL(), "http://")
	}
	return http.DefaultTransport.RoundTrip(req)
}

// newClient creates a client that talks to the default base URL through the mock.
func newClient(t *testing.T, mock *testutil.MockAPI, clk clock.Clock) *client.Client {
	t.Helper()

	logger := zerolog.Nop()
	cfg := client.DefaultConfig()
	cfg.UserAgent = "TestApp/1.0.0 (integration@test.com)"
	cfg.Logger = &logger
	cfg.Clock = clk
	cfg.HTTPClient = &http.Client{
		Transport: &testTransport{mockServer: mock},
		Timeout:   30 * time.Second,
	}

	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// TestFullRequestFlow tests the complete request flow: Cache → API → Cache Update → Cache Hit.
func TestFullRequestFlow(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetNetworkPoolsResponse("ethereum", testutil.NewOKResponse(`{
		"pools": [
			{"id": "0xa", "dex_name": "Uniswap V3", "volume_usd": 1000},
			{"id": "0xb", "dex_name": "Curve", "volume_usd": 500}
		],
		"page_info": {"limit": 10, "page": 0, "total_items": 2, "total_pages": 1}
	}`))

	dex := api.New(newClient(t, mock, nil))
	ctx := context.Background()
	hitsBefore := promtest.ToFloat64(cache.CacheHits)

	page, err := dex.Pools.ListByNetwork(ctx, "ethereum", api.PoolListOptions{})
	if err != nil {
		t.Fatalf("Request 1 failed: %v", err)
	}
	if len(page.Pools) != 2 || page.Pools[0].DexName != "Uniswap V3" {
		t.Errorf("pools = %+v", page.Pools)
	}

	if _, err := dex.Pools.ListByNetwork(ctx, "ethereum", api.PoolListOptions{}); err != nil {
		t.Fatalf("Request 2 failed: %v", err)
	}

	if mock.RequestCount() != 1 {
		t.Errorf("API requests = %d, want 1", mock.RequestCount())
	}
	if got := promtest.ToFloat64(cache.CacheHits) - hitsBefore; got != 1 {
		t.Errorf("cache hits delta = %v, want 1", got)
	}

	req := mock.LastRequest()
	if got := req.Header.Get("User-Agent"); !strings.HasPrefix(got, "TestApp/1.0.0") {
		t.Errorf("User-Agent = %q", got)
	}
	q := req.URL.Query()
	if q.Get("page") != "0" || q.Get("limit") != "10" || q.Get("sort") != "desc" || q.Get("order_by") != "volume_usd" {
		t.Errorf("query = %s", req.URL.RawQuery)
	}
}

// TestRetryRateLimited tests that 429 responses are retried and the result cached.
func TestRetryRateLimited(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetSequence("/stats",
		testutil.NewRateLimitResponse(),
		testutil.NewRateLimitResponse(),
		testutil.NewOKResponse(`{"chains": 30, "pools": 1000}`),
	)

	clk := clock.NewMock()
	dex := api.New(newClient(t, mock, clk))

	// Advance the mock clock until the retry timers fire.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-time.After(5 * time.Millisecond):
				clk.Add(time.Second)
			}
		}
	}()

	stats, err := dex.Stats.Get(context.Background())
	if err != nil {
		t.Fatalf("Stats.Get() failed: %v", err)
	}
	if stats.Chains != 30 {
		t.Errorf("Chains = %d, want 30", stats.Chains)
	}
	if mock.RequestCount() != 3 {
		t.Errorf("API requests = %d, want 3", mock.RequestCount())
	}
}

// TestNoRetry4xxErrors tests that 4xx errors are classified and not retried.
func TestNoRetry4xxErrors(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetNetworkPoolsResponse("doesnotexist", testutil.NewNotFoundResponse("network not found"))
	mock.SetResponse("/networks/ethereum/pools/0xmissing", testutil.NewNotFoundResponse("pool not found"))

	dex := api.New(newClient(t, mock, nil))
	ctx := context.Background()

	_, err := dex.Pools.ListByNetwork(ctx, "doesnotexist", api.PoolListOptions{})
	var dexErr *client.Error
	if !errors.As(err, &dexErr) || dexErr.Kind != client.KindNetworkNotFound {
		t.Fatalf("err = %v, want network not found", err)
	}
	if dexErr.Resource != "doesnotexist" {
		t.Errorf("Resource = %q, want doesnotexist", dexErr.Resource)
	}

	_, err = dex.Pools.Details(ctx, "ethereum", "0xmissing", false)
	if !errors.Is(err, client.ErrPoolNotFound) {
		t.Fatalf("err = %v, want pool not found", err)
	}

	if mock.RequestCount() != 2 {
		t.Errorf("API requests = %d, want 2", mock.RequestCount())
	}
}

// TestDeprecatedEndpoint tests both the local and the server-side deprecation paths.
func TestDeprecatedEndpoint(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/pools", testutil.NewGoneResponse())

	c := newClient(t, mock, nil)

	if _, err := api.New(c).Pools.List(context.Background()); !errors.Is(err, client.ErrDeprecatedEndpoint) {
		t.Errorf("Pools.List() err = %v", err)
	}
	if mock.RequestCount() != 0 {
		t.Errorf("Pools.List() made %d requests", mock.RequestCount())
	}

	_, err := c.Get(context.Background(), "/pools", nil)
	var dexErr *client.Error
	if !errors.As(err, &dexErr) || dexErr.StatusCode != http.StatusGone {
		t.Fatalf("err = %v, want 410 deprecated error", err)
	}
	if !strings.Contains(dexErr.Alternative, "ListByNetwork") {
		t.Errorf("Alternative = %q", dexErr.Alternative)
	}
}

// TestCacheExpiration tests that expired cache entries are not used.
func TestCacheExpiration(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("/networks", testutil.NewOKResponse(`[{"id": "ethereum"}]`))

	clk := clock.NewMock()
	dex := api.New(newClient(t, mock, clk))
	ctx := context.Background()

	dex.Networks.List(ctx)
	clk.Add(4 * time.Minute)
	dex.Networks.List(ctx)
	if mock.RequestCount() != 1 {
		t.Errorf("API requests = %d, want 1 before TTL", mock.RequestCount())
	}

	clk.Add(2 * time.Minute)
	dex.Networks.List(ctx)
	if mock.RequestCount() != 2 {
		t.Errorf("API requests = %d, want 2 after TTL", mock.RequestCount())
	}
}

// TestParallelPagination tests the batch fetcher through the full client stack.
func TestParallelPagination(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	const totalPages = 6
	mock.SetHandler("/networks/solana/pools", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"pools":[{"id":"pool-%s"}],"page_info":{"page":%s,"total_pages":%d}}`, page, page, totalPages)
	})

	dex := api.New(newClient(t, mock, nil))
	fetcher := pagination.NewBatchFetcher(dex.Pools, pagination.Config{MaxConcurrency: 3})

	pools, err := pagination.Collect[api.Pool](context.Background(), fetcher, "solana")
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}

	if len(pools) != totalPages {
		t.Fatalf("pools = %d, want %d", len(pools), totalPages)
	}
	for i, pool := range pools {
		if want := fmt.Sprintf("pool-%d", i); pool.ID != want {
			t.Errorf("pools[%d] = %q, want %q", i, pool.ID, want)
		}
	}
	if mock.PathCount("/networks/solana/pools") != totalPages {
		t.Errorf("page requests = %d, want %d", mock.PathCount("/networks/solana/pools"), totalPages)
	}
}

// TestTransportFailure tests that an unreachable API yields a transport error.
func TestTransportFailure(t *testing.T) {
	mock := testutil.NewMockAPI()
	mock.Close()

	logger := zerolog.Nop()
	zero := 0
	c, err := client.New(client.Config{
		BaseURL:   mock.URL(),
		UserAgent: "TestApp/1.0.0",
		Logger:    &logger,
		Retry:     client.RetryOverrides{MaxRetries: &zero},
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = api.New(c).Networks.List(context.Background())
	if !errors.Is(err, client.ErrTransport) {
		t.Errorf("err = %v, want transport error", err)
	}
	if c.CacheSize() != 0 {
		t.Errorf("CacheSize() = %d, want 0", c.CacheSize())
	}
}
