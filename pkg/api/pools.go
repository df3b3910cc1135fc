package api

import (
	"context"
	"fmt"

	"github.com/dexpaprika/dexpaprika-go/pkg/client"
	"github.com/tidwall/gjson"
)

// PoolsService covers the pool endpoints.
type PoolsService struct {
	r client.Requester
}

// fetchPageLimit is the page size used by FetchPage.
const fetchPageLimit = 100

// List always fails: the global /pools endpoint was removed from the API.
// No request is made. Use ListByNetwork instead.
func (s *PoolsService) List(ctx context.Context) (*PoolsPage, error) {
	return nil, client.NewDeprecatedEndpointError(
		"/pools",
		`Pools.ListByNetwork(ctx, network, options) with a network like "ethereum", "solana" or "fantom"`,
	)
}

// ListByNetwork returns a page of pools on a network.
// Defaults: page 0, limit 10, sort desc, order_by volume_usd.
func (s *PoolsService) ListByNetwork(ctx context.Context, network string, opts PoolListOptions) (*PoolsPage, error) {
	if err := required("network ID", network); err != nil {
		return nil, err
	}
	return getObject[PoolsPage](ctx, s.r, "/networks/"+segment(network)+"/pools", opts.params())
}

// ListByDex returns a page of pools on one DEX of a network.
func (s *PoolsService) ListByDex(ctx context.Context, network, dex string, opts PoolListOptions) (*PoolsPage, error) {
	if err := required("network ID", network, "DEX ID", dex); err != nil {
		return nil, err
	}
	path := "/networks/" + segment(network) + "/dexes/" + segment(dex) + "/pools"
	return getObject[PoolsPage](ctx, s.r, path, opts.params())
}

// Details returns a single pool. With inversed set, prices are quoted the other way round.
func (s *PoolsService) Details(ctx context.Context, network, address string, inversed bool) (*PoolDetails, error) {
	if err := required("network ID", network, "pool address", address); err != nil {
		return nil, err
	}

	params := client.Params{}
	if inversed {
		params["inversed"] = "true"
	}
	return getObject[PoolDetails](ctx, s.r, poolPath(network, address), params)
}

// OHLCV returns price candles for a pool. opts.Start is required.
func (s *PoolsService) OHLCV(ctx context.Context, network, address string, opts OHLCVOptions) ([]OHLCVRecord, error) {
	if err := required("network ID", network, "pool address", address, "start", opts.Start); err != nil {
		return nil, err
	}
	return client.GetJSON[[]OHLCVRecord](ctx, s.r, poolPath(network, address)+"/ohlcv", opts.params())
}

// Transactions returns a page of pool transactions.
func (s *PoolsService) Transactions(ctx context.Context, network, address string, opts TransactionOptions) (*TransactionsPage, error) {
	if err := required("network ID", network, "pool address", address); err != nil {
		return nil, err
	}
	return getObject[TransactionsPage](ctx, s.r, poolPath(network, address)+"/transactions", opts.params())
}

// FetchPage fetches one page of a network's pool listing for the batch fetcher.
// The listing argument is the network ID. It returns the raw pools array and
// the total page count reported by the API.
func (s *PoolsService) FetchPage(ctx context.Context, listing string, pageNum int) ([]byte, int, error) {
	if err := required("network ID", listing); err != nil {
		return nil, 0, err
	}

	params := PoolListOptions{Page: pageNum, Limit: fetchPageLimit}.params()
	data, err := s.r.Get(ctx, "/networks/"+segment(listing)+"/pools", params)
	if err != nil {
		return nil, 0, err
	}

	parsed := gjson.ParseBytes(data)
	pools := parsed.Get("pools")
	if !pools.IsArray() {
		return nil, 0, fmt.Errorf("page %d of %s: missing pools array", pageNum, listing)
	}

	return []byte(pools.Raw), int(parsed.Get("page_info.total_pages").Int()), nil
}

func poolPath(network, address string) string {
	return "/networks/" + segment(network) + "/pools/" + segment(address)
}
