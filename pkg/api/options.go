package api

import "github.com/dexpaprika/dexpaprika-go/pkg/client"

// Listing defaults.
const (
	DefaultLimit   = 10
	DefaultSort    = "desc"
	DefaultOrderBy = "volume_usd"

	DefaultOHLCVLimit    = 1
	DefaultOHLCVInterval = "24h"
)

// PageOptions selects a page of a listing. Pages are zero-based.
type PageOptions struct {
	Page  int
	Limit int
}

func (o PageOptions) params() client.Params {
	limit := o.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return client.Params{
		"page":  o.Page,
		"limit": limit,
	}
}

// PoolListOptions selects and orders a page of pools.
type PoolListOptions struct {
	Page    int
	Limit   int
	Sort    string // asc or desc
	OrderBy string // e.g. volume_usd, price_usd, transactions, last_price_change_usd_24h, created_at
}

func (o PoolListOptions) params() client.Params {
	p := PageOptions{Page: o.Page, Limit: o.Limit}.params()
	p["sort"] = DefaultSort
	if o.Sort != "" {
		p["sort"] = o.Sort
	}
	p["order_by"] = DefaultOrderBy
	if o.OrderBy != "" {
		p["order_by"] = o.OrderBy
	}
	return p
}

// TokenPoolOptions selects pools containing a token.
type TokenPoolOptions struct {
	PoolListOptions

	// PairWith restricts results to pools that also hold this token address.
	PairWith string
}

func (o TokenPoolOptions) params() client.Params {
	p := o.PoolListOptions.params()
	if o.PairWith != "" {
		p["address"] = o.PairWith
	}
	return p
}

// OHLCVOptions selects a time range of OHLCV records.
type OHLCVOptions struct {
	// Start is required: a unix timestamp, RFC3339 time or yyyy-mm-dd date.
	Start    string
	End      string
	Limit    int
	Interval string // 1m, 5m, 10m, 15m, 30m, 1h, 6h, 12h, 24h
	Inversed bool
}

func (o OHLCVOptions) params() client.Params {
	limit := o.Limit
	if limit <= 0 {
		limit = DefaultOHLCVLimit
	}
	interval := o.Interval
	if interval == "" {
		interval = DefaultOHLCVInterval
	}

	p := client.Params{
		"start":    o.Start,
		"limit":    limit,
		"interval": interval,
	}
	if o.End != "" {
		p["end"] = o.End
	}
	if o.Inversed {
		p["inversed"] = "true"
	}
	return p
}

// TransactionOptions selects a page of pool transactions.
type TransactionOptions struct {
	Page   int
	Limit  int
	Cursor string
}

func (o TransactionOptions) params() client.Params {
	p := PageOptions{Page: o.Page, Limit: o.Limit}.params()
	if o.Cursor != "" {
		p["cursor"] = o.Cursor
	}
	return p
}
