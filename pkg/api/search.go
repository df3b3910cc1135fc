package api

import (
	"context"

	"github.com/dexpaprika/dexpaprika-go/pkg/client"
)

// SearchService covers cross-entity search.
type SearchService struct {
	r client.Requester
}

// Query searches tokens, pools and DEXes across all networks.
func (s *SearchService) Query(ctx context.Context, query string) (*SearchResult, error) {
	if err := required("query", query); err != nil {
		return nil, err
	}
	return getObject[SearchResult](ctx, s.r, "/search", client.Params{"query": query})
}

// StatsService covers ecosystem statistics.
type StatsService struct {
	r client.Requester
}

// Get returns ecosystem-wide totals.
func (s *StatsService) Get(ctx context.Context) (*Stats, error) {
	return getObject[Stats](ctx, s.r, "/stats", nil)
}
