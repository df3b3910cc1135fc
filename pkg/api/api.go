// Package api provides typed per-resource services over the DexPaprika client.
//
// Each service builds request paths and query parameters and decodes the JSON
// payload; caching, retries and error classification are done by the
// underlying client.Requester.
//
// Example usage:
//
//	c, _ := client.New(client.DefaultConfig())
//	dex := api.New(c)
//	pools, err := dex.Pools.ListByNetwork(ctx, "ethereum", api.PoolListOptions{Limit: 5})
package api

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/dexpaprika/dexpaprika-go/pkg/client"
)

// ErrMissingArgument is returned when a required argument is empty.
var ErrMissingArgument = errors.New("missing argument")

// API groups the per-resource services.
type API struct {
	Networks *NetworksService
	Dexes    *DexesService
	Pools    *PoolsService
	Tokens   *TokensService
	Search   *SearchService
	Stats    *StatsService
}

// New binds all services to r.
func New(r client.Requester) *API {
	return &API{
		Networks: &NetworksService{r: r},
		Dexes:    &DexesService{r: r},
		Pools:    &PoolsService{r: r},
		Tokens:   &TokensService{r: r},
		Search:   &SearchService{r: r},
		Stats:    &StatsService{r: r},
	}
}

// required checks that every named argument is non-empty.
// Pairs are given as name, value, name, value, ...
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: %s is required", ErrMissingArgument, pairs[i])
		}
	}
	return nil
}

// segment escapes a single path segment.
func segment(s string) string {
	return url.PathEscape(s)
}
