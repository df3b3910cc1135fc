package api

import (
	"context"

	"github.com/dexpaprika/dexpaprika-go/pkg/client"
)

// TokensService covers the token endpoints.
type TokensService struct {
	r client.Requester
}

// Details returns a single token.
func (s *TokensService) Details(ctx context.Context, network, address string) (*TokenDetails, error) {
	if err := required("network ID", network, "token address", address); err != nil {
		return nil, err
	}
	return getObject[TokenDetails](ctx, s.r, tokenPath(network, address), nil)
}

// Pools returns a page of pools holding the token.
func (s *TokensService) Pools(ctx context.Context, network, address string, opts TokenPoolOptions) (*PoolsPage, error) {
	if err := required("network ID", network, "token address", address); err != nil {
		return nil, err
	}
	return getObject[PoolsPage](ctx, s.r, tokenPath(network, address)+"/pools", opts.params())
}

func tokenPath(network, address string) string {
	return "/networks/" + segment(network) + "/tokens/" + segment(address)
}
