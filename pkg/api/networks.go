package api

import (
	"context"

	"github.com/dexpaprika/dexpaprika-go/pkg/client"
)

// NetworksService covers the /networks endpoints.
type NetworksService struct {
	r client.Requester
}

// List returns all supported networks.
func (s *NetworksService) List(ctx context.Context) ([]Network, error) {
	return client.GetJSON[[]Network](ctx, s.r, "/networks", nil)
}

// Dexes returns a page of DEXes on a network.
func (s *NetworksService) Dexes(ctx context.Context, network string, opts PageOptions) (*DexesPage, error) {
	if err := required("network ID", network); err != nil {
		return nil, err
	}
	return getObject[DexesPage](ctx, s.r, "/networks/"+segment(network)+"/dexes", opts.params())
}

// DexesService covers DEX listings.
type DexesService struct {
	r client.Requester
}

// ListByNetwork returns a page of DEXes on a network.
func (s *DexesService) ListByNetwork(ctx context.Context, network string, opts PageOptions) (*DexesPage, error) {
	return (&NetworksService{r: s.r}).Dexes(ctx, network, opts)
}

// getObject decodes a response into a new T.
func getObject[T any](ctx context.Context, r client.Requester, path string, params client.Params) (*T, error) {
	page, err := client.GetJSON[T](ctx, r, path, params)
	if err != nil {
		return nil, err
	}
	return &page, nil
}
