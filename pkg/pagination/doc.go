// Package pagination provides parallel batch fetching for paginated DexPaprika listings.
//
// DexPaprika listings are zero-based and report their size in
// page_info.total_pages. This package fetches the first page to learn the
// total, then distributes the remaining pages across a small worker pool.
// Every page still goes through the client, so cached pages cost nothing.
//
// Example usage:
//
//	dex := api.New(c)
//	fetcher := pagination.NewBatchFetcher(dex.Pools, pagination.Config{MaxPages: 10})
//	pools, err := pagination.Collect[api.Pool](ctx, fetcher, "ethereum")
//
// The batch fetcher:
//   - Fetches page 0 to determine total pages
//   - Spawns a worker pool (default 5 workers)
//   - Distributes remaining pages across workers
//   - Collects results with progress logging
//   - Returns partial data on errors
package pagination
