package pagination

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var pagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dexpaprika_pagination_pages_total",
	Help: "Total pages fetched by the batch fetcher by result",
}, []string{"result"})

// FirstPage is the index of the first page. DexPaprika pages are zero-based.
const FirstPage = 0

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel requests
	MaxConcurrency int
	// Timeout per page fetch
	Timeout time.Duration
	// MaxPages caps the number of pages fetched (0 = no cap)
	MaxPages int
}

// DefaultConfig returns the default batch fetcher configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 5,
		Timeout:        15 * time.Second,
	}
}

// PageFetcher fetches a single page of a listing
type PageFetcher interface {
	// FetchPage fetches a single page and returns data + total page count
	FetchPage(ctx context.Context, listing string, pageNum int) (data []byte, totalPages int, err error)
}

// PageResult represents the result of fetching a single page
type PageResult struct {
	PageNumber int
	Data       []byte
	Error      error
}

// BatchFetcher handles parallel fetching of multiple pages
type BatchFetcher struct {
	fetcher PageFetcher
	config  Config
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher(fetcher PageFetcher, config Config) *BatchFetcher {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}

	return &BatchFetcher{
		fetcher: fetcher,
		config:  config,
	}
}

// FetchAllPages fetches all pages of a listing in parallel using a worker pool.
// Returns map of pageNumber -> data for successful pages. On a worker error the
// pages fetched so far are returned together with the error.
func (bf *BatchFetcher) FetchAllPages(ctx context.Context, listing string) (map[int][]byte, error) {
	start := time.Now()

	// Fetch first page to get total page count
	firstPageData, totalPages, err := bf.fetcher.FetchPage(ctx, listing, FirstPage)
	if err != nil {
		pagesFetched.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}
	pagesFetched.WithLabelValues("ok").Inc()

	if bf.config.MaxPages > 0 && totalPages > bf.config.MaxPages {
		totalPages = bf.config.MaxPages
	}

	log.Info().
		Str("listing", listing).
		Int("total_pages", totalPages).
		Msg("Starting parallel page fetch")

	results := map[int][]byte{FirstPage: firstPageData}

	// Single page optimization
	if totalPages <= 1 {
		log.Info().
			Str("listing", listing).
			Int("pages", 1).
			Dur("duration", time.Since(start)).
			Msg("Fetch complete (single page)")
		return results, nil
	}

	remaining := totalPages - 1
	pageQueue := make(chan int, remaining)
	pageResults := make(chan PageResult, remaining)
	errs := make(chan error, bf.config.MaxConcurrency)

	for page := FirstPage + 1; page < FirstPage+totalPages; page++ {
		pageQueue <- page
	}
	close(pageQueue)

	// Start worker pool
	var wg sync.WaitGroup
	for i := 0; i < bf.config.MaxConcurrency; i++ {
		wg.Add(1)
		go bf.worker(ctx, listing, pageQueue, pageResults, errs, &wg, i)
	}

	// Close results channel when all workers done
	go func() {
		wg.Wait()
		close(pageResults)
		close(errs)
	}()

	fetchedPages := 1
	for result := range pageResults {
		results[result.PageNumber] = result.Data
		fetchedPages++

		// Progress logging every 50 pages
		if fetchedPages%50 == 0 {
			log.Info().
				Int("fetched", fetchedPages).
				Int("total", totalPages).
				Float64("progress_pct", float64(fetchedPages)/float64(totalPages)*100).
				Msg("Fetch progress")
		}
	}

	if err := <-errs; err != nil {
		log.Warn().
			Err(err).
			Int("fetched_pages", fetchedPages).
			Int("total_pages", totalPages).
			Msg("Worker error - returning partial results")
		return results, fmt.Errorf("worker error (partial data: %d/%d pages): %w", fetchedPages, totalPages, err)
	}

	if err := ctx.Err(); err != nil && fetchedPages < totalPages {
		return results, fmt.Errorf("fetch cancelled (partial data: %d/%d pages): %w", fetchedPages, totalPages, err)
	}

	log.Info().
		Str("listing", listing).
		Int("pages", fetchedPages).
		Int("total", totalPages).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return results, nil
}

// worker processes pages from the queue
func (bf *BatchFetcher) worker(ctx context.Context, listing string, pageQueue <-chan int, results chan<- PageResult, errs chan<- error, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	pagesProcessed := 0

	for pageNum := range pageQueue {
		// Check context cancellation
		if ctx.Err() != nil {
			log.Debug().
				Int("worker_id", workerID).
				Int("pages_processed", pagesProcessed).
				Msg("Worker stopping (context cancelled)")
			return
		}

		// Fetch page with timeout
		pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
		data, _, err := bf.fetcher.FetchPage(pageCtx, listing, pageNum)
		cancel()

		if err != nil {
			pagesFetched.WithLabelValues("error").Inc()
			log.Warn().
				Err(err).
				Int("worker_id", workerID).
				Int("page", pageNum).
				Msg("Page fetch failed")

			// Non-blocking error send
			select {
			case errs <- err:
			default:
			}
			return
		}
		pagesFetched.WithLabelValues("ok").Inc()

		// results is buffered for every queued page
		results <- PageResult{PageNumber: pageNum, Data: data}
		pagesProcessed++
	}

	if pagesProcessed > 0 {
		log.Debug().
			Int("worker_id", workerID).
			Int("pages_processed", pagesProcessed).
			Msg("Worker completed")
	}
}

// Collect fetches every page of a listing and decodes each page's JSON array
// into T, concatenated in page order. Partial results are returned with the error.
func Collect[T any](ctx context.Context, bf *BatchFetcher, listing string) ([]T, error) {
	pages, fetchErr := bf.FetchAllPages(ctx, listing)

	numbers := make([]int, 0, len(pages))
	for n := range pages {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	var items []T
	for _, n := range numbers {
		var page []T
		if err := json.Unmarshal(pages[n], &page); err != nil {
			return items, fmt.Errorf("decode page %d: %w", n, err)
		}
		items = append(items, page...)
	}

	return items, fetchErr
}
