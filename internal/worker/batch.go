package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/legm/internal/model"
)

// TakeFetcher retrieves one take by id
type TakeFetcher interface {
	GetTake(ctx context.Context, id int64) (*model.TakeDetail, error)
}

// FetchJob fetches one take
type FetchJob struct {
	Index   int
	ID      int64
	Fetcher TakeFetcher
}

// Execute runs the fetch
func (j *FetchJob) Execute(ctx context.Context) Result {
	take, err := j.Fetcher.GetTake(ctx, j.ID)
	return &FetchResult{Index: j.Index, ID: j.ID, Take: take, Error: err}
}

// FetchResult is the outcome for one id
type FetchResult struct {
	Index int
	ID    int64
	Take  *model.TakeDetail
	Error error
}

// GetError returns the fetch error
func (r *FetchResult) GetError() error {
	return r.Error
}

// BatchFetcher fetches many takes concurrently
type BatchFetcher struct {
	fetcher     TakeFetcher
	concurrency int
}

// NewBatchFetcher creates a batch fetcher with the given worker count
func NewBatchFetcher(fetcher TakeFetcher, concurrency int) *BatchFetcher {
	return &BatchFetcher{
		fetcher:     fetcher,
		concurrency: concurrency,
	}
}

// FetchIDs fetches every id and returns results in input order.
// Failures are reported per id and do not stop the batch.
func (b *BatchFetcher) FetchIDs(ctx context.Context, ids []int64) []*FetchResult {
	results := make([]*FetchResult, len(ids))
	if len(ids) == 0 {
		return results
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		defer pool.Close()
		for i, id := range ids {
			if !pool.Submit(&FetchJob{Index: i, ID: id, Fetcher: b.fetcher}) {
				return
			}
		}
	}()

	for result := range pool.Results() {
		r := result.(*FetchResult)
		results[r.Index] = r
	}

	// ids never dispatched because ctx ended first
	for i, r := range results {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("not fetched")
			}
			results[i] = &FetchResult{Index: i, ID: ids[i], Error: err}
		}
	}

	return results
}

// ReadTakesFromFile reads one take per line, skipping blank lines and # comments.
// Duplicates are kept: every line is a separate submission.
func ReadTakesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var takes []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		takes = append(takes, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return takes, nil
}
