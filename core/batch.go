package core

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of downloads run at once by the installer
const DefaultConcurrency = 10

// RunBatches runs worker over items in consecutive batches of at most limit items. The items of a
// batch run concurrently; the next batch starts only once every item of the current one has finished.
// If any item of a batch fails, the first error is returned after the batch settles and no further
// batches are started. onDone, if non-nil, is called serially with the number of completed items.
func RunBatches[T any](items []T, limit int, worker func(T) error, onDone func(completed int)) error {
	if limit < 1 {
		limit = DefaultConcurrency
	}
	var mu sync.Mutex
	completed := 0
	for start := 0; start < len(items); start += limit {
		end := start + limit
		if end > len(items) {
			end = len(items)
		}
		// No shared context: a failing item does not cancel its siblings
		var g errgroup.Group
		for _, item := range items[start:end] {
			item := item
			g.Go(func() error {
				if err := worker(item); err != nil {
					return err
				}
				mu.Lock()
				completed++
				if onDone != nil {
					onDone(completed)
				}
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}
