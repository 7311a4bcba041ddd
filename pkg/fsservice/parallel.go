package fsservice

import (
	"golang.org/x/sync/errgroup"
)

// parallelForEach runs fn across items on a bounded worker pool. It is used
// by multi-file scans (AST search) whose results are funneled through a
// channel rather than a shared lock, per the concurrency note in §4.4/§5.
func parallelForEach(items []string, fn func(string)) error {
	var group errgroup.Group
	group.SetLimit(parallelism())
	for _, item := range items {
		item := item
		group.Go(func() error {
			fn(item)
			return nil
		})
	}
	return group.Wait()
}
