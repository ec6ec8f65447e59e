package parallel

import (
	"sync"
)

// Range is the half-open item range [Start, End) handled by one worker.
type Range struct {
	Worker int
	Start  int
	End    int
}

// Split divides items among workers. Every worker gets items/workers items;
// the first items%workers workers get one extra. Workers with an empty range
// are omitted, so len(result) <= workers.
func Split(items, workers int) []Range {
	if items <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > items {
		workers = items
	}

	size := items / workers
	leftOver := items % workers
	ranges := make([]Range, 0, workers)
	start := 0
	for w := 0; w < workers; w++ {
		n := size
		if w < leftOver {
			n++
		}
		ranges = append(ranges, Range{Worker: w, Start: start, End: start + n})
		start += n
	}
	return ranges
}

// ParallelizeN runs fn once per range produced by Split(items, workers) and
// waits for all of them. With a single range fn runs on the calling
// goroutine. The worker index lets callers keep per-worker accumulators and
// reduce them in a fixed order afterwards.
func ParallelizeN(items, workers int, fn func(worker, start, end int)) {
	ranges := Split(items, workers)
	if len(ranges) == 1 {
		fn(ranges[0].Worker, ranges[0].Start, ranges[0].End)
		return
	}

	var wg sync.WaitGroup
	for _, r := range ranges {
		wg.Add(1)
		go func(r Range) {
			defer wg.Done()
			fn(r.Worker, r.Start, r.End)
		}(r)
	}
	wg.Wait()
}
