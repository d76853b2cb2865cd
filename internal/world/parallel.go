package world

import (
	"runtime"
	"sync"

	"github.com/san-kum/slingshot/internal/dynamo"
)

// below this many bodies the goroutine overhead outweighs the work
const parallelThreshold = 16

// WithWorkers advances bodies on n goroutines once the world holds enough
// of them. n <= 0 uses one worker per CPU. Results are identical to the
// serial path: each body reads only the shared snapshot.
func WithWorkers(n int) Option {
	return func(w *World) {
		if n <= 0 {
			n = runtime.NumCPU()
		}
		w.workers = n
	}
}

func (w *World) advance(next, snapshot []dynamo.Body) {
	n := len(next)
	if w.workers < 2 || n < parallelThreshold {
		for i := range next {
			w.integ.Advance(&next[i], snapshot)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + w.workers - 1) / w.workers

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(chunk []dynamo.Body) {
			defer wg.Done()
			for i := range chunk {
				w.integ.Advance(&chunk[i], snapshot)
			}
		}(next[start:end])
	}

	wg.Wait()
}
