// Package parallel runs independent, index-addressed work units on a fixed
// set of goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// DefaultChunkSize is used when Run is given a non-positive chunk size
const DefaultChunkSize = 256

// chunkTask is a half-open range of work-unit indices
type chunkTask struct {
	start, end int
}

// Pool runs a data-parallel for loop over [0, n)
type Pool struct {
	numWorkers int
	completed  atomic.Int64

	// OnProgress, if set, is called after each chunk with the number of
	// completed units and the total. It may be called from several
	// goroutines at once.
	OnProgress func(done, total int)
}

// NewPool creates a pool with the specified number of workers.
// Non-positive values use runtime.NumCPU().
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{numWorkers: numWorkers}
}

// NumWorkers returns the number of workers in the pool
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Completed returns the number of units finished by the current or last Run
func (p *Pool) Completed() int {
	return int(p.completed.Load())
}

// Run calls fn(i) exactly once for every i in [0, n) and returns when all
// calls have finished. Indices are handed out in chunks so faster workers
// pick up more of them. fn must be safe to call concurrently for distinct i.
func (p *Pool) Run(n, chunkSize int, fn func(i int)) {
	p.completed.Store(0)
	if n <= 0 {
		return
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	numChunks := (n + chunkSize - 1) / chunkSize
	taskQueue := make(chan chunkTask, numChunks) // Buffer for all chunks
	for start := 0; start < n; start += chunkSize {
		taskQueue <- chunkTask{start: start, end: min(start+chunkSize, n)}
	}
	close(taskQueue)

	var wg sync.WaitGroup
	for w := 0; w < min(p.numWorkers, numChunks); w++ {
		wg.Add(1)
		go p.work(&wg, taskQueue, n, fn)
	}
	wg.Wait()
}

// work is the main worker loop
func (p *Pool) work(wg *sync.WaitGroup, taskQueue <-chan chunkTask, total int, fn func(i int)) {
	defer wg.Done()

	for task := range taskQueue {
		for i := task.start; i < task.end; i++ {
			fn(i)
		}
		done := p.completed.Add(int64(task.end - task.start))
		if p.OnProgress != nil {
			p.OnProgress(int(done), total)
		}
	}
}
