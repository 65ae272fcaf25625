package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestPool_EveryIndexOnce(t *testing.T) {
	tests := []struct {
		name      string
		workers   int
		n         int
		chunkSize int
	}{
		{"single worker", 1, 1000, 64},
		{"many workers", 8, 1000, 7},
		{"chunk larger than n", 4, 10, 100},
		{"default chunk", 3, 5000, 0},
		{"default workers", 0, 777, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(tt.workers)
			counts := make([]int32, tt.n)
			pool.Run(tt.n, tt.chunkSize, func(i int) {
				atomic.AddInt32(&counts[i], 1)
			})

			for i, c := range counts {
				if c != 1 {
					t.Fatalf("Index %d ran %d times", i, c)
				}
			}
			if pool.Completed() != tt.n {
				t.Errorf("Expected %d completed, got %d", tt.n, pool.Completed())
			}
		})
	}
}

func TestPool_Empty(t *testing.T) {
	pool := NewPool(2)
	called := false
	pool.Run(0, 10, func(int) { called = true })
	if called {
		t.Error("Expected no calls for n=0")
	}
	if pool.NumWorkers() != 2 {
		t.Errorf("Expected 2 workers, got %d", pool.NumWorkers())
	}
}

func TestPool_Progress(t *testing.T) {
	pool := NewPool(4)

	var mu sync.Mutex
	maxDone := 0
	calls := 0
	pool.OnProgress = func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if total != 100 {
			t.Errorf("Expected total 100, got %d", total)
		}
		maxDone = max(maxDone, done)
	}

	pool.Run(100, 10, func(int) {})

	if calls != 10 {
		t.Errorf("Expected 10 progress calls, got %d", calls)
	}
	if maxDone != 100 {
		t.Errorf("Expected final progress 100, got %d", maxDone)
	}
}
