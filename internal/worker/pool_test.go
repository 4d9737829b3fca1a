package worker

import (
	"context"
	"errors"
	"testing"
)

type squareJob struct{ n int }

type squareResult struct {
	n   int
	err error
}

func (r squareResult) GetError() error { return r.err }

func (j squareJob) Execute(ctx context.Context) Result {
	if j.n < 0 {
		return squareResult{err: errors.New("negative")}
	}
	return squareResult{n: j.n * j.n}
}

func TestPool_RunsEveryJob(t *testing.T) {
	pool := NewPool(context.Background(), 3)
	pool.Start()

	go func() {
		defer pool.Close()
		for i := -1; i < 10; i++ {
			pool.Submit(squareJob{n: i})
		}
	}()

	sum, failures := 0, 0
	for r := range pool.Results() {
		if r.GetError() != nil {
			failures++
			continue
		}
		sum += r.(squareResult).n
	}

	if sum != 285 {
		t.Errorf("Expected sum of squares 285, got %d", sum)
	}
	if failures != 1 {
		t.Errorf("Expected 1 failure, got %d", failures)
	}
}

func TestPool_SubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 1)
	cancel()

	// fill the queue so only the cancelled branch is ready
	for i := 0; i < cap(pool.jobQueue); i++ {
		pool.jobQueue <- squareJob{n: i}
	}
	if pool.Submit(squareJob{n: 1}) {
		t.Error("Expected Submit to fail after cancel")
	}

	pool.Shutdown()
	if _, ok := <-pool.Results(); ok {
		t.Error("Expected results closed after Shutdown")
	}
}

func TestPool_ZeroWorkers(t *testing.T) {
	pool := NewPool(context.Background(), 0)
	if pool.workers != 1 {
		t.Errorf("Expected 1 worker, got %d", pool.workers)
	}
	pool.Start()
	pool.Close()
	for range pool.Results() {
	}
}
