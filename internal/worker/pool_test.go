package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// mockResult implements Result
type mockResult struct {
	err error
}

func (r mockResult) Err() error {
	return r.err
}

// mockJob implements Job
type mockJob struct {
	duration  time.Duration
	shouldErr bool
	executed  *int32 // atomic counter
}

func (j mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return mockResult{err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return mockResult{err: errors.New("job error")}
	}
	return mockResult{}
}

func TestNewPool(t *testing.T) {
	if p := NewPool(5); p.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p.workers)
	}
	if p := NewPool(0); p.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p.workers)
	}
	if p := NewPool(-1); p.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p.workers)
	}
}

func TestPool_Execution(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var executed int32
	count := 10

	go func() {
		for i := 0; i < count; i++ {
			pool.Submit(mockJob{executed: &executed})
		}
		pool.Close()
	}()

	results := 0
	for range pool.Results() {
		results++
	}

	if results != count {
		t.Errorf("expected %d results, got %d", count, results)
	}
	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, executed)
	}
}

func TestPool_ErrorsSurface(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	go func() {
		pool.Submit(mockJob{shouldErr: true})
		pool.Submit(mockJob{})
		pool.Close()
	}()

	failed := 0
	total := 0
	for res := range pool.Results() {
		total++
		if res.Err() != nil {
			failed++
		}
	}

	if total != 2 {
		t.Fatalf("expected 2 results, got %d", total)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed result, got %d", failed)
	}
}

func TestPool_SubmitAfterStop(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Stop()

	done := make(chan bool, 1)
	go func() {
		done <- pool.Submit(mockJob{})
	}()

	select {
	case accepted := <-done:
		if accepted {
			t.Error("Submit after Stop should be refused")
		}
	case <-time.After(time.Second):
		t.Fatal("Submit after Stop blocked")
	}
}

func TestPool_CloseIsIdempotent(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	pool.Close()
	pool.Close() // must not panic

	for range pool.Results() {
	}
}

func TestPool_StopCancelsInFlightJobs(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	if !pool.Submit(mockJob{duration: 5 * time.Second}) {
		t.Fatal("submit should succeed before stop")
	}

	// Give the worker a moment to pick the job up, then cancel
	time.Sleep(10 * time.Millisecond)
	pool.Stop()

	select {
	case res := <-pool.Results():
		if res != nil && res.Err() == nil {
			t.Error("cancelled job should report the context error")
		}
	case <-time.After(time.Second):
		// The worker may exit without publishing once cancelled; either
		// way it must not run the full 5 seconds
	}
}
