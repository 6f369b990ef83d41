package services

import (
	"context"
	"fmt"
	"log"
	"sync"
)

type RefreshFunc func(ctx context.Context, wallID int) error

// StatsRefresher runs wall stats refreshes off the request path. Submit
// never blocks: duplicate pending walls are coalesced and a full queue drops
// the task, since stats are a stale-tolerant cache. Failures go to an error
// channel that is drained into the log.
type StatsRefresher struct {
	refresh RefreshFunc
	workers int

	// OnError, if set, is called for every failed refresh after logging.
	OnError func(error)

	tasks chan int
	errs  chan error

	mu      sync.Mutex
	pending map[int]struct{}
	closed  bool
	started bool

	wg       sync.WaitGroup
	errsDone chan struct{}
}

func NewStatsRefresher(refresh RefreshFunc, workers, queueSize int) *StatsRefresher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &StatsRefresher{
		refresh:  refresh,
		workers:  workers,
		tasks:    make(chan int, queueSize),
		errs:     make(chan error, queueSize),
		pending:  make(map[int]struct{}),
		errsDone: make(chan struct{}),
	}
}

func (r *StatsRefresher) Start(ctx context.Context) {
	r.mu.Lock()
	if r.started || r.closed {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	log.Printf("[StatsRefresher] Starting %d workers", r.workers)

	go func() {
		defer close(r.errsDone)
		for err := range r.errs {
			log.Printf("[StatsRefresher] %v", err)
			if r.OnError != nil {
				r.OnError(err)
			}
		}
	}()

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.run(ctx)
	}
}

func (r *StatsRefresher) run(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case wallID, ok := <-r.tasks:
			if !ok {
				return
			}
			r.mu.Lock()
			delete(r.pending, wallID)
			r.mu.Unlock()

			if err := r.refresh(ctx, wallID); err != nil {
				r.report(fmt.Errorf("refresh wall %d: %w", wallID, err))
			}
		}
	}
}

func (r *StatsRefresher) report(err error) {
	select {
	case r.errs <- err:
	default:
		log.Printf("[StatsRefresher] error channel full: %v", err)
	}
}

// Submit enqueues wallID. It reports false when the task was dropped.
func (r *StatsRefresher) Submit(wallID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	if _, ok := r.pending[wallID]; ok {
		return true
	}

	select {
	case r.tasks <- wallID:
		r.pending[wallID] = struct{}{}
		return true
	default:
		log.Printf("[StatsRefresher] Queue full, dropping refresh for wall %d", wallID)
		return false
	}
}

// Stop drains queued tasks, waits for the workers and flushes the error
// log. Submissions after Stop are dropped.
func (r *StatsRefresher) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.tasks)
	started := r.started
	r.mu.Unlock()

	if !started {
		return
	}

	r.wg.Wait()
	close(r.errs)
	<-r.errsDone
	log.Println("[StatsRefresher] Stopped")
}
