package importer

import (
	"context"
	"sync"

	klog "github.com/Klingon-tech/klingnet-seed/internal/log"
	"github.com/Klingon-tech/klingnet-seed/internal/onboard"
)

// DefaultQueueSize is the number of requests a Queue buffers.
const DefaultQueueSize = 16

// ResultFunc observes finished imports. res is nil when err is set.
type ResultFunc func(req onboard.ImportRequest, res *Result, err error)

// Queue runs imports on a single background worker. It implements
// onboard.Dispatcher; Dispatch never blocks.
type Queue struct {
	imp      *Importer
	creds    Credentials
	jobs     chan onboard.ImportRequest
	onResult ResultFunc

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewQueue creates a queue that imports with creds. size <= 0 means
// DefaultQueueSize. onResult may be nil.
func NewQueue(imp *Importer, creds Credentials, size int, onResult ResultFunc) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		imp:      imp,
		creds:    creds,
		jobs:     make(chan onboard.ImportRequest, size),
		onResult: onResult,
	}
}

// Start launches the worker. Calling Start twice is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.stopped {
		return
	}
	q.started = true

	ctx, q.cancel = context.WithCancel(ctx)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.run(ctx)
	}()
}

// Stop cancels the worker, waits for it to exit and fails any requests
// still buffered.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	if q.cancel != nil {
		q.cancel()
	}
	q.mu.Unlock()

	q.wg.Wait()

	for {
		select {
		case req := <-q.jobs:
			q.reject(req, ErrQueueStopped)
		default:
			return
		}
	}
}

// Dispatch enqueues req. A full or stopped queue records the request as
// failed instead of blocking the caller.
func (q *Queue) Dispatch(req onboard.ImportRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		q.reject(req, ErrQueueStopped)
		return
	}
	select {
	case q.jobs <- req:
		klog.Importer.Debug().Str("id", req.ID).Msg("Import queued")
	default:
		q.reject(req, ErrQueueFull)
	}
}

func (q *Queue) reject(req onboard.ImportRequest, cause error) {
	klog.Importer.Warn().Str("id", req.ID).Err(cause).Msg("Import rejected")
	if err := q.imp.Fail(req, q.creds, cause); err != nil {
		klog.Importer.Error().Err(err).Str("id", req.ID).Msg("Failed to record rejected import")
	}
	if q.onResult != nil {
		q.onResult(req, nil, cause)
	}
}

func (q *Queue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-q.jobs:
			res, err := q.imp.Import(ctx, req, q.creds)
			if q.onResult != nil {
				q.onResult(req, res, err)
			}
		}
	}
}

var _ onboard.Dispatcher = (*Queue)(nil)
