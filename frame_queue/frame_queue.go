package frame_queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

type queueImpl struct {
	mu      sync.Mutex
	frames  []AudioFrame
	head    int
	count   int
	dropped atomic.Uint64
	notify  chan struct{}
}

type Config struct {
	Capacity int
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", cfg.Capacity)
	}

	return &queueImpl{
		frames: make([]AudioFrame, cfg.Capacity),
		notify: make(chan struct{}, 1),
	}, nil
}

// Push adds a frame, evicting the oldest unread frame when the queue is
// full. The capture callback calls this on the hardware cadence, so it never
// blocks and never allocates.
func (q *queueImpl) Push(frame AudioFrame) {
	q.mu.Lock()

	if q.count == len(q.frames) {
		// overwrite the oldest frame
		q.head = (q.head + 1) % len(q.frames)
		q.count--
		q.dropped.Add(1)
	}

	q.frames[(q.head+q.count)%len(q.frames)] = frame
	q.count++

	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// PopBatch removes and returns all queued frames in arrival order. It blocks
// until at least one frame is available; a cancelled context returns
// (nil, false) and is how shutdown unblocks the processing loop.
func (q *queueImpl) PopBatch(ctx context.Context) ([]AudioFrame, bool) {
	for {
		q.mu.Lock()
		if q.count > 0 {
			batch := make([]AudioFrame, q.count)
			for i := 0; i < q.count; i++ {
				batch[i] = q.frames[(q.head+i)%len(q.frames)]
			}

			q.head = 0
			q.count = 0
			q.mu.Unlock()

			return batch, true
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, false
		case <-q.notify:
		}
	}
}

// Dropped returns how many frames have been evicted due to overflow.
func (q *queueImpl) Dropped() uint64 {
	return q.dropped.Load()
}
