package workerpool

import (
	"campussafety/internal/log"
	"context"
	"sync"
	"time"
)

type Job func(ctx context.Context)

type WorkerPool struct {
	queue  chan Job
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewWorkerPool(ctx context.Context, workerCount int, queueSize int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	pool := &WorkerPool{
		queue: make(chan Job, queueSize),
	}

	for range workerCount {
		go pool.worker(ctx)
	}

	return pool
}

func (p *WorkerPool) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Debug("worker received shutdown signal")
			return
		case job, ok := <-p.queue:
			if !ok {
				// queue closed
				return
			}
			job(ctx)
			p.wg.Done()
		}
	}
}

// Submit queues job without blocking. It returns false when the queue is
// full or the pool is shut down.
func (p *WorkerPool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}

	p.wg.Add(1)
	select {
	case p.queue <- job:
		return true
	default:
		p.wg.Done()
		log.Warn("worker pool queue full, job rejected")
		return false
	}
}

// Shutdown stops accepting jobs and waits for queued ones until ctx ends
func (p *WorkerPool) Shutdown(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		log.Warn("worker pool shutdown timed out")
	case <-done:
		log.Info("worker pool shutdown complete")
	}
}

// WithRetry runs job up to retries times, sleeping delay between attempts.
// onGiveUp receives the last error once every attempt failed.
func WithRetry(retries int, delay time.Duration, job func(ctx context.Context) error, onGiveUp func(error)) Job {
	return func(ctx context.Context) {
		var err error
		for i := range retries {
			if ctx.Err() != nil {
				log.Debug("job canceled before execution")
				if onGiveUp != nil {
					onGiveUp(ctx.Err())
				}
				return
			}

			err = job(ctx)
			if err == nil {
				return // success
			}
			log.Warnf("job failed (attempt %d/%d): %v", i+1, retries, err)
			if i < retries-1 {
				select {
				case <-ctx.Done():
				case <-time.After(delay):
				}
			}
		}
		log.Errorf("job failed after %d attempts", retries)
		if onGiveUp != nil {
			onGiveUp(err)
		}
	}
}
