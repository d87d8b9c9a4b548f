package notify

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrQueueClosed is returned by Queue.Notify after Shutdown.
var ErrQueueClosed = errors.New("notify queue is shut down")

type queued struct {
	ctx     context.Context
	message string
}

// Queue decouples callers from a slow sink. Notify returns as soon as the
// message is queued; a single worker delivers messages in FIFO order.
type Queue struct {
	next            Notifier
	items           []queued
	mutex           sync.Mutex
	cond            *sync.Cond
	closed          bool
	done            chan struct{}
	shutdownCh      chan struct{}
	shutdownOnce    sync.Once
	lastPrintedSize int
}

// NewQueue initializes a new Queue in front of next and starts the worker.
func NewQueue(next Notifier) *Queue {
	q := &Queue{
		next:       next,
		done:       make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mutex)
	go q.process()
	go q.printQueueSize()
	return q
}

// Notify adds message to the queue. Delivery errors are logged by the worker.
func (q *Queue) Notify(ctx context.Context, message string) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	q.items = append(q.items, queued{ctx: context.WithoutCancel(ctx), message: message})
	q.cond.Signal()
	return nil
}

// Len returns the number of messages waiting for delivery.
func (q *Queue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.items)
}

// Shutdown stops accepting messages, delivers the ones already queued and
// waits for the worker to exit.
func (q *Queue) Shutdown() {
	q.mutex.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mutex.Unlock()

	<-q.done
	q.shutdownOnce.Do(func() { close(q.shutdownCh) })
}

// Close shuts the queue down and closes the wrapped sink.
func (q *Queue) Close() error {
	q.Shutdown()
	return Close(q.next)
}

// process delivers queued messages until the queue is shut down and empty.
func (q *Queue) process() {
	defer close(q.done)
	for {
		q.mutex.Lock()
		for len(q.items) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.items) == 0 {
			q.mutex.Unlock()
			return
		}

		item := q.items[0]
		q.items = q.items[1:]
		q.mutex.Unlock()

		if err := q.next.Notify(item.ctx, item.message); err != nil {
			log.Errorf("Notification delivery failed: %v", err)
		}
	}
}

func (q *Queue) printQueueSize() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			q.mutex.Lock()
			currentSize := len(q.items)
			if currentSize != q.lastPrintedSize {
				log.Debugf("Notify queue size: %d", currentSize)
				q.lastPrintedSize = currentSize
			}
			q.mutex.Unlock()
		case <-q.shutdownCh:
			return
		}
	}
}
