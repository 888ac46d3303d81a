// Package mailbox provides the single-consumer message queue behind every
// entity of the dispatch system. An entity owns one Mailbox, drains it from a
// single goroutine and never shares its state with anyone else.
package mailbox

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when a message targets a mailbox that stopped.
var ErrClosed = errors.New("mailbox closed")

// Mailbox is an unbounded FIFO queue. Send never blocks, so entities can
// message each other in cycles without deadlocking.
type Mailbox[T any] struct {
	mu     sync.Mutex
	queue  []T
	notify chan struct{}
	closed bool
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{notify: make(chan struct{}, 1)}
}

// Send enqueues msg. It returns false if the mailbox is closed, in which case
// the message is dropped.
func (m *Mailbox[T]) Send(msg T) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.queue = append(m.queue, msg)
	m.mu.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
	return true
}

// Close stops accepting messages. Pending messages are discarded.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	m.closed = true
	m.queue = nil
	m.mu.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Closed reports whether Close was called.
func (m *Mailbox[T]) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Len returns the number of pending messages.
func (m *Mailbox[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Run hands messages to handle one at a time, in arrival order. It returns
// when handle returns false (the mailbox is then closed), when the mailbox is
// closed or when ctx is done.
func (m *Mailbox[T]) Run(ctx context.Context, handle func(T) bool) {
	for {
		msg, ok := m.next(ctx)
		if !ok {
			return
		}
		if !handle(msg) {
			m.Close()
			return
		}
	}
}

func (m *Mailbox[T]) next(ctx context.Context) (T, bool) {
	var zero T
	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return zero, false
		}
		if len(m.queue) > 0 {
			msg := m.queue[0]
			m.queue[0] = zero
			m.queue = m.queue[1:]
			m.mu.Unlock()
			return msg, true
		}
		m.mu.Unlock()
		select {
		case <-m.notify:
		case <-ctx.Done():
			return zero, false
		}
	}
}

// Ask sends the message built by build and waits for the reply it carries.
func Ask[T, R any](ctx context.Context, m *Mailbox[T], build func(reply chan<- R) T) (R, error) {
	var zero R
	reply := make(chan R, 1)
	if !m.Send(build(reply)) {
		return zero, ErrClosed
	}
	select {
	case r := <-reply:
		return r, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
