package eventloop

import (
	"errors"
	"sync"
)

// ErrStopped is returned when posting to a loop which has been stopped.
var ErrStopped = errors.New("event loop stopped")

// Loop runs posted functions on a single goroutine, in FIFO order.
// The queue is unbounded, thus posting never blocks.
type Loop struct {
	mx      sync.Mutex
	queue   []func()
	wakeup  chan struct{}
	stopped bool
	done    chan struct{}
}

// New creates and starts a loop. buflen is a hint for the initial capacity
// of the queue.
func New(buflen int) *Loop {
	if buflen < 0 {
		buflen = 0
	}
	l := &Loop{
		queue:  make([]func(), 0, buflen),
		wakeup: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

// Post enqueues f to be run on the loop goroutine. It does not wait for f
// to be run.
func (l *Loop) Post(f func()) error {
	if f == nil {
		return nil
	}
	l.mx.Lock()
	if l.stopped {
		l.mx.Unlock()
		return ErrStopped
	}
	l.queue = append(l.queue, f)
	l.mx.Unlock()
	select {
	case l.wakeup <- struct{}{}:
	default: // loop has a pending wakeup already
	}
	return nil
}

// Invoke runs f on the loop goroutine and waits for it to complete.
// Invoke must not be called from the loop goroutine itself, as this would
// dead-lock.
func (l *Loop) Invoke(f func()) error {
	finished := make(chan struct{})
	err := l.Post(func() {
		defer close(finished)
		f()
	})
	if err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		select { // f may have been the last function run
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	}
}

// Stop prevents further posts, runs all functions queued so far and then
// terminates the loop goroutine. Stop does not wait; use Done for that.
func (l *Loop) Stop() {
	l.mx.Lock()
	defer l.mx.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	select {
	case l.wakeup <- struct{}{}:
	default:
	}
}

// Done returns a channel which is closed after the loop has terminated.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for range l.wakeup {
		for {
			l.mx.Lock()
			if len(l.queue) == 0 {
				stopped := l.stopped
				l.mx.Unlock()
				if stopped {
					tracer().Debugf("event loop terminated")
					return
				}
				break
			}
			f := l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
			l.mx.Unlock()
			l.dispatch(f)
		}
	}
}

// dispatch runs f, keeping the loop alive if f panics.
func (l *Loop) dispatch(f func()) {
	defer func() {
		if r := recover(); r != nil {
			tracer().Errorf("event loop: recovered from panic: %v", r)
		}
	}()
	f()
}
