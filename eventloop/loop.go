package eventloop

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// Task is a unit of work executed on the loop goroutine.
type Task func()

// Loop is a single-threaded event loop. All submitted tasks and scheduled
// microtasks execute sequentially on the goroutine that called [Loop.Run],
// so tasks never race with one another.
//
// Tasks may be submitted from any goroutine. Completions submitted while the
// loop is terminating are still drained; only a fully terminated loop rejects
// work.
type Loop struct {
	// Prevent copying
	_ [0]func()

	logger *logiface.Logger[logiface.Event]

	state stateMachine

	mu    sync.Mutex
	queue []Task

	// wake is buffered so a pending signal is never lost; Submit uses a
	// non-blocking send.
	wake chan struct{}

	// microtasks is owned by the loop goroutine; drained after every task.
	microtasks []func()

	stopOnce sync.Once

	// loopDone is closed when Run exits, signalling Shutdown waiters.
	loopDone chan struct{}

	// inflight counts Submit calls in progress, for shutdown drain.
	inflight atomic.Int64

	loopGoroutineID atomic.Uint64
}

// New creates a new event loop.
func New(opts ...LoopOption) (*Loop, error) {
	cfg, err := resolveLoopOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Loop{
		logger:   cfg.logger,
		wake:     make(chan struct{}, 1),
		loopDone: make(chan struct{}),
	}, nil
}

// Run runs the event loop and blocks until fully stopped.
//
// Run blocks until the loop terminates (via Shutdown or ctx cancellation).
// To run in a separate goroutine, use: `go loop.Run(ctx)`.
func (l *Loop) Run(ctx context.Context) error {
	if l.isLoopThread() {
		return ErrReentrantRun
	}

	if !l.state.TryTransition(StateAwake, StateRunning) {
		if l.state.Load() == StateTerminated {
			return ErrLoopTerminated
		}
		return ErrLoopAlreadyRunning
	}

	defer close(l.loopDone)

	l.loopGoroutineID.Store(getGoroutineID())
	defer l.loopGoroutineID.Store(0)

	l.logger.Debug().Log("eventloop: running")

	// Watcher goroutine wakes the loop on context cancellation.
	ctxDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			l.wakeup()
		case <-ctxDone:
		}
	}()
	defer close(ctxDone)

	for {
		select {
		case <-ctx.Done():
			for {
				current := l.state.Load()
				if current == StateTerminating || current == StateTerminated {
					break
				}
				if l.state.TryTransition(current, StateTerminating) {
					break
				}
			}
			l.terminate()
			return ctx.Err()
		default:
		}

		if s := l.state.Load(); s == StateTerminating || s == StateTerminated {
			l.terminate()
			return nil
		}

		l.tick()
	}
}

// tick is a single iteration of the event loop.
func (l *Loop) tick() {
	if l.processTasks() {
		return
	}
	l.sleep()
}

// processTasks drains the external queue, running microtasks after each task.
// Returns true if at least one task ran.
func (l *Loop) processTasks() bool {
	l.mu.Lock()
	tasks := l.queue
	l.queue = nil
	l.mu.Unlock()

	for i, t := range tasks {
		l.safeExecute(t)
		tasks[i] = nil
		l.drainMicrotasks()
	}
	return len(tasks) > 0
}

// drainMicrotasks runs queued microtasks to exhaustion. Microtasks may
// enqueue further microtasks; those run within the same drain.
func (l *Loop) drainMicrotasks() {
	for len(l.microtasks) > 0 {
		fn := l.microtasks[0]
		l.microtasks[0] = nil
		l.microtasks = l.microtasks[1:]
		l.safeExecute(fn)
	}
}

// sleep blocks until woken. The queue is rechecked after the state
// transition so a concurrent Submit cannot be missed: Submit's wake signal
// is buffered and survives until the receive here.
func (l *Loop) sleep() {
	if !l.state.TryTransition(StateRunning, StateSleeping) {
		return
	}

	l.mu.Lock()
	pending := len(l.queue) > 0
	l.mu.Unlock()
	if pending {
		l.state.TryTransition(StateSleeping, StateRunning)
		return
	}

	<-l.wake
	l.state.TryTransition(StateSleeping, StateRunning)
}

// wakeup signals the loop without blocking. A signal is retained while the
// loop is awake, so wakeups are never lost.
func (l *Loop) wakeup() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Submit submits a task to the loop from any goroutine.
//
// State policy during shutdown: StateTerminating still accepts tasks (the
// loop drains in-flight work before exiting); only StateTerminated rejects
// with ErrLoopTerminated.
func (l *Loop) Submit(task Task) error {
	l.inflight.Add(1)
	defer l.inflight.Add(-1)

	if l.state.Load() == StateTerminated {
		return ErrLoopTerminated
	}

	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.mu.Unlock()

	l.wakeup()
	return nil
}

// ScheduleMicrotask schedules a high-priority callback that runs before the
// next task. When called from the loop goroutine it appends directly to the
// microtask queue; from other goroutines it degrades to Submit.
func (l *Loop) ScheduleMicrotask(fn func()) error {
	if l.state.Load() == StateTerminated {
		return ErrLoopTerminated
	}
	if l.isLoopThread() {
		l.microtasks = append(l.microtasks, fn)
		return nil
	}
	return l.Submit(fn)
}

// Shutdown gracefully shuts down the event loop.
//
// Shutdown initiates graceful shutdown that drains all queued tasks. It
// blocks until termination completes or ctx expires.
func (l *Loop) Shutdown(ctx context.Context) error {
	var result error
	l.stopOnce.Do(func() {
		result = l.shutdownImpl(ctx)
	})
	if result == nil && l.state.Load() != StateTerminated {
		return ErrLoopTerminated
	}
	return result
}

// shutdownImpl contains the actual Shutdown implementation.
func (l *Loop) shutdownImpl(ctx context.Context) error {
	for {
		current := l.state.Load()
		if current == StateTerminated || current == StateTerminating {
			return ErrLoopTerminated
		}

		if l.state.TryTransition(current, StateTerminating) {
			if current == StateAwake {
				// Never started; nothing to drain.
				l.state.Store(StateTerminated)
				return nil
			}
			l.wakeup()
			break
		}
	}

	select {
	case <-l.loopDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// terminate performs the shutdown drain on the loop goroutine.
//
// StateTerminated is stored first so new submissions are rejected; any
// Submit that passed its state check before the store is caught by the
// inflight counter and the repeated empty checks below.
func (l *Loop) terminate() {
	l.state.Store(StateTerminated)

	emptyChecks := 0
	const requiredEmptyChecks = 3
	for emptyChecks < requiredEmptyChecks {
		for l.inflight.Load() > 0 {
			runtime.Gosched()
		}

		drained := l.processTasks()
		if len(l.microtasks) > 0 {
			l.drainMicrotasks()
			drained = true
		}

		if drained || l.inflight.Load() > 0 {
			emptyChecks = 0
		} else {
			emptyChecks++
			runtime.Gosched()
		}
	}

	l.logger.Debug().Log("eventloop: terminated")
}

// safeExecute executes a task with panic recovery.
func (l *Loop) safeExecute(fn func()) {
	if fn == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			l.logger.Err().Any("panic", r).Log("eventloop: task panicked")
		}
	}()

	fn()
}

// State returns the current loop state.
func (l *Loop) State() LoopState {
	return l.state.Load()
}

// isLoopThread checks if we're on the loop goroutine.
func (l *Loop) isLoopThread() bool {
	loopID := l.loopGoroutineID.Load()
	if loopID == 0 {
		return false
	}
	return getGoroutineID() == loopID
}

// getGoroutineID returns the current goroutine's ID.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
