package eventloop

import (
	"sync/atomic"
)

// LoopState represents the current state of the event loop.
//
// State Machine:
//
//	StateAwake → StateRunning            [Run()]
//	StateRunning ⇄ StateSleeping         [sleep / wake]
//	StateRunning → StateTerminating      [Shutdown()]
//	StateSleeping → StateTerminating     [Shutdown()]
//	StateTerminating → StateTerminated   [drain complete]
//	StateTerminated → (terminal)
//
// Use TryTransition (CAS) for reversible states (Running, Sleeping), and
// Store only for the irreversible StateTerminated.
type LoopState uint64

const (
	// StateAwake indicates the loop has been created but not started.
	StateAwake LoopState = iota
	// StateTerminated indicates the loop has been stopped and is fully shut down.
	StateTerminated
	// StateSleeping indicates the loop is blocked waiting for work.
	StateSleeping
	// StateRunning indicates the loop is actively processing tasks.
	StateRunning
	// StateTerminating indicates shutdown has been requested but not completed.
	StateTerminating
)

// String returns a human-readable representation of the state.
func (s LoopState) String() string {
	switch s {
	case StateAwake:
		return "Awake"
	case StateRunning:
		return "Running"
	case StateSleeping:
		return "Sleeping"
	case StateTerminating:
		return "Terminating"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// stateMachine is the loop's atomic state word.
type stateMachine struct {
	v atomic.Uint64
}

func (s *stateMachine) Load() LoopState {
	return LoopState(s.v.Load())
}

func (s *stateMachine) Store(state LoopState) {
	s.v.Store(uint64(state))
}

// TryTransition atomically moves from one state to another, returning false
// if the current state is not from.
func (s *stateMachine) TryTransition(from, to LoopState) bool {
	return s.v.CompareAndSwap(uint64(from), uint64(to))
}
