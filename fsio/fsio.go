package fsio

import (
	"os"
	"sync"

	"github.com/joeycumines/goja-fsio/eventloop"
	"github.com/joeycumines/logiface"
)

// Continuation is the suspended computation parked while an asynchronous
// operation is outstanding. Exactly one Resume method is invoked per
// operation, on the loop goroutine, once the operation completes.
//
// ResumeWithValue deposits the operation's result and transfers control back
// to the computation. ResumeWithoutValue transfers control with no result
// (close, delete, write). ResumeWithError transfers control with a
// [*HostError] describing the failure.
type Continuation interface {
	ResumeWithValue(v any)
	ResumeWithoutValue()
	ResumeWithError(err error)
}

// FS is the bridge between continuations and the host filesystem. It owns
// the stdin session singleton and tracks in-flight host operations.
//
// All methods must be called from the loop goroutine.
type FS struct {
	loop *eventloop.Loop
	log  *logiface.Logger[logiface.Event]

	// stdinFile is the stream source probed on first StartStdin.
	stdinFile *os.File

	// stdin is the session singleton; nil when no session is live.
	// Loop-confined: touched only from the loop goroutine.
	stdin *stdinSession

	inflight sync.WaitGroup
}

// Option configures an FS instance.
type Option interface {
	applyFS(*fsOptions) error
}

type fsOptions struct {
	logger *logiface.Logger[logiface.Event]
	stdin  *os.File
}

type fsOptionImpl struct {
	applyFSFunc func(*fsOptions) error
}

func (o *fsOptionImpl) applyFS(opts *fsOptions) error {
	return o.applyFSFunc(opts)
}

// WithLogger attaches a structured logger. A nil logger disables logging
// (the default).
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &fsOptionImpl{func(opts *fsOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithStdin overrides the stream used by the stdin session. Defaults to
// [os.Stdin]; tests substitute a pipe.
func WithStdin(f *os.File) Option {
	return &fsOptionImpl{func(opts *fsOptions) error {
		opts.stdin = f
		return nil
	}}
}

// New creates an FS bound to the given loop.
func New(loop *eventloop.Loop, opts ...Option) (*FS, error) {
	cfg := &fsOptions{stdin: os.Stdin}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyFS(cfg); err != nil {
			return nil, err
		}
	}
	return &FS{
		loop:      loop,
		log:       cfg.logger,
		stdinFile: cfg.stdin,
	}, nil
}

// Loop returns the event loop driving this FS's completions.
func (fs *FS) Loop() *eventloop.Loop {
	return fs.loop
}

// Wait blocks until all in-flight host operations have completed. It does
// not wait for their completions to run on the loop; it exists for orderly
// teardown after the loop has stopped.
func (fs *FS) Wait() {
	fs.inflight.Wait()
}
