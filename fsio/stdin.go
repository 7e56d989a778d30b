package fsio

import (
	"errors"
	"io"
	"sync/atomic"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// StdinHandler receives input chunks on the loop goroutine, one chunk per
// invocation. A nil chunk signals end of input; by the time the handler
// observes it the session has already torn itself down.
type StdinHandler func(chunk []byte)

type stdinKind int

const (
	stdinPipe stdinKind = iota
	stdinTerminal
)

func (k stdinKind) String() string {
	if k == stdinTerminal {
		return "terminal"
	}
	return "pipe"
}

const (
	terminalChunkSize = 4 * 1024
	pipeChunkSize     = 64 * 1024
)

// stdinSession owns the process's input stream. At most one exists per FS:
// created lazily on the first StartStdin, destroyed on end-of-input or
// ShutdownStdin. The stream kind is probed once at creation and persists for
// the session's life.
type stdinSession struct {
	fs      *FS
	kind    stdinKind
	reader  cancelreader.CancelReader
	handler StdinHandler

	// pending parks a chunk that arrived after StopStdin, delivered on the
	// next start. Loop-confined, as is pendingEOF.
	pending    []byte
	pendingEOF bool

	// stopped gates both delivery and the reader goroutine.
	stopped atomic.Bool
	// closed marks the session torn down; set before the reader is canceled.
	closed atomic.Bool

	// resume releases the reader goroutine after a stop/start cycle.
	resume chan struct{}
	// quit releases the reader goroutine at teardown.
	quit chan struct{}
}

// StartStdin begins input delivery. On first use the stream kind is probed
// (terminal vs pipe) and the session created; the handler is cached then and
// kept until teardown. A start after StopStdin resumes delivery on the same
// stream without redetection.
func (fs *FS) StartStdin(h StdinHandler) error {
	if fs.stdin == nil {
		s, err := fs.newStdinSession(h)
		if err != nil {
			return err
		}
		fs.stdin = s
		go s.run()
		return nil
	}
	fs.stdin.start()
	return nil
}

// StopStdin pauses delivery without destroying the stream.
func (fs *FS) StopStdin() {
	if fs.stdin != nil {
		fs.stdin.stop()
	}
}

// ShutdownStdin tears down the stdin session, if any, without signalling
// end of input. A subsequent StartStdin re-runs detection from scratch.
func (fs *FS) ShutdownStdin() {
	if fs.stdin != nil {
		fs.stdin.teardown()
	}
}

// StdinActive reports whether a live stdin session exists.
func (fs *FS) StdinActive() bool {
	return fs.stdin != nil
}

func (fs *FS) newStdinSession(h StdinHandler) (*stdinSession, error) {
	source := fs.stdinFile
	kind := stdinPipe
	if term.IsTerminal(int(source.Fd())) {
		kind = stdinTerminal
	}
	reader, err := cancelreader.NewReader(source)
	if err != nil {
		return nil, hostError("stdin", source.Name(), err)
	}
	fs.log.Debug().Str("kind", kind.String()).Log("fsio: stdin session created")
	return &stdinSession{
		fs:      fs,
		kind:    kind,
		reader:  reader,
		handler: h,
		resume:  make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}, nil
}

// run is the reader goroutine: it reads one chunk at a time and hands each
// to the loop for dispatch. The loop serializes deliveries; there is no
// internal queue.
func (s *stdinSession) run() {
	size := pipeChunkSize
	if s.kind == stdinTerminal {
		size = terminalChunkSize
	}
	buf := make([]byte, size)

	for {
		if s.stopped.Load() {
			select {
			case <-s.resume:
			case <-s.quit:
				return
			}
			continue
		}

		n, err := s.reader.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			_ = s.fs.loop.Submit(func() { s.dispatch(chunk) })
		}
		if err != nil {
			switch {
			case errors.Is(err, cancelreader.ErrCanceled):
			case errors.Is(err, io.EOF):
				_ = s.fs.loop.Submit(func() { s.dispatchEOF() })
			default:
				// Only end-of-input is a distinguished outcome; other read
				// failures stop delivery without a handler call.
				s.fs.log.Warning().Err(err).Log("fsio: stdin read failed")
			}
			return
		}
	}
}

// start resumes delivery, flushing anything parked while stopped.
func (s *stdinSession) start() {
	if s.stopped.Swap(false) {
		select {
		case s.resume <- struct{}{}:
		default:
		}
	}
	if s.pending != nil {
		chunk := s.pending
		s.pending = nil
		_ = s.fs.loop.Submit(func() { s.dispatch(chunk) })
	}
	if s.pendingEOF {
		s.pendingEOF = false
		_ = s.fs.loop.Submit(func() { s.dispatchEOF() })
	}
}

func (s *stdinSession) stop() {
	s.stopped.Store(true)
}

// dispatch runs on the loop goroutine and invokes the cached handler with
// one chunk. A chunk that raced a stop is parked for the next start.
func (s *stdinSession) dispatch(chunk []byte) {
	if s.closed.Load() {
		return
	}
	if s.stopped.Load() {
		s.pending = chunk
		return
	}
	s.handler(chunk)
}

// dispatchEOF tears the session down, then invokes the handler exactly once
// with the absent-value signal. Teardown happens first so a handler that
// immediately restarts stdin gets a fresh session.
func (s *stdinSession) dispatchEOF() {
	if s.closed.Load() {
		return
	}
	if s.stopped.Load() {
		s.pendingEOF = true
		return
	}
	h := s.handler
	s.teardown()
	if h != nil {
		h(nil)
	}
}

// teardown releases the stream and all cached state. Idempotent.
func (s *stdinSession) teardown() {
	if s.closed.Swap(true) {
		return
	}
	close(s.quit)
	s.reader.Cancel()
	s.handler = nil
	s.pending = nil
	s.pendingEOF = false
	s.fs.stdin = nil
	s.fs.log.Debug().Log("fsio: stdin session released")
}
