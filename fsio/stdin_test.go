package fsio

import (
	"os"
	"testing"
	"time"

	"github.com/joeycumines/goja-fsio/eventloop"
)

type stdinDelivery struct {
	chunk []byte
	eof   bool
}

// stdinFixture wires an FS to the read side of a pipe and collects handler
// deliveries.
type stdinFixture struct {
	fs    *FS
	loop  *eventloop.Loop
	w     *os.File
	gotCh chan stdinDelivery
}

func newStdinFixture(t *testing.T) *stdinFixture {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})

	fs := newTestFS(t, WithStdin(r))
	return &stdinFixture{
		fs:    fs,
		loop:  fs.Loop(),
		w:     w,
		gotCh: make(chan stdinDelivery, 16),
	}
}

func (f *stdinFixture) handler(chunk []byte) {
	if chunk == nil {
		f.gotCh <- stdinDelivery{eof: true}
		return
	}
	f.gotCh <- stdinDelivery{chunk: append([]byte(nil), chunk...)}
}

// onLoop runs fn on the loop goroutine and waits for it, since the stdin
// entry points are loop-confined.
func (f *stdinFixture) onLoop(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	if err := f.loop.Submit(func() {
		fn()
		close(done)
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Loop task never ran")
	}
}

func (f *stdinFixture) start(t *testing.T) {
	t.Helper()
	f.onLoop(t, func() {
		if err := f.fs.StartStdin(f.handler); err != nil {
			t.Errorf("StartStdin failed: %v", err)
		}
	})
}

func (f *stdinFixture) next(t *testing.T) stdinDelivery {
	t.Helper()
	select {
	case d := <-f.gotCh:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("No stdin delivery")
		return stdinDelivery{}
	}
}

func (f *stdinFixture) expectNone(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case d := <-f.gotCh:
		t.Fatalf("Unexpected delivery: chunk=%q eof=%v", d.chunk, d.eof)
	case <-time.After(wait):
	}
}

func TestStdin_ChunksThenEOF(t *testing.T) {
	f := newStdinFixture(t)
	f.start(t)

	if _, err := f.w.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if d := f.next(t); d.eof || string(d.chunk) != "hello" {
		t.Fatalf("First delivery = %+v, want chunk %q", d, "hello")
	}

	if _, err := f.w.Write([]byte("world")); err != nil {
		t.Fatal(err)
	}
	if d := f.next(t); d.eof || string(d.chunk) != "world" {
		t.Fatalf("Second delivery = %+v, want chunk %q", d, "world")
	}

	_ = f.w.Close()
	if d := f.next(t); !d.eof {
		t.Fatalf("Third delivery = %+v, want end of input", d)
	}

	// End of input destroyed the session; nothing further arrives.
	f.expectNone(t, 100*time.Millisecond)
	f.onLoop(t, func() {
		if f.fs.StdinActive() {
			t.Error("Session should be gone after end of input")
		}
	})
}

func TestStdin_StopParksChunk(t *testing.T) {
	f := newStdinFixture(t)
	f.start(t)

	f.onLoop(t, func() { f.fs.StopStdin() })

	if _, err := f.w.Write([]byte("late")); err != nil {
		t.Fatal(err)
	}

	// Delivery is gated while stopped.
	f.expectNone(t, 150*time.Millisecond)

	// Restart releases the parked chunk.
	f.start(t)
	if d := f.next(t); d.eof || string(d.chunk) != "late" {
		t.Fatalf("Delivery after restart = %+v, want chunk %q", d, "late")
	}
}

func TestStdin_StartIsIdempotentWhileRunning(t *testing.T) {
	f := newStdinFixture(t)
	f.start(t)
	f.start(t)

	if _, err := f.w.Write([]byte("once")); err != nil {
		t.Fatal(err)
	}
	if d := f.next(t); string(d.chunk) != "once" {
		t.Fatalf("Delivery = %+v, want chunk %q", d, "once")
	}
	f.expectNone(t, 100*time.Millisecond)
}

func TestStdin_Shutdown(t *testing.T) {
	f := newStdinFixture(t)
	f.start(t)

	f.onLoop(t, func() {
		f.fs.ShutdownStdin()
		if f.fs.StdinActive() {
			t.Error("Session should be gone after ShutdownStdin")
		}
	})

	// Shutdown is silent: no end-of-input delivery, and writes after it go
	// nowhere.
	_, _ = f.w.Write([]byte("ignored"))
	_ = f.w.Close()
	f.expectNone(t, 150*time.Millisecond)
}

func TestStdin_EOFWhileStoppedParks(t *testing.T) {
	f := newStdinFixture(t)
	f.start(t)

	f.onLoop(t, func() { f.fs.StopStdin() })
	_ = f.w.Close()

	f.expectNone(t, 150*time.Millisecond)

	f.start(t)
	if d := f.next(t); !d.eof {
		t.Fatalf("Delivery after restart = %+v, want end of input", d)
	}
	f.onLoop(t, func() {
		if f.fs.StdinActive() {
			t.Error("Session should be gone after end of input")
		}
	})
}
