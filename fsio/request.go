package fsio

// request tracks one in-flight asynchronous operation and the continuation
// parked on it. It exclusively owns its transient buffer from submission
// until completion.
//
// A request is settled exactly once: the error path and the success paths
// are mutually exclusive, and settling twice panics.
type request struct {
	fs   *FS
	cont Continuation
	buf  []byte
	done bool
}

// newRequest allocates tracking state for an operation that resumes cont
// when it completes.
func (fs *FS) newRequest(cont Continuation) *request {
	return &request{fs: fs, cont: cont}
}

// release consumes the request, dropping buffer ownership. Every settle path
// funnels through here, so each request frees exactly once no matter which
// branch settles it.
func (r *request) release() Continuation {
	if r.done {
		panic("fsio: request settled twice")
	}
	r.done = true
	r.buf = nil
	return r.cont
}

func (r *request) settleValue(v any) {
	r.release().ResumeWithValue(v)
}

func (r *request) settleVoid() {
	r.release().ResumeWithoutValue()
}

func (r *request) settleError(err error) {
	r.release().ResumeWithError(err)
}

// submit runs op on a worker goroutine and delivers its completion on the
// loop goroutine. The completion checks the error before touching the
// result — result buffers are invalid on failure — then stores the value and
// resumes the continuation.
//
// If the loop refuses the completion (terminated), the request settles
// directly on the worker goroutine so the continuation is never left parked.
func (fs *FS) submit(r *request, op func() (any, error)) {
	fs.inflight.Add(1)
	go func() {
		defer fs.inflight.Done()

		v, err := op()

		complete := func() {
			if err != nil {
				r.settleError(err)
				return
			}
			r.settleValue(v)
		}
		if serr := fs.loop.Submit(complete); serr != nil {
			complete()
		}
	}()
}

// submitVoid is submit for operations with no result.
func (fs *FS) submitVoid(r *request, op func() error) {
	fs.inflight.Add(1)
	go func() {
		defer fs.inflight.Done()

		err := op()

		complete := func() {
			if err != nil {
				r.settleError(err)
				return
			}
			r.settleVoid()
		}
		if serr := fs.loop.Submit(complete); serr != nil {
			complete()
		}
	}()
}
