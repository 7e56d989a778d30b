package fsio

import (
	"io"
	"os"
	"runtime"
	"sync/atomic"
)

// File is a foreign resource wrapping an open descriptor. The descriptor is
// exclusively owned by the handle; a nil pointer is the CLOSED sentinel.
//
// The underlying descriptor is closed at most once no matter how many close
// paths race: both Close and the finalizer take the descriptor with an
// atomic swap, so only one of them ever observes it.
type File struct {
	fs *FS
	f  atomic.Pointer[os.File]
}

// Open opens path asynchronously and resumes cont with the new *File.
// A handle reclaimed by the garbage collector without an explicit close is
// closed by its finalizer.
func (fs *FS) Open(path string, flags FileFlag, perm os.FileMode, cont Continuation) {
	r := fs.newRequest(cont)
	fs.submit(r, func() (any, error) {
		f, err := os.OpenFile(path, flags.osFlags(), perm)
		if err != nil {
			return nil, hostError("open", path, err)
		}
		file := &File{fs: fs}
		file.f.Store(f)
		runtime.SetFinalizer(file, (*File).finalize)
		return file, nil
	})
}

// Close closes the handle and resumes cont with no value. Closing an
// already-closed handle is a successful no-op with no host call.
//
// The handle is marked CLOSED before the asynchronous close is submitted,
// so a second concurrent close cannot race in.
func (file *File) Close(cont Continuation) {
	f := file.f.Swap(nil)
	if f == nil {
		cont.ResumeWithoutValue()
		return
	}
	r := file.fs.newRequest(cont)
	file.fs.submitVoid(r, func() error {
		if err := f.Close(); err != nil {
			return hostError("close", f.Name(), err)
		}
		return nil
	})
}

// finalize runs when the owning object is reclaimed without an explicit
// close. No computation awaits it; the close is synchronous and the result
// is discarded.
func (file *File) finalize() {
	if f := file.f.Swap(nil); f != nil {
		_ = f.Close()
	}
}

// IsOpen reports whether the handle still owns a descriptor.
func (file *File) IsOpen() bool {
	return file.f.Load() != nil
}

// Descriptor returns the underlying descriptor, or -1 once closed.
func (file *File) Descriptor() int {
	if f := file.f.Load(); f != nil {
		return int(f.Fd())
	}
	return -1
}

// Read reads up to length bytes at offset and resumes cont with the bytes
// actually read — possibly fewer than requested. Reading at or past end of
// file resumes with an empty slice, not an error.
//
// The buffer is owned by the request until completion; on success the
// resumed value aliases only the bytes read and ownership transfers to the
// resuming call.
func (file *File) Read(length int, offset int64, cont Continuation) {
	f := file.f.Load()
	if f == nil {
		cont.ResumeWithError(closedError("read"))
		return
	}
	r := file.fs.newRequest(cont)
	r.buf = make([]byte, length)
	buf := r.buf
	file.fs.submit(r, func() (any, error) {
		n, err := f.ReadAt(buf, offset)
		if err != nil && err != io.EOF {
			return nil, hostError("read", f.Name(), err)
		}
		return buf[:n:n], nil
	})
}

// Write writes p at offset and resumes cont with no value. p is copied into
// a request-owned buffer before submission: the host call's buffer must
// outlive the call that submitted it, and the caller may reuse p
// immediately. Short writes are reported as-is by the host error, never
// retried.
func (file *File) Write(p []byte, offset int64, cont Continuation) {
	f := file.f.Load()
	if f == nil {
		cont.ResumeWithError(closedError("write"))
		return
	}
	r := file.fs.newRequest(cont)
	r.buf = append([]byte(nil), p...)
	buf := r.buf
	file.fs.submitVoid(r, func() error {
		if _, err := f.WriteAt(buf, offset); err != nil {
			return hostError("write", f.Name(), err)
		}
		return nil
	})
}

// Size resumes cont with the file's size in bytes (async fstat).
func (file *File) Size(cont Continuation) {
	f := file.f.Load()
	if f == nil {
		cont.ResumeWithError(closedError("fstat"))
		return
	}
	r := file.fs.newRequest(cont)
	file.fs.submit(r, func() (any, error) {
		st, err := fstatSnapshot(f)
		if err != nil {
			return nil, err
		}
		return st.Size(), nil
	})
}

// Stat resumes cont with an immutable metadata snapshot (async fstat).
func (file *File) Stat(cont Continuation) {
	f := file.f.Load()
	if f == nil {
		cont.ResumeWithError(closedError("fstat"))
		return
	}
	r := file.fs.newRequest(cont)
	file.fs.submit(r, func() (any, error) {
		st, err := fstatSnapshot(f)
		if err != nil {
			return nil, err
		}
		return st, nil
	})
}
