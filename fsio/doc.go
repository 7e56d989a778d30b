// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package fsio bridges suspended computations to asynchronous filesystem and
// stream operations driven by a single-threaded event loop.
//
// A computation issues what looks like a blocking call (open, read, stat,
// ...); the call instead submits the blocking host operation to a worker
// goroutine and parks the computation behind a [Continuation]. When the
// operation completes, its completion runs on the loop goroutine, resolves
// an error or a value, and resumes the continuation — exactly once, error
// path or success path, never both.
//
// # Completion protocol
//
// Every completion follows the same two-phase discipline: check the host
// error first (result buffers are invalid on failure), then extract the
// operation-specific result, then resume. Two resume flavors exist —
// with a value (read, open, stat, ...) and without (close, delete, write).
//
// # Ownership
//
// Transient buffers are owned by their operation request from submission
// until completion; on success, ownership of the result transfers to the
// resuming call. Write buffers are copied at submission because the host
// call's buffer must outlive the call that submitted it.
//
// # Threading
//
// All entry points must be called from the loop goroutine, and all
// continuations are resumed on the loop goroutine. The blocking host call
// itself runs on a worker goroutine; completions from concurrent operations
// may be delivered in any order, independent of submission order.
package fsio
