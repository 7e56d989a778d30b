// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package eventloop implements the single-threaded run loop that drives all
// asynchronous completions in this module.
//
// The loop executes tasks sequentially on the goroutine that called
// [Loop.Run]. Work is handed to it from other goroutines via [Loop.Submit];
// [Loop.ScheduleMicrotask] queues callbacks that run before the next task.
// Because everything runs on one goroutine, callbacks never race with one
// another, and state touched only from callbacks needs no locking.
//
// Lifecycle: a loop is created with [New], started with [Loop.Run] (which
// blocks), and stopped with [Loop.Shutdown] or by cancelling Run's context.
// Shutdown is graceful: tasks submitted while the loop is terminating are
// still drained, and only a fully terminated loop rejects work with
// [ErrLoopTerminated].
package eventloop
