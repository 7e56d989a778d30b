// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package gojafsio binds asynchronous filesystem and stdin operations into a
// Goja JavaScript runtime, driven by this module's event loop.
//
// JavaScript code sees promise-returning filesystem calls:
//
//	const file = await File.open("/tmp/data.bin", FileFlags.readWrite | FileFlags.create);
//	await file.write("hello", 0);
//	const bytes = await file.read(5, 0); // ArrayBuffer
//	await file.close();
//
// Each call submits the blocking host operation to a worker goroutine and
// suspends the awaiting script behind a promise; the completion resolves or
// rejects that promise on the loop goroutine. See the fsio package for the
// request/completion/resume protocol underneath.
//
// # Binding
//
//	loop, _ := eventloop.New()
//	runtime := goja.New()
//	adapter, err := gojafsio.New(loop, runtime)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := adapter.Bind(); err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = loop.Submit(func() {
//	    _, _ = runtime.RunString(`File.open("/etc/hostname", FileFlags.readOnly)
//	        .then(f => f.read(64, 0))`)
//	})
//	_ = loop.Run(context.Background())
//
// # Available JavaScript Globals
//
// After binding, the following globals are available:
//
//   - File.open(path, flags[, mode]) → Promise<File>
//   - File.delete(path) → Promise<undefined>
//   - File.realPath(path) → Promise<string>
//   - File.size(path) → Promise<number>
//   - File.stat(path) → Promise<Stat>
//   - Directory.list(path) → Promise<string[]>
//   - Stdin.readStart(onData) / Stdin.readStop()
//   - FileFlags : portable open-flag constants
//
// File instances expose read(length, offset), write(data, offset), close(),
// size(), stat(), descriptor(), and isOpen(). Stat instances expose
// isFile(), isDirectory(), size(), mode(), device(), inode(), linkCount(),
// user(), group(), specialDevice(), blockSize(), and blockCount().
//
// Stdin.readStart's onData callback receives an ArrayBuffer per chunk and
// null exactly once at end of input, after which the session is gone and a
// later readStart probes the stream again.
//
// # Thread Safety
//
// The Goja runtime is not thread-safe. After binding, all script execution
// and all promise settlement happen on the event loop goroutine; run scripts
// via [eventloop.Loop.Submit] or from within callbacks.
package gojafsio
