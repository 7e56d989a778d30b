// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package gojafsio

import (
	"fmt"
	"os"

	"github.com/dop251/goja"
	"github.com/joeycumines/goja-fsio/eventloop"
	"github.com/joeycumines/goja-fsio/fsio"
)

// Adapter binds the fsio bridge into a Goja runtime. Create with [New], then
// call [Adapter.Bind] to install the JavaScript globals.
//
// All methods installed on the runtime must be invoked on the event loop
// goroutine; see the package documentation for the threading contract.
type Adapter struct {
	fs      *fsio.FS
	runtime *goja.Runtime
	loop    *eventloop.Loop

	// Shared prototypes for wrapped native values, built once in Bind.
	filePrototype *goja.Object
	statPrototype *goja.Object

	// stdinOnData is the callback cached at readStart and kept until end of
	// input. Loop-confined.
	stdinOnData goja.Callable
}

// New creates an Adapter for the given loop and runtime. Options are passed
// through to the underlying [fsio.FS].
func New(loop *eventloop.Loop, runtime *goja.Runtime, opts ...fsio.Option) (*Adapter, error) {
	if loop == nil {
		return nil, fmt.Errorf("loop cannot be nil")
	}
	if runtime == nil {
		return nil, fmt.Errorf("runtime cannot be nil")
	}
	fs, err := fsio.New(loop, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fsio bridge: %w", err)
	}
	return &Adapter{
		fs:      fs,
		runtime: runtime,
		loop:    loop,
	}, nil
}

// Loop returns the underlying event loop.
func (a *Adapter) Loop() *eventloop.Loop {
	return a.loop
}

// Runtime returns the underlying Goja runtime.
func (a *Adapter) Runtime() *goja.Runtime {
	return a.runtime
}

// FS returns the underlying fsio bridge.
func (a *Adapter) FS() *fsio.FS {
	return a.fs
}

// Bind installs the File, Directory, Stdin, and FileFlags globals on the
// runtime. Call once, before running any script that uses them.
func (a *Adapter) Bind() error {
	a.filePrototype = a.buildFilePrototype()
	a.statPrototype = a.buildStatPrototype()

	fileObj := a.runtime.NewObject()
	_ = fileObj.Set("open", a.jsOpen)
	_ = fileObj.Set("delete", a.jsDelete)
	_ = fileObj.Set("realPath", a.jsRealPath)
	_ = fileObj.Set("size", a.jsPathSize)
	_ = fileObj.Set("stat", a.jsPathStat)
	if err := a.runtime.Set("File", fileObj); err != nil {
		return fmt.Errorf("failed to bind File: %w", err)
	}

	dirObj := a.runtime.NewObject()
	_ = dirObj.Set("list", a.jsList)
	if err := a.runtime.Set("Directory", dirObj); err != nil {
		return fmt.Errorf("failed to bind Directory: %w", err)
	}

	stdinObj := a.runtime.NewObject()
	_ = stdinObj.Set("readStart", a.jsStdinReadStart)
	_ = stdinObj.Set("readStop", a.jsStdinReadStop)
	if err := a.runtime.Set("Stdin", stdinObj); err != nil {
		return fmt.Errorf("failed to bind Stdin: %w", err)
	}

	flagsObj := a.runtime.NewObject()
	_ = flagsObj.Set("readOnly", int(fsio.FlagReadOnly))
	_ = flagsObj.Set("writeOnly", int(fsio.FlagWriteOnly))
	_ = flagsObj.Set("readWrite", int(fsio.FlagReadWrite))
	_ = flagsObj.Set("sync", int(fsio.FlagSync))
	_ = flagsObj.Set("create", int(fsio.FlagCreate))
	_ = flagsObj.Set("truncate", int(fsio.FlagTruncate))
	_ = flagsObj.Set("exclusive", int(fsio.FlagExclusive))
	if err := a.runtime.Set("FileFlags", flagsObj); err != nil {
		return fmt.Errorf("failed to bind FileFlags: %w", err)
	}

	return nil
}

// promiseContinuation settles a Goja promise from an operation completion.
// Settlement happens on the loop goroutine; when a script is mid-execution
// the reaction jobs queue inside the runtime and run as it returns.
type promiseContinuation struct {
	resolve func(result any) error
	reject  func(reason any) error
	// convert maps the completion value to a JS value. nil means the value
	// is discarded and the promise resolves with undefined.
	convert func(v any) goja.Value
	runtime *goja.Runtime
}

func (c *promiseContinuation) ResumeWithValue(v any) {
	if c.convert == nil {
		c.resolve(goja.Undefined())
		return
	}
	c.resolve(c.convert(v))
}

func (c *promiseContinuation) ResumeWithoutValue() {
	c.resolve(goja.Undefined())
}

func (c *promiseContinuation) ResumeWithError(err error) {
	c.reject(c.runtime.NewGoError(err))
}

// newContinuation creates a promise and a continuation that settles it.
func (a *Adapter) newContinuation(convert func(v any) goja.Value) (fsio.Continuation, *goja.Promise) {
	p, resolve, reject := a.runtime.NewPromise()
	cont := &promiseContinuation{
		resolve: resolve,
		reject:  reject,
		convert: convert,
		runtime: a.runtime,
	}
	return cont, p
}

// --- File static methods ---

func (a *Adapter) jsOpen(call goja.FunctionCall) goja.Value {
	path := a.pathArg(call, 0, "open")
	flags := fsio.FlagReadOnly
	if arg := call.Argument(1); !goja.IsUndefined(arg) {
		flags = fsio.FileFlag(arg.ToInteger())
	}
	perm := os.FileMode(0o600)
	if arg := call.Argument(2); !goja.IsUndefined(arg) {
		perm = os.FileMode(arg.ToInteger())
	}
	cont, p := a.newContinuation(func(v any) goja.Value {
		return a.wrapFile(v.(*fsio.File))
	})
	a.fs.Open(path, flags, perm, cont)
	return a.runtime.ToValue(p)
}

func (a *Adapter) jsDelete(call goja.FunctionCall) goja.Value {
	path := a.pathArg(call, 0, "delete")
	cont, p := a.newContinuation(nil)
	a.fs.Delete(path, cont)
	return a.runtime.ToValue(p)
}

func (a *Adapter) jsRealPath(call goja.FunctionCall) goja.Value {
	path := a.pathArg(call, 0, "realPath")
	cont, p := a.newContinuation(func(v any) goja.Value {
		return a.runtime.ToValue(v.(string))
	})
	a.fs.RealPath(path, cont)
	return a.runtime.ToValue(p)
}

func (a *Adapter) jsPathSize(call goja.FunctionCall) goja.Value {
	path := a.pathArg(call, 0, "size")
	cont, p := a.newContinuation(func(v any) goja.Value {
		return a.runtime.ToValue(v.(int64))
	})
	a.fs.Size(path, cont)
	return a.runtime.ToValue(p)
}

func (a *Adapter) jsPathStat(call goja.FunctionCall) goja.Value {
	path := a.pathArg(call, 0, "stat")
	cont, p := a.newContinuation(func(v any) goja.Value {
		return a.wrapStat(v.(*fsio.Stat))
	})
	a.fs.Stat(path, cont)
	return a.runtime.ToValue(p)
}

// --- Directory ---

func (a *Adapter) jsList(call goja.FunctionCall) goja.Value {
	path := a.pathArg(call, 0, "list")
	cont, p := a.newContinuation(func(v any) goja.Value {
		names := v.([]string)
		items := make([]interface{}, len(names))
		for i, name := range names {
			items[i] = name
		}
		return a.runtime.NewArray(items...)
	})
	a.fs.List(path, cont)
	return a.runtime.ToValue(p)
}

// --- File instances ---

func (a *Adapter) buildFilePrototype() *goja.Object {
	proto := a.runtime.NewObject()
	_ = proto.Set("read", a.jsFileRead)
	_ = proto.Set("write", a.jsFileWrite)
	_ = proto.Set("close", a.jsFileClose)
	_ = proto.Set("size", a.jsFileSize)
	_ = proto.Set("stat", a.jsFileStat)
	_ = proto.Set("descriptor", a.jsFileDescriptor)
	_ = proto.Set("isOpen", a.jsFileIsOpen)
	return proto
}

// wrapFile produces the JS object for a native handle, stashing the handle
// itself on the wrapper.
func (a *Adapter) wrapFile(f *fsio.File) goja.Value {
	obj := a.runtime.NewObject()
	_ = obj.SetPrototype(a.filePrototype)
	_ = obj.Set("_file", f)
	return obj
}

// nativeFile recovers the stashed handle from a method receiver.
func (a *Adapter) nativeFile(call goja.FunctionCall) *fsio.File {
	obj, ok := call.This.(*goja.Object)
	if !ok {
		panic(a.runtime.NewTypeError("receiver is not a File"))
	}
	v := obj.Get("_file")
	if v == nil {
		panic(a.runtime.NewTypeError("receiver is not a File"))
	}
	f, ok := v.Export().(*fsio.File)
	if !ok {
		panic(a.runtime.NewTypeError("receiver is not a File"))
	}
	return f
}

func (a *Adapter) jsFileRead(call goja.FunctionCall) goja.Value {
	f := a.nativeFile(call)
	length := int(call.Argument(0).ToInteger())
	if length < 0 {
		panic(a.runtime.NewTypeError("read length cannot be negative"))
	}
	offset := call.Argument(1).ToInteger()
	if offset < 0 {
		panic(a.runtime.NewTypeError("read offset cannot be negative"))
	}
	cont, p := a.newContinuation(func(v any) goja.Value {
		return a.runtime.ToValue(a.runtime.NewArrayBuffer(v.([]byte)))
	})
	f.Read(length, offset, cont)
	return a.runtime.ToValue(p)
}

func (a *Adapter) jsFileWrite(call goja.FunctionCall) goja.Value {
	f := a.nativeFile(call)
	data := a.bytesArg(call.Argument(0))
	offset := call.Argument(1).ToInteger()
	if offset < 0 {
		panic(a.runtime.NewTypeError("write offset cannot be negative"))
	}
	cont, p := a.newContinuation(nil)
	f.Write(data, offset, cont)
	return a.runtime.ToValue(p)
}

func (a *Adapter) jsFileClose(call goja.FunctionCall) goja.Value {
	f := a.nativeFile(call)
	cont, p := a.newContinuation(nil)
	f.Close(cont)
	return a.runtime.ToValue(p)
}

func (a *Adapter) jsFileSize(call goja.FunctionCall) goja.Value {
	f := a.nativeFile(call)
	cont, p := a.newContinuation(func(v any) goja.Value {
		return a.runtime.ToValue(v.(int64))
	})
	f.Size(cont)
	return a.runtime.ToValue(p)
}

func (a *Adapter) jsFileStat(call goja.FunctionCall) goja.Value {
	f := a.nativeFile(call)
	cont, p := a.newContinuation(func(v any) goja.Value {
		return a.wrapStat(v.(*fsio.Stat))
	})
	f.Stat(cont)
	return a.runtime.ToValue(p)
}

func (a *Adapter) jsFileDescriptor(call goja.FunctionCall) goja.Value {
	return a.runtime.ToValue(a.nativeFile(call).Descriptor())
}

func (a *Adapter) jsFileIsOpen(call goja.FunctionCall) goja.Value {
	return a.runtime.ToValue(a.nativeFile(call).IsOpen())
}

// --- Stat instances ---

func (a *Adapter) buildStatPrototype() *goja.Object {
	proto := a.runtime.NewObject()
	_ = proto.Set("isFile", a.statMethod(func(s *fsio.Stat) any { return s.IsFile() }))
	_ = proto.Set("isDirectory", a.statMethod(func(s *fsio.Stat) any { return s.IsDirectory() }))
	_ = proto.Set("size", a.statMethod(func(s *fsio.Stat) any { return s.Size() }))
	_ = proto.Set("mode", a.statMethod(func(s *fsio.Stat) any { return s.Mode() }))
	_ = proto.Set("device", a.statMethod(func(s *fsio.Stat) any { return s.Device() }))
	_ = proto.Set("inode", a.statMethod(func(s *fsio.Stat) any { return s.Inode() }))
	_ = proto.Set("linkCount", a.statMethod(func(s *fsio.Stat) any { return s.LinkCount() }))
	_ = proto.Set("user", a.statMethod(func(s *fsio.Stat) any { return s.User() }))
	_ = proto.Set("group", a.statMethod(func(s *fsio.Stat) any { return s.Group() }))
	_ = proto.Set("specialDevice", a.statMethod(func(s *fsio.Stat) any { return s.SpecialDevice() }))
	_ = proto.Set("blockSize", a.statMethod(func(s *fsio.Stat) any { return s.BlockSize() }))
	_ = proto.Set("blockCount", a.statMethod(func(s *fsio.Stat) any { return s.BlockCount() }))
	return proto
}

func (a *Adapter) statMethod(get func(s *fsio.Stat) any) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return a.runtime.ToValue(get(a.nativeStat(call)))
	}
}

func (a *Adapter) wrapStat(s *fsio.Stat) goja.Value {
	obj := a.runtime.NewObject()
	_ = obj.SetPrototype(a.statPrototype)
	_ = obj.Set("_stat", s)
	return obj
}

func (a *Adapter) nativeStat(call goja.FunctionCall) *fsio.Stat {
	obj, ok := call.This.(*goja.Object)
	if !ok {
		panic(a.runtime.NewTypeError("receiver is not a Stat"))
	}
	v := obj.Get("_stat")
	if v == nil {
		panic(a.runtime.NewTypeError("receiver is not a Stat"))
	}
	s, ok := v.Export().(*fsio.Stat)
	if !ok {
		panic(a.runtime.NewTypeError("receiver is not a Stat"))
	}
	return s
}

// --- Stdin ---

func (a *Adapter) jsStdinReadStart(call goja.FunctionCall) goja.Value {
	if arg := call.Argument(0); !goja.IsUndefined(arg) && !goja.IsNull(arg) {
		fn, ok := goja.AssertFunction(arg)
		if !ok {
			panic(a.runtime.NewTypeError("readStart requires a function"))
		}
		a.stdinOnData = fn
	}
	if a.stdinOnData == nil {
		panic(a.runtime.NewTypeError("readStart requires a function"))
	}
	if err := a.fs.StartStdin(a.dispatchStdin); err != nil {
		a.stdinOnData = nil
		panic(a.runtime.NewGoError(err))
	}
	return goja.Undefined()
}

func (a *Adapter) jsStdinReadStop(call goja.FunctionCall) goja.Value {
	a.fs.StopStdin()
	return goja.Undefined()
}

// dispatchStdin forwards one chunk to the cached callback. End of input is
// delivered as null, exactly once, and drops the cached callback so a later
// readStart must supply a fresh one.
func (a *Adapter) dispatchStdin(chunk []byte) {
	fn := a.stdinOnData
	if fn == nil {
		return
	}
	var arg goja.Value
	if chunk == nil {
		a.stdinOnData = nil
		arg = goja.Null()
	} else {
		arg = a.runtime.ToValue(a.runtime.NewArrayBuffer(chunk))
	}
	_, _ = fn(goja.Undefined(), arg)
}

// --- argument helpers ---

func (a *Adapter) pathArg(call goja.FunctionCall, i int, op string) string {
	arg := call.Argument(i)
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		panic(a.runtime.NewTypeError("%s requires a path", op))
	}
	return arg.String()
}

// bytesArg accepts a string, ArrayBuffer, or typed-array view and returns the
// raw bytes. The fsio layer copies before submission, so aliasing the
// caller's backing storage here is fine.
func (a *Adapter) bytesArg(v goja.Value) []byte {
	if goja.IsUndefined(v) || goja.IsNull(v) {
		panic(a.runtime.NewTypeError("write requires a string or ArrayBuffer"))
	}
	switch data := v.Export().(type) {
	case string:
		return []byte(data)
	case goja.ArrayBuffer:
		return data.Bytes()
	case []byte:
		return data
	}
	panic(a.runtime.NewTypeError("write requires a string or ArrayBuffer"))
}
