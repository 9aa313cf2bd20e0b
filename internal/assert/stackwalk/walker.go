// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stackwalk captures raw return addresses of the calling goroutine.
//
// Two walkers exist:
//   - Callers: the Go runtime unwinder (runtime.Callers), available on every
//     platform that ships a full Go runtime.
//   - Stub: captures nothing; used where unwinding is unavailable or was
//     disabled at build time with the goassert_nostack tag.
//
// The walker picked at build time is returned by Default (see
// default_callers.go and default_stub.go).
//
// An empty capture is a valid outcome. Callers must treat zero frames as
// "no trace available", never as an error.
package stackwalk

import "runtime"

// Walker fills pcs with return addresses of the current goroutine.
//
// skip is the number of frames to omit above the caller of Capture:
// skip == 0 makes pcs[0] the function that called Capture.
// Capture returns the number of entries written. It never panics and never
// blocks on anything but the runtime unwinder itself.
type Walker interface {
	Capture(pcs []uintptr, skip int) int
}

// Callers walks the stack with the Go runtime unwinder.
type Callers struct{}

// Capture implements Walker.
func (Callers) Capture(pcs []uintptr, skip int) int {
	if len(pcs) == 0 {
		return 0
	}
	if skip < 0 {
		skip = 0
	}

	// +2: runtime.Callers itself and this method.
	return runtime.Callers(skip+2, pcs)
}

// Stub never captures anything.
type Stub struct{}

// Capture implements Walker.
func (Stub) Capture([]uintptr, int) int {
	return 0
}

// Default returns the walker selected for this build.
func Default() Walker {
	return defaultWalker
}

// Supported reports whether the build-selected walker can capture frames.
func Supported() bool {
	_, stub := defaultWalker.(Stub)
	return !stub
}
