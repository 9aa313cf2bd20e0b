// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stacktrace captures and symbolizes the stack of the calling
// goroutine at the point an assertion fails.
//
// A StackTrace is a fixed-size value: return addresses and resolved frames
// live in arrays inside the struct, so capturing never grows a slice.
// Capture runs the whole pipeline once:
//
//	walker -> resolver -> demangler -> symbol
//
// and the result is immutable afterwards.
//
// Usage:
//
//	st := stacktrace.Capture(platform.Default(), 0)
//	for i := 0; i < st.Len(); i++ {
//	    f, _ := st.At(i)
//	    fmt.Printf("%d 0x%x %s\n", i, f.PC, f.Symbol)
//	}
package stacktrace

import (
	"errors"
	"fmt"
	"hash/fnv"
	"unsafe"

	"github.com/kolkov/goassert/internal/assert/platform"
	"github.com/kolkov/goassert/internal/assert/symbolize"
)

// Capacity is the maximum number of frames a StackTrace holds. Deeper
// stacks are truncated.
const Capacity = 256

// ErrOutOfRange is wrapped by the error At returns for an index outside
// the captured frames.
var ErrOutOfRange = errors.New("stacktrace: frame index out of range")

// Frame is one captured stack frame.
type Frame struct {
	PC     uintptr
	Symbol symbolize.Symbol
}

// StackTrace is a bounded, symbolized snapshot of a goroutine stack.
//
// Invariant: 0 <= Len() <= Capacity.
type StackTrace struct {
	pcs    [Capacity]uintptr
	frames [Capacity]Frame
	size   int
	skip   int
}

// Capture records the stack of the calling goroutine with b.
//
// skip counts frames above the caller of Capture: with skip == 0 the first
// frame is the function that called Capture. A nil backend or a backend
// that cannot walk the stack yields an empty trace, never an error.
func Capture(b platform.Backend, skip int) *StackTrace {
	st := &StackTrace{skip: skip}
	if b == nil {
		return st
	}
	if skip < 0 {
		skip = 0
	}

	// +1 for Capture itself.
	n := b.Capture(st.pcs[:], skip+1)
	if n <= 0 {
		return st
	}
	if n > Capacity {
		n = Capacity
	}

	d := b.NewDemangler()
	for i := 0; i < n; i++ {
		pc := st.pcs[i]
		st.frames[i] = Frame{
			PC:     pc,
			Symbol: symbolize.Build(b.Resolve(pc), pc, d),
		}
	}
	st.size = n

	return st
}

// Len returns the number of captured frames.
func (st *StackTrace) Len() int {
	if st == nil {
		return 0
	}
	return st.size
}

// Capacity returns the maximum number of frames.
func (st *StackTrace) Capacity() int {
	return Capacity
}

// Skip returns the skip count the trace was captured with.
func (st *StackTrace) Skip() int {
	if st == nil {
		return 0
	}
	return st.skip
}

// At returns frame i. Index 0 is the innermost frame.
func (st *StackTrace) At(i int) (Frame, error) {
	if i < 0 || i >= st.Len() {
		return Frame{}, fmt.Errorf("%w: index %d, size %d", ErrOutOfRange, i, st.Len())
	}
	return st.frames[i], nil
}

// Fingerprint returns the FNV-1a hash of the captured return addresses.
// Two failures raised from the same call path in the same binary share a
// fingerprint; an empty trace hashes to 0.
func (st *StackTrace) Fingerprint() uint64 {
	if st.Len() == 0 {
		return 0
	}

	h := fnv.New64a()
	for _, pc := range st.pcs[:st.size] {
		//nolint:gosec // G103: reading the address bytes only
		_, _ = h.Write((*[unsafe.Sizeof(pc)]byte)(unsafe.Pointer(&pc))[:])
	}
	return h.Sum64()
}

// Release drops every owned frame symbol. Borrowed symbols are left alone
// and a second Release is a no-op.
func (st *StackTrace) Release() {
	if st == nil {
		return
	}
	for i := 0; i < st.size; i++ {
		st.frames[i].Symbol.Release()
	}
}
