// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symbolize maps raw return addresses to readable symbols.
//
// The package holds three collaborating pieces:
//
//  1. Resolver: address -> (module, raw name, offset). Two implementations:
//     Runtime reads the Go pclntab through runtime.FuncForPC; Symtab reads
//     the running executable's own ELF, Mach-O or PE symbol table.
//  2. Demangler: best-effort conversion of a mangled name (Itanium C++,
//     Rust, escaped Go import paths) into readable text.
//  3. Symbol: the display text of one frame, either borrowed from the
//     resolver's table or owned by the frame.
//
// Resolution is best-effort. An address that cannot be resolved produces
// the Unknown placeholder and never fails the surrounding trace.
package symbolize

// Unknown is the placeholder shown for addresses no resolver could map.
const Unknown = "<unknown>"

// Resolved is the result of resolving one address.
//
// Text is the platform-provided display string for the address. It is
// shown unchanged when the full (Module, Name, Offset) parse is not
// available. Both Text and Name point into the resolver's own tables and
// must not be modified.
type Resolved struct {
	Module string
	Name   string
	Offset uintptr
	Text   string
	OK     bool
}

// full reports whether module, name and offset are all known.
func (r Resolved) full() bool {
	return r.OK && r.Module != "" && r.Name != ""
}

// Resolver maps a return address to a symbol.
//
// pc is a return address as produced by runtime.Callers; implementations
// look up pc-1 so that calls at the very end of a function resolve to the
// caller rather than the next function. Resolve must be safe to call from
// any goroutine; implementations backed by non-thread-safe state serialize
// internally.
type Resolver interface {
	Resolve(pc uintptr) Resolved
}

// NopResolver resolves nothing.
type NopResolver struct{}

// Resolve implements Resolver.
func (NopResolver) Resolve(uintptr) Resolved {
	return Resolved{Text: Unknown}
}
