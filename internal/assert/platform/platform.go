// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform bundles a stack walker, a symbol resolver and a
// demangling policy into one capability set.
//
// Three backends exist:
//
//	runtime  Go runtime unwinder + pclntab resolver + demangler
//	symtab   Go runtime unwinder + executable symbol table + demangler
//	stub     captures nothing; every trace is empty
//
// The default backend is chosen at build time: stub when stack walking is
// unavailable (js, wasip1, or the goassert_nostack tag), runtime otherwise.
// A backend can also be picked by name, which is how the GOASSERT_BACKEND
// environment variable is honored.
package platform

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kolkov/goassert/internal/assert/stackwalk"
	"github.com/kolkov/goassert/internal/assert/symbolize"
)

// Backend names accepted by ByName.
const (
	NameRuntime = "runtime"
	NameSymtab  = "symtab"
	NameStub    = "stub"
)

// ErrUnknownBackend is returned by ByName for an unrecognized name.
var ErrUnknownBackend = errors.New("platform: unknown backend")

// Backend is the capability set used to build a stack trace.
type Backend interface {
	// Name identifies the backend ("runtime", "symtab" or "stub").
	Name() string

	// Capture fills pcs with return addresses. skip == 0 makes pcs[0] the
	// caller of Capture.
	Capture(pcs []uintptr, skip int) int

	// Resolve maps one return address to a symbol.
	Resolve(pc uintptr) symbolize.Resolved

	// NewDemangler returns a fresh demangler for one capture, or nil when
	// the backend does not demangle.
	NewDemangler() *symbolize.Demangler
}

type backend struct {
	name     string
	walker   stackwalk.Walker
	resolver symbolize.Resolver
	demangle bool
}

func (b *backend) Name() string { return b.name }

func (b *backend) Capture(pcs []uintptr, skip int) int {
	// +1 for this method.
	return b.walker.Capture(pcs, skip+1)
}

func (b *backend) Resolve(pc uintptr) symbolize.Resolved {
	return b.resolver.Resolve(pc)
}

func (b *backend) NewDemangler() *symbolize.Demangler {
	if !b.demangle {
		return nil
	}
	return symbolize.NewDemangler()
}

func (b *backend) String() string { return b.name }

// Runtime returns the backend built on the Go runtime's own unwinder and
// function table. It names every Go frame, including those of the standard
// library, but not C functions reached through cgo.
func Runtime() Backend {
	return &backend{
		name:     NameRuntime,
		walker:   stackwalk.Callers{},
		resolver: symbolize.NewRuntime(),
		demangle: true,
	}
}

// Symtab returns the backend that resolves addresses through the running
// executable's symbol table. The table is loaded on first use; load
// failures are reported to logger once. A nil logger discards them.
func Symtab(logger *zap.Logger) Backend {
	return &backend{
		name:     NameSymtab,
		walker:   stackwalk.Callers{},
		resolver: symbolize.NewSymtab("", logger),
		demangle: true,
	}
}

// Stub returns the backend that never captures a frame.
func Stub() Backend {
	return &backend{
		name:     NameStub,
		walker:   stackwalk.Stub{},
		resolver: symbolize.NopResolver{},
	}
}

// Default returns the backend selected for this build.
func Default() Backend {
	if !stackwalk.Supported() {
		return Stub()
	}
	return Runtime()
}

// ByName returns the backend called name. Matching ignores case and
// surrounding space.
func ByName(name string, logger *zap.Logger) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameRuntime:
		return Runtime(), nil
	case NameSymtab:
		return Symtab(logger), nil
	case NameStub:
		return Stub(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}
