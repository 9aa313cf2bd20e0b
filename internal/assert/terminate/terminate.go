// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package terminate implements what happens to the process after the
// default handler has reported a failure.
//
// Policies:
//
//	Abort  raise SIGABRT (unix) or exit with ExitCode; the default
//	Exit   exit with a chosen status code
//	Panic  panic with the failure on the failing goroutine
//	None   return to the caller and let execution continue
package terminate

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kolkov/goassert/internal/assert/failure"
)

// ExitCode is the status used by Abort where no abort signal exists and by
// ByName when no code is given.
const ExitCode = 3

// Policy names accepted by ByName.
const (
	NameAbort = "abort"
	NameExit  = "exit"
	NamePanic = "panic"
	NameNone  = "none"
)

// ErrUnknownPolicy is returned by ByName for an unrecognized name.
var ErrUnknownPolicy = errors.New("terminate: unknown policy")

// Func ends (or deliberately does not end) the process after f has been
// reported. Abort and Exit never return.
type Func func(f *failure.Failure)

// Abort terminates the process abnormally, the way abort(3) does.
func Abort() Func {
	return func(*failure.Failure) {
		abort()
	}
}

// Exit terminates the process with status code.
func Exit(code int) Func {
	return func(*failure.Failure) {
		os.Exit(code)
	}
}

// Panic panics with f. Deferred functions run and a recover further up
// the failing goroutine can observe the failure.
func Panic() Func {
	return func(f *failure.Failure) {
		panic(f)
	}
}

// None does nothing.
func None() Func {
	return func(*failure.Failure) {}
}

// ByName returns the policy called name; code is used by "exit".
func ByName(name string, code int) (Func, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameAbort:
		return Abort(), nil
	case NameExit:
		return Exit(code), nil
	case NamePanic:
		return Panic(), nil
	case NameNone:
		return None(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}
