// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assert

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kolkov/goassert/internal/assert/dispatch"
	"github.com/kolkov/goassert/internal/assert/failure"
	"github.com/kolkov/goassert/internal/assert/platform"
	"github.com/kolkov/goassert/internal/assert/terminate"
)

type (
	// Config is a failure-handling configuration. See New.
	Config = dispatch.Config

	// Option configures a Config.
	Option = dispatch.Option

	// Handler receives each failure once.
	Handler = dispatch.Handler

	// FormatterSet holds the six rendering functions of a Config.
	FormatterSet = dispatch.FormatterSet

	// Failure is the report of one failed assertion.
	Failure = failure.Failure

	// Backend captures and resolves stacks.
	Backend = platform.Backend

	// Terminator decides what happens after the default handler reported.
	Terminator = terminate.Func
)

// Options for New.
var (
	WithBackend    = dispatch.WithBackend
	WithOutput     = dispatch.WithOutput
	WithTerminator = dispatch.WithTerminator
	WithLogger     = dispatch.WithLogger
	WithHandler    = dispatch.WithHandler
	WithFormatter  = dispatch.WithFormatter
)

// Backends.
var (
	RuntimeBackend = platform.Runtime
	SymtabBackend  = platform.Symtab
	StubBackend    = platform.Stub
)

// Terminators.
var (
	Abort    = terminate.Abort
	Exit     = terminate.Exit
	Panic    = terminate.Panic
	Continue = terminate.None
)

// Chain returns a handler that calls each handler in order.
var Chain = dispatch.Chain

// DefaultFormatters returns the built-in formatter set.
var DefaultFormatters = dispatch.DefaultFormatters

// current is the process default configuration. It is never nil after
// package initialization.
var current atomic.Pointer[dispatch.Config]

func init() {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}

	opts := dispatch.FromEnv(os.LookupEnv, logger)
	current.Store(dispatch.New(append(opts, dispatch.WithLogger(logger))...))
}

// New returns a Config with default backend, formatters and handler
// (write to standard error, then abort), modified by opts.
func New(opts ...Option) *Config {
	return dispatch.New(opts...)
}

// Default returns the process default configuration.
func Default() *Config {
	return current.Load()
}

// SetConfig makes c the process default and returns the previous one. A
// nil c is ignored.
func SetConfig(c *Config) *Config {
	if c == nil {
		return current.Load()
	}
	return current.Swap(c)
}

// SetHandler installs h on the default configuration. A nil handler is
// ignored.
func SetHandler(h Handler) {
	Default().SetHandler(h)
}

// SetDefaultHandler reinstalls the default handler on the default
// configuration.
func SetDefaultHandler() {
	Default().SetDefaultHandler()
}

// SetFormatter replaces the set slots of fs on the default configuration.
func SetFormatter(fs FormatterSet) {
	Default().SetFormatter(fs)
}

// SetDefaultFormatter restores the built-in formatters on the default
// configuration.
func SetDefaultFormatter() {
	Default().SetDefaultFormatter()
}
