// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dispatch turns a failure into a report and hands it to a handler.
//
// A Config carries everything the failure path needs: the platform backend
// used to capture stacks, six formatters, the installed handler, the error
// stream and the termination policy. Configs are explicit values; the
// assert package owns the process default.
//
// Pipeline for one failure:
//
//	build message -> capture stack -> Dispatch -> handler -> terminate?
//
// The formatter set and the handler slot are guarded by one read/write
// lock. Dispatch copies the handler under the lock and invokes the copy
// after releasing it, so a handler may itself call SetHandler, Dispatch or
// trigger another assertion without deadlocking.
package dispatch

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kolkov/goassert/internal/assert/failure"
	"github.com/kolkov/goassert/internal/assert/platform"
	"github.com/kolkov/goassert/internal/assert/stacktrace"
	"github.com/kolkov/goassert/internal/assert/terminate"
)

// Handler receives each failure once.
type Handler func(f *failure.Failure)

// Config is the failure-handling configuration. Create one with New; the
// zero value is not usable.
type Config struct {
	mu         sync.RWMutex
	formatters FormatterSet
	handler    Handler

	backend   platform.Backend
	terminate terminate.Func
	logger    *zap.Logger

	outMu  sync.Mutex
	output io.Writer
}

// Option configures a Config.
type Option func(*Config)

// WithBackend sets the backend used to capture and resolve stacks.
func WithBackend(b platform.Backend) Option {
	return func(c *Config) {
		if b != nil {
			c.backend = b
		}
	}
}

// WithOutput sets the stream the default handler writes to.
func WithOutput(w io.Writer) Option {
	return func(c *Config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithTerminator sets what the default handler does after writing.
func WithTerminator(fn terminate.Func) Option {
	return func(c *Config) {
		if fn != nil {
			c.terminate = fn
		}
	}
}

// WithLogger sets the logger for configuration and resolver diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHandler installs h instead of the default handler.
func WithHandler(h Handler) Option {
	return func(c *Config) {
		if h != nil {
			c.handler = h
		}
	}
}

// WithFormatter overrides the non-nil slots of fs.
func WithFormatter(fs FormatterSet) Option {
	return func(c *Config) {
		c.formatters.merge(fs)
	}
}

// New returns a Config with the default backend, formatters and handler,
// writing to os.Stderr and aborting after a report, then applies opts.
func New(opts ...Option) *Config {
	c := &Config{
		formatters: DefaultFormatters(),
		backend:    platform.Default(),
		terminate:  terminate.Abort(),
		logger:     zap.NewNop(),
		output:     os.Stderr,
	}
	c.handler = c.DefaultHandler

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backend returns the stack capture backend.
func (c *Config) Backend() platform.Backend {
	return c.backend
}

// Logger returns the diagnostics logger.
func (c *Config) Logger() *zap.Logger {
	return c.logger
}

// SetHandler installs h. A nil handler is ignored.
func (c *Config) SetHandler(h Handler) {
	if h == nil {
		return
	}
	c.mu.Lock()
	c.handler = h
	c.mu.Unlock()
}

// SetDefaultHandler reinstalls DefaultHandler.
func (c *Config) SetDefaultHandler() {
	c.mu.Lock()
	c.handler = c.DefaultHandler
	c.mu.Unlock()
}

// Handler returns the installed handler.
func (c *Config) Handler() Handler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.handler
}

// SetFormatter replaces the formatter slots that are set in fs and keeps
// the others.
func (c *Config) SetFormatter(fs FormatterSet) {
	c.mu.Lock()
	c.formatters.merge(fs)
	c.mu.Unlock()
}

// SetDefaultFormatter restores all six default formatters.
func (c *Config) SetDefaultFormatter() {
	c.mu.Lock()
	c.formatters = DefaultFormatters()
	c.mu.Unlock()
}

// Formatters returns a copy of the current formatter set.
func (c *Config) Formatters() FormatterSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.formatters
}

// FormatBool renders a failed boolean check with the current formatter.
func (c *Config) FormatBool(expr, actual, expected string) string {
	return c.Formatters().Bool(expr, actual, expected)
}

// FormatPredicate renders a failed comparison with the current formatter.
func (c *Config) FormatPredicate(lhs, op, rhs, lhsValue, rhsValue string) string {
	return c.Formatters().Predicate(lhs, op, rhs, lhsValue, rhsValue)
}

// FormatStatement renders a failed statement with the current formatter.
func (c *Config) FormatStatement(statement string) string {
	return c.Formatters().Statement(statement)
}

// FormatStreamed renders user message text with the current formatter.
func (c *Config) FormatStreamed(text string) string {
	return c.Formatters().Streamed(text)
}

// FormatFrame renders one frame line with the current formatter.
func (c *Config) FormatFrame(index int, pc uintptr, symbol string) string {
	return c.Formatters().Frame(index, pc, symbol)
}

// FormatAssertion renders the complete report for f.
func (c *Config) FormatAssertion(f *failure.Failure) string {
	return c.Formatters().Assertion(f.File, f.Line, f.Function, f.Message(), f.StackTrace())
}

// StackTrace captures the calling goroutine's stack and renders it with the
// Frame formatter. skip == 0 starts at the caller of StackTrace. It also
// returns the fingerprint of the captured addresses.
func (c *Config) StackTrace(skip int) (string, uint64) {
	// +1 for StackTrace itself.
	st := stacktrace.Capture(c.backend, skip+1)
	defer st.Release()

	frame := c.Formatters().Frame
	var b strings.Builder
	for i := 0; i < st.Len(); i++ {
		fr, err := st.At(i)
		if err != nil {
			break
		}
		b.WriteString(frame(i, fr.PC, fr.Symbol.String()))
	}
	return b.String(), st.Fingerprint()
}

// Fail captures the stack into f and dispatches it. skip == 0 starts the
// trace at the caller of Fail.
func (c *Config) Fail(f *failure.Failure, skip int) {
	// +1 for Fail itself.
	text, fingerprint := c.StackTrace(skip + 1)
	f.SetStackTrace(text)
	f.Fingerprint = fingerprint
	c.Dispatch(f)
}

// Dispatch hands f to the installed handler. The handler runs without the
// configuration lock held.
func (c *Config) Dispatch(f *failure.Failure) {
	h := c.Handler()
	h(f)
}

// DefaultHandler writes the rendered report for f to the configured stream
// in a single Write and then applies the termination policy.
func (c *Config) DefaultHandler(f *failure.Failure) {
	report := c.FormatAssertion(f)

	c.outMu.Lock()
	_, err := io.WriteString(c.output, report)
	c.outMu.Unlock()
	if err != nil {
		c.logger.Warn("writing assertion report failed", zap.Error(err))
	}

	c.terminate(f)
}

// Chain returns a handler that calls each non-nil handler in order. Put a
// terminating handler last; nothing after it runs.
func Chain(handlers ...Handler) Handler {
	var hs []Handler
	for _, h := range handlers {
		if h != nil {
			hs = append(hs, h)
		}
	}
	return func(f *failure.Failure) {
		for _, h := range hs {
			h(f)
		}
	}
}
