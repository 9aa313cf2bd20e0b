// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package failure holds the report assembled when an assertion fails.
//
// A Failure is built once per failed assertion, handed to exactly one
// handler and then dropped. It records:
//
//   - File, Line, Function: the assertion site
//   - Message: the rendered assertion text followed by any user message
//   - StackTrace: the rendered stack, one line per frame
//   - ID, Time: identity used by logging and metrics handlers
//
// Failure is not safe for concurrent mutation; the pipeline that builds it
// runs on the failing goroutine only.
package failure

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Failure is the report of one failed assertion.
type Failure struct {
	// ID uniquely identifies this failure in logs and traces.
	ID uuid.UUID

	// Time is when the failure was detected.
	Time time.Time

	// File and Line locate the assertion in source.
	File string
	Line int

	// Function is the fully qualified name of the function holding the
	// assertion.
	Function string

	// Fingerprint hashes the captured return addresses. Failures raised
	// from the same call path share it. Zero when no trace was captured.
	Fingerprint uint64

	message    Message
	stackTrace string
}

// New returns a Failure for the assertion at file:line in function.
func New(file string, line int, function string) *Failure {
	return &Failure{
		ID:       uuid.New(),
		Time:     time.Now(),
		File:     file,
		Line:     line,
		Function: function,
	}
}

// Message returns the accumulated message text.
func (f *Failure) Message() string {
	return f.message.String()
}

// AppendMessage appends args to the message. See Message.Append.
func (f *Failure) AppendMessage(args ...any) *Failure {
	f.message.Append(args...)
	return f
}

// SetMessage replaces the message text.
func (f *Failure) SetMessage(text string) *Failure {
	f.message.Reset()
	f.message.Append(text)
	return f
}

// StackTrace returns the rendered stack trace. It is empty when no trace
// was captured.
func (f *Failure) StackTrace() string {
	return f.stackTrace
}

// SetStackTrace stores the rendered stack trace.
func (f *Failure) SetStackTrace(text string) {
	f.stackTrace = text
}

// Location returns "file:line".
func (f *Failure) Location() string {
	return f.File + ":" + strconv.Itoa(f.Line)
}

// Error returns "file:line: function: message", so a Failure can travel as
// an error or a panic value.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s: %s", f.Location(), f.Function, f.Message())
}
