// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"strconv"
	"strings"
)

// FormatterSet holds the six rendering functions of a Config. A nil slot
// means "use the default"; SetFormatter only replaces non-nil slots.
type FormatterSet struct {
	// Bool renders a failed boolean check: the expression text and its
	// actual and expected values.
	Bool func(expr, actual, expected string) string

	// Predicate renders a failed binary comparison.
	Predicate func(lhs, op, rhs, lhsValue, rhsValue string) string

	// Statement renders a failed free-form statement.
	Statement func(statement string) string

	// Assertion renders the complete report from its parts.
	Assertion func(file string, line int, function, message, stack string) string

	// Streamed renders user-supplied message text appended after the
	// assertion text.
	Streamed func(text string) string

	// Frame renders one stack frame line.
	Frame func(index int, pc uintptr, symbol string) string
}

// DefaultFormatters returns the built-in formatter set.
func DefaultFormatters() FormatterSet {
	return FormatterSet{
		Bool:      FormatBool,
		Predicate: FormatPredicate,
		Statement: FormatStatement,
		Assertion: FormatAssertion,
		Streamed:  FormatStreamed,
		Frame:     FormatFrame,
	}
}

// merge overwrites the slots of fs that are set in other.
func (fs *FormatterSet) merge(other FormatterSet) {
	if other.Bool != nil {
		fs.Bool = other.Bool
	}
	if other.Predicate != nil {
		fs.Predicate = other.Predicate
	}
	if other.Statement != nil {
		fs.Statement = other.Statement
	}
	if other.Assertion != nil {
		fs.Assertion = other.Assertion
	}
	if other.Streamed != nil {
		fs.Streamed = other.Streamed
	}
	if other.Frame != nil {
		fs.Frame = other.Frame
	}
}

// FormatBool is the default Bool formatter:
//
//	Assertion failure value of: <expr>
//	  Actual: <actual>
//	Expected: <expected>
func FormatBool(expr, actual, expected string) string {
	return "Assertion failure value of: " + expr +
		"\n  Actual: " + actual +
		"\nExpected: " + expected
}

// FormatPredicate is the default Predicate formatter:
//
//	Assertion failure value of: ( <lhs> <op> <rhs> )
//	  <lhs> evaluated to: <lhsValue>
//	  <rhs> evaluated to: <rhsValue>
func FormatPredicate(lhs, op, rhs, lhsValue, rhsValue string) string {
	return "Assertion failure value of: ( " + lhs + " " + op + " " + rhs + " )" +
		"\n  " + lhs + " evaluated to: " + lhsValue +
		"\n  " + rhs + " evaluated to: " + rhsValue
}

// FormatStatement is the default Statement formatter.
func FormatStatement(statement string) string {
	return "Assertion failure: " + statement
}

// FormatAssertion is the default Assertion formatter:
//
//	<file>:<line>: <function>: <message>
//	<stack>
func FormatAssertion(file string, line int, function, message, stack string) string {
	var b strings.Builder
	b.Grow(len(file) + len(function) + len(message) + len(stack) + 16)
	b.WriteString(file)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(line))
	b.WriteString(": ")
	b.WriteString(function)
	b.WriteString(": ")
	b.WriteString(message)
	b.WriteByte('\n')
	b.WriteString(stack)
	b.WriteByte('\n')
	return b.String()
}

// FormatStreamed is the default Streamed formatter. It starts user text on
// its own line.
func FormatStreamed(text string) string {
	return "\n" + text
}

// FormatFrame is the default Frame formatter: "<index> 0x<pc> <symbol>".
func FormatFrame(index int, pc uintptr, symbol string) string {
	return strconv.Itoa(index) + " 0x" + strconv.FormatUint(uint64(pc), 16) + " " + symbol + "\n"
}
