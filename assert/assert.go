// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assert

import (
	"cmp"
	"runtime"

	"github.com/kolkov/goassert/internal/assert/dispatch"
	"github.com/kolkov/goassert/internal/assert/failure"
)

// That reports a failure of statement unless ok holds.
//
// Example:
//
//	assert.That(len(buf) <= cap(buf), "len(buf) <= cap(buf)")
func That(ok bool, statement string, msg ...any) bool {
	if ok {
		return true
	}
	cfg := Default()
	report(cfg, cfg.FormatStatement(statement), msg)
	return false
}

// True reports a failure unless cond is true. expr is the source text of
// cond, shown in the report.
func True(cond bool, expr string, msg ...any) bool {
	if cond {
		return true
	}
	cfg := Default()
	report(cfg, cfg.FormatBool(expr, "false", "true"), msg)
	return false
}

// False reports a failure unless cond is false.
func False(cond bool, expr string, msg ...any) bool {
	if !cond {
		return true
	}
	cfg := Default()
	report(cfg, cfg.FormatBool(expr, "true", "false"), msg)
	return false
}

// Eq reports a failure unless lhs == rhs. lhsText and rhsText are the
// source texts of the operands.
func Eq[T comparable](lhs, rhs T, lhsText, rhsText string, msg ...any) bool {
	if lhs == rhs {
		return true
	}
	cfg := Default()
	report(cfg, predicate(cfg, lhs, rhs, lhsText, "==", rhsText), msg)
	return false
}

// Ne reports a failure unless lhs != rhs.
func Ne[T comparable](lhs, rhs T, lhsText, rhsText string, msg ...any) bool {
	if lhs != rhs {
		return true
	}
	cfg := Default()
	report(cfg, predicate(cfg, lhs, rhs, lhsText, "!=", rhsText), msg)
	return false
}

// Lt reports a failure unless lhs < rhs.
func Lt[T cmp.Ordered](lhs, rhs T, lhsText, rhsText string, msg ...any) bool {
	if lhs < rhs {
		return true
	}
	cfg := Default()
	report(cfg, predicate(cfg, lhs, rhs, lhsText, "<", rhsText), msg)
	return false
}

// Le reports a failure unless lhs <= rhs.
func Le[T cmp.Ordered](lhs, rhs T, lhsText, rhsText string, msg ...any) bool {
	if lhs <= rhs {
		return true
	}
	cfg := Default()
	report(cfg, predicate(cfg, lhs, rhs, lhsText, "<=", rhsText), msg)
	return false
}

// Gt reports a failure unless lhs > rhs.
func Gt[T cmp.Ordered](lhs, rhs T, lhsText, rhsText string, msg ...any) bool {
	if lhs > rhs {
		return true
	}
	cfg := Default()
	report(cfg, predicate(cfg, lhs, rhs, lhsText, ">", rhsText), msg)
	return false
}

// Ge reports a failure unless lhs >= rhs.
func Ge[T cmp.Ordered](lhs, rhs T, lhsText, rhsText string, msg ...any) bool {
	if lhs >= rhs {
		return true
	}
	cfg := Default()
	report(cfg, predicate(cfg, lhs, rhs, lhsText, ">=", rhsText), msg)
	return false
}

// Fail unconditionally reports a failure of statement. It is the check for
// code paths that must never run.
func Fail(statement string, msg ...any) {
	cfg := Default()
	report(cfg, cfg.FormatStatement(statement), msg)
}

func predicate(cfg *dispatch.Config, lhs, rhs any, lhsText, op, rhsText string) string {
	return cfg.FormatPredicate(lhsText, op, rhsText, render(lhs), render(rhs))
}

// report builds the failure for the assertion site and dispatches it. It
// must be called directly from the exported check.
func report(cfg *dispatch.Config, text string, msg []any) {
	file, line, function := "???", 0, "???"

	// runtime.Callers, report, the check.
	var pcs [1]uintptr
	if runtime.Callers(3, pcs[:]) > 0 {
		frame, _ := runtime.CallersFrames(pcs[:]).Next()
		file, line, function = frame.File, frame.Line, frame.Function
	}

	f := failure.New(file, line, function)
	f.AppendMessage(text)
	if len(msg) > 0 {
		var m failure.Message
		if m.Append(msg...).Len() > 0 {
			f.AppendMessage(cfg.FormatStreamed(m.String()))
		}
	}

	// report, the check.
	cfg.Fail(f, 2)
}

func render(v any) string {
	var m failure.Message
	return m.Append(v).String()
}
