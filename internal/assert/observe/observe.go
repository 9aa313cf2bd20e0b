// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package observe provides handlers that report failures to logs and
// metrics instead of (or before) terminating.
//
//	cfg.SetHandler(dispatch.Chain(
//	    observe.LogHandler(logger),
//	    counted,             // from observe.Counted(cfg.DefaultHandler, meter)
//	))
package observe

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/kolkov/goassert/internal/assert/dispatch"
	"github.com/kolkov/goassert/internal/assert/failure"
)

// MetricFailedTotal is the counter incremented by Counted.
const MetricFailedTotal = "assertion_failed_total"

// LogHandler returns a handler that logs each failure at error level and
// returns. A nil logger yields a handler that does nothing.
func LogHandler(logger *zap.Logger) dispatch.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(f *failure.Failure) {
		logger.Error("assertion failed",
			zap.Stringer("failure_id", f.ID),
			zap.String("file", f.File),
			zap.Int("line", f.Line),
			zap.String("function", f.Function),
			zap.String("message", f.Message()),
			zap.String("stack", f.StackTrace()),
			zap.Uint64("fingerprint", f.Fingerprint),
		)
	}
}

// Counted returns a handler that increments MetricFailedTotal, labeled by
// function, and then calls next. The counter is recorded before next runs
// because next may terminate the process.
func Counted(next dispatch.Handler, meter metric.Meter) (dispatch.Handler, error) {
	if next == nil {
		return nil, errors.New("observe: nil next handler")
	}

	counter, err := meter.Int64Counter(MetricFailedTotal,
		metric.WithDescription("Number of failed assertions."),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s counter: %w", MetricFailedTotal, err)
	}

	return func(f *failure.Failure) {
		counter.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("function", f.Function)))
		next(f)
	}, nil
}
