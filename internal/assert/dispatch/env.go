// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kolkov/goassert/internal/assert/platform"
	"github.com/kolkov/goassert/internal/assert/terminate"
)

// Environment variables read by FromEnv.
const (
	EnvBackend   = "GOASSERT_BACKEND"
	EnvOnFailure = "GOASSERT_ON_FAILURE"
	EnvExitCode  = "GOASSERT_EXIT_CODE"
)

// LookupFunc reports the value of an environment variable. os.LookupEnv
// satisfies it.
type LookupFunc func(key string) (string, bool)

// FromEnv returns the options described by the environment:
//
//	GOASSERT_BACKEND     runtime | symtab | stub
//	GOASSERT_ON_FAILURE  abort | exit | panic | none
//	GOASSERT_EXIT_CODE   status used by "exit" (default 3)
//
// Unset variables contribute nothing. Malformed values are skipped with a
// warning on logger.
func FromEnv(lookup LookupFunc, logger *zap.Logger) []Option {
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts []Option

	if name, ok := lookup(EnvBackend); ok && strings.TrimSpace(name) != "" {
		b, err := platform.ByName(name, logger)
		if err != nil {
			logger.Warn("ignoring invalid environment setting",
				zap.String("key", EnvBackend), zap.String("value", name), zap.Error(err))
		} else {
			opts = append(opts, WithBackend(b))
		}
	}

	code := terminate.ExitCode
	if raw, ok := lookup(EnvExitCode); ok && strings.TrimSpace(raw) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			logger.Warn("ignoring invalid environment setting",
				zap.String("key", EnvExitCode), zap.String("value", raw), zap.Error(err))
		} else {
			code = n
		}
	}

	if name, ok := lookup(EnvOnFailure); ok && strings.TrimSpace(name) != "" {
		fn, err := terminate.ByName(name, code)
		if err != nil {
			logger.Warn("ignoring invalid environment setting",
				zap.String("key", EnvOnFailure), zap.String("value", name), zap.Error(err))
		} else {
			opts = append(opts, WithTerminator(fn))
		}
	}

	return opts
}
