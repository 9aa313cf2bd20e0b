// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build goassert_nostack || js || wasip1

// Stack capture disabled.
//
// Selected when the binary is built with -tags goassert_nostack, or for
// targets whose runtime cannot produce useful return addresses. Reports
// are still produced; they simply carry an empty stack trace.

package stackwalk

var defaultWalker Walker = Stub{}
