// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows

package terminate

import "golang.org/x/sys/windows"

func abort() {
	// Same status the C runtime's abort() reports.
	windows.ExitProcess(ExitCode)
}
