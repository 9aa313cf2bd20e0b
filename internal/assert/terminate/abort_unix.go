// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package terminate

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// abortGrace bounds how long abort waits for the signal to be delivered.
const abortGrace = 2 * time.Second

func abort() {
	// The runtime turns SIGABRT into a crash with a goroutine dump.
	if err := unix.Kill(unix.Getpid(), unix.SIGABRT); err == nil {
		time.Sleep(abortGrace)
	}
	os.Exit(ExitCode)
}
