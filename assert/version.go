// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assert

import "github.com/kolkov/goassert/internal/assert/stackwalk"

// Version information for goassert.
const (
	// Version is the current library version.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info describes the library as configured in this process.
type Info struct {
	// Version is the library version string.
	Version string

	// Backend names the backend of the default configuration.
	Backend string

	// StackSupported reports whether this build can walk the stack at all.
	StackSupported bool
}

// GetInfo returns information about the default configuration.
//
// Example:
//
//	info := assert.GetInfo()
//	fmt.Printf("goassert %s (%s)\n", info.Version, info.Backend)
func GetInfo() Info {
	return Info{
		Version:        Version,
		Backend:        Default().Backend().Name(),
		StackSupported: stackwalk.Supported(),
	}
}
