// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !goassert_nostack && !js && !wasip1

package stackwalk

var defaultWalker Walker = Callers{}
