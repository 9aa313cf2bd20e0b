// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolize

import (
	"strings"

	"github.com/ianlancetaylor/demangle"
)

// initialScratch is the starting capacity of the demangler's buffer.
const initialScratch = 256

// Demangler turns mangled symbol names into readable text.
//
// Recognized forms:
//   - Itanium C++ ABI names ("_Z...", "__Z..." on Darwin)
//   - Rust v0 names ("_R...") and legacy Rust names, which use the C++ form
//   - Go linker names whose import path carries %xx escapes
//     ("gopkg.in/yaml%2ev3.Unmarshal")
//
// A Demangler keeps one scratch buffer and reuses it across calls. The
// bytes returned by Demangle alias that buffer and are overwritten by the
// next call on the same Demangler; copy them to keep them. A Demangler is
// not safe for concurrent use.
type Demangler struct {
	buf []byte
}

// NewDemangler returns a Demangler with a preallocated scratch buffer.
func NewDemangler() *Demangler {
	return &Demangler{buf: make([]byte, 0, initialScratch)}
}

// Demangle returns the readable form of raw. The second result is false
// when raw is not a recognized mangling or cannot be decoded; the caller
// should then show raw unchanged.
func (d *Demangler) Demangle(raw string) ([]byte, bool) {
	if d == nil || raw == "" {
		return nil, false
	}

	switch {
	case isMangled(raw):
		name := raw
		if strings.HasPrefix(name, "__Z") {
			// Mach-O prepends an underscore to every C symbol.
			name = name[1:]
		}
		out, err := demangle.ToString(name, demangle.NoClones)
		if err != nil {
			return nil, false
		}
		d.buf = append(d.buf[:0], out...)

	case strings.Contains(raw, "%"):
		out, ok := appendUnescaped(d.buf[:0], raw)
		if !ok {
			return nil, false
		}
		d.buf = out

	default:
		return nil, false
	}

	return d.buf, true
}

// Cap reports the current capacity of the scratch buffer.
func (d *Demangler) Cap() int {
	if d == nil {
		return 0
	}
	return cap(d.buf)
}

func isMangled(name string) bool {
	return strings.HasPrefix(name, "_Z") ||
		strings.HasPrefix(name, "__Z") ||
		strings.HasPrefix(name, "_R")
}

// appendUnescaped appends s to dst with every %xx sequence decoded. It
// reports false if s holds a malformed escape.
func appendUnescaped(dst []byte, s string) ([]byte, bool) {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b != '%' {
			dst = append(dst, b)
			continue
		}
		if i+2 >= len(s) {
			return dst, false
		}
		hi, ok1 := fromHex(s[i+1])
		lo, ok2 := fromHex(s[i+2])
		if !ok1 || !ok2 {
			return dst, false
		}
		dst = append(dst, hi<<4|lo)
		i += 2
	}
	return dst, true
}

func fromHex(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
