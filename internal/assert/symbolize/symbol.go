// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolize

import (
	"strconv"
	"strings"
)

// Symbol is the display text of one stack frame.
//
// A Symbol either borrows its text from a resolver's table (shared, never
// released by the frame) or owns text built for this frame alone. The zero
// value borrows the Unknown placeholder.
//
// Ownership moves with Take; Release drops owned text exactly once and
// leaves borrowed text untouched.
type Symbol struct {
	text  string
	owned bool
}

// Borrowed returns a Symbol that refers to text owned by someone else.
func Borrowed(text string) Symbol {
	return Symbol{text: text}
}

// Owned returns a Symbol that owns text.
func Owned(text string) Symbol {
	return Symbol{text: text, owned: true}
}

// String returns the display text, or Unknown if there is none.
func (s Symbol) String() string {
	if s.text == "" {
		return Unknown
	}
	return s.text
}

// IsOwned reports whether s owns its text.
func (s Symbol) IsOwned() bool {
	return s.owned
}

// Take moves s out, leaving the receiver as the zero Symbol.
func (s *Symbol) Take() Symbol {
	out := *s
	*s = Symbol{}
	return out
}

// Release drops owned text. It is a no-op for borrowed symbols and for
// symbols already released, so calling it twice is safe.
func (s *Symbol) Release() bool {
	if !s.owned {
		return false
	}
	*s = Symbol{}
	return true
}

// Build produces the display text for the frame at pc.
//
// When the resolver produced a full parse (module, name and offset) the
// result is owned and reads "module(name+0xoff) [0xpc]", with name replaced
// by its demangled form when d recognizes it. Otherwise the resolver's own
// text is passed through borrowed. d may be nil to disable demangling.
func Build(r Resolved, pc uintptr, d *Demangler) Symbol {
	if !r.full() {
		if r.Text == "" {
			return Borrowed(Unknown)
		}
		return Borrowed(r.Text)
	}

	demangled, ok := d.Demangle(r.Name)

	var b strings.Builder
	b.Grow(len(r.Module) + max(len(r.Name), len(demangled)) + 40)
	b.WriteString(r.Module)
	b.WriteByte('(')
	if ok {
		b.Write(demangled)
	} else {
		b.WriteString(r.Name)
	}
	b.WriteString("+0x")
	b.WriteString(strconv.FormatUint(uint64(r.Offset), 16))
	b.WriteString(") [0x")
	b.WriteString(strconv.FormatUint(uint64(pc), 16))
	b.WriteByte(']')

	return Owned(b.String())
}
