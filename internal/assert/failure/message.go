// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package failure

import (
	"fmt"
	"reflect"
	"strings"
)

// Null is written in place of a nil pointer.
const Null = "(null)"

// Message accumulates the text of a failure message.
//
// Each argument passed to Append is rendered with fmt's default format and
// written directly after the previous one, with no separator. A nil
// pointer (or a nil interface) renders as Null instead of fmt's "<nil>".
// The zero value is an empty message ready to use.
type Message struct {
	b strings.Builder
}

// Append writes args to the message.
func (m *Message) Append(args ...any) *Message {
	for _, arg := range args {
		m.appendOne(arg)
	}
	return m
}

func (m *Message) appendOne(arg any) {
	switch v := arg.(type) {
	case nil:
		m.b.WriteString(Null)
	case string:
		m.b.WriteString(v)
	case []byte:
		m.b.Write(v)
	case fmt.Stringer:
		if isNilPointer(v) {
			m.b.WriteString(Null)
			return
		}
		m.b.WriteString(v.String())
	default:
		if isNilPointer(v) {
			m.b.WriteString(Null)
			return
		}
		fmt.Fprint(&m.b, v)
	}
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// String returns the accumulated text.
func (m *Message) String() string {
	return m.b.String()
}

// Len returns the length of the accumulated text in bytes.
func (m *Message) Len() int {
	return m.b.Len()
}

// Reset empties the message.
func (m *Message) Reset() {
	m.b.Reset()
}
