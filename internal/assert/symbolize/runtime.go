// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolize

import (
	"os"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"

	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// Runtime resolves addresses against the pclntab of the running binary.
//
// The module text of a resolved frame is the Go module that owns the
// function's package ("path@version", or just the path for the main module
// and for untagged builds). Functions from the standard library report
// "std". When build information is unavailable the executable path is used.
//
// Runtime is safe for concurrent use and needs no locking: the pclntab is
// immutable and the module index is built once.
type Runtime struct {
	modules *moduleIndex
}

// NewRuntime returns a resolver backed by runtime.FuncForPC.
func NewRuntime() *Runtime {
	return &Runtime{modules: sharedModuleIndex()}
}

// Resolve implements Resolver.
func (r *Runtime) Resolve(pc uintptr) Resolved {
	if pc == 0 {
		return Resolved{Text: Unknown}
	}

	fn := runtime.FuncForPC(pc - 1)
	if fn == nil {
		return Resolved{Text: Unknown}
	}

	// Name points into the pclntab; it is borrowed, never copied.
	name := fn.Name()
	if name == "" {
		return Resolved{Text: Unknown}
	}

	return Resolved{
		Module: r.modules.lookup(name),
		Name:   name,
		Offset: pc - fn.Entry(),
		Text:   name,
		OK:     true,
	}
}

var (
	moduleIndexOnce sync.Once
	moduleIndexVal  *moduleIndex
)

func sharedModuleIndex() *moduleIndex {
	moduleIndexOnce.Do(func() {
		moduleIndexVal = buildModuleIndex(debug.ReadBuildInfo, executablePath())
	})
	return moduleIndexVal
}

// moduleIndex attributes package paths to the modules of the build list.
type moduleIndex struct {
	// mods is sorted by descending path length so the first prefix match
	// is the most specific module.
	mods     []module.Version
	fallback string
}

func buildModuleIndex(read func() (*debug.BuildInfo, bool), fallback string) *moduleIndex {
	idx := &moduleIndex{fallback: fallback}

	info, ok := read()
	if !ok || info == nil {
		return idx
	}

	add := func(m *debug.Module) {
		if m == nil || m.Path == "" {
			return
		}
		if module.CheckImportPath(m.Path) != nil {
			return
		}
		version := m.Version
		if m.Replace != nil && m.Replace.Version != "" {
			version = m.Replace.Version
		}
		idx.mods = append(idx.mods, module.Version{Path: m.Path, Version: version})
	}

	add(&info.Main)
	for _, dep := range info.Deps {
		add(dep)
	}

	sort.SliceStable(idx.mods, func(i, j int) bool {
		return len(idx.mods[i].Path) > len(idx.mods[j].Path)
	})

	return idx
}

func (idx *moduleIndex) lookup(funcName string) string {
	pkg := packagePath(funcName)
	if pkg == "" {
		return idx.fallback
	}

	for _, m := range idx.mods {
		if pkg == m.Path || strings.HasPrefix(pkg, m.Path+"/") {
			return moduleText(m)
		}
	}

	if isStdPackage(pkg) {
		return "std"
	}

	return idx.fallback
}

func moduleText(m module.Version) string {
	if semver.IsValid(m.Version) {
		return m.String()
	}
	return m.Path
}

// packagePath extracts the import path from a runtime function name such as
// "github.com/a/b%2ev2.(*T).M" or "main.main". The result is unescaped.
func packagePath(funcName string) string {
	if funcName == "" {
		return ""
	}

	// Method receivers are parenthesized and may themselves contain dots.
	if sep := strings.Index(funcName, ".("); sep >= 0 {
		return unescapePath(funcName[:sep])
	}

	offset := 0
	if sep := strings.LastIndexByte(funcName, '/'); sep >= 0 {
		offset = sep + 1
	}

	sep := strings.IndexByte(funcName[offset:], '.')
	if sep < 0 {
		return ""
	}

	return unescapePath(funcName[:offset+sep])
}

func isStdPackage(pkg string) bool {
	first := pkg
	if i := strings.IndexByte(pkg, '/'); i >= 0 {
		first = pkg[:i]
	}
	return !strings.Contains(first, ".") && first != "main"
}

func unescapePath(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	out, ok := appendUnescaped(nil, s)
	if !ok {
		return s
	}
	return string(out)
}

func executablePath() string {
	if exe, err := os.Executable(); err == nil && exe != "" {
		return exe
	}
	if len(os.Args) > 0 && os.Args[0] != "" {
		return os.Args[0]
	}
	return Unknown
}
