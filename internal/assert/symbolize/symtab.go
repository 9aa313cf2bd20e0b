// Copyright 2025 The goassert Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolize

import (
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"errors"
	"fmt"
	"os"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrNoSymbols is returned by the table loader when the executable carries
// no usable symbol table (for example a binary linked with -ldflags=-s).
var ErrNoSymbols = errors.New("symbolize: executable has no symbol table")

// Symtab resolves addresses against the running executable's own symbol
// table, the way backtrace_symbols or dladdr do for native programs. It is
// the resolver to use when frames from cgo-linked C or C++ code must be
// named: those functions are absent from the Go pclntab but present in the
// linker's symbol table, usually in mangled form.
//
// Loading the table is a one-time, process-wide initialization and the
// table parsers are not safe for concurrent use, so every Resolve call,
// including the first one that triggers the load, runs under a single
// resolver lock. A failed load is logged once and leaves the resolver
// returning Unknown for every address.
type Symtab struct {
	mu     sync.Mutex
	loaded bool
	table  *symbolTable
	path   string
	open   func(path string) (*symbolTable, error)
	logger *zap.Logger
	loads  int
}

// NewSymtab returns a resolver for the executable at path. An empty path
// selects the running executable. A nil logger discards diagnostics.
func NewSymtab(path string, logger *zap.Logger) *Symtab {
	if path == "" {
		path = executablePath()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Symtab{path: path, open: openSymbolTable, logger: logger}
}

// Resolve implements Resolver.
func (s *Symtab) Resolve(pc uintptr) Resolved {
	if pc == 0 {
		return Resolved{Text: Unknown}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.initLocked()
	if s.table == nil {
		return Resolved{Text: Unknown}
	}

	return s.table.lookup(pc - 1)
}

// Loads reports how many times the symbol table was loaded. It is at most 1.
func (s *Symtab) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

func (s *Symtab) initLocked() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.loads++

	table, err := s.open(s.path)
	if err != nil {
		s.logger.Warn("symbol table unavailable, frames will be unresolved",
			zap.String("executable", s.path),
			zap.Error(err))
		return
	}

	table.bias = table.loadBias()
	s.table = table
}

// symbol is one function entry of the executable's symbol table.
type symbol struct {
	name  string
	addr  uint64
	size  uint64
	label string // module(name), shown when no full parse is possible
}

type symbolTable struct {
	module string
	syms   []symbol // sorted by addr
	bias   uint64   // runtime address minus link-time address (PIE / ASLR)
}

func (t *symbolTable) lookup(pc uintptr) Resolved {
	addr := uint64(pc) - t.bias

	i := sort.Search(len(t.syms), func(i int) bool { return t.syms[i].addr > addr }) - 1
	if i < 0 {
		return Resolved{Text: Unknown}
	}

	sym := &t.syms[i]
	end := sym.size
	if end == 0 && i+1 < len(t.syms) {
		end = t.syms[i+1].addr - sym.addr
	}
	if end != 0 && addr-sym.addr >= end {
		return Resolved{Text: Unknown}
	}

	return Resolved{
		Module: t.module,
		Name:   sym.name,
		Offset: uintptr(addr-sym.addr) + 1,
		Text:   sym.label,
		OK:     true,
	}
}

// loadBias computes the difference between where the runtime placed this
// package's code and where the symbol table says it lives. It is zero for
// non-PIE executables.
func (t *symbolTable) loadBias() uint64 {
	anchor := reflect.ValueOf(openSymbolTable).Pointer()
	fn := runtime.FuncForPC(anchor)
	if fn == nil {
		return 0
	}

	name := fn.Name()
	for i := range t.syms {
		if t.syms[i].name == name {
			return uint64(fn.Entry()) - t.syms[i].addr
		}
	}
	return 0
}

func openSymbolTable(path string) (table *symbolTable, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open executable: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
		if err != nil {
			table = nil
		}
	}()

	ef, elfErr := elf.NewFile(f)
	if elfErr == nil {
		syms, err := elfSymbols(ef)
		return finishTable(path, syms, err)
	}

	mf, machoErr := macho.NewFile(f)
	if machoErr == nil {
		syms, err := machoSymbols(mf)
		return finishTable(path, syms, err)
	}

	pf, peErr := pe.NewFile(f)
	if peErr == nil {
		syms, err := peSymbols(pf)
		return finishTable(path, syms, err)
	}

	return nil, fmt.Errorf("unrecognized executable format: %w",
		multierr.Combine(elfErr, machoErr, peErr))
}

func finishTable(path string, syms []symbol, err error) (*symbolTable, error) {
	if err != nil {
		return nil, err
	}
	if len(syms) == 0 {
		return nil, ErrNoSymbols
	}

	sort.Slice(syms, func(i, j int) bool { return syms[i].addr < syms[j].addr })
	for i := range syms {
		syms[i].label = path + "(" + syms[i].name + ")"
	}

	return &symbolTable{module: path, syms: syms}, nil
}

func elfSymbols(f *elf.File) ([]symbol, error) {
	all, err := f.Symbols()
	if err != nil {
		if errors.Is(err, elf.ErrNoSymbols) {
			return nil, ErrNoSymbols
		}
		return nil, fmt.Errorf("read ELF symbols: %w", err)
	}

	syms := make([]symbol, 0, len(all))
	for _, s := range all {
		if elf.ST_TYPE(s.Info) != elf.STT_FUNC || s.Value == 0 || s.Name == "" {
			continue
		}
		syms = append(syms, symbol{name: s.Name, addr: s.Value, size: s.Size})
	}
	return syms, nil
}

func machoSymbols(f *macho.File) ([]symbol, error) {
	if f.Symtab == nil {
		return nil, ErrNoSymbols
	}

	text := f.Section("__text")
	syms := make([]symbol, 0, len(f.Symtab.Syms))
	for _, s := range f.Symtab.Syms {
		if s.Name == "" || s.Value == 0 {
			continue
		}
		// N_STAB debugging entries carry no code address.
		if s.Type&0xe0 != 0 {
			continue
		}
		if text != nil && (s.Value < text.Addr || s.Value >= text.Addr+text.Size) {
			continue
		}
		// Mach-O prefixes every symbol with an underscore.
		syms = append(syms, symbol{name: strings.TrimPrefix(s.Name, "_"), addr: s.Value})
	}
	return syms, nil
}

func peSymbols(f *pe.File) ([]symbol, error) {
	var imageBase uint64
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader64:
		imageBase = oh.ImageBase
	case *pe.OptionalHeader32:
		imageBase = uint64(oh.ImageBase)
	}

	syms := make([]symbol, 0, len(f.Symbols))
	for _, s := range f.Symbols {
		if s.Name == "" || s.SectionNumber <= 0 || int(s.SectionNumber) > len(f.Sections) {
			continue
		}
		sect := f.Sections[s.SectionNumber-1]
		const imageScnCntCode = 0x00000020
		if sect.Characteristics&imageScnCntCode == 0 {
			continue
		}
		addr := imageBase + uint64(sect.VirtualAddress) + uint64(s.Value)
		syms = append(syms, symbol{name: s.Name, addr: addr})
	}
	return syms, nil
}
