// Command symtabself resolves one of its own return addresses with both
// resolvers and prints the results, one field per line:
//
//	symtab name
//	symtab offset
//	symtab module
//	runtime offset
//
// It exits with status 1 if the symbol table lookup fails.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/kolkov/goassert/internal/assert/symbolize"
)

func main() {
	pc := here()

	st := symbolize.NewSymtab("", nil).Resolve(pc)
	if !st.OK {
		fmt.Fprintln(os.Stderr, "symtab: unresolved", st.Text)
		os.Exit(1)
	}
	rt := symbolize.NewRuntime().Resolve(pc)

	fmt.Println(st.Name)
	fmt.Println(st.Offset)
	fmt.Println(st.Module)
	fmt.Println(rt.Offset)
}

//go:noinline
func here() uintptr {
	var pcs [1]uintptr
	runtime.Callers(1, pcs[:])
	return pcs[0]
}
