// Package assert reports violated invariants with a symbolized stack trace.
//
// When an assertion fails the package captures the calling goroutine's
// stack, resolves every return address to a readable symbol, renders a
// report and hands it to the installed handler. The default handler writes
// the report to standard error and aborts the process.
//
// # Quick Start
//
//	func transfer(from, to *Account, amount int) {
//		assert.Gt(amount, 0, "amount", "0")
//		assert.True(from != to, "from != to", "self transfer of ", amount)
//		...
//	}
//
// A failing assertion prints:
//
//	/src/bank/transfer.go:12: bank.transfer: Assertion failure value of: ( amount > 0 )
//	  amount evaluated to: -5
//	  0 evaluated to: 0
//	0 0x4a3f21 bank(bank.transfer+0x61) [0x4a3f21]
//	1 0x4a40b7 bank(main.main+0x37) [0x4a40b7]
//	...
//
// # API Overview
//
//   - Checks: [That], [True], [False], [Eq], [Ne], [Lt], [Le], [Gt], [Ge], [Fail]
//   - Process configuration: [Default], [SetConfig], [New]
//   - Handlers: [SetHandler], [SetDefaultHandler], [Chain]
//   - Formatting: [SetFormatter], [SetDefaultFormatter]
//   - Version information: [GetInfo], [Version]
//
// Every check returns true when the assertion held. With a handler that
// returns (for example one installed with [Continue] as terminator) the
// caller can take a recovery path on false.
//
// # Configuration
//
// The process default configuration is created when the package is
// initialized. It reads:
//
//	GOASSERT_BACKEND     runtime | symtab | stub
//	GOASSERT_ON_FAILURE  abort | exit | panic | none
//	GOASSERT_EXIT_CODE   status for "exit" (default 3)
//
// Embedders that want isolation build their own Config with [New] and
// install it with [SetConfig], or call its methods directly.
//
// # Backends
//
// runtime resolves Go frames through the runtime's function table and
// attributes them to Go modules. symtab reads the executable's own symbol
// table, which also names C and C++ functions linked in through cgo
// (demangled). stub captures nothing; it is selected automatically on
// js/wasm, wasip1 and when building with -tags goassert_nostack.
//
// # Concurrency
//
// Assertions may fail on any number of goroutines at once. Each failure
// runs its whole pipeline on the failing goroutine; the handler is copied
// under a lock and invoked without it, so handlers may install other
// handlers or trigger further assertions.
package assert
