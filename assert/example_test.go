package assert_test

import (
	"fmt"
	"os"

	"github.com/kolkov/goassert/assert"
)

// Example installs a handler that prints failures instead of aborting.
func Example() {
	cfg := assert.New(
		assert.WithBackend(assert.StubBackend()),
		assert.WithHandler(func(f *assert.Failure) {
			fmt.Println(f.Message())
		}),
	)
	prev := assert.SetConfig(cfg)
	defer assert.SetConfig(prev)

	balance := -5
	if !assert.Ge(balance, 0, "balance", "0", "account ", 17) {
		fmt.Println("recovering")
	}

	// Output:
	// Assertion failure value of: ( balance >= 0 )
	//   balance evaluated to: -5
	//   0 evaluated to: 0
	// account 17
	// recovering
}

// Example_continue keeps the default handler but lets execution continue.
func Example_continue() {
	cfg := assert.New(
		assert.WithBackend(assert.StubBackend()),
		assert.WithOutput(os.Stdout),
		assert.WithTerminator(assert.Continue()),
		assert.WithFormatter(assert.FormatterSet{
			Assertion: func(_ string, _ int, _, message, stack string) string {
				return "FAILED: " + message + "\n" + stack
			},
		}),
	)
	prev := assert.SetConfig(cfg)
	defer assert.SetConfig(prev)

	assert.That(false, "queue.Len() == 0")
	fmt.Println("still running")

	// Output:
	// FAILED: Assertion failure: queue.Len() == 0
	// still running
}
