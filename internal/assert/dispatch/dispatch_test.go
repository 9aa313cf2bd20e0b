package dispatch

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kolkov/goassert/internal/assert/failure"
	"github.com/kolkov/goassert/internal/assert/platform"
	"github.com/kolkov/goassert/internal/assert/stackwalk"
	"github.com/kolkov/goassert/internal/assert/terminate"
)

func quietConfig(buf *bytes.Buffer, opts ...Option) *Config {
	base := []Option{
		WithBackend(platform.Stub()),
		WithOutput(buf),
		WithTerminator(terminate.None()),
	}
	return New(append(base, opts...)...)
}

func TestDefaultHandler_ExactReport(t *testing.T) {
	var buf bytes.Buffer
	cfg := quietConfig(&buf)

	f := failure.New("file", 255, "my_function").AppendMessage("my message")
	cfg.Fail(f, 0)

	assert.Equal(t, "file:255: my_function: my message\n\n", buf.String())
}

func TestDefaultHandler_SingleWrite(t *testing.T) {
	w := &countingWriter{}
	cfg := New(WithBackend(platform.Stub()), WithOutput(w), WithTerminator(terminate.None()))

	cfg.Fail(failure.New("f.go", 1, "fn").AppendMessage("m"), 0)
	assert.Equal(t, 1, w.writes)
}

func TestDefaultHandler_AppliesTerminator(t *testing.T) {
	var buf bytes.Buffer
	cfg := New(
		WithBackend(platform.Stub()),
		WithOutput(&buf),
		WithTerminator(terminate.Panic()),
	)

	f := failure.New("f.go", 1, "fn").AppendMessage("boom")
	assert.PanicsWithError(t, f.Error(), func() { cfg.Fail(f, 0) })
	assert.NotEmpty(t, buf.String(), "report must be written before terminating")
}

func TestDefaultHandler_WriteErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := New(
		WithBackend(platform.Stub()),
		WithOutput(failingWriter{}),
		WithTerminator(terminate.None()),
		WithLogger(zap.New(core)),
	)

	cfg.Fail(failure.New("f.go", 1, "fn"), 0)
	assert.Equal(t, 1, logs.FilterMessage("writing assertion report failed").Len())
}

func TestConfig_StackTraceRendersFrames(t *testing.T) {
	if !stackwalk.Supported() {
		t.Skip("stack walking disabled for this build")
	}

	var buf bytes.Buffer
	cfg := quietConfig(&buf, WithBackend(platform.Runtime()))

	text, fingerprint := cfg.StackTrace(0)
	require.NotEmpty(t, text)
	assert.NotZero(t, fingerprint)
	assert.True(t, strings.HasPrefix(text, "0 0x"), "text=%q", text)
	assert.True(t, strings.HasSuffix(text, "\n"))
	assert.Contains(t, text, "TestConfig_StackTraceRendersFrames")
}

func TestConfig_FailCapturesCallerStack(t *testing.T) {
	if !stackwalk.Supported() {
		t.Skip("stack walking disabled for this build")
	}

	var got *failure.Failure
	cfg := New(
		WithBackend(platform.Runtime()),
		WithHandler(func(f *failure.Failure) { got = f }),
	)

	cfg.Fail(failure.New("f.go", 1, "fn"), 0)
	require.NotNil(t, got)
	assert.Contains(t, got.StackTrace(), "TestConfig_FailCapturesCallerStack")
	assert.NotContains(t, got.StackTrace(), "(*Config).Fail")
	assert.NotZero(t, got.Fingerprint)
}

func TestConfig_CustomFrameFormatter(t *testing.T) {
	if !stackwalk.Supported() {
		t.Skip("stack walking disabled for this build")
	}

	var buf bytes.Buffer
	cfg := quietConfig(&buf,
		WithBackend(platform.Runtime()),
		WithFormatter(FormatterSet{
			Frame: func(int, uintptr, string) string { return "F\n" },
		}),
	)

	text, _ := cfg.StackTrace(0)
	require.NotEmpty(t, text)
	assert.Equal(t, strings.Repeat("F\n", strings.Count(text, "\n")), text)
}

func TestConfig_SetFormatterSingleSlot(t *testing.T) {
	var buf bytes.Buffer
	cfg := quietConfig(&buf)

	cfg.SetFormatter(FormatterSet{
		Statement: func(s string) string { return "custom: " + s },
	})

	assert.Equal(t, "custom: x", cfg.FormatStatement("x"))
	assert.Equal(t, FormatBool("e", "false", "true"), cfg.FormatBool("e", "false", "true"))
	assert.Equal(t, FormatPredicate("a", "<", "b", "2", "1"), cfg.FormatPredicate("a", "<", "b", "2", "1"))
	assert.Equal(t, FormatStreamed("t"), cfg.FormatStreamed("t"))
	assert.Equal(t, FormatFrame(1, 2, "s"), cfg.FormatFrame(1, 2, "s"))

	f := failure.New("file", 255, "my_function").AppendMessage("my message")
	assert.Equal(t, "file:255: my_function: my message\n\n", cfg.FormatAssertion(f))

	cfg.SetDefaultFormatter()
	assert.Equal(t, FormatStatement("x"), cfg.FormatStatement("x"))
}

func TestConfig_SetHandler(t *testing.T) {
	var buf bytes.Buffer
	cfg := quietConfig(&buf)

	var calls int
	cfg.SetHandler(func(*failure.Failure) { calls++ })
	cfg.SetHandler(nil) // ignored

	cfg.Fail(failure.New("f.go", 1, "fn"), 0)
	assert.Equal(t, 1, calls)
	assert.Empty(t, buf.String())

	cfg.SetDefaultHandler()
	cfg.Fail(failure.New("f.go", 1, "fn"), 0)
	assert.Equal(t, 1, calls)
	assert.NotEmpty(t, buf.String())
}

func TestConfig_CountsEveryFailure(t *testing.T) {
	var buf bytes.Buffer
	var count atomic.Int32
	cfg := quietConfig(&buf, WithHandler(func(*failure.Failure) { count.Add(1) }))

	for i := 0; i < 3; i++ {
		cfg.Fail(failure.New("f.go", i, "fn"), 0)
	}
	assert.Equal(t, int32(3), count.Load())
}

func TestConfig_ConcurrentDispatch(t *testing.T) {
	const goroutines = 32

	var buf bytes.Buffer
	var count atomic.Int32
	cfg := quietConfig(&buf, WithHandler(func(*failure.Failure) { count.Add(1) }))

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg.Fail(failure.New("f.go", i, "fn"), 0)
		}(i)
	}

	// Reconfigure while failures are in flight.
	for i := 0; i < 10; i++ {
		cfg.SetFormatter(FormatterSet{Statement: FormatStatement})
		cfg.SetDefaultFormatter()
	}
	wg.Wait()

	assert.Equal(t, int32(goroutines), count.Load())
}

func TestConfig_ReentrantHandler(t *testing.T) {
	var buf bytes.Buffer
	cfg := quietConfig(&buf)

	var depth, calls int
	var handler Handler
	handler = func(f *failure.Failure) {
		calls++
		// Touch every lock-protected part from inside the handler.
		cfg.SetHandler(handler)
		_ = cfg.FormatStatement("nested")
		cfg.SetFormatter(FormatterSet{})
		if depth == 0 {
			depth++
			cfg.Fail(failure.New("f.go", 2, "nested"), 0)
		}
	}
	cfg.SetHandler(handler)

	done := make(chan struct{})
	go func() {
		defer close(done)
		cfg.Fail(failure.New("f.go", 1, "outer"), 0)
	}()
	<-done

	assert.Equal(t, 2, calls)
}

type countingWriter struct {
	writes int
	buf    bytes.Buffer
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.buf.Write(p)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestChain(t *testing.T) {
	var order []string
	h := Chain(
		func(*failure.Failure) { order = append(order, "a") },
		nil,
		func(*failure.Failure) { order = append(order, "b") },
	)

	h(failure.New("f.go", 1, "fn"))
	assert.Equal(t, []string{"a", "b"}, order)
}
