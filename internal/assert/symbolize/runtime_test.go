package symbolize

import (
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:noinline
func currentPC() uintptr {
	var pcs [1]uintptr
	runtime.Callers(1, pcs[:])
	return pcs[0]
}

func TestRuntime_ResolvesKnownFunction(t *testing.T) {
	pc := currentPC()
	require.NotZero(t, pc)

	r := NewRuntime().Resolve(pc)
	require.True(t, r.OK)
	assert.True(t, strings.HasSuffix(r.Name, "symbolize.currentPC"), "name=%q", r.Name)
	assert.Equal(t, r.Name, r.Text)
	assert.NotZero(t, r.Offset)
	assert.NotEmpty(t, r.Module)
}

func TestRuntime_Unresolvable(t *testing.T) {
	res := NewRuntime()

	assert.Equal(t, Resolved{Text: Unknown}, res.Resolve(0))
	assert.Equal(t, Resolved{Text: Unknown}, res.Resolve(1))
}

func TestRuntime_ConcurrentResolve(t *testing.T) {
	res := NewRuntime()
	pc := currentPC()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if !res.Resolve(pc).OK {
					t.Error("resolve failed")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestPackagePath(t *testing.T) {
	tests := []struct {
		fn   string
		want string
	}{
		{"main.main", "main"},
		{"fmt.Println", "fmt"},
		{"net/http.(*Server).Serve", "net/http"},
		{"github.com/kolkov/goassert/assert.True[...]", "github.com/kolkov/goassert/assert"},
		{"github.com/kolkov/goassert/internal/assert/dispatch.(*Config).Dispatch", "github.com/kolkov/goassert/internal/assert/dispatch"},
		{"gopkg.in/yaml%2ev3.Unmarshal", "gopkg.in/yaml.v3"},
		{"github.com/a/b.F.func1.2", "github.com/a/b"},
		{"noseparator", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			assert.Equal(t, tt.want, packagePath(tt.fn))
		})
	}
}

func fakeBuildInfo() (*debug.BuildInfo, bool) {
	return &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/kolkov/goassert", Version: "(devel)"},
		Deps: []*debug.Module{
			{Path: "go.uber.org/zap", Version: "v1.27.0"},
			{Path: "go.uber.org/zap/exp", Version: "v0.3.0"},
			{Path: "golang.org/x/mod", Version: "v0.30.0"},
			{
				Path:    "example.com/replaced",
				Version: "v1.0.0",
				Replace: &debug.Module{Path: "example.com/fork", Version: "v1.0.1"},
			},
			{Path: "not a valid path", Version: "v1.0.0"},
		},
	}, true
}

func TestModuleIndex_Lookup(t *testing.T) {
	idx := buildModuleIndex(fakeBuildInfo, "/usr/bin/app")

	tests := []struct {
		fn   string
		want string
	}{
		{"go.uber.org/zap.(*Logger).Warn", "go.uber.org/zap@v1.27.0"},
		{"go.uber.org/zap/zapcore.(*ioCore).Write", "go.uber.org/zap@v1.27.0"},
		{"go.uber.org/zap/exp/zapslog.New", "go.uber.org/zap/exp@v0.3.0"},
		{"golang.org/x/mod/semver.IsValid", "golang.org/x/mod@v0.30.0"},
		{"example.com/replaced/pkg.F", "example.com/replaced@v1.0.1"},
		{"github.com/kolkov/goassert/assert.Fail", "github.com/kolkov/goassert"},
		{"runtime.goexit", "std"},
		{"net/http.(*conn).serve", "std"},
		{"main.main", "/usr/bin/app"},
		{"example.com/unknown.F", "/usr/bin/app"},
		{"noseparator", "/usr/bin/app"},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			assert.Equal(t, tt.want, idx.lookup(tt.fn))
		})
	}
}

func TestModuleIndex_NoBuildInfo(t *testing.T) {
	idx := buildModuleIndex(func() (*debug.BuildInfo, bool) { return nil, false }, "/bin/x")

	assert.Empty(t, idx.mods)
	assert.Equal(t, "std", idx.lookup("fmt.Println"))
	assert.Equal(t, "/bin/x", idx.lookup("github.com/a/b.F"))
}
