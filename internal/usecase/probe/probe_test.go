package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packdeck/internal/infra/logger"
)

type reply struct {
	out   string
	err   error
	block bool // wait for ctx to expire
}

// fakeExecutor answers by the joined args, e.g. "-m nuitka --version".
type fakeExecutor struct {
	mu      sync.Mutex
	replies map[string]reply
	calls   []string
}

func (f *fakeExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(args, " ")
	f.mu.Lock()
	f.calls = append(f.calls, key)
	r, ok := f.replies[key]
	f.mu.Unlock()

	if !ok {
		return nil, errors.New("exit status 1")
	}
	if r.block {
		<-ctx.Done()
		return nil, errors.New("signal: killed")
	}
	return []byte(r.out), r.err
}

func (f *fakeExecutor) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestDetector(exec Executor) *Detector {
	d := New(Config{Timeout: 50 * time.Millisecond, FailureThreshold: 2, OpenTimeout: time.Minute}, exec, logger.Discard())
	d.stat = func(string) (os.FileInfo, error) { return nil, os.ErrNotExist }
	d.look = func(string) (string, error) { return "", errors.New("not found") }
	return d
}

func TestDetectWrapperName(t *testing.T) {
	exec := &fakeExecutor{}
	d := newTestDetector(exec)

	for _, interp := range []string{"/venv/bin/nuitka", `C:\env\Scripts\Nuitka.CMD`, "nuitka"} {
		res := d.Detect(context.Background(), interp)
		assert.True(t, res.Installed, interp)
		assert.Equal(t, StrategyWrapper, res.Strategy, interp)
	}
	assert.Empty(t, exec.Calls(), "wrapper check must not spawn anything")
}

func TestDetectWrapperIgnoresDirectoryNames(t *testing.T) {
	exec := &fakeExecutor{}
	d := newTestDetector(exec)

	res := d.Detect(context.Background(), "/opt/nuitka-env/bin/python")
	assert.False(t, res.Installed)
}

func TestDetectModuleVersion(t *testing.T) {
	exec := &fakeExecutor{replies: map[string]reply{
		"-m nuitka --version": {out: "2.4.8\nPython: 3.12.1\n"},
	}}
	d := newTestDetector(exec)

	res := d.Detect(context.Background(), "/venv/bin/python")
	assert.True(t, res.Installed)
	assert.Equal(t, StrategyModule, res.Strategy)
	assert.Equal(t, []string{"-m nuitka --version"}, exec.Calls())
}

func TestDetectScriptsDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Scripts", "nuitka.cmd"), nil, 0o644))

	exec := &fakeExecutor{}
	d := newTestDetector(exec)
	d.stat = os.Stat

	res := d.Detect(context.Background(), filepath.Join(root, "Scripts", "python.exe"))
	assert.True(t, res.Installed)
	assert.Equal(t, StrategyScripts, res.Strategy)
	assert.Equal(t, filepath.Join(root, "Scripts", "nuitka.cmd"), res.Detail)
	assert.Equal(t, []string{"-m nuitka --version"}, exec.Calls(), "metadata checks must not run after a hit")
}

func TestDetectScriptsDirResolvesBareName(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "nuitka"), nil, 0o755))

	d := newTestDetector(&fakeExecutor{})
	d.stat = os.Stat
	d.look = func(name string) (string, error) { return filepath.Join(root, "bin", name), nil }

	res := d.Detect(context.Background(), "python3")
	assert.True(t, res.Installed)
	assert.Equal(t, StrategyScripts, res.Strategy)
}

func TestDetectMetadataPrefersUV(t *testing.T) {
	exec := &fakeExecutor{replies: map[string]reply{
		"-m uv show nuitka":  {out: "Name: nuitka\nVersion: 2.4.8\n"},
		"-m pip show nuitka": {out: "Name: nuitka\n"},
	}}
	d := newTestDetector(exec)

	res := d.Detect(context.Background(), "/venv/bin/python")
	assert.True(t, res.Installed)
	assert.Equal(t, StrategyMetadata, res.Strategy)
	assert.Equal(t, "uv show nuitka", res.Detail)
	assert.Equal(t, []string{"-m nuitka --version", "-m uv show nuitka"}, exec.Calls())
}

func TestDetectMetadataFallsBackToPip(t *testing.T) {
	exec := &fakeExecutor{replies: map[string]reply{
		"-m uv show nuitka":  {out: "", err: errors.New("exit status 2")},
		"-m pip show nuitka": {out: "Name: nuitka\nVersion: 2.4.8\n"},
	}}
	d := newTestDetector(exec)

	res := d.Detect(context.Background(), "/venv/bin/python")
	assert.True(t, res.Installed)
	assert.Equal(t, "pip show nuitka", res.Detail)
}

func TestDetectMetadataNeedsMarker(t *testing.T) {
	exec := &fakeExecutor{replies: map[string]reply{
		"-m pip show nuitka": {out: "WARNING: Package(s) not found: nuitka\n"},
	}}
	d := newTestDetector(exec)

	res := d.Detect(context.Background(), "/venv/bin/python")
	assert.False(t, res.Installed)
	assert.Empty(t, res.Strategy)
}

func TestDetectNothingFound(t *testing.T) {
	exec := &fakeExecutor{}
	d := newTestDetector(exec)

	res := d.Detect(context.Background(), "/venv/bin/python")
	assert.False(t, res.Installed)
	assert.Equal(t, []string{"-m nuitka --version", "-m uv show nuitka", "-m pip show nuitka"}, exec.Calls())
}

func TestDetectEmptyInterpreter(t *testing.T) {
	exec := &fakeExecutor{}
	res := newTestDetector(exec).Detect(context.Background(), "   ")
	assert.False(t, res.Installed)
	assert.Empty(t, exec.Calls())
}

func TestDetectTimeoutFallsThrough(t *testing.T) {
	exec := &fakeExecutor{replies: map[string]reply{
		"-m nuitka --version": {block: true},
		"-m pip show nuitka":  {out: "Name: nuitka\n"},
	}}
	d := newTestDetector(exec)

	start := time.Now()
	res := d.Detect(context.Background(), "/venv/bin/python")
	assert.True(t, res.Installed)
	assert.Equal(t, StrategyMetadata, res.Strategy)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBreakerOpensAfterRepeatedTimeouts(t *testing.T) {
	exec := &fakeExecutor{replies: map[string]reply{
		"-m nuitka --version": {block: true},
		"-m uv show nuitka":   {block: true},
		"-m pip show nuitka":  {block: true},
	}}
	d := newTestDetector(exec)

	// Two timeouts trip the breaker; the pip probe is then rejected.
	res := d.Detect(context.Background(), "/hung/bin/python")
	assert.False(t, res.Installed)
	assert.Len(t, exec.Calls(), 2)

	// While open, nothing is spawned for this interpreter.
	d.Detect(context.Background(), "/hung/bin/python")
	assert.Len(t, exec.Calls(), 2)

	// Other interpreters have their own breaker.
	d.Detect(context.Background(), "/other/bin/python")
	assert.Len(t, exec.Calls(), 4)
}

func TestNonZeroExitDoesNotTripBreaker(t *testing.T) {
	exec := &fakeExecutor{}
	d := newTestDetector(exec)

	for i := 0; i < 5; i++ {
		d.Detect(context.Background(), "/venv/bin/python")
	}
	assert.Len(t, exec.Calls(), 15)
}
