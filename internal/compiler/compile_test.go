package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/extraction/extractiontest"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSource = `\documentclass{article}
\begin{document}
Hello, World!
\end{document}`

// fakeCompiler writes an executable shell script standing in for pdflatex.
// Every invocation appends its arguments and working directory to calls.log.
func fakeCompiler(t *testing.T, body string) (path string, calls string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler scripts need a POSIX shell")
	}
	dir := t.TempDir()
	calls = filepath.Join(dir, "calls.log")
	script := fmt.Sprintf("#!/bin/sh\necho \"$(pwd) $*\" >> %q\n%s\n", calls, body)
	path = filepath.Join(dir, "fake-pdflatex")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path, calls
}

func readCalls(t *testing.T, calls string) []string {
	t.Helper()
	data, err := os.ReadFile(calls)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func assertScratchRemoved(t *testing.T, calls []string) {
	t.Helper()
	for _, call := range calls {
		dir := strings.Fields(call)[0]
		assert.NoDirExists(t, dir)
	}
}

func TestCompile_Success(t *testing.T) {
	path, calls := fakeCompiler(t, `grep -q 'Hello, World' resume.tex || exit 1
printf '%%PDF-1.4\nfake\n' > resume.pdf
exit 1`)
	metrics := observability.NewMetrics()

	pdf, err := New(WithPath(path), WithMetrics(metrics)).Compile(context.Background(), minimalSource)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))

	lines := readCalls(t, calls)
	require.Len(t, lines, Passes, "compiler always runs exactly two passes")
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, "-interaction=nonstopmode resume.tex"), line)
	}
	assertScratchRemoved(t, lines)
	assert.Equal(t, int64(1), metrics.Get(observability.CompileSuccess))
}

func TestCompile_ContentErrorCarriesLog(t *testing.T) {
	path, calls := fakeCompiler(t, `printf '! Undefined control sequence.\nl.3 \\undefinedcommand\n' > resume.log
exit 1`)
	metrics := observability.NewMetrics()

	_, err := New(WithPath(path), WithMetrics(metrics)).Compile(context.Background(), `\undefinedcommand`)

	var compileErr *CompilationError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, KindContent, compileErr.Kind)
	assert.Contains(t, compileErr.Log, "Undefined control sequence")
	assertScratchRemoved(t, readCalls(t, calls))
	assert.Equal(t, int64(1), metrics.Get(observability.CompileFailure))
}

func TestCompile_NoArtifactNoLog(t *testing.T) {
	path, calls := fakeCompiler(t, "exit 0")

	_, err := New(WithPath(path)).Compile(context.Background(), minimalSource)

	var compileErr *CompilationError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, KindToolchain, compileErr.Kind)
	assert.Empty(t, compileErr.Log)
	assert.Contains(t, err.Error(), "neither output nor log")
	assert.Len(t, readCalls(t, calls), Passes)
}

func TestCompile_MissingToolchain(t *testing.T) {
	_, err := New(WithPath(filepath.Join(t.TempDir(), "no-such-pdflatex"))).Compile(context.Background(), minimalSource)

	var compileErr *CompilationError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, KindToolchain, compileErr.Kind)
	assert.Contains(t, err.Error(), "not found")
}

func TestCompile_Timeout(t *testing.T) {
	path, calls := fakeCompiler(t, "exec sleep 5")
	metrics := observability.NewMetrics()

	start := time.Now()
	_, err := New(WithPath(path), WithTimeout(200*time.Millisecond), WithMetrics(metrics)).
		Compile(context.Background(), minimalSource)

	var compileErr *CompilationError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, KindTimeout, compileErr.Kind)
	assert.Less(t, time.Since(start), 4*time.Second, "hung compiler must be killed")
	assert.Len(t, readCalls(t, calls), 1, "second pass never starts")
	assertScratchRemoved(t, readCalls(t, calls))
	assert.Equal(t, int64(1), metrics.Get(observability.CompileTimeout))
}

func TestCompile_Canceled(t *testing.T) {
	path, calls := fakeCompiler(t, "printf '%%PDF' > resume.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(WithPath(path)).Compile(ctx, minimalSource)

	var compileErr *CompilationError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, KindCanceled, compileErr.Kind)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, readCalls(t, calls))
}

func TestCompile_BoundedWorkers(t *testing.T) {
	lockDir := filepath.Join(t.TempDir(), "lock")
	overlap := filepath.Join(t.TempDir(), "overlap")
	path, _ := fakeCompiler(t, fmt.Sprintf(`mkdir %q 2>/dev/null || echo overlap >> %q
sleep 0.05
rmdir %q
printf '%%%%PDF-1.4\n' > resume.pdf`, lockDir, overlap, lockDir))

	c := New(WithPath(path), WithWorkers(1))

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Compile(context.Background(), minimalSource)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.NoFileExists(t, overlap, "only one compilation may run at a time")
}

func TestCompile_ConcurrentScratchDirsAreDistinct(t *testing.T) {
	path, calls := fakeCompiler(t, "printf '%%PDF-1.4\\n' > resume.pdf")
	c := New(WithPath(path), WithWorkers(4))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Compile(context.Background(), minimalSource)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	dirs := make(map[string]int)
	for _, line := range readCalls(t, calls) {
		dirs[strings.Fields(line)[0]]++
	}
	assert.Len(t, dirs, 4)
	for _, passes := range dirs {
		assert.Equal(t, Passes, passes)
	}
}

func TestPageCount(t *testing.T) {
	n, err := PageCount(extractiontest.ResumePDF("Ada Lovelace"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = PageCount([]byte("%PDF-1.4 truncated"))
	assert.Error(t, err)
}

func TestCompilationError_Format(t *testing.T) {
	err := &CompilationError{Kind: KindTimeout, Message: "pass 1 exceeded 30s"}
	assert.Equal(t, "LaTeX compilation error (timeout): pass 1 exceeded 30s", err.Error())
	assert.Nil(t, err.Unwrap())
}
