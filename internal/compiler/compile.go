package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Defaults for the compiler boundary.
const (
	DefaultPath    = "pdflatex"
	DefaultTimeout = 30 * time.Second
	DefaultWorkers = 2

	// Passes is fixed; the second pass resolves references the first could not.
	Passes = 2

	SourceFile   = "resume.tex"
	ArtifactFile = "resume.pdf"
	LogFile      = "resume.log"
)

// Compiler invokes an external LaTeX compiler with at most a fixed number of
// compilations in flight.
type Compiler struct {
	path    string
	timeout time.Duration
	workers int64
	sem     *semaphore.Weighted
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithPath sets the compiler executable, either a name looked up in PATH or a path.
func WithPath(path string) Option {
	return func(c *Compiler) { c.path = path }
}

// WithTimeout bounds the wall time of one compilation, both passes included.
func WithTimeout(d time.Duration) Option {
	return func(c *Compiler) { c.timeout = d }
}

// WithWorkers sets how many compilations may run at once.
func WithWorkers(n int) Option {
	return func(c *Compiler) { c.workers = int64(n) }
}

// WithLogger sets the compiler logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// WithMetrics sets the counter sink for compile outcomes.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Compiler) { c.metrics = m }
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		path:    DefaultPath,
		timeout: DefaultTimeout,
		workers: DefaultWorkers,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers < 1 {
		c.workers = 1
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	c.sem = semaphore.NewWeighted(c.workers)
	return c
}

// Compile writes source to a fresh scratch directory, runs the compiler twice and
// returns the PDF bytes. Per-pass exit status is ignored; only the artifact counts.
// The scratch directory is removed on every path.
func (c *Compiler) Compile(ctx context.Context, source string) ([]byte, error) {
	pdf, err := c.compile(ctx, source)
	if err != nil {
		var compileErr *CompilationError
		if errors.As(err, &compileErr) && compileErr.Kind == KindTimeout {
			c.metrics.Inc(observability.CompileTimeout)
		} else {
			c.metrics.Inc(observability.CompileFailure)
		}
		c.logger.Warn().Err(err).Msg("compilation failed")
		return nil, err
	}
	c.metrics.Inc(observability.CompileSuccess)
	return pdf, nil
}

func (c *Compiler) compile(ctx context.Context, source string) ([]byte, error) {
	bin, err := exec.LookPath(c.path)
	if err != nil {
		return nil, &CompilationError{
			Kind:    KindToolchain,
			Message: fmt.Sprintf("%s not found. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)", c.path),
			Cause:   err,
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, contextError(err, "canceled before compilation started")
	}
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, contextError(err, "canceled while waiting for a compile worker")
	}
	defer c.sem.Release(1)

	workDir, err := os.MkdirTemp("", "resume-compile-*")
	if err != nil {
		return nil, &CompilationError{Kind: KindToolchain, Message: "failed to create scratch directory", Cause: err}
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			c.logger.Warn().Err(err).Str("dir", workDir).Msg("failed to remove scratch directory")
		}
	}()

	if err := os.WriteFile(filepath.Join(workDir, SourceFile), []byte(source), 0o600); err != nil {
		return nil, &CompilationError{Kind: KindToolchain, Message: "failed to write source file", Cause: err}
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	for pass := 1; pass <= Passes; pass++ {
		if err := c.runPass(runCtx, bin, workDir, pass); err != nil {
			if ctx.Err() != nil {
				return nil, contextError(ctx.Err(), fmt.Sprintf("canceled during pass %d", pass))
			}
			if runCtx.Err() != nil {
				return nil, &CompilationError{
					Kind:    KindTimeout,
					Message: fmt.Sprintf("pass %d exceeded %s and was terminated", pass, c.timeout),
					Cause:   runCtx.Err(),
				}
			}
			return nil, err
		}
	}
	c.logger.Debug().Dur("elapsed", time.Since(start)).Msg("compiler passes finished")

	return collect(workDir)
}

// runPass runs one compiler pass. A non-zero exit is not an error; failing to
// start the process or being killed by the context is.
func (c *Compiler) runPass(ctx context.Context, bin, workDir string, pass int) error {
	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-interaction=nonstopmode", SourceFile)
	cmd.Dir = workDir
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return &CompilationError{Kind: KindToolchain, Message: "failed to start compiler", Cause: err}
	}
	c.logger.Debug().Int("pass", pass).Bool("exit_ok", err == nil).Int("output_bytes", output.Len()).Msg("compiler pass")
	return nil
}

// collect reads the artifact, or turns the log into a content error.
func collect(workDir string) ([]byte, error) {
	pdf, err := os.ReadFile(filepath.Join(workDir, ArtifactFile))
	if err == nil {
		return pdf, nil
	}

	log, logErr := os.ReadFile(filepath.Join(workDir, LogFile))
	if logErr == nil && len(log) > 0 {
		return nil, &CompilationError{
			Kind:    KindContent,
			Message: "PDF was not generated; see compiler log",
			Log:     string(log),
		}
	}
	return nil, &CompilationError{
		Kind:    KindToolchain,
		Message: "PDF generation failed: compiler produced neither output nor log",
		Cause:   err,
	}
}

func contextError(err error, message string) *CompilationError {
	kind := KindCanceled
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &CompilationError{Kind: kind, Message: message, Cause: err}
}
