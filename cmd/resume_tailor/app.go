package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/compiler"
	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/logging"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/rendering"
)

// app holds the components shared by every command.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	metrics  *observability.Metrics
	gateway  *llm.Gateway
	renderer *rendering.Renderer
	pipeline *pipeline.Pipeline
	printer  *observability.Printer
}

// loadConfig applies the persistent flags on top of file and environment configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if provider != "" {
		cfg.Provider = provider
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp wires the pipeline from configuration. Nothing here performs network I/O.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}, cmd.ErrOrStderr())
	metrics := observability.NewMetrics()

	gateway := llm.NewGateway(llm.FactoryFor(cfg.ProviderConfig()),
		llm.WithTimeout(time.Duration(cfg.GatewayTimeout)),
		llm.WithLogger(logger),
		llm.WithMetrics(metrics),
	)

	store, err := rendering.NewTemplateStore(cfg.TemplateDir)
	if err != nil {
		return nil, err
	}
	comp := compiler.New(
		compiler.WithPath(cfg.CompilerPath),
		compiler.WithTimeout(time.Duration(cfg.CompileTimeout)),
		compiler.WithWorkers(cfg.CompileWorkers),
		compiler.WithLogger(logger),
		compiler.WithMetrics(metrics),
	)
	renderer := rendering.NewRenderer(store, comp, rendering.WithLogger(logger))

	fetchOpts := []fetch.JobOption{fetch.WithLogger(logger)}
	if cfg.UseBrowser {
		fetchOpts = append(fetchOpts, fetch.WithRenderer(fetch.ChromeRenderer(fetch.BrowserTimeout, logger)))
	}

	p := pipeline.New(gateway, renderer,
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(metrics),
		pipeline.WithFetcher(fetch.NewJobFetcher(fetchOpts...)),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		gateway:  gateway,
		renderer: renderer,
		pipeline: p,
		printer:  observability.NewPrinter(cmd.ErrOrStderr()),
	}, nil
}

// Close releases the model client.
func (a *app) Close() {
	if err := a.gateway.Close(); err != nil {
		a.logger.Debug().Err(err).Msg("gateway close failed")
	}
}

// readJSON decodes a JSON file with numbers kept as json.Number.
func readJSON(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return v, nil
}

// writeJSON writes v as indented JSON to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = w.Write(data)
		return err
	}
	return writeFile(path, data)
}

// writeFile writes data, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
