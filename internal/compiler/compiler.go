// Package compiler drives one compilation job against a compiler engine.
package compiler

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/cspro-tools/csprocompile/internal/engine"
	"github.com/cspro-tools/csprocompile/pkg/shared"
)

// InitFailureMessage is the diagnostic reported when the engine cannot be initialized.
const InitFailureMessage = "Failed to initialize compiler"

// Compiler runs compilation jobs. Engine failures are returned as failed results, never as errors.
type Compiler struct {
	factory engine.Factory
	logger  hclog.Logger
	since   func(time.Time) time.Duration
}

// New creates a Compiler obtaining its engine from factory.
func New(factory engine.Factory, logger hclog.Logger) *Compiler {
	return &Compiler{
		factory: factory,
		logger:  logger,
		since:   time.Since,
	}
}

// Compile runs one job: initialize the engine, compile, and shut the engine down.
// Shutdown runs exactly once for every engine the factory hands out, on every path.
func (c *Compiler) Compile(opts shared.CompilerOptions) (result shared.CompilationResult) {
	c.logger.Info("Compiling", "input", opts.InputFile)
	if opts.CheckSyntaxOnly {
		c.logger.Info("Mode: Syntax check only")
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("compiler engine panicked", "panic", r)
			result = shared.NewFailedResult(opts.InputFile, fmt.Sprint(r))
		}
	}()

	eng, err := c.factory()
	if err != nil {
		c.logger.Error("unable to create compiler engine", "error", err)
		return initFailure()
	}
	defer c.shutdown(eng)

	ok, err := eng.Initialize()
	if err != nil {
		c.logger.Warn("compiler engine initialization failed", "error", err)
		return initFailure()
	}
	if !ok {
		c.logger.Debug("compiler engine is not available")
		return initFailure()
	}

	return c.compile(eng, opts)
}

func (c *Compiler) shutdown(eng shared.Engine) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("compiler engine panicked during shutdown", "panic", r)
		}
	}()
	if err := eng.Shutdown(); err != nil {
		c.logger.Warn("compiler engine shutdown failed", "error", err)
	}
}

func (c *Compiler) compile(eng shared.Engine, opts shared.CompilerOptions) shared.CompilationResult {
	start := time.Now()
	result, err := eng.Compile(opts)
	elapsed := c.since(start)
	if err != nil {
		c.logger.Error("compiler engine failed", "error", err)
		result = shared.NewFailedResult(opts.InputFile, err.Error())
	}

	result.Recount()
	result.CompilationTimeMs = float64(elapsed) / float64(time.Millisecond)
	c.logger.Debug("compilation finished",
		"success", result.Success,
		"errors", result.ErrorCount,
		"warnings", result.WarningCount,
		"duration", elapsed)
	return result
}

func initFailure() shared.CompilationResult {
	return shared.NewFailedResult("", InitFailureMessage)
}
