package compiler

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cspro-tools/csprocompile/internal/engine"
	"github.com/cspro-tools/csprocompile/pkg/shared"
)

// countingEngine records how often each lifecycle call happens.
type countingEngine struct {
	initOK       bool
	initErr      error
	result       shared.CompilationResult
	compileErr   error
	compilePanic interface{}
	shutdownErr  error

	initCalls     int
	compileCalls  int
	shutdownCalls int
}

func (e *countingEngine) Initialize() (bool, error) {
	e.initCalls++
	return e.initOK, e.initErr
}

func (e *countingEngine) Compile(opts shared.CompilerOptions) (shared.CompilationResult, error) {
	e.compileCalls++
	if e.compilePanic != nil {
		panic(e.compilePanic)
	}
	return e.result, e.compileErr
}

func (e *countingEngine) Shutdown() error {
	e.shutdownCalls++
	return e.shutdownErr
}

func newTestCompiler(e shared.Engine) *Compiler {
	c := New(engine.Static(e), hclog.NewNullLogger())
	c.since = func(time.Time) time.Duration { return 1500 * time.Millisecond }
	return c
}

func assertInvariants(t *testing.T, result shared.CompilationResult) {
	t.Helper()
	errorsCount, warnings := 0, 0
	for _, d := range result.Diagnostics {
		switch d.Severity {
		case shared.SeverityError:
			errorsCount++
		case shared.SeverityWarning:
			warnings++
		}
	}
	assert.Equal(t, errorsCount, result.ErrorCount)
	assert.Equal(t, warnings, result.WarningCount)
	assert.Equal(t, result.ErrorCount == 0, result.Success)
}

func TestCompileSuccess(t *testing.T) {
	e := &countingEngine{initOK: true, result: shared.CompilationResult{Success: true, CompiledOutput: "app.pen"}}

	result := newTestCompiler(e).Compile(shared.NewCompilerOptions("app.ent"))

	assert.True(t, result.Success)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, "app.pen", result.CompiledOutput)
	assert.Equal(t, 1500.0, result.CompilationTimeMs)
	assert.Equal(t, 1, e.initCalls)
	assert.Equal(t, 1, e.compileCalls)
	assert.Equal(t, 1, e.shutdownCalls)
	assertInvariants(t, result)
}

func TestCompileWithDiagnostics(t *testing.T) {
	// Counters reported by the engine are recomputed from the diagnostics.
	e := &countingEngine{initOK: true, result: shared.CompilationResult{
		Success:        true,
		ErrorCount:     0,
		CompiledOutput: "app.pen",
		Diagnostics: []shared.DiagnosticMessage{
			{File: "app.bch", Line: 5, Column: 2, Message: "syntax error", Severity: shared.SeverityError},
			{File: "app.bch", Line: 8, ProcName: "Q1", Message: "deprecated", Severity: shared.SeverityWarning},
		},
	}}

	result := newTestCompiler(e).Compile(shared.NewCompilerOptions("app.bch"))

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 1, result.WarningCount)
	assert.Empty(t, result.CompiledOutput)
	require.Len(t, result.Diagnostics, 2)
	assert.Equal(t, "syntax error", result.Diagnostics[0].Message)
	assert.Equal(t, "deprecated", result.Diagnostics[1].Message)
	assert.Equal(t, 1, e.shutdownCalls)
	assertInvariants(t, result)
}

func TestCompileWarningsOnlySucceeds(t *testing.T) {
	e := &countingEngine{initOK: true, result: shared.CompilationResult{
		Diagnostics: []shared.DiagnosticMessage{
			{Line: 8, ProcName: "Q1", Message: "deprecated", Severity: shared.SeverityWarning},
		},
	}}

	result := newTestCompiler(e).Compile(shared.NewCompilerOptions("app.ent"))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.WarningCount)
	assertInvariants(t, result)
}

func TestCompileInitializationFailure(t *testing.T) {
	tests := []struct {
		name   string
		engine *countingEngine
	}{
		{name: "initialize returns false", engine: &countingEngine{initOK: false}},
		{name: "initialize returns error", engine: &countingEngine{initOK: true, initErr: errors.New("no runtime")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newTestCompiler(tt.engine).Compile(shared.NewCompilerOptions("app.ent"))

			assert.False(t, result.Success)
			assert.Equal(t, 1, result.ErrorCount)
			require.Len(t, result.Diagnostics, 1)
			d := result.Diagnostics[0]
			assert.Equal(t, shared.SeverityError, d.Severity)
			assert.Equal(t, InitFailureMessage, d.Message)
			assert.Zero(t, d.Line)
			assert.Zero(t, d.Column)
			assert.Zero(t, tt.engine.compileCalls)
			assert.Equal(t, 1, tt.engine.shutdownCalls)
			assertInvariants(t, result)
		})
	}
}

func TestCompileInitializationFailureLogging(t *testing.T) {
	tests := []struct {
		name    string
		engine  *countingEngine
		wantLog string
	}{
		{name: "unavailable engine is quiet", engine: &countingEngine{initOK: false}},
		{name: "initialize error is a warning", engine: &countingEngine{initErr: errors.New("no runtime")}, wantLog: `compiler engine initialization failed: error="no runtime"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := hclog.New(&hclog.LoggerOptions{Name: "compile", Level: hclog.Warn, Output: &buf, DisableTime: true})

			New(engine.Static(tt.engine), logger).Compile(shared.NewCompilerOptions("app.ent"))

			if tt.wantLog == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.wantLog)
			assert.NotContains(t, buf.String(), "<nil>")
		})
	}
}

func TestCompileFactoryFailure(t *testing.T) {
	c := New(func() (shared.Engine, error) { return nil, errors.New("no such engine") }, hclog.NewNullLogger())

	result := c.Compile(shared.NewCompilerOptions("app.ent"))
	assert.False(t, result.Success)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, InitFailureMessage, result.Diagnostics[0].Message)
}

func TestCompileEngineError(t *testing.T) {
	e := &countingEngine{initOK: true, compileErr: errors.New("Exception: access violation"), result: shared.CompilationResult{
		Diagnostics: []shared.DiagnosticMessage{{Message: "partial", Severity: shared.SeverityWarning}},
	}}

	result := newTestCompiler(e).Compile(shared.NewCompilerOptions("app.pff"))

	assert.False(t, result.Success)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "Exception: access violation", result.Diagnostics[0].Message)
	assert.Equal(t, "app.pff", result.Diagnostics[0].File)
	assert.Equal(t, 1, e.shutdownCalls)
	assertInvariants(t, result)
}

func TestCompileEnginePanic(t *testing.T) {
	e := &countingEngine{initOK: true, compilePanic: "parser blew up"}

	var result shared.CompilationResult
	assert.NotPanics(t, func() {
		result = newTestCompiler(e).Compile(shared.NewCompilerOptions("app.ent"))
	})

	assert.False(t, result.Success)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "parser blew up", result.Diagnostics[0].Message)
	assert.Equal(t, shared.SeverityError, result.Diagnostics[0].Severity)
	assert.Equal(t, 1, e.shutdownCalls)
	assertInvariants(t, result)
}

func TestCompileShutdownErrorKeepsResult(t *testing.T) {
	e := &countingEngine{initOK: true, shutdownErr: errors.New("already closed")}

	result := newTestCompiler(e).Compile(shared.NewCompilerOptions("app.ent"))
	assert.True(t, result.Success)
	assert.Equal(t, 1, e.shutdownCalls)
}

func TestCompilePassesOptions(t *testing.T) {
	var got shared.CompilerOptions
	e := &optionsEngine{seen: &got}
	opts := shared.NewCompilerOptions("app.ent")
	opts.CheckSyntaxOnly = true
	opts.VerboseOutput = true
	opts.OutputDirectory = "/tmp/out"

	newTestCompiler(e).Compile(opts)
	assert.Equal(t, opts, got)
}

type optionsEngine struct {
	seen *shared.CompilerOptions
}

func (e *optionsEngine) Initialize() (bool, error) { return true, nil }
func (e *optionsEngine) Shutdown() error { return nil }
func (e *optionsEngine) Compile(opts shared.CompilerOptions) (shared.CompilationResult, error) {
	*e.seen = opts
	return shared.CompilationResult{}, nil
}
