package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/cspro-tools/csprocompile/internal/designer"
	"github.com/cspro-tools/csprocompile/pkg/shared"
)

// EngineExternal compiles applications by running an external compiler executable
// that reports diagnostics in Designer format on stdout.
type EngineExternal struct {
	logger   hclog.Logger
	settings settings
	path     string
}

// Initialize resolves the compiler executable. A missing compiler is reported as false.
func (e *EngineExternal) Initialize() (bool, error) {
	path, err := exec.LookPath(e.settings.Compiler)
	if err != nil {
		e.logger.Warn("compiler executable is not available", "compiler", e.settings.Compiler, "error", err)
		return false, nil
	}
	e.path = path
	e.logger.Debug("compiler executable found", "path", path)
	return true, nil
}

func (e *EngineExternal) Compile(opts shared.CompilerOptions) (shared.CompilationResult, error) {
	if e.path == "" {
		return shared.CompilationResult{}, fmt.Errorf("engine is not initialized")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(e.path, buildArgs(e.settings, opts)...)
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(e.logger.StandardWriter(&hclog.StandardLoggerOptions{
		InferLevels: false,
	}), &stderr)
	e.logger.Debug("running compiler", "cmd", cmd.Args)

	runErr := cmd.Run()
	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		return shared.CompilationResult{}, fmt.Errorf("failed to run compiler %q: %w", e.path, runErr)
	}

	result := parseOutput(&stdout, opts.InputFile, e.logger)
	if exitErr != nil && result.ErrorCount == 0 {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = fmt.Sprintf("compiler exited with status %d", exitErr.ExitCode())
		}
		result.Add(shared.DiagnosticMessage{File: opts.InputFile, Message: message, Severity: shared.SeverityError})
	}

	result.Success = result.ErrorCount == 0
	if result.Success && !opts.CheckSyntaxOnly {
		result.CompiledOutput = penPath(opts)
	}
	e.logger.Info("compilation finished", "input", opts.InputFile, "errors", result.ErrorCount, "warnings", result.WarningCount)
	return result, nil
}

func (e *EngineExternal) Shutdown() error {
	e.path = ""
	return nil
}

func buildArgs(s settings, opts shared.CompilerOptions) []string {
	var args []string
	if opts.CheckSyntaxOnly && s.CheckArg != "" {
		args = append(args, s.CheckArg)
	}
	return append(args, opts.InputFile)
}

// parseOutput collects the Designer-format diagnostics printed by the compiler, in order.
// Other lines are only logged.
func parseOutput(r io.Reader, inputFile string, logger hclog.Logger) shared.CompilationResult {
	var result shared.CompilationResult
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		d, ok := designer.ParseLine(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				logger.Debug("compiler output", "line", line)
			}
			continue
		}
		d.File = inputFile
		result.Add(d)
	}
	return result
}

// penPath is the compiled application: the input file with the .pen extension.
func penPath(opts shared.CompilerOptions) string {
	pen := strings.TrimSuffix(opts.InputFile, filepath.Ext(opts.InputFile)) + ".pen"
	if opts.OutputDirectory != "" {
		return filepath.Join(opts.OutputDirectory, filepath.Base(pen))
	}
	return pen
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Level:      hclog.Trace,
		Output:     os.Stderr,
		JSONFormat: true,
	})

	engine := &EngineExternal{
		logger:   logger,
		settings: loadSettings(),
	}

	shared.ServeEngine(engine, logger)
}
