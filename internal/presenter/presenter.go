// Package presenter renders a compilation result for the user, either as a JSON document
// or as human-readable text.
package presenter

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/cspro-tools/csprocompile/pkg/shared"
)

// DefaultResultName is the file name used when the JSON output path is a folder.
const DefaultResultName = "compileResult.json"

// Options selects the rendering mode and its destinations.
type Options struct {
	JSON       bool
	Verbose    bool
	OutputPath string // JSON mode only; empty means stdout
	NoColor    bool
}

// Presenter writes results to the configured streams.
type Presenter struct {
	opts   Options
	stdout io.Writer
	stderr io.Writer
	logger hclog.Logger
}

// New creates a Presenter writing to the process standard streams.
func New(opts Options, logger hclog.Logger) *Presenter {
	return NewWithWriters(opts, os.Stdout, os.Stderr, logger)
}

// NewWithWriters creates a Presenter writing to the given streams.
func NewWithWriters(opts Options, stdout, stderr io.Writer, logger hclog.Logger) *Presenter {
	return &Presenter{
		opts:   opts,
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}
}

// Present renders result in the selected mode.
func (p *Presenter) Present(result shared.CompilationResult) error {
	if p.opts.JSON {
		return p.presentJSON(result)
	}
	p.presentText(result)
	return nil
}

// ExitCode maps the outcome of a job to the process exit status.
func ExitCode(result shared.CompilationResult) int {
	if result.Success {
		return 0
	}
	return 1
}

func severityWord(s shared.Severity) string {
	if s == shared.SeverityError {
		return "error"
	}
	return "warning"
}

func seconds(ms float64) float64 {
	return ms / 1000
}
