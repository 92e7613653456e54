// Package persister writes compiler diagnostics to log files next to the compiled application.
//
// Every log format is a Strategy over the same diagnostics. Writing is best effort:
// a log that cannot be written is skipped and never changes the compilation outcome.
package persister

import (
	"bufio"
	"io"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/cspro-tools/csprocompile/pkg/shared"
	"github.com/cspro-tools/csprocompile/pkg/shared/files"
)

const (
	DetailedLogName = "compileErrors.txt"
	DesignerLogName = "compileErrorsFormatted.txt"
	SARIFLogName    = "compileErrors.sarif"
)

// Job carries what a strategy needs to render one log.
type Job struct {
	InputFile string
	Result    shared.CompilationResult
	Generated time.Time
}

// Strategy renders the diagnostics of a job in one log format.
type Strategy interface {
	// FileName is the base name of the log written beside the input file.
	FileName() string
	// Description names the log in progress messages.
	Description() string
	Write(w io.Writer, job Job) error
}

// Persister writes every configured log format for a compilation result.
type Persister struct {
	strategies []Strategy
	logger     hclog.Logger
	verbose    bool
	now        func() time.Time
}

// Option customizes a Persister.
type Option func(*Persister)

// WithSARIF adds the SARIF log to the default detailed and Designer logs.
func WithSARIF() Option {
	return func(p *Persister) {
		p.strategies = append(p.strategies, SARIFStrategy{})
	}
}

// WithStrategies replaces the set of log formats.
func WithStrategies(strategies ...Strategy) Option {
	return func(p *Persister) {
		p.strategies = strategies
	}
}

// WithClock sets the time source used for log headers.
func WithClock(now func() time.Time) Option {
	return func(p *Persister) {
		p.now = now
	}
}

// New creates a Persister writing the detailed and Designer logs.
func New(logger hclog.Logger, verbose bool, opts ...Option) *Persister {
	p := &Persister{
		strategies: []Strategy{DetailedStrategy{}, DesignerStrategy{}},
		logger:     logger,
		verbose:    verbose,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Persist writes the logs for result into the directory of inputFile and returns the written paths.
// Nothing is written when the result has no diagnostics.
func (p *Persister) Persist(result shared.CompilationResult, inputFile string) []string {
	if len(result.Diagnostics) == 0 {
		return nil
	}

	job := Job{
		InputFile: inputFile,
		Result:    result,
		Generated: p.now(),
	}
	dir := filepath.Dir(inputFile)

	var written []string
	for _, strategy := range p.strategies {
		path := filepath.Join(dir, strategy.FileName())
		err := files.WriteFile(path, func(w *bufio.Writer) error {
			return strategy.Write(w, job)
		})
		if err != nil {
			if p.verbose {
				p.logger.Warn("unable to save "+strategy.Description(), "path", path, "error", err)
			}
			continue
		}
		written = append(written, path)
		p.logger.Info(strategy.Description()+" saved", "path", path)
	}
	return written
}
