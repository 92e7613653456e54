package compile

import (
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/cspro-tools/csprocompile/internal/compiler"
	"github.com/cspro-tools/csprocompile/internal/config"
	"github.com/cspro-tools/csprocompile/internal/engine"
	"github.com/cspro-tools/csprocompile/internal/logger"
	"github.com/cspro-tools/csprocompile/internal/persister"
	"github.com/cspro-tools/csprocompile/internal/presenter"
	"github.com/cspro-tools/csprocompile/pkg/shared"
	"github.com/cspro-tools/csprocompile/pkg/shared/errors"
)

// RunOptionsCompile holds the arguments for a compilation job.
type RunOptionsCompile struct {
	InputFile  string
	OutputPath string
	Verbose    bool
	CheckOnly  bool
	JSON       bool
	Engine     string
	NoColor    bool
}

// Streams are the destinations of the rendered result.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

const ExampleCompileUsage = `  # Compile a data entry application
  csprocompile myapp.ent

  # Compile a batch application with verbose output, reporting errors as JSON (for VS Code)
  csprocompile myapp.bch -v --json

  # Compile the application referenced by a PFF file, saving the JSON result to a file
  csprocompile myapp.pff -o results.json

  # Only check the syntax with the engine plugin named "external"
  csprocompile myapp.ent --check-only --engine external`

// RegisterFlags adds the compilation flags to fs.
func RegisterFlags(fs *pflag.FlagSet, opts *RunOptionsCompile) {
	fs.StringVarP(&opts.OutputPath, "output", "o", "", "Path to the file or directory where the JSON result will be saved. Implies --json.")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose mode.")
	fs.BoolVar(&opts.CheckOnly, "check-only", false, "Only check syntax, don't generate binaries.")
	fs.BoolVar(&opts.JSON, "json", false, "Output errors in JSON format (for VS Code).")
	fs.StringVar(&opts.Engine, "engine", "", "Name of the compiler engine plugin to use, overriding the configuration.")
	fs.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output.")
}

// Run compiles opts.InputFile and presents the result. A failed compilation is reported
// as a silent CommandError carrying exit code 1.
func Run(cfg *config.Config, opts RunOptionsCompile, streams Streams) error {
	return run(cfg, opts, streams, engine.NewFactory)
}

func run(cfg *config.Config, opts RunOptionsCompile, streams Streams, newFactory func(*config.Config, hclog.Logger) engine.Factory) error {
	if err := validateCompileArgs(&opts); err != nil {
		return errors.NewCommandError(err, errors.ExitCodeFailure)
	}
	if opts.Engine != "" {
		if err := config.SetEngine(cfg, opts.Engine); err != nil {
			return errors.NewCommandError(err, errors.ExitCodeFailure)
		}
	}

	if opts.OutputPath != "" {
		opts.JSON = true
	}

	jobLogger := logger.ForJob(logger.NewLogger(cfg, "core-compile"), opts.Verbose)

	compilerOptions := prepareCompilerOptions(cfg, opts)
	c := compiler.New(newFactory(cfg, jobLogger), jobLogger)
	result := c.Compile(compilerOptions)

	if config.PersistEnabled(cfg) {
		persister.New(jobLogger, opts.Verbose, persistOptions(cfg)...).Persist(result, opts.InputFile)
	}

	p := presenter.NewWithWriters(presenter.Options{
		JSON:       opts.JSON,
		Verbose:    opts.Verbose,
		OutputPath: opts.OutputPath,
		NoColor:    opts.NoColor || cfg.Output.NoColor,
	}, streams.Stdout, streams.Stderr, jobLogger)
	if err := p.Present(result); err != nil {
		jobLogger.Error("failed to present result", "error", err)
		return errors.NewCommandError(err, errors.ExitCodeFailure)
	}

	if code := presenter.ExitCode(result); code != errors.ExitCodeSuccess {
		return errors.NewSilentCommandError(code)
	}
	jobLogger.Debug("compile command completed successfully")
	return nil
}

// prepareCompilerOptions builds the immutable options of one job.
func prepareCompilerOptions(cfg *config.Config, opts RunOptionsCompile) shared.CompilerOptions {
	compilerOptions := shared.NewCompilerOptions(opts.InputFile)
	compilerOptions.OutputDirectory = cfg.Engine.OutputDirectory
	compilerOptions.CheckSyntaxOnly = opts.CheckOnly
	compilerOptions.VerboseOutput = opts.Verbose
	compilerOptions.GenerateDebugInfo = config.GenerateDebugInfo(cfg)
	return compilerOptions
}

func persistOptions(cfg *config.Config) []persister.Option {
	if cfg.Persist.SARIF {
		return []persister.Option{persister.WithSARIF()}
	}
	return nil
}
