package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cspro-tools/csprocompile/cmd/compile"
	"github.com/cspro-tools/csprocompile/cmd/version"
	"github.com/cspro-tools/csprocompile/internal/config"
	"github.com/cspro-tools/csprocompile/pkg/shared/errors"
)

// usageError marks command line mistakes that are reported together with the usage text.
// The message goes to stderr and the usage text to stdout.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// NewRootCmd builds the csprocompile command tree writing to the given streams.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		cfgFile        string
		appConfig      *config.Config
		compileOptions compile.RunOptionsCompile
	)

	rootCmd := &cobra.Command{
		Use:                   "csprocompile <application.ent|.bch|.pff> [options]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Command-line CSPro application compiler",
		Long: `CSProCompile - Command-line CSPro Application Compiler

Compiles a CSPro application with a pluggable compiler engine and reports
errors and warnings as text or as JSON. When the compilation produces any
diagnostics, compileErrors.txt and compileErrorsFormatted.txt are written
next to the input file.`,
		Example: compile.ExampleCompileUsage,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{fmt.Errorf("expected exactly one input file, got %d", len(args))}
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return errors.NewCommandError(err, errors.ExitCodeFailure)
			}
			if err := config.ValidateConfig(cfg); err != nil {
				return errors.NewCommandError(err, errors.ExitCodeFailure)
			}
			appConfig = cfg
			version.Init(cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			compileOptions.InputFile = args[0]
			return compile.Run(appConfig, compileOptions, compile.Streams{Stdout: stdout, Stderr: stderr})
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to the YAML configuration file.")
	compile.RegisterFlags(rootCmd.Flags(), &compileOptions)
	rootCmd.Flags().BoolP("help", "h", false, "Show this help message.")

	rootCmd.AddCommand(version.NewVersionCmd())
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "Error: %v\n", r)
			code = errors.ExitCodeFailure
		}
	}()

	rootCmd := NewRootCmd(stdout, stderr)
	if len(args) == 0 {
		fmt.Fprint(stdout, rootCmd.UsageString())
		return errors.ExitCodeFailure
	}
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err == nil {
		return errors.ExitCodeSuccess
	}

	var usageErr *usageError
	if stderrors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "Error: %v\n", usageErr)
		fmt.Fprint(stdout, rootCmd.UsageString())
		return errors.ExitCodeFailure
	}

	var cmdErr *errors.CommandError
	if stderrors.As(err, &cmdErr) {
		if !cmdErr.Silent() {
			fmt.Fprintf(stderr, "Error: %v\n", cmdErr)
		}
		return cmdErr.ExitCode
	}

	// cobra reports unknown subcommands and similar mistakes as plain errors
	fmt.Fprintf(stderr, "Error: %v\n", err)
	fmt.Fprint(stdout, rootCmd.UsageString())
	return errors.ExitCodeFailure
}
