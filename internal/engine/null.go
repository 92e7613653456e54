package engine

import (
	"github.com/hashicorp/go-hclog"

	"github.com/cspro-tools/csprocompile/pkg/shared"
	"github.com/cspro-tools/csprocompile/pkg/shared/errors"
)

// NullEngine stands in for a compiler when no backing toolchain is installed.
// It never initializes, so jobs fail with an initialization diagnostic.
type NullEngine struct {
	logger hclog.Logger
}

func NewNullEngine(logger hclog.Logger) *NullEngine {
	return &NullEngine{logger: logger}
}

func (e *NullEngine) Initialize() (bool, error) {
	e.logger.Debug("null engine selected, no compiler toolchain available")
	return false, nil
}

func (e *NullEngine) Compile(opts shared.CompilerOptions) (shared.CompilationResult, error) {
	return shared.CompilationResult{}, errors.NewNotImplementedError("Compile", "null")
}

func (e *NullEngine) Shutdown() error {
	return nil
}
