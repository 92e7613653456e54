package compile

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/cspro-tools/csprocompile/pkg/shared/files"
)

var allowedExtensions = map[string]bool{
	".ent": true,
	".bch": true,
	".pff": true,
}

// validateCompileArgs validates the arguments provided to the compile command.
func validateCompileArgs(opts *RunOptionsCompile) error {
	if opts.InputFile == "" {
		return fmt.Errorf("an input file must be specified")
	}

	if err := files.ValidatePath(opts.InputFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("Input file not found: %s", opts.InputFile)
		}
		return fmt.Errorf("Invalid input file: %w", err)
	}

	if !allowedExtensions[filepath.Ext(opts.InputFile)] {
		return fmt.Errorf("Invalid file type. Expected .ent, .bch, or .pff")
	}
	return nil
}
