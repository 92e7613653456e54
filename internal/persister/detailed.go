package persister

import (
	"fmt"
	"io"

	"github.com/cspro-tools/csprocompile/internal/designer"
)

const timestampLayout = "2006-01-02 15:04:05"

// DetailedStrategy writes a header block followed by one block per diagnostic.
type DetailedStrategy struct{}

func (DetailedStrategy) FileName() string    { return DetailedLogName }
func (DetailedStrategy) Description() string { return "errors/warnings" }

func (DetailedStrategy) Write(w io.Writer, job Job) error {
	result := job.Result
	if _, err := fmt.Fprintf(w,
		"CSPro Compilation Errors/Warnings\n"+
			"==================================\n"+
			"File: %s\n"+
			"Date: %s\n"+
			"Total Errors: %d\n"+
			"Total Warnings: %d\n\n",
		job.InputFile, job.Generated.Format(timestampLayout), result.ErrorCount, result.WarningCount); err != nil {
		return err
	}

	for _, d := range result.Diagnostics {
		if _, err := fmt.Fprintf(w, "%s at line %d, column %d:\n  %s\n  Location: %s\n\n",
			designer.SeverityLabel(d.Severity), d.Line, d.Column, d.Message, d.File); err != nil {
			return err
		}
	}
	return nil
}

// DesignerStrategy writes one Designer-format line per diagnostic.
type DesignerStrategy struct{}

func (DesignerStrategy) FileName() string    { return DesignerLogName }
func (DesignerStrategy) Description() string { return "formatted errors" }

func (DesignerStrategy) Write(w io.Writer, job Job) error {
	for _, d := range job.Result.Diagnostics {
		if _, err := fmt.Fprintln(w, designer.FormatLine(d)); err != nil {
			return err
		}
	}
	return nil
}
