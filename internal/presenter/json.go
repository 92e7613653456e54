package presenter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cspro-tools/csprocompile/pkg/shared"
	"github.com/cspro-tools/csprocompile/pkg/shared/files"
)

// Result is the JSON document consumed by editor integrations.
type Result struct {
	Success         bool          `json:"success"`
	CompilationTime float64       `json:"compilationTime"`
	Errors          []ResultError `json:"errors"`
}

// ResultError is one diagnostic in the JSON document.
type ResultError struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// NewResult converts a compilation result into its JSON document form.
func NewResult(result shared.CompilationResult) Result {
	doc := Result{
		Success:         result.Success,
		CompilationTime: seconds(result.CompilationTimeMs),
		Errors:          make([]ResultError, 0, len(result.Diagnostics)),
	}
	for _, d := range result.Diagnostics {
		doc.Errors = append(doc.Errors, ResultError{
			File:     d.File,
			Line:     d.Line,
			Column:   d.Column,
			Message:  d.Message,
			Severity: severityWord(d.Severity),
		})
	}
	return doc
}

// EncodeJSON writes the JSON document for result to w.
func EncodeJSON(w io.Writer, result shared.CompilationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(NewResult(result))
}

func (p *Presenter) presentJSON(result shared.CompilationResult) error {
	if p.opts.OutputPath == "" {
		return EncodeJSON(p.stdout, result)
	}

	outputFile, folder, err := files.DetermineFileFullPath(p.opts.OutputPath, DefaultResultName)
	if err != nil {
		return err
	}
	if err := files.CreateFolderIfNotExists(folder); err != nil {
		return err
	}

	if err := files.WriteFile(outputFile, func(w *bufio.Writer) error {
		return EncodeJSON(w, result)
	}); err != nil {
		return fmt.Errorf("failed to write result to %q: %w", outputFile, err)
	}
	p.logger.Info("result saved", "path", outputFile)
	return nil
}
