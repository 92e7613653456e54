package presenter

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/cspro-tools/csprocompile/pkg/shared"
)

type palette struct {
	success     *color.Color
	failure     *color.Color
	errorWord   *color.Color
	warningWord *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		success:     color.New(color.FgGreen, color.Bold),
		failure:     color.New(color.FgRed, color.Bold),
		errorWord:   color.New(color.FgRed),
		warningWord: color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{p.success, p.failure, p.errorWord, p.warningWord} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s shared.Severity) string {
	if s == shared.SeverityError {
		return p.errorWord.Sprint(severityWord(s))
	}
	return p.warningWord.Sprint(severityWord(s))
}

func (p *Presenter) presentText(result shared.CompilationResult) {
	colors := newPalette(p.opts.NoColor)

	if result.Success {
		fmt.Fprintln(p.stdout, colors.success.Sprint("Compilation successful!"))
		if p.opts.Verbose {
			fmt.Fprintf(p.stdout, "Compilation time: %.6g seconds\n", seconds(result.CompilationTimeMs))
		}
		return
	}

	summary := fmt.Sprintf("Compilation failed with %d error(s)", result.ErrorCount)
	if result.WarningCount > 0 {
		summary += fmt.Sprintf(" and %d warning(s)", result.WarningCount)
	}
	fmt.Fprintln(p.stderr, colors.failure.Sprint(summary+":"))

	for _, d := range result.Diagnostics {
		fmt.Fprintf(p.stderr, "%s(%d,%d): %s: %s\n", d.File, d.Line, d.Column, colors.severity(d.Severity), d.Message)
	}
}
