package persister

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/cspro-tools/csprocompile/pkg/shared"
)

const (
	sarifToolName = "csprocompile"
	sarifToolURI  = "https://www.census.gov/data/software/cspro.html"
)

// SARIFStrategy writes the diagnostics as a SARIF 2.1.0 report for editors with a SARIF viewer.
type SARIFStrategy struct{}

func (SARIFStrategy) FileName() string    { return SARIFLogName }
func (SARIFStrategy) Description() string { return "SARIF report" }

func (SARIFStrategy) Write(w io.Writer, job Job) error {
	report, err := BuildSARIFReport(job)
	if err != nil {
		return err
	}
	return report.PrettyWrite(w)
}

// BuildSARIFReport converts the diagnostics of job into a SARIF report with one run.
func BuildSARIFReport(job Job) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(sarifToolName, sarifToolURI)
	for _, d := range job.Result.Diagnostics {
		level := toSarifLevel(d.Severity)
		rule := run.AddRule(sarifRuleID(d.Severity)).
			WithDescription(fmt.Sprintf("CSPro compiler %s", d.Severity)).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: level})

		file := d.File
		if file == "" {
			file = job.InputFile
		}
		region := sarif.NewRegion()
		if d.Line > 0 {
			region = region.WithStartLine(d.Line)
			if d.Column > 0 {
				region = region.WithStartColumn(d.Column)
			}
		}
		physical := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(file))
		if d.Line > 0 {
			physical = physical.WithRegion(region)
		}

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(d.Message)).
			WithLevel(level).
			WithLocations([]*sarif.Location{sarif.NewLocation().WithPhysicalLocation(physical)})
		if d.ProcName != "" {
			result.Properties = sarif.Properties{"procName": d.ProcName}
		}
		run.AddResult(result)
	}
	report.AddRun(run)
	return report, nil
}

func sarifRuleID(s shared.Severity) string {
	if s == shared.SeverityError {
		return "CSPRO-ERROR"
	}
	return "CSPRO-WARNING"
}

func toSarifLevel(s shared.Severity) string {
	switch s {
	case shared.SeverityError:
		return "error"
	default:
		return "warning"
	}
}
