// Package designer reads and writes the single-line diagnostic format used by
// the CSPro Designer compiler window: SEVERITY(ProcName, line): message.
package designer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cspro-tools/csprocompile/pkg/shared"
)

// SeverityLabel returns the uppercase label of a diagnostic. Anything that is not an error is a warning.
func SeverityLabel(s shared.Severity) string {
	switch s {
	case shared.SeverityError:
		return "ERROR"
	default:
		return "WARNING"
	}
}

// FormatLine renders d in Designer format. The location part depends on which of ProcName and Line are set.
func FormatLine(d shared.DiagnosticMessage) string {
	severity := SeverityLabel(d.Severity)
	switch {
	case d.ProcName != "" && d.Line > 0:
		return fmt.Sprintf("%s(%s, %d): %s", severity, d.ProcName, d.Line, d.Message)
	case d.ProcName != "":
		return fmt.Sprintf("%s(%s): %s", severity, d.ProcName, d.Message)
	case d.Line > 0:
		return fmt.Sprintf("%s(%d): %s", severity, d.Line, d.Message)
	default:
		return fmt.Sprintf("%s: %s", severity, d.Message)
	}
}

var linePattern = regexp.MustCompile(`^(ERROR|WARNING|DEPRECATION)(?:\(([^)]*)\))?:\s?(.*)$`)

// ParseLine parses a Designer-format line. Deprecation notices are reported as warnings.
// ok is false when the line is not a diagnostic.
func ParseLine(line string) (d shared.DiagnosticMessage, ok bool) {
	m := linePattern.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if m == nil {
		return d, false
	}

	d.Severity = shared.SeverityWarning
	if m[1] == "ERROR" {
		d.Severity = shared.SeverityError
	}
	d.Message = m[3]

	location := strings.TrimSpace(m[2])
	if location == "" {
		return d, true
	}

	proc, lineNo := location, ""
	if i := strings.LastIndex(location, ","); i >= 0 {
		proc, lineNo = strings.TrimSpace(location[:i]), strings.TrimSpace(location[i+1:])
	} else if _, err := strconv.Atoi(location); err == nil {
		proc, lineNo = "", location
	}

	if lineNo != "" {
		n, err := strconv.Atoi(lineNo)
		if err != nil || n < 0 {
			return shared.DiagnosticMessage{}, false
		}
		d.Line = n
	}
	d.ProcName = proc
	return d, true
}
