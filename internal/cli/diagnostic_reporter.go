package cli

import (
	stderrors "errors"
	"strings"
	"sync"

	"github.com/toyz/splinter/internal/discovery"
	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/utils"
)

// DiagnosticReporter prints processor diagnostics compiler-style and counts them
type DiagnosticReporter struct {
	diagnostics *utils.DiagnosticSystem
	verbose     bool

	mu     sync.Mutex
	counts map[discovery.Severity]int
}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter(diagnostics *utils.DiagnosticSystem, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		diagnostics: diagnostics,
		verbose:     verbose,
		counts:      make(map[discovery.Severity]int),
	}
}

// Report implements processor.Reporter
func (r *DiagnosticReporter) Report(d discovery.Diagnostic) {
	r.mu.Lock()
	r.counts[d.Severity]++
	r.mu.Unlock()

	switch d.Severity {
	case discovery.SeverityError:
		r.diagnostics.Error("%s", d.Error())
	case discovery.SeverityWarning:
		r.diagnostics.Warn("%s", d.Error())
	default:
		r.diagnostics.Note("%s", d.Error())
	}

	r.reportDetails(d.Err)
}

// ReportError reports an error raised outside discovery, such as a parse failure.
// Collected errors are reported one by one.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	var multiple *errors.MultipleErrors
	if stderrors.As(err, &multiple) {
		for _, e := range multiple.Errors {
			r.Report(discovery.Diagnostic{Severity: discovery.SeverityError, Err: e})
		}
		return
	}

	var se errors.SplinterError
	if !stderrors.As(err, &se) {
		se = errors.Wrap(errors.UnknownErrorCode, err.Error(), err)
	}
	r.Report(discovery.Diagnostic{Severity: discovery.SeverityError, Err: se})
}

func (r *DiagnosticReporter) reportDetails(err errors.SplinterError) {
	if err == nil {
		return
	}

	r.diagnostics.Indent()
	defer r.diagnostics.Unindent()

	for _, suggestion := range err.Suggestions() {
		lines := strings.Split(suggestion, "\n")
		r.diagnostics.List("%s", lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				r.diagnostics.List("  %s", line)
			}
		}
	}

	if !r.verbose {
		return
	}
	level := 1
	for cause := err.Unwrap(); cause != nil; cause = stderrors.Unwrap(cause) {
		r.diagnostics.Verbose("cause %d: %s", level, cause.Error())
		level++
	}
}

// Errors returns how many error diagnostics were reported
func (r *DiagnosticReporter) Errors() int {
	return r.count(discovery.SeverityError)
}

// Warnings returns how many warnings were reported
func (r *DiagnosticReporter) Warnings() int {
	return r.count(discovery.SeverityWarning)
}

// Notes returns how many notes were reported
func (r *DiagnosticReporter) Notes() int {
	return r.count(discovery.SeverityNote)
}

func (r *DiagnosticReporter) count(severity discovery.Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[severity]
}
