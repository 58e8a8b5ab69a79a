package discovery

import (
	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/models"
)

// Severity ranks a diagnostic
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Diagnostic is a message raised while discovering injection points
type Diagnostic struct {
	Severity Severity
	Err      errors.SplinterError
}

// Error implements the error interface
func (d Diagnostic) Error() string {
	return d.Err.Error()
}

// Location returns where the diagnostic applies
func (d Diagnostic) Location() errors.SourceLocation {
	return d.Err.Location()
}

// Diagnostics is an ordered diagnostic list
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic is an error
func (ds Diagnostics) HasErrors() bool {
	return len(ds.Filter(SeverityError)) > 0
}

// Filter returns the diagnostics of the given severity
func (ds Diagnostics) Filter(severity Severity) Diagnostics {
	var result Diagnostics
	for _, d := range ds {
		if d.Severity == severity {
			result = append(result, d)
		}
	}
	return result
}

func location(pos models.Position) errors.SourceLocation {
	return errors.SourceLocation{File: pos.File, Line: pos.Line, Column: pos.Column}
}
