package diagnostic

import (
	"errors"
	"strings"

	"tablegen/internal/common"
)

// Diagnostics collects what one generation pass has to say, by severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic is one message about a source unit.
type Diagnostic struct {
	Severity Severity
	// Code is the error kind for errors, e.g. "TypeError", or a short tag
	// such as "parsed" or "untyped_array" otherwise.
	Code    string
	Message string
	// Origin names the source unit, if known.
	Origin string
	// Location is the table[entry].field path, if known.
	Location string
}

// Severity orders diagnostics from informational to fatal.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{
	SeverityInfo:    "info",
	SeverityWarning: "warning",
	SeverityError:   "error",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return common.UnknownStr
	}

	return severityNames[s]
}

func (d *Diagnostics) add(s Severity, code, message, origin, location string) {
	dg := Diagnostic{Severity: s, Code: code, Message: message, Origin: origin, Location: location}

	switch s {
	case SeverityError:
		d.Errors = append(d.Errors, dg)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, dg)
	default:
		d.Infos = append(d.Infos, dg)
	}
}

// AddError records an error.
func (d *Diagnostics) AddError(code, message, origin, location string) {
	d.add(SeverityError, code, message, origin, location)
}

// AddWarning records a warning.
func (d *Diagnostics) AddWarning(code, message, origin, location string) {
	d.add(SeverityWarning, code, message, origin, location)
}

// AddInfo records a trace message.
func (d *Diagnostics) AddInfo(code, message, origin, location string) {
	d.add(SeverityInfo, code, message, origin, location)
}

// AddErr records err as an error diagnostic. An *Error keeps its kind as
// the code along with its origin and location; anything else is an
// InternalError. A nil err is ignored.
func (d *Diagnostics) AddErr(err error) {
	if err == nil {
		return
	}

	var e *Error
	if !errors.As(err, &e) {
		d.AddError(KindInternal.String(), err.Error(), "", "")
		return
	}

	d.AddError(e.Kind.String(), e.Message, e.Origin, e.Location())
}

// HasErrors reports whether any error was recorded.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge appends the diagnostics of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// All returns infos, then warnings, then errors.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Infos)+len(d.Warnings)+len(d.Errors))
	out = append(out, d.Infos...)
	out = append(out, d.Warnings...)

	return append(out, d.Errors...)
}

// Error joins the recorded errors into one error, or returns nil when
// there are none.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	errs := make([]error, len(d.Errors))
	for i, e := range d.Errors {
		errs[i] = errors.New(e.String())
	}

	return errors.Join(errs...)
}

// String renders the diagnostic as "origin location: [code] message",
// leaving out the parts that are empty.
func (d Diagnostic) String() string {
	var sb strings.Builder

	for _, p := range []string{d.Origin, d.Location} {
		if p == "" {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(p)
	}

	if sb.Len() > 0 {
		sb.WriteString(": ")
	}

	if d.Code != "" {
		sb.WriteString("[" + d.Code + "] ")
	}

	sb.WriteString(d.Message)

	return sb.String()
}
