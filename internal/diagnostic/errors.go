package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Kind classifies a compile error.
type Kind int

const (
	KindStructural Kind = iota // StructuralError
	KindNaming                 // NamingError
	KindType                   // TypeError
	KindReference              // ReferenceError
	KindInternal               // InternalError
)

// Error is a compile error raised while parsing, validating or generating.
type Error struct {
	Kind    Kind
	Origin  string // source unit the error was found in, if known
	Table   string
	Entry   string
	Field   string
	Message string
}

// Newf creates an Error of the given kind.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InTable sets the table the error relates to.
func (e *Error) InTable(table string) *Error {
	e.Table = table
	return e
}

// InEntry sets the entry the error relates to.
func (e *Error) InEntry(entry string) *Error {
	e.Entry = entry
	return e
}

// AtField sets the field the error relates to.
func (e *Error) AtField(field string) *Error {
	e.Field = field
	return e
}

// From sets the source unit the error was found in.
func (e *Error) From(origin string) *Error {
	e.Origin = origin
	return e
}

// Location renders "table[entry].field" from whatever is known.
func (e *Error) Location() string {
	var sb strings.Builder

	sb.WriteString(e.Table)

	if e.Entry != "" {
		sb.WriteString("[" + e.Entry + "]")
	}

	if e.Field != "" {
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}

		sb.WriteString(e.Field)
	}

	return sb.String()
}

func (e *Error) Error() string {
	var prefix []string
	if e.Origin != "" {
		prefix = append(prefix, e.Origin)
	}

	if loc := e.Location(); loc != "" {
		prefix = append(prefix, loc)
	}

	msg := e.Kind.String() + ": " + e.Message
	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// KindOf returns the kind of the first *Error in err's chain. Errors that
// are not compile errors are reported as KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// IsKind reports whether err carries a compile error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
