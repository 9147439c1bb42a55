package fault

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind classifies an Error.
type Kind int

// Error kinds, in exit-code order.
const (
	IO Kind = iota + 1
	Parse
	FileNotFound
	WrongFileState
	FileParsingFailed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case IO:
		return "IO"
	case Parse:
		return "PARSE"
	case FileNotFound:
		return "FILE_NOT_FOUND"
	case WrongFileState:
		return "WRONG_FILE_STATE"
	case FileParsingFailed:
		return "FILE_PARSING_FAILED"
	default:
		return "UNKNOWN"
	}
}

// NoOffset marks an Error that does not point into a template.
const NoOffset = -1

// Error is a classified failure. Which fields are meaningful depends on
// Kind:
//
//	IO                 Op, What, Detail, Cause
//	Parse              What, Where, Detail, Offset
//	FileNotFound       What (the requester), Where (the path)
//	WrongFileState     What (the expected state), Where (the path)
//	FileParsingFailed  What, Detail, Cause
type Error struct {
	Kind   Kind
	Op     string // lowercase imperative: "write", "open", "create"
	What   string
	Where  string
	Detail string
	Offset int // byte offset into a template, or NoOffset
	Cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	switch e.Kind {
	case IO:
		sb.WriteString(gerund(e.Op))
		sb.WriteByte(' ')
		sb.WriteString(e.What)
		sb.WriteString(" failed")
	case Parse:
		fmt.Fprintf(&sb, "Failed to parse %s for %s", e.What, e.Where)
	case FileNotFound:
		fmt.Fprintf(&sb, "File %s for %s not found", e.Where, e.What)
	case WrongFileState:
		fmt.Fprintf(&sb, "File %s is not %s", e.Where, e.What)
	case FileParsingFailed:
		fmt.Fprintf(&sb, "Failed to parse %s", e.What)
	default:
		sb.WriteString(e.What)
	}

	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}

	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// gerund turns "write" into "Writing" and "open" into "Opening".
func gerund(op string) string {
	if op == "" {
		return "Processing"
	}

	op = strings.TrimSuffix(op, "e") + "ing"

	r, n := utf8.DecodeRuneInString(op)

	return string(unicode.ToUpper(r)) + op[n:]
}

// NewIO creates an IO error for op on what.
func NewIO(op, what string, cause error) *Error {
	return &Error{
		Kind:   IO,
		Op:     op,
		What:   what,
		Offset: NoOffset,
		Cause:  cause,
	}
}

// Write creates an IO error for a failed write of what.
func Write(what string, cause error) *Error {
	return NewIO("write", what, cause)
}

// NewParse creates a Parse error: what failed to parse, for where.
func NewParse(what, where, detail string) *Error {
	return &Error{
		Kind:   Parse,
		What:   what,
		Where:  where,
		Detail: detail,
		Offset: NoOffset,
	}
}

// ParseAt creates a Parse error pointing at offset. The detail is
// formatted from format and args.
func ParseAt(
	what string,
	where string,
	offset int,
	format string,
	args ...any,
) *Error {
	return &Error{
		Kind:   Parse,
		What:   what,
		Where:  where,
		Detail: fmt.Sprintf(format, args...),
		Offset: offset,
	}
}

// NotFound creates a FileNotFound error: who asked for path.
func NotFound(who, path string) *Error {
	return &Error{
		Kind:   FileNotFound,
		What:   who,
		Where:  path,
		Offset: NoOffset,
	}
}

// WrongState creates a WrongFileState error: path is not what.
func WrongState(what, path string) *Error {
	return &Error{
		Kind:   WrongFileState,
		What:   what,
		Where:  path,
		Offset: NoOffset,
	}
}

// ParsingFailed creates a FileParsingFailed error for the file described
// by what.
func ParsingFailed(what string, cause error) *Error {
	return &Error{
		Kind:   FileParsingFailed,
		What:   what,
		Offset: NoOffset,
		Cause:  cause,
	}
}

// Is reports whether err has the given kind.
// It unwraps the error chain looking for an *Error with a matching kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf extracts the kind from an error, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}

// ExitCode maps err to a process exit status: 0 for nil, the kind number
// for an *Error and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	if k := KindOf(err); k != 0 {
		return int(k)
	}

	return 1
}
