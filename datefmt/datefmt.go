// Package datefmt parses the date format specifiers accepted by templates
// and formats timestamps with them.
//
// A specifier is one of the fixed names rfc2822, rfc_2822, rfc3339 or
// rfc_3339 (lower- or upper-case), or a double-quoted strftime pattern such
// as "%Y %B %d". Timestamps are normalised to a fixed-offset zone before
// formatting so the output never depends on zone database lookups.
package datefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// RFC2822 is the RFC 2822 layout with a space-padded day of month, e.g.
// "Thu,  6 Sep 2018 18:32:22 +0200".
const RFC2822 = "%a, %e %b %Y %H:%M:%S %z"

// rfc3339Layout keeps a numeric "+00:00" offset for UTC and drops trailing
// zero fractions.
const rfc3339Layout = "2006-01-02T15:04:05.999999999-07:00"

// Kind tells which family a Spec belongs to.
type Kind int

// Specifier kinds.
const (
	KindRFC2822 Kind = iota
	KindRFC3339
	KindStrftime
)

// Spec is a parsed date format specifier.
type Spec struct {
	kind    Kind
	pattern string
}

// Kind returns the specifier family.
func (s Spec) Kind() Kind {
	return s.kind
}

// Pattern returns the strftime pattern, empty for fixed specifiers.
func (s Spec) Pattern() string {
	return s.pattern
}

// Parse parses a specifier. Surrounding whitespace is ignored.
func Parse(spec string) (Spec, error) {
	spec = strings.TrimSpace(spec)

	switch spec {
	case "rfc2822", "rfc_2822", "RFC2822", "RFC_2822":
		return Spec{kind: KindRFC2822}, nil
	case "rfc3339", "rfc_3339", "RFC3339", "RFC_3339":
		return Spec{kind: KindRFC3339}, nil
	}

	if len(spec) >= 2 && spec[0] == '"' && spec[len(spec)-1] == '"' {
		pattern := spec[1 : len(spec)-1]
		if err := validate(pattern); err != nil {
			return Spec{}, err
		}

		return Spec{kind: KindStrftime, pattern: pattern}, nil
	}

	return Spec{}, fmt.Errorf(
		"invalid date format specifier %s", spec,
	)
}

// MustParse is like Parse but panics on error.
func MustParse(spec string) Spec {
	s, err := Parse(spec)
	if err != nil {
		panic(err)
	}

	return s
}

// Format renders t, normalised to its fixed offset.
func (s Spec) Format(t time.Time) string {
	t = Normalize(t)

	switch s.kind {
	case KindRFC2822:
		return strftime.Format(RFC2822, t)
	case KindRFC3339:
		return t.Format(rfc3339Layout)
	default:
		return strftime.Format(s.pattern, t)
	}
}

// FormatRFC2822 renders t as RFC 2822.
func FormatRFC2822(t time.Time) string {
	return Spec{kind: KindRFC2822}.Format(t)
}

// FormatRFC3339 renders t as RFC 3339.
func FormatRFC3339(t time.Time) string {
	return Spec{kind: KindRFC3339}.Format(t)
}

// Normalize returns t in a fixed zone with t's current offset.
func Normalize(t time.Time) time.Time {
	_, offset := t.Zone()

	return t.In(time.FixedZone("", offset))
}

// directives lists the conversion characters the strftime formatter
// understands.
const directives = "AaBbhmdeIlHkMSLfNyYCUWVgGsQwujpPZz+cvFDxrTXR%tn"

func validate(pattern string) error {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' {
			continue
		}

		start := i
		i++

		if i < len(pattern) && (pattern[i] == '-' || pattern[i] == ':') {
			i++
		}

		if i < len(pattern) && (pattern[i] == 'E' || pattern[i] == 'O') {
			i++
		}

		if i >= len(pattern) {
			return fmt.Errorf(
				"dangling %q at end of pattern %q",
				pattern[start:], pattern,
			)
		}

		if !strings.ContainsRune(directives, rune(pattern[i])) {
			return fmt.Errorf(
				"unsupported directive %q in pattern %q",
				pattern[start:i+1], pattern,
			)
		}
	}

	return nil
}
