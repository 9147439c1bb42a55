package feed

import (
	"io"
	"strings"
)

var xmlText = strings.NewReplacer("<", "&lt;", ">", "&gt;", "&", "&amp;")

// EscapeWriter escapes '<', '>' and '&' on the way to W. Quotes are left
// alone since everything it writes is element text.
type EscapeWriter struct {
	W io.Writer
}

// Write implements io.Writer. The count refers to bytes of p.
func (e EscapeWriter) Write(p []byte) (int, error) {
	if _, err := xmlText.WriteString(e.W, string(p)); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Escape returns s with '<', '>' and '&' escaped.
func Escape(s string) string {
	return xmlText.Replace(s)
}
