// Package paragraph truncates an HTML byte stream after a number of
// top-level paragraphs without parsing the document.
//
// Only two markers are recognised: "<p", which opens a paragraph and also
// matches tags such as <pre> or <param>, and "</p>", which closes one.
// Output does not depend on how the input is split across Write calls.
package paragraph

import (
	"bytes"
	"io"
)

var (
	openMarker  = []byte("<p")
	closeMarker = []byte("</p>")
)

// Limiter is an io.Writer passing through the first N top-level
// paragraphs, together with everything before them, to an inner writer.
// Once the next paragraph would start, the limiter ends and discards all
// further input.
type Limiter struct {
	w     io.Writer
	left  int
	depth int
	ended bool
	carry []byte
}

// NewLimiter returns a Limiter forwarding count paragraphs to w. A
// negative count is treated as zero.
func NewLimiter(w io.Writer, count int) *Limiter {
	return &Limiter{
		w:     w,
		left:  max(count, 0),
		carry: make([]byte, 0, len(closeMarker)-1),
	}
}

// Ended reports whether the paragraph budget was reached and input is
// being discarded.
func (l *Limiter) Ended() bool {
	return l.ended
}

// Write implements io.Writer. Bytes that may start a marker split across
// calls are kept back until the next Write or Flush; they are still
// counted as written.
func (l *Limiter) Write(p []byte) (int, error) {
	if l.ended {
		return len(p), nil
	}

	buf := make([]byte, 0, len(l.carry)+len(p))
	buf = append(buf, l.carry...)
	buf = append(buf, p...)

	keep := partialMarker(buf)

	// The carry only moves once the inner writer accepted the rest, so a
	// failed Write can be retried with the same bytes.
	if err := l.scan(buf[:len(buf)-keep]); err != nil {
		return 0, err
	}

	l.carry = append(l.carry[:0], buf[len(buf)-keep:]...)

	return len(p), nil
}

// Flush forwards the bytes held back by the last Write, e.g. a lone "<"
// at the end of the stream. It does nothing once the limiter has ended.
func (l *Limiter) Flush() error {
	if l.ended || len(l.carry) == 0 {
		return nil
	}

	buf := bytes.Clone(l.carry)
	l.carry = l.carry[:0]

	return l.scan(buf)
}

// partialMarker returns how many trailing bytes of buf could be the
// beginning of a marker completed by the next chunk.
func partialMarker(buf []byte) int {
	switch {
	case bytes.HasSuffix(buf, []byte("</p")):
		return 3
	case bytes.HasSuffix(buf, []byte("</")),
		bytes.HasSuffix(buf, openMarker):
		return 2
	case bytes.HasSuffix(buf, []byte("<")):
		return 1
	default:
		return 0
	}
}

// scan forwards buf marker by marker.
func (l *Limiter) scan(buf []byte) error {
	for !l.ended && len(buf) > 0 {
		o := bytes.Index(buf, openMarker)
		c := bytes.Index(buf, closeMarker)

		switch {
		case o >= 0 && (c < 0 || o < c) && l.left == 0:
			if _, err := l.w.Write(buf[:o]); err != nil {
				return err
			}

			l.ended = true
		case o >= 0 && (c < 0 || o < c):
			end := o + len(openMarker)
			if _, err := l.w.Write(buf[:end]); err != nil {
				return err
			}

			l.depth++
			buf = buf[end:]
		case c >= 0:
			end := c + len(closeMarker)
			if _, err := l.w.Write(buf[:end]); err != nil {
				return err
			}

			l.closeParagraph()
			buf = buf[end:]
		default:
			if _, err := l.w.Write(buf); err != nil {
				return err
			}

			buf = nil
		}
	}

	return nil
}

// closeParagraph accounts for a "</p>". A stray close at depth zero is
// passed through without touching the budget.
func (l *Limiter) closeParagraph() {
	if l.depth == 0 {
		return
	}

	l.depth--
	if l.depth == 0 {
		l.left--
	}
}
