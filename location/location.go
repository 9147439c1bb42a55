// Package location pairs a filesystem path with the name it is shown under
// in messages, so errors can say "$ROOT/posts/001/post.md" instead of an
// absolute path.
package location

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/byte4ever/postrender/fault"
)

// Location is a path on disk together with its display form.
type Location struct {
	Display string
	Path    string
}

// New returns a Location for dir, displayed as display.
func New(display, dir string) Location {
	return Location{Display: display, Path: dir}
}

// Join appends the relative path rel. Dot segments, doubled separators and
// backslashes are cleaned from both forms.
func (l Location) Join(rel string) Location {
	rel = strings.ReplaceAll(rel, "\\", "/")

	return Location{
		Display: joinDisplay(l.Display, path.Clean("/" + rel)[1:]),
		Path:    filepath.Join(l.Path, filepath.FromSlash(rel)),
	}
}

// Dir returns l with a trailing separator on the display form, for use as
// a base for further joins.
func (l Location) Dir() Location {
	if l.Display != "" && !isSeparator(l.Display[len(l.Display)-1]) {
		l.Display += "/"
	}

	return l
}

func joinDisplay(base, rel string) string {
	switch {
	case base == "":
		return rel
	case rel == "":
		return base
	case isSeparator(base[len(base)-1]):
		return base + rel
	default:
		return base + "/" + rel
	}
}

func isSeparator(b byte) bool {
	return b == '/' || b == '\\'
}

// ReadText reads the file at l as UTF-8 text. who names the requester in
// errors: a missing file is a FileNotFound fault, undecodable content a
// Parse fault, anything else an IO fault.
func (l Location) ReadText(who string) (string, error) {
	content, err := os.ReadFile(l.Path) //nolint:gosec // paths come from the blog tree
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fault.NotFound(who, l.Display)
		}

		return "", fault.NewIO("read", who, err)
	}

	if !utf8.Valid(content) {
		return "", fault.NewParse("UTF-8 string", who, l.Display)
	}

	return string(content), nil
}
