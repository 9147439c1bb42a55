package stamper

import (
	"fmt"
	"maps"
	"os"
	"path"
	"strings"

	"github.com/valyala/fasttemplate"
)

// LoadStamps reads status files and merges them into a single map. Later
// files override earlier ones.
func LoadStamps(
	infoFiles []string,
) (map[string]string, error) {
	const errCtx = "loading stamps"

	stamps := make(map[string]string)

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		for _, line := range strings.Split(
			string(content), "\n",
		) {
			key, val, ok := strings.Cut(
				strings.TrimRight(line, "\r"), " ",
			)
			if ok && key != "" {
				stamps[key] = val
			}
		}
	}

	return stamps, nil
}

// Stamp substitutes {VAR} placeholders in format. Unknown variables are
// kept as they are.
func Stamp(
	format string,
	vars map[string]string,
) string {
	m := make(map[string]any, len(vars))
	for k, v := range vars {
		m[k] = v
	}

	return fasttemplate.ExecuteStringStd(format, "{", "}", m)
}

// OutputName stamps format with vars and checks that the result is a
// relative slash-separated path staying below the output directory.
func OutputName(
	format string,
	vars map[string]string,
) (string, error) {
	const errCtx = "stamping output name"

	name := path.Clean(Stamp(format, vars))

	switch {
	case name == "." || name == "":
		return "", fmt.Errorf(
			"%s: %q stamps to an empty name", errCtx, format,
		)
	case path.IsAbs(name), name == "..", strings.HasPrefix(name, "../"):
		return "", fmt.Errorf(
			"%s: %q escapes the output directory", errCtx, name,
		)
	}

	return name, nil
}

// Merge returns the union of the given maps; later maps win.
func Merge(sets ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, s := range sets {
		maps.Copy(out, s)
	}

	return out
}
