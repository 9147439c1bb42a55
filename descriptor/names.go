package descriptor

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/language"

	"github.com/byte4ever/postrender/fault"
)

// FallbackLanguage is used when neither the descriptor nor the
// environment names a language.
const FallbackLanguage = "en-GB"

// ParseLanguage validates s as a BCP-47 language tag and returns it as
// written.
func ParseLanguage(s string) (string, error) {
	if _, err := language.Parse(s); err != nil {
		return "", fault.NewParse(
			"BCP-47 language tag", "language specifier",
			fmt.Sprintf("%q invalid", s),
		)
	}

	return s, nil
}

// DefaultLanguage derives a language tag from LANG, LANGUAGE or LC_NAME,
// e.g. "en_GB.UTF-8" gives "en-GB". C and POSIX locales are skipped.
func DefaultLanguage() string {
	for _, env := range []string{"LANG", "LANGUAGE", "LC_NAME"} {
		lang, _, _ := strings.Cut(os.Getenv(env), ".")

		switch lang {
		case "", "C", "POSIX":
			continue
		}

		if tag, err := ParseLanguage(strings.ReplaceAll(lang, "_", "-")); err == nil {
			return tag
		}
	}

	return FallbackLanguage
}

// ParseTag validates a post tag name. Surrounding whitespace is trimmed.
func ParseTag(s string) (string, error) {
	s = strings.TrimSpace(s)

	if s == "" || strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return "", fault.NewParse(
			"non-empty WS- and controlless string", "post tag name",
			fmt.Sprintf("%q invalid", s),
		)
	}

	return s, nil
}

// parseTags validates every name of tags.
func parseTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))

	for _, t := range tags {
		tag, err := ParseTag(t)
		if err != nil {
			return nil, err
		}

		out = append(out, tag)
	}

	return out, nil
}
