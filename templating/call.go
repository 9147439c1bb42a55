package templating

import "strings"

// parseCall splits "name(a, b)" into its name and trimmed arguments.
// Commas inside double quotes do not separate arguments. A missing
// closing parenthesis yields no arguments; a missing name is not a call.
func parseCall(s string) (string, []string, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return "", nil, false
	}

	name := strings.TrimSpace(s[:open])
	if name == "" {
		return "", nil, false
	}

	body := s[open+1:]

	closing := strings.LastIndexByte(body, ')')
	if closing < 0 {
		return name, nil, true
	}

	body = body[:closing]
	if strings.TrimSpace(body) == "" {
		return name, nil, true
	}

	var (
		args    []string
		start   int
		inQuote bool
	)

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				args = append(args, strings.TrimSpace(body[start:i]))
				start = i + 1
			}
		}
	}

	args = append(args, strings.TrimSpace(body[start:]))

	return name, args, true
}
