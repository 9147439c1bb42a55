package element

import (
	"fmt"
	"strings"

	"github.com/byte4ever/postrender/fault"
)

// Class tells how the data of an Element is interpreted.
type Class int

// Element classes.
const (
	ClassLink Class = iota
	ClassLiteral
	ClassFile
)

var classNames = [...]string{
	ClassLink:    "link",
	ClassLiteral: "literal",
	ClassFile:    "file",
}

// String returns the serialised class name.
func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("Class(%d)", int(c))
	}

	return classNames[c]
}

// ParseClass maps a serialised class name to a Class. Names are
// case-sensitive.
func ParseClass(name string) (Class, error) {
	for c, n := range classNames {
		if n == name {
			return Class(c), nil
		}
	}

	return 0, fault.NewParse(
		"element class",
		fmt.Sprintf("%q", name),
		`expected "literal", "link", or "file"`,
	)
}

// Element is a class tagged piece of data. The zero value is an empty
// link.
type Element struct {
	class Class
	data  string
}

// Link returns an element referring to url.
func Link(url string) Element {
	return Element{class: ClassLink, data: url}
}

// Literal returns an element holding text inline.
func Literal(text string) Element {
	return Element{class: ClassLiteral, data: text}
}

// File returns an unresolved element pointing at path, relative to the
// blog root.
func File(path string) Element {
	return Element{class: ClassFile, data: path}
}

// Class returns the element class.
func (e Element) Class() Class {
	return e.class
}

// Data returns the URL, the text or the path, depending on the class.
func (e Element) Data() string {
	return e.data
}

// String returns the compact "class:data" form.
func (e Element) String() string {
	return e.class.String() + ":" + e.data
}

// ParseCompact parses the compact form. A string without a colon is a
// literal; otherwise the part before the first colon must name a class.
func ParseCompact(s string) (Element, error) {
	name, data, found := strings.Cut(s, ":")
	if !found {
		return Literal(s), nil
	}

	class, err := ParseClass(name)
	if err != nil {
		return Element{}, err
	}

	return Element{class: class, data: data}, nil
}

// fromTable builds an element from the verbose form. Duplicate keys are
// rejected by the decoders before the table gets here.
func fromTable(fields map[string]any) (Element, error) {
	const where = "verbose element"

	var (
		class     Class
		data      string
		haveClass bool
		haveData  bool
	)

	for key, raw := range fields {
		val, ok := raw.(string)
		if !ok {
			return Element{}, fault.NewParse(
				"element field "+key, where,
				fmt.Sprintf("expected a string, got %T", raw),
			)
		}

		switch key {
		case "class":
			c, err := ParseClass(val)
			if err != nil {
				return Element{}, err
			}

			class, haveClass = c, true
		case "data":
			data, haveData = val, true
		default:
			return Element{}, fault.NewParse(
				"element field", where,
				fmt.Sprintf(
					"unknown field %q, expected \"class\" or \"data\"", key,
				),
			)
		}
	}

	switch {
	case !haveClass:
		return Element{}, fault.NewParse(
			"element field", where, `missing field "class"`,
		)
	case !haveData:
		return Element{}, fault.NewParse(
			"element field", where, `missing field "data"`,
		)
	}

	return Element{class: class, data: data}, nil
}

// decodeAny dispatches a generically decoded value to the compact or the
// verbose form.
func decodeAny(v any) (Element, error) {
	switch val := v.(type) {
	case string:
		return ParseCompact(val)
	case map[string]any:
		return fromTable(val)
	default:
		return Element{}, fault.NewParse(
			"element", "configuration",
			fmt.Sprintf("expected a string or a table, got %T", v),
		)
	}
}
