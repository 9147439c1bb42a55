package element

import (
	"io"

	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/location"
)

// Markup shown in place of a file element that was never resolved.
const (
	unresolvedHead = "&lt;"
	unresolvedFoot = "&gt;\n"
)

// Wrapper holds the tag markup surrounding links and literals of one
// element kind.
type Wrapper struct {
	Tag         string // "script" or "style", used in error messages
	LinkHead    string
	LinkFoot    string
	LiteralHead string
	LiteralFoot string
}

// ScriptWrapper is the markup of script elements.
var ScriptWrapper = Wrapper{
	Tag:         "script",
	LinkHead:    `<script type="text/javascript" src="`,
	LinkFoot:    "\"></script>\n",
	LiteralHead: "<script type=\"text/javascript\">\n\n",
	LiteralFoot: "\n\n</script>\n",
}

// StyleWrapper is the markup of style elements.
var StyleWrapper = Wrapper{
	Tag:         "style",
	LinkHead:    `<link href="`,
	LinkFoot:    "\" rel=\"stylesheet\" />\n",
	LiteralHead: "<style type=\"text/css\">\n\n",
	LiteralFoot: "\n\n</style>\n",
}

// Head returns the markup written before the content of e.
func (w Wrapper) Head(e Element) string {
	switch e.class {
	case ClassLink:
		return w.LinkHead
	case ClassLiteral:
		return w.LiteralHead
	default:
		return unresolvedHead
	}
}

// Foot returns the markup written after the content of e.
func (w Wrapper) Foot(e Element) string {
	switch e.class {
	case ClassLink:
		return w.LinkFoot
	case ClassLiteral:
		return w.LiteralFoot
	default:
		return unresolvedFoot
	}
}

// resolve reads a file element below base into a literal.
func (w Wrapper) resolve(
	e Element,
	base location.Location,
) (Element, error) {
	if e.class != ClassFile {
		return e, nil
	}

	return w.fromFile(base.Join(e.data))
}

func (w Wrapper) fromFile(loc location.Location) (Element, error) {
	text, err := loc.ReadText("file " + w.Tag + " element")
	if err != nil {
		return Element{}, err
	}

	return Literal(text), nil
}

// Wrapped is an element bound to its tag markup.
type Wrapped interface {
	Tag() string
	Head() string
	Content() string
	Foot() string
}

// Script is an element rendered as a script tag.
type Script struct {
	Element
}

// Tag returns "script".
func (s Script) Tag() string { return ScriptWrapper.Tag }

// Head returns the opening markup.
func (s Script) Head() string { return ScriptWrapper.Head(s.Element) }

// Content returns the URL, the inline text or the unresolved path.
func (s Script) Content() string { return s.data }

// Foot returns the closing markup.
func (s Script) Foot() string { return ScriptWrapper.Foot(s.Element) }

// Resolve returns s with a file element replaced by a literal holding the
// file contents. Links and literals are returned as is.
func (s Script) Resolve(base location.Location) (Script, error) {
	e, err := ScriptWrapper.resolve(s.Element, base)
	if err != nil {
		return s, err
	}

	return Script{Element: e}, nil
}

// ScriptFromFile returns a literal script holding the contents of loc.
func ScriptFromFile(loc location.Location) (Script, error) {
	e, err := ScriptWrapper.fromFile(loc)
	if err != nil {
		return Script{}, err
	}

	return Script{Element: e}, nil
}

// Style is an element rendered as a style sheet.
type Style struct {
	Element
}

// Tag returns "style".
func (s Style) Tag() string { return StyleWrapper.Tag }

// Head returns the opening markup.
func (s Style) Head() string { return StyleWrapper.Head(s.Element) }

// Content returns the URL, the inline text or the unresolved path.
func (s Style) Content() string { return s.data }

// Foot returns the closing markup.
func (s Style) Foot() string { return StyleWrapper.Foot(s.Element) }

// Resolve returns s with a file element replaced by a literal holding the
// file contents. Links and literals are returned as is.
func (s Style) Resolve(base location.Location) (Style, error) {
	e, err := StyleWrapper.resolve(s.Element, base)
	if err != nil {
		return s, err
	}

	return Style{Element: e}, nil
}

// StyleFromFile returns a literal style holding the contents of loc.
func StyleFromFile(loc location.Location) (Style, error) {
	e, err := StyleWrapper.fromFile(loc)
	if err != nil {
		return Style{}, err
	}

	return Style{Element: e}, nil
}

// Resolver is implemented by Script and Style.
type Resolver[T any] interface {
	Resolve(base location.Location) (T, error)
}

// ResolveAll resolves every item against base into a new slice. The input
// slice is left untouched, also on error.
func ResolveAll[T Resolver[T]](
	items []T,
	base location.Location,
) ([]T, error) {
	out := make([]T, 0, len(items))

	for _, it := range items {
		r, err := it.Resolve(base)
		if err != nil {
			return nil, err
		}

		out = append(out, r)
	}

	return out, nil
}

// Write writes the head, the content and the foot of e to w. A failed
// write is an IO fault naming the part, e.g. "style tag header".
func Write(w io.Writer, e Wrapped) error {
	parts := [...]struct {
		label string
		text  string
	}{
		{"header", e.Head()},
		{"content", e.Content()},
		{"footer", e.Foot()},
	}

	for _, p := range parts {
		if _, err := io.WriteString(w, p.text); err != nil {
			return fault.Write(e.Tag()+" tag "+p.label, err)
		}
	}

	return nil
}
