package templating

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/postrender/datefmt"
	"github.com/byte4ever/postrender/element"
	"github.com/byte4ever/postrender/fault"
)

// Defaults used when the matching Engine field is empty.
const (
	DefaultTagTemplate = `<span class="{class}">{tag}</span>`
	DefaultTagClass    = "post-tag"
)

const parseWhat = "unformatted input"

// Engine renders templates. The zero value is ready to use.
type Engine struct {
	// Version is substituted for {version}.
	Version string

	// TagTemplate renders one tag; it may use {class} and {tag}.
	TagTemplate string

	// DefaultTagClass is the class of {tags} and {tags()}.
	DefaultTagClass string

	// Now is the clock read by now_utc and now_local, time.Now if nil.
	Now func() time.Time

	// Location is the zone of now_local, time.Local if nil.
	Location *time.Location
}

func (en *Engine) now() time.Time {
	if en.Now == nil {
		return time.Now()
	}

	return en.Now()
}

func (en *Engine) location() *time.Location {
	if en.Location == nil {
		return time.Local
	}

	return en.Location
}

func (en *Engine) tagTemplate() string {
	if en.TagTemplate == "" {
		return DefaultTagTemplate
	}

	return en.TagTemplate
}

func (en *Engine) tagClass() string {
	if en.DefaultTagClass == "" {
		return DefaultTagClass
	}

	return en.DefaultTagClass
}

// RenderString renders tpl into a string.
func (en *Engine) RenderString(tpl string, rc *Context) (string, error) {
	var sb strings.Builder

	if err := en.Render(tpl, rc, &sb); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// Render writes tpl to w with every placeholder substituted from rc.
//
// Semantic problems are fault.Parse errors, failed writes fault.IO errors
// naming the part being written. Output written before a failure stays in
// w.
func (en *Engine) Render(tpl string, rc *Context, w io.Writer) error {
	r := renderer{
		en:    en,
		rc:    rc,
		w:     w,
		where: rc.outputName(),
	}

	return r.run(tpl)
}

// renderer holds the state of one Render call.
type renderer struct {
	en    *Engine
	rc    *Context
	w     io.Writer
	where string
}

func (r *renderer) run(rest string) error {
	pos := 0

	for {
		idx := strings.IndexAny(rest, "{}")
		if idx < 0 {
			break
		}

		if err := r.write("unformatted output", rest[:idx]); err != nil {
			return err
		}

		pos += idx
		rest = rest[idx:]

		switch {
		case strings.HasPrefix(rest, "{{"):
			if err := r.write("escaped opening curly brace", "{"); err != nil {
				return err
			}

			pos += 2
			rest = rest[2:]
		case strings.HasPrefix(rest, "}}"):
			if err := r.write("escaped closing curly brace", "}"); err != nil {
				return err
			}

			pos += 2
			rest = rest[2:]
		case rest[0] == '}':
			return r.parseErr(pos, "stray closing brace at position %d", pos)
		default:
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return r.parseErr(
					pos, "unmatched open brace at position %d", pos,
				)
			}

			if err := r.placeholder(
				strings.TrimSpace(rest[1:end]), pos,
			); err != nil {
				return err
			}

			pos += end + 1
			rest = rest[end+1:]
		}
	}

	return r.write("unformatted output", rest)
}

// placeholder substitutes the trimmed body spec found at offset pos.
func (r *renderer) placeholder(spec string, pos int) error {
	rc := r.rc

	switch spec {
	case "language":
		return r.write("language tag", rc.Language)
	case "number":
		return r.write("number tag", strconv.Itoa(rc.Number))
	case "title":
		return r.write("title tag", rc.Title)
	case "author":
		return r.write("author tag", rc.Author)
	case "raw_post_name":
		return r.write("raw_post_name tag", rc.RawPostName)
	case "blog_name":
		return r.write("blog_name tag", rc.BlogName)
	case "version":
		return r.write("version tag", r.en.Version)
	case "tags":
		return r.tags(r.en.tagClass())
	case "styles":
		for _, s := range rc.Styles {
			if err := r.element(s); err != nil {
				return err
			}
		}

		return nil
	case "scripts":
		for _, s := range rc.Scripts {
			if err := r.element(s); err != nil {
				return err
			}
		}

		return nil
	}

	if key, ok := strings.CutPrefix(spec, "data-"); ok {
		val, found := rc.Data(key)
		if !found {
			return r.parseErr(pos, "missing value for data-%s", key)
		}

		return r.write("data-"+key+" tag", val)
	}

	name, args, ok := parseCall(spec)
	if !ok {
		return r.parseErr(
			pos, "unrecognised format specifier %s at position %d",
			spec, pos,
		)
	}

	switch name {
	case "date":
		return r.date(args, pos)
	case "tags":
		switch len(args) {
		case 0:
			return r.tags(r.en.tagClass())
		case 1:
			return r.tags(args[0])
		default:
			return r.parseErr(
				pos,
				"%d is an invalid amount of arguments to "+
					"`tags([html-class])` function, around position %d",
				len(args), pos,
			)
		}
	default:
		return r.parseErr(
			pos,
			"unrecognised format function %s with arguments %q at position %d",
			name, args, pos,
		)
	}
}

func (r *renderer) date(args []string, pos int) error {
	if len(args) != 2 {
		return r.parseErr(
			pos,
			"%d is an invalid amount of arguments to two-argument "+
				"`date(of_what, format)` function, around position %d",
			len(args), pos,
		)
	}

	spec, err := datefmt.Parse(args[1])
	if err != nil {
		return r.parseErr(
			pos, "invalid date format specifier %s around position %d",
			args[1], pos,
		)
	}

	var t time.Time

	switch args[0] {
	case "post":
		t = r.rc.PostDate
	case "now_utc":
		t = r.en.now().UTC()
	case "now_local":
		t = r.en.now().In(r.en.location())
	default:
		return r.parseErr(
			pos,
			"%s is an unrecognised date specifier "+
				"(accepted: post, now_{utc,local}), around position %d",
			args[0], pos,
		)
	}

	return r.write(args[0]+" date as "+args[1], spec.Format(t))
}

// tags writes every tag through the tag template, separated by spaces.
func (r *renderer) tags(class string) error {
	tpl := r.en.tagTemplate()

	for i, tag := range r.rc.Tags {
		if i > 0 {
			if err := r.write("tag spacer", " "); err != nil {
				return err
			}
		}

		span := fasttemplate.ExecuteStringStd(
			tpl, "{", "}",
			map[string]any{"class": class, "tag": tag},
		)

		if err := r.write("tag", span); err != nil {
			return err
		}
	}

	return nil
}

func (r *renderer) element(e element.Wrapped) error {
	err := element.Write(r.w, e)

	var fe *fault.Error
	if errors.As(err, &fe) {
		fe.Where = r.where
	}

	return err
}

func (r *renderer) write(label, s string) error {
	if s == "" {
		return nil
	}

	if _, err := io.WriteString(r.w, s); err != nil {
		return r.ioErr(label, err)
	}

	return nil
}

func (r *renderer) ioErr(label string, cause error) error {
	e := fault.Write(label, cause)
	e.Where = r.where

	return e
}

func (r *renderer) parseErr(pos int, format string, args ...any) error {
	return fault.ParseAt(parseWhat, r.where, pos, format, args...)
}
