package feed

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/byte4ever/postrender/datefmt"
	"github.com/byte4ever/postrender/fault"
)

// Static markup around an RSS channel.
var (
	//go:embed assets/rss.head
	DefaultRSSHead string

	//go:embed assets/rss.foot
	DefaultRSSFoot string
)

// Kind is a feed format.
type Kind int

// Feed formats.
const (
	RSS Kind = iota + 1
	Atom
)

// ParseKind parses "rss" or "atom", ignoring case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rss":
		return RSS, nil
	case "atom":
		return Atom, nil
	default:
		return 0, fault.NewParse(
			"feed kind", fmt.Sprintf("%q", s), `expected "rss" or "atom"`,
		)
	}
}

// Name returns the display name.
func (k Kind) Name() string {
	switch k {
	case RSS:
		return "RSS"
	case Atom:
		return "Atom"
	default:
		return "unknown"
	}
}

// String returns the lower-case name.
func (k Kind) String() string {
	return strings.ToLower(k.Name())
}

// Writer writes the pieces of one feed.
type Writer interface {
	Header(w io.Writer, ch Channel) error
	Footer(w io.Writer) error
	ItemHeader(w io.Writer, it Item) error
	ItemBody(w io.Writer) io.Writer
	ItemFooter(w io.Writer) error
}

// Writer returns the writer of format k configured by cfg.
func (k Kind) Writer(cfg Config) (Writer, error) {
	switch k {
	case RSS:
		return &RSSWriter{Config: cfg}, nil
	default:
		return nil, fault.NewParse(
			"feed kind", k.String(), "unsupported feed kind",
		)
	}
}

// Channel describes the blog a feed belongs to.
type Channel struct {
	Title    string
	Link     string // optional
	Author   string
	Language string
}

// Item describes one post in a feed.
type Item struct {
	Title  string
	GUID   string
	Author string
	Link   string
	Date   time.Time
}

// Config holds the settings shared by feed writers.
type Config struct {
	// Output names the feed file in errors.
	Output string

	// Generator is the content of <generator>, e.g. "postrender v1".
	Generator string

	// Now is the clock of the build dates, time.Now if nil.
	Now func() time.Time

	// Location is the zone of the build dates, time.Local if nil.
	Location *time.Location
}

func (c Config) buildDate() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	loc := time.Local
	if c.Location != nil {
		loc = c.Location
	}

	return datefmt.FormatRFC2822(now().In(loc))
}

// RSSWriter writes RSS 2.0. Head and Foot default to DefaultRSSHead and
// DefaultRSSFoot.
type RSSWriter struct {
	Config

	Head string
	Foot string
}

const (
	channelIndent = "    "
	itemIndent    = "      "
)

// Header writes the head markup and the channel elements. <pubDate> and
// <lastBuildDate> are the current local time.
func (r *RSSWriter) Header(w io.Writer, ch Channel) error {
	head := r.Head
	if head == "" {
		head = DefaultRSSHead
	}

	if err := r.write(w, "header", head); err != nil {
		return err
	}

	built := r.buildDate()

	tags := []struct{ name, value string }{
		{"title", ch.Title},
		{"link", ch.Link},
		{"author", ch.Author},
		{"description", ch.Title},
		{"language", ch.Language},
		{"generator", r.Generator},
		{"pubDate", built},
		{"lastBuildDate", built},
	}

	for _, t := range tags {
		if t.name == "link" && t.value == "" {
			continue
		}

		if err := r.tag(w, channelIndent, t.name, t.value); err != nil {
			return err
		}
	}

	return nil
}

// Footer writes the foot markup.
func (r *RSSWriter) Footer(w io.Writer) error {
	foot := r.Foot
	if foot == "" {
		foot = DefaultRSSFoot
	}

	return r.write(w, "footer", foot)
}

// ItemHeader opens an <item>, writes its elements and opens its
// <description>.
func (r *RSSWriter) ItemHeader(w io.Writer, it Item) error {
	if err := r.write(w, "item tag", "\n"+channelIndent+"<item>\n"); err != nil {
		return err
	}

	tags := []struct{ name, value string }{
		{"title", it.Title},
		{"author", it.Author},
		{"link", it.Link},
		{"pubDate", datefmt.FormatRFC2822(it.Date)},
		{"guid", it.GUID},
	}

	for _, t := range tags {
		if err := r.tag(w, itemIndent, t.name, t.value); err != nil {
			return err
		}
	}

	return r.write(w, "description tag", itemIndent+"<description>\n")
}

// ItemBody returns a writer escaping the item description into w.
func (r *RSSWriter) ItemBody(w io.Writer) io.Writer {
	return EscapeWriter{W: w}
}

// ItemFooter closes the <description> and the <item>.
func (r *RSSWriter) ItemFooter(w io.Writer) error {
	return r.write(
		w, "item footer",
		itemIndent+"</description>\n"+channelIndent+"</item>\n",
	)
}

func (r *RSSWriter) tag(w io.Writer, indent, name, value string) error {
	return r.write(
		w, name+" tag",
		indent+"<"+name+">"+Escape(value)+"</"+name+">\n",
	)
}

func (r *RSSWriter) write(w io.Writer, label, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		e := fault.Write("RSS feed output "+label, err)
		e.Where = r.Output

		return e
	}

	return nil
}
