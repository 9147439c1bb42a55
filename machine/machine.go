// Package machine writes the machine-readable metadata record of a post.
//
// The record is a JSON object whose field names and order are a stable
// contract for consumers:
//
//	number, language, title, author, raw_post_name, blog_name,
//	post_date_rfc3339, post_date_rfc2822,
//	generation_date_utc_rfc3339, generation_date_utc_rfc2822,
//	generation_date_local_rfc3339, generation_date_local_rfc2822,
//	tags, additional_data, styles, scripts, version
//
// Only the four generation dates depend on the clock.
package machine

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/byte4ever/postrender/datefmt"
	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/templating"
)

// Record is the metadata of one post.
type Record struct {
	Number      int    `json:"number"`
	Language    string `json:"language"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	RawPostName string `json:"raw_post_name"`
	BlogName    string `json:"blog_name"`

	PostDateRFC3339            string `json:"post_date_rfc3339"`
	PostDateRFC2822            string `json:"post_date_rfc2822"`
	GenerationDateUTCRFC3339   string `json:"generation_date_utc_rfc3339"`
	GenerationDateUTCRFC2822   string `json:"generation_date_utc_rfc2822"`
	GenerationDateLocalRFC3339 string `json:"generation_date_local_rfc3339"`
	GenerationDateLocalRFC2822 string `json:"generation_date_local_rfc2822"`

	Tags           []string          `json:"tags"`
	AdditionalData map[string]string `json:"additional_data"`
	Styles         []string          `json:"styles"`
	Scripts        []string          `json:"scripts"`

	Version string `json:"version"`
}

type config struct {
	now      func() time.Time
	location *time.Location
	version  string
}

// Option configures NewRecord and WriteJSON.
type Option func(*config)

// WithClock sets the clock of the generation dates. A nil clock keeps
// time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the zone of the local generation dates. A nil
// location keeps time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.location = loc
		}
	}
}

// WithVersion sets the version field.
func WithVersion(version string) Option {
	return func(c *config) {
		c.version = version
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		now:      time.Now,
		location: time.Local,
	}

	for _, o := range opts {
		o(&cfg)
	}

	return cfg
}

// NewRecord builds the record of rc. Styles and scripts contribute their
// content, so file elements should be resolved first.
func NewRecord(rc *templating.Context, opts ...Option) Record {
	cfg := newConfig(opts)
	now := cfg.now()
	utc := now.UTC()
	local := now.In(cfg.location)

	rec := Record{
		Number:      rc.Number,
		Language:    rc.Language,
		Title:       rc.Title,
		Author:      rc.Author,
		RawPostName: rc.RawPostName,
		BlogName:    rc.BlogName,

		PostDateRFC3339:            datefmt.FormatRFC3339(rc.PostDate),
		PostDateRFC2822:            datefmt.FormatRFC2822(rc.PostDate),
		GenerationDateUTCRFC3339:   datefmt.FormatRFC3339(utc),
		GenerationDateUTCRFC2822:   datefmt.FormatRFC2822(utc),
		GenerationDateLocalRFC3339: datefmt.FormatRFC3339(local),
		GenerationDateLocalRFC2822: datefmt.FormatRFC2822(local),

		Tags:           append([]string{}, rc.Tags...),
		AdditionalData: rc.MergedData(),
		Styles:         make([]string, 0, len(rc.Styles)),
		Scripts:        make([]string, 0, len(rc.Scripts)),

		Version: cfg.version,
	}

	for _, s := range rc.Styles {
		rec.Styles = append(rec.Styles, s.Content())
	}

	for _, s := range rc.Scripts {
		rec.Scripts = append(rec.Scripts, s.Content())
	}

	return rec
}

// WriteJSON writes the record of rc to w, indented by four spaces and
// terminated by a newline. The record is encoded in memory first, so w
// only ever sees complete output or a failed write.
func WriteJSON(w io.Writer, rc *templating.Context, opts ...Option) error {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(NewRecord(rc, opts...)); err != nil {
		return fault.NewIO("encode", "JSON machine output", err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		e := fault.Write("JSON machine output", err)
		e.Where = rc.Output

		return e
	}

	return nil
}

// Kind is a machine-readable output format.
type Kind int

// Supported kinds.
const (
	JSON Kind = iota + 1
)

// ParseKind parses a kind name, ignoring case.
func ParseKind(s string) (Kind, error) {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return JSON, nil
	}

	return 0, fault.NewParse(
		"machine output kind", fmt.Sprintf("%q", s), `expected "json"`,
	)
}

// Name returns the display name, e.g. "JSON".
func (k Kind) Name() string {
	if k == JSON {
		return "JSON"
	}

	return "unknown"
}

// Extension returns the file extension without the dot.
func (k Kind) Extension() string {
	if k == JSON {
		return "json"
	}

	return ""
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	return k.Extension()
}

// Write writes the record of rc in format k.
func (k Kind) Write(w io.Writer, rc *templating.Context, opts ...Option) error {
	switch k {
	case JSON:
		return WriteJSON(w, rc, opts...)
	default:
		return fault.NewParse(
			"machine output kind", k.Name(), "unsupported kind",
		)
	}
}
