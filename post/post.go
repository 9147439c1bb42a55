package post

import (
	"cmp"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/location"
)

var dirNameRE = regexp.MustCompile(
	`^(?P<number>\d+)\. ` +
		`(?P<year>\d{4})-(?P<month>\d{2})-(?P<day>\d{2})` +
		`(?: (?P<hour>\d{2})-(?P<minute>\d{2})(?:-(?P<second>\d{2}))?)? ` +
		`(?P<name>.+)$`,
)

const (
	normalisedLayout = "2006-01-02 15-04-05"
	postWho          = "blogue post"
)

// Post is a parsed post directory.
type Post struct {
	Source location.Location

	// Number is the post index; NumberText keeps it as written.
	Number     int
	NumberText string

	Name string
	Date time.Time
}

// IsPostDir reports whether name follows the post directory naming scheme.
func IsPostDir(name string) bool {
	return dirNameRE.MatchString(name)
}

// List returns the post directories directly below within, sorted by
// name. Files and directories not following the naming scheme are skipped.
func List(within location.Location) ([]location.Location, error) {
	entries, err := os.ReadDir(within.Path)
	if err != nil {
		return nil, fault.NewIO("list", "post list", err)
	}

	within = within.Dir()

	var out []location.Location

	for _, e := range entries {
		if !e.IsDir() || !IsPostDir(e.Name()) {
			continue
		}

		out = append(out, within.Join(e.Name()).Dir())
	}

	slices.SortFunc(out, func(a, b location.Location) int {
		return cmp.Compare(filepath.Base(a.Path), filepath.Base(b.Path))
	})

	return out, nil
}

// New parses the post directory dir. A name without a time of day gets
// one derived from the post name. tz is the zone of the post date,
// time.Local if nil.
func New(dir location.Location, tz *time.Location) (*Post, error) {
	if tz == nil {
		tz = time.Local
	}

	m := dirNameRE.FindStringSubmatch(filepath.Base(dir.Path))
	if m == nil {
		return nil, fault.NewParse("post directory filename", postWho, "")
	}

	group := func(name string) string {
		return m[dirNameRE.SubexpIndex(name)]
	}

	number, err := strconv.Atoi(group("number"))
	if err != nil {
		return nil, fault.NewParse("unsigned int", "post number", "")
	}

	var fields [6]int

	for i, name := range [...]string{"year", "month", "day", "hour", "minute", "second"} {
		s := group(name)
		if s == "" {
			continue
		}

		// At most four digits, cannot fail.
		fields[i], _ = strconv.Atoi(s)
	}

	hour, minute, second := fields[3], fields[4], fields[5]
	if group("hour") == "" {
		hour, minute, second = NameBasedTime(group("name"))
	}

	date := time.Date(
		fields[0], time.Month(fields[1]), fields[2],
		hour, minute, second, 0, tz,
	)

	if date.Year() != fields[0] || int(date.Month()) != fields[1] ||
		date.Day() != fields[2] || date.Hour() != hour ||
		date.Minute() != minute || date.Second() != second {
		return nil, fault.NewParse(
			"post date", postWho,
			fmt.Sprintf(
				"%04d-%02d-%02d %02d:%02d:%02d out of range",
				fields[0], fields[1], fields[2], hour, minute, second,
			),
		)
	}

	return &Post{
		Source:     dir.Dir(),
		Number:     number,
		NumberText: group("number"),
		Name:       group("name"),
		Date:       date,
	}, nil
}

// NameBasedTime derives a stable time of day from the CRC-32 of name.
func NameBasedTime(name string) (hour, minute, second int) {
	digest := crc32.ChecksumIEEE([]byte(name))

	hour = int((digest & 0b11111) % 24)
	minute = int(((digest >> 5) & 0b111111) % 60)
	second = int(((digest >> (5 + 6)) & 0b111111) % 60)

	return hour, minute, second
}

// NormalisedName is the directory name with the full date and time, e.g.
// "005. 2018-04-19 23-19-21 cursed device chain".
func (p *Post) NormalisedName() string {
	return fmt.Sprintf(
		"%s. %s %s", p.NumberText, p.Date.Format(normalisedLayout), p.Name,
	)
}

// RawName returns the post directory name.
func (p *Post) RawName() string {
	return filepath.Base(p.Source.Path)
}

// StampVars returns the variables available to output name formats.
func (p *Post) StampVars() map[string]string {
	return map[string]string{
		"normalised_name": p.NormalisedName(),
		"raw_post_name":   p.RawName(),
		"name":            p.Name,
		"number":          p.NumberText,
		"date":            p.Date.Format("2006-01-02"),
	}
}
