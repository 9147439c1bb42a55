package descriptor

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/byte4ever/postrender/element"
	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/feed"
	"github.com/byte4ever/postrender/location"
	"github.com/byte4ever/postrender/machine"
)

// DefaultOutputName is the stamp format of post HTML files.
const DefaultOutputName = "posts/{normalised_name}.html"

const blogWho = "blogue descriptor"

// Blog is a loaded blog descriptor.
type Blog struct {
	Root location.Location

	Name     string
	Author   string // empty when unset
	Language string // empty when unset

	Header location.Location
	Footer location.Location

	// AssetDir is "" or a relative directory ending in "/".
	AssetDir string

	// OutputName is the stamp format of post HTML paths below the
	// output directory.
	OutputName string

	// MachineData maps each kind to its output subdirectory.
	MachineData map[machine.Kind]string

	// Feeds maps each kind to its file name.
	Feeds map[feed.Kind]string

	// Index describes the index page, nil when none is generated.
	Index *Index

	Styles  []element.Style
	Scripts []element.Script
	Data    map[string]string
}

// Index is the index page part of a blog descriptor. The page is the
// header, then the center rendered once per post, then the footer.
type Index struct {
	Header location.Location
	Center location.Location
	Footer location.Location

	Order CenterOrder

	// Styles, Scripts and Data add to the blog ones in the index header
	// and footer.
	Styles  []element.Style
	Scripts []element.Script
	Data    map[string]string
}

type indexFile struct {
	Generate *bool             `toml:"generate" yaml:"generate"`
	Header   string            `toml:"header"   yaml:"header"`
	Center   string            `toml:"center"   yaml:"center"`
	Footer   string            `toml:"footer"   yaml:"footer"`
	Order    string            `toml:"order"    yaml:"order"`
	Styles   []element.Style   `toml:"styles"   yaml:"styles"`
	Scripts  []element.Script  `toml:"scripts"  yaml:"scripts"`
	Data     map[string]string `toml:"data"     yaml:"data"`
}

type blogFile struct {
	Name        string            `toml:"name"         yaml:"name"`
	Author      string            `toml:"author"       yaml:"author"`
	Language    string            `toml:"language"     yaml:"language"`
	Header      string            `toml:"header"       yaml:"header"`
	Footer      string            `toml:"footer"       yaml:"footer"`
	AssetDir    string            `toml:"asset_dir"    yaml:"asset_dir"`
	OutputName  string            `toml:"output_name"  yaml:"output_name"`
	Index       *indexFile        `toml:"index"        yaml:"index"`
	MachineData map[string]string `toml:"machine_data" yaml:"machine_data"`
	Feeds       map[string]string `toml:"feeds"        yaml:"feeds"`
	Styles      []element.Style   `toml:"styles"       yaml:"styles"`
	Scripts     []element.Script  `toml:"scripts"      yaml:"scripts"`
	Data        map[string]string `toml:"data"         yaml:"data"`
}

// ReadBlog loads the descriptor at the root of a blog tree.
func ReadBlog(root location.Location) (*Blog, error) {
	root = root.Dir()

	var raw blogFile

	loc, found, err := decodeFile(root, "blogue", blogWho, &raw)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, fault.NotFound(blogWho, loc.Display)
	}

	if strings.TrimSpace(raw.Name) == "" {
		return nil, fault.ParsingFailed(
			blogWho, errors.New(`missing field "name"`),
		)
	}

	b := &Blog{
		Root:       root,
		Name:       raw.Name,
		Author:     raw.Author,
		AssetDir:   normaliseAssetDir(raw.AssetDir),
		OutputName: raw.OutputName,
		Data:       raw.Data,
	}

	if b.OutputName == "" {
		b.OutputName = DefaultOutputName
	}

	if b.Data == nil {
		b.Data = map[string]string{}
	}

	if raw.Language != "" {
		if b.Language, err = ParseLanguage(raw.Language); err != nil {
			return nil, fault.ParsingFailed(blogWho, err)
		}
	}

	if b.Header, err = additionalFile(root, raw.Header, "post header", "header"); err != nil {
		return nil, err
	}

	if b.Footer, err = additionalFile(root, raw.Footer, "post footer", "footer"); err != nil {
		return nil, err
	}

	if b.Index, err = readIndex(root, raw.Index); err != nil {
		return nil, err
	}

	if b.MachineData, err = machineData(raw.MachineData); err != nil {
		return nil, err
	}

	if b.Feeds, err = feeds(raw.Feeds); err != nil {
		return nil, err
	}

	if b.Styles, err = element.ResolveAll(raw.Styles, root); err != nil {
		return nil, err
	}

	if b.Scripts, err = element.ResolveAll(raw.Scripts, root); err != nil {
		return nil, err
	}

	return b, nil
}

// normaliseAssetDir strips leading separators, turns backslashes into
// slashes and appends a trailing slash.
func normaliseAssetDir(dir string) string {
	dir = strings.TrimLeft(strings.ReplaceAll(dir, "\\", "/"), "/")
	if dir == "" {
		return ""
	}

	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}

	return dir
}

// additionalFile locates a template named in the descriptor or, when
// none is named, the first of stem.html and stem.htm over all stems.
func additionalFile(
	root location.Location,
	named string,
	who string,
	stems ...string,
) (location.Location, error) {
	if named == "" {
		candidates := make([]string, 0, 2*len(stems))

		for _, stem := range stems {
			for _, ext := range []string{".html", ".htm"} {
				loc := root.Join(stem + ext)
				if st, err := os.Stat(loc.Path); err == nil && st.Mode().IsRegular() {
					return loc, nil
				}

				candidates = append(candidates, stem+ext)
			}
		}

		return location.Location{}, fault.NotFound(
			who, fmt.Sprintf("%s{%s}", root.Display, strings.Join(candidates, "/")),
		)
	}

	loc := root.Join(named)

	st, err := os.Stat(loc.Path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return location.Location{}, fault.NotFound(who, loc.Display)
	case err != nil:
		return location.Location{}, fault.NewIO("stat", who, err)
	case !st.Mode().IsRegular():
		return location.Location{}, fault.WrongState("a file", loc.Display)
	}

	return loc, nil
}

// readIndex loads the index table. It returns nil when the table is
// absent or sets generate to false.
func readIndex(root location.Location, raw *indexFile) (*Index, error) {
	if raw == nil || (raw.Generate != nil && !*raw.Generate) {
		return nil, nil //nolint:nilnil // no index page
	}

	idx := &Index{Data: raw.Data}

	if idx.Data == nil {
		idx.Data = map[string]string{}
	}

	var err error

	if raw.Order != "" {
		if idx.Order, err = ParseCenterOrder(raw.Order); err != nil {
			return nil, fault.ParsingFailed(blogWho, err)
		}
	}

	parts := []struct {
		dst   *location.Location
		named string
		stem  string
	}{
		{&idx.Header, raw.Header, "header"},
		{&idx.Center, raw.Center, "center"},
		{&idx.Footer, raw.Footer, "footer"},
	}

	for _, part := range parts {
		*part.dst, err = additionalFile(
			root, part.named, "index "+part.stem,
			"index_"+part.stem, "idx_"+part.stem,
		)
		if err != nil {
			return nil, err
		}
	}

	if idx.Styles, err = element.ResolveAll(raw.Styles, root); err != nil {
		return nil, err
	}

	if idx.Scripts, err = element.ResolveAll(raw.Scripts, root); err != nil {
		return nil, err
	}

	return idx, nil
}

func pathChunkErr(format string, args ...any) error {
	return fault.NewParse("path chunk", blogWho, fmt.Sprintf(format, args...))
}

func machineData(raw map[string]string) (map[machine.Kind]string, error) {
	out := make(map[machine.Kind]string, len(raw))

	for _, name := range slices.Sorted(maps.Keys(raw)) {
		kind, err := machine.ParseKind(name)
		if err != nil {
			return nil, err
		}

		sub := raw[name]
		if strings.Trim(sub, "/\\") == "" {
			return nil, pathChunkErr("%s subdir selector empty", kind.Name())
		}

		out[kind] = strings.ReplaceAll(sub, "\\", "/")
	}

	return out, nil
}

func feeds(raw map[string]string) (map[feed.Kind]string, error) {
	out := make(map[feed.Kind]string, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, name := range slices.Sorted(maps.Keys(raw)) {
		kind, err := feed.ParseKind(name)
		if err != nil {
			return nil, err
		}

		file := raw[name]

		switch {
		case file == "":
			return nil, pathChunkErr("%s filename empty", kind.Name())
		case strings.HasSuffix(file, "/"), strings.HasSuffix(file, "\\"):
			return nil, pathChunkErr(
				"%s filename %q ends with path separator", kind.Name(), file,
			)
		}

		if _, dup := seen[file]; dup {
			return nil, pathChunkErr("feed filename %q duplicate", file)
		}

		seen[file] = struct{}{}
		out[kind] = file
	}

	return out, nil
}
