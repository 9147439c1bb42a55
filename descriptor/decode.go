package descriptor

import (
	"errors"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/location"
)

// format is a supported descriptor file syntax.
type format struct {
	ext       string
	unmarshal func(text string, v any) error
}

var formats = [...]format{
	{".toml", func(text string, v any) error {
		_, err := toml.Decode(text, v)

		return err
	}},
	{".yaml", func(text string, v any) error {
		return yaml.Unmarshal([]byte(text), v)
	}},
	{".yml", func(text string, v any) error {
		return yaml.Unmarshal([]byte(text), v)
	}},
}

// decodeFile decodes the first of base.toml, base.yaml and base.yml found
// in dir into v. It returns the location decoded, and found=false when no
// candidate exists.
func decodeFile(
	dir location.Location,
	base string,
	who string,
	v any,
) (loc location.Location, found bool, err error) {
	for _, f := range formats {
		loc = dir.Join(base + f.ext)

		st, err := os.Stat(loc.Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return loc, false, fault.NewIO("stat", who, err)
		}

		if !st.Mode().IsRegular() {
			return loc, false, fault.WrongState("a file", loc.Display)
		}

		text, err := loc.ReadText(who)
		if err != nil {
			return loc, false, err
		}

		if err := f.unmarshal(text, v); err != nil {
			return loc, false, fault.ParsingFailed(who, err)
		}

		return loc, true, nil
	}

	return dir.Join(base + formats[0].ext), false, nil
}
