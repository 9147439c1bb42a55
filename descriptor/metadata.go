package descriptor

import (
	"strings"

	"github.com/byte4ever/postrender/element"
	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/location"
)

const (
	metadataWho = "post metadata"
	tagsWho     = "additional post tags"
)

// Metadata is the optional per-post configuration. Empty fields fall back
// to the blog descriptor.
type Metadata struct {
	Language string
	Author   string
	Tags     []string
	Styles   []element.Style
	Scripts  []element.Script
	Data     map[string]string
}

type metadataFile struct {
	Language string            `toml:"language" yaml:"language"`
	Author   string            `toml:"author"   yaml:"author"`
	Tags     []string          `toml:"tags"     yaml:"tags"`
	Styles   []element.Style   `toml:"styles"   yaml:"styles"`
	Scripts  []element.Script  `toml:"scripts"  yaml:"scripts"`
	Data     map[string]string `toml:"data"     yaml:"data"`
}

// ReadMetadata loads metadata.toml or metadata.yaml from a post
// directory. A post without one gets empty metadata.
func ReadMetadata(postDir location.Location) (Metadata, error) {
	postDir = postDir.Dir()

	var raw metadataFile

	_, found, err := decodeFile(postDir, "metadata", metadataWho, &raw)
	if err != nil {
		return Metadata{}, err
	}

	if !found {
		return Metadata{Data: map[string]string{}}, nil
	}

	md := Metadata{
		Author: raw.Author,
		Data:   raw.Data,
	}

	if md.Data == nil {
		md.Data = map[string]string{}
	}

	if raw.Language != "" {
		if md.Language, err = ParseLanguage(raw.Language); err != nil {
			return Metadata{}, fault.ParsingFailed(metadataWho, err)
		}
	}

	if md.Tags, err = parseTags(raw.Tags); err != nil {
		return Metadata{}, fault.ParsingFailed(metadataWho, err)
	}

	if md.Styles, err = element.ResolveAll(raw.Styles, postDir); err != nil {
		return Metadata{}, err
	}

	if md.Scripts, err = element.ResolveAll(raw.Scripts, postDir); err != nil {
		return Metadata{}, err
	}

	return md, nil
}

// ReadTags loads the whitespace-separated "tags" file of a post
// directory. A missing file yields no tags.
func ReadTags(postDir location.Location) ([]string, error) {
	text, err := postDir.Dir().Join("tags").ReadText(tagsWho)
	if fault.Is(err, fault.FileNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return parseTags(strings.Fields(text))
}
