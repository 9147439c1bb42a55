package post

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/byte4ever/postrender/fault"
)

// markdown converts post bodies: GFM with heading IDs, hard line breaks
// and raw HTML passed through.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithUnsafe(),
	),
)

// convert renders src to HTML and returns the destinations of every link
// and image as written. When rewrite is not nil, asset link and image
// destinations are replaced by what it returns before rendering.
func convert(
	src []byte,
	rewrite func(link string) string,
) ([]byte, []string, error) {
	doc := markdown.Parser().Parse(text.NewReader(src))

	var links []string

	retarget := func(dest []byte) []byte {
		links = append(links, string(dest))

		if rewrite == nil || !IsAssetLink(string(dest)) {
			return dest
		}

		return []byte(rewrite(string(dest)))
	}

	if err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := n.(type) {
		case *ast.Link:
			v.Destination = retarget(v.Destination)
		case *ast.Image:
			v.Destination = retarget(v.Destination)
		case *ast.AutoLink:
			links = append(links, string(v.URL(src)))
		}

		return ast.WalkContinue, nil
	}); err != nil {
		return nil, nil, fault.NewParse("markdown", "post text", err.Error())
	}

	var buf bytes.Buffer
	if err := markdown.Renderer().Render(&buf, src, doc); err != nil {
		return nil, nil, fault.Write("post HTML", err)
	}

	return buf.Bytes(), links, nil
}

// IsAssetLink reports whether link points at a file shipped with the
// post: a relative reference that is neither absolute nor rooted.
func IsAssetLink(link string) bool {
	if link == "" || strings.HasPrefix(link, "/") {
		return false
	}

	u, err := url.Parse(link)

	return err != nil || u.Scheme == ""
}

// assetPath returns the slash-separated file path an asset link refers
// to, without query or fragment and percent-decoded.
func assetPath(link string) (string, bool) {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}

	decoded, err := url.PathUnescape(link)
	if err != nil || decoded == "" {
		return "", false
	}

	return strings.ReplaceAll(decoded, "\\", "/"), true
}

// localPath reports whether the slash-separated p stays below the
// directory it is resolved against.
func localPath(p string) bool {
	p = path.Clean(p)

	return !path.IsAbs(p) && p != ".." && !strings.HasPrefix(p, "../")
}

// relativeLink returns a link from the directory fromDir to target, both
// slash-separated and relative to the output root.
func relativeLink(fromDir, target string) string {
	fromDir = path.Clean("/" + fromDir)
	target = path.Clean("/" + target)

	from := strings.Split(strings.TrimPrefix(fromDir, "/"), "/")
	to := strings.Split(strings.TrimPrefix(target, "/"), "/")

	if from[0] == "" {
		from = nil
	}

	common := 0
	for common < len(from) && common < len(to)-1 && from[common] == to[common] {
		common++
	}

	parts := make([]string, 0, len(from)-common+len(to)-common)
	for range from[common:] {
		parts = append(parts, "..")
	}

	parts = append(parts, to[common:]...)

	return (&url.URL{Path: strings.Join(parts, "/")}).String()
}
