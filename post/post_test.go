package post_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/location"
	"github.com/byte4ever/postrender/post"
)

func writeTemp(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(tb, os.MkdirAll(filepath.Dir(pa), 0o750))
	require.NoError(tb, os.WriteFile(pa, []byte(content), 0o600))

	return pa
}

func postDir(tb testing.TB, name string) location.Location {
	tb.Helper()

	dir := tb.TempDir()
	require.NoError(tb, os.MkdirAll(filepath.Join(dir, name), 0o750))

	return location.New("$ROOT", dir).Join(name)
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dir    string
		number int
		text   string
		name   string
		date   time.Time
	}{
		{
			dir:    "001. 2018-01-08 16-52 My first venture into crocheting, and what I've learned",
			number: 1,
			text:   "001",
			name:   "My first venture into crocheting, and what I've learned",
			date:   time.Date(2018, 1, 8, 16, 52, 0, 0, time.UTC),
		},
		{
			dir:    "003. 2018-02-05 release-front - a generic release front-end, like Patchwork's",
			number: 3,
			text:   "003",
			name:   "release-front - a generic release front-end, like Patchwork's",
			date:   time.Date(2018, 2, 5, 12, 33, 5, 0, time.UTC),
		},
		{
			dir:    "5. 2018-04-19 23-19-21 cursed device chain",
			number: 5,
			text:   "5",
			name:   "cursed device chain",
			date:   time.Date(2018, 4, 19, 23, 19, 21, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		p, err := post.New(postDir(t, tt.dir), time.UTC)
		require.NoError(t, err, tt.dir)

		assert.Equal(t, tt.number, p.Number)
		assert.Equal(t, tt.text, p.NumberText)
		assert.Equal(t, tt.name, p.Name)
		assert.True(t, tt.date.Equal(p.Date), "%s: %v", tt.dir, p.Date)
		assert.Equal(t, tt.dir, p.RawName())
		assert.Equal(t, "$ROOT/"+tt.dir+"/", p.Source.Display)
	}
}

func TestNew_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dir  string
		want string
	}{
		{"004. stir plate", "Failed to parse post directory filename for blogue post"},
		{
			"99999999999999999999999999999. 2018-01-08 16-52 overflow",
			"Failed to parse unsigned int for post number",
		},
		{"006. 2018-02-30 no such day", "out of range"},
		{"007. 2018-02-03 25-00 no such hour", "out of range"},
	}

	for _, tt := range tests {
		_, err := post.New(postDir(t, tt.dir), time.UTC)

		require.Error(t, err, tt.dir)
		assert.True(t, fault.Is(err, fault.Parse), tt.dir)
		assert.Contains(t, err.Error(), tt.want)
	}
}

func TestNameBasedTime(t *testing.T) {
	t.Parallel()

	h, m, s := post.NameBasedTime("cursed device chain")
	assert.Equal(t, [3]int{19, 3, 9}, [3]int{h, m, s})

	h, m, s = post.NameBasedTime("stir plate")
	assert.Equal(t, [3]int{22, 30, 19}, [3]int{h, m, s})
}

func TestNormalisedName(t *testing.T) {
	t.Parallel()

	p, err := post.New(postDir(t, "003. 2018-02-05 release-front"), time.UTC)
	require.NoError(t, err)

	h, m, s := post.NameBasedTime("release-front")
	want := time.Date(2018, 2, 5, h, m, s, 0, time.UTC).Format("2006-01-02 15-04-05")

	assert.Equal(t, "003. "+want+" release-front", p.NormalisedName())

	vars := p.StampVars()
	assert.Equal(t, p.NormalisedName(), vars["normalised_name"])
	assert.Equal(t, "003", vars["number"])
	assert.Equal(t, "2018-02-05", vars["date"])
	assert.Equal(t, "003. 2018-02-05 release-front", vars["raw_post_name"])
}

func TestList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, d := range []string{
		"temp",
		"003. 2018-02-05 release-front - a generic release front-end, like Patchwork's",
		"001. 2018-01-08 16-52 My first venture into crocheting, and what I've learned",
		"004. stir plate",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, d), 0o750))
	}

	writeTemp(t, dir, "002. 2018-01-08 acquiescence.md", "")
	writeTemp(t, dir, "blogue.toml", "")

	got, err := post.List(location.New("$ROOT/posts", dir))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(
		t,
		"$ROOT/posts/001. 2018-01-08 16-52 My first venture into crocheting, and what I've learned/",
		got[0].Display,
	)
	assert.Equal(
		t,
		filepath.Join(dir, "003. 2018-02-05 release-front - a generic release front-end, like Patchwork's"),
		got[1].Path,
	)
}

func TestList_missing_dir(t *testing.T) {
	t.Parallel()

	_, err := post.List(location.New("$ROOT", filepath.Join(t.TempDir(), "nope")))

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.IO))
}

func TestIsAssetLink(t *testing.T) {
	t.Parallel()

	for link, want := range map[string]bool{
		"assets/image.png":           true,
		"image%20one.png":            true,
		"../shared/a.css":            true,
		"/absolute/path.png":         false,
		"//cdn.example.org/x.js":     false,
		"https://example.org/a.png":  false,
		"mailto:someone@example.org": false,
		"":                           false,
	} {
		assert.Equal(t, want, post.IsAssetLink(link), link)
	}
}

func TestAssetPath(t *testing.T) {
	t.Parallel()

	got, ok := post.AssetPathForTest("assets/a%20b.png?v=2#top")
	assert.True(t, ok)
	assert.Equal(t, "assets/a b.png", got)

	_, ok = post.AssetPathForTest("#top")
	assert.False(t, ok)
}

func TestLocalPath(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"a.png", "assets/a.png", "assets/../a.png", "./a"} {
		assert.True(t, post.LocalPathForTest(p), p)
	}

	for _, p := range []string{"..", "../a.png", "assets/../../a.png", "/etc/passwd"} {
		assert.False(t, post.LocalPathForTest(p), p)
	}
}

func TestConvert_collects_links(t *testing.T) {
	t.Parallel()

	src := "[self](001.bin)\n\n![img](assets/image.png)\n\n[web](https://example.org/)\n"

	html, links, err := post.ConvertForTest([]byte(src), nil)
	require.NoError(t, err)

	assert.Equal(
		t,
		[]string{"001.bin", "assets/image.png", "https://example.org/"},
		links,
	)
	assert.Contains(t, string(html), `<a href="001.bin">self</a>`)
	assert.Contains(t, string(html), `src="assets/image.png"`)
}

func TestConvert_rewrites_asset_links(t *testing.T) {
	t.Parallel()

	src := "![img](assets/image.png) [web](https://example.org/)\n"

	html, links, err := post.ConvertForTest([]byte(src), func(link string) string {
		return "../static/" + link
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"assets/image.png", "https://example.org/"}, links)
	assert.Contains(t, string(html), `src="../static/assets/image.png"`)
	assert.Contains(t, string(html), `href="https://example.org/"`)
}

func TestRelativeLink(t *testing.T) {
	t.Parallel()

	tests := []struct{ from, to, want string }{
		{"posts", "static/a.png", "../static/a.png"},
		{"posts/2018", "posts/img/a b.png", "../img/a%20b.png"},
		{".", "static/a.png", "static/a.png"},
		{"static", "static/a.png", "a.png"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, post.RelativeLinkForTest(tt.from, tt.to), tt)
	}
}
