package feed_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/feed"
)

func config() feed.Config {
	return feed.Config{
		Output:    "feed.rss",
		Generator: "postrender 0.4.0",
		Now: func() time.Time {
			return time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
		},
		Location: time.FixedZone("", 3600),
	}
}

func channel() feed.Channel {
	return feed.Channel{
		Title:    "Blog & <friends>",
		Link:     "https://blog.example.org/",
		Author:   "nabijaczleweli",
		Language: "en-GB",
	}
}

func TestRSSWriter_header_lines(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	w := &feed.RSSWriter{Config: config()}
	require.NoError(t, w.Header(&buf, channel()))

	assert.Equal(t, feed.DefaultRSSHead+
		"    <title>Blog &amp; &lt;friends&gt;</title>\n"+
		"    <link>https://blog.example.org/</link>\n"+
		"    <author>nabijaczleweli</author>\n"+
		"    <description>Blog &amp; &lt;friends&gt;</description>\n"+
		"    <language>en-GB</language>\n"+
		"    <generator>postrender 0.4.0</generator>\n"+
		"    <pubDate>Thu,  2 Jan 2020 04:04:05 +0100</pubDate>\n"+
		"    <lastBuildDate>Thu,  2 Jan 2020 04:04:05 +0100</lastBuildDate>\n",
		buf.String(),
	)
}

func TestRSSWriter_header_skips_empty_link(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ch := channel()
	ch.Link = ""

	require.NoError(t, (&feed.RSSWriter{Config: config()}).Header(&buf, ch))
	assert.NotContains(t, buf.String(), "<link>")
}

func TestRSSWriter_custom_head_and_foot(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	w := &feed.RSSWriter{Config: config(), Head: "<h>\n", Foot: "</h>\n"}
	require.NoError(t, w.Footer(&buf))
	assert.Equal(t, "</h>\n", buf.String())

	buf.Reset()
	require.NoError(t, w.Header(&buf, channel()))
	assert.Equal(t, "<h>\n", buf.String()[:4])
}

func writeFeed(tb testing.TB, w feed.Writer, out io.Writer) {
	tb.Helper()

	post := time.Date(2018, 9, 6, 18, 32, 22, 0, time.FixedZone("", 7200))

	require.NoError(tb, w.Header(out, channel()))

	for _, title := range []string{"first <post>", "second"} {
		require.NoError(tb, w.ItemHeader(out, feed.Item{
			Title:  title,
			GUID:   "003. 2018-02-05 " + title,
			Author: "nabijaczleweli",
			Link:   "https://blog.example.org/posts/" + title + ".html",
			Date:   post,
		}))

		_, err := io.WriteString(w.ItemBody(out), "<p>Body & soul</p>")
		require.NoError(tb, err)

		require.NoError(tb, w.ItemFooter(out))
	}

	require.NoError(tb, w.Footer(out))
}

func TestRSSWriter_full_feed_is_well_formed(t *testing.T) {
	t.Parallel()

	w, err := feed.RSS.Writer(config())
	require.NoError(t, err)

	var buf bytes.Buffer
	writeFeed(t, w, &buf)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	ch := doc.FindElement("/rss/channel")
	require.NotNil(t, ch)
	assert.Equal(t, "Blog & <friends>", ch.SelectElement("title").Text())
	assert.Equal(t, "postrender 0.4.0", ch.SelectElement("generator").Text())

	items := ch.SelectElements("item")
	require.Len(t, items, 2)
	assert.Equal(t, "first <post>", items[0].SelectElement("title").Text())
	assert.Equal(
		t,
		"Thu,  6 Sep 2018 18:32:22 +0200",
		items[0].SelectElement("pubDate").Text(),
	)
	assert.Contains(
		t,
		items[1].SelectElement("description").Text(),
		"<p>Body & soul</p>",
	)
}

func TestRSSWriter_item_layout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	w := &feed.RSSWriter{Config: config()}
	require.NoError(t, w.ItemHeader(&buf, feed.Item{
		Title: "t", GUID: "g", Author: "a", Link: "l",
		Date: time.Date(2018, 9, 6, 18, 32, 22, 0, time.UTC),
	}))
	require.NoError(t, w.ItemFooter(&buf))

	assert.Equal(t, "\n    <item>\n"+
		"      <title>t</title>\n"+
		"      <author>a</author>\n"+
		"      <link>l</link>\n"+
		"      <pubDate>Thu,  6 Sep 2018 18:32:22 +0000</pubDate>\n"+
		"      <guid>g</guid>\n"+
		"      <description>\n"+
		"      </description>\n"+
		"    </item>\n",
		buf.String(),
	)
}

func TestEscapeWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	n, err := feed.EscapeWriter{W: &buf}.Write([]byte(`<a href="x">&</a>`))

	require.NoError(t, err)
	assert.Equal(t, 17, n)
	assert.Equal(t, `&lt;a href="x"&gt;&amp;&lt;/a&gt;`, buf.String())
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]feed.Kind{
		"rss": feed.RSS, "RSS": feed.RSS, "Atom": feed.Atom, "atom": feed.Atom,
	} {
		got, err := feed.ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := feed.ParseKind("json")
	assert.True(t, fault.Is(err, fault.Parse))
}

func TestAtom_is_unsupported(t *testing.T) {
	t.Parallel()

	_, err := feed.Atom.Writer(config())

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.Parse))
	assert.Contains(t, err.Error(), "unsupported feed kind")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("no space")
}

func TestRSSWriter_write_failure_names_part(t *testing.T) {
	t.Parallel()

	err := (&feed.RSSWriter{Config: config()}).Footer(brokenWriter{})

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.IO))
	assert.Equal(t, "Writing RSS feed output footer failed: no space", err.Error())
}
