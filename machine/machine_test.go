package machine_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/postrender/element"
	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/machine"
	"github.com/byte4ever/postrender/templating"
)

func sampleContext(tb testing.TB) *templating.Context {
	tb.Helper()

	post, err := time.Parse(time.RFC3339, "2018-09-06T18:32:22+02:00")
	require.NoError(tb, err)

	return &templating.Context{
		Output:      "003.json",
		BlogName:    "Блогг",
		Language:    "pl",
		Author:      "nabijaczleweli",
		Title:       `release-front <"quoted">`,
		RawPostName: "003. 2018-02-05 release-front",
		Number:      3,
		PostDate:    post,
		GlobalData:  map[string]string{"desc": "global", "site": "nab"},
		LocalData:   map[string]string{"desc": "local"},
		Tags:        []string{"vodka", "коммунизм"},
		Styles: []element.Style{
			{Element: element.Link("/s.css")},
			{Element: element.Literal("b{}")},
		},
		Scripts: []element.Script{
			{Element: element.Literal("alert(1);")},
		},
	}
}

func options() []machine.Option {
	return []machine.Option{
		machine.WithClock(func() time.Time {
			return time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
		}),
		machine.WithLocation(time.FixedZone("", 2*3600)),
		machine.WithVersion("0.4.0"),
	}
}

func TestNewRecord_fields(t *testing.T) {
	t.Parallel()

	rec := machine.NewRecord(sampleContext(t), options()...)

	assert.Equal(t, machine.Record{
		Number:                     3,
		Language:                   "pl",
		Title:                      `release-front <"quoted">`,
		Author:                     "nabijaczleweli",
		RawPostName:                "003. 2018-02-05 release-front",
		BlogName:                   "Блогг",
		PostDateRFC3339:            "2018-09-06T18:32:22+02:00",
		PostDateRFC2822:            "Thu,  6 Sep 2018 18:32:22 +0200",
		GenerationDateUTCRFC3339:   "2020-01-02T03:04:05+00:00",
		GenerationDateUTCRFC2822:   "Thu,  2 Jan 2020 03:04:05 +0000",
		GenerationDateLocalRFC3339: "2020-01-02T05:04:05+02:00",
		GenerationDateLocalRFC2822: "Thu,  2 Jan 2020 05:04:05 +0200",
		Tags:                       []string{"vodka", "коммунизм"},
		AdditionalData:             map[string]string{"desc": "local", "site": "nab"},
		Styles:                     []string{"/s.css", "b{}"},
		Scripts:                    []string{"alert(1);"},
		Version:                    "0.4.0",
	}, rec)
}

func TestWriteJSON_field_order_and_layout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, machine.WriteJSON(&buf, sampleContext(t), options()...))

	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "{\n    \"number\": 3,\n    \"language\": \"pl\",\n"), out)
	assert.True(t, strings.HasSuffix(out, "    \"version\": \"0.4.0\"\n}\n"), out)
	assert.Contains(t, out, `"title": "release-front <\"quoted\">"`)
	assert.Contains(t, out, "\"tags\": [\n        \"vodka\",\n        \"коммунизм\"\n    ],")

	order := []string{
		"number", "language", "title", "author", "raw_post_name",
		"blog_name", "post_date_rfc3339", "post_date_rfc2822",
		"generation_date_utc_rfc3339", "generation_date_utc_rfc2822",
		"generation_date_local_rfc3339", "generation_date_local_rfc2822",
		"tags", "additional_data", "styles", "scripts", "version",
	}

	last := -1
	for _, key := range order {
		idx := strings.Index(out, `"`+key+`":`)
		require.Greater(t, idx, last, key)
		last = idx
	}

	var back map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Len(t, back, len(order))
}

func TestWriteJSON_deterministic_with_fixed_clock(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer

	require.NoError(t, machine.WriteJSON(&a, sampleContext(t), options()...))
	require.NoError(t, machine.WriteJSON(&b, sampleContext(t), options()...))

	assert.Equal(t, a.String(), b.String())
}

func TestWriteJSON_empty_lists_are_arrays(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, machine.WriteJSON(&buf, &templating.Context{}, options()...))

	var back map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))

	assert.Equal(t, []any{}, back["tags"])
	assert.Equal(t, []any{}, back["styles"])
	assert.Equal(t, map[string]any{}, back["additional_data"])
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("read-only")
}

func TestWriteJSON_write_failure(t *testing.T) {
	t.Parallel()

	err := machine.WriteJSON(brokenWriter{}, sampleContext(t), options()...)

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.IO))
	assert.Equal(t, "Writing JSON machine output failed: read-only", err.Error())
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"json", "JSON", "Json", " json "} {
		k, err := machine.ParseKind(s)
		require.NoError(t, err, s)
		assert.Equal(t, machine.JSON, k)
	}

	assert.Equal(t, "JSON", machine.JSON.Name())
	assert.Equal(t, "json", machine.JSON.Extension())

	_, err := machine.ParseKind("xml")
	assert.True(t, fault.Is(err, fault.Parse))
}

func TestKind_Write_dispatches(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, machine.JSON.Write(&buf, sampleContext(t), options()...))
	assert.True(t, json.Valid(buf.Bytes()))

	assert.Error(t, machine.Kind(0).Write(&buf, sampleContext(t)))
}
