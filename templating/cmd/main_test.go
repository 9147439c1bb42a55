package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/postrender/fault"
)

func execute(tb testing.TB, stdin string, args ...string) (string, error) {
	tb.Helper()

	var out bytes.Buffer

	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)

	err := cmd.Execute()

	return out.String(), err
}

func TestRun_renders_stdin(t *testing.T) {
	t.Parallel()

	got, err := execute(t,
		"{title} by {author} ({data-mood}) {date(post, \"%Y-%m-%d\")} {tags}",
		"--title", "Hi", "--author", "Me",
		"--data", "mood=calm", "--tag", "a", "--tag", "b",
		"--date", "2020-01-02T03:04:05Z",
	)

	require.NoError(t, err)
	assert.Equal(t,
		`Hi by Me (calm) 2020-01-02 `+
			`<span class="post-tag">a</span> <span class="post-tag">b</span>`,
		got,
	)
}

func TestRun_template_and_output_files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tpl := filepath.Join(dir, "page.html")
	out := filepath.Join(dir, "site", "page.html")

	require.NoError(t, os.WriteFile(tpl, []byte("<title>{blog_name}</title>{styles}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.css"), []byte("p{}"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Dir(out), 0o750))

	stdout, err := execute(t, "",
		"--template", tpl, "--output", out, "--base", dir,
		"--blog-name", "Blogue", "--style", "file:main.css",
	)

	require.NoError(t, err)
	assert.Empty(t, stdout)

	content, err := os.ReadFile(out) //nolint:gosec // test output
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "<title>Blogue</title>"))
	assert.Contains(t, string(content), "p{}")
}

func TestBuildContext(t *testing.T) {
	t.Parallel()

	rc, err := buildContext(&options{
		output: filepath.Join("out", "page.html"),
		data:   []string{"k=v=w"},
		date:   "2021-06-07T08:09:10+02:00",
		base:   ".",
	})

	require.NoError(t, err)
	assert.Equal(t, "page.html", rc.Output)
	assert.Equal(t, map[string]string{"k": "v=w"}, rc.LocalData)
	assert.True(t, rc.PostDate.Equal(time.Date(2021, 6, 7, 6, 9, 10, 0, time.UTC)))
}

func TestBuildContext_errors(t *testing.T) {
	t.Parallel()

	base := t.TempDir()

	for name, tc := range map[string]struct {
		opts options
		kind fault.Kind
		msg  string
	}{
		"bad data": {
			opts: options{data: []string{"novalue"}},
			msg:  `pair must be KEY=VALUE, got "novalue"`,
		},
		"bad date": {
			opts: options{date: "yesterday"},
			kind: fault.Parse,
			msg:  "RFC 3339 date",
		},
		"unknown style class": {
			opts: options{styles: []string{"inline:p{}"}},
			kind: fault.Parse,
			msg:  `expected "literal", "link", or "file"`,
		},
		"unknown script class": {
			opts: options{scripts: []string{"module:x.js"}},
			kind: fault.Parse,
			msg:  "element class",
		},
		"missing file element": {
			opts: options{scripts: []string{"file:absent.js"}},
			kind: fault.FileNotFound,
			msg:  "absent.js",
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			opts := tc.opts
			opts.base = base

			_, err := buildContext(&opts)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)

			if tc.kind != 0 {
				assert.True(t, fault.Is(err, tc.kind), err.Error())
			}
		})
	}
}

func TestRun_missing_template(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "", "--template", filepath.Join(t.TempDir(), "none.html"))

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.FileNotFound))
	assert.Equal(t, int(fault.FileNotFound), fault.ExitCode(err))
}
