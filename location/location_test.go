package location_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/location"
)

func TestJoin_cleans_segments(t *testing.T) {
	t.Parallel()

	base := location.New("$ROOT", "/srv/blog")

	tests := []struct {
		rel         string
		wantDisplay string
		wantPath    string
	}{
		{"common.css", "$ROOT/common.css", "/srv/blog/common.css"},
		{"./assets//a.js", "$ROOT/assets/a.js", "/srv/blog/assets/a.js"},
		{"assets/../b.js", "$ROOT/b.js", "/srv/blog/b.js"},
		{"/c.css", "$ROOT/c.css", "/srv/blog/c.css"},
		{"d\\e.css", "$ROOT/d/e.css", "/srv/blog/d/e.css"},
	}

	for _, tt := range tests {
		got := base.Join(tt.rel)
		assert.Equal(t, tt.wantDisplay, got.Display, tt.rel)
		assert.Equal(t, filepath.FromSlash(tt.wantPath), got.Path, tt.rel)
	}
}

func TestJoin_keeps_trailing_separator_of_base(t *testing.T) {
	t.Parallel()

	base := location.New("$ROOT/", "/srv")

	assert.Equal(t, "$ROOT/x", base.Join("x").Display)
	assert.Equal(t, "$ROOT/", location.New("$ROOT", "/srv").Dir().Display)
}

func TestReadText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "ok.txt"), []byte("Наган"), 0o600,
	))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "bad.txt"), []byte{0xff, 0xfe, 0x00}, 0o600,
	))

	base := location.New("$ROOT", dir)

	got, err := base.Join("ok.txt").ReadText("test file")
	require.NoError(t, err)
	assert.Equal(t, "Наган", got)

	_, err = base.Join("missing.txt").ReadText("test file")
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.FileNotFound))
	assert.Equal(
		t,
		"File $ROOT/missing.txt for test file not found",
		err.Error(),
	)

	_, err = base.Join("bad.txt").ReadText("test file")
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.Parse))
}
