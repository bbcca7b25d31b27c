package thumbnail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_WritesPNGFile(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)

	path, err := r.Render("WATCH NOW")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRender_DeterministicPathForSameLine(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)

	first, err := r.Render("RICE TIME")
	require.NoError(t, err)
	second, err := r.Render("RICE TIME")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderAll_WritesOnePerLine(t *testing.T) {
	dir := t.TempDir()
	r := New(dir)

	paths, err := r.RenderAll([]string{"ONE", "TWO", "THREE"})
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, p := range paths {
		_, err := os.Stat(p)
		require.NoError(t, err)
	}
}
