package cmd

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kerbaras/animeverse/pkg/config"
	"github.com/kerbaras/animeverse/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	c := config.DefaultConfig()
	c.Storage.Driver = "sqlite"
	c.Logging.Level = "error"
	require.NoError(t, c.Save(filepath.Join(dir, "config.yaml")))
	return dir
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 200, A: 255})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	teardown()
	return out.String(), err
}

func TestAlbumCommands(t *testing.T) {
	dir := newDataDir(t)
	src := filepath.Join(t.TempDir(), "cover.png")
	writePNG(t, src)

	out, err := run(t, dir, "album", "add", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Image added: cover.png")

	out, err = run(t, dir, "album", "note", "1", "great", "episode")
	require.NoError(t, err)
	assert.Contains(t, out, "Note saved on")

	out, err = run(t, dir, "album", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "cover.png")
	assert.Contains(t, out, "great episode")

	long := strings.Fields(strings.Repeat("word ", 31))
	_, err = run(t, dir, append([]string{"album", "note", "1"}, long...)...)
	assert.ErrorIs(t, err, data.ErrValidation)

	_, err = run(t, dir, "album", "note", "7", "nope")
	assert.ErrorIs(t, err, data.ErrNotFound)

	out, err = run(t, dir, "album", "rm", "cover.png")
	require.NoError(t, err)
	assert.Contains(t, out, "Image deleted")

	out, err = run(t, dir, "album", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "album is empty")
}

func TestCollectionCommandsEmpty(t *testing.T) {
	dir := newDataDir(t)

	out, err := run(t, dir, "watched", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "watched list is empty")

	_, err = run(t, dir, "watchlist", "rm", "Cowboy Bebop")
	assert.ErrorIs(t, err, data.ErrNotFound)

	_, err = run(t, dir, "watched", "add")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dir := newDataDir(t)

	out, err := run(t, dir, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to export yet")

	src := filepath.Join(t.TempDir(), "frame.png")
	writePNG(t, src)
	_, err = run(t, dir, "album", "add", src)
	require.NoError(t, err)

	_, err = run(t, dir, "export", "--profile", "kindle")
	assert.ErrorContains(t, err, "unknown profile")

	outDir := t.TempDir()
	out, err = run(t, dir, "export", "--profile", "ereader", "--output", outDir, "--title", "Season One")
	require.NoError(t, err)
	assert.Contains(t, out, "Journal saved to")
	assert.FileExists(t, filepath.Join(outDir, "Season One.epub"))
}

func TestPomodoroRejectsNonPositiveDurations(t *testing.T) {
	dir := newDataDir(t)

	_, err := run(t, dir, "pomodoro", "--work", "0s")
	assert.ErrorContains(t, err, "durations must be positive")
}

func TestImageName(t *testing.T) {
	assert.Equal(t, "cover.png", imageName("/x/images/0192f4a4-7c3e-7b5e-9c1d-2f3a4b5c6d7e-cover.png"))
	assert.Equal(t, "short.png", imageName("/x/short.png"))
}
