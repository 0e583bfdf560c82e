package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClock = func() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func seedDirs(t *testing.T, root string) {
	t.Helper()
	for dir, files := range map[string]map[string]string{
		"audios": {"a.mp3": "audio-a", "b.wav": "audio-b"},
		"videos": {"clip.mp4": "video-data"},
		"images": {},
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
		for name, content := range files {
			require.NoError(t, os.WriteFile(filepath.Join(root, dir, name), []byte(content), 0644))
		}
	}
}

func TestCreate(t *testing.T) {
	root := t.TempDir()
	seedDirs(t, root)

	b := NewBuilder(WithClock(testClock))
	path, err := b.Create(root, []string{"audios", "videos", "images"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "downloads_2025-03-14_09-26-53.zip"), path)

	// Source directories are gone, only the archive remains.
	for _, dir := range []string{"audios", "videos", "images"} {
		_, err := os.Stat(filepath.Join(root, dir))
		assert.True(t, os.IsNotExist(err), "%s should be removed", dir)
	}

	// Archive layout mirrors the on-disk layout.
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["audios/a.mp3"])
	assert.True(t, names["audios/b.wav"])
	assert.True(t, names["videos/clip.mp4"])
	assert.Len(t, names, 3)

	for _, f := range zr.File {
		if f.Name == "videos/clip.mp4" {
			rc, err := f.Open()
			require.NoError(t, err)
			buf := make([]byte, 32)
			n, _ := rc.Read(buf)
			rc.Close()
			assert.Equal(t, "video-data", string(buf[:n]))
		}
	}
}

func TestCreate_MissingDirSkipped(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "audios"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "audios", "a.mp3"), []byte("x"), 0644))

	b := NewBuilder(WithClock(testClock))
	path, err := b.Create(root, []string{"audios", "videos"})
	require.NoError(t, err)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "audios/a.mp3", zr.File[0].Name)
}

func TestCreate_FailureLeavesNoPartialArchive(t *testing.T) {
	root := t.TempDir()
	seedDirs(t, root)

	// A file that disappears mid-walk is simulated with an unreadable
	// file.
	locked := filepath.Join(root, "videos", "locked.mp4")
	require.NoError(t, os.WriteFile(locked, []byte("x"), 0000))
	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed as root")
	}

	b := NewBuilder(WithClock(testClock))
	_, err := b.Create(root, []string{"audios", "videos", "images"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArchive)

	// No partial archive, source directories untouched.
	_, statErr := os.Stat(filepath.Join(root, Name(testClock())))
	assert.True(t, os.IsNotExist(statErr))
	for _, dir := range []string{"audios", "videos", "images"} {
		_, err := os.Stat(filepath.Join(root, dir))
		assert.NoError(t, err, "%s should be untouched", dir)
	}
}

func TestName(t *testing.T) {
	got := Name(time.Date(2024, 12, 31, 23, 59, 1, 0, time.UTC))
	assert.Equal(t, "downloads_2024-12-31_23-59-01.zip", got)
}
