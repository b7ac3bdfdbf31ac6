// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZip creates a zip at dir/name holding the given entries. Entries
// ending in "/" become directories.
func writeZip(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for entry, content := range entries {
		w, err := zw.Create(entry)
		require.NoError(t, err)
		if content != "" {
			_, err = w.Write([]byte(content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"01_a.webp", true},
		{"01_a.PNG", true},
		{"01_a.Jpg", true},
		{"01_a.jpeg", true},
		{"01_a.gif", false},
		{"notes.txt", false},
		{"png", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsImage(tt.name))
		})
	}
}

func TestUnpack(t *testing.T) {
	tmp := t.TempDir()
	zipPath := writeZip(t, tmp, "assets.zip", map[string]string{
		"assets/":                        "",
		"assets/01_Title.png":            "png-1",
		"assets/nested/02_Other.JPG":     "jpg-2",
		"assets/readme.txt":              "ignore me",
		"__MACOSX/assets/._01_Title.png": "fork",
		"assets/.DS_Store":               "junk",
	})

	workDir := filepath.Join(tmp, "out", "_tmp")
	imagesDir := filepath.Join(tmp, "out", "images")

	names, err := Unpack(zipPath, workDir, imagesDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"01_Title.png", "02_Other.JPG"}, names)

	data, err := os.ReadFile(filepath.Join(imagesDir, "02_Other.JPG"))
	require.NoError(t, err)
	assert.Equal(t, "jpg-2", string(data))

	_, err = os.Stat(workDir)
	assert.True(t, os.IsNotExist(err), "work dir should be removed after success")
}

func TestUnpack_RemovesWorkDirOnFailure(t *testing.T) {
	tmp := t.TempDir()
	workDir := filepath.Join(tmp, "_tmp")
	imagesDir := filepath.Join(tmp, "images")

	_, err := Unpack(filepath.Join(tmp, "missing.zip"), workDir, imagesDir)
	require.Error(t, err)

	_, statErr := os.Stat(workDir)
	assert.True(t, os.IsNotExist(statErr), "work dir should be removed after failure")
}

func TestUnpack_ClearsStaleWorkDir(t *testing.T) {
	tmp := t.TempDir()
	workDir := filepath.Join(tmp, "_tmp")
	require.NoError(t, os.MkdirAll(workDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "99_Stale.png"), []byte("old"), 0o644))

	zipPath := writeZip(t, tmp, "a.zip", map[string]string{"01_New.png": "new"})
	names, err := Unpack(zipPath, workDir, filepath.Join(tmp, "images"))
	require.NoError(t, err)
	assert.Equal(t, []string{"01_New.png"}, names)
}

func TestExtract_RejectsEscapingEntries(t *testing.T) {
	tmp := t.TempDir()
	zipPath := writeZip(t, tmp, "evil.zip", map[string]string{"../evil.png": "x"})

	dest := filepath.Join(tmp, "dest")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	err := Extract(zipPath, dest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsafePath) || errors.Is(err, zip.ErrInsecurePath), "got %v", err)

	_, statErr := os.Stat(filepath.Join(tmp, "evil.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCopyFlat_LaterDuplicateWins(t *testing.T) {
	tmp := t.TempDir()
	a := filepath.Join(tmp, "a", "01_Same.png")
	b := filepath.Join(tmp, "b", "01_Same.png")
	for path, content := range map[string]string{a: "first", b: "second"} {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	dst := filepath.Join(tmp, "images")
	names, err := CopyFlat([]string{a, b}, dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"01_Same.png"}, names)

	data, err := os.ReadFile(filepath.Join(dst, "01_Same.png"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWorkDir_ReleaseTwice(t *testing.T) {
	wd, err := Acquire(filepath.Join(t.TempDir(), "scratch"))
	require.NoError(t, err)
	require.NoError(t, wd.Release())
	require.NoError(t, wd.Release())
}
