// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive unpacks the artwork archive and collects its images.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrUnsafePath is returned for archive entries that would land outside the
// extraction directory.
var ErrUnsafePath = errors.New("archive entry escapes extraction directory")

// imagePattern matches the image extensions the catalog accepts.
var imagePattern = regexp.MustCompile(`(?i)\.(webp|png|jpg|jpeg)$`)

// IsImage reports whether name has an accepted image extension.
func IsImage(name string) bool {
	return imagePattern.MatchString(name)
}

// WorkDir is a scratch directory that is deleted and recreated on Acquire
// and removed by Release.
type WorkDir struct {
	Path string
}

// Acquire removes any previous contents of dir and creates it empty.
func Acquire(dir string) (*WorkDir, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("clearing %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	return &WorkDir{Path: dir}, nil
}

// Release removes the directory and everything in it. Safe to call twice.
func (d *WorkDir) Release() error {
	if d == nil || d.Path == "" {
		return nil
	}
	if err := os.RemoveAll(d.Path); err != nil {
		return fmt.Errorf("removing %s: %w", d.Path, err)
	}
	return nil
}

// Extract unpacks every entry of the zip at archivePath into dest.
func Extract(archivePath, dest string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer r.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return err
	}

	for _, f := range r.File {
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("%s: %w", f.Name, ErrUnsafePath)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return out.Close()
}

// CollectImages walks dir and returns the paths of all image files, sorted.
// Hidden files and macOS resource forks are ignored.
func CollectImages(dir string) ([]string, error) {
	var images []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if name == "__MACOSX" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !IsImage(name) {
			return nil
		}
		images = append(images, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting images in %s: %w", dir, err)
	}
	sort.Strings(images)
	return images, nil
}

// CopyFlat copies each file into dst under its basename and returns the
// basenames written, sorted. A later file with the same basename replaces
// an earlier one.
func CopyFlat(files []string, dst string) ([]string, error) {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dst, err)
	}

	seen := make(map[string]bool)
	for _, src := range files {
		name := filepath.Base(src)
		if err := copyFile(src, filepath.Join(dst, name)); err != nil {
			return nil, err
		}
		seen[name] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// Unpack extracts archivePath into a fresh work directory, copies its images
// flat into imagesDir and removes the work directory again, also when a
// step fails. It returns the image basenames in imagesDir.
func Unpack(archivePath, workDir, imagesDir string) (names []string, err error) {
	wd, err := Acquire(workDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := wd.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if err := Extract(archivePath, wd.Path); err != nil {
		return nil, err
	}
	images, err := CollectImages(wd.Path)
	if err != nil {
		return nil, err
	}
	return CopyFlat(images, imagesDir)
}
