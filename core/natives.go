package core

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// ExtractNatives unpacks every entry of the zip archive at archivePath into destDir, skipping
// entries under any of the exclude prefixes. Entries escaping destDir are rejected.
// All failures wrap ErrExtraction.
func ExtractNatives(fs billy.Filesystem, archivePath string, destDir string, exclude []string) error {
	info, err := fs.Stat(archivePath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %v: %w", archivePath, err, ErrExtraction)
	}
	f, err := fs.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v: %w", archivePath, err, ErrExtraction)
	}
	defer f.Close()
	z, err := zip.NewReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("failed to read archive %s: %v: %w", archivePath, err, ErrExtraction)
	}
	if err := fs.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %v: %w", destDir, err, ErrExtraction)
	}

	for _, entry := range z.File {
		if strings.HasSuffix(entry.Name, "/") || isExcluded(entry.Name, exclude) {
			continue
		}
		name := path.Clean(strings.ReplaceAll(entry.Name, "\\", "/"))
		if path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
			return fmt.Errorf("archive %s has entry outside of destination: %s: %w", archivePath, entry.Name, ErrExtraction)
		}
		if err := extractEntry(fs, entry, path.Join(destDir, name)); err != nil {
			return fmt.Errorf("failed to extract %s from %s: %v: %w", entry.Name, archivePath, err, ErrExtraction)
		}
	}
	return nil
}

func isExcluded(name string, exclude []string) bool {
	for _, prefix := range exclude {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func extractEntry(fs billy.Filesystem, entry *zip.File, dest string) error {
	r, err := entry.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	if err := fs.MkdirAll(path.Dir(dest), 0755); err != nil {
		return err
	}
	w, err := fs.Create(dest)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, r)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}
	return err
}
