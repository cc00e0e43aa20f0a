// Package archive extracts and repackages zip containers. Extraction first
// uses an AES-aware reader so encrypted archives produced by common desktop
// tools still open; writing always produces a plain deflate-compressed zip.
package archive

import (
	stdzip "archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	aeszip "github.com/yeka/zip"
)

// ErrCorrupt reports that an archive could not be opened by either the
// AES-aware or the plain reader.
var ErrCorrupt = errors.New("archive corrupt or unreadable")

// Extract unpacks archivePath into destDir, creating destDir if needed.
// The AES-capable reader is tried first; on any failure the plain reader is
// tried. If both fail, the returned error wraps ErrCorrupt. On failure
// destDir may contain partial output; callers treat the whole job as failed.
func Extract(archivePath, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	aesErr := extractAES(archivePath, destDir)
	if aesErr == nil {
		return nil
	}

	plainErr := extractPlain(archivePath, destDir)
	if plainErr == nil {
		return nil
	}

	return fmt.Errorf("%w: aes reader: %v; plain reader: %v", ErrCorrupt, aesErr, plainErr)
}

func extractAES(archivePath, destDir string) error {
	r, err := aeszip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeEntry(destDir, f.Name, f.Mode().IsDir(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func extractPlain(archivePath, destDir string) error {
	r, err := stdzip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeEntry(destDir, f.Name, f.FileInfo().IsDir(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// writeEntry materialises one archive member under destDir, rejecting entry
// names that would escape it.
func writeEntry(destDir, name string, isDir bool, r io.Reader) error {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return fmt.Errorf("illegal entry path %q", name)
	}

	target := filepath.Join(destDir, cleaned)
	if isDir {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Repackage walks srcDir in sorted order and writes every regular file into a
// new deflate-compressed zip at outPath. Entry names are slash-separated
// paths relative to srcDir.
func Repackage(srcDir, outPath string) error {
	var files []string
	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk source: %w", err)
	}
	sort.Strings(files)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	w := stdzip.NewWriter(out)
	for _, path := range files {
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			w.Close()
			return err
		}
		entry, err := w.CreateHeader(&stdzip.FileHeader{
			Name:   filepath.ToSlash(rel),
			Method: stdzip.Deflate,
		})
		if err != nil {
			w.Close()
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			w.Close()
			return err
		}
		_, err = io.Copy(entry, in)
		in.Close()
		if err != nil {
			w.Close()
			return fmt.Errorf("write entry %s: %w", rel, err)
		}
	}
	return w.Close()
}
