// Package scan walks directories for image files.
package scan

import (
	"io/fs"
	"math/rand"
	"path/filepath"
	"strings"
	"time"
)

// FileItem is one image file found by a scan.
type FileItem struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// FileItems is an ordered list of scanned files.
type FileItems []FileItem

// LoggerFunc receives progress and error messages from a scan.
type LoggerFunc func(msg string)

// DefaultExtensions are the image types the gallery can decode.
var DefaultExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsImage reports whether path has an extension in exts.
func IsImage(path string, exts map[string]bool) bool {
	return exts[strings.ToLower(filepath.Ext(path))]
}

// FileScannerImpl walks a directory tree in lexical order. Hidden
// directories are skipped. A nil Extensions uses DefaultExtensions.
type FileScannerImpl struct {
	Extensions map[string]bool
}

// Run starts the walk in a goroutine and streams matching files. The channel
// is closed when the walk ends.
func (s *FileScannerImpl) Run(dir string, logger LoggerFunc) <-chan FileItem {
	exts := s.Extensions
	if exts == nil {
		exts = DefaultExtensions
	}
	if logger == nil {
		logger = func(string) {}
	}

	out := make(chan FileItem, 64)
	go func() {
		defer close(out)
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger("scan: " + err.Error())
				if d != nil && d.IsDir() && path != dir {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return fs.SkipDir
				}
				return nil
			}
			if !IsImage(path, exts) {
				return nil
			}
			item := FileItem{Path: path, Name: d.Name()}
			if info, err := d.Info(); err == nil {
				item.Size = info.Size()
				item.ModTime = info.ModTime()
			}
			out <- item
			return nil
		})
		if err != nil {
			logger("scan: " + err.Error())
		}
	}()
	return out
}

// Shuffle permutes items in place.
func (items FileItems) Shuffle(r *rand.Rand) {
	r.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

