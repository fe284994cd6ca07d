package service

import (
	"fmt"

	"github.com/nicky-ayoub/ebitgallery/internal/scan"
)

// FileScanner abstracts file scanning.
type FileScanner interface {
	Run(dir string, logger scan.LoggerFunc) <-chan scan.FileItem
}

// ScannerService collects gallery sources from a FileScanner.
type ScannerService struct {
	FileScan   FileScanner
	Extensions map[string]bool // Supported image extensions
}

// NewScannerService constructs a new ScannerService.
func NewScannerService(fileScan FileScanner) *ScannerService {
	return &ScannerService{
		FileScan:   fileScan,
		Extensions: scan.DefaultExtensions,
	}
}

// Collect drains a scan of dir and returns the supported images in scan
// order. Finding nothing is an error.
func (s *ScannerService) Collect(dir string, logger scan.LoggerFunc) (scan.FileItems, error) {
	var items scan.FileItems
	for item := range s.FileScan.Run(dir, logger) {
		if !scan.IsImage(item.Path, s.Extensions) {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}
	return items, nil
}
