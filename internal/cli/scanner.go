package cli

import (
	"github.com/toyz/splinter/internal/utils"
)

// DirectoryScanner resolves directory arguments to Go package directories
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// ScanDirectories returns every package directory named by the arguments.
// Supports Go-style patterns like "./..." for recursive scanning.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	return s.fileProcessor.ScanPatterns(patterns)
}
