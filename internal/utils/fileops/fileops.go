package fileops

import (
	"os"
	"path/filepath"

	"github.com/toyz/splinter/internal/errors"
)

// FileOps combines path validation with file system access for generated sources
type FileOps struct {
	pathValidator *PathValidator
	dryRun        bool
}

// NewFileOps creates a new FileOps instance
func NewFileOps() *FileOps {
	return &FileOps{
		pathValidator: NewPathValidator(),
	}
}

// NewDryRunFileOps creates a FileOps instance that validates paths but never touches the disk
func NewDryRunFileOps() *FileOps {
	return &FileOps{
		pathValidator: NewPathValidator(),
		dryRun:        true,
	}
}

// PathValidator returns the path validator instance
func (fo *FileOps) PathValidator() *PathValidator {
	return fo.pathValidator
}

// DryRun reports whether writes and removals are skipped
func (fo *FileOps) DryRun() bool {
	return fo.dryRun
}

// ReadFile reads a file and returns its contents
func (fo *FileOps) ReadFile(filePath string) ([]byte, error) {
	cleanPath, err := fo.pathValidator.ValidateAndClean(filePath)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", cleanPath, err)
	}
	return content, nil
}

// WriteFile writes content to a file in an existing directory
func (fo *FileOps) WriteFile(filePath string, content []byte, perm os.FileMode) error {
	cleanPath, err := fo.pathValidator.ValidateAndCleanOptional(filePath)
	if err != nil {
		return err
	}
	if !fo.pathValidator.IsDir(filepath.Dir(cleanPath)) {
		return errors.FileSystemError("write", cleanPath, "directory does not exist")
	}
	if fo.dryRun {
		return nil
	}

	if err := os.WriteFile(cleanPath, content, perm); err != nil {
		return errors.WrapFileSystemError("write", cleanPath, err)
	}
	return nil
}

// RemoveFile removes a file
func (fo *FileOps) RemoveFile(filePath string) error {
	cleanPath, err := fo.pathValidator.ValidateAndClean(filePath)
	if err != nil {
		return err
	}
	if fo.dryRun {
		return nil
	}

	if err := os.Remove(cleanPath); err != nil {
		return errors.WrapFileSystemError("remove", cleanPath, err)
	}
	return nil
}

// ReadDir reads a directory
func (fo *FileOps) ReadDir(dirPath string) ([]os.DirEntry, error) {
	cleanPath, err := fo.pathValidator.ValidateAndClean(dirPath)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(cleanPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("read directory", cleanPath, err)
	}
	return entries, nil
}

// Exists checks if a path exists
func (fo *FileOps) Exists(path string) bool {
	return fo.pathValidator.Exists(path)
}

// IsDir checks if a path is a directory
func (fo *FileOps) IsDir(path string) bool {
	return fo.pathValidator.IsDir(path)
}
