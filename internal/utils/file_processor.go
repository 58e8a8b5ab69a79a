package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GeneratedFileSuffix marks files written by the code generator
const GeneratedFileSuffix = ".gen.go"

// RecursivePatternSuffix is the Go-style "all packages below" marker
const RecursivePatternSuffix = "/..."

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	directoryFilter DirectoryFilter
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		directoryFilter: DefaultDirectoryFilter(),
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// DefaultGoFileFilter filters for .go source files, excluding tests and generated files
func DefaultGoFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}

		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasSuffix(name, GeneratedFileSuffix)
	}
}

// GeneratedFileFilter filters for files written by the code generator
func GeneratedFileFilter() FileFilter {
	return func(path string, info os.DirEntry) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), GeneratedFileSuffix)
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain source code
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		if strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// SplitPattern separates a directory argument from its recursive marker
func SplitPattern(pattern string) (dir string, recursive bool) {
	dir, recursive = strings.CutSuffix(filepath.ToSlash(pattern), RecursivePatternSuffix)
	if dir == "" {
		dir = "."
	}
	return filepath.FromSlash(dir), recursive
}

// WalkFiles walks through files in a directory tree with filtering. The root
// directory itself is never filtered out.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path != rootDir && options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})

	return matchedFiles, err
}

// ScanPatterns resolves directory arguments to the package directories they name.
// A plain directory names itself when it holds Go files; "dir/..." names every
// package directory below dir. The result is absolute, sorted and free of duplicates.
func (fp *FileProcessor) ScanPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var packageDirs []string

	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			packageDirs = append(packageDirs, dir)
		}
	}

	for _, pattern := range patterns {
		dir, recursive := SplitPattern(pattern)
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("path resolution %s", dir), err)
		}

		if !recursive {
			hasGoFiles, err := fp.HasGoFiles(absDir)
			if err != nil {
				return nil, WrapProcessError(fmt.Sprintf("directory read %s", dir), err)
			}
			if hasGoFiles {
				add(absDir)
			}
			continue
		}

		dirs, err := fp.ScanDirectoriesWithGoFiles([]string{absDir})
		if err != nil {
			return nil, err
		}
		for _, d := range dirs {
			add(d)
		}
	}

	sort.Strings(packageDirs)
	return packageDirs, nil
}

// ScanDirectoriesWithGoFiles scans directory trees and returns those containing Go files
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("path resolution %s", dir), err)
	}

	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	var packageDirs []string

	hasGoFiles, err := fp.HasGoFiles(absDir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("Go file check in %s", dir), err)
	}
	if hasGoFiles {
		packageDirs = append(packageDirs, absDir)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("directory read %s", dir), err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		entryPath := filepath.Join(absDir, entry.Name())
		if !fp.directoryFilter(entryPath, entry) {
			continue
		}

		subDirs, err := fp.scanDirectoryRecursive(entryPath, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// HasGoFiles checks if a directory contains any .go source files
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	fileFilter := DefaultGoFileFilter()
	for _, entry := range entries {
		if fileFilter(filepath.Join(dir, entry.Name()), entry) {
			return true, nil
		}
	}
	return false, nil
}

// FindGeneratedFiles lists the generated files matched by the directory patterns.
// Missing directories are skipped.
func (fp *FileProcessor) FindGeneratedFiles(patterns []string) ([]string, error) {
	var files []string

	for _, pattern := range patterns {
		dir, recursive := SplitPattern(pattern)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		if recursive {
			found, err := fp.WalkFiles(dir, FileWalkOptions{
				FileFilter:      GeneratedFileFilter(),
				DirectoryFilter: fp.directoryFilter,
				SkipErrors:      true,
			})
			if err != nil {
				return nil, WrapProcessError(fmt.Sprintf("directory walk %s", dir), err)
			}
			files = append(files, found...)
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("directory read %s", dir), err)
		}
		filter := GeneratedFileFilter()
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if filter(path, entry) {
				files = append(files, path)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
