package processor

import (
	"path/filepath"
	"sync"

	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/generator"
	"github.com/toyz/splinter/internal/models"
	"github.com/toyz/splinter/internal/utils/fileops"
)

// Package identifies the package a generated artifact belongs to
type Package struct {
	Path string // import path
	Name string
	Dir  string
}

// CodeWriter receives every rendered artifact
type CodeWriter interface {
	Write(pkg Package, artifact, body, description string, origins []models.Origin) error
}

// FileWriter writes artifacts next to the sources of their package
type FileWriter struct {
	ops *fileops.FileOps

	mu      sync.Mutex
	written []string
}

// NewFileWriter creates a writer backed by ops
func NewFileWriter(ops *fileops.FileOps) *FileWriter {
	return &FileWriter{ops: ops}
}

// Write implements CodeWriter
func (w *FileWriter) Write(pkg Package, artifact, body, _ string, _ []models.Origin) error {
	if pkg.Dir == "" {
		return errors.FileSystemError("write", artifact, "no directory known for package "+pkg.Path)
	}

	path := filepath.Join(pkg.Dir, generator.GeneratedFileName(artifact))
	if err := w.ops.WriteFile(path, []byte(body), 0o644); err != nil {
		return err
	}

	w.mu.Lock()
	w.written = append(w.written, path)
	w.mu.Unlock()
	return nil
}

// Written returns the paths written so far
func (w *FileWriter) Written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.written...)
}

// MemoryWriter keeps artifacts in memory, keyed by qualified artifact name
type MemoryWriter struct {
	Files map[string]string
	Order []string
}

// NewMemoryWriter creates an empty in-memory writer
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{Files: make(map[string]string)}
}

// Write implements CodeWriter
func (w *MemoryWriter) Write(pkg Package, artifact, body, _ string, _ []models.Origin) error {
	name := pkg.Path + "." + artifact
	w.Files[name] = body
	w.Order = append(w.Order, name)
	return nil
}
