package cli

import (
	"bytes"

	"github.com/toyz/splinter/internal/templates"
	"github.com/toyz/splinter/internal/utils"
	"github.com/toyz/splinter/internal/utils/fileops"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
	ops           *fileops.FileOps
}

// NewCleaner creates a new cleaner
func NewCleaner(ops *fileops.FileOps) *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
		ops:           ops,
	}
}

// CleanGeneratedFiles removes the generated files below the given directory
// patterns and returns their paths. Files with the generated suffix that lack
// the generated header were not written by splinter and are left alone.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	candidates, err := c.fileProcessor.FindGeneratedFiles(patterns)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, path := range candidates {
		content, err := c.ops.ReadFile(path)
		if err != nil {
			return removed, err
		}
		if !bytes.HasPrefix(content, []byte(templates.GeneratedHeader)) {
			continue
		}

		if err := c.ops.RemoveFile(path); err != nil {
			return removed, err
		}
		removed = append(removed, path)
	}

	return removed, nil
}
