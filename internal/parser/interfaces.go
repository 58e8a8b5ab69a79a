package parser

import (
	"github.com/toyz/splinter/internal/models"
	"github.com/toyz/splinter/internal/utils"
)

// SourceParser defines the interface for loading Go source files into a symbol graph
type SourceParser interface {
	ParseSource(filename, importPath string, src interface{}) error
	ParseFile(path, importPath string) error
	ParseDirectory(dir, importPath string) error
	Graph() (*models.Graph, error)
	Reset()
	CacheStats() utils.CacheStats
}
