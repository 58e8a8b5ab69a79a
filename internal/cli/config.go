package cli

import (
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyz/splinter/internal/discovery"
	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/utils/fileops"
)

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for annotated Go files.
	// "dir/..." scans dir and everything below it.
	Directories []string

	// ModuleName is the custom module name for imports
	// If empty, will be determined from go.mod file
	ModuleName string

	// Options is the raw processor option map, as passed with -A key=value
	Options map[string]string

	// ConfigFile is an optional YAML file whose settings sit under Options
	ConfigFile string

	// Strict, Excludes and Debug are shorthands for the matching processor options
	Strict   bool
	Excludes []string
	Debug    bool

	// DryRun reports what would be written or removed without touching the disk
	DryRun bool

	// Verbose enables detailed logging and error reporting
	Verbose bool
}

// FileConfig is the layout of the YAML configuration file
type FileConfig struct {
	Module   string            `yaml:"module"`
	Excludes []string          `yaml:"excludes"`
	Strict   *bool             `yaml:"strict"`
	Debug    *bool             `yaml:"debug"`
	Options  map[string]string `yaml:"options"`
}

// LoadFileConfig reads a YAML configuration file
func LoadFileConfig(ops *fileops.FileOps, path string) (*FileConfig, error) {
	content, err := ops.ReadFile(path)
	if err != nil {
		return nil, errors.WrapConfigurationError("config file", "read", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(content, &fc); err != nil {
		return nil, errors.WrapConfigurationError("config file", "parse "+path, err)
	}
	return &fc, nil
}

// Merge layers the command line over a configuration file. The file only fills in
// what the command line leaves unset.
func (c Config) Merge(fc *FileConfig) Config {
	if fc == nil {
		return c
	}

	merged := c
	if merged.ModuleName == "" {
		merged.ModuleName = fc.Module
	}

	options := make(map[string]string, len(fc.Options)+len(c.Options))
	for key, value := range fc.Options {
		options[key] = value
	}
	if len(fc.Excludes) > 0 {
		options[discovery.OptionExcludes] = joinPatterns(options[discovery.OptionExcludes], fc.Excludes)
	}
	if fc.Strict != nil {
		options[discovery.OptionStrictMethodVisibility] = strconv.FormatBool(*fc.Strict)
	}
	if fc.Debug != nil {
		options[discovery.OptionDebug] = strconv.FormatBool(*fc.Debug)
	}
	for key, value := range c.Options {
		options[key] = value
	}
	merged.Options = options
	return merged
}

// ProcessorOptions returns the option map handed to the processor. Flag
// shorthands win over -A entries; --exclude patterns are added to any
// configured exclusions.
func (c Config) ProcessorOptions() map[string]string {
	options := make(map[string]string, len(c.Options)+3)
	for key, value := range c.Options {
		options[key] = value
	}

	if len(c.Excludes) > 0 {
		options[discovery.OptionExcludes] = joinPatterns(options[discovery.OptionExcludes], c.Excludes)
	}
	if c.Strict {
		options[discovery.OptionStrictMethodVisibility] = "true"
	}
	if c.Debug {
		options[discovery.OptionDebug] = "true"
	}
	return options
}

// OptionKeys returns the configured option keys in order, for verbose output
func (c Config) OptionKeys() []string {
	options := c.ProcessorOptions()
	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func joinPatterns(existing string, patterns []string) string {
	var all []string
	if existing = strings.TrimSpace(existing); existing != "" {
		all = append(all, existing)
	}
	for _, pattern := range patterns {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			all = append(all, pattern)
		}
	}
	return strings.Join(all, ",")
}
