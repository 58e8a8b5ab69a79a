package cli

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/toyz/splinter/internal/discovery"
	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/models"
	"github.com/toyz/splinter/internal/parser"
	"github.com/toyz/splinter/internal/processor"
	"github.com/toyz/splinter/internal/utils"
	"github.com/toyz/splinter/internal/utils/fileops"
)

// ErrGenerationFailed is returned when a pass reported at least one error. Every
// artifact that could be generated has still been written.
var ErrGenerationFailed = stderrors.New("generation failed")

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	ClassesFound      int
	Factories         int
	MemberInjectors   int
	GeneratedFiles    []string
	Errors            int
	Warnings          int
	Duration          time.Duration
}

// Generator coordinates the CLI generation process
type Generator struct {
	scanner     *DirectoryScanner
	parser      parser.SourceParser
	diagnostics *utils.DiagnosticSystem
	summary     GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	return &Generator{
		scanner:     NewDirectoryScanner(),
		parser:      parser.NewParser(),
		diagnostics: diagnostics,
	}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run executes the complete generation process
func (g *Generator) Run(config Config) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}
	g.parser.Reset()

	ops := fileops.NewFileOps()
	if config.DryRun {
		ops = fileops.NewDryRunFileOps()
	}

	if config.ConfigFile != "" {
		fc, err := LoadFileConfig(ops, config.ConfigFile)
		if err != nil {
			return err
		}
		config = config.Merge(fc)
		g.diagnostics.Verbose("Loaded configuration from %s", config.ConfigFile)
	}

	raw := config.ProcessorOptions()
	options, err := discovery.ParseOptions(raw)
	if err != nil {
		return err
	}
	for _, key := range config.OptionKeys() {
		g.diagnostics.Verbose("Option %s=%s", key, raw[key])
	}

	g.diagnostics.PhaseHeader("Scanning")
	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return errors.Wrap(errors.FileSystemErrorCode, "failed to scan directories", err).
			WithSuggestions(
				"Check that the specified directories exist",
				"Ensure you have read permissions for the directories",
			)
	}
	if len(packageDirs) == 0 {
		return errors.New(errors.ValidationErrorCode, "no Go packages found in specified directories").
			WithContext("directories", config.Directories).
			WithSuggestion("Try scanning parent directories or use the './...' pattern")
	}
	g.diagnostics.PhaseItem(fmt.Sprintf("Found %d packages", len(packageDirs)))

	reporter := NewDiagnosticReporter(g.diagnostics, config.Verbose)
	resolver := NewModuleResolver(config.ModuleName)

	g.diagnostics.PhaseHeader("Parsing")
	for _, dir := range packageDirs {
		importPath, err := resolver.ImportPath(dir)
		if err != nil {
			reporter.ReportError(errors.Wrap(errors.ConfigurationErrorCode, "cannot resolve import path of "+dir, err).
				WithSuggestion("Try specifying --module explicitly"))
			continue
		}

		g.diagnostics.Verbose("Parsing %s (%s)", dir, importPath)
		if err := g.parser.ParseDirectory(dir, importPath); err != nil {
			reporter.ReportError(err)
			continue
		}
		g.summary.PackagesProcessed++
	}

	graph, err := g.parser.Graph()
	if err != nil {
		reporter.ReportError(err)
	}
	g.summary.ClassesFound = len(graph.Classes())
	g.diagnostics.PhaseItem(fmt.Sprintf("Parsed %d packages, %d classes", g.summary.PackagesProcessed, g.summary.ClassesFound))
	stats := g.parser.CacheStats()
	g.diagnostics.Verbose("Syntax tree cache: %d entries, %d hits, %d misses", stats.Size, stats.Hits, stats.Misses)

	g.diagnostics.PhaseHeader("Generating")
	writer := processor.NewFileWriter(ops)
	proc := processor.NewProcessor(options, writer, reporter)
	result := proc.Process(graph)

	for _, artifact := range proc.Ledger().Artifacts() {
		if strings.HasSuffix(artifact, models.FactorySuffix) {
			g.summary.Factories++
		} else {
			g.summary.MemberInjectors++
		}
	}
	g.summary.GeneratedFiles = writer.Written()
	for _, path := range g.summary.GeneratedFiles {
		if config.DryRun {
			g.diagnostics.PhaseItem("would write " + path)
		} else {
			g.diagnostics.PhaseItem(path)
		}
	}

	g.summary.Errors = reporter.Errors()
	g.summary.Warnings = reporter.Warnings()
	g.summary.Duration = time.Since(startTime)

	if result.Failed() || reporter.Errors() > 0 {
		return fmt.Errorf("%w: %d errors", ErrGenerationFailed, reporter.Errors())
	}
	return nil
}
