package cli

import (
	stderrors "errors"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/toyz/splinter/internal/utils"
	"github.com/toyz/splinter/internal/utils/fileops"
)

// Version is stamped at build time
var Version = "dev"

// CLI is the root command configuration with subcommands
type CLI struct {
	Verbose bool `kong:"help='Enable verbose output and detailed error reporting',xor='verbosity'"`
	Quiet   bool `kong:"short='q',help='Only show errors',xor='verbosity'"`

	Generate GenerateCmd      `kong:"cmd,default='withargs',help='Generate factories and member injectors (default)'"`
	Clean    CleanCmd         `kong:"cmd,help='Delete generated files'"`
	Version  kong.VersionFlag `kong:"help='Show version and exit.'"`
}

// GenerateCmd is the default command
type GenerateCmd struct {
	Strict      bool              `kong:"help='Report exported injected methods as errors'"`
	Exclude     []string          `kong:"placeholder='PATTERN',help='Skip classes or packages matching the glob'"`
	Option      map[string]string `kong:"short='A',placeholder='KEY=VALUE',help='Processor option'"`
	Config      string            `kong:"type='existingfile',help='YAML configuration file'"`
	Module      string            `kong:"help='Module path for imports (defaults to the go.mod module)'"`
	Debug       bool              `kong:"help='Report a note for every discovered artifact'"`
	DryRun      bool              `kong:"name='dry-run',help='Show what would be written'"`
	Directories []string          `kong:"arg,optional,default='./...',help='Directories to scan, dir/... recurses'"`
}

// Run executes the generate command
func (c *GenerateCmd) Run(root *CLI, diagnostics *utils.DiagnosticSystem) error {
	diagnostics.Header("generating factories and member injectors")

	generator := NewGenerator(diagnostics)
	err := generator.Run(Config{
		Directories: c.Directories,
		ModuleName:  c.Module,
		Options:     c.Option,
		ConfigFile:  c.Config,
		Strict:      c.Strict,
		Excludes:    c.Exclude,
		Debug:       c.Debug,
		DryRun:      c.DryRun,
		Verbose:     root.Verbose,
	})
	if err != nil && !stderrors.Is(err, ErrGenerationFailed) {
		return err
	}

	summary := generator.GetSummary()
	diagnostics.Summary("Summary", map[string]interface{}{
		"Packages processed": summary.PackagesProcessed,
		"Classes found":      summary.ClassesFound,
		"Factories":          summary.Factories,
		"Member injectors":   summary.MemberInjectors,
		"Errors":             summary.Errors,
		"Warnings":           summary.Warnings,
	})
	diagnostics.Verbose("Finished in %s", summary.Duration)

	if err != nil {
		return err
	}
	diagnostics.GenerationComplete()
	return nil
}

// CleanCmd removes generated files
type CleanCmd struct {
	DryRun      bool     `kong:"name='dry-run',help='Show what would be removed'"`
	Directories []string `kong:"arg,optional,default='./...',help='Directories to clean, dir/... recurses'"`
}

// Run executes the clean command
func (c *CleanCmd) Run(diagnostics *utils.DiagnosticSystem) error {
	diagnostics.Header("removing generated files")

	ops := fileops.NewFileOps()
	if c.DryRun {
		ops = fileops.NewDryRunFileOps()
	}

	removed, err := NewCleaner(ops).CleanGeneratedFiles(c.Directories)
	for _, path := range removed {
		diagnostics.PhaseItem(path)
	}
	if err != nil {
		return err
	}

	if c.DryRun {
		diagnostics.Success("Would remove %d generated files", len(removed))
	} else {
		diagnostics.Success("Removed %d generated files", len(removed))
	}
	return nil
}

// Execute parses args and runs the selected command
func Execute(args []string, stdout, stderr io.Writer) error {
	var root CLI
	parser, err := kong.New(&root,
		kong.Name("splinter"),
		kong.Description("A compile-time dependency injection generator for Go"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": Version,
		},
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	return kongCtx.Run(&root, root.diagnostics(stdout, stderr))
}

func (c *CLI) diagnostics(stdout, stderr io.Writer) *utils.DiagnosticSystem {
	var diagnostics *utils.DiagnosticSystem
	switch {
	case c.Quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case c.Verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	if stdout != os.Stdout || stderr != os.Stderr {
		diagnostics.SetOutput(stdout, stderr)
	}
	return diagnostics
}
