package processor

import (
	"github.com/toyz/splinter/internal/discovery"
	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/generator"
	"github.com/toyz/splinter/internal/models"
)

// Reporter receives the diagnostics of a round
type Reporter interface {
	Report(d discovery.Diagnostic)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(d discovery.Diagnostic)

// Report implements Reporter
func (f ReporterFunc) Report(d discovery.Diagnostic) {
	f(d)
}

// Result summarizes one round
type Result struct {
	Written     []string // qualified artifact names written this round
	Skipped     []string // artifacts already generated in an earlier round
	Diagnostics discovery.Diagnostics
}

// Failed reports whether the round raised at least one error. Artifacts of valid
// symbols are written even when it did.
func (r *Result) Failed() bool {
	return r.Diagnostics.HasErrors()
}

// Processor drives discovery and emission. It may be invoked once per round; only its
// ledger survives between rounds.
type Processor struct {
	discoverer *discovery.Discoverer
	generator  generator.CodeGenerator
	writer     CodeWriter
	reporter   Reporter
	ledger     *Ledger
}

// NewProcessor creates a processor writing through writer and reporting to reporter.
// A nil reporter drops diagnostics; they are still returned in the Result.
func NewProcessor(options discovery.Options, writer CodeWriter, reporter Reporter) *Processor {
	if reporter == nil {
		reporter = ReporterFunc(func(discovery.Diagnostic) {})
	}
	return &Processor{
		discoverer: discovery.NewDiscoverer(options),
		generator:  generator.NewGenerator(),
		writer:     writer,
		reporter:   reporter,
		ledger:     NewLedger(),
	}
}

// NewProcessorWithGenerator creates a processor with a custom code generator
func NewProcessorWithGenerator(options discovery.Options, gen generator.CodeGenerator, writer CodeWriter, reporter Reporter) *Processor {
	p := NewProcessor(options, writer, reporter)
	p.generator = gen
	return p
}

// Ledger returns the cross-round artifact ledger
func (p *Processor) Ledger() *Ledger {
	return p.ledger
}

// Process runs one round over source
func (p *Processor) Process(source models.SymbolSource) *Result {
	discovered := p.discoverer.Discover(source)
	r := &round{processor: p, result: &Result{}}

	for _, d := range discovered.Diagnostics {
		r.report(d)
	}
	for _, cc := range discovered.Constructibles {
		r.emit(cc.Owner.Package, cc.Owner.FactoryName(), func() (*generator.Artifact, error) {
			return p.generator.GenerateFactory(cc)
		})
	}
	for _, ic := range discovered.Injectables {
		r.emit(ic.Owner.Package, ic.Owner.MemberInjectorName(), func() (*generator.Artifact, error) {
			return p.generator.GenerateMemberInjector(ic)
		})
	}

	return r.result
}

type round struct {
	processor *Processor
	result    *Result
}

func (r *round) report(d discovery.Diagnostic) {
	r.result.Diagnostics = append(r.result.Diagnostics, d)
	r.processor.reporter.Report(d)
}

func (r *round) fail(err error) {
	se, ok := err.(errors.SplinterError)
	if !ok {
		se = errors.Wrap(errors.UnknownErrorCode, err.Error(), err)
	}
	r.report(discovery.Diagnostic{Severity: discovery.SeverityError, Err: se})
}

func (r *round) emit(pkg, name string, generate func() (*generator.Artifact, error)) {
	qualified := pkg + "." + name
	if r.processor.ledger.Has(qualified) {
		r.result.Skipped = append(r.result.Skipped, qualified)
		return
	}

	artifact, err := generate()
	if err != nil {
		r.fail(err)
		return
	}

	target := Package{Path: artifact.Package, Name: artifact.PackageName, Dir: artifact.Dir}
	if err := r.processor.writer.Write(target, artifact.Name, artifact.Body, artifact.Description, artifact.Origins); err != nil {
		r.fail(errors.WrapGenerateError(qualified, "write", err))
		return
	}

	r.processor.ledger.Record(qualified, artifact.Origins)
	r.result.Written = append(r.result.Written, qualified)
}
