package discovery

import (
	"fmt"

	"github.com/toyz/splinter/internal/errors"
	"github.com/toyz/splinter/internal/models"
)

// Result holds everything discovered in one pass
type Result struct {
	Constructibles []*models.ConstructibleClass
	Injectables    []*models.InjectableClass
	Diagnostics    Diagnostics
}

// Failed reports whether the pass raised at least one error
func (r *Result) Failed() bool {
	return r.Diagnostics.HasErrors()
}

// Discoverer groups injected symbols into factory and member injector descriptions
type Discoverer struct {
	resolver *Resolver
	options  Options
}

// NewDiscoverer creates a discoverer with the given options
func NewDiscoverer(options Options) *Discoverer {
	return &Discoverer{
		resolver: NewResolver(),
		options:  options,
	}
}

// Discover runs one pass over the symbols of source. Invalid symbols are reported and
// left out while every other symbol is still processed. The output is ordered by class
// qualified name, then by member declaration order.
func (d *Discoverer) Discover(source models.SymbolSource) *Result {
	p := &pass{
		source:   source,
		resolver: d.resolver,
		options:  d.options,
		members:  make(map[*models.Class]*classMembers),
	}

	p.collect()
	p.markShadowing()

	result := &Result{
		Injectables:    p.injectables(),
		Constructibles: p.constructibles(),
	}
	p.checkEmbeds(result)
	result.Diagnostics = p.diagnostics
	return result
}

// classMembers accumulates the valid targets of one class during a pass
type classMembers struct {
	fields            []models.InjectionTarget
	methods           []models.MethodTarget
	constructor       *models.Constructor
	parameters        []models.InjectionTarget
	constructorFailed bool
	origins           []models.Origin
}

func (m *classMembers) injectable() bool {
	return m != nil && (len(m.fields) > 0 || len(m.methods) > 0)
}

// pass is the state of a single discovery run; it is dropped once the run returns
type pass struct {
	source      models.SymbolSource
	resolver    *Resolver
	options     Options
	members     map[*models.Class]*classMembers
	diagnostics Diagnostics
}

func (p *pass) report(ds ...Diagnostic) {
	p.diagnostics = append(p.diagnostics, ds...)
}

func (p *pass) reportErr(err error) {
	se, ok := err.(errors.SplinterError)
	if !ok {
		se = errors.Wrap(errors.UnknownErrorCode, err.Error(), err)
	}
	p.report(Diagnostic{Severity: SeverityError, Err: se})
}

func (p *pass) note(format string, args ...interface{}) {
	if p.options.Debug {
		p.report(Diagnostic{Severity: SeverityNote, Err: errors.Newf(errors.UnknownErrorCode, format, args...)})
	}
}

func (p *pass) entry(c *models.Class) *classMembers {
	m, ok := p.members[c]
	if !ok {
		m = &classMembers{}
		p.members[c] = m
	}
	return m
}

func origin(symbol models.Symbol) models.Origin {
	return models.Origin{Symbol: symbol.String(), Pos: symbol.Pos()}
}

// collect validates every injected symbol and files it under its owning class
func (p *pass) collect() {
	for _, symbol := range p.source.Marked(models.InjectAnnotation) {
		if d := checkEnclosed(symbol); d != nil {
			if !p.options.excludes(symbol.Method.Package+"."+symbol.Method.Name, symbol.Method.Package) {
				p.report(*d)
			}
			continue
		}
		if p.options.Excluded(symbol.Owner) {
			p.note("skipping %s: excluded", symbol)
			continue
		}

		switch symbol.Kind {
		case models.FieldSymbol:
			p.collectField(symbol)
		case models.MethodSymbol:
			p.collectMethod(symbol)
		case models.ConstructorSymbol:
			p.collectConstructor(symbol)
		}
	}
}

func (p *pass) collectField(symbol models.Symbol) {
	field := symbol.Field
	if d := checkNotPrivate(symbol, field.Visibility); d != nil {
		p.report(*d)
		return
	}

	target, diagnostics, err := p.resolver.Resolve(symbol.Owner.QualifiedName(), field.Name, field.Type, field.Annotations, field.Pos)
	p.report(diagnostics...)
	if err != nil {
		p.reportErr(err)
		return
	}

	m := p.entry(symbol.Owner)
	m.fields = append(m.fields, target)
	m.origins = append(m.origins, origin(symbol))
}

func (p *pass) collectMethod(symbol models.Symbol) {
	method := symbol.Method
	if d := checkNotPrivate(symbol, method.Visibility); d != nil {
		p.report(*d)
		return
	}
	if d, drop := checkMethodVisibility(symbol, p.options.StrictMethodVisibility); d != nil {
		p.report(*d)
		if drop {
			return
		}
	}

	parameters, ok := p.resolveParams(symbol.Owner, method.Name, method.Params)
	if !ok {
		return
	}

	m := p.entry(symbol.Owner)
	m.methods = append(m.methods, models.MethodTarget{
		Name:       method.Name,
		Parameters: parameters,
		Results:    method.Results,
		Throws:     method.Throws,
		Pos:        method.Pos,
	})
	m.origins = append(m.origins, origin(symbol))
}

func (p *pass) collectConstructor(symbol models.Symbol) {
	ctor := symbol.Constructor
	m := p.entry(symbol.Owner)

	if m.constructor != nil {
		p.report(structural(symbol.Owner, ctor.Name, ctor.Pos,
			"only one constructor may be annotated Inject, %s already is", m.constructor.Name))
		return
	}
	if d := checkConstructor(symbol); d != nil {
		p.report(*d)
		m.constructorFailed = true
		return
	}

	parameters, ok := p.resolveParams(symbol.Owner, ctor.Name, ctor.Params)
	if !ok {
		m.constructorFailed = true
		return
	}

	m.constructor = ctor
	m.parameters = parameters
}

func (p *pass) resolveParams(owner *models.Class, member string, params []*models.Param) ([]models.InjectionTarget, bool) {
	targets := make([]models.InjectionTarget, 0, len(params))
	ok := true
	for _, param := range params {
		target, diagnostics, err := p.resolver.Resolve(owner.QualifiedName(), member+"("+param.Name+")", param.Type, param.Annotations, param.Pos)
		p.report(diagnostics...)
		if err != nil {
			p.reportErr(err)
			ok = false
			continue
		}
		target.OwnerName = param.Name
		targets = append(targets, target)
	}
	return targets, ok
}

// markShadowing flags injected methods that shadow an injected method of an ancestor.
// Both methods are called: the ancestor's through its member injector, then the
// descendant's own. Each shadowing method gets a warning.
func (p *pass) markShadowing() {
	for _, class := range p.source.Classes() {
		m := p.members[class]
		if m == nil || len(m.methods) == 0 {
			continue
		}
		ancestors := models.Ancestors(p.source, class)
		for i := range m.methods {
			method := &m.methods[i]
			for _, ancestor := range ancestors {
				if !injectsMethod(p.members[ancestor], method.Name) {
					continue
				}
				method.Shadows = true
				d := structural(class, method.Name, method.Pos,
					"shadows injected method %s.%s; both are called, %s first",
					ancestor.QualifiedName(), method.Name, ancestor.Name)
				d.Severity = SeverityWarning
				p.report(d)
				break
			}
		}
	}
}

func injectsMethod(m *classMembers, name string) bool {
	if m == nil {
		return false
	}
	for _, method := range m.methods {
		if method.Name == name {
			return true
		}
	}
	return false
}

// superclassOf finds the nearest ancestor of c that gets a member injector in this pass,
// together with the embedded fields leading to it
func (p *pass) superclassOf(c *models.Class) *models.SuperclassRef {
	var path []models.EmbedStep
	seen := map[*models.Class]bool{c: true}

	for current := c; current.Super != nil; {
		path = append(path, models.EmbedStep{Field: current.Super.Field, Pointer: current.Super.Pointer})

		ancestor, ok := p.source.Supertype(current)
		if !ok || seen[ancestor] {
			return nil
		}
		seen[ancestor] = true

		if p.members[ancestor].injectable() {
			return &models.SuperclassRef{
				Owner: ancestor.Ref(),
				Type:  ancestor.Type(),
				Path:  append([]models.EmbedStep(nil), path...),
			}
		}
		current = ancestor
	}
	return nil
}

// checkEmbeds warns about classes with generated code that embed a struct with injected
// members besides their ancestor. Only the ancestor's member injector is called.
func (p *pass) checkEmbeds(result *Result) {
	generated := make(map[string]bool)
	for _, cc := range result.Constructibles {
		generated[cc.Owner.QualifiedName()] = true
	}
	for _, ic := range result.Injectables {
		generated[ic.Owner.QualifiedName()] = true
	}

	for _, c := range p.source.Classes() {
		if c.Super == nil || !generated[c.QualifiedName()] {
			continue
		}
		for _, embed := range c.Embeds {
			if embed.Field == c.Super.Field {
				continue
			}
			embedded, ok := p.source.Class(embed.Type.QualifiedName())
			if !ok || !p.leadsToInjector(embedded) {
				continue
			}
			d := structural(c, embed.Field, c.Pos,
				"embedded %s has injected members that are not injected; only the ancestor %s is, inject %s explicitly",
				embed.Type.QualifiedName(), c.Super.Field, embed.Field)
			d.Severity = SeverityWarning
			p.report(d)
		}
	}
}

// leadsToInjector reports whether c or one of its ancestors gets a member injector
func (p *pass) leadsToInjector(c *models.Class) bool {
	if p.members[c].injectable() {
		return true
	}
	for _, ancestor := range models.Ancestors(p.source, c) {
		if p.members[ancestor].injectable() {
			return true
		}
	}
	return false
}

func (p *pass) injectables() []*models.InjectableClass {
	var result []*models.InjectableClass
	for _, c := range p.source.Classes() {
		m := p.members[c]
		if !m.injectable() {
			continue
		}

		injectable := &models.InjectableClass{
			Owner:   c.Ref(),
			Type:    c.Type(),
			Fields:  m.fields,
			Methods: m.methods,
			Super:   p.superclassOf(c),
			Origins: m.origins,
		}
		result = append(result, injectable)
		p.note("discovered %s", c.Ref().MemberInjectorName())
	}
	return result
}

// constructibles builds a factory description for every class with a valid injected
// constructor. Classes without one still get a zero-value factory when they have
// injected members or class level annotations.
func (p *pass) constructibles() []*models.ConstructibleClass {
	var result []*models.ConstructibleClass
	for _, c := range p.source.Classes() {
		if p.options.Excluded(c) {
			continue
		}
		m := p.members[c]
		if m != nil && m.constructorFailed {
			continue
		}

		flags, diagnostics := readClassFlags(c)
		hasConstructor := m != nil && m.constructor != nil
		if !hasConstructor && !flags.annotated() && !m.injectable() {
			continue
		}
		if len(diagnostics) > 0 {
			p.report(diagnostics...)
			continue
		}

		constructible := &models.ConstructibleClass{
			Owner:                c.Ref(),
			Type:                 c.Type(),
			ScopeAnnotation:      flags.scope,
			IsSingleton:          flags.singleton,
			IsReleasable:         flags.releasable,
			ProvidesSingleton:    flags.providesSingleton,
			ProvidesReleasable:   flags.providesReleasable,
			Super:                p.superclassOf(c),
			HasOwnMemberInjector: m.injectable(),
			ReturnsPointer:       true,
		}

		if hasConstructor {
			constructible.Constructor = m.constructor.Name
			constructible.ReturnsPointer = m.constructor.ReturnsPointer
			constructible.Throws = len(m.constructor.Throws) > 0
			constructible.Parameters = m.parameters
			constructible.Origins = []models.Origin{{
				Symbol: fmt.Sprintf("%s.%s", c.QualifiedName(), m.constructor.Name),
				Pos:    m.constructor.Pos,
			}}
		} else {
			constructible.Origins = []models.Origin{{Symbol: c.QualifiedName(), Pos: c.Pos}}
		}

		result = append(result, constructible)
		p.note("discovered %s", c.Ref().FactoryName())
	}
	return result
}
