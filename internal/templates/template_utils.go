package templates

import (
	"fmt"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"github.com/toyz/splinter/internal/models"
)

// TemplateUtils renders the Go expressions generated code is made of. Every type it
// renders registers its package with the file's import manager.
type TemplateUtils struct {
	imports    *ImportManager
	runtime    string
	referenced map[string]bool // unqualified identifiers of the file's own package
}

// NewTemplateUtils creates utilities rendering into a file managed by imports
func NewTemplateUtils(imports *ImportManager) *TemplateUtils {
	return &TemplateUtils{
		imports:    imports,
		runtime:    imports.AddNamedImport(models.RuntimePackage, "splinter"),
		referenced: make(map[string]bool),
	}
}

// Reserved returns every file level name rendered so far: import names and the
// identifiers of the own package. Local variables must not shadow them.
func (tu *TemplateUtils) Reserved() []string {
	reserved := tu.imports.Aliases()
	for name := range tu.referenced {
		reserved = append(reserved, name)
	}
	return reserved
}

// Local records a reference to an identifier of the file's own package
func (tu *TemplateUtils) Local(name string) string {
	tu.referenced[name] = true
	return name
}

// Runtime returns the name the runtime package is referenced by
func (tu *TemplateUtils) Runtime() string {
	return tu.runtime
}

// RuntimeRef returns a reference to a runtime package member
func (tu *TemplateUtils) RuntimeRef(name string) string {
	return tu.runtime + "." + name
}

// TypeExpr renders t as a Go type expression
func (tu *TemplateUtils) TypeExpr(t models.TypeRef) string {
	var b strings.Builder
	tu.writeType(&b, t)
	return b.String()
}

func (tu *TemplateUtils) writeType(b *strings.Builder, t models.TypeRef) {
	switch t.Kind {
	case models.PointerType:
		b.WriteString("*")
		tu.writeElem(b, t.Elem)
	case models.SliceType:
		b.WriteString("[]")
		tu.writeElem(b, t.Elem)
	case models.MapType:
		b.WriteString("map[")
		tu.writeElem(b, t.Key)
		b.WriteString("]")
		tu.writeElem(b, t.Elem)
	default:
		switch qualifier := tu.imports.AddNamedImport(t.Package, t.PackageName); {
		case qualifier != "":
			b.WriteString(qualifier)
			b.WriteString(".")
		case t.Package != "":
			tu.referenced[t.Name] = true
		}
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteString("[")
			for i, arg := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				tu.writeType(b, arg)
			}
			b.WriteString("]")
		}
	}
}

func (tu *TemplateUtils) writeElem(b *strings.Builder, t *models.TypeRef) {
	if t == nil {
		b.WriteString("any")
		return
	}
	tu.writeType(b, *t)
}

// ClassExpr renders a reference to a generated artifact of a class, qualified when the
// class lives in another package
func (tu *TemplateUtils) ClassExpr(ref models.ClassRef, artifact string) string {
	name := models.GoIdent(artifact)
	if qualifier := tu.imports.AddNamedImport(ref.Package, ref.PackageName); qualifier != "" {
		return qualifier + "." + name
	}
	return tu.Local(name)
}

// Resolve renders the scope lookup that produces the value of an injection target
func (tu *TemplateUtils) Resolve(target models.InjectionTarget, scope string) string {
	getter := "GetInstance"
	switch target.Kind {
	case models.KindProvider:
		getter = "GetProvider"
	case models.KindLazy:
		getter = "GetLazy"
	}
	return fmt.Sprintf("%s[%s](%s, %s)", tu.RuntimeRef(getter), tu.TypeExpr(target.PayloadType), scope, strconv.Quote(target.Qualifier))
}

// SuperInjection renders the call of the ancestor's member injector on the embedded
// ancestor of root. Embedded pointers on the way are checked for nil first.
func (tu *TemplateUtils) SuperInjection(root string, super *models.SuperclassRef, scope string) string {
	if super == nil || len(super.Path) == 0 {
		return ""
	}

	expr := root
	var guards []string
	for _, step := range super.Path {
		expr += "." + step.Field
		if step.Pointer {
			guards = append(guards, expr+" != nil")
		}
	}
	if !super.Path[len(super.Path)-1].Pointer {
		expr = "&" + expr
	}

	call := fmt.Sprintf("%s{}.Inject(%s, %s)", tu.ClassExpr(super.Owner, super.Owner.MemberInjectorName()), expr, scope)
	if len(guards) == 0 {
		return call
	}
	return fmt.Sprintf("if %s {\n\t%s\n}", strings.Join(guards, " && "), call)
}

// FailureMessage renders the quoted message of an InjectionFailure raised by artifact
func FailureMessage(artifact, member string) string {
	return strconv.Quote(fmt.Sprintf("%s: %s failed", artifact, member))
}

// NameAllocator hands out local variable names that are unique within one function
type NameAllocator struct {
	used map[string]bool
}

// NewNameAllocator creates an allocator that never returns any of the reserved names
func NewNameAllocator(reserved ...string) *NameAllocator {
	used := make(map[string]bool, len(reserved))
	for _, name := range reserved {
		used[name] = true
	}
	return &NameAllocator{used: used}
}

// Allocate returns base, or base with the smallest numeric suffix that is still free.
// Blank and keyword names fall back to "arg"; predeclared identifiers are never shadowed.
func (na *NameAllocator) Allocate(base string) string {
	if base == "" || base == "_" || token.IsKeyword(base) || !token.IsIdentifier(base) {
		base = "arg"
	}
	name := base
	for i := 2; na.taken(name); i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	na.used[name] = true
	return name
}

func (na *NameAllocator) taken(name string) bool {
	return na.used[name] || types.Universe.Lookup(name) != nil
}
