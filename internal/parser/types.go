package parser

import (
	"go/ast"
	"go/types"

	"github.com/toyz/splinter/internal/models"
)

// typeRef converts a type expression as written in fc into a type reference
func typeRef(fc *fileContext, expr ast.Expr) models.TypeRef {
	switch t := expr.(type) {
	case *ast.Ident:
		if obj := types.Universe.Lookup(t.Name); obj != nil {
			if _, isType := obj.(*types.TypeName); isType {
				return models.Builtin(t.Name)
			}
		}
		ref := models.Named(fc.importPath, t.Name)
		ref.PackageName = fc.packageName
		return ref

	case *ast.SelectorExpr:
		alias, ok := t.X.(*ast.Ident)
		if !ok {
			break
		}
		path, ok := fc.imports[alias.Name]
		if !ok {
			break
		}
		return models.Named(path, t.Sel.Name)

	case *ast.StarExpr:
		return models.PointerTo(typeRef(fc, t.X))

	case *ast.ParenExpr:
		return typeRef(fc, t.X)

	case *ast.ArrayType:
		if t.Len == nil {
			return models.SliceOf(typeRef(fc, t.Elt))
		}

	case *ast.MapType:
		return models.MapOf(typeRef(fc, t.Key), typeRef(fc, t.Value))

	case *ast.IndexExpr:
		base := typeRef(fc, t.X)
		if base.Kind == models.NamedType {
			base.Args = []models.TypeRef{typeRef(fc, t.Index)}
			return base
		}

	case *ast.IndexListExpr:
		base := typeRef(fc, t.X)
		if base.Kind == models.NamedType {
			base.Args = make([]models.TypeRef, 0, len(t.Indices))
			for _, index := range t.Indices {
				base.Args = append(base.Args, typeRef(fc, index))
			}
			return base
		}
	}

	// func types, channels, interfaces literals and arrays are kept verbatim
	return models.Builtin(types.ExprString(expr))
}
