// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"errors"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

var errPackageErrors = errors.New("packages contain errors")

// key identifies a gettext entry by its msgid and, for plural entries, msgid_plural.
type key struct {
	id     string
	plural string
}

type ref struct {
	file string
	line int
}

// extractor holds the state shared while walking one package.
type extractor struct {
	refs        map[key][]ref
	projectRoot string
	fset        *token.FileSet
	info        *types.Info
	i18nPkgs    map[string]struct{}
}

// extractRefs walks every file of pkgs and records calls to the i18n
// translation functions and conversions to i18n.MsgKey.
func extractRefs(pkgs []*packages.Package, projectRoot string, i18nPkgPaths map[string]struct{}) map[key][]ref {
	refs := map[key][]ref{}

	for _, p := range pkgs {
		if p.TypesInfo == nil {
			continue
		}

		e := &extractor{
			refs:        refs,
			projectRoot: projectRoot,
			fset:        p.Fset,
			info:        p.TypesInfo,
			i18nPkgs:    i18nPkgPaths,
		}

		for _, f := range p.Syntax {
			ast.Inspect(f, func(n ast.Node) bool {
				if call, ok := n.(*ast.CallExpr); ok {
					e.handleCallExpr(call)
				}

				return true
			})
		}
	}

	return refs
}

// findI18nPkgPaths returns the paths of loaded packages named i18n that
// define a string-based MsgKey type, however they are imported.
func findI18nPkgPaths(pkgs []*packages.Package) map[string]struct{} {
	out := make(map[string]struct{})

	packages.Visit(pkgs, nil, func(p *packages.Package) {
		if p.Name != "i18n" || p.Types == nil {
			return
		}

		tn, ok := p.Types.Scope().Lookup("MsgKey").(*types.TypeName)
		if !ok {
			return
		}

		if basic, ok := tn.Type().Underlying().(*types.Basic); ok && basic.Kind() == types.String {
			out[p.PkgPath] = struct{}{}
		}
	})

	return out
}

// constString evaluates expr to a constant string, covering literals,
// named constants and constant expressions like "a" + "b".
func constString(info *types.Info, expr ast.Expr) (string, bool) {
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

func (e *extractor) isMsgKey(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil || obj.Name() != "MsgKey" {
		return false
	}

	_, ok = e.i18nPkgs[obj.Pkg().Path()]

	return ok
}

func (e *extractor) handleCallExpr(x *ast.CallExpr) {
	// i18n.MsgKey("Authors")
	if tv, ok := e.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 && e.isMsgKey(tv.Type) {
			e.addConst(x.Args[0], "")
		}

		return
	}

	if sel, ok := x.Fun.(*ast.SelectorExpr); ok {
		if fn, ok := e.info.Uses[sel.Sel].(*types.Func); ok && fn.Pkg() != nil {
			if _, ok := e.i18nPkgs[fn.Pkg().Path()]; ok {
				switch fn.Name() {
				case "Tr": // Tr(ctx, "msg", ...)
					if len(x.Args) >= 2 {
						e.addConst(x.Args[1], "")
					}

					return
				case "TrN": // TrN(ctx, "singular", "plural", n, ...)
					if len(x.Args) >= 4 {
						if plural, ok := constString(e.info, x.Args[2]); ok {
							e.addConst(x.Args[1], plural)
						}
					}

					return
				}
			}
		}
	}

	// Untyped constants passed to MsgKey parameters, as in definition(h, "Authors", ...).
	sig, ok := e.info.TypeOf(x.Fun).(*types.Signature)
	if !ok {
		return
	}

	params := sig.Params()
	last := params.Len() - 1

	for i, arg := range x.Args {
		var pt types.Type

		switch {
		case sig.Variadic() && i >= last:
			if x.Ellipsis != token.NoPos {
				continue
			}

			pt = params.At(last).Type().(*types.Slice).Elem()
		case i <= last:
			pt = params.At(i).Type()
		default:
			return
		}

		if e.isMsgKey(pt) {
			e.addConst(arg, "")
		}
	}
}

func (e *extractor) addConst(expr ast.Expr, plural string) {
	msg, ok := constString(e.info, expr)
	if !ok {
		return
	}

	p := e.fset.Position(expr.Pos())

	file := p.Filename
	if rel, err := filepath.Rel(e.projectRoot, file); err == nil {
		file = rel
	}

	k := key{id: msg, plural: plural}
	e.refs[k] = append(e.refs[k], ref{file: filepath.ToSlash(file), line: p.Line})
}
