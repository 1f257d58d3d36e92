// Package noexit implements an analyzer forbidding process exits in main.main.
package noexit

import (
	"go/ast"
	"go/types"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports os.Exit and log.Fatal* calls made directly in the body
// of main.main, where they would skip deferred calls.
var Analyzer = &analysis.Analyzer{
	Name:     "noexit",
	Doc:      "forbid os.Exit and log.Fatal in main.main",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var forbidden = map[string]map[string]bool{
	"os":  {"Exit": true},
	"log": {"Fatal": true, "Fatalf": true, "Fatalln": true},
}

func run(pass *analysis.Pass) (any, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}
	skip := map[*ast.File]bool{}
	for _, f := range pass.Files {
		name := pass.Fset.Position(f.Pos()).Filename
		if strings.Contains(name, "/go-build/") || ast.IsGenerated(f) || importsTesting(f) {
			skip[f] = true
		}
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.WithStack([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push || skip[stack[0].(*ast.File)] || !inMainFunc(stack) {
			return true
		}
		call := n.(*ast.CallExpr)
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
		if !ok || fn.Pkg() == nil {
			return true
		}
		if forbidden[fn.Pkg().Path()][fn.Name()] {
			pass.Reportf(call.Pos(), "do not call %s.%s in main.main; return from main instead", fn.Pkg().Name(), fn.Name())
		}
		return true
	})
	return nil, nil
}

// inMainFunc reports whether the innermost function around the node is
// main.main itself. Calls inside closures are not flagged.
func inMainFunc(stack []ast.Node) bool {
	for i := len(stack) - 1; i >= 0; i-- {
		switch fn := stack[i].(type) {
		case *ast.FuncLit:
			return false
		case *ast.FuncDecl:
			return fn.Recv == nil && fn.Name.Name == "main"
		}
	}
	return false
}

func importsTesting(f *ast.File) bool {
	for _, im := range f.Imports {
		if p, _ := strconv.Unquote(im.Path.Value); p == "testing" || p == "testing/internal/testdeps" {
			return true
		}
	}
	return false
}
