// Package bindcheck provides a go/analysis based analyzer that reports
// supplier bindings which can never be released.
package bindcheck

import (
	"errors"
	"flag"
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

// DefaultPackage is the import path whose Cell.Bind calls are checked.
const DefaultPackage = "github.com/evinism/supplier"

// Flags for the analyzer.
var (
	packagePath  string
	requireDefer bool
)

func init() {
	Analyzer.Flags.StringVar(&packagePath, "package", DefaultPackage,
		"import path of the package declaring Cell and Binding")
	Analyzer.Flags.BoolVar(&requireDefer, "require-defer", false,
		"report bindings released without defer")
}

// Analyzer is the bindcheck analyzer.
var Analyzer = &analysis.Analyzer{
	Name:     "bindcheck",
	Doc:      "checks that every binding returned by Cell.Bind is released",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
	Flags:    flag.FlagSet{},
}

var ErrNoInspector = errors.New("inspector analyzer result not found")

func run(pass *analysis.Pass) (any, error) {
	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, ErrNoInspector
	}

	skipFiles := make(map[string]bool)
	ignores := make(map[string]ignoreLines)
	for _, file := range pass.Files {
		filename := pass.Fset.Position(file.Pos()).Filename
		if ast.IsGenerated(file) {
			skipFiles[filename] = true
			continue
		}
		ignores[filename] = buildIgnoreLines(pass.Fset, file)
	}

	report := func(node ast.Node, format string, args ...any) {
		pos := pass.Fset.Position(node.Pos())
		if ignores[pos.Filename].covers(pos.Line) {
			return
		}
		pass.Reportf(node.Pos(), format, args...)
	}

	insp.WithStack([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return true
		}
		call := n.(*ast.CallExpr)
		if skipFiles[pass.Fset.Position(call.Pos()).Filename] || !isBind(pass.TypesInfo, call) {
			return true
		}

		handle, ok := bindingIdent(call, stack[len(stack)-2])
		if !ok {
			// returned, passed on or stored: ownership moves elsewhere
			return true
		}
		if handle == nil || handle.Name == "_" {
			report(call, "binding returned by Cell.Bind is discarded and can never be released")
			return true
		}

		obj := pass.TypesInfo.ObjectOf(handle)
		body := enclosingBody(stack)
		if obj == nil || body == nil {
			return true
		}

		use := findRelease(pass.TypesInfo, body, obj)
		switch {
		case use.escapes:
		case !use.released:
			report(call, "binding %q is never released", handle.Name)
		case requireDefer && !use.deferred:
			report(call, "binding %q should be released with defer", handle.Name)
		}
		return true
	})

	return nil, nil
}

// isBind reports whether call invokes Cell.Bind of the checked package.
func isBind(info *types.Info, call *ast.CallExpr) bool {
	fn, ok := typeutil.Callee(info, call).(*types.Func)
	if !ok {
		return false
	}
	fn = fn.Origin()
	if fn.Name() != "Bind" || fn.Pkg() == nil || fn.Pkg().Path() != packagePath {
		return false
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return false
	}
	recv := sig.Recv().Type()
	if ptr, ok := recv.(*types.Pointer); ok {
		recv = ptr.Elem()
	}
	named, ok := recv.(*types.Named)
	return ok && named.Obj().Name() == "Cell"
}

// bindingIdent finds the identifier the binding is assigned to. A nil
// identifier with ok set means the result is dropped; ok unset means the
// call is used in a way this analyzer does not follow.
func bindingIdent(call *ast.CallExpr, parent ast.Node) (*ast.Ident, bool) {
	switch p := parent.(type) {
	case *ast.ExprStmt:
		return nil, true
	case *ast.AssignStmt:
		if len(p.Rhs) != 1 || len(p.Lhs) != 2 || p.Rhs[0] != call {
			return nil, false
		}
		ident, ok := p.Lhs[1].(*ast.Ident)
		return ident, ok
	case *ast.ValueSpec:
		if len(p.Values) != 1 || len(p.Names) != 2 || p.Values[0] != call {
			return nil, false
		}
		return p.Names[1], true
	}
	return nil, false
}

// enclosingBody returns the body of the innermost function around the node
// on top of stack.
func enclosingBody(stack []ast.Node) *ast.BlockStmt {
	for i := len(stack) - 1; i >= 0; i-- {
		switch fn := stack[i].(type) {
		case *ast.FuncLit:
			return fn.Body
		case *ast.FuncDecl:
			return fn.Body
		}
	}
	return nil
}

type releaseUse struct {
	released bool
	deferred bool
	escapes  bool
}

// findRelease looks through body, nested closures included, for calls to
// Release on obj.
func findRelease(info *types.Info, body *ast.BlockStmt, obj types.Object) releaseUse {
	var use releaseUse

	var visit func(root ast.Node, inDefer bool)
	visit = func(root ast.Node, inDefer bool) {
		var stack []ast.Node
		ast.Inspect(root, func(n ast.Node) bool {
			if n == nil {
				stack = stack[:len(stack)-1]
				return true
			}

			if d, ok := n.(*ast.DeferStmt); ok && !inDefer {
				visit(d.Call, true)
				return false
			}

			if ident, ok := n.(*ast.Ident); ok && info.Uses[ident] == obj {
				sel, isSel := parentOf(stack).(*ast.SelectorExpr)
				switch {
				case !isSel || sel.X != ident:
					if !isAssignTarget(parentOf(stack), ident) {
						use.escapes = true
					}
				case sel.Sel.Name == "Release":
					use.released = true
					if inDefer {
						use.deferred = true
					}
				}
			}

			stack = append(stack, n)
			return true
		})
	}
	visit(body, false)

	return use
}

func parentOf(stack []ast.Node) ast.Node {
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// isAssignTarget reports whether ident is written rather than read by parent.
func isAssignTarget(parent ast.Node, ident *ast.Ident) bool {
	assign, ok := parent.(*ast.AssignStmt)
	if !ok {
		return false
	}
	for _, lhs := range assign.Lhs {
		if lhs == ident {
			return true
		}
	}
	return false
}
