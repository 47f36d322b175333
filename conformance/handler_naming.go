package conformance

import (
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

const (
	suffixHandler        = "Handler"
	suffixCommandHandler = "CommandHandler"
	suffixQueryHandler   = "QueryHandler"
)

// HandlerNamingAnalyzer checks that exported types with a Handle(context.Context, ...) method end in Handler.
// Inside a package path with a commands or queries segment the suffix must be CommandHandler or QueryHandler.
// Function types may add a Func suffix, e.g. HandlerFunc.
var HandlerNamingAnalyzer = &analysis.Analyzer{
	Name: "handlernaming",
	Doc:  "check that handler types are named after what they handle",
	Run:  runHandlerNaming,
}

func runHandlerNaming(pass *analysis.Pass) (any, error) {
	suffix := expectedHandlerSuffix(pass.Pkg.Path())
	scope := pass.Pkg.Scope()

	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() || !obj.Exported() {
			continue
		}

		named, ok := obj.Type().(*types.Named)
		if !ok || types.IsInterface(named) || !hasContextualHandle(named) {
			continue
		}

		typeName := obj.Name()
		if _, isFunc := named.Underlying().(*types.Signature); isFunc {
			typeName = strings.TrimSuffix(typeName, "Func")
		}

		if !strings.HasSuffix(typeName, suffix) {
			pass.Reportf(obj.Pos(), "type %s has a Handle method and must be named *%s", obj.Name(), suffix)
		}
	}

	return nil, nil
}

func expectedHandlerSuffix(pkgPath string) string {
	for _, segment := range strings.Split(pkgPath, "/") {
		switch segment {
		case "commands":
			return suffixCommandHandler
		case "queries":
			return suffixQueryHandler
		}
	}

	return suffixHandler
}

func hasContextualHandle(named *types.Named) bool {
	methods := types.NewMethodSet(types.NewPointer(named))

	for i := 0; i < methods.Len(); i++ {
		fn, ok := methods.At(i).Obj().(*types.Func)
		if !ok || fn.Name() != "Handle" {
			continue
		}

		params := fn.Type().(*types.Signature).Params()

		return params.Len() >= 2 && isContext(params.At(0).Type())
	}

	return false
}

func isContext(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()

	return obj.Pkg() != nil && obj.Pkg().Path() == "context" && obj.Name() == "Context"
}
