package conformance

import (
	"go/types"

	"golang.org/x/tools/go/analysis"
)

const (
	methodEventType     = "EventType"
	methodOccurredOnUTC = "OccurredOnUTC"
)

// EventShapeAnalyzer checks types that satisfy the domain event contract,
// i.e. EventType() string and OccurredOnUTC() time.Time, via value or pointer.
// Such types must be structs, satisfy the contract as values, and declare no pointer-receiver methods.
var EventShapeAnalyzer = &analysis.Analyzer{
	Name: "eventshape",
	Doc:  "check that domain events are immutable struct values",
	Run:  runEventShape,
}

func runEventShape(pass *analysis.Pass) (any, error) {
	scope := pass.Pkg.Scope()

	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() {
			continue
		}

		named, ok := obj.Type().(*types.Named)
		if !ok || types.IsInterface(named) {
			continue
		}

		if !hasEventContract(types.NewMethodSet(types.NewPointer(named))) {
			continue
		}

		if _, isStruct := named.Underlying().(*types.Struct); !isStruct {
			pass.Reportf(obj.Pos(), "domain event %s must be a struct", obj.Name())
		}

		if !hasEventContract(types.NewMethodSet(named)) {
			pass.Reportf(obj.Pos(), "domain event %s must implement %s and %s with value receivers",
				obj.Name(), methodEventType, methodOccurredOnUTC)
		}

		for i := 0; i < named.NumMethods(); i++ {
			method := named.Method(i)

			if _, isPointer := method.Type().(*types.Signature).Recv().Type().(*types.Pointer); isPointer {
				pass.Reportf(method.Pos(), "domain event %s must not declare pointer-receiver method %s",
					obj.Name(), method.Name())
			}
		}
	}

	return nil, nil
}

func hasEventContract(methods *types.MethodSet) bool {
	return returnsOnly(methods, methodEventType, isString) && returnsOnly(methods, methodOccurredOnUTC, isTimeTime)
}

// returnsOnly reports whether the set has a method without parameters and one result matching want.
func returnsOnly(methods *types.MethodSet, name string, want func(types.Type) bool) bool {
	for i := 0; i < methods.Len(); i++ {
		fn, ok := methods.At(i).Obj().(*types.Func)
		if !ok || fn.Name() != name {
			continue
		}

		sig := fn.Type().(*types.Signature)

		return sig.Params().Len() == 0 && sig.Results().Len() == 1 && want(sig.Results().At(0).Type())
	}

	return false
}

func isString(t types.Type) bool {
	basic, ok := t.Underlying().(*types.Basic)

	return ok && basic.Kind() == types.String
}

func isTimeTime(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()

	return obj.Pkg() != nil && obj.Pkg().Path() == "time" && obj.Name() == "Time"
}
