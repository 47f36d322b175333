// Command kernelcheck runs the conformance analyzers.
//
// Usage:
//
//	kernelcheck ./...
//	kernelcheck -layering.rules='domain=application,net/http' ./...
//	go vet -vettool=$(which kernelcheck) ./...
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/AntonStoeckl/ddd-kernel-go/conformance"
)

func main() {
	multichecker.Main(
		conformance.LayeringAnalyzer,
		conformance.EventShapeAnalyzer,
		conformance.HandlerNamingAnalyzer,
	)
}
