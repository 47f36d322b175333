// Package conformance provides go/analysis analyzers that check architectural conventions at lint time:
//
//   - LayeringAnalyzer: dependencies flow inward (presentation -> infrastructure -> application -> domain)
//   - EventShapeAnalyzer: domain events are immutable struct values
//   - HandlerNamingAnalyzer: types with a Handle(ctx, ...) method are named *Handler
//
// cmd/kernelcheck bundles them into a single vet-style binary.
package conformance
