package conformance

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// DefaultLayerRules forbids outward dependencies and keeps storage and HTTP out of the domain.
const DefaultLayerRules = "domain=application,infrastructure,presentation,database/sql,net/http;" +
	"application=infrastructure,presentation;" +
	"infrastructure=presentation"

// ErrInvalidLayerRule is returned for a rule that is not of the form layer=forbidden,...
var ErrInvalidLayerRule = errors.New("invalid layer rule")

// LayerRule lists what packages of one layer must not import.
// A forbidden entry containing a slash is an import path prefix, anything else is a layer name.
type LayerRule struct {
	Layer     string
	Forbidden []string
}

type LayerRules []LayerRule

// ParseLayerRules parses "layer=a,b;other=c". Empty segments are ignored.
func ParseLayerRules(s string) (LayerRules, error) {
	rules := LayerRules{}

	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		layer, forbidden, found := strings.Cut(part, "=")
		layer = strings.TrimSpace(layer)

		if !found || layer == "" || strings.Contains(layer, "/") {
			return nil, errors.Join(ErrInvalidLayerRule, fmt.Errorf("rule %q", part))
		}

		rule := LayerRule{Layer: layer}
		for _, entry := range strings.Split(forbidden, ",") {
			if entry = strings.TrimSpace(entry); entry != "" {
				rule.Forbidden = append(rule.Forbidden, entry)
			}
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

// layers returns every layer name the rules mention.
func (r LayerRules) layers() map[string]bool {
	known := make(map[string]bool)

	for _, rule := range r {
		known[rule.Layer] = true

		for _, entry := range rule.Forbidden {
			if !isPathEntry(entry) {
				known[entry] = true
			}
		}
	}

	return known
}

func (r LayerRules) forLayer(layer string) (LayerRule, bool) {
	idx := slices.IndexFunc(r, func(rule LayerRule) bool { return rule.Layer == layer })
	if idx < 0 {
		return LayerRule{}, false
	}

	return r[idx], true
}

// LayeringAnalyzer checks imports against the rules given with -rules.
var LayeringAnalyzer = newLayeringAnalyzer()

func newLayeringAnalyzer() *analysis.Analyzer {
	a := &analysis.Analyzer{
		Name: "layering",
		Doc: "check that packages do not import layers they must not depend on\n\n" +
			"The layer of a package is the innermost path segment naming a layer from the rules.",
	}

	rules := a.Flags.String("rules", DefaultLayerRules, "layer rules, e.g. domain=application,net/http;application=presentation")

	a.Run = func(pass *analysis.Pass) (any, error) {
		parsed, err := ParseLayerRules(*rules)
		if err != nil {
			return nil, err
		}

		return runLayering(pass, parsed)
	}

	return a
}

// NewLayeringAnalyzer returns an analyzer with fixed rules and no flags.
func NewLayeringAnalyzer(rules LayerRules) *analysis.Analyzer {
	return &analysis.Analyzer{
		Name: "layering",
		Doc:  "check that packages do not import layers they must not depend on",
		Run: func(pass *analysis.Pass) (any, error) {
			return runLayering(pass, rules)
		},
	}
}

func runLayering(pass *analysis.Pass, rules LayerRules) (any, error) {
	known := rules.layers()

	own := layerOf(pass.Pkg.Path(), known)
	if own == "" {
		return nil, nil
	}

	rule, ok := rules.forLayer(own)
	if !ok {
		return nil, nil
	}

	for _, file := range pass.Files {
		for _, spec := range file.Imports {
			path, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}

			for _, forbidden := range rule.Forbidden {
				if violates(path, forbidden, known) {
					pass.Reportf(spec.Pos(), "%s layer must not depend on %s: %s imports %q",
						own, forbidden, pass.Pkg.Path(), path)
				}
			}
		}
	}

	return nil, nil
}

func violates(importPath, forbidden string, known map[string]bool) bool {
	if isPathEntry(forbidden) {
		return importPath == forbidden || strings.HasPrefix(importPath, forbidden+"/")
	}

	return layerOf(importPath, known) == forbidden
}

func layerOf(path string, known map[string]bool) string {
	segments := strings.Split(path, "/")

	for i := len(segments) - 1; i >= 0; i-- {
		if known[segments[i]] {
			return segments[i]
		}
	}

	return ""
}

func isPathEntry(entry string) bool {
	return strings.Contains(entry, "/")
}
