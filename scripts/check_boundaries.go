// Command check_boundaries lints import edges between context layers.
// Run from the repository root: go run ./scripts/check_boundaries.go
package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "patchbay"

// layerRule constrains what a layer may import from inside the module.
// Domain stays pure; application sees domain and ports but no adapters or
// platform runtime. Adapters and transport are unconstrained beyond the
// cross-context ban.
type layerRule struct {
	allowedSuffixes []string
	banInfra        bool
}

var layerRules = map[string]layerRule{
	"domain":      {allowedSuffixes: []string{"/domain"}, banInfra: true},
	"application": {allowedSuffixes: []string{"/application", "/domain", "/ports"}, banInfra: true},
}

type violation struct {
	file   string
	line   int
	imp    string
	reason string
}

func main() {
	violations := lintTree("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file != violations[j].file {
			return violations[i].file < violations[j].file
		}
		return violations[i].line < violations[j].line
	})
	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.file, v.line, v.imp, v.reason)
	}
	os.Exit(1)
}

func lintTree(root string) []violation {
	var violations []violation
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		normalized := filepath.ToSlash(path)
		parts := strings.Split(normalized, "/")
		if len(parts) < 4 {
			return nil
		}
		servicePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[1], parts[2])
		violations = append(violations, lintFile(path, normalized, parts[3], servicePrefix)...)
		return nil
	})
	return violations
}

func lintFile(path, normalized, layer, servicePrefix string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{file: normalized, line: 1, reason: "file must parse"}}
	}

	var violations []violation
	rule, ruled := layerRules[layer]
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line

		if strings.HasPrefix(importPath, modulePath+"/contexts/") && !underPrefix(importPath, servicePrefix) {
			violations = append(violations, violation{normalized, line, importPath, "cross-context imports are forbidden"})
		}
		if !ruled {
			continue
		}
		if strings.Contains(importPath, "/adapters/") {
			violations = append(violations, violation{normalized, line, importPath, layer + " must not import adapters"})
		}
		if rule.banInfra && strings.HasPrefix(importPath, modulePath+"/internal/platform/") {
			violations = append(violations, violation{normalized, line, importPath, layer + " must not import platform runtime"})
		}
		if !isStdlib(importPath) && strings.HasPrefix(importPath, modulePath+"/contexts/") && !suffixAllowed(importPath, servicePrefix, rule.allowedSuffixes) {
			violations = append(violations, violation{normalized, line, importPath, layer + " import is outside its allowlist"})
		}
	}
	return violations
}

func suffixAllowed(importPath, servicePrefix string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if underPrefix(importPath, servicePrefix+suffix) {
			return true
		}
	}
	return false
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
